// Copyright 2024 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rjava

import (
	"reflect"
	"strings"
	"testing"

	"android/resources/resmerge"
	"android/resources/rtxt"
)

var canonicalEntries = []rtxt.Entry{
	{"int", "attr", "tint", "0x7f010000"},
	{"int", "drawable", "icon", "0x7f020000"},
	{"int", "drawable", "logo", "0x7f020001"},
	{"int", "string", "app_name", "0x7f030000"},
	{"int[]", "styleable", "Button", "{ 0x0101009a, 0x7f010000 }"},
	{"int", "styleable", "Button_android_text", "0"},
	{"int", "styleable", "Button_tint", "1"},
}

func testPackage(name string) *resmerge.Package {
	return resmerge.NewCanonical(canonicalEntries).Assign(name, "R.txt", canonicalEntries)
}

func TestIsResourceFinal(t *testing.T) {
	scalar := rtxt.Entry{"int", "drawable", "logo", "0x7f020001"}
	other := rtxt.Entry{"int", "drawable", "icon", "0x7f020000"}
	styleableArray := rtxt.Entry{"int[]", "styleable", "Button", "{ 0x7f010000 }"}
	styleableIndex := rtxt.Entry{"int", "styleable", "Button_tint", "1"}

	some := NewBuildOptions()
	some.ExportSomeResources(map[string]bool{"logo": true, "Button": true})

	all := NewBuildOptions()
	all.ExportAllResources()

	allStyleables := NewBuildOptions()
	allStyleables.ExportAllStyleables()

	testCases := []struct {
		name  string
		opts  *BuildOptions
		entry rtxt.Entry
		final bool
	}{
		{"default scalar", NewBuildOptions(), scalar, true},
		{"default styleable array", NewBuildOptions(), styleableArray, true},
		{"default styleable index", NewBuildOptions(), styleableIndex, true},
		{"export all scalar", all, scalar, false},
		{"export all styleable array", all, styleableArray, false},
		{"export all styleable index", all, styleableIndex, true},
		{"export some listed", some, scalar, false},
		{"export some unlisted", some, other, true},
		{"export some listed styleable", some, styleableArray, false},
		{"export const styleable", allStyleables, styleableIndex, false},
		{"export const styleable other", allStyleables, scalar, true},
		{"constant ids without allowlist", &BuildOptions{HasConstantIds: true}, scalar, false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if g := tt.opts.IsResourceFinal(tt.entry); g != tt.final {
				t.Errorf("want final=%v, got %v", tt.final, g)
			}
		})
	}
}

func TestClassifyIsPartition(t *testing.T) {
	opts := NewBuildOptions()
	opts.ExportSomeResources(map[string]bool{"logo": true, "tint": true})
	p := testPackage("com.example")

	cp := opts.Classify(p)
	var types []string
	for _, rt := range cp.Types {
		types = append(types, rt.Name)
		if g, w := len(rt.Final)+len(rt.NonFinal), len(p.ByType[rt.Name]); g != w {
			t.Errorf("%s: want %d entries, got %d", rt.Name, w, g)
		}
		for _, e := range rt.Final {
			if !opts.IsResourceFinal(e) {
				t.Errorf("%s is in the final list", e.Name)
			}
		}
		for _, e := range rt.NonFinal {
			if opts.IsResourceFinal(e) {
				t.Errorf("%s is in the non-final list", e.Name)
			}
		}
	}
	if w := []string{"attr", "drawable", "string", "styleable"}; !reflect.DeepEqual(types, w) {
		t.Errorf("want types %q, got %q", w, types)
	}
}

const sharedLibraryRJava = `/* AUTO-GENERATED FILE.  DO NOT MODIFY. */

package org.chromium.foo;

public final class R {
    private static boolean sResourcesDidLoad;
    public static final class attr {
        public static int tint = 0x7f010000;
    }
    public static final class drawable {
        public static final int icon = 0x7f020000;
        public static int logo = 0x7f020001;
    }
    public static final class string {
        public static int app_name = 0x7f030000;
    }
    public static final class styleable {
        public static final int Button_android_text = 0;
        public static final int Button_tint = 1;
        public static int[] Button = { 0x0101009a, 0x7f010000 };
    }
    public static void onResourcesLoaded(int packageId) {
        assert !sResourcesDidLoad;
        sResourcesDidLoad = true;
        int packageIdTransform = (packageId ^ 0x7f) << 24;
        onResourcesLoadedAttr(packageIdTransform);
        onResourcesLoadedDrawable(packageIdTransform);
        onResourcesLoadedString(packageIdTransform);
        onResourcesLoadedStyleable(packageIdTransform);
        for(int i = 1; i < styleable.Button.length; ++i) {
            styleable.Button[i] ^= packageIdTransform;
        }
    }
    private static void onResourcesLoadedAttr (
            int packageIdTransform) {
        attr.tint ^= packageIdTransform;
    }
    private static void onResourcesLoadedDrawable (
            int packageIdTransform) {
        drawable.logo ^= packageIdTransform;
    }
    private static void onResourcesLoadedString (
            int packageIdTransform) {
        string.app_name ^= packageIdTransform;
    }
    private static void onResourcesLoadedStyleable (
            int packageIdTransform) {
    }
}
`

const exportAllRJava = `/* AUTO-GENERATED FILE.  DO NOT MODIFY. */

package com.example;

public final class R {
    private static boolean sResourcesDidLoad;
    public static final class id {
        public static int placeholder;
        public static int real = 0x7f040000;
    }
    public static final class styleable {
        public static final int View_tag = 0;
    }
}
`

const allFinalRJava = `/* AUTO-GENERATED FILE.  DO NOT MODIFY. */

package com.example;

public final class R {
    private static boolean sResourcesDidLoad;
    public static final class id {
        public static final int placeholder = 0;
        public static final int real = 0x7f040000;
    }
    public static final class styleable {
        public static final int View_tag = 0;
    }
}
`

func TestRender(t *testing.T) {
	idEntries := []rtxt.Entry{
		{"int", "styleable", "View_tag", "0"},
		{"int", "id", "placeholder", "0"},
		{"int", "id", "real", "0x7f040000"},
	}
	idPackage := resmerge.NewCanonical(idEntries).Assign("com.example", "R.txt", idEntries)

	shared := NewBuildOptions()
	shared.ExportSomeResources(map[string]bool{"logo": true, "app_name": true, "Button": true, "tint": true})
	shared.SetGenerateOnResourcesLoaded()

	exportAll := NewBuildOptions()
	exportAll.ExportAllResources()

	testCases := []struct {
		name string
		pkg  *resmerge.Package
		opts *BuildOptions
		want string
	}{
		{"shared library", testPackage("org.chromium.foo"), shared, sharedLibraryRJava},
		{"export all", idPackage, exportAll, exportAllRJava},
		{"all final", idPackage, NewBuildOptions(), allFinalRJava},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderBytes(tt.opts.Classify(tt.pkg), tt.opts.GenerateOnResourcesLoaded)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("incorrect R.java\nwant:\n%s\ngot:\n%s", tt.want, got)
			}
		})
	}
}

func TestRenderEmptyPackage(t *testing.T) {
	got, err := RenderBytes(&ClassifiedPackage{Package: "com.empty"}, true)
	if err != nil {
		t.Fatal(err)
	}
	want := `/* AUTO-GENERATED FILE.  DO NOT MODIFY. */

package com.empty;

public final class R {
    private static boolean sResourcesDidLoad;
    public static void onResourcesLoaded(int packageId) {
        assert !sResourcesDidLoad;
        sResourcesDidLoad = true;
        int packageIdTransform = (packageId ^ 0x7f) << 24;
    }
}
`
	if string(got) != want {
		t.Errorf("incorrect R.java\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestSourcePath(t *testing.T) {
	if g, w := SourcePath("org.chromium.foo"), "org/chromium/foo/R.java"; g != w {
		t.Errorf("want %q, got %q", w, g)
	}
}

func TestTitle(t *testing.T) {
	for in, want := range map[string]string{
		"styleable":    "Styleable",
		"attr":         "Attr",
		"interpolator": "Interpolator",
		"mipMap":       "Mipmap",
		"a-b":          "A-B",
		"":             "",
	} {
		if g := title(in); g != want {
			t.Errorf("title(%q): want %q, got %q", in, want, g)
		}
	}
}

func TestNonSystemIndex(t *testing.T) {
	testCases := []struct {
		value string
		want  int
	}{
		{"{ 0x01000001, 0x7f000002, 0x7f000003 }", 1},
		{"{ 0x7f000002, 0x7f000003 }", 0},
		{"{ 0x01000001, 0x01000002 }", 2},
		{"{  }", 0},
	}
	for _, tt := range testCases {
		t.Run(tt.value, func(t *testing.T) {
			e := rtxt.Entry{"int[]", "styleable", "S", tt.value}
			if g := NonSystemIndex(e); g != tt.want {
				t.Errorf("want %d, got %d", tt.want, g)
			}
		})
	}
}

func TestPackageIdTransform(t *testing.T) {
	transform := PackageIdTransform(0x05)
	id := uint32(0x7fabcdef)

	if g, w := id^transform, uint32(0x05abcdef); g != w {
		t.Errorf("want %#x, got %#x", w, g)
	}
	if g := id ^ transform ^ transform; g != id {
		t.Errorf("applying the transform twice should restore %#x, got %#x", id, g)
	}
	if g := PackageIdTransform(AppPackageId); g != 0 {
		t.Errorf("transform for 0x7f should be 0, got %#x", g)
	}
}

func TestLoader(t *testing.T) {
	opts := NewBuildOptions()
	opts.ExportSomeResources(map[string]bool{"logo": true, "Button": true, "tint": true})
	opts.SetGenerateOnResourcesLoaded()

	l, err := NewLoader(opts.Classify(testPackage("org.chromium.foo")))
	if err != nil {
		t.Fatal(err)
	}
	l.OnResourcesLoaded(0x05)

	want := map[rtxt.Key][]uint32{
		{"attr", "tint"}:        {0x05010000},
		{"drawable", "logo"}:    {0x05020001},
		{"styleable", "Button"}: {0x0101009a, 0x05010000},
	}
	if !reflect.DeepEqual(l.Values, want) {
		t.Errorf("want %x, got %x", want, l.Values)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on second OnResourcesLoaded")
		}
		if err, ok := r.(error); !ok || !strings.Contains(err.Error(), "called twice") {
			t.Errorf("unexpected panic %v", r)
		}
	}()
	l.OnResourcesLoaded(0x05)
}
