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

package rtxt

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/blueprint/pathtools"
)

const sharedRTxt = `int attr actionBarSize 0x00010000
int drawable icon 0x02020001
int[] styleable ActionBar { 0x010100d4, 0x00010000, 0x02010001 }
int styleable ActionBar_background 0
int string app_name 0x7f030000
`

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		fixPackageIds bool

		entries []Entry
		err     string
	}{
		{
			name:  "plain",
			input: sharedRTxt,
			entries: []Entry{
				{"int", "attr", "actionBarSize", "0x00010000"},
				{"int", "drawable", "icon", "0x02020001"},
				{"int[]", "styleable", "ActionBar", "{ 0x010100d4, 0x00010000, 0x02010001 }"},
				{"int", "styleable", "ActionBar_background", "0"},
				{"int", "string", "app_name", "0x7f030000"},
			},
		},
		{
			name:          "fix package ids",
			input:         sharedRTxt,
			fixPackageIds: true,
			entries: []Entry{
				{"int", "attr", "actionBarSize", "0x7f010000"},
				{"int", "drawable", "icon", "0x7f020001"},
				{"int[]", "styleable", "ActionBar", "{ 0x010100d4, 0x7f010000, 0x7f010001 }"},
				{"int", "styleable", "ActionBar_background", "0"},
				{"int", "string", "app_name", "0x7f030000"},
			},
		},
		{
			name:  "blank lines and crlf",
			input: "int id foo 0x7f040000\r\n\r\n\nint id bar 0x7f040001\r\n",
			entries: []Entry{
				{"int", "id", "foo", "0x7f040000"},
				{"int", "id", "bar", "0x7f040001"},
			},
		},
		{
			name:  "empty",
			input: "",
		},
		{
			name:  "bad java type",
			input: "int id foo 0x7f040000\nlong id bar 0x7f040001\n",
			err:   `R.txt:2: unexpected line in R.txt: "long id bar 0x7f040001"`,
		},
		{
			name:  "missing value",
			input: "int id foo\n",
			err:   `R.txt:1: unexpected line`,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ParseReader(strings.NewReader(tt.input), "R.txt", tt.fixPackageIds)
			if tt.err != "" {
				if err == nil {
					t.Fatalf("missing error, want %q", tt.err)
				}
				if !strings.Contains(err.Error(), tt.err) {
					t.Fatalf("incorrect error, want %q got %q", tt.err, err)
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("expected *ParseError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if !reflect.DeepEqual(entries, tt.entries) {
				t.Errorf("incorrect entries\nwant: %q\n got: %q", tt.entries, entries)
			}
		})
	}
}

func TestParseFromFileSystem(t *testing.T) {
	fs := pathtools.MockFs(map[string][]byte{
		"out/lib/R.txt": []byte(sharedRTxt),
	})

	entries, err := Parse(fs, "out/lib/R.txt", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Errorf("want 5 entries, got %d", len(entries))
	}

	if _, err := Parse(fs, "out/missing/R.txt", false); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRoundTrip(t *testing.T) {
	entries, err := ParseReader(strings.NewReader(sharedRTxt), "R.txt", false)
	if err != nil {
		t.Fatal(err)
	}

	var lines []string
	for _, e := range entries {
		lines = append(lines, e.String())
	}
	if g, w := strings.Join(lines, "\n")+"\n", sharedRTxt; g != w {
		t.Errorf("round trip mismatch\nwant: %q\n got: %q", w, g)
	}
}

func TestFixPackageIds(t *testing.T) {
	testCases := []struct {
		in, out string
	}{
		{"0x00010000", "0x7f010000"},
		{"0x02010000", "0x7f010000"},
		{"0x7f010000", "0x7f010000"},
		{"0x01010000", "0x01010000"},
		{"0", "0"},
		{"{ 0x01010000, 0x00010001, 0x02010002 }", "{ 0x01010000, 0x7f010001, 0x7f010002 }"},
	}

	for _, tt := range testCases {
		t.Run(tt.in, func(t *testing.T) {
			once := FixPackageIds(tt.in)
			if once != tt.out {
				t.Errorf("want %q, got %q", tt.out, once)
			}
			if twice := FixPackageIds(once); twice != once {
				t.Errorf("not idempotent: %q then %q", once, twice)
			}
		})
	}
}

func TestEntryIDs(t *testing.T) {
	e := Entry{"int[]", "styleable", "ActionBar", "{ 0x010100d4, 0x7f010000, 0x7f010001 }"}
	ids, err := e.IDs()
	if err != nil {
		t.Fatal(err)
	}
	if w := []uint32{0x010100d4, 0x7f010000, 0x7f010001}; !reflect.DeepEqual(ids, w) {
		t.Errorf("want %x, got %x", w, ids)
	}

	e = Entry{"int", "styleable", "ActionBar_background", "0"}
	ids, err = e.IDs()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("want no ids, got %x", ids)
	}
}

func TestStringResourcesAllowlist(t *testing.T) {
	fs := pathtools.MockFs(map[string][]byte{
		"module/R.txt": []byte(`int string app_name 0x7f030000
int string title 0x7f030001
int string hidden 0x7f030002
int drawable title 0x7f020000
`),
		"allowlist/R.txt": []byte(`int string title 0x7f0a0000
int string app_name 0x7f0a0001
int drawable hidden 0x7f0b0000
`),
	})

	got, err := StringResourcesAllowlist(fs, "module/R.txt", "allowlist/R.txt")
	if err != nil {
		t.Fatal(err)
	}
	want := map[uint32]string{
		0x7f030000: "app_name",
		0x7f030001: "title",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestStringResourceNames(t *testing.T) {
	entries := []Entry{
		{"int", "string", "b", "0x7f030001"},
		{"int", "id", "c", "0x7f040000"},
		{"int", "string", "a", "0x7f030000"},
		{"int", "string", "b", "0x7f030001"},
	}
	if g, w := StringResourceNames(entries), []string{"a", "b"}; !reflect.DeepEqual(g, w) {
		t.Errorf("want %q, got %q", w, g)
	}
}
