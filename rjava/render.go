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

// Package rjava generates R.java sources from merged R.txt files.
package rjava

import (
	"bytes"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"android/resources/rtxt"
)

// The assignments in onResourcesLoaded are kept on one line each so the output
// diffs cleanly against aapt-generated R.java files.
//
// Unlike aapt, the rewrite of scalar IDs is split into one method per resource
// type, because apps with many resources exceed the 64KB method size limit of
// the class file format. The order of the helpers follows the class order.
var rJavaTemplate = template.Must(template.New("R.java").Funcs(template.FuncMap{
	"startIndex": NonSystemIndex,
}).Parse(`/* AUTO-GENERATED FILE.  DO NOT MODIFY. */

package {{.Package}};

public final class R {
    private static boolean sResourcesDidLoad;
{{- range .Types}}
    public static final class {{.Name}} {
{{- range .Final}}
        public static final {{.JavaType}} {{.Name}} = {{.Value}};
{{- end}}
{{- range .NonFinal}}
{{- if ne .Value "0"}}
        public static {{.JavaType}} {{.Name}} = {{.Value}};
{{- else}}
        public static {{.JavaType}} {{.Name}};
{{- end}}
{{- end}}
    }
{{- end}}
{{- if .OnResourcesLoaded}}
    public static void onResourcesLoaded(int packageId) {
        assert !sResourcesDidLoad;
        sResourcesDidLoad = true;
        int packageIdTransform = (packageId ^ 0x7f) << 24;
{{- range .Types}}
        onResourcesLoaded{{.Title}}(packageIdTransform);
{{- range .NonFinal}}{{if eq .JavaType "int[]"}}
        for(int i = {{startIndex .}}; i < {{.ResourceType}}.{{.Name}}.length; ++i) {
            {{.ResourceType}}.{{.Name}}[i] ^= packageIdTransform;
        }
{{- end}}{{end}}
{{- end}}
    }
{{- range .Types}}
    private static void onResourcesLoaded{{.Title}} (
            int packageIdTransform) {
{{- range .NonFinal}}{{if and (ne .ResourceType "styleable") (ne .JavaType "int[]")}}
        {{.ResourceType}}.{{.Name}} ^= packageIdTransform;
{{- end}}{{end}}
    }
{{- end}}
{{- end}}
}
`))

type templateData struct {
	*ClassifiedPackage
	OnResourcesLoaded bool
}

// Render writes the R.java source for cp to w.
func Render(w io.Writer, cp *ClassifiedPackage, generateOnResourcesLoaded bool) error {
	return rJavaTemplate.Execute(w, templateData{
		ClassifiedPackage: cp,
		OnResourcesLoaded: generateOnResourcesLoaded,
	})
}

// RenderBytes is like Render but returns the source.
func RenderBytes(cp *ClassifiedPackage, generateOnResourcesLoaded bool) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := Render(buf, cp, generateOnResourcesLoaded); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SourcePath returns the path of the R.java file for pkg relative to the
// source root, e.g. com/example/R.java for com.example.
func SourcePath(pkg string) string {
	return filepath.Join(append(strings.Split(pkg, "."), "R.java")...)
}

var resourceIdRegexp = regexp.MustCompile(`0x[0-9a-f]{8}`)

// NonSystemIndex returns the index of the first application resource ID in an
// int[] entry. Resource arrays are sorted, and framework IDs (package 0x01)
// sort before application IDs (package 0x7f), so the framework IDs that must
// never be rewritten are all at the start. It returns the length of the array
// if it has no application IDs.
func NonSystemIndex(e rtxt.Entry) int {
	ids := resourceIdRegexp.FindAllString(e.Value, -1)
	for i, id := range ids {
		if strings.HasPrefix(id, "0x7f") {
			return i
		}
	}
	return len(ids)
}
