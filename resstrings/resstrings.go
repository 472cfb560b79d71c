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

// Package resstrings reads and rewrites the <string> elements of Android
// values resource files.
//
// The files are matched with regular expressions instead of an XML parser so
// that the structured markup inside strings, such as
// <xliff:g id="APP">%s</xliff:g>, is preserved byte for byte.
package resstrings

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"regexp"
	"sort"
)

var (
	resourcesStartRegexp = regexp.MustCompile(`<resources([^>]*)>`)
	namespaceRegexp      = regexp.MustCompile(`^\s*(xmlns:(\w+)="([^"]+)")`)
	stringStartRegexp    = regexp.MustCompile(`<string ([^>]* )?name="([^">]+)"[^>]*>`)
	stringEndRegexp      = regexp.MustCompile(`</string>`)
)

var ErrNoResources = errors.New("<resources> start tag expected")

// Parse returns the text of every <string> element in data keyed by name,
// with one level of surrounding double quotes removed, and the namespaces
// declared on the <resources> element keyed by prefix.
func Parse(data []byte) (texts map[string]string, namespaces map[string]string, err error) {
	m := resourcesStartRegexp.FindSubmatchIndex(data)
	if m == nil {
		return nil, nil, ErrNoResources
	}
	attrs := data[m[2]:m[3]]
	input := data[m[1]:]

	namespaces = make(map[string]string)
	for len(attrs) > 0 {
		ns := namespaceRegexp.FindSubmatchIndex(attrs)
		if ns == nil {
			break
		}
		namespaces[string(attrs[ns[4]:ns[5]])] = string(attrs[ns[6]:ns[7]])
		attrs = attrs[ns[3]:]
	}

	texts = make(map[string]string)
	for len(input) > 0 {
		start := stringStartRegexp.FindSubmatchIndex(input)
		if start == nil {
			break
		}
		name := string(input[start[4]:start[5]])
		input = input[start[1]:]

		end := stringEndRegexp.FindIndex(input)
		if end == nil {
			return nil, nil, fmt.Errorf("expected closing string tag for %q", name)
		}
		text := input[:end[0]]
		input = input[end[1]:]

		if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
			text = text[1 : len(text)-1]
		}
		texts[name] = string(text)
	}

	return texts, namespaces, nil
}

// Generate returns a values resource file containing strings, sorted by name.
// Every text is wrapped in double quotes.
func Generate(texts map[string]string, namespaces map[string]string) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	buf.WriteString("<resources")
	for _, prefix := range sortedKeys(namespaces) {
		fmt.Fprintf(buf, ` xmlns:%s="%s"`, prefix, namespaces[prefix])
	}
	buf.WriteString(">\n")
	if len(texts) == 0 {
		buf.WriteString("<!-- this file intentionally empty -->\n")
	} else {
		for _, name := range sortedKeys(texts) {
			fmt.Fprintf(buf, "<string name=\"%s\">\"%s\"</string>\n", name, texts[name])
		}
	}
	buf.WriteString("</resources>\n")
	return buf.Bytes()
}

// Filter removes the strings whose name is rejected by keep from the values
// file at path. The file is only rewritten if a string was removed.
func Filter(path string, keep func(name string) bool) (bool, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return false, err
	}

	texts, namespaces, err := Parse(data)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}

	changed := false
	for name := range texts {
		if !keep(name) {
			delete(texts, name)
			changed = true
		}
	}

	if changed {
		if err := ioutil.WriteFile(path, Generate(texts, namespaces), 0666); err != nil {
			return false, err
		}
	}
	return changed, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
