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

// Package rtxt reads the R.txt symbol tables written by aapt2 --output-text-symbols.
package rtxt

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/blueprint/pathtools"
)

const (
	IntType      = "int"
	IntArrayType = "int[]"

	// Styleable is the resource type whose scalar entries are attribute indexes
	// rather than resource IDs.
	Styleable = "styleable"
)

// Entry is a single line of an R.txt file.
type Entry struct {
	JavaType     string
	ResourceType string
	Name         string
	// Value is the literal text from the file, either a single ID such as
	// 0x7f010000 or a list such as { 0x01010000, 0x7f020000 }.
	Value string
}

// Key identifies an entry within a single R.txt file.
type Key struct {
	ResourceType string
	Name         string
}

func (e Entry) Key() Key {
	return Key{e.ResourceType, e.Name}
}

// String returns the entry formatted as an R.txt line, without the trailing newline.
func (e Entry) String() string {
	return e.JavaType + " " + e.ResourceType + " " + e.Name + " " + e.Value
}

func (e Entry) IsArray() bool {
	return e.JavaType == IntArrayType
}

var idRegexp = regexp.MustCompile(`0x[0-9a-fA-F]+`)

// IDs returns the numeric values of every hexadecimal literal in the entry's value.
func (e Entry) IDs() ([]uint32, error) {
	literals := idRegexp.FindAllString(e.Value, -1)
	ids := make([]uint32, 0, len(literals))
	for _, l := range literals {
		id, err := strconv.ParseUint(l[2:], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid resource id %q in %s: %w", l, e.Name, err)
		}
		ids = append(ids, uint32(id))
	}
	return ids, nil
}

// ParseError is returned for a line that is not a valid R.txt entry.
type ParseError struct {
	Path string
	Line int
	Text string
}

func (x *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: unexpected line in R.txt: %q", x.Path, x.Line, x.Text)
}

var lineRegexp = regexp.MustCompile(`^(int(?:\[\])?) (\w+) (\w+) (.+)$`)

// Parse reads the R.txt file at path. If fixPackageIds is set every value is
// passed through FixPackageIds.
func Parse(fs pathtools.FileSystem, path string, fixPackageIds bool) ([]Entry, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseReader(f, path, fixPackageIds)
}

// ParseReader is like Parse but reads from r. path is only used for error messages.
func ParseReader(r io.Reader, path string, fixPackageIds bool) ([]Entry, error) {
	var ret []Entry

	s := bufio.NewScanner(r)
	s.Buffer(nil, 16*1024*1024)
	lineNum := 0
	for s.Scan() {
		lineNum++
		line := strings.TrimSuffix(s.Text(), "\r")
		if line == "" {
			continue
		}

		m := lineRegexp.FindStringSubmatch(line)
		if m == nil {
			return nil, &ParseError{Path: path, Line: lineNum, Text: line}
		}

		value := m[4]
		if fixPackageIds {
			value = FixPackageIds(value)
		}
		ret = append(ret, Entry{
			JavaType:     m[1],
			ResourceType: m[2],
			Name:         m[3],
			Value:        value,
		})
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return ret, nil
}

var sharedPackageIdRegexp = regexp.MustCompile(`0x(?:00|02)`)

// FixPackageIds rewrites the 0x00 and 0x02 package IDs that aapt assigns when
// linking with --shared-resources to the application package ID 0x7f. The
// generated onResourcesLoaded method later replaces 0x7f with the package ID
// assigned at runtime. value may hold a single ID or a brace-delimited list.
func FixPackageIds(value string) string {
	return sharedPackageIdRegexp.ReplaceAllString(value, "0x7f")
}

// ResourceNames returns the set of names of all entries, regardless of type.
func ResourceNames(entries []Entry) map[string]bool {
	ret := make(map[string]bool, len(entries))
	for _, e := range entries {
		ret[e.Name] = true
	}
	return ret
}
