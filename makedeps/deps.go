// Copyright 2018 Google Inc. All rights reserved.
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

// Package makedeps writes the make-style dependency files that ninja reads
// through the depfile attribute of a rule.
package makedeps

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/google/blueprint/pathtools"
)

type Deps struct {
	Output string
	Inputs []string
}

func (d *Deps) Print() []byte {
	// We don't really have to escape every \, but it's simpler,
	// and ninja will handle it.
	replacer := strings.NewReplacer(" ", "\\ ",
		":", "\\:",
		"#", "\\#",
		"$", "$$",
		"\\", "\\\\")

	b := &bytes.Buffer{}
	fmt.Fprintf(b, "%s:", replacer.Replace(d.Output))
	for _, input := range d.Inputs {
		fmt.Fprintf(b, " %s", replacer.Replace(input))
	}
	fmt.Fprintln(b)
	return b.Bytes()
}

// Add appends inputs, skipping empty strings.
func (d *Deps) Add(inputs ...string) {
	for _, input := range inputs {
		if input != "" {
			d.Inputs = append(d.Inputs, input)
		}
	}
}

// SortUnique sorts the inputs and removes duplicates, so the depfile does not
// depend on the order the inputs were discovered in.
func (d *Deps) SortUnique() {
	sort.Strings(d.Inputs)
	unique := d.Inputs[:0]
	for i, input := range d.Inputs {
		if i == 0 || input != d.Inputs[i-1] {
			unique = append(unique, input)
		}
	}
	d.Inputs = unique
}

// Write writes the depfile to path, leaving it untouched if the contents
// did not change.
func (d *Deps) Write(path string) error {
	d.SortUnique()
	if err := pathtools.WriteFileIfChanged(path, d.Print(), 0666); err != nil {
		return fmt.Errorf("failed to write depfile %s: %w", path, err)
	}
	return nil
}
