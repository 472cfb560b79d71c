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

// Package resmerge assigns the resource IDs of a fully linked R.txt to the
// R.txt files of the libraries that were linked into it.
package resmerge

import (
	"errors"
	"fmt"
	"sort"

	"android/resources/rtxt"

	"github.com/google/blueprint/pathtools"
)

var ErrCountMismatch = errors.New("need one R.txt file per extra package")

type DuplicatePackageError struct {
	Package string
}

func (x *DuplicatePackageError) Error() string {
	return fmt.Sprintf("package name %q appeared twice. All android_resources targets must use "+
		"unique package names, or no package name at all", x.Package)
}

// Canonical holds the authoritative value for every resource in the final link.
type Canonical struct {
	entries map[rtxt.Key]rtxt.Entry
}

func NewCanonical(entries []rtxt.Entry) *Canonical {
	c := &Canonical{entries: make(map[rtxt.Key]rtxt.Entry, len(entries))}
	for _, e := range entries {
		c.entries[e.Key()] = e
	}
	return c
}

func (c *Canonical) Lookup(key rtxt.Key) (rtxt.Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

func (c *Canonical) Len() int {
	return len(c.entries)
}

// Package is the set of canonical entries that belong to one Java package.
type Package struct {
	Name string
	RTxt string

	// ByType holds the entries of each resource type in the order they
	// appeared in the package's R.txt.
	ByType map[string][]rtxt.Entry

	// Dropped lists the entries of the package's R.txt that have no
	// counterpart in the canonical table.
	Dropped []rtxt.Key
}

// Types returns the package's resource types in sorted order.
func (p *Package) Types() []string {
	types := make([]string, 0, len(p.ByType))
	for t := range p.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func (p *Package) Len() int {
	n := 0
	for _, entries := range p.ByType {
		n += len(entries)
	}
	return n
}

func (p *Package) add(e rtxt.Entry) {
	p.ByType[e.ResourceType] = append(p.ByType[e.ResourceType], e)
}

type Args struct {
	// Package is the package of the module that produced MainRTxt. It may be
	// empty, and may also appear in ExtraPackages when an apk and a resources
	// module share a manifest.
	Package string

	// MainRTxt is the R.txt of the final link containing the real values of
	// all resource IDs.
	MainRTxt string

	// ExtraPackages lists additional packages to generate R.java files for,
	// with one R.txt in ExtraRTxts per package. The values in those files are
	// ignored and replaced by the ones from MainRTxt.
	ExtraPackages []string
	ExtraRTxts    []string
}

type Result struct {
	Canonical *Canonical
	Packages  []*Package
}

func (r *Result) DroppedCount() int {
	n := 0
	for _, p := range r.Packages {
		n += len(p.Dropped)
	}
	return n
}

// Merge parses MainRTxt into the canonical table and builds one Package per
// requested package from the entries of its R.txt that exist in the
// canonical table.
func Merge(fs pathtools.FileSystem, args Args) (*Result, error) {
	if len(args.ExtraPackages) != len(args.ExtraRTxts) {
		return nil, fmt.Errorf("%w: got %d packages and %d R.txt files", ErrCountMismatch,
			len(args.ExtraPackages), len(args.ExtraRTxts))
	}

	packages := append([]string(nil), args.ExtraPackages...)
	rTxts := append([]string(nil), args.ExtraRTxts...)
	if args.Package != "" && !inList(args.Package, packages) {
		packages = append(packages, args.Package)
		rTxts = append(rTxts, args.MainRTxt)
	}

	mainEntries, err := rtxt.Parse(fs, args.MainRTxt, true)
	if err != nil {
		return nil, err
	}
	canonical := NewCanonical(mainEntries)

	ret := &Result{Canonical: canonical}
	seen := make(map[string]bool)
	for i, name := range packages {
		if seen[name] {
			return nil, &DuplicatePackageError{Package: name}
		}
		seen[name] = true

		entries, err := rtxt.Parse(fs, rTxts[i], false)
		if err != nil {
			return nil, err
		}
		ret.Packages = append(ret.Packages, canonical.Assign(name, rTxts[i], entries))
	}

	return ret, nil
}

// Assign builds a Package from entries, replacing each placeholder value with
// the canonical one. Entries missing from the canonical table are recorded in
// Package.Dropped rather than treated as errors: a library shipped as several
// AARs may list resources in its R.txt that live in AARs that were not linked,
// and the code referencing them is not linked either.
func (c *Canonical) Assign(name, rTxt string, entries []rtxt.Entry) *Package {
	p := &Package{
		Name:   name,
		RTxt:   rTxt,
		ByType: make(map[string][]rtxt.Entry),
	}
	for _, e := range entries {
		if canonical, ok := c.Lookup(e.Key()); ok {
			p.add(canonical)
		} else {
			p.Dropped = append(p.Dropped, e.Key())
		}
	}
	return p
}

func inList(s string, list []string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
