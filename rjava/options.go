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
	"android/resources/resmerge"
	"android/resources/rtxt"
)

// BuildOptions controls which resource ID fields of a generated R.java are
// final, and whether an onResourcesLoaded method is generated to rewrite the
// non-final ones when the library is loaded as a shared library.
type BuildOptions struct {
	// HasConstantIds is false when every resource ID is non-final.
	HasConstantIds bool

	// NonFinalNames, when not nil, lists the names of the resources that are
	// non-final. All other resources are final. A nil set with
	// HasConstantIds makes every resource non-final.
	NonFinalNames map[string]bool

	// GenerateOnResourcesLoaded corresponds to linking with
	// --shared-resources or --app-as-shared-lib.
	GenerateOnResourcesLoaded bool

	// ExportConstStyleable makes the styleable attribute index constants
	// non-final as well.
	ExportConstStyleable bool
}

// NewBuildOptions returns options that make every resource final.
func NewBuildOptions() *BuildOptions {
	o := &BuildOptions{}
	o.ExportNoResources()
	return o
}

// ExportNoResources makes all resource IDs final and disables onResourcesLoaded.
func (o *BuildOptions) ExportNoResources() {
	o.HasConstantIds = true
	o.NonFinalNames = map[string]bool{}
	o.GenerateOnResourcesLoaded = false
	o.ExportConstStyleable = false
}

// ExportAllResources makes all resource IDs non-final.
func (o *BuildOptions) ExportAllResources() {
	o.HasConstantIds = false
	o.NonFinalNames = nil
}

// ExportSomeResources makes only the resources named in names non-final.
func (o *BuildOptions) ExportSomeResources(names map[string]bool) {
	o.HasConstantIds = true
	o.NonFinalNames = names
	if o.NonFinalNames == nil {
		o.NonFinalNames = map[string]bool{}
	}
}

// ExportAllStyleables makes the styleable constants that are not int[] non-final.
// They are attribute indexes rather than resource IDs and are final by default.
func (o *BuildOptions) ExportAllStyleables() {
	o.ExportConstStyleable = true
}

func (o *BuildOptions) SetGenerateOnResourcesLoaded() {
	o.GenerateOnResourcesLoaded = true
}

// IsResourceFinal returns true if the field for e should be declared final.
func (o *BuildOptions) IsResourceFinal(e rtxt.Entry) bool {
	switch {
	case e.ResourceType == rtxt.Styleable && e.JavaType != rtxt.IntArrayType:
		return !o.ExportConstStyleable
	case !o.HasConstantIds:
		return false
	case o.NonFinalNames == nil:
		return false
	default:
		return !o.NonFinalNames[e.Name]
	}
}

// ResourceType holds the fields of one nested class of R.
type ResourceType struct {
	Name     string
	Final    []rtxt.Entry
	NonFinal []rtxt.Entry
}

// Title is the resource type name as used in onResourcesLoaded<Title>.
func (t ResourceType) Title() string {
	return title(t.Name)
}

// ClassifiedPackage is a merged package with each entry sorted into final and
// non-final fields.
type ClassifiedPackage struct {
	Package string
	// Types is sorted by resource type name.
	Types []ResourceType
}

func (o *BuildOptions) Classify(p *resmerge.Package) *ClassifiedPackage {
	cp := &ClassifiedPackage{Package: p.Name}
	for _, name := range p.Types() {
		rt := ResourceType{Name: name}
		for _, e := range p.ByType[name] {
			if o.IsResourceFinal(e) {
				rt.Final = append(rt.Final, e)
			} else {
				rt.NonFinal = append(rt.NonFinal, e)
			}
		}
		cp.Types = append(cp.Types, rt)
	}
	return cp
}

// title upper-cases the first letter of each word and lower-cases the rest.
func title(s string) string {
	b := []byte(s)
	start := true
	for i, c := range b {
		switch {
		case c == '-' || c == ' ' || c == '\t':
			start = true
			continue
		case start && 'a' <= c && c <= 'z':
			b[i] = c - 'a' + 'A'
		case !start && 'A' <= c && c <= 'Z':
			b[i] = c - 'A' + 'a'
		}
		start = false
	}
	return string(b)
}
