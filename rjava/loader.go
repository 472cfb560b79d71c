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
	"fmt"

	"android/resources/rtxt"
)

// AppPackageId is the package ID that all canonical resource IDs carry after
// rtxt.FixPackageIds.
const AppPackageId = 0x7f

// PackageIdTransform returns the value that, XORed into a resource ID with
// package ID 0x7f, replaces the package ID with packageId and leaves the
// lower 24 bits alone. It matches the packageIdTransform computed by the
// generated onResourcesLoaded.
func PackageIdTransform(packageId uint8) uint32 {
	return uint32(packageId^AppPackageId) << 24
}

// Loader applies the onResourcesLoaded rewrite of a generated R class to the
// values of a ClassifiedPackage. It is used to check generated values against
// the IDs a shared library receives at runtime.
type Loader struct {
	cp *ClassifiedPackage

	// Values holds the current value of every non-final field, keyed by
	// resource type and name.
	Values map[rtxt.Key][]uint32

	resourcesDidLoad bool
}

func NewLoader(cp *ClassifiedPackage) (*Loader, error) {
	l := &Loader{
		cp:     cp,
		Values: make(map[rtxt.Key][]uint32),
	}
	for _, t := range cp.Types {
		for _, e := range t.NonFinal {
			ids, err := e.IDs()
			if err != nil {
				return nil, err
			}
			l.Values[e.Key()] = ids
		}
	}
	return l, nil
}

// OnResourcesLoaded rewrites the non-final values to packageId. Like the
// generated Java method it may only be called once; a second call panics.
func (l *Loader) OnResourcesLoaded(packageId uint8) {
	if l.resourcesDidLoad {
		panic(fmt.Errorf("onResourcesLoaded called twice for %s", l.cp.Package))
	}
	l.resourcesDidLoad = true

	transform := PackageIdTransform(packageId)
	for _, t := range l.cp.Types {
		for _, e := range t.NonFinal {
			ids := l.Values[e.Key()]
			if e.IsArray() {
				for i := NonSystemIndex(e); i < len(ids); i++ {
					ids[i] ^= transform
				}
			} else if t.Name != rtxt.Styleable {
				for i := range ids {
					ids[i] ^= transform
				}
			}
		}
	}
}
