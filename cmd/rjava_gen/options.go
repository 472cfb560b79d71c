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

package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/blueprint/pathtools"
	"github.com/google/blueprint/proptools"
)

// optionsFile is the optional JSON file passed with -options. Properties that
// are set override the matching command line flag.
type optionsFile struct {
	Package                *string  `json:",omitempty"`
	Extra_packages         []string `json:",omitempty"`
	Extra_r_txts           []string `json:",omitempty"`
	Nonfinal_r_txt         *string  `json:",omitempty"`
	Export_all             *bool    `json:",omitempty"`
	Export_const_styleable *bool    `json:",omitempty"`
	Shared_resources       *bool    `json:",omitempty"`
}

func loadOptionsFile(fs pathtools.FileSystem, filename string) (*optionsFile, error) {
	r, err := fs.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("options file: could not open %s: %w", filename, err)
	}
	defer r.Close()

	options := &optionsFile{}
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(options); err != nil {
		return nil, fmt.Errorf("options file: %s did not parse correctly: %w", filename, err)
	}
	return options, nil
}

// apply overrides the fields of c with the properties set in o.
func (o *optionsFile) apply(c *config) {
	c.pkg = proptools.StringDefault(o.Package, c.pkg)
	if o.Extra_packages != nil {
		c.extraPackages = o.Extra_packages
	}
	if o.Extra_r_txts != nil {
		c.extraRTxts = o.Extra_r_txts
	}
	c.nonFinalRTxt = proptools.StringDefault(o.Nonfinal_r_txt, c.nonFinalRTxt)
	c.exportAll = proptools.BoolDefault(o.Export_all, c.exportAll)
	c.exportConstStyleable = proptools.BoolDefault(o.Export_const_styleable, c.exportConstStyleable)
	c.sharedResources = proptools.BoolDefault(o.Shared_resources, c.sharedResources)
}
