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

package manifest

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/google/blueprint/pathtools"
)

type androidManifest struct {
	XMLName xml.Name `xml:"manifest"`

	Package string `xml:"package,attr"`
}

// ExtractPackage returns the package attribute of the root <manifest> element
// of the AndroidManifest.xml at path. It returns an empty string if the
// attribute is not set.
func ExtractPackage(fs pathtools.FileSystem, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return ParsePackage(f, path)
}

func ParsePackage(r io.Reader, path string) (string, error) {
	var m androidManifest
	if err := xml.NewDecoder(r).Decode(&m); err != nil {
		return "", fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return m.Package, nil
}
