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
	"io/ioutil"
	"os"
	"path/filepath"

	"android/resources/resmerge"
	"android/resources/srcjar"
)

// Source is a rendered R.java file.
type Source struct {
	Package string
	// Path is relative to the source root.
	Path string
	Data []byte
}

// Generate classifies and renders every package of result.
func Generate(result *resmerge.Result, opts *BuildOptions) ([]Source, error) {
	var ret []Source
	for _, p := range result.Packages {
		data, err := RenderBytes(opts.Classify(p), opts.GenerateOnResourcesLoaded)
		if err != nil {
			return nil, fmt.Errorf("failed to render R.java for %s: %w", p.Name, err)
		}
		ret = append(ret, Source{
			Package: p.Name,
			Path:    SourcePath(p.Name),
			Data:    data,
		})
	}
	return ret, nil
}

// WriteSources writes each source under dir. Every file is written to a
// temporary file first and renamed into place, so a failure never leaves a
// partially written R.java behind.
func WriteSources(dir string, sources []Source) error {
	for _, s := range sources {
		if err := writeFileAtomic(filepath.Join(dir, s.Path), s.Data); err != nil {
			return fmt.Errorf("failed to write R.java for %s: %w", s.Package, err)
		}
	}
	return nil
}

// WriteSrcjar writes all sources into a single srcjar at output.
func WriteSrcjar(output string, sources []Source) error {
	w := srcjar.NewWriter(nil)
	for _, s := range sources {
		if err := w.AddData(s.Path, s.Data); err != nil {
			return err
		}
	}
	return w.Write(output)
}

func writeFileAtomic(filename string, data []byte) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}

	f, err := ioutil.TempFile(dir, "."+filepath.Base(filename))
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if err := f.Chmod(0644); err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), filename)
}
