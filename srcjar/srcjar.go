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

// Package srcjar writes hermetic zip archives of generated sources. Entries
// are sorted and carry a fixed timestamp so the output only depends on the
// contents.
package srcjar

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/blueprint/pathtools"
)

// DefaultTime is the modification time used for all entries, matching the
// timestamp soong_zip writes into jars.
var DefaultTime = time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC)

type ConflictingFileError struct {
	Dest string
	Prev string
	Src  string
}

func (x ConflictingFileError) Error() string {
	return fmt.Sprintf("destination %q has two files %q and %q", x.Dest, x.Prev, x.Src)
}

type entry struct {
	dest string
	// src is the file the data came from, or empty for in-memory data.
	src  string
	data []byte
}

// Writer collects archive entries and writes them in sorted order.
type Writer struct {
	fs      pathtools.FileSystem
	entries map[string]*entry
}

func NewWriter(fs pathtools.FileSystem) *Writer {
	if fs == nil {
		fs = pathtools.OsFs
	}
	return &Writer{
		fs:      fs,
		entries: make(map[string]*entry),
	}
}

func (w *Writer) add(e *entry) error {
	e.dest = filepath.ToSlash(e.dest)
	if strings.HasPrefix(e.dest, "/") || e.dest == "" {
		return fmt.Errorf("invalid archive path %q", e.dest)
	}
	if prev, exists := w.entries[e.dest]; exists {
		if prev.src != e.src || !bytes.Equal(prev.data, e.data) {
			return ConflictingFileError{Dest: e.dest, Prev: prev.src, Src: e.src}
		}
		return nil
	}
	w.entries[e.dest] = e
	return nil
}

// AddFile adds the contents of the file at src as dest.
func (w *Writer) AddFile(dest, src string) error {
	f, err := w.fs.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	return w.add(&entry{dest: dest, src: src, data: data})
}

// AddData adds data as dest.
func (w *Writer) AddData(dest string, data []byte) error {
	return w.add(&entry{dest: dest, data: data})
}

func (w *Writer) sortedEntries() []*entry {
	ret := make([]*entry, 0, len(w.entries))
	for _, e := range w.entries {
		ret = append(ret, e)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].dest < ret[j].dest })
	return ret
}

// WriteTo writes the archive to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	counter := &countingWriter{w: out}
	zw := zip.NewWriter(counter)
	for _, e := range w.sortedEntries() {
		header := &zip.FileHeader{
			Name:     e.dest,
			Method:   zip.Deflate,
			Modified: DefaultTime,
		}
		header.SetMode(0644)
		f, err := zw.CreateHeader(header)
		if err != nil {
			return counter.n, err
		}
		if _, err := f.Write(e.data); err != nil {
			return counter.n, err
		}
	}
	err := zw.Close()
	return counter.n, err
}

// Write writes the archive to a temporary file next to output and renames it
// into place, so output is either complete or untouched.
func (w *Writer) Write(output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0777); err != nil {
		return err
	}

	f, err := ioutil.TempFile(filepath.Dir(output), "."+filepath.Base(output))
	if err != nil {
		return fmt.Errorf("cannot create temporary file for %s: %w", output, err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if err := f.Chmod(0644); err != nil {
		return err
	}

	if _, err := w.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	return os.Rename(f.Name(), output)
}

// WriteInfoFile writes output + ".info" with one "<archive path>,<source path>"
// line per entry that was added from a file.
func (w *Writer) WriteInfoFile(output string) error {
	buf := &bytes.Buffer{}
	for _, e := range w.sortedEntries() {
		if e.src != "" {
			fmt.Fprintf(buf, "%s,%s\n", e.dest, e.src)
		}
	}
	return ioutil.WriteFile(output+".info", buf.Bytes(), 0666)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
