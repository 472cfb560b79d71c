// Copyright 2021 Google Inc. All rights reserved.
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

// Package response handles the argument formats build rules pass to the
// resource tools: Ninja response files and GN list literals.
package response

import (
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"unicode"

	"github.com/google/blueprint/pathtools"
)

const noQuote = '\x00'

// ReadRspFile reads a file in Ninja's response file format and returns its contents.
func ReadRspFile(r io.Reader) ([]string, error) {
	var files []string
	var file []byte

	buf, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	isEscaping := false
	quotingStart := byte(noQuote)
	for _, c := range buf {
		switch {
		case isEscaping:
			if quotingStart == '"' {
				if !(c == '"' || c == '\\') {
					// '\"' or '\\' will be escaped under double quoting.
					file = append(file, '\\')
				}
			}
			file = append(file, c)
			isEscaping = false
		case c == '\\' && quotingStart != '\'':
			isEscaping = true
		case quotingStart == noQuote && (c == '\'' || c == '"'):
			quotingStart = c
		case quotingStart != noQuote && c == quotingStart:
			quotingStart = noQuote
		case quotingStart == noQuote && unicode.IsSpace(rune(c)):
			// Current character is a space outside quotes
			if len(file) != 0 {
				files = append(files, string(file))
			}
			file = file[:0]
		default:
			file = append(file, c)
		}
	}

	if len(file) != 0 {
		files = append(files, string(file))
	}

	return files, nil
}

// ExpandArgs replaces every argument of the form @<file> with the contents of
// the response file <file>.
func ExpandArgs(fs pathtools.FileSystem, args []string) ([]string, error) {
	var expandedArgs []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "@") {
			expandedArgs = append(expandedArgs, arg)
			continue
		}

		f, err := fs.Open(strings.TrimPrefix(arg, "@"))
		if err != nil {
			return nil, err
		}
		respArgs, err := ReadRspFile(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		expandedArgs = append(expandedArgs, respArgs...)
	}
	return expandedArgs, nil
}

// ParseGnList parses a list written by GN's string_join or a list literal
// such as ["a", "b"]. A value that does not start with '[' is a single item,
// and an empty value is an empty list.
func ParseGnList(value string) ([]string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if !strings.HasPrefix(value, "[") {
		return []string{value}, nil
	}

	p := &gnListParser{input: value, pos: 1}
	return p.parse()
}

type gnListParser struct {
	input string
	pos   int
}

func (p *gnListParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("invalid GN list %q at offset %d: %s", p.input, p.pos, fmt.Sprintf(format, args...))
}

func (p *gnListParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *gnListParser) parse() ([]string, error) {
	var ret []string
	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, p.errorf("unterminated list")
		}
		if p.input[p.pos] == ']' {
			p.pos++
			break
		}

		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		ret = append(ret, s)

		p.skipSpace()
		if p.pos < len(p.input) && p.input[p.pos] == ',' {
			p.pos++
		} else if p.pos < len(p.input) && p.input[p.pos] != ']' {
			return nil, p.errorf("expected ',' or ']'")
		}
	}

	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, p.errorf("trailing characters")
	}
	return ret, nil
}

func (p *gnListParser) parseString() (string, error) {
	if p.input[p.pos] != '"' {
		return "", p.errorf("expected '\"'")
	}
	p.pos++

	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		p.pos++
		switch {
		case c == '"':
			return sb.String(), nil
		case c == '\\' && p.pos < len(p.input) && strings.IndexByte(`"$\`, p.input[p.pos]) != -1:
			sb.WriteByte(p.input[p.pos])
			p.pos++
		default:
			sb.WriteByte(c)
		}
	}
	return "", p.errorf("unterminated string")
}
