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

package rtxt

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/google/blueprint/pathtools"
)

const stringType = "string"

// StringResourceNames returns the sorted, deduplicated names of the string
// resources in entries.
func StringResourceNames(entries []Entry) []string {
	seen := make(map[string]bool)
	var ret []string
	for _, e := range entries {
		if e.ResourceType == stringType && !seen[e.Name] {
			seen[e.Name] = true
			ret = append(ret, e.Name)
		}
	}
	sort.Strings(ret)
	return ret
}

// StringResourcesAllowlist maps the numeric IDs of the string resources in the
// module R.txt at modulePath to their names, keeping only the strings that are
// also listed by name in the R.txt at allowlistPath.
func StringResourcesAllowlist(fs pathtools.FileSystem, modulePath, allowlistPath string) (map[uint32]string, error) {
	allowlist, err := Parse(fs, allowlistPath, false)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]bool)
	for _, name := range StringResourceNames(allowlist) {
		allowed[name] = true
	}

	module, err := Parse(fs, modulePath, false)
	if err != nil {
		return nil, err
	}

	ret := make(map[uint32]string)
	for _, e := range module {
		if e.ResourceType != stringType || !allowed[e.Name] {
			continue
		}
		id, err := strconv.ParseUint(e.Value, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid value for string %s: %w", modulePath, e.Name, err)
		}
		ret[uint32(id)] = e.Name
	}
	return ret, nil
}
