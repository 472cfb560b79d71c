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

// Package locale converts between Chromium locale names (en, en-GB, es-419)
// and Android resource locale qualifiers (en, en-rGB, b+sr+Latn).
package locale

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Android releases before Lollipop only understand the obsolete codes.
var chromiumToAndroid = map[string]string{
	"es-419": "es-rUS",
	"fil":    "tl",
	"he":     "iw",
	"id":     "in",
	"yi":     "ji",
}

var androidToChromiumLanguage = map[string]string{
	"tl": "fil",
	"iw": "he",
	"in": "id",
	"ji": "yi",
	// "no" is not a real language.
	"no": "nb",
}

// ToAndroidLocale converts a Chromium locale name into an Android locale qualifier.
func ToAndroidLocale(chromium string) string {
	if android, ok := chromiumToAndroid[chromium]; ok {
		return android
	}

	lang, region, hasRegion := strings.Cut(chromium, "-")
	if !hasRegion || region == "" {
		return lang
	}

	if android, ok := chromiumToAndroid[lang]; ok {
		lang = android
	}

	return lang + "-r" + region
}

// ToAndroidLocaleList converts a list of Chromium locales and sorts the result.
func ToAndroidLocaleList(chromium []string) []string {
	ret := make([]string, 0, len(chromium))
	for _, l := range chromium {
		ret = append(ret, ToAndroidLocale(l))
	}
	sort.Strings(ret)
	return ret
}

var (
	// An ISO 639 language code with an optional "-r" and region code. Before
	// Lollipop only 2-letter codes are supported.
	legacyQualifierRegexp = regexp.MustCompile(`^([a-z]{2,3})(-r([A-Z]+))?$`)

	// BCP 47 tags, supported since Nougat, e.g. b+en+US, b+ja+Latn, b+ja+JP+Latn.
	bcp47QualifierRegexp = regexp.MustCompile(`^b\+([a-z]{2,3})(\+.+)?$`)

	allUppercaseRegexp = regexp.MustCompile(`^[A-Z]+$`)
)

// FromAndroidLocale converts an Android locale qualifier into a Chromium
// locale name. It returns false if android is not a locale qualifier.
func FromAndroidLocale(android string) (string, bool) {
	var lang, region string
	if m := legacyQualifierRegexp.FindStringSubmatch(android); m != nil {
		lang = m[1]
		region = m[3]
	} else if m := bcp47QualifierRegexp.FindStringSubmatch(android); m != nil {
		lang = m[1]
		// The first all-uppercase subtag is the region, which may come after
		// a script subtag.
		for _, tag := range strings.Split(m[2], "+") {
			if allUppercaseRegexp.MatchString(tag) {
				region = tag
				break
			}
		}
	}

	if lang == "" {
		return "", false
	}

	if lang == "es" && region == "US" {
		return "es-419", true
	}

	if chromium, ok := androidToChromiumLanguage[lang]; ok {
		lang = chromium
	}
	if region == "" {
		return lang, true
	}
	return lang + "-" + region, true
}

func IsAndroidLocaleQualifier(s string) bool {
	return legacyQualifierRegexp.MatchString(s) || bcp47QualifierRegexp.MatchString(s)
}

// FindLocaleInStringResourcePath returns the locale qualifier of a path of the
// form .../values-<locale>/<name>.xml.
func FindLocaleInStringResourcePath(path string) (string, bool) {
	if !strings.HasSuffix(path, ".xml") {
		return "", false
	}
	const prefix = "values-"
	dir := filepath.Base(filepath.Dir(path))
	if !strings.HasPrefix(dir, prefix) {
		return "", false
	}
	qualifier := strings.TrimPrefix(dir, prefix)
	if !IsAndroidLocaleQualifier(qualifier) {
		return "", false
	}
	return qualifier, true
}
