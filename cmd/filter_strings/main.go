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

// This tool removes the strings that are not listed in an allowlist R.txt
// from the localized values-<locale>/*.xml files of the requested locales.
// Shared resource libraries use it to ship only the translations that the
// embedding app actually loads from them.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"android/resources/locale"
	"android/resources/response"
	"android/resources/resstrings"
	"android/resources/rtxt"

	"github.com/google/blueprint/pathtools"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("filter_strings: ")

	args, err := response.ExpandArgs(pathtools.OsFs, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	flags := flag.NewFlagSet("flags", flag.ExitOnError)

	// Hide the flag package to prevent accidental references to flag instead of flags.
	flag := struct{}{}
	_ = flag

	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(flags.Output(), "  %s -allowlist_r_txt <R.txt> -locales <GN list> <strings.xml>...\n", os.Args[0])
		fmt.Fprintln(flags.Output())

		flags.PrintDefaults()
	}

	allowlistRTxt := flags.String("allowlist_r_txt", "", "R.txt listing the strings to keep")
	locales := flags.String("locales", "", "GN list of Chromium locales whose strings are filtered")
	verbose := flags.Bool("v", false, "print the files that were rewritten")

	flags.Parse(args)

	if *allowlistRTxt == "" {
		fmt.Fprintln(os.Stderr, "-allowlist_r_txt argument is required")
		flags.Usage()
		os.Exit(1)
	}

	localeList, err := response.ParseGnList(*locales)
	if err != nil {
		log.Fatalf("-locales: %v", err)
	}

	changed, err := filterStrings(pathtools.OsFs, *allowlistRTxt, localeList, flags.Args())
	if err != nil {
		log.Fatal(err)
	}
	if *verbose {
		for _, path := range changed {
			log.Printf("filtered %s", path)
		}
	}
}

// filterStrings filters every localized strings file in paths whose locale is
// one of locales, and returns the files that were rewritten. The allowlist is
// read through fs.
func filterStrings(fs pathtools.FileSystem, allowlistRTxt string, locales []string, paths []string) ([]string, error) {
	entries, err := rtxt.Parse(fs, allowlistRTxt, false)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]bool)
	for _, name := range rtxt.StringResourceNames(entries) {
		allowed[name] = true
	}
	keep := func(name string) bool { return allowed[name] }

	wanted := make(map[string]bool)
	for _, l := range locales {
		wanted[l] = true
	}

	var changed []string
	for _, path := range paths {
		qualifier, ok := locale.FindLocaleInStringResourcePath(path)
		if !ok {
			continue
		}
		chromium, ok := locale.FromAndroidLocale(qualifier)
		if !ok || !wanted[chromium] {
			continue
		}

		filtered, err := resstrings.Filter(path, keep)
		if err != nil {
			return nil, err
		}
		if filtered {
			changed = append(changed, path)
		}
	}
	return changed, nil
}
