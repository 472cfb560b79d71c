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

// This tool merges the R.txt symbol tables of an app and its libraries and
// writes one R.java per package, either into a srcjar or into a directory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"android/resources/makedeps"
	"android/resources/manifest"
	"android/resources/resmerge"
	"android/resources/resmerge/report"
	"android/resources/response"
	"android/resources/rjava"
	"android/resources/rtxt"

	"github.com/google/blueprint/pathtools"
)

type config struct {
	mainRTxt             string
	pkg                  string
	manifest             string
	extraPackages        []string
	extraRTxts           []string
	srcjar               string
	srcjarDir            string
	nonFinalRTxt         string
	exportAll            bool
	exportConstStyleable bool
	sharedResources      bool
	report               string
	depfile              string
	writeIfChanged       bool
	verbose              bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("rjava_gen: ")

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
		fmt.Fprintf(flags.Output(), "  %s -main_r_txt <R.txt> [-package <pkg>|-manifest <AndroidManifest.xml>] -srcjar <out.srcjar>|-srcjar_dir <dir> [options]\n", os.Args[0])
		fmt.Fprintln(flags.Output())

		flags.PrintDefaults()
	}

	var c config
	var extraPackages, extraRTxts, optionsPath string
	flags.StringVar(&c.mainRTxt, "main_r_txt", "", "R.txt of the app, holding the canonical resource values")
	flags.StringVar(&c.pkg, "package", "", "Java package of the app")
	flags.StringVar(&c.manifest, "manifest", "", "AndroidManifest.xml to read the app package from when -package is not set")
	flags.StringVar(&extraPackages, "extra_packages", "", "GN list of library Java packages")
	flags.StringVar(&extraRTxts, "extra_r_txts", "", "GN list of library R.txt files, one per extra package")
	flags.StringVar(&c.srcjar, "srcjar", "", "write the generated R.java files into this srcjar")
	flags.StringVar(&c.srcjarDir, "srcjar_dir", "", "write the generated R.java files under this directory")
	flags.StringVar(&c.nonFinalRTxt, "nonfinal_r_txt", "", "R.txt listing the resources to export as non-final fields")
	flags.BoolVar(&c.exportAll, "export_all", false, "export every resource as a non-final field")
	flags.BoolVar(&c.exportConstStyleable, "export_const_styleable", false, "keep styleable index fields final when exporting")
	flags.BoolVar(&c.sharedResources, "shared_resources", false, "generate onResourcesLoaded for runtime package id rewriting")
	flags.StringVar(&optionsPath, "options", "", "JSON file overriding the flags above")
	flags.StringVar(&c.report, "report", "", "write a merge report textproto to this file")
	flags.StringVar(&c.depfile, "depfile", "", "write a make-style dependency file to this file")
	flags.BoolVar(&c.writeIfChanged, "write_if_changed", false, "only write the report if it is modified")
	flags.BoolVar(&c.verbose, "v", false, "print the number of dropped entries per package")

	flags.Parse(args)

	if flags.NArg() != 0 {
		flags.Usage()
		os.Exit(1)
	}

	if c.extraPackages, err = response.ParseGnList(extraPackages); err != nil {
		log.Fatalf("-extra_packages: %v", err)
	}
	if c.extraRTxts, err = response.ParseGnList(extraRTxts); err != nil {
		log.Fatalf("-extra_r_txts: %v", err)
	}

	if optionsPath != "" {
		options, err := loadOptionsFile(pathtools.OsFs, optionsPath)
		if err != nil {
			log.Fatal(err)
		}
		options.apply(&c)
	}

	if err := c.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		flags.Usage()
		os.Exit(1)
	}

	if err := run(pathtools.OsFs, &c, optionsPath); err != nil {
		log.Fatal(err)
	}
}

func (c *config) validate() error {
	if c.mainRTxt == "" {
		return errors.New("-main_r_txt argument is required")
	}
	if c.srcjar == "" && c.srcjarDir == "" {
		return errors.New("-srcjar or -srcjar_dir argument is required")
	}
	if c.srcjar != "" && c.srcjarDir != "" {
		return errors.New("only one of -srcjar or -srcjar_dir argument is allowed")
	}
	return nil
}

func (c *config) buildOptions(fs pathtools.FileSystem) (*rjava.BuildOptions, error) {
	opts := rjava.NewBuildOptions()
	switch {
	case c.exportAll:
		opts.ExportAllResources()
	case c.nonFinalRTxt != "":
		entries, err := rtxt.Parse(fs, c.nonFinalRTxt, false)
		if err != nil {
			return nil, err
		}
		opts.ExportSomeResources(rtxt.ResourceNames(entries))
	}
	if c.exportConstStyleable {
		opts.ExportAllStyleables()
	}
	if c.sharedResources {
		opts.SetGenerateOnResourcesLoaded()
	}
	return opts, nil
}

// run reads every input through fs and writes the outputs to the real file
// system.
func run(fs pathtools.FileSystem, c *config, optionsPath string) error {
	deps := &makedeps.Deps{}
	deps.Add(c.mainRTxt, c.nonFinalRTxt, optionsPath)
	deps.Add(c.extraRTxts...)

	pkg := c.pkg
	if pkg == "" && c.manifest != "" {
		var err error
		if pkg, err = manifest.ExtractPackage(fs, c.manifest); err != nil {
			return err
		}
		deps.Add(c.manifest)
	}

	opts, err := c.buildOptions(fs)
	if err != nil {
		return err
	}

	result, err := resmerge.Merge(fs, resmerge.Args{
		Package:       pkg,
		MainRTxt:      c.mainRTxt,
		ExtraPackages: c.extraPackages,
		ExtraRTxts:    c.extraRTxts,
	})
	if err != nil {
		return err
	}

	if c.verbose {
		for _, p := range result.Packages {
			if len(p.Dropped) > 0 {
				log.Printf("%s: dropped %d entries missing from %s", p.Name, len(p.Dropped), c.mainRTxt)
			}
		}
	}

	sources, err := rjava.Generate(result, opts)
	if err != nil {
		return err
	}

	if c.srcjar != "" {
		err = rjava.WriteSrcjar(c.srcjar, sources)
		deps.Output = c.srcjar
	} else {
		err = rjava.WriteSources(c.srcjarDir, sources)
		deps.Output = c.srcjarDir
	}
	if err != nil {
		return err
	}

	if c.report != "" {
		message := report.Build(c.mainRTxt, result, opts.IsResourceFinal)
		if err := report.Write(c.report, message, c.writeIfChanged); err != nil {
			return err
		}
	}

	if c.depfile != "" {
		if err := deps.Write(c.depfile); err != nil {
			return err
		}
	}
	return nil
}
