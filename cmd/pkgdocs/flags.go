package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	root    string
	quiet   bool
	verbose bool
	noColor bool
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common    commonFlags
	directory string
	rebuild   bool
	test      bool
	numCPUs   int
	// numCPUsSet distinguishes an explicit --num-cpus 0 from the default.
	numCPUsSet bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.root, "root", "C", "", "package root directory (default \".\")")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show tool commands and diagnostics")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colored output")
}

// newBuildFlagSet registers the build command flags into f.
func newBuildFlagSet(f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.StringVarP(&f.directory, "directory", "d", "", "module source directory (default ROOT/PACKAGE)")
	fs.BoolVarP(&f.rebuild, "rebuild", "r", false, "rebuild exceptions documentation")
	fs.BoolVarP(&f.test, "test", "t", false, "diff rebuilt exceptions documentation against committed sources")
	fs.IntVarP(&f.numCPUs, "num-cpus", "n", 1, "number of CPUs for the exceptions documentation rebuild")
	addCommonFlags(fs, &f.common)
	return fs
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string, stderr io.Writer) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newBuildFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printBuildUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.numCPUsSet = fs.Changed("num-cpus")

	return f, fs.Args(), nil
}

// newInspectFlagSet registers the flags of the doctor and config commands.
// Only doctor has --json.
func newInspectFlagSet(name string, f *commonFlags, jsonOutput *bool) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	addCommonFlags(fs, f)
	if name == "doctor" {
		fs.BoolVar(jsonOutput, "json", false, "output as JSON")
	}
	return fs
}

// parseInspectFlags parses the flags of the doctor and config commands.
func parseInspectFlags(name string, args []string, stderr io.Writer, usage func(io.Writer)) (*commonFlags, bool, error) {
	f := &commonFlags{}
	var jsonOutput bool
	fs := newInspectFlagSet(name, f, &jsonOutput)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}
	if fs.NArg() > 0 {
		return nil, false, unexpectedArgs(fs.Args())
	}
	return f, jsonOutput, nil
}
