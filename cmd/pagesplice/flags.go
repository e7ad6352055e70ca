package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// targetFlags select where documents are read and whether they are written.
type targetFlags struct {
	root   string
	dryRun bool
}

// runFlags holds all flags for the run command.
type runFlags struct {
	common commonFlags
	target targetFlags
}

// segmentsFlags holds flags for the segments command.
type segmentsFlags struct {
	common commonFlags
	root   string
	family string
	format string
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	root   string
	json   bool
}

// Segment report formats.
const (
	formatText = "text"
	formatYAML = "yaml"
)

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-step details and debug logs")
}

// addTargetFlags adds document root and dry-run flags to a FlagSet.
func addTargetFlags(fs *flag.FlagSet, f *targetFlags) {
	fs.StringVarP(&f.root, "root", "r", "", "document root (overrides config root)")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "report what would change without writing")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
// Usage is printed by runHelp, so pflag's own output is discarded.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseRunFlags parses run command flags and returns positional args.
func parseRunFlags(args []string) (*runFlags, []string, error) {
	fs := newFlagSet("run")
	f := &runFlags{}

	addCommonFlags(fs, &f.common)
	addTargetFlags(fs, &f.target)

	if err := fs.Parse(args); err != nil {
		return nil, nil, flagError(err)
	}
	return f, fs.Args(), nil
}

// parseSegmentsFlags parses segments command flags and returns positional args.
func parseSegmentsFlags(args []string) (*segmentsFlags, []string, error) {
	fs := newFlagSet("segments")
	f := &segmentsFlags{}

	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.root, "root", "r", "", "document root (overrides config root)")
	fs.StringVarP(&f.family, "family", "f", "", "family whose marker catalog to use")
	fs.StringVar(&f.format, "format", formatText, "report format: text, yaml")

	if err := fs.Parse(args); err != nil {
		return nil, nil, flagError(err)
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string) (*doctorFlags, error) {
	fs := newFlagSet("doctor")
	f := &doctorFlags{}

	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.root, "root", "r", "", "document root (overrides config root)")
	fs.BoolVar(&f.json, "json", false, "output results as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, flagError(err)
	}
	return f, nil
}

// flagError classifies a parse error as a usage error. flag.ErrHelp passes
// through so the caller can print the command's usage.
func flagError(err error) error {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
}

// hasVerboseFlag reports whether -v or --verbose appears before any "--".
// main uses it to configure logging before a command parses its flags.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
	}
	return false
}
