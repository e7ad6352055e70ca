package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pagesplice <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run        Rewrite and reorder the documents of one or more families")
	fmt.Fprintln(w, "  segments   Show the marker segments of a document")
	fmt.Fprintln(w, "  doctor     Check config, document root and rules")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pagesplice help <command>' for details on a specific command.")
}

// printRunUsage prints usage for the run command.
func printRunUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pagesplice run [families...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Transform every document of the named families (all families if none).")
	fmt.Fprintln(w, "Documents already in canonical form are skipped, so runs can be repeated.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: pagesplice)")
	fmt.Fprintln(w, "  -r, --root <dir>          Document root (overrides config root)")
	fmt.Fprintln(w, "  -n, --dry-run             Report what would change without writing")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-step details and debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  PAGESPLICE_CONFIG         Config file name or path")
	fmt.Fprintln(w, "  PAGESPLICE_ROOT           Document root")
	fmt.Fprintln(w, "  PAGESPLICE_DRY_RUN        true to skip writing")
	fmt.Fprintln(w, "  PAGESPLICE_FAMILIES       Comma-separated families to run")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit status is 1 when any document failed or matched no rule.")
}

// printSegmentsUsage prints usage for the segments command.
func printSegmentsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pagesplice segments <file> --family <name> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Locate the family's reorder markers in a document and show each")
	fmt.Fprintln(w, "segment's offset and length. Nothing is written.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -f, --family <name>       Family whose marker catalog to use")
	fmt.Fprintln(w, "      --format <s>          Report format: text, yaml")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -r, --root <dir>          Document root (overrides config root)")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pagesplice doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the config loads, the document root and family directories")
	fmt.Fprintln(w, "exist, every rule compiles and every listed document is present.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -r, --root <dir>          Document root (overrides config root)")
	fmt.Fprintln(w, "      --json                Output results as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "run":
		printRunUsage(env.Stdout)
	case "segments":
		printSegmentsUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: pagesplice version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: pagesplice help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
