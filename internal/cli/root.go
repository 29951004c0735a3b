// Package cli parses the command line and wires the run together:
// config, logging, ledger lock, scan, reconcile, and either a status
// render, a bulk archive pass, or the interactive checkup.
package cli

import (
	"errors"
	"flag"
	"fmt"

	"clipkeeper/internal/config"
)

type options struct {
	status          bool
	archiveUploaded bool
	archiveAll      bool
	archiveDir      string
	configPath      string
	reset           bool
	clean           bool
	ignoreUploaded  bool
	noInfo          bool
}

func Run(args []string) error {
	var opts options
	fs := flag.NewFlagSet("clipkeeper", flag.ContinueOnError)
	fs.BoolVar(&opts.status, "status", false, "print the watchlist and totals instead of running a checkup")
	fs.BoolVar(&opts.archiveUploaded, "archive-uploaded", false, "archive every uploaded, not yet archived recording")
	fs.BoolVar(&opts.archiveUploaded, "a", false, "shorthand for --archive-uploaded")
	fs.BoolVar(&opts.archiveAll, "archive-all", false, "archive every tracked recording, uploaded or not")
	fs.StringVar(&opts.archiveDir, "archive-dir", "", "override the archive output directory")
	fs.StringVar(&opts.configPath, "config", config.DefaultPath, "path to the configuration file")
	fs.StringVar(&opts.configPath, "c", config.DefaultPath, "shorthand for --config")
	fs.BoolVar(&opts.reset, "reset", false, "wipe the ledger and start tracking from scratch")
	fs.BoolVar(&opts.clean, "clean", false, "drop ledger entries whose file no longer exists")
	fs.BoolVar(&opts.ignoreUploaded, "ignore-uploaded", false, "do not revisit already uploaded recordings")
	fs.BoolVar(&opts.ignoreUploaded, "ignore", false, "shorthand for --ignore-uploaded")
	fs.BoolVar(&opts.ignoreUploaded, "i", false, "shorthand for --ignore-uploaded")
	fs.BoolVar(&opts.noInfo, "no-info", false, "suppress informational log output")
	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if err := validateOptions(opts); err != nil {
		return err
	}
	return run(opts)
}

// validateOptions rejects flag combinations with no sensible meaning.
func validateOptions(opts options) error {
	if opts.archiveUploaded && opts.archiveAll {
		return errors.New("--archive-uploaded and --archive-all are mutually exclusive")
	}
	if opts.reset && (opts.status || opts.archiveUploaded || opts.archiveAll || opts.clean) {
		return errors.New("--reset cannot be combined with other operations")
	}
	if opts.status && (opts.archiveUploaded || opts.archiveAll) {
		return errors.New("--status cannot be combined with archive operations")
	}
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Println("clipkeeper: track recorded videos through upload, archive, and cleanup")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  clipkeeper [flags]")
	fmt.Println()
	fmt.Println("Without flags, clipkeeper scans the watched directory, reconciles the")
	fmt.Println("ledger, and walks you through a checkup of every pending recording.")
	fmt.Println()
	fmt.Println("Flags:")
	fs.PrintDefaults()
}
