// Command arm64cg drives the MIR lowering/encoding pipeline from the
// command line: load a demo MIR program from a JSON fixture file and emit,
// lint, format, cross-reference, or interactively view it. Grounded on the
// teacher's main.go flag-based dispatch, generalized to a per-subcommand
// flag.NewFlagSet since this CLI fans out over several independent
// operations rather than one emulator run.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lookbusy1344/arm64cg/config"
	"github.com/lookbusy1344/arm64cg/dbginfo"
	"github.com/lookbusy1344/arm64cg/emit"
	"github.com/lookbusy1344/arm64cg/lower"
	"github.com/lookbusy1344/arm64cg/mir"
	"github.com/lookbusy1344/arm64cg/mirtools/fixture"
	"github.com/lookbusy1344/arm64cg/mirtools/format"
	"github.com/lookbusy1344/arm64cg/mirtools/lint"
	"github.com/lookbusy1344/arm64cg/mirtools/xref"
	"github.com/lookbusy1344/arm64cg/mirview"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(0)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "version":
		printVersion()
		return
	case "help", "-h", "-help", "--help":
		printHelp()
		return
	case "emit":
		err = runEmit(args)
	case "lint":
		err = runLint(args)
	case "format":
		err = runFormat(args)
	case "xref":
		err = runXref(args)
	case "view":
		err = runView(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		printHelp()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "arm64cg %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("arm64cg %s\n", Version)
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if Date != "unknown" {
		fmt.Printf("Built: %s\n", Date)
	}
}

func printHelp() {
	fmt.Println(`arm64cg - AArch64 MIR lowering, encoding, and inspection

Usage:
  arm64cg <command> [flags] <fixture.json>

Commands:
  emit      lower and encode a MIR fixture, writing raw little-endian words
  lint      check a MIR fixture for out-of-range targets and class mismatches
  format    pretty-print a MIR fixture as assembly-like text
  xref      list every branch target and its referencing instructions
  view      open an interactive TUI over a MIR fixture
  version   print version information
  help      show this message`)
}

func loadFixture(path string) (*mir.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	rec, err := fixture.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return rec, nil
}

func loadLowerOptions() lower.Options {
	cfg, err := config.Load()
	if err != nil {
		return lower.Options{}
	}
	return lower.Options{AllowReservedRelocPlaceholder: cfg.CodeGen.AllowReservedRelocPlaceholder}
}

func runEmit(args []string) error {
	fs := flag.NewFlagSet("emit", flag.ExitOnError)
	name := fs.String("name", "fn", "function name reported to the debug sink")
	out := fs.String("o", "", "output file (default: stdout)")
	allowReserved := fs.Bool("allow-reserved-relocs", false, "leave PIC-style relocations unpatched instead of erroring")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one fixture file")
	}

	rec, err := loadFixture(fs.Arg(0))
	if err != nil {
		return err
	}

	opts := loadLowerOptions()
	if *allowReserved {
		opts.AllowReservedRelocPlaceholder = true
	}

	sink := dbginfo.NewMemSink(0)

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	n, emitErr := emit.Function(w, rec, emit.Options{Name: *name, Lower: opts, DebugSink: sink})
	if emitErr != nil {
		return emitErr
	}
	fmt.Fprintf(os.Stderr, "wrote %d bytes\n", n)
	return nil
}

func runLint(args []string) error {
	fs := flag.NewFlagSet("lint", flag.ExitOnError)
	noTargets := fs.Bool("no-check-targets", false, "skip branch-target range checks")
	noRegClasses := fs.Bool("no-check-reg-classes", false, "skip register class checks")
	noFrameLocs := fs.Bool("no-check-frame-locs", false, "skip frame location alignment checks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one fixture file")
	}

	rec, err := loadFixture(fs.Arg(0))
	if err != nil {
		return err
	}

	opts := lint.DefaultOptions()
	opts.CheckTargets = !*noTargets
	opts.CheckRegClasses = !*noRegClasses
	opts.CheckFrameLocs = !*noFrameLocs

	issues := lint.NewLinter(opts).Lint(rec)
	for _, issue := range issues {
		fmt.Println(issue.String())
	}
	for _, issue := range issues {
		if issue.Level == lint.LevelError {
			os.Exit(1)
		}
	}
	return nil
}

func runFormat(args []string) error {
	fs := flag.NewFlagSet("format", flag.ExitOnError)
	style := fs.String("style", "default", "output style: default, compact, expanded")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one fixture file")
	}

	rec, err := loadFixture(fs.Arg(0))
	if err != nil {
		return err
	}

	var opts *format.Options
	switch *style {
	case "compact":
		opts = format.CompactOptions()
	case "expanded":
		opts = format.ExpandedOptions()
	default:
		opts = format.DefaultOptions()
	}

	fmt.Print(format.NewFormatter(opts).Format(rec))
	return nil
}

func runXref(args []string) error {
	fs := flag.NewFlagSet("xref", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one fixture file")
	}

	rec, err := loadFixture(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Print(xref.Generate(rec).String())
	return nil
}

func runView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one fixture file")
	}

	rec, err := loadFixture(fs.Arg(0))
	if err != nil {
		return err
	}

	v, err := mirview.New(rec, loadLowerOptions())
	if err != nil {
		return err
	}
	return v.Run()
}
