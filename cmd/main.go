// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"author-scan/internal/config"
	"author-scan/internal/core"
	"author-scan/internal/document"
	"author-scan/internal/formatters"
	_ "author-scan/internal/formatters/csv"
	_ "author-scan/internal/formatters/json"
	_ "author-scan/internal/formatters/text"
	_ "author-scan/internal/formatters/yaml"
	"author-scan/internal/observability"
	"author-scan/internal/version"
	"author-scan/internal/web"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// cliFlags holds the parsed command line
type cliFlags struct {
	inputFile    string
	configFile   string
	profileName  string
	listProfiles bool
	format       string
	minMentions  int
	topN         int
	outputFile   string
	noColor      bool
	debug        bool
	verbose      bool
	webMode      bool
	webPort      string
	showVersion  bool

	// names of the flags given explicitly
	set map[string]bool
}

// settings are the effective options after config, profile and flags
type settings struct {
	format      string
	minMentions int
	topN        int
	verbose     bool
	debug       bool
	noColor     bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*cliFlags, error) {
	f := &cliFlags{set: make(map[string]bool)}

	fs.StringVar(&f.inputFile, "file", "", "Path to the input document (.pdf, .epub or .txt)")
	fs.StringVar(&f.configFile, "config", "", "Path to configuration file (YAML)")
	fs.StringVar(&f.profileName, "profile", "", "Profile name to use from config file")
	fs.BoolVar(&f.listProfiles, "list-profiles", false, "List available profiles in config file")
	fs.StringVar(&f.format, "format", "", "Output format: text, csv, json, yaml (default: text)")
	fs.IntVar(&f.minMentions, "min-mentions", config.DefaultMinMentions, "Minimum mentions for an author to be listed (1-20)")
	fs.IntVar(&f.topN, "top", config.DefaultTopN, "Number of authors shown in the chart")
	fs.StringVar(&f.outputFile, "output", "", "Path to output file (if not specified, output to stdout)")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging to show each pipeline step")
	fs.BoolVar(&f.verbose, "verbose", false, "Include document metadata and pipeline statistics")
	fs.BoolVar(&f.webMode, "web", false, "Start web server mode instead of processing a file")
	fs.StringVar(&f.webPort, "port", "", "Port for web server (default: 8080)")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})

	if f.inputFile == "" && fs.NArg() > 0 {
		f.inputFile = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("expected one input file, got %d arguments", fs.NArg())
	}
	return f, nil
}

// resolveSettings layers explicit flags over the profile over the config defaults
func resolveSettings(cfg *config.Config, f *cliFlags) (settings, error) {
	if f.profileName != "" {
		if err := cfg.ApplyProfile(f.profileName); err != nil {
			return settings{}, err
		}
	}

	s := settings{
		format:      cfg.Defaults.Format,
		minMentions: cfg.Defaults.MinMentions,
		topN:        cfg.Defaults.TopN,
		verbose:     cfg.Defaults.Verbose || f.verbose,
		debug:       cfg.Defaults.Debug || f.debug,
		noColor:     cfg.Defaults.NoColor || f.noColor,
	}
	if f.set["format"] {
		s.format = f.format
	}
	if f.set["min-mentions"] {
		s.minMentions = f.minMentions
	}
	if f.set["top"] {
		s.topN = f.topN
	}

	if err := config.ValidateMinMentions(s.minMentions); err != nil {
		return settings{}, err
	}
	if err := config.ValidateFormat(s.format); err != nil {
		return settings{}, err
	}
	if s.topN < 1 {
		return settings{}, fmt.Errorf("-top must be positive, got %d", s.topN)
	}
	return s, nil
}

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string, stderr io.Writer) *config.Config {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: author-scan [flags] <file>\n\n")
		fmt.Fprintf(out, "Lists the authors mentioned in a PDF, EPUB or plain-text document,\n")
		fmt.Fprintf(out, "ranked by number of mentions.\n\nFlags:\n")
		fs.PrintDefaults()
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("author-scan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs)

	flags, err := parseFlags(fs, args)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		return fail(stderr, err, true)
	}

	if flags.showVersion {
		fmt.Fprintln(stdout, version.Info())
		return 0
	}

	cfg := loadConfiguration(flags.configFile, stderr)

	if flags.listProfiles {
		for _, name := range cfg.ListProfiles() {
			fmt.Fprintf(stdout, "%-12s %s\n", name, cfg.GetProfile(name).Description)
		}
		return 0
	}

	s, err := resolveSettings(cfg, flags)
	if err != nil {
		return fail(stderr, err, s.noColor)
	}

	// Auto-detect non-interactive environment
	if !isTerminal(stdout) || os.Getenv("NO_COLOR") != "" {
		s.noColor = true
	}
	if s.noColor {
		color.NoColor = true
	}

	observer := observability.New(s.debug, stderr)
	if s.debug && observer.DebugObserver != nil {
		observer.DebugObserver.LogDetail("main", fmt.Sprintf("Command line arguments: %v", args))
		observer.DebugObserver.LogDetail("main", fmt.Sprintf("format=%s min_mentions=%d top=%d", s.format, s.minMentions, s.topN))
	}

	if flags.webMode {
		if flags.inputFile != "" {
			return fail(stderr, fmt.Errorf("-web does not take an input file"), s.noColor)
		}
		port := flags.webPort
		if port == "" {
			port = strconv.Itoa(cfg.Web.Port)
		}
		scanner, err := core.NewScannerFromConfig(cfg, s.minMentions, observer)
		if err != nil {
			return fail(stderr, err, s.noColor)
		}
		if err := web.NewWebServer(port, cfg, scanner, observer).Start(); err != nil {
			return fail(stderr, err, s.noColor)
		}
		return 0
	}

	if flags.inputFile == "" {
		fs.Usage()
		return 1
	}

	report, err := processFile(ctx, cfg, s, flags.inputFile, observer)
	if err != nil {
		return fail(stderr, err, s.noColor)
	}

	output, err := formatters.Export(s.format, report, formatters.FormatterOptions{
		Verbose: s.verbose,
		NoColor: s.noColor || flags.outputFile != "",
		TopN:    s.topN,
	})
	if err != nil {
		return fail(stderr, err, s.noColor)
	}

	if flags.outputFile != "" {
		if err := os.WriteFile(filepath.Clean(flags.outputFile), []byte(output), 0o644); err != nil {
			return fail(stderr, fmt.Errorf("failed to write output file: %w", err), s.noColor)
		}
		fmt.Fprintf(stderr, "Report written to %s\n", flags.outputFile)
		return 0
	}

	fmt.Fprint(stdout, output)
	return 0
}

// processFile validates the extension before reading the file, then runs the pipeline
func processFile(ctx context.Context, cfg *config.Config, s settings, path string, observer *observability.StandardObserver) (*core.Report, error) {
	if _, err := document.FormatFromFilename(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := document.New(path, data)
	if err != nil {
		return nil, err
	}

	scanner, err := core.NewScannerFromConfig(cfg, s.minMentions, observer)
	if err != nil {
		return nil, err
	}
	return scanner.Run(ctx, doc)
}

// fail prints err as one readable line and returns the exit status
func fail(stderr io.Writer, err error, noColor bool) int {
	msg := fmt.Sprintf("Error: %v", err)
	if !noColor {
		msg = color.New(color.FgRed).Sprint(msg)
	}
	fmt.Fprintln(stderr, msg)
	return 1
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
