// Package main is the entry point for holdkit.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/holdkit/internal/app"
	"github.com/dshills/holdkit/internal/backend"
	"github.com/dshills/holdkit/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cliOptions holds the parsed command line.
type cliOptions struct {
	app.Options
	logFile     string
	showVersion bool
}

func run(args []string, stdout, stderr io.Writer) int {
	cli, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	if cli.showVersion {
		fmt.Fprintf(stdout, "holdkit %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	// The terminal owns stderr while the UI runs, so logs go to a file or
	// nowhere.
	logOut := io.Discard
	if cli.logFile != "" {
		f, err := app.OpenLogFile(cli.logFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		logOut = f
	}
	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.LogLevelInfo,
		Output: logOut,
		Prefix: "holdkit",
	})
	app.SetLogger(logger)
	cli.Logger = logger

	application, err := app.New(cli.Options)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		if _, ok := <-signals; ok {
			application.Shutdown()
		}
	}()

	if err := application.Run(); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*cliOptions, error) {
	var cli cliOptions

	fs := flag.NewFlagSet("holdkit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cli.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&cli.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&cli.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	fs.StringVar(&cli.logFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&cli.ScriptPath, "script", "", "Lua script to run before starting")
	fs.StringVar(&cli.ScriptPath, "s", "", "Lua script to run before starting (shorthand)")
	fs.BoolVar(&cli.showVersion, "version", false, "Show version information")
	fs.BoolVar(&cli.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "holdkit - undo/rollback history with long-press controls\n\n")
		fmt.Fprintf(stderr, "Usage: holdkit [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nEnvironment:\n")
		for _, name := range config.EnvVars() {
			fmt.Fprintf(stderr, "  %s\n", name)
		}
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  holdkit                          Start with default settings\n")
		fmt.Fprintf(stderr, "  holdkit -c holdkit.toml          Use a configuration file\n")
		fmt.Fprintf(stderr, "  holdkit -s seed.lua -log-file x  Seed history from Lua, log to x\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return nil, errors.New("unexpected arguments")
	}

	if cli.LogLevel != "" {
		if _, ok := app.ParseLogLevel(cli.LogLevel); !ok {
			fmt.Fprintf(stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", cli.LogLevel)
			return nil, app.ErrInvalidLogLevel
		}
	}

	return &cli, nil
}
