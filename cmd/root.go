// Package cmd implements the goaltrack command line.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/goaltrack/internal/config"
	"github.com/nibzard/goaltrack/internal/logging"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	logger  *log.Logger
	journal *logging.Journal
}

// Run executes the goaltrack CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("goaltrack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stderr)
		return fmt.Errorf("no command given")
	}
	subcommand, rest := remaining[0], remaining[1:]

	cfg := cws.Config
	a := &app{
		cfg:     cfg,
		sources: cws,
		logger:  logging.NewConsoleFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller),
	}
	a.logger.Debug("config loaded", "goal_file", cfg.GoalFile, "files", strings.Join(cws.Files, ","))
	defer a.closeJournal()

	switch subcommand {
	case "init":
		return a.initCommand(rest)
	case "validate":
		return a.validateCommand(rest)
	case "next":
		return a.nextCommand(rest)
	case "remaining":
		return a.remainingCommand(rest)
	case "status":
		return a.statusCommand(rest)
	case "advance":
		return a.advanceCommand(ctx, rest)
	case "check":
		return a.checkCommand(rest)
	case "log":
		return a.logCommand(ctx, rest)
	case "config":
		return a.configCommand(rest)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openJournal starts the run journal when enabled. Failures are logged and
// the command continues without one.
func (a *app) openJournal() *logging.Journal {
	if a.journal != nil || !a.cfg.Journal {
		return a.journal
	}
	j, err := logging.OpenJournal(a.cfg.LogDir, a.cfg.ProjectRoot)
	if err != nil {
		a.logger.Warn("journal disabled", "err", err)
		return nil
	}
	a.logger.Debug("journal opened", "path", j.LogPath)
	a.journal = j
	return j
}

func (a *app) closeJournal() {
	if err := a.journal.Close(); err != nil {
		a.logger.Warn("closing journal", "err", err)
	}
}

// record appends ev to the journal if there is one.
func (a *app) record(ev logging.Event) {
	if err := a.openJournal().Log(ev); err != nil {
		a.logger.Warn("journal write failed", "event", ev.Event, "err", err)
	}
}

// newFlagSet returns a subcommand flag set writing errors to stderr.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("goaltrack "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseInterspersed parses args allowing flags after positional arguments,
// e.g. "advance step-2 --at 2024-01-01T00:00:00.000Z".
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "goaltrack version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "goaltrack - Track forward-only progress through a goal plan")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  goaltrack [global options] <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  init -plan <file>        Create the goal file from a JSON or YAML plan")
	fmt.Fprintln(w, "  validate [file]          Validate a goal file against the schema and its plan")
	fmt.Fprintln(w, "  next                     Show the next required step")
	fmt.Fprintln(w, "  remaining                List the steps still to do")
	fmt.Fprintln(w, "  status                   Show progress through the plan")
	fmt.Fprintln(w, "  advance <step-id>        Record completion of the next step")
	fmt.Fprintln(w, "  check <previous> [next]  Verify that progress only moved forward")
	fmt.Fprintln(w, "  log                      Show the latest run journal")
	fmt.Fprintln(w, "  config                   Show the effective configuration")
	fmt.Fprintln(w, "  version                  Show version information")
	fmt.Fprintln(w, "  help                     Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	out := fs.Output()
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(out)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Init Options:")
	fmt.Fprintln(w, "  -plan string   Plan file (.json, .yaml or .yml)")
	fmt.Fprintln(w, "  -force         Overwrite an existing goal file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Status Options:")
	fmt.Fprintln(w, "  -json          Print the summary as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Advance Options:")
	fmt.Fprintln(w, "  -at string     Completion timestamp (default now, "+timestampHint+")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Options:")
	fmt.Fprintln(w, "  -quiet         Print only true or false")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Log Options:")
	fmt.Fprintln(w, "  -f, -follow    Follow the journal (like tail -f)")
	fmt.Fprintln(w, "  -n int         Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -runs          List journal runs instead")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example       Print an example configuration file")
}
