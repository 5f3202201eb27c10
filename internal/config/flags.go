package config

import (
	"flag"
	"strings"

	"github.com/nibzard/goaltrack/internal/utils"
)

// flagFields maps flag names to config field names.
var flagFields = map[string]string{
	"goal":           "goal_file",
	"schema":         "schema_file",
	"log-dir":        "log_dir",
	"journal":        "journal",
	"hook":           "hook_command",
	"hook-args":      "hook_args",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// registerFlags binds the config flags to fs using cfg's current values as
// defaults. It returns a function that applies flags needing conversion after
// fs has been parsed.
func registerFlags(cfg *Config, fs *flag.FlagSet) func() {
	fs.StringVar(&cfg.GoalFile, "goal", cfg.GoalFile, "Path to goal file")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Path to an external goal file JSON Schema")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Journal directory")
	fs.BoolVar(&cfg.Journal, "journal", cfg.Journal, "Write a JSONL journal for this run")
	fs.StringVar(&cfg.HookCommand, "hook", cfg.HookCommand, "Command to run after each recorded step")

	hookArgs := strings.Join(cfg.HookArgs, ",")
	fs.StringVar(&hookArgs, "hook-args", hookArgs, "Comma-separated extra arguments for the hook")

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	return func() {
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "hook-args" {
				cfg.HookArgs = utils.SplitAndTrim(hookArgs, ",")
			}
		})
	}
}

// parseFlags parses CLI flags into cfg and updates source tracking.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(appName, flag.ContinueOnError)
	}

	apply := registerFlags(cfg, fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	apply()

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})
	return nil
}
