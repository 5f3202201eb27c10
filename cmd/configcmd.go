package cmd

import (
	"fmt"
	"strings"

	"github.com/nibzard/goaltrack/internal/config"
)

// configCommand prints the effective configuration and where each value
// came from.
func (a *app) configCommand(args []string) error {
	fs := newFlagSet("config")
	example := fs.Bool("example", false, "Print an example configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	cfg := a.cfg
	values := map[string]string{
		"goal_file":      cfg.GoalFile,
		"schema_file":    cfg.SchemaFile,
		"log_dir":        cfg.LogDir,
		"journal":        fmt.Sprint(cfg.Journal),
		"hook_command":   cfg.HookCommand,
		"hook_args":      strings.Join(cfg.HookArgs, ","),
		"log_level":      cfg.LogLevel,
		"log_format":     cfg.LogFormat,
		"log_timestamps": fmt.Sprint(cfg.LogTimestamps),
		"log_caller":     fmt.Sprint(cfg.LogCaller),
	}

	if file := a.sources.GetConfigFile(); file != "" {
		fmt.Fprintf(stdout, "Config file: %s\n", file)
	} else {
		fmt.Fprintln(stdout, "Config file: (none)")
	}
	fmt.Fprintf(stdout, "Project root: %s\n", cfg.ProjectRoot)
	fmt.Fprintln(stdout)
	for _, field := range config.Fields() {
		value := values[field]
		if value == "" {
			value = "(unset)"
		}
		fmt.Fprintf(stdout, "%-15s %-40s [%s]\n", field, value, a.sources.Sources[field])
	}
	return nil
}
