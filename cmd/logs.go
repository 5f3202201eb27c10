package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nibzard/goaltrack/internal/logging"
)

// logCommand tails the latest journal for the project, or lists runs.
func (a *app) logCommand(ctx context.Context, args []string) error {
	fs := newFlagSet("log")
	follow := fs.Bool("f", false, "Follow the journal (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the journal (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	runs := fs.Bool("runs", false, "List journal runs instead")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logDir, err := logging.FindLogDir(a.cfg.LogDir, a.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	if *runs {
		return listRuns(logDir)
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No journal files found.")
		return nil
	}

	fmt.Fprintf(stderr, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stderr, "(Ctrl+C to stop)")
	}
	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

func listRuns(logDir string) error {
	runs, err := logging.FindLogRuns(logDir)
	if err != nil {
		fmt.Fprintln(stdout, "No journal runs found.")
		return nil
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "No journal runs found.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(stdout, "%s  %s  %d journal, %d records\n",
			run.RunID, run.ModTime.Local().Format(time.DateTime), len(run.Files), len(run.RecordFiles))
		for _, rec := range run.RecordFiles {
			fmt.Fprintf(stdout, "    %s\n", filepath.Base(rec))
		}
	}
	return nil
}
