package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/goaltrack/internal/utils"
)

// Environment variable names.
const (
	EnvGoal          = "GOALTRACK_GOAL"
	EnvSchema        = "GOALTRACK_SCHEMA"
	EnvLogDir        = "GOALTRACK_LOG_DIR"
	EnvJournal       = "GOALTRACK_JOURNAL"
	EnvHook          = "GOALTRACK_HOOK"
	EnvHookArgs      = "GOALTRACK_HOOK_ARGS"
	EnvLogLevel      = "GOALTRACK_LOG_LEVEL"
	EnvLogFormat     = "GOALTRACK_LOG_FORMAT"
	EnvLogTimestamps = "GOALTRACK_LOG_TIMESTAMPS"
	EnvLogCaller     = "GOALTRACK_LOG_CALLER"
)

// loadFromEnv overrides config from GOALTRACK_* environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	str := func(name, field string, target *string) {
		if v := os.Getenv(name); v != "" {
			*target = v
			sources[field] = SourceEnv
		}
	}
	var boolErr error
	boolean := func(name, field string, target *bool) {
		v := os.Getenv(name)
		if v == "" {
			return
		}
		b, err := parseBool(v)
		if err != nil {
			if boolErr == nil {
				boolErr = fmt.Errorf("%s: %w", name, err)
			}
			return
		}
		*target = b
		sources[field] = SourceEnv
	}

	str(EnvGoal, "goal_file", &cfg.GoalFile)
	str(EnvSchema, "schema_file", &cfg.SchemaFile)
	str(EnvLogDir, "log_dir", &cfg.LogDir)
	boolean(EnvJournal, "journal", &cfg.Journal)
	str(EnvHook, "hook_command", &cfg.HookCommand)
	if v := os.Getenv(EnvHookArgs); v != "" {
		cfg.HookArgs = utils.SplitAndTrim(v, ",")
		sources["hook_args"] = SourceEnv
	}
	str(EnvLogLevel, "log_level", &cfg.LogLevel)
	str(EnvLogFormat, "log_format", &cfg.LogFormat)
	boolean(EnvLogTimestamps, "log_timestamps", &cfg.LogTimestamps)
	boolean(EnvLogCaller, "log_caller", &cfg.LogCaller)

	return boolErr
}

// parseBool accepts strconv booleans plus yes/no and on/off.
func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", v)
	}
	return b, nil
}
