package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultGoalFile  = "goal.json"
	DefaultLogDir    = "~/.goaltrack"
	DefaultJournal   = true
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for goaltrack.
type Config struct {
	// Paths
	GoalFile   string `toml:"goal_file"`
	SchemaFile string `toml:"schema_file"`
	LogDir     string `toml:"log_dir"`

	// Journal enables the per-run JSONL progress journal.
	Journal bool `toml:"journal"`

	// Hooks
	HookCommand string   `toml:"hook_command"`
	HookArgs    []string `toml:"hook_args"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return []string{
		"goal_file",
		"schema_file",
		"log_dir",
		"journal",
		"hook_command",
		"hook_args",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}
