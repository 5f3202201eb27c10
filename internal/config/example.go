package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# goaltrack configuration file
# Values can be overridden by GOALTRACK_* environment variables or CLI flags

# Goal file (relative to the working directory)
goal_file = "goal.json"

# External JSON Schema for goal files (embedded schema is used when empty)
# schema_file = "goal.schema.json"

# Journal directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.goaltrack"

# Write a JSONL journal for every run
journal = true

# Command to run after each recorded step
# hook_command = "/path/to/hook.sh"
# hook_args = ["--notify"]

# Console logging
log_level = "info"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
