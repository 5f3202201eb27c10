// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.goaltrack/goaltrack.toml or OS-specific config directory)
// 3. Project config file (goaltrack.toml or .goaltrack.toml in the working directory)
// 4. Environment variables (GOALTRACK_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.goaltrack/goaltrack.toml (preferred)
// - Windows: %APPDATA%\goaltrack\goaltrack.toml
// - macOS: ~/Library/Application Support/goaltrack/goaltrack.toml
// - Linux/BSD: $XDG_CONFIG_HOME/goaltrack/goaltrack.toml or ~/.config/goaltrack/goaltrack.toml
package config
