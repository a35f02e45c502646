// Package config handles configuration loading for the habits tracker.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files with environment variable
// expansion. Every setting has a default, so the file is optional.
//
// # Configuration File
//
// Location (first match wins):
//
//  1. The --config flag
//  2. Path from HABITS_CONFIG environment variable
//  3. $XDG_CONFIG_HOME/habits/config.yaml (default ~/.config/habits/config.yaml)
//
// Files ending in .toml are parsed as TOML; everything else is YAML.
//
// # Environment Variables
//
// A .env file next to the config file is loaded first. Variables that are
// already set are not overridden. Configuration values can then reference
// environment variables:
//
//	database:
//	  path: "${HOME}/habits/habits.db"
//
// HABITS_DB_PATH overrides database.path after the file is parsed. A leading
// "~" in the database path is expanded to the home directory.
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	watch:
//	  debounce: "250ms"
//
// # Example
//
//	database:
//	  path: "~/.local/share/habits/habits.db"
//	  driver: "sqlite"            # sqlite (pure Go) | sqlite3 (cgo)
//	locale: "en"                  # en | bg
//	logging:
//	  level: "info"               # debug | info | warn | error
//	  format: "text"              # text | json
//	watch:
//	  enabled: true
//	  debounce: "250ms"
//	metrics:
//	  enabled: false
//	  addr: "127.0.0.1:9464"
//	  path: "/metrics"
package config
