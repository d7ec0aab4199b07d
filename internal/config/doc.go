// Package config loads the cwlogs TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/cwlogs/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing, zero or empty, use defaults
//
// String values are trimmed and paths starting with ~ are expanded against
// the user's home directory.
//
// # Default Values
//
//   - region, profile: empty (resolved by the AWS SDK)
//   - tick_ms: 200 (UI refresh)
//   - tail_interval_ms: 1000
//   - fetch_timeout_ms: 10000 (0 disables)
//   - log_group_page_size: 50
//   - event_page_size: 100
//   - tail_buffer_limit: 2000
//   - workers: 1
//   - log_file: ~/.local/state/cwlogs/cwlogs.log
//   - log_level: info
//   - theme: Nightfox
//
// # TOML Format
//
// Example config.toml:
//
//	region = "eu-west-1"
//	profile = "staging"
//	tail_interval_ms = 2000
//	theme = "Kanagawa"
//
//	[[extract]]
//	name = "request"
//	path = "request_id"
//
//	[[extract]]
//	name = "error"
//	path = "error.kind"
//
// Command-line flags for region and profile override the file.
package config
