// File: doc.go
// Title: Configuration Package Documentation
// Description: Package config loads the udyr configuration from TOML or YAML
//              files with defaults and environment overrides.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-19 v0.2.0: Typed configuration replaces key/value access

/*
Package config loads the udyr configuration.

The file format is chosen by extension: ".yaml" and ".yml" are decoded with
gopkg.in/yaml.v3, everything else with github.com/BurntSushi/toml. Values are
decoded on top of Default(), so a file only needs the keys it changes.

# Sections

	[log]
	level = "info"        # trace|debug|info|warn|error
	format = "console"    # json|text|console|logfmt

	[parser]
	max_depth = 256
	max_source_length = 1048576

	[server]
	host = "127.0.0.1"
	port = 9480
	reflection = true
	cache_size = 1024

	[history]
	enabled = true
	path = "~/.udyr/history.db"

# Lookup

LoadFromEnv resolves the file in this order: the explicit path, $UDYR_CONFIG,
./udyr.toml, ~/.config/udyr/config.toml. When none exists the defaults are
used. UDYR_LOG_LEVEL and UDYR_SERVER_PORT override the file afterwards.

	cfg, err := mdwconfig.LoadFromEnv(flagPath)
	if err != nil {
		return err
	}
	addr := cfg.Server.Address()
*/
package config
