// Package config loads, normalizes, and validates plexdate configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PLEX_URL and PLEX_TOKEN, optionally sourced from a .env file in the working
// directory. The Config type centralizes every knob the CLI needs so the Plex
// connection, target library, and log output are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
