// Package main hosts the plexdate CLI entrypoint and command graph.
//
// The root command sets the added date of one library item (--title) or of
// every row in a CSV file (--csv). It resolves configuration, builds the
// logger, takes the run lock, connects to Plex, and hands each request to the
// updater. The config subcommands scaffold and check the TOML file.
package main
