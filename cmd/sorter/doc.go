// Package main hosts the sorter CLI entrypoint and command graph.
//
// The root command sorts one directory; subcommands list the category table,
// show the run journal, and scaffold or validate configuration. Configuration
// resolution, dotenv loading, and logger setup are centralized in the command
// context so individual commands stay small.
package main
