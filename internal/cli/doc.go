// Package cli wires together the Cobra command tree for the reviewhook
// binary.
//
// It defines the root command and all subcommands (serve, review, config,
// version), binds flags, reads configuration, assembles the review pipeline,
// and returns deterministic exit codes.
package cli
