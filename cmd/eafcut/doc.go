// Package main hosts the eafcut CLI entrypoint and command graph.
//
// The root command runs a batch: every annotation document in the input
// folder is cut into per-utterance audio clips and transcripts in the output
// folder. Subcommands cover configuration scaffolding, dependency checks and
// reading the clip manifest of earlier runs.
package main
