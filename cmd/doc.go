// Package cmd implements the gmailkit command-line interface.
//
// Commands are built with cobra. Each subcommand lives in its own file and
// is produced by a newXCmd constructor wired up in root.go. Authentication
// state is shared across commands through per-account token files managed
// by the internal/google package.
package cmd
