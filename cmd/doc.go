// Package cmd implements the command-line interface for inboxsaver.
//
// This package provides the following commands:
//   - run: Save attachments of labeled unread messages, once or periodically
//   - auth: Authorize access to the mailbox and store the token
//   - labels: List the labels of the mailbox
//   - version: Display version information
//
// The run command is the default command when no subcommand is specified.
package cmd
