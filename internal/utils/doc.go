// Package utils provides shared helpers for reading input and inspecting
// the terminal.
//
// # I/O Utilities
//
//   - ReadInput: reads a named file, or standard input for "-"
//   - ReadStdin: reads all piped data from a reader
//
// # Terminal Utilities
//
//   - IsTerminal: checks if a file is attached to a terminal
package utils
