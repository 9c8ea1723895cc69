// Package dataset turns the encrypted blob into records.
//
// Load is all-or-nothing: a missing file, a blob that fails authentication,
// invalid UTF-8 or a malformed JSON array each return a typed error and no
// records. The caller is expected to stop there.
package dataset
