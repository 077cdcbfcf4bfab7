// Package csvio reads and writes the CSV files exchanged with the audit.
//
// Readers turn every row into a model.Fields keyed by a normalized header
// name, so callers never deal with column positions. Writers produce the
// report files atomically: rows go to a temporary file in the destination
// directory, which replaces the destination only on Commit.
package csvio
