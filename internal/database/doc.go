// Package database stores the history of audit runs in SQLite.
//
// Every run saves its summary and the per-agency rows of
// inventory_stats.csv, so later runs can be compared with earlier ones.
// The database is a single CGO-free SQLite file (modernc.org/sqlite)
// under the XDG data directory.
package database
