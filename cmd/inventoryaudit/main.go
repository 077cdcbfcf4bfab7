// Package main provides the entry point for the inventoryaudit CLI.
//
// inventoryaudit audits the federal public website inventory. It reports
// per-agency data-quality statistics, cross-checks the inventory against
// the federal .gov registry, and turns the site-scanning dataset into
// candidate additions, candidate removals and scan errors.
//
// Usage:
//
//	inventoryaudit run
//	inventoryaudit stats --public-inventory inventory.csv
//	inventoryaudit compare
//
// See --help for all available options.
package main

import "github.com/joho/godotenv"

func main() {
	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load() //nolint:errcheck // optional file
	Execute()
}
