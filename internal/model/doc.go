// Package model defines the records and report rows used by inventoryaudit.
//
// Input records:
//   - InventoryMapEntry / InventoryMap: agency to inventory URL mapping
//   - PublicInventoryRecord: one row of the public website inventory
//   - FederalRecord: one row of the federal .gov registry
//   - ScannerRecord: one row of the site-scanning dataset
//
// Output rows (each has a CSVRecord method and a matching *Header):
//   - InventoryStats, InventoryAnalysis
//   - AdditionCandidate, RemovalCandidate, ScanError
//
// Run holds the working state of a flow; RunSummary merges finished flows
// for the summary writers and the history database.
package model
