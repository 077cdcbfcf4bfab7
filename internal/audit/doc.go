// Package audit reconciles the public website inventory with the federal
// registries.
//
// The package has no I/O of its own. Callers feed it records and it
// returns report rows:
//
//   - Aggregator counts websites, bureaus and offices per agency and keeps
//     the global occurrence count of every website.
//   - Resolver turns the aggregation into inventory_stats.csv rows, adding
//     duplicate counts and snapshot dates.
//   - MatchRecord compares a public inventory row with every registry row.
//   - Additions, Removals and ScanErrors classify site-scanner rows.
//   - CompareRuns diffs two stored runs.
//
// Boolean columns of the scanner dataset are text and are compared as the
// literal strings "true" and "false".
package audit
