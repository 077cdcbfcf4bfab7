// Package vcs looks up commit metadata for snapshot files.
//
// Git asks the git executable for the committer date of the most recent
// commit touching a path. The audit uses it to stamp each agency with the
// date its inventory snapshot was last refreshed.
package vcs
