// Package source loads the four inputs of an audit into model records.
//
// Local files are read lazily; the remote registries are downloaded in
// full, hashed and parsed. Every loader also returns a model.SourceInfo
// describing what was read, for the run summary.
package source
