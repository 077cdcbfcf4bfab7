// Package pipeline runs the audit as two flows of steps.
//
// The stats flow loads the inventory map and the federal registry, then
// makes one pass over the public inventory that aggregates statistics and
// streams the registry analysis. The reports flow downloads the
// site-scanning dataset and writes the addition, removal and scan-error
// reports.
//
// Each flow owns a model.Run that its steps read and fill in. Steps log
// and record non-critical problems in the Run and return nil; an error
// returned by a step stops its flow. Runner executes flows through an
// errgroup whose limit defaults to one, so flows run one after the other
// unless more parallelism is requested.
package pipeline
