package audit

import "errors"

// ErrSourceRead is returned when a required local source cannot be read.
// It stops the stats flow and makes the process exit non-zero.
var ErrSourceRead = errors.New("failed to read required source")
