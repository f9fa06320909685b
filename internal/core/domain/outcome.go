package domain

// OutcomeStatus classifies the result of a per-file operation.
type OutcomeStatus uint8

const (
	// OutcomeUnchanged means the operation had nothing to do.
	OutcomeUnchanged OutcomeStatus = iota
	// OutcomeChanged means the operation modified the module.
	OutcomeChanged
	// OutcomeSkipped means the file was skipped for a recoverable reason.
	OutcomeSkipped
	// OutcomeAborted means the operation failed and the batch must stop.
	OutcomeAborted
)

// String returns the status name.
func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeChanged:
		return "changed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unchanged"
	}
}

// Outcome is the result of a per-file operation. Err carries the reason for
// Skipped and the failure for Aborted outcomes.
type Outcome struct {
	Status OutcomeStatus
	Err    error
}

// Unchanged returns an outcome for an operation that had nothing to do.
func Unchanged() Outcome {
	return Outcome{Status: OutcomeUnchanged}
}

// Changed returns an outcome for an operation that modified the module.
func Changed() Outcome {
	return Outcome{Status: OutcomeChanged}
}

// Skipped returns a recoverable per-file outcome.
func Skipped(reason error) Outcome {
	return Outcome{Status: OutcomeSkipped, Err: reason}
}

// Aborted returns a fatal outcome.
func Aborted(err error) Outcome {
	return Outcome{Status: OutcomeAborted, Err: err}
}

// IsChanged reports whether the module was modified.
func (o Outcome) IsChanged() bool {
	return o.Status == OutcomeChanged
}

// IsAborted reports whether the batch must stop.
func (o Outcome) IsAborted() bool {
	return o.Status == OutcomeAborted
}
