package fetcher

import (
	"fmt"
	"sync/atomic"
)

// Sequencer issues monotonically increasing fetch cycle ids. Only the most
// recently issued id is current.
type Sequencer struct {
	counter uint64
}

// NewSequencer returns a Sequencer whose first id is 1.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Next issues a new id and makes it current.
func (s *Sequencer) Next() uint64 {
	return atomic.AddUint64(&s.counter, 1)
}

// Current returns the most recently issued id, or 0 before the first.
func (s *Sequencer) Current() uint64 {
	return atomic.LoadUint64(&s.counter)
}

// IsCurrent reports whether id is still the newest issued id.
func (s *Sequencer) IsCurrent(id uint64) bool {
	return id == s.Current()
}

// Outcome is how a fetch cycle ended.
type Outcome int

const (
	// OutcomeNone - no cycle has completed since mount.
	OutcomeNone Outcome = iota
	// OutcomeLoaded - a non-empty payload replaced the state.
	OutcomeLoaded
	// OutcomeEmpty - an empty payload replaced the state with its empty form.
	OutcomeEmpty
	// OutcomeHTTPError - the backend answered with a non-success status.
	OutcomeHTTPError
	// OutcomeFailed - transport or parse failure.
	OutcomeFailed
	// OutcomeSuperseded - a newer cycle was issued; the response was dropped.
	OutcomeSuperseded
)

// String returns the metric label form of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeLoaded:
		return "loaded"
	case OutcomeEmpty:
		return "empty"
	case OutcomeHTTPError:
		return "http_error"
	case OutcomeFailed:
		return "failed"
	case OutcomeSuperseded:
		return "superseded"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}
