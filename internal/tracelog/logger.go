// Package tracelog narrates tdfa.Build's subset-construction decisions
// (state creation, kernel sizes, bijection merges) to stderr when a caller
// opts in, and gives cmd/taglex the same phase-header convention for its own
// startup narration.
package tracelog

import (
	"fmt"
	"io"
	"os"
)

// Logger gates writes to an io.Writer behind an enabled flag.
type Logger struct {
	enabled bool
	out     io.Writer
}

// New creates a new logger instance.
func New(enabled bool) *Logger {
	return &Logger{
		enabled: enabled,
		out:     os.Stderr,
	}
}

// SetOutput sets the output writer for the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
}

// Enabled returns whether the logger is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Section marks the start of a named phase, e.g. "tdfa determinisation".
func (l *Logger) Section(name string) {
	if l.enabled {
		fmt.Fprintf(l.out, "\n[taglex] === %s ===\n", name)
	}
}

// StateCreated narrates a freshly allocated TDFA state: its index and how
// many configurations its kernel holds. isStart marks the subset
// construction's initial state.
func (l *Logger) StateCreated(idx, numConfigurations int, isStart bool) {
	if !l.enabled {
		return
	}
	if isStart {
		fmt.Fprintf(l.out, "[taglex] created state %d (start), %d configurations\n", idx, numConfigurations)
		return
	}
	fmt.Fprintf(l.out, "[taglex] created state %d, %d configurations\n", idx, numConfigurations)
}

// BijectionHit narrates a subset-construction step that reused an existing
// state via register-bijection instead of allocating a new one.
// fallbackCopies is the number of extra CopyFrom operations the merge added
// for renamed registers; 0 means the renamed transition operations alone
// were enough.
func (l *Logger) BijectionHit(reusedState, fallbackCopies int) {
	if !l.enabled {
		return
	}
	if fallbackCopies == 0 {
		fmt.Fprintf(l.out, "[taglex] bijection match: reusing state %d\n", reusedState)
		return
	}
	fmt.Fprintf(l.out, "[taglex] bijection match: reusing state %d with %d fallback copies\n", reusedState, fallbackCopies)
}
