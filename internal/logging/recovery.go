package logging

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/cockroachdb/errors"
)

// RecoveryHandler turns panics into logged errors.
type RecoveryHandler struct {
	Component string
	// Trace receives the panic banner and stack. Defaults to os.Stderr.
	Trace io.Writer
}

// NewRecoveryHandler creates a recovery handler for a component
func NewRecoveryHandler(component string) *RecoveryHandler {
	return &RecoveryHandler{
		Component: component,
		Trace:     os.Stderr,
	}
}

// WrapError executes fn with panic recovery, returning error on panic
func (r *RecoveryHandler) WrapError(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = r.handlePanic(rec, string(debug.Stack()))
		}
	}()
	return fn()
}

func (r *RecoveryHandler) handlePanic(rec interface{}, stack string) error {
	err := errors.WithHint(errors.Newf("panic in %s: %v", r.Component, rec),
		"rerun with --verbose and report the stack trace above")

	if r.Trace != nil {
		fmt.Fprintf(r.Trace, "\n=== PANIC RECOVERED ===\n")
		fmt.Fprintf(r.Trace, "Component: %s\n", r.Component)
		fmt.Fprintf(r.Trace, "\nStack Trace:\n%s\n", stack)
	}

	New(r.Component).Error("panic_recovered", map[string]interface{}{
		"stack": stack,
	}, err)
	return err
}
