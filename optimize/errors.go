package optimize

import "fmt"

// UnsatisfiableError reports that no chain can meet the requested
// constraints. Constraint names the violated constraint so callers can
// relax it and retry.
type UnsatisfiableError struct {
	// Constraint is the violated constraint, e.g. "required_phases",
	// "max_tools", "max_total_entropy", "min_stealth".
	Constraint string

	// Detail describes the specific violation.
	Detail string
}

func (e *UnsatisfiableError) Error() string {
	return fmt.Sprintf("optimize: constraints unsatisfiable: %s (%s)", e.Constraint, e.Detail)
}

// CanceledError reports that the caller's cancellation signal fired during
// optimization. No partial chain is returned alongside it.
type CanceledError struct {
	// Stage is where cancellation was observed, e.g. "solve".
	Stage string

	// Err is the context error that fired.
	Err error
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("optimize: canceled before %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the context error so callers can test with errors.Is
// against context.Canceled or context.DeadlineExceeded.
func (e *CanceledError) Unwrap() error {
	return e.Err
}
