package edit

import (
	"errors"
	"fmt"
)

// Sentinel errors for the edit model.
var (
	// ErrInternal indicates a violated invariant inside the edit engine.
	// It marks a programmer error (for example a conflict-resolution bug),
	// never bad model output.
	ErrInternal = errors.New("internal edit invariant violated")

	// ErrInvalidEdit indicates a file edit that breaks the model's own
	// invariants (creation and deletion both set, replacements on a
	// deletion, and so on).
	ErrInvalidEdit = errors.New("invalid file edit")
)

// internalf wraps ErrInternal with a formatted description.
func internalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}

// invalidf wraps ErrInvalidEdit with a formatted description.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidEdit, fmt.Sprintf(format, args...))
}
