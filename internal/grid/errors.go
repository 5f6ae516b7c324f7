package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrStructuralConflict rejects a mutation that would break the rectangular/span invariant.
	ErrStructuralConflict = errors.New("structural conflict")
	// ErrInvalidSelection rejects a merge/split or addressing request that is not eligible.
	ErrInvalidSelection = errors.New("invalid selection")
)

// Error is returned by every rejected grid operation. The grid is unchanged when it is returned.
type Error struct {
	Kind   error  `json:"-"`
	Op     string `json:"op"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("grid %s: %s: %s", e.Op, e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func conflict(op, format string, args ...interface{}) *Error {
	return &Error{Kind: ErrStructuralConflict, Op: op, Detail: fmt.Sprintf(format, args...)}
}

func invalid(op, format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInvalidSelection, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// IsStructuralConflict reports whether err is a rejected structural mutation.
func IsStructuralConflict(err error) bool {
	return errors.Is(err, ErrStructuralConflict)
}

// IsInvalidSelection reports whether err is a rejected selection.
func IsInvalidSelection(err error) bool {
	return errors.Is(err, ErrInvalidSelection)
}
