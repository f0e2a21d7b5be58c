// Package unify implements structural alpha-equivalence checking plus
// higher-order pattern unification with partial renaming and scope
// checking, as the sole way the elaborator discharges `lhs ≡ rhs : ?`
// equations between values.
package unify

import (
	"fmt"

	"github.com/pion-lang/pion/internal/value"
)

// SpineError explains why a metavariable's spine did not fit the pattern
// fragment (App of distinct local variables only).
type SpineError struct {
	Reason string
}

func (e *SpineError) Error() string { return "non-pattern spine: " + e.Reason }

// RenameError explains why a value could not be renamed into a
// metavariable's solution scope: an out-of-scope variable use, or an
// occurrence of the metavariable being solved.
type RenameError struct {
	Reason string
}

func (e *RenameError) Error() string { return "scope/occurs check failed: " + e.Reason }

// MismatchError is the generic unification failure, carrying both sides'
// (unquoted, for cheap construction) descriptions.
type MismatchError struct {
	Lhs, Rhs value.Value
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %s vs %s", e.Lhs, e.Rhs)
}

// Error is the union spec.md §4.2 describes: Mismatch | Spine | Rename.
// Go represents this as a plain error interface with the three concrete
// types above; callers type-switch when they need to distinguish them for
// diagnostics.
type Error = error
