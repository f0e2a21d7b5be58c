// Package patmatch compiles a surface match expression's pattern matrix
// down to a core.Expr built entirely from MatchBool/MatchInt/RecordProj —
// the only case-analysis forms the kernel understands. It implements the
// column-oriented matrix algorithm (pick a column, split on its head
// constructors, recurse on each resulting sub-matrix) rather than a naive
// nested if-chain, so redundant re-scrutinization of the same subterm is
// avoided and missing cases are reported instead of silently dropped.
package patmatch

import "github.com/pion-lang/pion/internal/core"

// Pattern is one column entry of a match row. Unlike core.Expr there is no
// pointer-sharing requirement here — patterns are small and short-lived,
// consumed entirely during compilation.
type Pattern interface{ isPattern() }

// Wildcard never forces the scrutinee and binds nothing.
type Wildcard struct{}

// Ident binds the scrutinee under Name for the rest of the row's RHS.
type Ident struct{ Name string }

// LitPat matches a literal exactly.
type LitPat struct{ Lit core.Lit }

// RecordPat destructures a record irrefutably, one sub-pattern per field.
type RecordPat struct {
	Fields []RecordPatField
}

// RecordPatField pairs a field label with the sub-pattern matched against
// its projection.
type RecordPatField struct {
	Label string
	Pat   Pattern
}

func (Wildcard) isPattern()  {}
func (Ident) isPattern()     {}
func (LitPat) isPattern()    {}
func (RecordPat) isPattern() {}

// IsIrrefutable reports whether p always matches without needing a
// scrutinee case-split (Wildcard, Ident, or a Record of irrefutable
// sub-patterns).
func IsIrrefutable(p Pattern) bool {
	switch pat := p.(type) {
	case Wildcard, Ident:
		return true
	case RecordPat:
		for _, f := range pat.Fields {
			if !IsIrrefutable(f.Pat) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
