// Package value defines weak-head normal forms (Value), the Closures and
// Telescopes that let NbE push values under binders without renumbering,
// and the Neutral/Elim machinery that represents a computation stuck on a
// free variable or unsolved metavariable.
//
// Values address bound variables with absolute de Bruijn levels rather than
// the relative indices core.Expr uses: a Closure captures an environment
// snapshot once, and levels stay meaningful no matter how many further
// binders get pushed around that snapshot afterwards.
package value

import (
	"fmt"

	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/env"
)

// Value is a term in weak-head normal form.
type Value interface {
	isValue()
	String() string
}

// Type is an alias used wherever a Value is being used as a type, purely
// for readability at call sites (elaborator signatures, telescopes).
type Type = Value

// Lit is a literal value.
type Lit struct{ Lit core.Lit }

func (Lit) isValue()        {}
func (v Lit) String() string { return v.Lit.String() }

// Prim is an unapplied (or not-yet-fully-applied) primitive. A Prim never
// appears with a non-empty spine directly; once applied it becomes part of
// a Neutral's head, or reduces outright via a delta-rule in package nbe.
type Prim struct{ Prim core.Prim }

func (Prim) isValue()        {}
func (v Prim) String() string { return v.Prim.String() }

// Head is the stuck point of a Neutral value.
type Head interface{ isHead() }

type HeadLocalVar struct{ Level env.Level }
type HeadMetaVar struct{ ID int }
type HeadPrim struct{ Prim core.Prim }
type HeadError struct{}

func (HeadLocalVar) isHead() {}
func (HeadMetaVar) isHead()  {}
func (HeadPrim) isHead()     {}
func (HeadError) isHead()    {}

// Elim is one pending elimination in a Neutral's spine.
type Elim interface{ isElim() }

type ElimApp struct {
	Plicity core.Plicity
	Arg     Value
}

type ElimProj struct{ Label string }

type ElimMatchBool struct {
	Then Closure
	Else Closure
}

type ElimMatchInt struct {
	Cases   []IntCaseClosure
	Default Closure
}

// IntCaseClosure is one arm of a neutral MatchInt elimination; unlike
// core.IntCase the RHS is a Closure since it may still reference the
// environment the Neutral's head was built in.
type IntCaseClosure struct {
	Key uint32
	Rhs Closure
}

func (ElimApp) isElim()       {}
func (ElimProj) isElim()      {}
func (ElimMatchBool) isElim() {}
func (ElimMatchInt) isElim()  {}

// Neutral is a value blocked on a free variable, an unsolved metavariable,
// or (if the Error absorbing value is threaded through) a prior error —
// plus the spine of eliminations still pending against it.
type Neutral struct {
	Head  Head
	Spine []Elim
}

func (*Neutral) isValue() {}
func (v *Neutral) String() string {
	s := fmt.Sprintf("%v", v.Head)
	for _, e := range v.Spine {
		switch el := e.(type) {
		case ElimApp:
			prefix := ""
			if el.Plicity == core.Implicit {
				prefix = "@"
			}
			s = fmt.Sprintf("(%s %s%s)", s, prefix, el.Arg)
		case ElimProj:
			s = fmt.Sprintf("%s.%s", s, el.Label)
		case ElimMatchBool, ElimMatchInt:
			s = fmt.Sprintf("match %s { ... }", s)
		}
	}
	return s
}

// FunParam is a function parameter's plicity, optional name, and type.
type FunParam struct {
	Plicity core.Plicity
	Name    *string
	Type    Value
}

// FunType is a dependent function type whose body is a Closure over the
// parameter's bound variable.
type FunType struct {
	Param FunParam
	Body  Closure
}

func (*FunType) isValue() {}
func (v *FunType) String() string { return "forall ... -> ..." }

// FunLit is a function value.
type FunLit struct {
	Param FunParam
	Body  Closure
}

func (*FunLit) isValue() {}
func (v *FunLit) String() string { return "fun ... => ..." }

// RecordType is a telescope of field types.
type RecordType struct{ Telescope Telescope }

func (*RecordType) isValue() {}
func (v *RecordType) String() string { return "{ ... }" }

// RecordField is one evaluated (label, value) pair.
type RecordField struct {
	Label string
	Value Value
}

// RecordLit is a fully evaluated record.
type RecordLit struct{ Fields []RecordField }

func (*RecordLit) isValue() {}
func (v *RecordLit) String() string { return "{ ... }" }

// ListVal is a fully evaluated list of values (see core.ListLit).
type ListVal struct{ Elements []Value }

func (*ListVal) isValue() {}
func (v *ListVal) String() string {
	s := "["
	for i, el := range v.Elements {
		if i > 0 {
			s += ", "
		}
		s += el.String()
	}
	return s + "]"
}

// LocalVar builds the neutral value standing for the free local variable at
// the given level, with an empty spine — the starting point for quoting a
// closure's body under a fresh variable.
func LocalVar(lv env.Level) Value {
	return &Neutral{Head: HeadLocalVar{Level: lv}}
}

// MetaVar builds the neutral value standing for an unsolved metavariable.
func MetaVar(id int) Value {
	return &Neutral{Head: HeadMetaVar{ID: id}}
}

// ErrorValue is the absorbing value corresponding to core.ErrorExpr.
func ErrorValue() Value { return &Neutral{Head: HeadError{}} }

// TYPE, BOOL, INT are the values of the corresponding fixed primitive
// types, used constantly enough by the elaborator to warrant a shorthand.
var (
	TYPE = Prim{Prim: core.PrimType}
	BOOL = Prim{Prim: core.PrimBool}
	INT  = Prim{Prim: core.PrimInt}
)
