// Package core defines the core term syntax that elaboration produces:
// a small, first-order calculus with dependent function types, dependent
// records, a fixed-point primitive, and literal/record case-splitting.
//
// Sub-terms are shared by pointer — building a Let or FunType does not
// copy its type/body, it references the already-constructed *Expr — so a
// large core program stays cheap to construct and to traverse structurally.
// Terms are treated as immutable once built.
package core

import (
	"fmt"

	"github.com/pion-lang/pion/internal/env"
)

// Plicity is the visibility of a function parameter or argument.
type Plicity int

const (
	// Explicit arguments are written at every call site.
	Explicit Plicity = iota
	// Implicit arguments are inserted by the elaborator unless given
	// explicitly with a leading '@'.
	Implicit
)

func (p Plicity) String() string {
	if p == Implicit {
		return "implicit"
	}
	return "explicit"
}

// Prim names a built-in with a fixed closed type. Arithmetic, comparison,
// fix, and the Eq/List family reduce (delta-rule) once fully applied; see
// package nbe.
type Prim int

const (
	PrimType Prim = iota
	PrimBool
	PrimInt
	PrimAdd
	PrimSub
	PrimMul
	PrimEq
	PrimLt
	PrimFix
	PrimEqType // the propositional equality type former `Eq`
	PrimRefl
	PrimSubst
	PrimList
	PrimLen
	PrimPush
	PrimAppend
	PrimBoolRec
)

var primNames = map[Prim]string{
	PrimType:    "Type",
	PrimBool:    "Bool",
	PrimInt:     "Int",
	PrimAdd:     "add",
	PrimSub:     "sub",
	PrimMul:     "mul",
	PrimEq:      "eq",
	PrimLt:      "lt",
	PrimFix:     "fix",
	PrimEqType:  "Eq",
	PrimRefl:    "refl",
	PrimSubst:   "subst",
	PrimList:    "List",
	PrimLen:     "len",
	PrimPush:    "push",
	PrimAppend:  "append",
	PrimBoolRec: "bool_rec",
}

func (p Prim) String() string {
	if s, ok := primNames[p]; ok {
		return s
	}
	return fmt.Sprintf("prim%d", int(p))
}

// LookupPrim resolves a surface identifier to a primitive, if it names one.
func LookupPrim(name string) (Prim, bool) {
	for p, n := range primNames {
		if n == name {
			return p, true
		}
	}
	return 0, false
}

// Arity is the number of arguments a primitive's delta-rule fires on, or -1
// if the primitive never reduces on its own (e.g. type formers like List).
// The list primitives, fix, bool_rec and subst take leading implicit
// arguments in their signatures (see elaborate.primType); those implicit
// applications are counted in this arity, even where the delta-rule below
// never reads them back out. The arithmetic and comparison primitives take
// no implicit argument.
func (p Prim) Arity() int {
	switch p {
	case PrimAdd, PrimSub, PrimMul, PrimEq, PrimLt:
		return 2
	case PrimLen:
		// len @A xs: implicit element-type witness, the list.
		return 2
	case PrimPush:
		// push @A xs x: implicit element-type witness, the list, the element.
		return 3
	case PrimAppend:
		// append @A xs ys: implicit element-type witness, both lists.
		return 3
	case PrimFix:
		// fix @A @B f x: two implicit type args, the function, the argument.
		return 4
	case PrimBoolRec:
		// bool_rec @P cond then else
		return 4
	case PrimSubst:
		// subst @A @x @y @P (eq : Eq x y) (p : P x) : P y
		return 6
	default:
		return -1
	}
}

// Lit is a literal constant.
type Lit struct {
	IsBool bool
	Bool   bool
	Int    uint32
}

func (l Lit) String() string {
	if l.IsBool {
		return fmt.Sprintf("%v", l.Bool)
	}
	return fmt.Sprintf("%d", l.Int)
}

// Expr is a core term. Terms are built directly as struct literals of the
// types below and held as Expr interface values.
type Expr interface {
	isExpr()
	String() string
}

// ErrorExpr is the absorbing value produced whenever elaboration reports a
// diagnostic. It unifies with anything and never causes a second error.
type ErrorExpr struct{}

func (ErrorExpr) isExpr()        {}
func (ErrorExpr) String() string { return "#error" }

// PrimExpr references a named primitive.
type PrimExpr struct{ Prim Prim }

func (PrimExpr) isExpr()         {}
func (e PrimExpr) String() string { return e.Prim.String() }

// LitExpr is a literal.
type LitExpr struct{ Lit Lit }

func (LitExpr) isExpr()         {}
func (e LitExpr) String() string { return e.Lit.String() }

// LocalVar is a relative de Bruijn index; 0 is the most recently bound
// variable.
type LocalVar struct{ Index env.Index }

func (LocalVar) isExpr() {}
func (e LocalVar) String() string { return fmt.Sprintf("@%d", int(e.Index)) }

// MetaVar is an absolute metavariable identifier.
type MetaVar struct{ ID int }

func (MetaVar) isExpr() {}
func (e MetaVar) String() string { return fmt.Sprintf("?%d", e.ID) }

// Let binds one variable, visible in Body only.
type Let struct {
	Name *string
	Type Expr
	Init Expr
	Body Expr
}

func (*Let) isExpr() {}
func (e *Let) String() string {
	name := "_"
	if e.Name != nil {
		name = *e.Name
	}
	return fmt.Sprintf("let %s : %s = %s; %s", name, e.Type, e.Init, e.Body)
}

// Param is a function parameter (FunType/FunLit) carrying plicity and an
// optional name used only for diagnostics and pretty-printing.
type Param struct {
	Plicity Plicity
	Name    *string
	Type    Expr
}

// FunType is a dependent function type `forall (x : A) -> B`.
type FunType struct {
	Param Param
	Body  Expr
}

func (*FunType) isExpr() {}
func (e *FunType) String() string {
	return fmt.Sprintf("forall (%s%s : %s) -> %s", plicityPrefix(e.Param.Plicity), paramName(e.Param.Name), e.Param.Type, e.Body)
}

// FunLit is a function literal `fun x => e`.
type FunLit struct {
	Param Param
	Body  Expr
}

func (*FunLit) isExpr() {}
func (e *FunLit) String() string {
	return fmt.Sprintf("fun (%s%s : %s) => %s", plicityPrefix(e.Param.Plicity), paramName(e.Param.Name), e.Param.Type, e.Body)
}

// Arg is a function application argument, carrying plicity.
type Arg struct {
	Plicity Plicity
	Expr    Expr
}

// FunApp is function application `f x`.
type FunApp struct {
	Fun Expr
	Arg Arg
}

func (*FunApp) isExpr() {}
func (e *FunApp) String() string {
	return fmt.Sprintf("(%s %s%s)", e.Fun, plicityPrefix(e.Arg.Plicity), e.Arg.Expr)
}

// Field is one (label, expr) pair of a record type/literal.
type Field struct {
	Label string
	Expr  Expr
}

// RecordType is an ordered telescope of field types, each in a scope
// extended by all preceding fields.
type RecordType struct{ Fields []Field }

func (*RecordType) isExpr() {}
func (e *RecordType) String() string {
	return fmt.Sprintf("{%s}", fieldsString(e.Fields, ":"))
}

// RecordLit is an ordered record value; unlike RecordType, no field's
// expression is in scope for a later field.
type RecordLit struct{ Fields []Field }

func (*RecordLit) isExpr() {}
func (e *RecordLit) String() string {
	return fmt.Sprintf("{%s}", fieldsString(e.Fields, "="))
}

// RecordProj projects a single labelled field.
type RecordProj struct {
	Scrut Expr
	Label string
}

func (*RecordProj) isExpr() {}
func (e *RecordProj) String() string { return fmt.Sprintf("%s.%s", e.Scrut, e.Label) }

// MatchBool is core boolean case analysis; both arms are mandatory.
type MatchBool struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (*MatchBool) isExpr() {}
func (e *MatchBool) String() string {
	return fmt.Sprintf("match %s { true => %s, false => %s }", e.Cond, e.Then, e.Else)
}

// IntCase is one arm of a MatchInt.
type IntCase struct {
	Key uint32
	Rhs Expr
}

// MatchInt is core integer case analysis. Cases are sorted ascending by
// key with no duplicates; Default is always present.
type MatchInt struct {
	Scrut   Expr
	Cases   []IntCase
	Default Expr
}

func (*MatchInt) isExpr() {}
func (e *MatchInt) String() string {
	s := "match " + e.Scrut.String() + " { "
	for _, c := range e.Cases {
		s += fmt.Sprintf("%d => %s, ", c.Key, c.Rhs)
	}
	s += "_ => " + e.Default.String() + " }"
	return s
}

func plicityPrefix(p Plicity) string {
	if p == Implicit {
		return "@"
	}
	return ""
}

func paramName(n *string) string {
	if n == nil {
		return "_"
	}
	return *n
}

func fieldsString(fields []Field, sep string) string {
	s := ""
	for i, f := range fields {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s%s%s", f.Label, sep, f.Expr)
	}
	return s
}

// ListLit is a literal list of elements, all of the same (elaborator
// checked) element type. Not part of the minimal Expr enumeration spelled
// out in the distilled core calculus, but present in the reference
// implementation this core is modeled on; without it the `List`/`len`/
// `push`/`append` primitives would have no way to ever construct a
// non-neutral list value, so it is carried forward here.
type ListLit struct{ Elements []Expr }

func (*ListLit) isExpr() {}
func (e *ListLit) String() string {
	s := "["
	for i, el := range e.Elements {
		if i > 0 {
			s += ", "
		}
		s += el.String()
	}
	return s + "]"
}

// TupleLabel returns the canonical label for tuple position i: "_0", "_1", …
func TupleLabel(i int) string { return fmt.Sprintf("_%d", i) }

// IsTupleFields reports whether fields use the consecutive _0,_1,… labelling
// that the pretty printer renders as tuple syntax.
func IsTupleFields(fields []Field) bool {
	for i, f := range fields {
		if f.Label != TupleLabel(i) {
			return false
		}
	}
	return true
}
