// Package elaborate implements bidirectional elaboration from the surface
// ast into core.Expr: synthesis and checking, implicit argument insertion,
// metavariable solving via package unify, match compilation via package
// patmatch, and `let rec` compilation into the `fix` primitive. Every
// diagnostic it reports is delivered through an errors.Sink rather than
// aborting the pass, so a single source file can yield many diagnostics in
// one run.
package elaborate

import (
	"github.com/pion-lang/pion/internal/env"
	"github.com/pion-lang/pion/internal/errors"
	"github.com/pion-lang/pion/internal/nbe"
	"github.com/pion-lang/pion/internal/value"
)

// LocalKind distinguishes a lambda/Pi/match-bound variable (which must be
// abstracted over when a hole inserted in its scope is solved later) from
// a let-bound one (whose value is already known, so holes never need to
// close over it explicitly).
type LocalKind int

const (
	Bound LocalKind = iota
	Defined
)

// Local is one entry of the elaboration context's local scope.
type Local struct {
	Name string
	Type value.Value
	Kind LocalKind
}

// Ctx is the whole of the elaborator's ambient state: the NbE kernel
// (evaluation options + meta store), the typed local scope, the parallel
// value environment used to evaluate type/term expressions under that
// scope, and the diagnostic sink. It is cheap to copy — extending scope
// returns a new Ctx rather than mutating the caller's.
type Ctx struct {
	Kernel nbe.Ctx
	Locals env.Stack[Local]
	Env    value.Env
	Sink   errors.Sink
	File   string
}

// New creates a fresh top-level elaboration context.
func New(file string, sink errors.Sink) Ctx {
	return Ctx{
		Kernel: nbe.Ctx{Opts: nbe.DefaultOpts(), Metas: nbe.NewMetaStore()},
		Sink:   sink,
		File:   file,
	}
}

// Depth is the absolute level the next local variable would be bound at.
func (c Ctx) Depth() env.Level { return env.Level(c.Locals.Len()) }

// bind extends the context with one new local variable, pushing its own
// fresh neutral value onto Env so later expressions see it as an ordinary
// (stuck) variable.
func (c Ctx) bind(name string, ty value.Value, kind LocalKind) Ctx {
	lvl := c.Depth()
	c.Locals.Push(Local{Name: name, Type: ty, Kind: kind})
	c.Env.Push(value.LocalVar(lvl))
	return c
}

// define extends the context with a local whose value is already known
// (a `let`-bound name), so Env gets the real value rather than a fresh
// neutral.
func (c Ctx) define(name string, ty, val value.Value) Ctx {
	c.Locals.Push(Local{Name: name, Type: ty, Kind: Defined})
	c.Env.Push(val)
	return c
}

// lookup resolves name against the local scope, innermost first.
func (c Ctx) lookup(name string) (env.Index, Local, bool) {
	items := c.Locals.Iter()
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Name == name {
			return env.Index(len(items) - 1 - i), items[i], true
		}
	}
	return 0, Local{}, false
}
