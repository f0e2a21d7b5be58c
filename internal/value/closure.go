package value

import (
	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/env"
)

// Env is a snapshot of evaluated values a Closure or Telescope captures.
// It is produced by env.Shared[Value].Snapshot and is never mutated after
// capture; growing it again (e.g. to apply the closure) always appends past
// the snapshot's own length rather than overwriting shared storage.
type Env = env.Shared[Value]

// Closure pairs a captured environment with an unevaluated body. Applying
// it pushes one value onto a copy of Env and evaluates Body under it — see
// nbe.Apply.
type Closure struct {
	Env  Env
	Body core.Expr
}

// Telescope is an iterable sequence of dependent field types: each field's
// type_expr is evaluated in Env extended by the values chosen for every
// preceding field.
type Telescope struct {
	Env    Env
	Fields []core.Field
}

// IsEmpty reports whether the telescope has no remaining fields.
func (t Telescope) IsEmpty() bool { return len(t.Fields) == 0 }

// Split is implemented in package nbe (it needs Eval to reduce the head
// field's type), so this type only carries the data; see nbe.SplitTelescope.
