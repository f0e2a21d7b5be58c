package nbe

import (
	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/env"
	"github.com/pion-lang/pion/internal/value"
)

// Ctx bundles the two pieces of ambient state every kernel operation needs:
// the evaluation options (fix-unfolding, let-unfolding) and the shared meta
// solution store. It is cheap to pass by value (both fields are pointers
// or small structs).
type Ctx struct {
	Opts  Opts
	Metas *MetaStore
}

// Eval reduces expr to weak-head normal form under localEnv.
func Eval(ctx Ctx, localEnv value.Env, expr core.Expr) value.Value {
	switch e := expr.(type) {
	case core.ErrorExpr:
		return value.ErrorValue()
	case core.PrimExpr:
		return value.Prim{Prim: e.Prim}
	case core.LitExpr:
		return value.Lit{Lit: e.Lit}
	case core.LocalVar:
		lv := e.Index.ToLevel(localEnv.Len())
		return localEnv.GetLevel(lv)
	case core.MetaVar:
		if sol, ok := ctx.Metas.Lookup(e.ID); ok {
			return sol
		}
		return value.MetaVar(e.ID)
	case *core.Let:
		init := Eval(ctx, localEnv, e.Init)
		ext := localEnv
		ext.Push(init)
		return Eval(ctx, ext, e.Body)
	case *core.FunLit:
		return &value.FunLit{
			Param: value.FunParam{Plicity: e.Param.Plicity, Name: e.Param.Name, Type: Eval(ctx, localEnv, e.Param.Type)},
			Body:  value.Closure{Env: localEnv.Snapshot(), Body: e.Body},
		}
	case *core.FunType:
		return &value.FunType{
			Param: value.FunParam{Plicity: e.Param.Plicity, Name: e.Param.Name, Type: Eval(ctx, localEnv, e.Param.Type)},
			Body:  value.Closure{Env: localEnv.Snapshot(), Body: e.Body},
		}
	case *core.FunApp:
		fn := Eval(ctx, localEnv, e.Fun)
		arg := Eval(ctx, localEnv, e.Arg.Expr)
		return Apply(ctx, fn, e.Arg.Plicity, arg)
	case *core.RecordType:
		return &value.RecordType{Telescope: value.Telescope{Env: localEnv.Snapshot(), Fields: e.Fields}}
	case *core.RecordLit:
		fields := make([]value.RecordField, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = value.RecordField{Label: f.Label, Value: Eval(ctx, localEnv, f.Expr)}
		}
		return &value.RecordLit{Fields: fields}
	case *core.RecordProj:
		scrut := Eval(ctx, localEnv, e.Scrut)
		return Project(ctx, scrut, e.Label)
	case *core.MatchBool:
		cond := Eval(ctx, localEnv, e.Cond)
		thenC := value.Closure{Env: localEnv.Snapshot(), Body: e.Then}
		elseC := value.Closure{Env: localEnv.Snapshot(), Body: e.Else}
		return CaseSplitBool(ctx, cond, thenC, elseC)
	case *core.MatchInt:
		scrut := Eval(ctx, localEnv, e.Scrut)
		cases := make([]value.IntCaseClosure, len(e.Cases))
		for i, c := range e.Cases {
			cases[i] = value.IntCaseClosure{Key: c.Key, Rhs: value.Closure{Env: localEnv.Snapshot(), Body: c.Rhs}}
		}
		defC := value.Closure{Env: localEnv.Snapshot(), Body: e.Default}
		return CaseSplitInt(ctx, scrut, cases, defC)
	case *core.ListLit:
		elems := make([]value.Value, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = Eval(ctx, localEnv, el)
		}
		return &value.ListVal{Elements: elems}
	default:
		panic("nbe: Eval: unhandled expr")
	}
}

// applyClosure pushes one value onto a closure's captured environment and
// evaluates its body — the one place a Closure's snapshot is extended.
func applyClosure(ctx Ctx, c value.Closure, arg value.Value) value.Value {
	ext := c.Env
	ext.Push(arg)
	return Eval(ctx, ext, c.Body)
}

// EvalClosureAt applies a binding closure (FunType/FunLit body) to a fresh
// neutral variable at level, reconstructing the body value one level
// deeper — the operation Quote and the unifier use to walk under binders.
func EvalClosureAt(ctx Ctx, c value.Closure, level env.Level) value.Value {
	return applyClosure(ctx, c, value.LocalVar(level))
}

// EvalClosure resumes a non-binding closure (a MatchBool/MatchInt branch,
// which captures an environment but introduces no parameter of its own).
func EvalClosure(ctx Ctx, c value.Closure) value.Value {
	return Eval(ctx, c.Env, c.Body)
}

// Apply implements function application, including the delta-rules for
// fully-applied primitives.
func Apply(ctx Ctx, fn value.Value, plicity core.Plicity, arg value.Value) value.Value {
	switch f := fn.(type) {
	case *value.FunLit:
		return applyClosure(ctx, f.Body, arg)
	case value.Prim:
		spine := []value.Elim{value.ElimApp{Plicity: plicity, Arg: arg}}
		if reduced, ok := tryDelta(ctx, f.Prim, spine); ok {
			return reduced
		}
		return &value.Neutral{Head: value.HeadPrim{Prim: f.Prim}, Spine: spine}
	case *value.Neutral:
		if _, isErr := f.Head.(value.HeadError); isErr {
			return fn
		}
		spine := append(append([]value.Elim(nil), f.Spine...), value.ElimApp{Plicity: plicity, Arg: arg})
		if p, ok := f.Head.(value.HeadPrim); ok {
			if reduced, ok := tryDelta(ctx, p.Prim, spine); ok {
				return reduced
			}
		}
		return &value.Neutral{Head: f.Head, Spine: spine}
	default:
		// Ill-typed application reaching the kernel; elaboration's type
		// checking is responsible for ruling this out before Eval ever
		// sees it, so treat it as inert rather than panicking.
		return value.ErrorValue()
	}
}

// Project implements record field projection.
func Project(ctx Ctx, scrut value.Value, label string) value.Value {
	switch s := scrut.(type) {
	case *value.RecordLit:
		for _, f := range s.Fields {
			if f.Label == label {
				return f.Value
			}
		}
		return value.ErrorValue()
	case *value.Neutral:
		if _, isErr := s.Head.(value.HeadError); isErr {
			return scrut
		}
		spine := append(append([]value.Elim(nil), s.Spine...), value.ElimProj{Label: label})
		return &value.Neutral{Head: s.Head, Spine: spine}
	default:
		return value.ErrorValue()
	}
}

// CaseSplitBool implements the MatchBool elimination form.
func CaseSplitBool(ctx Ctx, cond value.Value, thenC, elseC value.Closure) value.Value {
	switch c := cond.(type) {
	case value.Lit:
		if c.Lit.IsBool {
			if c.Lit.Bool {
				return Eval(ctx, thenC.Env, thenC.Body)
			}
			return Eval(ctx, elseC.Env, elseC.Body)
		}
		return value.ErrorValue()
	case *value.Neutral:
		if _, isErr := c.Head.(value.HeadError); isErr {
			return cond
		}
		spine := append(append([]value.Elim(nil), c.Spine...), value.ElimMatchBool{Then: thenC, Else: elseC})
		return &value.Neutral{Head: c.Head, Spine: spine}
	default:
		return value.ErrorValue()
	}
}

// CaseSplitInt implements the MatchInt elimination form.
func CaseSplitInt(ctx Ctx, scrut value.Value, cases []value.IntCaseClosure, defC value.Closure) value.Value {
	switch s := scrut.(type) {
	case value.Lit:
		if !s.Lit.IsBool {
			for _, c := range cases {
				if c.Key == s.Lit.Int {
					return Eval(ctx, c.Rhs.Env, c.Rhs.Body)
				}
			}
			return Eval(ctx, defC.Env, defC.Body)
		}
		return value.ErrorValue()
	case *value.Neutral:
		if _, isErr := s.Head.(value.HeadError); isErr {
			return scrut
		}
		spine := append(append([]value.Elim(nil), s.Spine...), value.ElimMatchInt{Cases: cases, Default: defC})
		return &value.Neutral{Head: s.Head, Spine: spine}
	default:
		return value.ErrorValue()
	}
}

// SplitTelescope peels the first field off a telescope, returning its
// label, its type (evaluated under the telescope's captured environment),
// and a continuation that extends the environment with the value chosen
// for this field to yield the remaining telescope.
func SplitTelescope(ctx Ctx, t value.Telescope) (label string, fieldType value.Value, rest func(value.Value) value.Telescope, ok bool) {
	if len(t.Fields) == 0 {
		return "", nil, nil, false
	}
	head := t.Fields[0]
	fieldType = Eval(ctx, t.Env, head.Expr)
	rest = func(v value.Value) value.Telescope {
		next := t.Env
		next.Push(v)
		return value.Telescope{Env: next, Fields: t.Fields[1:]}
	}
	return head.Label, fieldType, rest, true
}
