package nbe

import (
	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/value"
)

// tryDelta attempts the fixed delta-rule for a primitive once its spine has
// reached the primitive's arity. Returns ok=false to leave the application
// neutral — either because the primitive never reduces on its own (e.g.
// Eq, List, refl act as canonical constructors/type formers) or because an
// operand is itself stuck and the reduction can't proceed.
func tryDelta(ctx Ctx, p core.Prim, spine []value.Elim) (value.Value, bool) {
	arity := p.Arity()
	if arity < 0 || len(spine) < arity {
		return nil, false
	}
	args := make([]value.Value, len(spine))
	for i, e := range spine {
		app, ok := e.(value.ElimApp)
		if !ok {
			return nil, false
		}
		args[i] = app.Arg
	}

	switch p {
	case core.PrimAdd, core.PrimSub, core.PrimMul:
		a, aOk := asInt(args[0])
		b, bOk := asInt(args[1])
		if !aOk || !bOk {
			return nil, false
		}
		var r uint32
		switch p {
		case core.PrimAdd:
			r = a + b
		case core.PrimSub:
			r = a - b
		case core.PrimMul:
			r = a * b
		}
		return value.Lit{Lit: core.Lit{IsBool: false, Int: r}}, true

	case core.PrimEq:
		a, aOk := asInt(args[0])
		b, bOk := asInt(args[1])
		if !aOk || !bOk {
			return nil, false
		}
		return value.Lit{Lit: core.Lit{IsBool: true, Bool: a == b}}, true

	case core.PrimLt:
		a, aOk := asInt(args[0])
		b, bOk := asInt(args[1])
		if !aOk || !bOk {
			return nil, false
		}
		return value.Lit{Lit: core.Lit{IsBool: true, Bool: a < b}}, true

	case core.PrimBoolRec:
		// args: @P cond then else
		cond, ok := asBool(args[1])
		if !ok {
			return nil, false
		}
		if cond {
			return args[2], true
		}
		return args[3], true

	case core.PrimSubst:
		// args: @A @x @y @P eq p — reduces to p whenever eq is headed by
		// refl; the elaborator already ensured x and y are definitionally
		// equal whenever such an eq value can exist.
		if !isReflProof(args[4]) {
			return nil, false
		}
		return args[5], true

	case core.PrimFix:
		if !ctx.Opts.UnfoldFix {
			return nil, false
		}
		a, b, f, x := args[0], args[1], args[2], args[3]
		recur := &value.Neutral{
			Head: value.HeadPrim{Prim: core.PrimFix},
			Spine: []value.Elim{
				value.ElimApp{Plicity: core.Implicit, Arg: a},
				value.ElimApp{Plicity: core.Implicit, Arg: b},
				value.ElimApp{Plicity: core.Explicit, Arg: f},
			},
		}
		step := Apply(ctx, f, core.Explicit, recur)
		return Apply(ctx, step, core.Explicit, x), true

	case core.PrimLen:
		// args: @A xs
		lst, ok := args[1].(*value.ListVal)
		if !ok {
			return nil, false
		}
		return value.Lit{Lit: core.Lit{Int: uint32(len(lst.Elements))}}, true

	case core.PrimPush:
		// args: @A xs x
		lst, ok := args[1].(*value.ListVal)
		if !ok {
			return nil, false
		}
		elems := append(append([]value.Value(nil), lst.Elements...), args[2])
		return &value.ListVal{Elements: elems}, true

	case core.PrimAppend:
		// args: @A xs ys
		a, aOk := args[1].(*value.ListVal)
		b, bOk := args[2].(*value.ListVal)
		if !aOk || !bOk {
			return nil, false
		}
		elems := append(append([]value.Value(nil), a.Elements...), b.Elements...)
		return &value.ListVal{Elements: elems}, true

	default:
		return nil, false
	}
}

func asInt(v value.Value) (uint32, bool) {
	lit, ok := v.(value.Lit)
	if !ok || lit.Lit.IsBool {
		return 0, false
	}
	return lit.Lit.Int, true
}

func asBool(v value.Value) (bool, bool) {
	lit, ok := v.(value.Lit)
	if !ok || !lit.Lit.IsBool {
		return false, false
	}
	return lit.Lit.Bool, true
}

// isReflProof reports whether v is a fully-applied `refl` value, i.e. a
// neutral headed by the refl primitive. refl itself has no further
// delta-rule (see core.Prim.Arity: PrimRefl is not listed, so it is never
// reduced away) — it stays in exactly this shape so subst can recognize it.
func isReflProof(v value.Value) bool {
	n, ok := v.(*value.Neutral)
	if !ok {
		return false
	}
	p, ok := n.Head.(value.HeadPrim)
	return ok && p.Prim == core.PrimRefl
}
