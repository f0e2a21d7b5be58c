package nbe

import "github.com/pion-lang/pion/internal/core"

// Equal is structural, name-blind equality on core terms. Since de Bruijn
// indices already encode binding structure, two terms that are equal after
// dropping binder names are alpha-equivalent — this is exactly the
// invariant Quote relies on and the meta idempotence check needs.
func Equal(a, b core.Expr) bool {
	switch x := a.(type) {
	case core.ErrorExpr:
		_, ok := b.(core.ErrorExpr)
		return ok
	case core.PrimExpr:
		y, ok := b.(core.PrimExpr)
		return ok && x.Prim == y.Prim
	case core.LitExpr:
		y, ok := b.(core.LitExpr)
		return ok && x.Lit == y.Lit
	case core.LocalVar:
		y, ok := b.(core.LocalVar)
		return ok && x.Index == y.Index
	case core.MetaVar:
		y, ok := b.(core.MetaVar)
		return ok && x.ID == y.ID
	case *core.Let:
		y, ok := b.(*core.Let)
		return ok && Equal(x.Type, y.Type) && Equal(x.Init, y.Init) && Equal(x.Body, y.Body)
	case *core.FunType:
		y, ok := b.(*core.FunType)
		return ok && x.Param.Plicity == y.Param.Plicity && Equal(x.Param.Type, y.Param.Type) && Equal(x.Body, y.Body)
	case *core.FunLit:
		y, ok := b.(*core.FunLit)
		return ok && x.Param.Plicity == y.Param.Plicity && Equal(x.Param.Type, y.Param.Type) && Equal(x.Body, y.Body)
	case *core.FunApp:
		y, ok := b.(*core.FunApp)
		return ok && x.Arg.Plicity == y.Arg.Plicity && Equal(x.Fun, y.Fun) && Equal(x.Arg.Expr, y.Arg.Expr)
	case *core.RecordType:
		y, ok := b.(*core.RecordType)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Label != y.Fields[i].Label || !Equal(x.Fields[i].Expr, y.Fields[i].Expr) {
				return false
			}
		}
		return true
	case *core.RecordLit:
		y, ok := b.(*core.RecordLit)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Label != y.Fields[i].Label || !Equal(x.Fields[i].Expr, y.Fields[i].Expr) {
				return false
			}
		}
		return true
	case *core.RecordProj:
		y, ok := b.(*core.RecordProj)
		return ok && x.Label == y.Label && Equal(x.Scrut, y.Scrut)
	case *core.MatchBool:
		y, ok := b.(*core.MatchBool)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	case *core.MatchInt:
		y, ok := b.(*core.MatchInt)
		if !ok || len(x.Cases) != len(y.Cases) || !Equal(x.Scrut, y.Scrut) || !Equal(x.Default, y.Default) {
			return false
		}
		for i := range x.Cases {
			if x.Cases[i].Key != y.Cases[i].Key || !Equal(x.Cases[i].Rhs, y.Cases[i].Rhs) {
				return false
			}
		}
		return true
	case *core.ListLit:
		y, ok := b.(*core.ListLit)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Equal(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
