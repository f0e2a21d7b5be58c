package nbe

import (
	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/env"
	"github.com/pion-lang/pion/internal/value"
)

// Quote reads a value back to a term at the given depth. Binders are
// reconstructed by applying the captured closure to a fresh neutral
// variable at the current level and quoting one level deeper — this is
// what lets NbE compare values or print them without ever picking concrete
// names for bound variables.
func Quote(ctx Ctx, level env.Level, v value.Value) core.Expr {
	switch val := v.(type) {
	case value.Lit:
		return core.LitExpr{Lit: val.Lit}
	case value.Prim:
		return core.PrimExpr{Prim: val.Prim}
	case *value.Neutral:
		acc := quoteHead(val.Head, level)
		for _, elim := range val.Spine {
			acc = quoteElim(ctx, level, acc, elim)
		}
		return acc
	case *value.FunType:
		paramTy := Quote(ctx, level, val.Param.Type)
		bodyVal := EvalClosureAt(ctx, val.Body, level)
		body := Quote(ctx, level+1, bodyVal)
		return &core.FunType{Param: core.Param{Plicity: val.Param.Plicity, Name: val.Param.Name, Type: paramTy}, Body: body}
	case *value.FunLit:
		paramTy := Quote(ctx, level, val.Param.Type)
		bodyVal := EvalClosureAt(ctx, val.Body, level)
		body := Quote(ctx, level+1, bodyVal)
		return &core.FunLit{Param: core.Param{Plicity: val.Param.Plicity, Name: val.Param.Name, Type: paramTy}, Body: body}
	case *value.RecordType:
		return &core.RecordType{Fields: quoteTelescope(ctx, level, val.Telescope)}
	case *value.RecordLit:
		fields := make([]core.Field, len(val.Fields))
		for i, f := range val.Fields {
			fields[i] = core.Field{Label: f.Label, Expr: Quote(ctx, level, f.Value)}
		}
		return &core.RecordLit{Fields: fields}
	case *value.ListVal:
		elems := make([]core.Expr, len(val.Elements))
		for i, e := range val.Elements {
			elems[i] = Quote(ctx, level, e)
		}
		return &core.ListLit{Elements: elems}
	default:
		panic("nbe: Quote: unhandled value")
	}
}

func quoteHead(h value.Head, level env.Level) core.Expr {
	switch head := h.(type) {
	case value.HeadLocalVar:
		return core.LocalVar{Index: head.Level.ToIndex(env.Len(level))}
	case value.HeadMetaVar:
		return core.MetaVar{ID: head.ID}
	case value.HeadPrim:
		return core.PrimExpr{Prim: head.Prim}
	case value.HeadError:
		return core.ErrorExpr{}
	default:
		panic("nbe: quoteHead: unhandled head")
	}
}

func quoteElim(ctx Ctx, level env.Level, acc core.Expr, elim value.Elim) core.Expr {
	switch e := elim.(type) {
	case value.ElimApp:
		return &core.FunApp{Fun: acc, Arg: core.Arg{Plicity: e.Plicity, Expr: Quote(ctx, level, e.Arg)}}
	case value.ElimProj:
		return &core.RecordProj{Scrut: acc, Label: e.Label}
	case value.ElimMatchBool:
		return &core.MatchBool{
			Cond: acc,
			Then: quoteClosureNoBind(ctx, level, e.Then),
			Else: quoteClosureNoBind(ctx, level, e.Else),
		}
	case value.ElimMatchInt:
		cases := make([]core.IntCase, len(e.Cases))
		for i, c := range e.Cases {
			cases[i] = core.IntCase{Key: c.Key, Rhs: quoteClosureNoBind(ctx, level, c.Rhs)}
		}
		return &core.MatchInt{Scrut: acc, Cases: cases, Default: quoteClosureNoBind(ctx, level, e.Default)}
	default:
		panic("nbe: quoteElim: unhandled elim")
	}
}

// quoteClosureNoBind quotes a MatchBool/MatchInt branch closure. These
// closures bind no new variable (the branch is not under a binder — only
// cond/scrut is), so quoting just means resuming evaluation of the captured
// body under its captured environment and reading the result back at the
// current level.
func quoteClosureNoBind(ctx Ctx, level env.Level, c value.Closure) core.Expr {
	return Quote(ctx, level, Eval(ctx, c.Env, c.Body))
}

// quoteTelescope walks a dependent record type's fields, numbering each
// one with a fresh neutral variable so later fields' (quoted) types refer
// to the right de Bruijn index — this is quote_at in spec terms, applied
// incrementally as the telescope is split.
func quoteTelescope(ctx Ctx, level env.Level, t value.Telescope) []core.Field {
	var fields []core.Field
	cur := level
	for {
		label, fieldType, rest, ok := SplitTelescope(ctx, t)
		if !ok {
			break
		}
		fields = append(fields, core.Field{Label: label, Expr: Quote(ctx, cur, fieldType)})
		t = rest(value.LocalVar(cur))
		cur++
	}
	return fields
}
