package nbe

import (
	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/env"
)

// Zonk eagerly substitutes solved metavariables throughout expr, leaving
// everything else untouched — it does not normalize applications or
// unfold lets, only resolves MetaVar nodes via Quote of their (always
// closed) solutions. Subtrees with nothing to rewrite are returned
// unchanged (same pointer) rather than rebuilt, preserving sharing.
func Zonk(ctx Ctx, depth env.Level, expr core.Expr) core.Expr {
	switch e := expr.(type) {
	case core.MetaVar:
		if sol, ok := ctx.Metas.Lookup(e.ID); ok {
			return Quote(ctx, depth, sol)
		}
		return e
	case core.ErrorExpr, core.PrimExpr, core.LitExpr, core.LocalVar:
		return e
	case *core.Let:
		t := Zonk(ctx, depth, e.Type)
		i := Zonk(ctx, depth, e.Init)
		b := Zonk(ctx, depth+1, e.Body)
		if t == e.Type && i == e.Init && b == e.Body {
			return e
		}
		return &core.Let{Name: e.Name, Type: t, Init: i, Body: b}
	case *core.FunType:
		pt := Zonk(ctx, depth, e.Param.Type)
		b := Zonk(ctx, depth+1, e.Body)
		if pt == e.Param.Type && b == e.Body {
			return e
		}
		return &core.FunType{Param: core.Param{Plicity: e.Param.Plicity, Name: e.Param.Name, Type: pt}, Body: b}
	case *core.FunLit:
		pt := Zonk(ctx, depth, e.Param.Type)
		b := Zonk(ctx, depth+1, e.Body)
		if pt == e.Param.Type && b == e.Body {
			return e
		}
		return &core.FunLit{Param: core.Param{Plicity: e.Param.Plicity, Name: e.Param.Name, Type: pt}, Body: b}
	case *core.FunApp:
		f := Zonk(ctx, depth, e.Fun)
		a := Zonk(ctx, depth, e.Arg.Expr)
		if f == e.Fun && a == e.Arg.Expr {
			return e
		}
		return &core.FunApp{Fun: f, Arg: core.Arg{Plicity: e.Arg.Plicity, Expr: a}}
	case *core.RecordType:
		cur := depth
		changed := false
		fields := make([]core.Field, len(e.Fields))
		for i, f := range e.Fields {
			ze := Zonk(ctx, cur, f.Expr)
			if ze != f.Expr {
				changed = true
			}
			fields[i] = core.Field{Label: f.Label, Expr: ze}
			cur++
		}
		if !changed {
			return e
		}
		return &core.RecordType{Fields: fields}
	case *core.RecordLit:
		changed := false
		fields := make([]core.Field, len(e.Fields))
		for i, f := range e.Fields {
			ze := Zonk(ctx, depth, f.Expr)
			if ze != f.Expr {
				changed = true
			}
			fields[i] = core.Field{Label: f.Label, Expr: ze}
		}
		if !changed {
			return e
		}
		return &core.RecordLit{Fields: fields}
	case *core.RecordProj:
		s := Zonk(ctx, depth, e.Scrut)
		if s == e.Scrut {
			return e
		}
		return &core.RecordProj{Scrut: s, Label: e.Label}
	case *core.MatchBool:
		c := Zonk(ctx, depth, e.Cond)
		t := Zonk(ctx, depth, e.Then)
		f := Zonk(ctx, depth, e.Else)
		if c == e.Cond && t == e.Then && f == e.Else {
			return e
		}
		return &core.MatchBool{Cond: c, Then: t, Else: f}
	case *core.MatchInt:
		s := Zonk(ctx, depth, e.Scrut)
		d := Zonk(ctx, depth, e.Default)
		changed := s != e.Scrut || d != e.Default
		cases := make([]core.IntCase, len(e.Cases))
		for i, c := range e.Cases {
			zc := Zonk(ctx, depth, c.Rhs)
			if zc != c.Rhs {
				changed = true
			}
			cases[i] = core.IntCase{Key: c.Key, Rhs: zc}
		}
		if !changed {
			return e
		}
		return &core.MatchInt{Scrut: s, Cases: cases, Default: d}
	case *core.ListLit:
		changed := false
		elems := make([]core.Expr, len(e.Elements))
		for i, el := range e.Elements {
			ze := Zonk(ctx, depth, el)
			if ze != el {
				changed = true
			}
			elems[i] = ze
		}
		if !changed {
			return e
		}
		return &core.ListLit{Elements: elems}
	default:
		return expr
	}
}
