package unify

import (
	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/env"
	"github.com/pion-lang/pion/internal/nbe"
	"github.com/pion-lang/pion/internal/value"
)

// partialRenaming is built from a stuck metavariable's spine: it must
// consist solely of App eliminations over distinct local variables. Those
// variables become the parameters of the solution; renaming records, for
// each such variable's level in the ambient scope, the level it is
// assigned inside the (smaller) solution scope — variable x1 (leftmost in
// the spine) becomes the outermost binder, level 0, matching ordinary
// level-assignment order.
type partialRenaming struct {
	mapping  map[env.Level]env.Level
	baseLvl  env.Level // depth the equation was posed at
	patCount int       // k: number of pattern variables
}

// paramSpine is one pattern-variable entry extracted from a meta's spine,
// carrying enough to build the solution's outer function literals.
type paramSpine struct {
	Plicity core.Plicity
	Name    *string
	Type    value.Value
}

// buildRenaming validates that spine is a pattern spine (only App of
// distinct LocalVars) and returns the renaming; the pattern variables'
// types are not recorded, since the spine elims don't carry them.
func buildRenaming(baseLvl env.Level, spine []value.Elim) (*partialRenaming, error) {
	mapping := make(map[env.Level]env.Level, len(spine))
	for i, e := range spine {
		app, ok := e.(value.ElimApp)
		if !ok {
			return nil, &SpineError{Reason: "non-application elimination in meta spine"}
		}
		nv, ok := app.Arg.(*value.Neutral)
		if !ok {
			return nil, &SpineError{Reason: "meta spine argument is not a bare variable"}
		}
		head, ok := nv.Head.(value.HeadLocalVar)
		if !ok || len(nv.Spine) != 0 {
			return nil, &SpineError{Reason: "meta spine argument is not a bare local variable"}
		}
		if _, dup := mapping[head.Level]; dup {
			return nil, &SpineError{Reason: "duplicate variable in meta spine"}
		}
		mapping[head.Level] = env.Level(i)
	}
	return &partialRenaming{mapping: mapping, baseLvl: baseLvl, patCount: len(spine)}, nil
}

// convert maps an ambient-scope level to its level in the solution scope.
// Levels introduced by binders walked over *during* renaming (>= baseLvl)
// are always in scope — they were just bound inside the term being
// renamed — and shift uniformly since the walk's own depth and the
// solution's output depth grow in lockstep.
func (r *partialRenaming) convert(lv env.Level) (env.Level, bool) {
	if lv >= r.baseLvl {
		return lv - r.baseLvl + env.Level(r.patCount), true
	}
	nv, ok := r.mapping[lv]
	return nv, ok
}

// renameQuote walks v exactly like nbe.Quote, but maps every free local
// variable through the renaming first (failing the occurs/scope check on
// an out-of-scope variable) and rejects any occurrence of metaID itself.
func renameQuote(ctx nbe.Ctx, r *partialRenaming, metaID int, curLevel env.Level, v value.Value) (core.Expr, error) {
	outDepth := env.Len(int(curLevel)-int(r.baseLvl)) + env.Len(r.patCount)
	switch val := v.(type) {
	case value.Lit:
		return core.LitExpr{Lit: val.Lit}, nil
	case value.Prim:
		return core.PrimExpr{Prim: val.Prim}, nil
	case *value.Neutral:
		acc, err := renameHead(r, metaID, val.Head, outDepth)
		if err != nil {
			return nil, err
		}
		for _, elim := range val.Spine {
			acc, err = renameElim(ctx, r, metaID, curLevel, acc, elim)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	case *value.FunType:
		pt, err := renameQuote(ctx, r, metaID, curLevel, val.Param.Type)
		if err != nil {
			return nil, err
		}
		bodyVal := nbe.EvalClosureAt(ctx, val.Body, curLevel)
		body, err := renameQuote(ctx, r, metaID, curLevel+1, bodyVal)
		if err != nil {
			return nil, err
		}
		return &core.FunType{Param: core.Param{Plicity: val.Param.Plicity, Name: val.Param.Name, Type: pt}, Body: body}, nil
	case *value.FunLit:
		pt, err := renameQuote(ctx, r, metaID, curLevel, val.Param.Type)
		if err != nil {
			return nil, err
		}
		bodyVal := nbe.EvalClosureAt(ctx, val.Body, curLevel)
		body, err := renameQuote(ctx, r, metaID, curLevel+1, bodyVal)
		if err != nil {
			return nil, err
		}
		return &core.FunLit{Param: core.Param{Plicity: val.Param.Plicity, Name: val.Param.Name, Type: pt}, Body: body}, nil
	case *value.RecordType:
		fields, err := renameTelescope(ctx, r, metaID, curLevel, val.Telescope)
		if err != nil {
			return nil, err
		}
		return &core.RecordType{Fields: fields}, nil
	case *value.RecordLit:
		fields := make([]core.Field, len(val.Fields))
		for i, f := range val.Fields {
			fe, err := renameQuote(ctx, r, metaID, curLevel, f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = core.Field{Label: f.Label, Expr: fe}
		}
		return &core.RecordLit{Fields: fields}, nil
	case *value.ListVal:
		elems := make([]core.Expr, len(val.Elements))
		for i, e := range val.Elements {
			ee, err := renameQuote(ctx, r, metaID, curLevel, e)
			if err != nil {
				return nil, err
			}
			elems[i] = ee
		}
		return &core.ListLit{Elements: elems}, nil
	default:
		return nil, &RenameError{Reason: "unhandled value shape"}
	}
}

func renameHead(r *partialRenaming, metaID int, h value.Head, outDepth env.Len) (core.Expr, error) {
	switch head := h.(type) {
	case value.HeadLocalVar:
		nv, ok := r.convert(head.Level)
		if !ok {
			return nil, &RenameError{Reason: "variable out of metavariable's scope"}
		}
		return core.LocalVar{Index: nv.ToIndex(outDepth)}, nil
	case value.HeadMetaVar:
		if head.ID == metaID {
			return nil, &RenameError{Reason: "metavariable occurs in its own solution"}
		}
		return core.MetaVar{ID: head.ID}, nil
	case value.HeadPrim:
		return core.PrimExpr{Prim: head.Prim}, nil
	case value.HeadError:
		return core.ErrorExpr{}, nil
	default:
		return nil, &RenameError{Reason: "unhandled neutral head"}
	}
}

func renameElim(ctx nbe.Ctx, r *partialRenaming, metaID int, curLevel env.Level, acc core.Expr, elim value.Elim) (core.Expr, error) {
	switch e := elim.(type) {
	case value.ElimApp:
		ae, err := renameQuote(ctx, r, metaID, curLevel, e.Arg)
		if err != nil {
			return nil, err
		}
		return &core.FunApp{Fun: acc, Arg: core.Arg{Plicity: e.Plicity, Expr: ae}}, nil
	case value.ElimProj:
		return &core.RecordProj{Scrut: acc, Label: e.Label}, nil
	case value.ElimMatchBool:
		te, err := renameQuote(ctx, r, metaID, curLevel, nbe.EvalClosure(ctx, e.Then))
		if err != nil {
			return nil, err
		}
		ee, err := renameQuote(ctx, r, metaID, curLevel, nbe.EvalClosure(ctx, e.Else))
		if err != nil {
			return nil, err
		}
		return &core.MatchBool{Cond: acc, Then: te, Else: ee}, nil
	case value.ElimMatchInt:
		cases := make([]core.IntCase, len(e.Cases))
		for i, c := range e.Cases {
			ce, err := renameQuote(ctx, r, metaID, curLevel, nbe.EvalClosure(ctx, c.Rhs))
			if err != nil {
				return nil, err
			}
			cases[i] = core.IntCase{Key: c.Key, Rhs: ce}
		}
		de, err := renameQuote(ctx, r, metaID, curLevel, nbe.EvalClosure(ctx, e.Default))
		if err != nil {
			return nil, err
		}
		return &core.MatchInt{Scrut: acc, Cases: cases, Default: de}, nil
	default:
		return nil, &RenameError{Reason: "unhandled elimination"}
	}
}

func renameTelescope(ctx nbe.Ctx, r *partialRenaming, metaID int, curLevel env.Level, t value.Telescope) ([]core.Field, error) {
	var fields []core.Field
	cur := curLevel
	for {
		label, fieldType, rest, ok := nbe.SplitTelescope(ctx, t)
		if !ok {
			break
		}
		fe, err := renameQuote(ctx, r, metaID, cur, fieldType)
		if err != nil {
			return nil, err
		}
		fields = append(fields, core.Field{Label: label, Expr: fe})
		t = rest(value.LocalVar(cur))
		cur++
	}
	return fields, nil
}
