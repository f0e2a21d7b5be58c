package unify

import (
	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/env"
	"github.com/pion-lang/pion/internal/nbe"
	"github.com/pion-lang/pion/internal/value"
)

// Ctx carries the kernel context (eval options + meta store) plus the
// current local depth equations are posed at. It is safe to copy.
type Ctx struct {
	Kernel nbe.Ctx
	Depth  env.Level
}

// Unify solves lhs ≡ rhs at ctx.Depth, mutating ctx.Kernel.Metas with any
// solved metavariables. Never panics; every failure mode is returned as an
// error (MismatchError, SpineError, or RenameError).
func Unify(ctx Ctx, lhs, rhs value.Value) error {
	lhs = force(ctx.Kernel, lhs)
	rhs = force(ctx.Kernel, rhs)

	if isErrorValue(lhs) || isErrorValue(rhs) {
		return nil
	}

	switch l := lhs.(type) {
	case value.Lit:
		if r, ok := rhs.(value.Lit); ok && l.Lit == r.Lit {
			return nil
		}
		return &MismatchError{Lhs: lhs, Rhs: rhs}

	case value.Prim:
		if r, ok := rhs.(value.Prim); ok && l.Prim == r.Prim {
			return nil
		}
		return &MismatchError{Lhs: lhs, Rhs: rhs}

	case *value.FunType:
		r, ok := rhs.(*value.FunType)
		if !ok || l.Param.Plicity != r.Param.Plicity {
			return &MismatchError{Lhs: lhs, Rhs: rhs}
		}
		if err := Unify(ctx, l.Param.Type, r.Param.Type); err != nil {
			return err
		}
		return unifyUnderBinder(ctx, l.Body, r.Body)

	case *value.FunLit:
		r, ok := rhs.(*value.FunLit)
		if !ok || l.Param.Plicity != r.Param.Plicity {
			return &MismatchError{Lhs: lhs, Rhs: rhs}
		}
		return unifyUnderBinder(ctx, l.Body, r.Body)

	case *value.RecordType:
		r, ok := rhs.(*value.RecordType)
		if !ok {
			return &MismatchError{Lhs: lhs, Rhs: rhs}
		}
		return unifyTelescope(ctx, l.Telescope, r.Telescope)

	case *value.RecordLit:
		r, ok := rhs.(*value.RecordLit)
		if !ok || len(l.Fields) != len(r.Fields) {
			return &MismatchError{Lhs: lhs, Rhs: rhs}
		}
		for i := range l.Fields {
			if l.Fields[i].Label != r.Fields[i].Label {
				return &MismatchError{Lhs: lhs, Rhs: rhs}
			}
			if err := Unify(ctx, l.Fields[i].Value, r.Fields[i].Value); err != nil {
				return err
			}
		}
		return nil

	case *value.ListVal:
		r, ok := rhs.(*value.ListVal)
		if !ok || len(l.Elements) != len(r.Elements) {
			return &MismatchError{Lhs: lhs, Rhs: rhs}
		}
		for i := range l.Elements {
			if err := Unify(ctx, l.Elements[i], r.Elements[i]); err != nil {
				return err
			}
		}
		return nil

	case *value.Neutral:
		return unifyNeutralLeft(ctx, l, lhs, rhs)

	default:
		return &MismatchError{Lhs: lhs, Rhs: rhs}
	}
}

func unifyUnderBinder(ctx Ctx, l, r value.Closure) error {
	lv := nbe.EvalClosureAt(ctx.Kernel, l, ctx.Depth)
	rv := nbe.EvalClosureAt(ctx.Kernel, r, ctx.Depth)
	return Unify(Ctx{Kernel: ctx.Kernel, Depth: ctx.Depth + 1}, lv, rv)
}

func unifyTelescope(ctx Ctx, l, r value.Telescope) error {
	for {
		_, lt, lrest, lok := nbe.SplitTelescope(ctx.Kernel, l)
		_, rt, rrest, rok := nbe.SplitTelescope(ctx.Kernel, r)
		if lok != rok {
			return &MismatchError{Lhs: &value.RecordType{Telescope: l}, Rhs: &value.RecordType{Telescope: r}}
		}
		if !lok {
			return nil
		}
		if err := Unify(ctx, lt, rt); err != nil {
			return err
		}
		fresh := value.LocalVar(ctx.Depth)
		l = lrest(fresh)
		r = rrest(fresh)
		ctx.Depth++
	}
}

// unifyNeutralLeft handles all cases where lhs is a neutral value: same
// head structurally, or (if the head is an unsolved metavariable and the
// spine fits the pattern fragment) higher-order pattern solving.
func unifyNeutralLeft(ctx Ctx, l *value.Neutral, lhs, rhs value.Value) error {
	if rm, ok := rhs.(*value.Neutral); ok {
		if lmh, ok := l.Head.(value.HeadMetaVar); ok {
			if rmh, ok2 := rm.Head.(value.HeadMetaVar); ok2 && lmh.ID == rmh.ID && len(l.Spine) == len(rm.Spine) {
				return unifySpine(ctx, l.Spine, rm.Spine)
			}
		}
		if sameHead(l.Head, rm.Head) && len(l.Spine) == len(rm.Spine) {
			if err := unifySpine(ctx, l.Spine, rm.Spine); err == nil {
				return nil
			}
			// fall through to pattern solving below on error, in case one
			// side is a meta whose spine just happens to match lengths.
		}
	}

	if lmh, ok := l.Head.(value.HeadMetaVar); ok {
		return solvePattern(ctx, lmh.ID, l.Spine, rhs)
	}
	if rn, ok := rhs.(*value.Neutral); ok {
		if rmh, ok2 := rn.Head.(value.HeadMetaVar); ok2 {
			return solvePattern(ctx, rmh.ID, rn.Spine, lhs)
		}
	}
	return &MismatchError{Lhs: lhs, Rhs: rhs}
}

func sameHead(a, b value.Head) bool {
	switch ah := a.(type) {
	case value.HeadLocalVar:
		bh, ok := b.(value.HeadLocalVar)
		return ok && ah.Level == bh.Level
	case value.HeadPrim:
		bh, ok := b.(value.HeadPrim)
		return ok && ah.Prim == bh.Prim
	case value.HeadError:
		_, ok := b.(value.HeadError)
		return ok
	case value.HeadMetaVar:
		bh, ok := b.(value.HeadMetaVar)
		return ok && ah.ID == bh.ID
	default:
		return false
	}
}

func unifySpine(ctx Ctx, l, r []value.Elim) error {
	for i := range l {
		if err := unifyElim(ctx, l[i], r[i]); err != nil {
			return err
		}
	}
	return nil
}

func unifyElim(ctx Ctx, l, r value.Elim) error {
	switch le := l.(type) {
	case value.ElimApp:
		re, ok := r.(value.ElimApp)
		if !ok || le.Plicity != re.Plicity {
			return &SpineError{Reason: "elimination shape mismatch (application)"}
		}
		return Unify(ctx, le.Arg, re.Arg)
	case value.ElimProj:
		re, ok := r.(value.ElimProj)
		if !ok || le.Label != re.Label {
			return &SpineError{Reason: "elimination shape mismatch (projection)"}
		}
		return nil
	case value.ElimMatchBool:
		re, ok := r.(value.ElimMatchBool)
		if !ok {
			return &SpineError{Reason: "elimination shape mismatch (match bool)"}
		}
		if err := Unify(ctx, nbe.EvalClosure(ctx.Kernel, le.Then), nbe.EvalClosure(ctx.Kernel, re.Then)); err != nil {
			return err
		}
		return Unify(ctx, nbe.EvalClosure(ctx.Kernel, le.Else), nbe.EvalClosure(ctx.Kernel, re.Else))
	case value.ElimMatchInt:
		re, ok := r.(value.ElimMatchInt)
		if !ok || len(le.Cases) != len(re.Cases) {
			return &SpineError{Reason: "elimination shape mismatch (match int)"}
		}
		for i := range le.Cases {
			if le.Cases[i].Key != re.Cases[i].Key {
				return &SpineError{Reason: "match int case key mismatch"}
			}
			if err := Unify(ctx, nbe.EvalClosure(ctx.Kernel, le.Cases[i].Rhs), nbe.EvalClosure(ctx.Kernel, re.Cases[i].Rhs)); err != nil {
				return err
			}
		}
		return Unify(ctx, nbe.EvalClosure(ctx.Kernel, le.Default), nbe.EvalClosure(ctx.Kernel, re.Default))
	default:
		return &SpineError{Reason: "unhandled elimination"}
	}
}

// solvePattern implements spec.md's higher-order pattern rule: validate
// the spine, build the partial renaming, rename rhs into the solution's
// scope, and wrap it in len(spine) function literals.
func solvePattern(ctx Ctx, metaID int, spine []value.Elim, rhs value.Value) error {
	renaming, err := buildRenaming(ctx.Depth, spine)
	if err != nil {
		return err
	}
	body, err := renameQuote(ctx.Kernel, renaming, metaID, ctx.Depth, rhs)
	if err != nil {
		return err
	}
	solutionExpr := wrapParams(spine, body)
	solutionVal := nbe.Eval(ctx.Kernel, value.Env{}, solutionExpr)
	return ctx.Kernel.Metas.Solve(metaID, solutionVal)
}

// wrapParams wraps body in one FunLit per pattern variable, matching each
// spine application's plicity. Each synthesized parameter's type is an
// ErrorExpr placeholder: Apply never reads it (it only extends the
// closure's environment and reduces the body), but quoting the solution,
// as Zonk does, reproduces it and prints it as #error.
func wrapParams(spine []value.Elim, body core.Expr) core.Expr {
	for i := len(spine) - 1; i >= 0; i-- {
		app := spine[i].(value.ElimApp)
		body = &core.FunLit{Param: core.Param{Plicity: app.Plicity, Name: nil, Type: core.ErrorExpr{}}, Body: body}
	}
	return body
}

func isErrorValue(v value.Value) bool {
	n, ok := v.(*value.Neutral)
	if !ok {
		return false
	}
	_, ok = n.Head.(value.HeadError)
	return ok
}

// force resolves a neutral metavariable head to its solution (reapplying
// any spine eliminations already accumulated against it) whenever the
// metavariable has since been solved, so unification always compares
// against the most current information.
func force(ctx nbe.Ctx, v value.Value) value.Value {
	n, ok := v.(*value.Neutral)
	if !ok {
		return v
	}
	mh, ok := n.Head.(value.HeadMetaVar)
	if !ok {
		return v
	}
	sol, ok := ctx.Metas.Lookup(mh.ID)
	if !ok {
		return v
	}
	result := sol
	for _, e := range n.Spine {
		switch el := e.(type) {
		case value.ElimApp:
			result = nbe.Apply(ctx, result, el.Plicity, el.Arg)
		case value.ElimProj:
			result = nbe.Project(ctx, result, el.Label)
		case value.ElimMatchBool:
			result = nbe.CaseSplitBool(ctx, result, el.Then, el.Else)
		case value.ElimMatchInt:
			result = nbe.CaseSplitInt(ctx, result, el.Cases, el.Default)
		}
	}
	return force(ctx, result)
}
