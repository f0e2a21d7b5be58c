package elaborate

import (
	stderrors "errors"

	"github.com/pion-lang/pion/internal/ast"
	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/env"
	"github.com/pion-lang/pion/internal/errors"
	"github.com/pion-lang/pion/internal/nbe"
	"github.com/pion-lang/pion/internal/patmatch"
	"github.com/pion-lang/pion/internal/value"
)

// synthMatch elaborates a match expression with no expected type: the
// first arm is Synthesized and its type becomes every other arm's expected
// type, exactly the way synthIf picks thenTy as the type of the whole
// conditional. Because compileMatch elaborates every arm's right-hand side
// eagerly and in order while it builds patmatch's rows (rather than lazily
// from inside a Row's Build callback), arm 0 is always the very first
// checkRhs call, so resultTy is already populated before any later arm
// needs it -- no separate pre-pass, and no risk of allocating a second,
// orphaned set of metavariables for arm 0.
func synthMatch(ctx Ctx, rng ast.Range, node ast.MatchExpr) (core.Expr, value.Value) {
	scrutTerm, scrutTy := Synth(ctx, node.Scrut)
	if len(node.Arms) == 0 {
		report(ctx, errors.MAT001, rng, "match has no arms")
		return errorResult()
	}

	var resultTy value.Value
	checkRhs := func(armCtx Ctx, rhs ast.Located[ast.Expr]) core.Expr {
		if resultTy == nil {
			var term core.Expr
			term, resultTy = Synth(armCtx, rhs)
			return term
		}
		return Check(armCtx, rhs, resultTy)
	}
	term := compileMatch(ctx, rng, scrutTerm, scrutTy, node.Arms, checkRhs)
	if resultTy == nil {
		resultTy = value.ErrorValue()
	}
	return term, resultTy
}

func checkMatch(ctx Ctx, rng ast.Range, node ast.MatchExpr, expected value.Value) core.Expr {
	scrutTerm, scrutTy := Synth(ctx, node.Scrut)
	if len(node.Arms) == 0 {
		report(ctx, errors.MAT001, rng, "match has no arms")
		return core.ErrorExpr{}
	}
	checkRhs := func(armCtx Ctx, rhs ast.Located[ast.Expr]) core.Expr {
		return Check(armCtx, rhs, expected)
	}
	return compileMatch(ctx, rng, scrutTerm, scrutTy, node.Arms, checkRhs)
}

// compileMatch is the single entry point synthMatch/checkMatch (and a
// plain, irrefutable `let` destructuring, which is just a one-armed match)
// share: it compiles arms against one scrutinee occurrence via package
// patmatch, reporting MAT001 if some value of the scrutinee's type is left
// uncovered and MAT002 for every arm patmatch never actually had to build.
func compileMatch(ctx Ctx, rng ast.Range, scrutTerm core.Expr, scrutTy value.Value, arms []ast.MatchArm, checkRhs func(Ctx, ast.Located[ast.Expr]) core.Expr) core.Expr {
	scrutVal := nbe.Eval(ctx.Kernel, ctx.Env, scrutTerm)
	invoked := make([]bool, len(arms))
	term := compileMatchFrom(ctx, rng, scrutTerm, scrutTy, scrutVal, arms, 0, checkRhs, invoked)
	for i, hit := range invoked {
		if !hit {
			report(ctx, errors.MAT002, arms[i].Rhs.Range, "this arm is unreachable")
		}
	}
	return term
}

// compileMatchFrom compiles arms[startIdx:] against one shared scrutinee
// occurrence. A guarded arm consumes every arm after it as its own Else
// fallback: that fallback is compiled eagerly right here (recursing into
// compileMatchFrom), not lazily inside the arm's Row.Build, since Build's
// signature has no way to fail and a guard's fallback can itself be
// genuinely non-exhaustive. A guarded arm is therefore always the last row
// added in one call -- arms after it never become top-level rows of this
// same matrix, only reachable through its Else branch.
func compileMatchFrom(ctx Ctx, rng ast.Range, scrutTerm core.Expr, scrutTy, scrutVal value.Value, arms []ast.MatchArm, startIdx int, checkRhs func(Ctx, ast.Located[ast.Expr]) core.Expr, invoked []bool) core.Expr {
	if startIdx >= len(arms) {
		// Reached only as a guarded arm's Else when it is the last arm
		// written: its guard can fail at runtime with nothing left to try,
		// which is exactly a non-exhaustive match.
		report(ctx, errors.MAT001, rng, "non-exhaustive match: no arm covers every value of "+quoteForDiag(ctx, scrutTy))
		return core.ErrorExpr{}
	}

	var rows []patmatch.Row
	for i := startIdx; i < len(arms); i++ {
		arm := arms[i]
		pat, vars := elaboratePat(ctx, arm.Pat, scrutTy, scrutVal)

		armCtx := ctx
		for _, pv := range vars {
			armCtx = armCtx.bind(pv.Name, pv.Type, Bound)
		}
		rhsTerm := checkRhs(armCtx, arm.Rhs)
		idx := i

		if arm.Guard == nil {
			rows = append(rows, patmatch.Row{
				Patterns: []patmatch.Pattern{pat},
				Build: func(bindings []patmatch.Binding) core.Expr {
					invoked[idx] = true
					return wrapPatBindings(ctx, vars, bindings, rhsTerm)
				},
			})
			continue
		}

		guardTerm := Check(armCtx, *arm.Guard, value.BOOL)
		elseTerm := compileMatchFrom(ctx, rng, scrutTerm, scrutTy, scrutVal, arms, i+1, checkRhs, invoked)
		rows = append(rows, patmatch.Row{
			Patterns: []patmatch.Pattern{pat},
			Build: func(bindings []patmatch.Binding) core.Expr {
				invoked[idx] = true
				return &core.MatchBool{
					Cond: wrapPatBindings(ctx, vars, bindings, guardTerm),
					Then: wrapPatBindings(ctx, vars, bindings, rhsTerm),
					Else: elseTerm,
				}
			},
		})
		break
	}

	// patmatch.Compile always returns a structurally complete term, even on
	// error: a non-exhaustive arm becomes a core.ErrorExpr{} leaf rather
	// than discarding the whole match, so the already-compiled sibling
	// branches are never thrown away because one branch was missing a case.
	term, err := patmatch.Compile([]core.Expr{scrutTerm}, rows)
	if err != nil {
		var nonExh *patmatch.NonExhaustiveError
		if stderrors.As(err, &nonExh) {
			report(ctx, errors.MAT001, rng, "non-exhaustive match: no arm covers every value of "+quoteForDiag(ctx, scrutTy))
		} else {
			report(ctx, errors.MAT001, rng, "match compilation failed: "+err.Error())
		}
	}
	return term
}

// wrapPatBindings wraps body -- elaborated under a scope where each of
// vars was bound, in order, as an ordinary local -- in a core.Lets chain
// binding those same names to patmatch's computed occurrence expressions
// for this row, so the returned term is self-contained. bindings always
// has exactly one entry per var, in the same order: both elaboratePat and
// patmatch's own column-splitting walk a pattern depth-first, left to
// right, and an Ident pattern is the only thing that ever both appends a
// var here and a Binding there.
func wrapPatBindings(ctx Ctx, vars []patVar, bindings []patmatch.Binding, body core.Expr) core.Expr {
	if len(vars) == 0 {
		return body
	}
	letBindings := make([]core.LetBinding, len(vars))
	for i, pv := range vars {
		name := pv.Name
		letBindings[i] = core.LetBinding{
			Name: &name,
			Type: nbe.Quote(ctx.Kernel, ctx.Depth()+env.Level(i), pv.Type),
			// Occurrences are built at ctx's depth; the i earlier lets of
			// the chain are in scope here, so shift past them.
			Init: core.Shift(bindings[i].Scrutinee, i),
		}
	}
	return core.Lets(letBindings, body)
}
