package elaborate

import (
	"github.com/pion-lang/pion/internal/ast"
	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/errors"
	"github.com/pion-lang/pion/internal/nbe"
	"github.com/pion-lang/pion/internal/unify"
	"github.com/pion-lang/pion/internal/value"
)

// synthLet and checkLet both reduce a non-recursive `let pat = init; body`
// to a single-armed, guard-free match: pat must already be irrefutable for
// any sensible `let`, and patmatch reports MAT001 itself if it turns out
// not to be (a literal pattern only covering one of Bool's two values, for
// instance), rather than this needing its own diagnostic or its own
// hand-rolled RecordProj-chasing destructuring code.
func synthLet(ctx Ctx, rng ast.Range, node ast.LetExpr) (core.Expr, value.Value) {
	if node.Recursive {
		return synthLetRec(ctx, rng, node)
	}
	initTerm, initTy := elaborateLetInit(ctx, node)
	var resultTy value.Value
	checkRhs := func(armCtx Ctx, rhs ast.Located[ast.Expr]) core.Expr {
		var term core.Expr
		term, resultTy = Synth(armCtx, rhs)
		return term
	}
	arm := ast.MatchArm{Pat: node.Pat, Rhs: node.Body}
	term := compileMatch(ctx, rng, initTerm, initTy, []ast.MatchArm{arm}, checkRhs)
	if resultTy == nil {
		resultTy = value.ErrorValue()
	}
	return term, resultTy
}

func checkLet(ctx Ctx, rng ast.Range, node ast.LetExpr, expected value.Value) core.Expr {
	if node.Recursive {
		term, ty := synthLetRec(ctx, rng, node)
		uctx := unify.Ctx{Kernel: ctx.Kernel, Depth: ctx.Depth()}
		if err := unify.Unify(uctx, ty, expected); err != nil {
			report(ctx, errors.ELB002, rng, "type mismatch: expected "+quoteForDiag(ctx, expected)+", found "+quoteForDiag(ctx, ty)+" ("+err.Error()+")")
			return core.ErrorExpr{}
		}
		return term
	}
	initTerm, initTy := elaborateLetInit(ctx, node)
	checkRhs := func(armCtx Ctx, rhs ast.Located[ast.Expr]) core.Expr {
		return Check(armCtx, rhs, expected)
	}
	arm := ast.MatchArm{Pat: node.Pat, Rhs: node.Body}
	return compileMatch(ctx, rng, initTerm, initTy, []ast.MatchArm{arm}, checkRhs)
}

// elaborateLetInit elaborates a `let`'s right-hand side, against its own
// annotation if one is written, otherwise synthesized outright.
func elaborateLetInit(ctx Ctx, node ast.LetExpr) (core.Expr, value.Value) {
	if node.Type != nil {
		tyTerm := Check(ctx, *node.Type, value.TYPE)
		tyVal := nbe.Eval(ctx.Kernel, ctx.Env, tyTerm)
		return Check(ctx, node.Init, tyVal), tyVal
	}
	return Synth(ctx, node.Init)
}

// synthLetRec compiles `let rec f : A -> B = fun x => body; rest` into
// `let f = fix @A @B (fun self => fun x => body[f := self]); rest`, the
// simplification this kernel's single `fix` primitive affords: B must not
// depend on x, so every recursive function expressible here has a
// non-dependent codomain (the restriction is checked, not assumed).
func synthLetRec(ctx Ctx, rng ast.Range, node ast.LetExpr) (core.Expr, value.Value) {
	name, fixCore, fixVal, tyVal, ok := buildLetRecFix(ctx, rng, node)
	if !ok {
		return errorResult()
	}
	bodyCtx := ctx.define(name, tyVal, fixVal)
	bodyTerm, bodyTy := Synth(bodyCtx, node.Body)
	tyTerm := nbe.Quote(ctx.Kernel, ctx.Depth(), tyVal)
	return &core.Let{Name: &name, Type: tyTerm, Init: fixCore, Body: bodyTerm}, bodyTy
}

func checkLetRec(ctx Ctx, rng ast.Range, node ast.LetExpr, expected value.Value) core.Expr {
	name, fixCore, fixVal, tyVal, ok := buildLetRecFix(ctx, rng, node)
	if !ok {
		return core.ErrorExpr{}
	}
	bodyCtx := ctx.define(name, tyVal, fixVal)
	bodyTerm := Check(bodyCtx, node.Body, expected)
	tyTerm := nbe.Quote(ctx.Kernel, ctx.Depth(), tyVal)
	return &core.Let{Name: &name, Type: tyTerm, Init: fixCore, Body: bodyTerm}
}

// buildLetRecFix elaborates everything but the `; body` tail of a `let
// rec`: the bound name, the fixed-point term computing its value, that
// value itself (so the body can be elaborated against a Defined local
// rather than a Bound one), and its type. ok is false once a diagnostic
// has already been reported and there is nothing usable to build further.
func buildLetRecFix(ctx Ctx, rng ast.Range, node ast.LetExpr) (name string, fixCore core.Expr, fixVal, tyVal value.Value, ok bool) {
	name, trivial := trivialPatName(node.Pat)
	if !trivial {
		report(ctx, errors.ELB008, node.Pat.Range, "let rec's pattern must be a plain name, not a destructuring pattern")
		return "", nil, nil, nil, false
	}
	if node.Type == nil {
		report(ctx, errors.ELB008, rng, "let rec requires an explicit type annotation")
		return "", nil, nil, nil, false
	}
	tyTerm := Check(ctx, *node.Type, value.TYPE)
	tyVal = nbe.Eval(ctx.Kernel, ctx.Env, tyTerm)

	ft, isFun := forceWhnf(ctx, tyVal).(*value.FunType)
	if !isFun {
		report(ctx, errors.ELB008, node.Type.Range, "let rec's annotation must be a function type")
		return "", nil, nil, nil, false
	}
	if ft.Param.Plicity != core.Explicit {
		report(ctx, errors.ELB008, node.Type.Range, "let rec's bound argument must be explicit")
		return "", nil, nil, nil, false
	}

	fl, isFunLit := node.Init.Data.(ast.FunLitExpr)
	if !isFunLit || len(fl.Params) == 0 {
		report(ctx, errors.ELB008, node.Init.Range, "let rec's right-hand side must be a function literal")
		return "", nil, nil, nil, false
	}

	aTy := ft.Param.Type

	// ft.Body was captured directly off ctx.Env, so its own natural
	// instantiation level is ctx.Depth() -- not one deeper, which is where
	// x itself will eventually be bound. Quote the result one level beyond
	// that to test whether the fresh variable introduced there (the one
	// standing for x) actually occurs; if it doesn't, shifting back down by
	// one gives a term closed at ctx.Depth(), free of both self and x.
	bAtDepth := nbe.EvalClosureAt(ctx.Kernel, ft.Body, ctx.Depth())
	bProbe := nbe.Quote(ctx.Kernel, ctx.Depth()+1, bAtDepth)
	if core.ReferencesLocal(bProbe, 0) {
		report(ctx, errors.ELB008, node.Type.Range, "let rec cannot express a dependent return type")
		return "", nil, nil, nil, false
	}
	bClosed := core.Shift(bProbe, -1)

	aTerm := nbe.Quote(ctx.Kernel, ctx.Depth(), aTy)

	selfCtx := ctx.bind(name, tyVal, Bound)
	if fl.Params[0].Type != nil {
		annTerm := Check(selfCtx, *fl.Params[0].Type, value.TYPE)
		annVal := nbe.Eval(selfCtx.Kernel, selfCtx.Env, annTerm)
		uctx := unify.Ctx{Kernel: ctx.Kernel, Depth: selfCtx.Depth()}
		if err := unify.Unify(uctx, annVal, aTy); err != nil {
			report(ctx, errors.ELB002, fl.Params[0].Type.Range, "parameter annotation does not match let rec's declared argument type")
		}
	}
	aTermAtSelf := nbe.Quote(ctx.Kernel, selfCtx.Depth(), aTy)
	stepCtx := selfCtx.bind(paramDisplayName(fl.Params[0].Name), aTy, Bound)

	rest := ast.FunLitExpr{Params: fl.Params[1:], Body: fl.Body}
	bodyTerm := Check(stepCtx, ast.Located[ast.Expr]{Range: fl.Body.Range, Data: rest}, bAtDepth)

	selfTy := &core.FunType{Param: core.Param{Plicity: core.Explicit, Type: aTerm}, Body: bClosed}
	stepFun := &core.FunLit{Param: core.Param{Plicity: core.Explicit, Name: fl.Params[0].Name, Type: aTermAtSelf}, Body: bodyTerm}
	selfName := "self"
	fTerm := &core.FunLit{Param: core.Param{Plicity: core.Explicit, Name: &selfName, Type: selfTy}, Body: stepFun}

	fixCore = &core.FunApp{
		Fun: &core.FunApp{
			Fun: &core.FunApp{
				Fun: core.PrimExpr{Prim: core.PrimFix},
				Arg: core.Arg{Plicity: core.Implicit, Expr: aTerm},
			},
			Arg: core.Arg{Plicity: core.Implicit, Expr: bClosed},
		},
		Arg: core.Arg{Plicity: core.Explicit, Expr: fTerm},
	}
	fixVal = nbe.Eval(ctx.Kernel, ctx.Env, fixCore)
	return name, fixCore, fixVal, tyVal, true
}
