package elaborate

import (
	"strconv"

	"github.com/pion-lang/pion/internal/ast"
	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/env"
	"github.com/pion-lang/pion/internal/errors"
	"github.com/pion-lang/pion/internal/nbe"
	"github.com/pion-lang/pion/internal/parser"
	"github.com/pion-lang/pion/internal/print"
	"github.com/pion-lang/pion/internal/unify"
	"github.com/pion-lang/pion/internal/value"
)

// File elaborates a single top-level expression (the whole of what the
// `check`/`eval` CLI commands feed in) and returns its core term (zonked),
// its synthesized type as a value (not zonked), and a bool set once every
// metavariable allocated during elaboration ended up solved.
func File(ctx Ctx, e ast.Located[ast.Expr]) (core.Expr, value.Value, bool) {
	term, ty := Synth(ctx, e)
	reportUnsolvedMetas(ctx, e.Range)
	zonked := nbe.Zonk(ctx.Kernel, 0, term)
	return zonked, ty, allMetasSolved(ctx)
}

func allMetasSolved(ctx Ctx) bool {
	for i := 0; i < ctx.Kernel.Metas.Len(); i++ {
		if !ctx.Kernel.Metas.IsSolved(i) {
			return false
		}
	}
	return true
}

// reportUnsolvedMetas reports ELB006 once per metavariable still unsolved
// at the end of elaboration, so a caller gets one diagnostic per genuinely
// ambiguous hole rather than a single summary.
func reportUnsolvedMetas(ctx Ctx, rng ast.Range) {
	for i := 0; i < ctx.Kernel.Metas.Len(); i++ {
		if ctx.Kernel.Metas.IsSolved(i) {
			continue
		}
		report(ctx, errors.ELB006, rng, "unsolved metavariable ?"+strconv.Itoa(i))
	}
}

func report(ctx Ctx, code string, rng ast.Range, msg string) {
	if ctx.Sink == nil {
		return
	}
	ctx.Sink.Report(errors.New(code, ctx.File, msg, rng))
}

// errorResult is returned from any elaboration rule that hit a diagnostic:
// the absorbing Error term, at the absorbing Error type (so a further
// mismatch is never reported for the same root cause).
func errorResult() (core.Expr, value.Value) {
	return core.ErrorExpr{}, value.ErrorValue()
}

// Check elaborates e against an expected type, inserting implicit
// FunType/FunLit layers where expected demands them and e doesn't already
// supply one, falling back to Synth-then-unify otherwise.
func Check(ctx Ctx, e ast.Located[ast.Expr], expected value.Value) core.Expr {
	expected = forceWhnf(ctx, expected)

	switch node := e.Data.(type) {
	case ast.HoleExpr:
		return freshMetaExpr(ctx, expected)

	case ast.LetExpr:
		return checkLet(ctx, e.Range, node, expected)

	case ast.IfExpr:
		return checkIf(ctx, node, expected)

	case ast.FunLitExpr:
		if len(node.Params) == 0 {
			return Check(ctx, node.Body, expected)
		}
		return checkFunLit(ctx, e.Range, node, expected)

	case ast.MatchExpr:
		return checkMatch(ctx, e.Range, node, expected)

	case ast.ListLitExpr:
		return checkListLit(ctx, e.Range, node, expected)
	}

	// Implicit insertion: if expected wants an implicit Pi and e is not
	// itself an implicit-parameter function literal, insert a fresh
	// implicit application/abstraction around e rather than failing.
	if ft, ok := expected.(*value.FunType); ok && ft.Param.Plicity == core.Implicit {
		if !startsWithImplicitLambda(e.Data) {
			innerCtx := ctx.bind(paramDisplayName(ft.Param.Name), ft.Param.Type, Bound)
			bodyTy := nbe.EvalClosureAt(ctx.Kernel, ft.Body, ctx.Depth())
			body := Check(innerCtx, e, bodyTy)
			return &core.FunLit{Param: core.Param{Plicity: core.Implicit, Name: ft.Param.Name, Type: nbe.Quote(ctx.Kernel, ctx.Depth(), ft.Param.Type)}, Body: body}
		}
	}

	term, actual := Synth(ctx, e)
	uctx := unify.Ctx{Kernel: ctx.Kernel, Depth: ctx.Depth()}
	if err := unify.Unify(uctx, actual, expected); err != nil {
		report(ctx, errors.ELB002, e.Range, "type mismatch: expected "+quoteForDiag(ctx, expected)+", found "+quoteForDiag(ctx, actual)+" ("+err.Error()+")")
		return core.ErrorExpr{}
	}
	return term
}

func startsWithImplicitLambda(e ast.Expr) bool {
	fl, ok := e.(ast.FunLitExpr)
	return ok && len(fl.Params) > 0 && fl.Params[0].Plicity == ast.Implicit
}

// Synth elaborates e and returns its core term together with its
// synthesized type.
func Synth(ctx Ctx, e ast.Located[ast.Expr]) (core.Expr, value.Value) {
	switch node := e.Data.(type) {
	case ast.ErrorExpr:
		return errorResult()

	case ast.ConstExpr:
		return synthConst(ctx, e.Range, node)

	case ast.LocalVarExpr:
		return synthLocalVar(ctx, e.Range, node)

	case ast.HoleExpr:
		ty := freshMetaValue(ctx, value.TYPE)
		return freshMetaExpr(ctx, ty), ty

	case ast.ParenExpr:
		return Synth(ctx, node.Inner)

	case ast.AnnExpr:
		tyTerm := Check(ctx, node.Type, value.TYPE)
		tyVal := nbe.Eval(ctx.Kernel, ctx.Env, tyTerm)
		return Check(ctx, node.Expr, tyVal), tyVal

	case ast.LetExpr:
		return synthLet(ctx, e.Range, node)

	case ast.IfExpr:
		return synthIf(ctx, node)

	case ast.FunArrowExpr:
		return synthFunArrow(ctx, node)

	case ast.FunTypeExpr:
		return synthFunType(ctx, node)

	case ast.FunLitExpr:
		return synthFunLit(ctx, node)

	case ast.FunAppExpr:
		return synthApp(ctx, e.Range, node)

	case ast.TupleLitExpr:
		return synthTupleLit(ctx, node)

	case ast.ListLitExpr:
		return synthListLit(ctx, e.Range, node)

	case ast.RecordTypeExpr:
		return synthRecordType(ctx, node)

	case ast.RecordLitExpr:
		return synthRecordLit(ctx, node)

	case ast.RecordProjExpr:
		return synthRecordProj(ctx, e.Range, node)

	case ast.MatchExpr:
		return synthMatch(ctx, e.Range, node)

	default:
		report(ctx, errors.ELB001, e.Range, "internal: unhandled expression form")
		return errorResult()
	}
}

func synthConst(ctx Ctx, rng ast.Range, node ast.ConstExpr) (core.Expr, value.Value) {
	if node.Bool != nil {
		return core.LitExpr{Lit: core.Lit{IsBool: true, Bool: *node.Bool}}, value.BOOL
	}
	n, ok := parser.ParseIntLiteral(node.Text, node.IntBase)
	if !ok {
		report(ctx, errors.ELB007, rng, "integer literal '"+node.Text+"' is out of range")
		return errorResult()
	}
	return core.LitExpr{Lit: core.Lit{Int: n}}, value.INT
}

func synthLocalVar(ctx Ctx, rng ast.Range, node ast.LocalVarExpr) (core.Expr, value.Value) {
	if prim, ok := core.LookupPrim(node.Name); ok {
		return core.PrimExpr{Prim: prim}, primType(ctx, prim)
	}
	idx, local, ok := ctx.lookup(node.Name)
	if !ok {
		report(ctx, errors.ELB001, rng, "unbound name '"+node.Name+"'")
		return errorResult()
	}
	return core.LocalVar{Index: idx}, local.Type
}

func synthIf(ctx Ctx, node ast.IfExpr) (core.Expr, value.Value) {
	cond := Check(ctx, node.Cond, value.BOOL)
	thenTerm, thenTy := Synth(ctx, node.Then)
	elseTerm := Check(ctx, node.Else, thenTy)
	return &core.MatchBool{Cond: cond, Then: thenTerm, Else: elseTerm}, thenTy
}

func checkIf(ctx Ctx, node ast.IfExpr, expected value.Value) core.Expr {
	cond := Check(ctx, node.Cond, value.BOOL)
	thenTerm := Check(ctx, node.Then, expected)
	elseTerm := Check(ctx, node.Else, expected)
	return &core.MatchBool{Cond: cond, Then: thenTerm, Else: elseTerm}
}

func synthFunArrow(ctx Ctx, node ast.FunArrowExpr) (core.Expr, value.Value) {
	lhsTerm := Check(ctx, node.Lhs, value.TYPE)
	lhsVal := nbe.Eval(ctx.Kernel, ctx.Env, lhsTerm)
	innerCtx := ctx.bind("_", lhsVal, Bound)
	rhsTerm := Check(innerCtx, node.Rhs, value.TYPE)
	return &core.FunType{Param: core.Param{Plicity: toCorePlicity(node.Plicity), Name: nil, Type: lhsTerm}, Body: rhsTerm}, value.TYPE
}

func synthFunType(ctx Ctx, node ast.FunTypeExpr) (core.Expr, value.Value) {
	if len(node.Params) == 0 {
		return Synth(ctx, node.Body)
	}
	head := node.Params[0]
	rest := ast.FunTypeExpr{Params: node.Params[1:], Body: node.Body}

	var paramTyTerm core.Expr
	if head.Type != nil {
		paramTyTerm = Check(ctx, *head.Type, value.TYPE)
	} else {
		paramTyTerm = freshMetaExpr(ctx, value.TYPE)
	}
	paramTyVal := nbe.Eval(ctx.Kernel, ctx.Env, paramTyTerm)
	innerCtx := ctx.bind(paramDisplayName(head.Name), paramTyVal, Bound)
	bodyTerm, _ := Synth(innerCtx, ast.Located[ast.Expr]{Range: node.Body.Range, Data: rest})
	return &core.FunType{Param: core.Param{Plicity: toCorePlicity(head.Plicity), Name: head.Name, Type: paramTyTerm}, Body: bodyTerm}, value.TYPE
}

func synthFunLit(ctx Ctx, node ast.FunLitExpr) (core.Expr, value.Value) {
	if len(node.Params) == 0 {
		return Synth(ctx, node.Body)
	}
	head := node.Params[0]
	rest := ast.FunLitExpr{Params: node.Params[1:], Body: node.Body}

	var paramTyTerm core.Expr
	if head.Type != nil {
		paramTyTerm = Check(ctx, *head.Type, value.TYPE)
	} else {
		paramTyTerm = freshMetaExpr(ctx, value.TYPE)
	}
	paramTyVal := nbe.Eval(ctx.Kernel, ctx.Env, paramTyTerm)
	innerCtx := ctx.bind(paramDisplayName(head.Name), paramTyVal, Bound)
	bodyTerm, bodyTy := Synth(innerCtx, ast.Located[ast.Expr]{Range: node.Body.Range, Data: rest})

	fnTerm := &core.FunLit{Param: core.Param{Plicity: toCorePlicity(head.Plicity), Name: head.Name, Type: paramTyTerm}, Body: bodyTerm}
	fnTy := &value.FunType{
		Param: value.FunParam{Plicity: toCorePlicity(head.Plicity), Name: head.Name, Type: paramTyVal},
		Body:  value.Closure{Env: ctx.Env.Snapshot(), Body: nbe.Quote(ctx.Kernel, ctx.Depth()+1, bodyTy)},
	}
	return fnTerm, fnTy
}

func checkFunLit(ctx Ctx, rng ast.Range, node ast.FunLitExpr, expected value.Value) core.Expr {
	ft, ok := expected.(*value.FunType)
	if !ok {
		report(ctx, errors.ELB002, rng, "function literal checked against non-function type "+quoteForDiag(ctx, expected))
		return core.ErrorExpr{}
	}
	head := node.Params[0]
	rest := ast.FunLitExpr{Params: node.Params[1:], Body: node.Body}

	plic := toCorePlicity(head.Plicity)
	if plic != ft.Param.Plicity {
		report(ctx, errors.ELB003, rng, "parameter plicity mismatch")
		return core.ErrorExpr{}
	}

	paramTyVal := ft.Param.Type
	paramTyTerm := nbe.Quote(ctx.Kernel, ctx.Depth(), paramTyVal)
	if head.Type != nil {
		annTerm := Check(ctx, *head.Type, value.TYPE)
		annVal := nbe.Eval(ctx.Kernel, ctx.Env, annTerm)
		uctx := unify.Ctx{Kernel: ctx.Kernel, Depth: ctx.Depth()}
		if err := unify.Unify(uctx, annVal, paramTyVal); err != nil {
			report(ctx, errors.ELB002, head.Type.Range, "parameter annotation does not match expected type")
		}
	}

	innerCtx := ctx.bind(paramDisplayName(head.Name), paramTyVal, Bound)
	bodyTy := nbe.EvalClosureAt(ctx.Kernel, ft.Body, ctx.Depth())
	bodyTerm := Check(innerCtx, ast.Located[ast.Expr]{Range: node.Body.Range, Data: rest}, bodyTy)
	return &core.FunLit{Param: core.Param{Plicity: plic, Name: head.Name, Type: paramTyTerm}, Body: bodyTerm}
}

func synthApp(ctx Ctx, rng ast.Range, node ast.FunAppExpr) (core.Expr, value.Value) {
	fnTerm, fnTy := Synth(ctx, node.Fun)
	fnTy = forceWhnf(ctx, fnTy)

	argPlic := toCorePlicity(node.Arg.Plicity)
	for argPlic == core.Explicit {
		ft, ok := fnTy.(*value.FunType)
		if !ok {
			break
		}
		if ft.Param.Plicity == core.Explicit {
			break
		}
		// Insert a fresh implicit argument and keep looking.
		implArgVal := freshMetaValue(ctx, ft.Param.Type)
		implArgTerm := nbe.Quote(ctx.Kernel, ctx.Depth(), implArgVal)
		fnTerm = &core.FunApp{Fun: fnTerm, Arg: core.Arg{Plicity: core.Implicit, Expr: implArgTerm}}
		fnTy = forceWhnf(ctx, applyClosureVal(ctx, ft.Body, implArgVal))
	}

	ft, ok := fnTy.(*value.FunType)
	if !ok {
		report(ctx, errors.ELB004, rng, "applied value is not a function")
		return errorResult()
	}
	if ft.Param.Plicity != argPlic {
		report(ctx, errors.ELB003, rng, "argument plicity mismatch")
		return errorResult()
	}
	argTerm := Check(ctx, node.Arg.Expr, ft.Param.Type)
	argVal := nbe.Eval(ctx.Kernel, ctx.Env, argTerm)
	resultTy := applyClosureVal(ctx, ft.Body, argVal)
	return &core.FunApp{Fun: fnTerm, Arg: core.Arg{Plicity: argPlic, Expr: argTerm}}, resultTy
}

// applyClosureVal resumes a FunType/FunLit's body closure with a concrete
// argument value pushed onto its captured environment — the same
// operation Apply performs for a FunLit, exposed here directly since a
// FunType's Body closure is never wrapped in a callable FunLit value.
func applyClosureVal(ctx Ctx, c value.Closure, arg value.Value) value.Value {
	ext := c.Env
	ext.Push(arg)
	return nbe.Eval(ctx.Kernel, ext, c.Body)
}

func synthTupleLit(ctx Ctx, node ast.TupleLitExpr) (core.Expr, value.Value) {
	fields := make([]core.Field, len(node.Elements))
	tyFields := make([]core.Field, len(node.Elements))
	for i, el := range node.Elements {
		label := core.TupleLabel(i)
		term, ty := Synth(ctx, el)
		fields[i] = core.Field{Label: label, Expr: term}
		tyFields[i] = core.Field{Label: label, Expr: nbe.Quote(ctx.Kernel, ctx.Depth()+env.Level(i), ty)}
	}
	tyTerm := &core.RecordType{Fields: tyFields}
	tyVal := nbe.Eval(ctx.Kernel, ctx.Env, tyTerm)
	return &core.RecordLit{Fields: fields}, tyVal
}

// synthListLit elaborates `[e0, e1, …]` by synthesizing the first element's
// type and checking every later element against it. An empty list has
// nothing to synthesize an element type from, so it is rejected here —
// checkListLit handles `[] : List A` once an expected type supplies A.
func synthListLit(ctx Ctx, rng ast.Range, node ast.ListLitExpr) (core.Expr, value.Value) {
	if len(node.Elements) == 0 {
		report(ctx, errors.ELB009, rng, "cannot infer the element type of an empty list literal; annotate it, e.g. ([] : List Int)")
		return errorResult()
	}
	headTerm, headTy := Synth(ctx, node.Elements[0])
	elems := make([]core.Expr, len(node.Elements))
	elems[0] = headTerm
	for i, el := range node.Elements[1:] {
		elems[i+1] = Check(ctx, el, headTy)
	}
	return &core.ListLit{Elements: elems}, listOf(ctx, headTy)
}

// checkListLit elaborates a list literal against an expected List A,
// checking every element (including, for an empty list, none at all)
// against A rather than requiring one to synthesize it.
func checkListLit(ctx Ctx, rng ast.Range, node ast.ListLitExpr, expected value.Value) core.Expr {
	elemTy, ok := asListType(ctx, expected)
	if !ok {
		report(ctx, errors.ELB002, rng, "list literal checked against non-list type "+quoteForDiag(ctx, expected))
		return core.ErrorExpr{}
	}
	elems := make([]core.Expr, len(node.Elements))
	for i, el := range node.Elements {
		elems[i] = Check(ctx, el, elemTy)
	}
	return &core.ListLit{Elements: elems}
}

// asListType reports whether ty is (the neutral application) `List A`,
// returning A if so.
func asListType(ctx Ctx, ty value.Value) (value.Value, bool) {
	n, ok := forceWhnf(ctx, ty).(*value.Neutral)
	if !ok {
		return nil, false
	}
	p, ok := n.Head.(value.HeadPrim)
	if !ok || p.Prim != core.PrimList || len(n.Spine) != 1 {
		return nil, false
	}
	app, ok := n.Spine[0].(value.ElimApp)
	if !ok {
		return nil, false
	}
	return app.Arg, true
}

func synthRecordType(ctx Ctx, node ast.RecordTypeExpr) (core.Expr, value.Value) {
	fields := make([]core.Field, len(node.Fields))
	cur := ctx
	for i, f := range node.Fields {
		term := Check(cur, f.Type, value.TYPE)
		fields[i] = core.Field{Label: f.Name, Expr: term}
		cur = cur.bind(f.Name, nbe.Eval(cur.Kernel, cur.Env, term), Bound)
	}
	return &core.RecordType{Fields: fields}, value.TYPE
}

func synthRecordLit(ctx Ctx, node ast.RecordLitExpr) (core.Expr, value.Value) {
	fields := make([]core.Field, len(node.Fields))
	tyFields := make([]core.Field, len(node.Fields))
	for i, f := range node.Fields {
		term, ty := Synth(ctx, f.Expr)
		fields[i] = core.Field{Label: f.Name, Expr: term}
		tyFields[i] = core.Field{Label: f.Name, Expr: nbe.Quote(ctx.Kernel, ctx.Depth()+env.Level(i), ty)}
	}
	tyVal := nbe.Eval(ctx.Kernel, ctx.Env, &core.RecordType{Fields: tyFields})
	return &core.RecordLit{Fields: fields}, tyVal
}

func synthRecordProj(ctx Ctx, rng ast.Range, node ast.RecordProjExpr) (core.Expr, value.Value) {
	scrutTerm, scrutTy := Synth(ctx, node.Scrut)
	rt, ok := forceWhnf(ctx, scrutTy).(*value.RecordType)
	if !ok {
		report(ctx, errors.ELB005, rng, "projection from a non-record value")
		return errorResult()
	}
	scrutVal := nbe.Eval(ctx.Kernel, ctx.Env, scrutTerm)
	tel := rt.Telescope
	for {
		label, fieldTy, rest, ok := nbe.SplitTelescope(ctx.Kernel, tel)
		if !ok {
			report(ctx, errors.ELB005, rng, "record has no field '"+node.Name+"'")
			return errorResult()
		}
		if label == node.Name {
			return &core.RecordProj{Scrut: scrutTerm, Label: node.Name}, fieldTy
		}
		fieldVal := nbe.Project(ctx.Kernel, scrutVal, label)
		tel = rest(fieldVal)
	}
}

func toCorePlicity(p ast.Plicity) core.Plicity {
	if p == ast.Implicit {
		return core.Implicit
	}
	return core.Explicit
}

func paramDisplayName(n *string) string {
	if n == nil {
		return "_"
	}
	return *n
}

// forceWhnf re-resolves a solved-metavariable-headed value, mirroring
// package unify's own force so Check/Synth never branch on a stale
// unsolved-looking neutral.
func forceWhnf(ctx Ctx, v value.Value) value.Value {
	n, ok := v.(*value.Neutral)
	if !ok {
		return v
	}
	mh, ok := n.Head.(value.HeadMetaVar)
	if !ok {
		return v
	}
	sol, ok := ctx.Kernel.Metas.Lookup(mh.ID)
	if !ok {
		return v
	}
	result := sol
	for _, e := range n.Spine {
		switch el := e.(type) {
		case value.ElimApp:
			result = nbe.Apply(ctx.Kernel, result, el.Plicity, el.Arg)
		case value.ElimProj:
			result = nbe.Project(ctx.Kernel, result, el.Label)
		case value.ElimMatchBool:
			result = nbe.CaseSplitBool(ctx.Kernel, result, el.Then, el.Else)
		case value.ElimMatchInt:
			result = nbe.CaseSplitInt(ctx.Kernel, result, el.Cases, el.Default)
		}
	}
	return forceWhnf(ctx, result)
}

func quoteForDiag(ctx Ctx, v value.Value) string {
	return print.Expr(nbe.Quote(ctx.Kernel, ctx.Depth(), v))
}

// freshMetaValue allocates a metavariable of type ty and returns it
// applied to every Bound local currently in scope — the scope closure
// spec.md requires so a later solution can only ever mention variables
// genuinely visible at the hole's point of introduction.
func freshMetaValue(ctx Ctx, ty value.Value) value.Value {
	id := ctx.Kernel.Metas.Fresh(ty)
	spine := boundSpine(ctx)
	return &value.Neutral{Head: value.HeadMetaVar{ID: id}, Spine: spine}
}

func freshMetaExpr(ctx Ctx, ty value.Value) core.Expr {
	v := freshMetaValue(ctx, ty)
	return nbe.Quote(ctx.Kernel, ctx.Depth(), v)
}

func boundSpine(ctx Ctx) []value.Elim {
	items := ctx.Locals.Iter()
	var spine []value.Elim
	for i, l := range items {
		if l.Kind != Bound {
			continue
		}
		spine = append(spine, value.ElimApp{Plicity: core.Explicit, Arg: value.LocalVar(env.Level(i))})
	}
	return spine
}

// primType gives the closed type of each built-in, constructed directly
// as values rather than parsed from surface syntax. List is `Type -> Type`;
// Eq, refl, subst, bool_rec, fix, len, push, and append take leading
// implicit arguments (Types, except bool_rec's motive `Bool -> Type`).
// These signatures are built with piV/arr, which thread ctx through the
// same bind/quote steps synthFunType/synthFunLit use for a surface `forall`.
func primType(ctx Ctx, p core.Prim) value.Value {
	switch p {
	case core.PrimType, core.PrimBool, core.PrimInt:
		return value.TYPE

	case core.PrimAdd, core.PrimSub, core.PrimMul:
		return nonDep(value.INT, nonDep(value.INT, value.INT))
	case core.PrimEq, core.PrimLt:
		return nonDep(value.INT, nonDep(value.INT, value.BOOL))

	case core.PrimList:
		// List : Type -> Type
		return arr(ctx, value.TYPE, value.TYPE)

	case core.PrimEqType:
		// Eq : {A : Type} -> A -> A -> Type
		return piV(ctx, core.Implicit, "A", value.TYPE, func(ac Ctx, a value.Value) value.Value {
			return arr(ac, a, arr(ac, a, value.TYPE))
		})

	case core.PrimRefl:
		// refl : {A : Type} -> {x : A} -> Eq {A} x x
		return piV(ctx, core.Implicit, "A", value.TYPE, func(ac Ctx, a value.Value) value.Value {
			return piV(ac, core.Implicit, "x", a, func(xc Ctx, x value.Value) value.Value {
				return eqTypeApplied(xc, a, x, x)
			})
		})

	case core.PrimSubst:
		// subst : {A : Type} -> {x y : A} -> {P : A -> Type} ->
		//         Eq {A} x y -> P x -> P y
		return piV(ctx, core.Implicit, "A", value.TYPE, func(ac Ctx, a value.Value) value.Value {
			return piV(ac, core.Implicit, "x", a, func(xc Ctx, x value.Value) value.Value {
				return piV(xc, core.Implicit, "y", a, func(yc Ctx, y value.Value) value.Value {
					return piV(yc, core.Implicit, "P", arr(yc, a, value.TYPE), func(pc Ctx, p value.Value) value.Value {
						eqTy := eqTypeApplied(pc, a, x, y)
						return piV(pc, core.Explicit, "eq", eqTy, func(eqc Ctx, _ value.Value) value.Value {
							px := nbe.Apply(eqc.Kernel, p, core.Explicit, x)
							return piV(eqc, core.Explicit, "p", px, func(ppc Ctx, _ value.Value) value.Value {
								return nbe.Apply(ppc.Kernel, p, core.Explicit, y)
							})
						})
					})
				})
			})
		})

	case core.PrimBoolRec:
		// bool_rec : {P : Bool -> Type} -> (b : Bool) -> P true -> P false -> P b
		return piV(ctx, core.Implicit, "P", arr(ctx, value.BOOL, value.TYPE), func(pc Ctx, p value.Value) value.Value {
			return piV(pc, core.Explicit, "b", value.BOOL, func(bc Ctx, b value.Value) value.Value {
				pTrue := nbe.Apply(bc.Kernel, p, core.Explicit, value.Lit{Lit: core.Lit{IsBool: true, Bool: true}})
				return piV(bc, core.Explicit, "then", pTrue, func(thenC Ctx, _ value.Value) value.Value {
					pFalse := nbe.Apply(thenC.Kernel, p, core.Explicit, value.Lit{Lit: core.Lit{IsBool: true, Bool: false}})
					return piV(thenC, core.Explicit, "else", pFalse, func(elseC Ctx, _ value.Value) value.Value {
						return nbe.Apply(elseC.Kernel, p, core.Explicit, b)
					})
				})
			})
		})

	case core.PrimLen:
		// len : {A : Type} -> List A -> Int
		return piV(ctx, core.Implicit, "A", value.TYPE, func(ac Ctx, a value.Value) value.Value {
			return arr(ac, listOf(ac, a), value.INT)
		})

	case core.PrimPush:
		// push : {A : Type} -> List A -> A -> List A
		return piV(ctx, core.Implicit, "A", value.TYPE, func(ac Ctx, a value.Value) value.Value {
			lst := listOf(ac, a)
			return piV(ac, core.Explicit, "xs", lst, func(xsc Ctx, _ value.Value) value.Value {
				return arr(xsc, a, lst)
			})
		})

	case core.PrimAppend:
		// append : {A : Type} -> List A -> List A -> List A
		return piV(ctx, core.Implicit, "A", value.TYPE, func(ac Ctx, a value.Value) value.Value {
			lst := listOf(ac, a)
			return arr(ac, lst, arr(ac, lst, lst))
		})

	case core.PrimFix:
		// fix : {A B : Type} -> ((A -> B) -> (A -> B)) -> A -> B
		return piV(ctx, core.Implicit, "A", value.TYPE, func(ac Ctx, a value.Value) value.Value {
			return piV(ac, core.Implicit, "B", value.TYPE, func(bc Ctx, b value.Value) value.Value {
				step := arr(bc, a, b)
				return piV(bc, core.Explicit, "f", arr(bc, step, step), func(fc Ctx, _ value.Value) value.Value {
					return piV(fc, core.Explicit, "x", a, func(_ Ctx, _ value.Value) value.Value {
						return b
					})
				})
			})
		})

	default:
		// unreachable: every core.Prim constructor is handled above.
		return value.TYPE
	}
}

func nonDep(param, result value.Value) value.Value {
	return &value.FunType{
		Param: value.FunParam{Plicity: core.Explicit, Type: param},
		Body:  value.Closure{Env: value.Env{}, Body: quoteClosed(result)},
	}
}

// quoteClosed quotes a value known to be closed and meta-free (the fixed
// arithmetic primitive schemes above, the only ones with no dependency on
// ctx), so a throwaway kernel context is enough — there is nothing for it
// to look up.
func quoteClosed(v value.Value) core.Expr {
	k := nbe.Ctx{Opts: nbe.DefaultOpts(), Metas: nbe.NewMetaStore()}
	return nbe.Quote(k, 0, v)
}

// piV constructs the value of a dependent `forall (plicity name : paramTy)
// -> bodyTy`, threading ctx.bind/Depth the same way synthFunType and
// synthFunLit build a FunType from surface syntax — just driven by a Go
// closure instead of walking an ast.Expr, since a primitive's signature is
// fixed at the implementation rather than written out as source.
func piV(ctx Ctx, plicity core.Plicity, name string, paramTy value.Value, bodyTy func(Ctx, value.Value) value.Value) *value.FunType {
	lvl := ctx.Depth()
	innerCtx := ctx.bind(name, paramTy, Bound)
	resultTy := bodyTy(innerCtx, value.LocalVar(lvl))
	return &value.FunType{
		Param: value.FunParam{Plicity: plicity, Name: &name, Type: paramTy},
		Body:  value.Closure{Env: ctx.Env.Snapshot(), Body: nbe.Quote(ctx.Kernel, innerCtx.Depth(), resultTy)},
	}
}

// arr builds a non-dependent `param -> result`, anchored at ctx's current
// depth so it nests correctly inside a piV closure being quoted one level
// deeper than ctx itself.
func arr(ctx Ctx, param, result value.Value) *value.FunType {
	return &value.FunType{
		Param: value.FunParam{Plicity: core.Explicit, Type: param},
		Body:  value.Closure{Env: ctx.Env.Snapshot(), Body: nbe.Quote(ctx.Kernel, ctx.Depth()+1, result)},
	}
}

// listOf applies the List type former to an element type — `List A`,
// spelled the way ordinary surface code would apply it.
func listOf(ctx Ctx, elem value.Value) value.Value {
	return nbe.Apply(ctx.Kernel, value.Prim{Prim: core.PrimList}, core.Explicit, elem)
}

// eqTypeApplied builds `Eq {A} x y`, for refl/subst's signatures.
func eqTypeApplied(ctx Ctx, a, x, y value.Value) value.Value {
	v := nbe.Apply(ctx.Kernel, value.Prim{Prim: core.PrimEqType}, core.Implicit, a)
	v = nbe.Apply(ctx.Kernel, v, core.Explicit, x)
	return nbe.Apply(ctx.Kernel, v, core.Explicit, y)
}
