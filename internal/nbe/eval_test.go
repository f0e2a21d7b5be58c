package nbe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/env"
	"github.com/pion-lang/pion/internal/value"
)

func freshCtx() Ctx {
	return Ctx{Opts: DefaultOpts(), Metas: NewMetaStore()}
}

func intLit(n uint32) core.Expr { return core.LitExpr{Lit: core.Lit{Int: n}} }

func TestEvalLiteralsAndPrims(t *testing.T) {
	ctx := freshCtx()
	v := Eval(ctx, value.Env{}, intLit(42))
	lit, ok := v.(value.Lit)
	require.True(t, ok)
	assert.Equal(t, uint32(42), lit.Lit.Int)
}

func TestApplyIdentityFunLit(t *testing.T) {
	ctx := freshCtx()
	// fun (x : Int) => x
	id := &core.FunLit{
		Param: core.Param{Plicity: core.Explicit, Type: core.PrimExpr{Prim: core.PrimInt}},
		Body:  core.LocalVar{Index: 0},
	}
	fn := Eval(ctx, value.Env{}, id)
	result := Apply(ctx, fn, core.Explicit, value.Lit{Lit: core.Lit{Int: 7}})
	lit, ok := result.(value.Lit)
	require.True(t, ok)
	assert.Equal(t, uint32(7), lit.Lit.Int)
}

func TestAddDeltaRule(t *testing.T) {
	ctx := freshCtx()
	// (add 2) 3
	add1 := Apply(ctx, value.Prim{Prim: core.PrimAdd}, core.Explicit, value.Lit{Lit: core.Lit{Int: 2}})
	result := Apply(ctx, add1, core.Explicit, value.Lit{Lit: core.Lit{Int: 3}})
	lit, ok := result.(value.Lit)
	require.True(t, ok)
	assert.Equal(t, uint32(5), lit.Lit.Int)
}

func TestAddStaysNeutralOnFreeVariable(t *testing.T) {
	ctx := freshCtx()
	add1 := Apply(ctx, value.Prim{Prim: core.PrimAdd}, core.Explicit, value.LocalVar(env.Level(0)))
	result := Apply(ctx, add1, core.Explicit, value.Lit{Lit: core.Lit{Int: 3}})
	_, ok := result.(*value.Neutral)
	assert.True(t, ok, "add applied to a stuck variable should stay neutral, not panic or reduce")
}

func TestQuoteRoundTripsFunLit(t *testing.T) {
	ctx := freshCtx()
	expr := &core.FunLit{
		Param: core.Param{Plicity: core.Explicit, Type: core.PrimExpr{Prim: core.PrimInt}},
		Body:  core.LocalVar{Index: 0},
	}
	v := Eval(ctx, value.Env{}, expr)
	back := Quote(ctx, 0, v)
	assert.True(t, Equal(expr, back))
}

func TestFixUnfoldsOneStep(t *testing.T) {
	ctx := Ctx{Opts: Opts{UnfoldFix: true, UnfoldLet: true}, Metas: NewMetaStore()}
	// f = fun (self : Int) => fun (n : Int) => n
	// fix @Int @Int f 5 should unfold to f applied to (fix @Int @Int f) applied to 5,
	// and since f ignores self and just returns n, the result is 5.
	f := &core.FunLit{
		Param: core.Param{Plicity: core.Explicit, Type: core.PrimExpr{Prim: core.PrimInt}},
		Body: &core.FunLit{
			Param: core.Param{Plicity: core.Explicit, Type: core.PrimExpr{Prim: core.PrimInt}},
			Body:  core.LocalVar{Index: 0},
		},
	}
	fVal := Eval(ctx, value.Env{}, f)
	fixV := Apply(ctx, value.Prim{Prim: core.PrimFix}, core.Implicit, value.INT)
	fixV = Apply(ctx, fixV, core.Implicit, value.INT)
	fixV = Apply(ctx, fixV, core.Explicit, fVal)
	result := Apply(ctx, fixV, core.Explicit, value.Lit{Lit: core.Lit{Int: 5}})
	lit, ok := result.(value.Lit)
	require.True(t, ok)
	assert.Equal(t, uint32(5), lit.Lit.Int)
}

func TestListPrimitives(t *testing.T) {
	ctx := freshCtx()
	list := &value.ListVal{Elements: []value.Value{value.Lit{Lit: core.Lit{Int: 1}}, value.Lit{Lit: core.Lit{Int: 2}}}}

	// len @Int xs
	lenV := Apply(ctx, Apply(ctx, value.Prim{Prim: core.PrimLen}, core.Implicit, value.INT), core.Explicit, list)
	lenLit, ok := lenV.(value.Lit)
	require.True(t, ok)
	assert.Equal(t, uint32(2), lenLit.Lit.Int)

	// push @Int xs 3
	pushHead := Apply(ctx, Apply(ctx, value.Prim{Prim: core.PrimPush}, core.Implicit, value.INT), core.Explicit, list)
	pushed := Apply(ctx, pushHead, core.Explicit, value.Lit{Lit: core.Lit{Int: 3}})
	pushedList, ok := pushed.(*value.ListVal)
	require.True(t, ok)
	assert.Len(t, pushedList.Elements, 3)

	// append @Int xs xs
	appendHead := Apply(ctx, Apply(ctx, value.Prim{Prim: core.PrimAppend}, core.Implicit, value.INT), core.Explicit, list)
	appended := Apply(ctx, appendHead, core.Explicit, list)
	appendedList, ok := appended.(*value.ListVal)
	require.True(t, ok)
	assert.Len(t, appendedList.Elements, 4)
}

func TestMetaStoreSolveIdempotentOnAlphaEquivalentSolution(t *testing.T) {
	metas := NewMetaStore()
	id := metas.Fresh(value.INT)
	require.NoError(t, metas.Solve(id, value.Lit{Lit: core.Lit{Int: 9}}))
	assert.NoError(t, metas.Solve(id, value.Lit{Lit: core.Lit{Int: 9}}))
	assert.Error(t, metas.Solve(id, value.Lit{Lit: core.Lit{Int: 10}}))
}
