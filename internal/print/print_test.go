package print

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pion-lang/pion/internal/core"
)

func name(s string) *string { return &s }

func TestPrintsNonDependentArrowSugar(t *testing.T) {
	ft := &core.FunType{
		Param: core.Param{Plicity: core.Explicit, Name: name("x"), Type: core.PrimExpr{Prim: core.PrimInt}},
		Body:  core.PrimExpr{Prim: core.PrimBool},
	}
	assert.Equal(t, "Int -> Bool", Expr(ft))
}

func TestPrintsImplicitArrowSugarWithAtPrefix(t *testing.T) {
	ft := &core.FunType{
		Param: core.Param{Plicity: core.Implicit, Name: name("A"), Type: core.PrimExpr{Prim: core.PrimType}},
		Body:  core.PrimExpr{Prim: core.PrimInt},
	}
	assert.Equal(t, "@Type -> Int", Expr(ft))
}

func TestPrintsDependentFunTypeWithBinderName(t *testing.T) {
	ft := &core.FunType{
		Param: core.Param{Plicity: core.Explicit, Name: name("n"), Type: core.PrimExpr{Prim: core.PrimInt}},
		Body:  core.LocalVar{Index: 0},
	}
	assert.Equal(t, "forall (n : Int) -> n", Expr(ft))
}

func TestPrintsFlattenedLetChain(t *testing.T) {
	inner := &core.Let{
		Name: name("b"),
		Type: core.PrimExpr{Prim: core.PrimInt},
		Init: core.LitExpr{Lit: core.Lit{Int: 2}},
		Body: core.LocalVar{Index: 0},
	}
	outer := &core.Let{
		Name: name("a"),
		Type: core.PrimExpr{Prim: core.PrimInt},
		Init: core.LitExpr{Lit: core.Lit{Int: 1}},
		Body: inner,
	}
	assert.Equal(t, "let a : Int = 1; let b : Int = 2; b", Expr(outer))
}

func TestPrintsTupleSugarForRecordLit(t *testing.T) {
	lit := &core.RecordLit{Fields: []core.Field{
		{Label: "_0", Expr: core.LitExpr{Lit: core.Lit{Int: 1}}},
		{Label: "_1", Expr: core.LitExpr{Lit: core.Lit{Int: 2}}},
	}}
	assert.Equal(t, "(1, 2)", Expr(lit))
}

func TestPrintsNamedRecordLitWithoutSugar(t *testing.T) {
	lit := &core.RecordLit{Fields: []core.Field{
		{Label: "fst", Expr: core.LitExpr{Lit: core.Lit{Int: 1}}},
	}}
	assert.Equal(t, "{fst = 1}", Expr(lit))
}

func TestPrintsShadowedBinderWithFreshSuffix(t *testing.T) {
	inner := &core.FunLit{
		Param: core.Param{Plicity: core.Explicit, Name: name("x"), Type: core.PrimExpr{Prim: core.PrimInt}},
		Body:  core.LocalVar{Index: 0},
	}
	outer := &core.FunLit{
		Param: core.Param{Plicity: core.Explicit, Name: name("x"), Type: core.PrimExpr{Prim: core.PrimInt}},
		Body:  inner,
	}
	got := Expr(outer)
	assert.Contains(t, got, "x1")
}
