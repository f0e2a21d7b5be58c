package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion-lang/pion/internal/ast"
	"github.com/pion-lang/pion/internal/errors"
)

func TestParsesLetRecAndApplication(t *testing.T) {
	sink := &errors.CollectingSink{}
	e := ParseExpr("t.pn", "let rec f = fun x => f x; f 0", sink)
	require.Empty(t, sink.Reports)
	let, ok := e.Data.(ast.LetExpr)
	require.True(t, ok)
	assert.True(t, let.Recursive)
	_, ok = let.Init.Data.(ast.FunLitExpr)
	assert.True(t, ok)
	app, ok := let.Body.Data.(ast.FunAppExpr)
	require.True(t, ok)
	_, ok = app.Fun.Data.(ast.LocalVarExpr)
	assert.True(t, ok)
}

func TestParsesIfExpr(t *testing.T) {
	sink := &errors.CollectingSink{}
	e := ParseExpr("t.pn", "if true then 1 else 2", sink)
	require.Empty(t, sink.Reports)
	ifE, ok := e.Data.(ast.IfExpr)
	require.True(t, ok)
	_, ok = ifE.Cond.Data.(ast.ConstExpr)
	assert.True(t, ok)
}

func TestParsesDependentFunType(t *testing.T) {
	sink := &errors.CollectingSink{}
	e := ParseExpr("t.pn", "forall (x : Int) (@y : Bool) -> Int", sink)
	require.Empty(t, sink.Reports)
	ft, ok := e.Data.(ast.FunTypeExpr)
	require.True(t, ok)
	require.Len(t, ft.Params, 2)
	assert.Equal(t, ast.Explicit, ft.Params[0].Plicity)
	assert.Equal(t, ast.Implicit, ft.Params[1].Plicity)
}

func TestParsesRecordLitAndProjection(t *testing.T) {
	sink := &errors.CollectingSink{}
	e := ParseExpr("t.pn", "{ fst = 1, snd = 2 }.fst", sink)
	require.Empty(t, sink.Reports)
	proj, ok := e.Data.(ast.RecordProjExpr)
	require.True(t, ok)
	assert.Equal(t, "fst", proj.Name)
	_, ok = proj.Scrut.Data.(ast.RecordLitExpr)
	assert.True(t, ok)
}

func TestParsesRecordType(t *testing.T) {
	sink := &errors.CollectingSink{}
	e := ParseExpr("t.pn", "{ fst : Int, snd : Bool }", sink)
	require.Empty(t, sink.Reports)
	rt, ok := e.Data.(ast.RecordTypeExpr)
	require.True(t, ok)
	require.Len(t, rt.Fields, 2)
	assert.Equal(t, "fst", rt.Fields[0].Name)
}

func TestParsesMatchWithGuard(t *testing.T) {
	sink := &errors.CollectingSink{}
	e := ParseExpr("t.pn", "match x { true if p => 1, false => 2 }", sink)
	require.Empty(t, sink.Reports)
	m, ok := e.Data.(ast.MatchExpr)
	require.True(t, ok)
	require.Len(t, m.Arms, 2)
	assert.NotNil(t, m.Arms[0].Guard)
	assert.Nil(t, m.Arms[1].Guard)
}

func TestParsesTupleLit(t *testing.T) {
	sink := &errors.CollectingSink{}
	e := ParseExpr("t.pn", "(1, 2, 3)", sink)
	require.Empty(t, sink.Reports)
	tup, ok := e.Data.(ast.TupleLitExpr)
	require.True(t, ok)
	assert.Len(t, tup.Elements, 3)
}

func TestParsesListLit(t *testing.T) {
	sink := &errors.CollectingSink{}
	e := ParseExpr("t.pn", "[1, 2, 3]", sink)
	require.Empty(t, sink.Reports)
	lst, ok := e.Data.(ast.ListLitExpr)
	require.True(t, ok)
	assert.Len(t, lst.Elements, 3)
}

func TestParsesEmptyListLit(t *testing.T) {
	sink := &errors.CollectingSink{}
	e := ParseExpr("t.pn", "[]", sink)
	require.Empty(t, sink.Reports)
	lst, ok := e.Data.(ast.ListLitExpr)
	require.True(t, ok)
	assert.Empty(t, lst.Elements)
}

func TestParsesAnnotatedParenExpr(t *testing.T) {
	sink := &errors.CollectingSink{}
	e := ParseExpr("t.pn", "(x : Int)", sink)
	require.Empty(t, sink.Reports)
	ann, ok := e.Data.(ast.AnnExpr)
	require.True(t, ok)
	_, ok = ann.Type.Data.(ast.LocalVarExpr)
	assert.True(t, ok)
}

func TestParsesImplicitArrow(t *testing.T) {
	sink := &errors.CollectingSink{}
	e := ParseExpr("t.pn", "@Int -> Bool", sink)
	require.Empty(t, sink.Reports)
	arrow, ok := e.Data.(ast.FunArrowExpr)
	require.True(t, ok)
	assert.Equal(t, ast.Implicit, arrow.Plicity)
}

func TestParsesForallAsLetTypeAnnotation(t *testing.T) {
	sink := &errors.CollectingSink{}
	e := ParseExpr("t.pn", "let id : forall (@A : Int) (x : A) -> A = fun x => x; id", sink)
	require.Empty(t, sink.Reports)
	let, ok := e.Data.(ast.LetExpr)
	require.True(t, ok)
	require.NotNil(t, let.Type)
	ft, ok := let.Type.Data.(ast.FunTypeExpr)
	require.True(t, ok)
	require.Len(t, ft.Params, 2)
}

func TestMissingClosingParenReportsPAR001(t *testing.T) {
	sink := &errors.CollectingSink{}
	ParseExpr("t.pn", "(1, 2", sink)
	require.NotEmpty(t, sink.Reports)
	assert.Equal(t, errors.PAR001, sink.Reports[0].Code)
}

func TestParsesUnderscorePattern(t *testing.T) {
	sink := &errors.CollectingSink{}
	pat := ParsePat("t.pn", "{ fst = a, snd = _ }", sink)
	require.Empty(t, sink.Reports)
	rp, ok := pat.Data.(ast.RecordLitPat)
	require.True(t, ok)
	require.Len(t, rp.Fields, 2)
	_, ok = rp.Fields[1].Pat.Data.(ast.UnderscorePat)
	assert.True(t, ok)
}

func TestParsesTuplePattern(t *testing.T) {
	sink := &errors.CollectingSink{}
	pat := ParsePat("t.pn", "(a, b)", sink)
	require.Empty(t, sink.Reports)
	tp, ok := pat.Data.(ast.TuplePat)
	require.True(t, ok)
	assert.Len(t, tp.Elements, 2)
}
