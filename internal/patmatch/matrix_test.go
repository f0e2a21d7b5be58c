package patmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion-lang/pion/internal/core"
)

func boolLit(b bool) core.Lit  { return core.Lit{IsBool: true, Bool: b} }
func intLit(n uint32) core.Lit { return core.Lit{Int: n} }

func TestCompileBoolMatchProducesMatchBool(t *testing.T) {
	scrut := core.LocalVar{Index: 0}
	rows := []Row{
		{Patterns: []Pattern{LitPat{Lit: boolLit(true)}}, Build: func([]Binding) core.Expr { return core.LitExpr{Lit: intLit(1)} }},
		{Patterns: []Pattern{LitPat{Lit: boolLit(false)}}, Build: func([]Binding) core.Expr { return core.LitExpr{Lit: intLit(0)} }},
	}
	expr, err := Compile([]core.Expr{scrut}, rows)
	require.NoError(t, err)
	mb, ok := expr.(*core.MatchBool)
	require.True(t, ok)
	assert.Equal(t, scrut, mb.Cond)
}

func TestCompileWildcardOnlyNeverEmitsCaseSplit(t *testing.T) {
	scrut := core.LocalVar{Index: 0}
	rows := []Row{
		{Patterns: []Pattern{Ident{Name: "x"}}, Build: func(bindings []Binding) core.Expr {
			require.Len(t, bindings, 1)
			assert.Equal(t, "x", bindings[0].Name)
			return bindings[0].Scrutinee
		}},
	}
	expr, err := Compile([]core.Expr{scrut}, rows)
	require.NoError(t, err)
	assert.Equal(t, scrut, expr)
}

func TestCompileNonExhaustiveIntReportsError(t *testing.T) {
	scrut := core.LocalVar{Index: 0}
	rows := []Row{
		{Patterns: []Pattern{LitPat{Lit: intLit(1)}}, Build: func([]Binding) core.Expr { return core.LitExpr{Lit: intLit(1)} }},
	}
	expr, err := Compile([]core.Expr{scrut}, rows)
	var nonExhaustive *NonExhaustiveError
	require.ErrorAs(t, err, &nonExhaustive)

	// The already-compiled covered case must survive: only the missing
	// default arm becomes an Error leaf, not the whole match.
	mi, ok := expr.(*core.MatchInt)
	require.True(t, ok)
	require.Len(t, mi.Cases, 1)
	assert.Equal(t, core.ErrorExpr{}, mi.Default)
}

func TestCompileRecordPatternDestructures(t *testing.T) {
	scrut := core.LocalVar{Index: 0}
	rows := []Row{
		{
			Patterns: []Pattern{RecordPat{Fields: []RecordPatField{
				{Label: "fst", Pat: Ident{Name: "a"}},
				{Label: "snd", Pat: Ident{Name: "b"}},
			}}},
			Build: func(bindings []Binding) core.Expr {
				require.Len(t, bindings, 2)
				return bindings[0].Scrutinee
			},
		},
	}
	expr, err := Compile([]core.Expr{scrut}, rows)
	require.NoError(t, err)
	proj, ok := expr.(*core.RecordProj)
	require.True(t, ok)
	assert.Equal(t, "fst", proj.Label)
}
