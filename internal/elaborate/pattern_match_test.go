package elaborate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion-lang/pion/internal/errors"
	"github.com/pion-lang/pion/internal/nbe"
	"github.com/pion-lang/pion/internal/parser"
	"github.com/pion-lang/pion/internal/print"
)

// elaborateSrc parses src as a single expression and runs it through File,
// returning the zonked core term, its type rendered back to text, and the
// diagnostics collected along the way.
func elaborateSrc(t *testing.T, src string) (string, string, *errors.CollectingSink) {
	t.Helper()
	sink := &errors.CollectingSink{}
	e := parser.ParseExpr("t.pn", src, sink)
	require.Empty(t, sink.Reports, "parse of %q should not fail", src)
	ctx := New("t.pn", sink)
	term, ty, _ := File(ctx, e)
	tyTerm := nbe.Quote(ctx.Kernel, 0, ty)
	return print.Expr(term), print.Expr(tyTerm), sink
}

func codesOf(sink *errors.CollectingSink) []string {
	codes := make([]string, len(sink.Reports))
	for i, r := range sink.Reports {
		codes[i] = r.Code
	}
	return codes
}

func TestLetIrrefutableIdentPattern(t *testing.T) {
	_, tyStr, sink := elaborateSrc(t, "let x = 1; x")
	assert.Empty(t, codesOf(sink))
	assert.Contains(t, tyStr, "Int")
}

func TestLetTupleDestructuring(t *testing.T) {
	_, tyStr, sink := elaborateSrc(t, "let (a, b) = (1, true); a")
	assert.Empty(t, codesOf(sink))
	assert.Contains(t, tyStr, "Int")
}

func TestLetRecordDestructuring(t *testing.T) {
	_, _, sink := elaborateSrc(t, "let { fst = a, snd = b } = { fst = 1, snd = true }; b")
	assert.Empty(t, codesOf(sink))
}

func TestLetRecordDestructuringUnknownField(t *testing.T) {
	_, _, sink := elaborateSrc(t, "let { nope = a } = { fst = 1 }; a")
	require.NotEmpty(t, sink.Reports)
	assert.Contains(t, codesOf(sink), errors.ELB005)
}

func TestLetRefutablePatternIsNonExhaustive(t *testing.T) {
	_, _, sink := elaborateSrc(t, "let true = true; 1")
	require.NotEmpty(t, sink.Reports)
	assert.Contains(t, codesOf(sink), errors.MAT001)
}

func TestMatchBoolExhaustive(t *testing.T) {
	_, tyStr, sink := elaborateSrc(t, "match true { true => 1, false => 2 }")
	assert.Empty(t, codesOf(sink))
	assert.Contains(t, tyStr, "Int")
}

func TestMatchBoolNonExhaustive(t *testing.T) {
	_, _, sink := elaborateSrc(t, "match true { true => 1 }")
	assert.Contains(t, codesOf(sink), errors.MAT001)
}

func TestMatchWithWildcardIsExhaustive(t *testing.T) {
	_, _, sink := elaborateSrc(t, "match 1 { 0 => true, _ => false }")
	assert.Empty(t, codesOf(sink))
}

func TestMatchUnreachableArmAfterWildcard(t *testing.T) {
	_, _, sink := elaborateSrc(t, "match true { _ => 1, true => 2 }")
	assert.Contains(t, codesOf(sink), errors.MAT002)
}

func TestMatchSecondArmCheckedAgainstFirstArmType(t *testing.T) {
	_, _, sink := elaborateSrc(t, "match true { true => 1, false => true }")
	require.NotEmpty(t, sink.Reports)
	assert.Contains(t, codesOf(sink), errors.ELB002)
}

func TestMatchGuardFallsThroughToNextArm(t *testing.T) {
	_, tyStr, sink := elaborateSrc(t, "match 1 { x if false => x, _ => 0 }")
	assert.Empty(t, codesOf(sink))
	assert.Contains(t, tyStr, "Int")
}

func TestMatchGuardChainStillExhaustive(t *testing.T) {
	_, _, sink := elaborateSrc(t, "match 1 { x if false => x, y if false => y, _ => 0 }")
	assert.Empty(t, codesOf(sink))
}

func TestMatchGuardChainNonExhaustiveWithoutFinalWildcard(t *testing.T) {
	_, _, sink := elaborateSrc(t, "match true { x if false => x }")
	assert.Contains(t, codesOf(sink), errors.MAT001)
}

func TestMatchTuplePattern(t *testing.T) {
	_, _, sink := elaborateSrc(t, "match (1, true) { (a, b) => a }")
	assert.Empty(t, codesOf(sink))
}

func TestLetRecSimpleCounter(t *testing.T) {
	src := "let rec go : Int -> Int = fun n => n; go 3"
	_, tyStr, sink := elaborateSrc(t, src)
	assert.Empty(t, codesOf(sink))
	assert.Contains(t, tyStr, "Int")
}

func TestLetRecMultiArgCurries(t *testing.T) {
	src := "let rec add : Int -> Int -> Int = fun x y => x; add 1 2"
	_, _, sink := elaborateSrc(t, src)
	assert.Empty(t, codesOf(sink))
}

func TestLetRecRequiresAnnotation(t *testing.T) {
	_, _, sink := elaborateSrc(t, "let rec f = fun x => x; f 1")
	assert.Contains(t, codesOf(sink), errors.ELB008)
}

func TestLetRecRequiresFunctionLiteralBody(t *testing.T) {
	_, _, sink := elaborateSrc(t, "let rec f : Int -> Int = 1; f")
	assert.Contains(t, codesOf(sink), errors.ELB008)
}

func TestLetRecRequiresFunctionTypeAnnotation(t *testing.T) {
	_, _, sink := elaborateSrc(t, "let rec f : Int = fun x => x; f")
	assert.Contains(t, codesOf(sink), errors.ELB008)
}
