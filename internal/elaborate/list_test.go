package elaborate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pion-lang/pion/internal/errors"
)

func TestListLitSynthesizesElementType(t *testing.T) {
	_, tyStr, sink := elaborateSrc(t, "[1, 2, 3]")
	assert.Empty(t, codesOf(sink))
	assert.Contains(t, tyStr, "List")
	assert.Contains(t, tyStr, "Int")
}

func TestListLitRejectsMixedElementTypes(t *testing.T) {
	_, _, sink := elaborateSrc(t, "[1, true]")
	assert.Contains(t, codesOf(sink), errors.ELB002)
}

func TestEmptyListLitWithoutAnnotationIsAmbiguous(t *testing.T) {
	_, _, sink := elaborateSrc(t, "[]")
	assert.Contains(t, codesOf(sink), errors.ELB009)
}

func TestEmptyListLitCheckedAgainstAnnotationIsFine(t *testing.T) {
	_, tyStr, sink := elaborateSrc(t, "([] : List Int)")
	assert.Empty(t, codesOf(sink))
	assert.Contains(t, tyStr, "List")
}

// These exercise len/push/append with the implicit element-type argument
// supplied explicitly (`@Int`), sidestepping metavariable solving against a
// not-yet-unified expected type so the test only pins down primType's
// signatures and synthApp's plain (non-inferred) argument path.

func TestListLenPrimitive(t *testing.T) {
	_, tyStr, sink := elaborateSrc(t, "len @Int [1, 2, 3]")
	assert.Empty(t, codesOf(sink))
	assert.Contains(t, tyStr, "Int")
}

func TestListPushPrimitive(t *testing.T) {
	_, tyStr, sink := elaborateSrc(t, "push @Int [1, 2] 3")
	assert.Empty(t, codesOf(sink))
	assert.Contains(t, tyStr, "List")
}

func TestListAppendPrimitive(t *testing.T) {
	_, tyStr, sink := elaborateSrc(t, "append @Int [1, 2] [3, 4]")
	assert.Empty(t, codesOf(sink))
	assert.Contains(t, tyStr, "List")
}

func TestReflPrimitiveAppliesExplicitImplicits(t *testing.T) {
	_, tyStr, sink := elaborateSrc(t, "refl @Int @1")
	assert.Empty(t, codesOf(sink))
	assert.Contains(t, tyStr, "Eq")
}

func TestTupleLitStillSynthesizesRecordType(t *testing.T) {
	_, tyStr, sink := elaborateSrc(t, "(1, true)")
	assert.Empty(t, codesOf(sink))
	assert.NotContains(t, tyStr, "List")
}
