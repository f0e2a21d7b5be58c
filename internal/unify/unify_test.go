package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/env"
	"github.com/pion-lang/pion/internal/nbe"
	"github.com/pion-lang/pion/internal/value"
)

func freshKernel() nbe.Ctx {
	return nbe.Ctx{Opts: nbe.DefaultOpts(), Metas: nbe.NewMetaStore()}
}

func TestUnifyLiteralsEqual(t *testing.T) {
	k := freshKernel()
	err := Unify(Ctx{Kernel: k, Depth: 0}, value.Lit{Lit: core.Lit{Int: 3}}, value.Lit{Lit: core.Lit{Int: 3}})
	assert.NoError(t, err)
}

func TestUnifyLiteralsMismatch(t *testing.T) {
	k := freshKernel()
	err := Unify(Ctx{Kernel: k, Depth: 0}, value.Lit{Lit: core.Lit{Int: 3}}, value.Lit{Lit: core.Lit{Int: 4}})
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestUnifySameLocalVar(t *testing.T) {
	k := freshKernel()
	err := Unify(Ctx{Kernel: k, Depth: 2}, value.LocalVar(env.Level(0)), value.LocalVar(env.Level(0)))
	assert.NoError(t, err)
}

// TestSolvePatternMetaSolvesIdentity exercises the higher-order pattern rule: given a
// stuck `?m x0` applied to a distinct local variable, unifying it against
// `x0` itself must solve ?m := fun a => a (the identity function).
func TestSolvePatternMetaSolvesIdentity(t *testing.T) {
	k := freshKernel()
	x0 := value.LocalVar(env.Level(0))

	metaType := &value.FunType{
		Param: value.FunParam{Plicity: core.Explicit, Type: value.INT},
		Body:  value.Closure{Env: value.Env{}, Body: core.PrimExpr{Prim: core.PrimInt}},
	}
	metaID := k.Metas.Fresh(metaType)
	stuckMeta := &value.Neutral{
		Head:  value.HeadMetaVar{ID: metaID},
		Spine: []value.Elim{value.ElimApp{Plicity: core.Explicit, Arg: x0}},
	}

	err := Unify(Ctx{Kernel: k, Depth: 1}, stuckMeta, x0)
	require.NoError(t, err)
	require.True(t, k.Metas.IsSolved(metaID))

	sol, ok := k.Metas.Lookup(metaID)
	require.True(t, ok)
	fn, ok := sol.(*value.FunLit)
	require.True(t, ok, "solution should be a function literal")

	// Applying the solved function to any value should return that value
	// unchanged, since the solved meta is the identity function.
	result := nbe.Apply(k, fn, core.Explicit, value.Lit{Lit: core.Lit{Int: 99}})
	lit, ok := result.(value.Lit)
	require.True(t, ok)
	assert.Equal(t, uint32(99), lit.Lit.Int)
}

// TestSolvePatternRejectsOutOfScopeVariable checks the scope check: a
// metavariable's solution cannot mention a variable outside the pattern
// spine it was applied to.
func TestSolvePatternRejectsOutOfScopeVariable(t *testing.T) {
	k := freshKernel()
	x0 := value.LocalVar(env.Level(0)) // in the pattern spine
	x1 := value.LocalVar(env.Level(1)) // NOT in the pattern spine

	metaType := &value.FunType{
		Param: value.FunParam{Plicity: core.Explicit, Type: value.INT},
		Body:  value.Closure{Env: value.Env{}, Body: core.PrimExpr{Prim: core.PrimInt}},
	}
	metaID := k.Metas.Fresh(metaType)
	stuckMeta := &value.Neutral{
		Head:  value.HeadMetaVar{ID: metaID},
		Spine: []value.Elim{value.ElimApp{Plicity: core.Explicit, Arg: x0}},
	}

	err := Unify(Ctx{Kernel: k, Depth: 2}, stuckMeta, x1)
	var rerr *RenameError
	require.ErrorAs(t, err, &rerr)
	assert.False(t, k.Metas.IsSolved(metaID))
}

func TestUnifyFunTypesStructurally(t *testing.T) {
	k := freshKernel()
	mkFunType := func() *value.FunType {
		return &value.FunType{
			Param: value.FunParam{Plicity: core.Explicit, Type: value.INT},
			Body:  value.Closure{Env: value.Env{}, Body: core.LocalVar{Index: 0}},
		}
	}
	err := Unify(Ctx{Kernel: k, Depth: 0}, mkFunType(), mkFunType())
	assert.NoError(t, err)
}

func TestUnifyRecordLitsFieldwise(t *testing.T) {
	k := freshKernel()
	mkRecord := func(n uint32) *value.RecordLit {
		return &value.RecordLit{Fields: []value.RecordField{{Label: "x", Value: value.Lit{Lit: core.Lit{Int: n}}}}}
	}
	require.NoError(t, Unify(Ctx{Kernel: k, Depth: 0}, mkRecord(1), mkRecord(1)))
	var mismatch *MismatchError
	require.ErrorAs(t, Unify(Ctx{Kernel: k, Depth: 0}, mkRecord(1), mkRecord(2)), &mismatch)
}
