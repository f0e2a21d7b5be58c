// Package nbe implements the normalization-by-evaluation kernel: Eval,
// Apply, Project, case-split, Quote and Zonk. Values are weak-head normal
// forms built over closures that capture de-Bruijn-level environments, so
// they stay valid under further binder extension without renumbering.
package nbe

// Opts configures evaluation. UnfoldFix guards against non-termination of
// Quote: fix applied to itself only reduces when explicitly requested
// (the `eval` CLI command turns it on; `check` leaves it off unless the
// config file sets unfold_fix).
// UnfoldLet is reserved for a future Zonk mode that re-introduces a Let
// around a rewritten term instead of always inlining it; Zonk does not
// consult it yet, so it currently has no observable effect.
type Opts struct {
	UnfoldFix bool
	UnfoldLet bool
}

// DefaultOpts matches spec: fix stays guarded by default.
func DefaultOpts() Opts {
	return Opts{UnfoldFix: false, UnfoldLet: true}
}
