package patmatch

import "github.com/pion-lang/pion/internal/core"

// Binding is one pattern variable bound by the time a row's right-hand
// side is reached, paired with the core expression (built from the
// original scrutinee plus any RecordProj chain) it stands for.
type Binding struct {
	Name      string
	Scrutinee core.Expr
}

// Row is one arm of a match: one pattern per occurrence column, plus a
// callback that builds the arm's core.Expr once every Ident pattern along
// the row has been resolved to a concrete scrutinee expression. Build is
// called once for every leaf of the decision tree at which the row is the
// first remaining candidate, so it can run several times (a wildcard row
// reaches several leaves) or not at all (an unreachable row).
type Row struct {
	Patterns []Pattern
	Build    func(bindings []Binding) core.Expr
}

// NonExhaustiveError reports that no row in the matrix covers every value
// of some occurrence's type.
type NonExhaustiveError struct {
	// Occurrence is the core expression (scrutinee, or a RecordProj chain
	// reaching into a scrutinee) whose match was found non-exhaustive.
	Occurrence core.Expr
}

func (e *NonExhaustiveError) Error() string {
	return "non-exhaustive match on " + e.Occurrence.String()
}

// firstError returns the first non-nil error among errs, or nil if all are
// nil. Used where a caller must keep building a structurally complete term
// out of several sub-compiles even though one of them reported a
// non-exhaustive match, while still propagating that one error upward.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

type candidate struct {
	patterns []Pattern
	bindings []Binding
	build    func(bindings []Binding) core.Expr
}

// Compile lowers a pattern matrix to a core.Expr built from
// RecordProj/MatchBool/MatchInt only. occurrences holds one core
// expression per column (initially just the scrutinees being matched;
// RecordProj chains are synthesized internally when a record column is
// split). rows must all have len(Patterns) == len(occurrences).
func Compile(occurrences []core.Expr, rows []Row) (core.Expr, error) {
	cands := make([]candidate, len(rows))
	for i, r := range rows {
		cands[i] = candidate{patterns: r.Patterns, build: r.Build}
	}
	return compile(occurrences, cands)
}

func compile(occurrences []core.Expr, rows []candidate) (core.Expr, error) {
	if len(occurrences) == 0 {
		if len(rows) == 0 {
			return core.ErrorExpr{}, &NonExhaustiveError{Occurrence: core.ErrorExpr{}}
		}
		return rows[0].build(rows[0].bindings), nil
	}

	// Peel off any leading columns that are trivial (Wildcard/Ident) in
	// every row: bind Ident names to their occurrence and drop the column
	// entirely, without emitting any core case-split for it. A record
	// column is never peeled this way even though it never branches —
	// its sub-patterns still need projecting out to bind their names.
	for allTrivial(rows, 0) {
		occ := occurrences[0]
		for i := range rows {
			rows[i] = bindColumn(rows[i], 0, occ)
		}
		occurrences = occurrences[1:]
		rows = dropColumn(rows, 0)
		if len(occurrences) == 0 {
			if len(rows) == 0 {
				return core.ErrorExpr{}, &NonExhaustiveError{Occurrence: occ}
			}
			return rows[0].build(rows[0].bindings), nil
		}
	}

	cs, found := columnConstructors(rowsAsPatternRows(rows), 0)
	if !found {
		// Defensive: allTrivial loop above should have consumed this
		// column already if nothing refutable remains.
		occ := occurrences[0]
		for i := range rows {
			rows[i] = bindColumn(rows[i], 0, occ)
		}
		return compile(occurrences[1:], dropColumn(rows, 0))
	}

	scrut := occurrences[0]
	rest := occurrences[1:]

	if cs.Record != nil {
		return compileRecord(scrut, rest, rows, cs.Record)
	}
	if cs.BoolFalse || cs.BoolTrue {
		return compileBool(scrut, rest, rows)
	}
	return compileInt(scrut, rest, rows, cs.Ints)
}

func allTrivial(rows []candidate, col int) bool {
	if len(rows) == 0 {
		return false
	}
	for _, r := range rows {
		switch r.patterns[col].(type) {
		case Wildcard, Ident:
		default:
			return false
		}
	}
	return true
}

func rowsAsPatternRows(rows []candidate) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{Patterns: r.patterns}
	}
	return out
}

// bindColumn resolves column col of row against occ: an Ident records a
// new binding, a Wildcard records nothing. Callers only invoke this once
// the column is known-irrefutable (or already specialized away) for row.
func bindColumn(row candidate, col int, occ core.Expr) candidate {
	if id, ok := row.patterns[col].(Ident); ok {
		row.bindings = append(append([]Binding(nil), row.bindings...), Binding{Name: id.Name, Scrutinee: occ})
	}
	return row
}

func dropColumn(rows []candidate, col int) []candidate {
	out := make([]candidate, len(rows))
	for i, r := range rows {
		patterns := make([]Pattern, 0, len(r.patterns)-1)
		patterns = append(patterns, r.patterns[:col]...)
		patterns = append(patterns, r.patterns[col+1:]...)
		out[i] = candidate{patterns: patterns, bindings: r.bindings, build: r.build}
	}
	return out
}

func compileRecord(scrut core.Expr, rest []core.Expr, rows []candidate, labels []string) (core.Expr, error) {
	fieldOccs := make([]core.Expr, len(labels))
	for i, label := range labels {
		fieldOccs[i] = &core.RecordProj{Scrut: scrut, Label: label}
	}
	newOccs := append(append([]core.Expr(nil), fieldOccs...), rest...)

	newRows := make([]candidate, len(rows))
	for i, r := range rows {
		var sub []Pattern
		switch pat := r.patterns[0].(type) {
		case RecordPat:
			sub = make([]Pattern, len(labels))
			byLabel := map[string]Pattern{}
			for _, f := range pat.Fields {
				byLabel[f.Label] = f.Pat
			}
			for j, label := range labels {
				if p, ok := byLabel[label]; ok {
					sub[j] = p
				} else {
					sub[j] = Wildcard{}
				}
			}
		case Wildcard, Ident:
			sub = make([]Pattern, len(labels))
			for j := range sub {
				sub[j] = Wildcard{}
			}
			r = bindColumn(r, 0, scrut)
		default:
			sub = make([]Pattern, len(labels))
			for j := range sub {
				sub[j] = Wildcard{}
			}
		}
		newPatterns := append(append([]Pattern(nil), sub...), r.patterns[1:]...)
		newRows[i] = candidate{patterns: newPatterns, bindings: r.bindings, build: r.build}
	}
	return compile(newOccs, newRows)
}

func compileBool(scrut core.Expr, rest []core.Expr, rows []candidate) (core.Expr, error) {
	thenRows := specializeBool(rows, true, scrut)
	elseRows := specializeBool(rows, false, scrut)

	// Build both arms unconditionally: a non-exhaustive arm still yields a
	// structurally complete core.ErrorExpr{} leaf from compile, so one
	// missing arm never discards the other, already-compiled sibling.
	thenExpr, thenErr := compile(rest, thenRows)
	elseExpr, elseErr := compile(rest, elseRows)
	return &core.MatchBool{Cond: scrut, Then: thenExpr, Else: elseExpr}, firstError(thenErr, elseErr)
}

func specializeBool(rows []candidate, want bool, scrut core.Expr) []candidate {
	var out []candidate
	for _, r := range rows {
		switch pat := r.patterns[0].(type) {
		case LitPat:
			if pat.Lit.IsBool && pat.Lit.Bool == want {
				out = append(out, candidate{patterns: r.patterns[1:], bindings: r.bindings, build: r.build})
			}
		case Wildcard, Ident:
			rb := bindColumn(r, 0, scrut)
			out = append(out, candidate{patterns: rb.patterns[1:], bindings: rb.bindings, build: rb.build})
		}
	}
	return out
}

func compileInt(scrut core.Expr, rest []core.Expr, rows []candidate, keys []uint32) (core.Expr, error) {
	cases := make([]core.IntCase, 0, len(keys))
	var firstErr error
	for _, key := range keys {
		sub := specializeInt(rows, key, scrut)
		rhs, err := compile(rest, sub)
		firstErr = firstError(firstErr, err)
		cases = append(cases, core.IntCase{Key: key, Rhs: rhs})
	}

	defaultRows := specializeIntDefault(rows, keys, scrut)
	defaultExpr, err := compile(rest, defaultRows)
	firstErr = firstError(firstErr, err)
	return &core.MatchInt{Scrut: scrut, Cases: cases, Default: defaultExpr}, firstErr
}

func specializeInt(rows []candidate, key uint32, scrut core.Expr) []candidate {
	var out []candidate
	for _, r := range rows {
		switch pat := r.patterns[0].(type) {
		case LitPat:
			if !pat.Lit.IsBool && pat.Lit.Int == key {
				out = append(out, candidate{patterns: r.patterns[1:], bindings: r.bindings, build: r.build})
			}
		case Wildcard, Ident:
			rb := bindColumn(r, 0, scrut)
			out = append(out, candidate{patterns: rb.patterns[1:], bindings: rb.bindings, build: rb.build})
		}
	}
	return out
}

func specializeIntDefault(rows []candidate, keys []uint32, scrut core.Expr) []candidate {
	seen := make(map[uint32]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	var out []candidate
	for _, r := range rows {
		switch pat := r.patterns[0].(type) {
		case LitPat:
			if !pat.Lit.IsBool && !seen[pat.Lit.Int] {
				// An int literal outside the already-collected key set only
				// arises if a later row introduces a fresh key after this
				// default was requested from a partially-built sub-matrix;
				// Compile always gathers the full key set up front, so this
				// branch is unreachable in practice.
				continue
			}
		case Wildcard, Ident:
			rb := bindColumn(r, 0, scrut)
			out = append(out, candidate{patterns: rb.patterns[1:], bindings: rb.bindings, build: rb.build})
		}
	}
	return out
}
