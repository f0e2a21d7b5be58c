package patmatch

import "sort"

// Constructor is the head shape a single pattern commits to: either a
// literal value or a record's field labels. Mirrors the reference
// implementation's Constructor enum (Lit | Record) one-for-one.
type Constructor struct {
	IsRecord bool
	IsBool   bool
	Bool     bool
	Int      uint32
	Fields   []string // record field labels, in declaration order
}

// Arity is the number of sub-columns a row splits into when matched
// against this constructor.
func (c Constructor) Arity() int {
	if c.IsRecord {
		return len(c.Fields)
	}
	return 0
}

func (c Constructor) equalShape(other Constructor) bool {
	if c.IsRecord != other.IsRecord {
		return false
	}
	if c.IsRecord {
		if len(c.Fields) != len(other.Fields) {
			return false
		}
		for i := range c.Fields {
			if c.Fields[i] != other.Fields[i] {
				return false
			}
		}
		return true
	}
	if c.IsBool != other.IsBool {
		return false
	}
	if c.IsBool {
		return c.Bool == other.Bool
	}
	return c.Int == other.Int
}

// Constructors is the set of head constructors appearing in one matrix
// column, classified the way the reference match compiler classifies a
// column: a record shape (irrefutable, single case), a subset of {false,
// true}, or a sorted, deduplicated set of int keys.
type Constructors struct {
	Record    []string // non-nil => column is a record column
	BoolFalse bool
	BoolTrue  bool
	Ints      []uint32
}

// IsExhaustive reports whether every possible value of the column's type
// is already covered by the constructors seen, so no default/wildcard arm
// is required. Records are always exhaustive (single irrefutable shape);
// bools are exhaustive once both arms are seen; ints are never exhaustive
// in practice (the domain is far larger than any finite set of literals).
func (c Constructors) IsExhaustive() bool {
	if c.Record != nil {
		return true
	}
	if c.BoolFalse || c.BoolTrue {
		return c.BoolFalse && c.BoolTrue
	}
	return false
}

// columnConstructors scans column (the index-th pattern of every row),
// skipping irrefutable entries, and classifies the first refutable shape
// found the same way the reference compiler's column_constructors does:
// once a column commits to record/bool/int, every further literal entry
// refines that same classification.
func columnConstructors(rows []Row, index int) (Constructors, bool) {
	var cs Constructors
	seenInts := map[uint32]bool{}
	found := false
	for _, row := range rows {
		p := row.Patterns[index]
		switch pat := p.(type) {
		case Wildcard, Ident:
			continue
		case RecordPat:
			labels := make([]string, len(pat.Fields))
			for i, f := range pat.Fields {
				labels[i] = f.Label
			}
			return Constructors{Record: labels}, true
		case LitPat:
			found = true
			if pat.Lit.IsBool {
				if pat.Lit.Bool {
					cs.BoolTrue = true
				} else {
					cs.BoolFalse = true
				}
			} else {
				if !seenInts[pat.Lit.Int] {
					seenInts[pat.Lit.Int] = true
					cs.Ints = append(cs.Ints, pat.Lit.Int)
				}
			}
		}
	}
	sort.Slice(cs.Ints, func(i, j int) bool { return cs.Ints[i] < cs.Ints[j] })
	return cs, found
}
