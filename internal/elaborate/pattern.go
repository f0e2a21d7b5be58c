package elaborate

import (
	"github.com/pion-lang/pion/internal/ast"
	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/errors"
	"github.com/pion-lang/pion/internal/nbe"
	"github.com/pion-lang/pion/internal/parser"
	"github.com/pion-lang/pion/internal/patmatch"
	"github.com/pion-lang/pion/internal/unify"
	"github.com/pion-lang/pion/internal/value"
)

// patVar is one name a surface pattern binds: its display name and the type
// it has by the time its arm's right-hand side is elaborated. The concrete
// expression it stands for at runtime is never tracked here — patmatch
// synthesizes that itself (see compileRecord) and hands it back through
// each Row's Build callback, keyed by position in the same left-to-right
// order elaboratePat walks a pattern tree.
type patVar struct {
	Name string
	Type value.Value
}

// fieldPatEntry is one destructured field of a tuple or record pattern,
// already reduced to a label: positional `_0, _1, …` for a tuple, the
// written name for a record.
type fieldPatEntry struct {
	Label string
	Pat   ast.Located[ast.Pat]
}

func tupleFieldPats(node ast.TuplePat) []fieldPatEntry {
	out := make([]fieldPatEntry, len(node.Elements))
	for i, el := range node.Elements {
		out[i] = fieldPatEntry{Label: core.TupleLabel(i), Pat: el}
	}
	return out
}

func recordFieldPats(node ast.RecordLitPat) []fieldPatEntry {
	out := make([]fieldPatEntry, len(node.Fields))
	for i, f := range node.Fields {
		out[i] = fieldPatEntry{Label: f.Name, Pat: f.Pat}
	}
	return out
}

// elaboratePat lowers one surface pattern matched against a scrutinee of
// type scrutTy (already evaluated to scrutVal) into a patmatch.Pattern,
// plus every name it binds. scrutVal is needed only to resolve dependent
// field types while walking a record's telescope (nbe.Project, exactly as
// synthRecordProj does for a plain projection) — patmatch never sees it.
func elaboratePat(ctx Ctx, pat ast.Located[ast.Pat], scrutTy, scrutVal value.Value) (patmatch.Pattern, []patVar) {
	switch node := pat.Data.(type) {
	case ast.ErrorPat:
		return patmatch.Wildcard{}, nil

	case ast.UnderscorePat:
		return patmatch.Wildcard{}, nil

	case ast.IdentPat:
		return patmatch.Ident{Name: node.Name}, []patVar{{Name: node.Name, Type: scrutTy}}

	case ast.ParenPat:
		return elaboratePat(ctx, node.Inner, scrutTy, scrutVal)

	case ast.LitPat:
		return elaborateLitPat(ctx, pat.Range, node, scrutTy)

	case ast.TuplePat:
		return elaborateFieldsPat(ctx, pat.Range, scrutTy, scrutVal, tupleFieldPats(node))

	case ast.RecordLitPat:
		return elaborateFieldsPat(ctx, pat.Range, scrutTy, scrutVal, recordFieldPats(node))

	default:
		report(ctx, errors.ELB001, pat.Range, "internal: unhandled pattern form")
		return patmatch.Wildcard{}, nil
	}
}

func elaborateLitPat(ctx Ctx, rng ast.Range, node ast.LitPat, scrutTy value.Value) (patmatch.Pattern, []patVar) {
	uctx := unify.Ctx{Kernel: ctx.Kernel, Depth: ctx.Depth()}
	c := node.Const
	if c.Bool != nil {
		if err := unify.Unify(uctx, scrutTy, value.BOOL); err != nil {
			report(ctx, errors.ELB002, rng, "boolean pattern checked against "+quoteForDiag(ctx, scrutTy))
		}
		return patmatch.LitPat{Lit: core.Lit{IsBool: true, Bool: *c.Bool}}, nil
	}

	if err := unify.Unify(uctx, scrutTy, value.INT); err != nil {
		report(ctx, errors.ELB002, rng, "integer pattern checked against "+quoteForDiag(ctx, scrutTy))
	}
	n, ok := parser.ParseIntLiteral(c.Text, c.IntBase)
	if !ok {
		report(ctx, errors.ELB007, rng, "integer literal '"+c.Text+"' is out of range")
		return patmatch.Wildcard{}, nil
	}
	return patmatch.LitPat{Lit: core.Lit{Int: n}}, nil
}

// elaborateFieldsPat destructures scrutTy, which must whnf to a RecordType,
// one entry per field of its telescope: entries named in the source are
// elaborated against that field's (dependent) type, entries absent from the
// source become Wildcard so a pattern may destructure a subset of a
// record's fields, matching RecordLit's own punning-free field order.
func elaborateFieldsPat(ctx Ctx, rng ast.Range, scrutTy, scrutVal value.Value, entries []fieldPatEntry) (patmatch.Pattern, []patVar) {
	scrutTy = forceWhnf(ctx, scrutTy)
	rt, ok := scrutTy.(*value.RecordType)
	if !ok {
		report(ctx, errors.ELB005, rng, "pattern destructures a non-record value of type "+quoteForDiag(ctx, scrutTy))
		return patmatch.Wildcard{}, nil
	}

	byLabel := make(map[string]ast.Located[ast.Pat], len(entries))
	for _, e := range entries {
		byLabel[e.Label] = e.Pat
	}
	used := make(map[string]bool, len(entries))

	var fields []patmatch.RecordPatField
	var vars []patVar
	tel := rt.Telescope
	for {
		label, fieldTy, rest, more := nbe.SplitTelescope(ctx.Kernel, tel)
		if !more {
			break
		}
		fieldVal := nbe.Project(ctx.Kernel, scrutVal, label)

		subPat := patmatch.Pattern(patmatch.Wildcard{})
		if sub, ok := byLabel[label]; ok {
			used[label] = true
			var subVars []patVar
			subPat, subVars = elaboratePat(ctx, sub, fieldTy, fieldVal)
			vars = append(vars, subVars...)
		}
		fields = append(fields, patmatch.RecordPatField{Label: label, Pat: subPat})
		tel = rest(fieldVal)
	}

	for _, e := range entries {
		if !used[e.Label] {
			report(ctx, errors.ELB005, rng, "record has no field '"+e.Label+"'")
		}
	}
	return patmatch.RecordPat{Fields: fields}, vars
}

// trivialPatName reports the bound name if pat is a plain binder (or a
// chain of parens around one) and nothing more — the only pattern shape
// `let`/`let rec`'s non-destructuring forms accept directly.
func trivialPatName(pat ast.Located[ast.Pat]) (string, bool) {
	switch node := pat.Data.(type) {
	case ast.IdentPat:
		return node.Name, true
	case ast.UnderscorePat:
		return "_", true
	case ast.ParenPat:
		return trivialPatName(node.Inner)
	default:
		return "", false
	}
}

// displayOrBlank is paramDisplayName's pattern-side counterpart: the name
// trivialPatName finds for pat, or "_" when it finds none.
func displayOrBlank(pat ast.Located[ast.Pat]) string {
	if name, ok := trivialPatName(pat); ok {
		return name
	}
	return "_"
}
