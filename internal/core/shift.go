package core

import "github.com/pion-lang/pion/internal/env"

// ReferencesLocal reports whether expr mentions the local variable addressed
// by idx at expr's own lexical depth. Used by the pretty printer to decide
// whether a FunType's bound name can be elided (spec's `A -> B` sugar).
func ReferencesLocal(expr Expr, idx env.Index) bool {
	switch e := expr.(type) {
	case LocalVar:
		return e.Index == idx
	case ErrorExpr, PrimExpr, LitExpr, MetaVar:
		return false
	case *Let:
		return ReferencesLocal(e.Type, idx) || ReferencesLocal(e.Init, idx) || ReferencesLocal(e.Body, idx.Succ())
	case *FunType:
		return ReferencesLocal(e.Param.Type, idx) || ReferencesLocal(e.Body, idx.Succ())
	case *FunLit:
		return ReferencesLocal(e.Param.Type, idx) || ReferencesLocal(e.Body, idx.Succ())
	case *FunApp:
		return ReferencesLocal(e.Fun, idx) || ReferencesLocal(e.Arg.Expr, idx)
	case *RecordType:
		cur := idx
		for _, f := range e.Fields {
			if ReferencesLocal(f.Expr, cur) {
				return true
			}
			cur = cur.Succ()
		}
		return false
	case *RecordLit:
		for _, f := range e.Fields {
			if ReferencesLocal(f.Expr, idx) {
				return true
			}
		}
		return false
	case *RecordProj:
		return ReferencesLocal(e.Scrut, idx)
	case *MatchBool:
		return ReferencesLocal(e.Cond, idx) || ReferencesLocal(e.Then, idx) || ReferencesLocal(e.Else, idx)
	case *MatchInt:
		if ReferencesLocal(e.Scrut, idx) || ReferencesLocal(e.Default, idx) {
			return true
		}
		for _, c := range e.Cases {
			if ReferencesLocal(c.Rhs, idx) {
				return true
			}
		}
		return false
	case *ListLit:
		for _, el := range e.Elements {
			if ReferencesLocal(el, idx) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Shift renumbers every free LocalVar in expr by amount, skipping over
// amount==0 to keep sharing (building nothing new — see package doc for why
// this matters when terms are large).
func Shift(expr Expr, amount int) Expr {
	return shiftFrom(expr, env.Index(0), amount)
}

func shiftFrom(expr Expr, min env.Index, amount int) Expr {
	if amount == 0 {
		return expr
	}
	switch e := expr.(type) {
	case LocalVar:
		if int(e.Index) >= int(min) {
			return LocalVar{Index: env.Index(int(e.Index) + amount)}
		}
		return e
	case ErrorExpr, PrimExpr, LitExpr, MetaVar:
		return e
	case *Let:
		return &Let{
			Name: e.Name,
			Type: shiftFrom(e.Type, min, amount),
			Init: shiftFrom(e.Init, min, amount),
			Body: shiftFrom(e.Body, min.Succ(), amount),
		}
	case *FunType:
		return &FunType{Param: shiftParam(e.Param, min, amount), Body: shiftFrom(e.Body, min.Succ(), amount)}
	case *FunLit:
		return &FunLit{Param: shiftParam(e.Param, min, amount), Body: shiftFrom(e.Body, min.Succ(), amount)}
	case *FunApp:
		return &FunApp{Fun: shiftFrom(e.Fun, min, amount), Arg: Arg{Plicity: e.Arg.Plicity, Expr: shiftFrom(e.Arg.Expr, min, amount)}}
	case *RecordType:
		cur := min
		fields := make([]Field, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = Field{Label: f.Label, Expr: shiftFrom(f.Expr, cur, amount)}
			cur = cur.Succ()
		}
		return &RecordType{Fields: fields}
	case *RecordLit:
		fields := make([]Field, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = Field{Label: f.Label, Expr: shiftFrom(f.Expr, min, amount)}
		}
		return &RecordLit{Fields: fields}
	case *RecordProj:
		return &RecordProj{Scrut: shiftFrom(e.Scrut, min, amount), Label: e.Label}
	case *MatchBool:
		return &MatchBool{
			Cond: shiftFrom(e.Cond, min, amount),
			Then: shiftFrom(e.Then, min, amount),
			Else: shiftFrom(e.Else, min, amount),
		}
	case *MatchInt:
		cases := make([]IntCase, len(e.Cases))
		for i, c := range e.Cases {
			cases[i] = IntCase{Key: c.Key, Rhs: shiftFrom(c.Rhs, min, amount)}
		}
		return &MatchInt{Scrut: shiftFrom(e.Scrut, min, amount), Cases: cases, Default: shiftFrom(e.Default, min, amount)}
	case *ListLit:
		elems := make([]Expr, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = shiftFrom(el, min, amount)
		}
		return &ListLit{Elements: elems}
	default:
		return expr
	}
}

func shiftParam(p Param, min env.Index, amount int) Param {
	return Param{Plicity: p.Plicity, Name: p.Name, Type: shiftFrom(p.Type, min, amount)}
}

// Lets builds a chain of nested Let bindings around body, innermost binding
// last in the slice — i.e. bindings[len-1] is the variable body references
// with index 0.
func Lets(bindings []LetBinding, body Expr) Expr {
	for i := len(bindings) - 1; i >= 0; i-- {
		b := bindings[i]
		body = &Let{Name: b.Name, Type: b.Type, Init: b.Init, Body: body}
	}
	return body
}

// LetBinding is one binding in a Lets chain.
type LetBinding struct {
	Name *string
	Type Expr
	Init Expr
}
