// Package print renders core.Expr back to a stable, human-readable textual
// form: de Bruijn indices resolved to their original binder names (with
// fresh-renaming on shadowing), unused function parameters collapsed to
// arrow sugar, and consecutive `_0,_1,…`-labelled records rendered as
// tuples (a one-field tuple keeps a trailing comma, `(e,)`). It is what
// diagnostics and the `eval`/`check` CLI commands use to show a value back
// to the user; `#error` and metavariables (`?N`) have no surface syntax the
// parser reads back.
package print

import (
	"fmt"
	"strings"

	"github.com/pion-lang/pion/internal/core"
	"github.com/pion-lang/pion/internal/env"
)

// Expr renders e as a single-line textual form.
func Expr(e core.Expr) string {
	p := &printer{}
	return p.expr(e)
}

type printer struct {
	names env.Stack[string]
}

// fresh picks a display name for a new binder: hint if unambiguous,
// otherwise hint suffixed with the smallest integer that disambiguates it
// from every name currently in scope.
func (p *printer) fresh(hint *string) string {
	base := "x"
	if hint != nil && *hint != "" {
		base = *hint
	}
	name := base
	for i := 1; p.inScope(name); i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	return name
}

func (p *printer) inScope(name string) bool {
	for _, n := range p.names.Iter() {
		if n == name {
			return true
		}
	}
	return false
}

func (p *printer) expr(e core.Expr) string {
	switch e := e.(type) {
	case core.ErrorExpr:
		return "#error"
	case core.PrimExpr:
		return e.Prim.String()
	case core.LitExpr:
		return e.Lit.String()
	case core.LocalVar:
		return p.names.GetIndex(e.Index)
	case core.MetaVar:
		return fmt.Sprintf("?%d", e.ID)
	case *core.Let:
		return p.printLet(e)
	case *core.FunType:
		return p.printFunType(e)
	case *core.FunLit:
		return p.printFunLit(e)
	case *core.FunApp:
		return p.printApp(e)
	case *core.RecordType:
		return p.printRecordType(e)
	case *core.RecordLit:
		return p.printRecordLit(e)
	case *core.RecordProj:
		return fmt.Sprintf("%s.%s", p.expr(e.Scrut), e.Label)
	case *core.MatchBool:
		return fmt.Sprintf("match %s { true => %s, false => %s }", p.expr(e.Cond), p.expr(e.Then), p.expr(e.Else))
	case *core.MatchInt:
		return p.printMatchInt(e)
	case *core.ListLit:
		return p.printListLit(e)
	default:
		return e.String()
	}
}

// printLet renders a chain of lets flat, one `let name : T = init;` line
// per binding, rather than nesting — matching how a reader actually
// writes a sequence of local bindings.
func (p *printer) printLet(e *core.Let) string {
	name := p.fresh(e.Name)
	head := fmt.Sprintf("let %s : %s = %s;", name, p.expr(e.Type), p.expr(e.Init))
	p.names.Push(name)
	tail := p.expr(e.Body)
	p.names.Pop()
	return head + " " + tail
}

// printFunType collapses to `A -> B` (or `@A -> B` for an implicit
// parameter) whenever the bound name never occurs in Body; otherwise it
// prints the full dependent `forall (x : A) -> B` form.
func (p *printer) printFunType(e *core.FunType) string {
	typeStr := p.expr(e.Param.Type)
	dependent := occursIndex(e.Body, 0)
	name := p.fresh(e.Param.Name)
	p.names.Push(name)
	bodyStr := p.expr(e.Body)
	p.names.Pop()

	if !dependent {
		lhs := typeStr
		if e.Param.Plicity == core.Implicit {
			lhs = "@" + lhs
		}
		return lhs + " -> " + bodyStr
	}
	plic := ""
	if e.Param.Plicity == core.Implicit {
		plic = "@"
	}
	return fmt.Sprintf("forall (%s%s : %s) -> %s", plic, name, typeStr, bodyStr)
}

func (p *printer) printFunLit(e *core.FunLit) string {
	plic := ""
	if e.Param.Plicity == core.Implicit {
		plic = "@"
	}
	name := p.fresh(e.Param.Name)
	typeStr := p.expr(e.Param.Type)
	p.names.Push(name)
	bodyStr := p.expr(e.Body)
	p.names.Pop()
	return fmt.Sprintf("fun (%s%s : %s) => %s", plic, name, typeStr, bodyStr)
}

func (p *printer) printApp(e *core.FunApp) string {
	plic := ""
	if e.Arg.Plicity == core.Implicit {
		plic = "@"
	}
	return fmt.Sprintf("(%s %s%s)", p.expr(e.Fun), plic, p.expr(e.Arg.Expr))
}

func (p *printer) printRecordType(e *core.RecordType) string {
	if core.IsTupleFields(e.Fields) {
		parts := make([]string, len(e.Fields))
		pushed := 0
		for i, f := range e.Fields {
			parts[i] = p.expr(f.Expr)
			p.names.Push(core.TupleLabel(i))
			pushed++
		}
		for ; pushed > 0; pushed-- {
			p.names.Pop()
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	parts := make([]string, len(e.Fields))
	pushed := 0
	for i, f := range e.Fields {
		parts[i] = f.Label + " : " + p.expr(f.Expr)
		p.names.Push(f.Label)
		pushed++
	}
	for ; pushed > 0; pushed-- {
		p.names.Pop()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// printRecordLit renders a literal whose fields are the canonical
// `_0,_1,…` tuple labels as a plain tuple; a record literal's own fields
// are never in scope for one another, so no binder bookkeeping is needed
// here (unlike RecordType's telescope).
func (p *printer) printRecordLit(e *core.RecordLit) string {
	if core.IsTupleFields(e.Fields) {
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = p.expr(f.Expr)
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Label + " = " + p.expr(f.Expr)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (p *printer) printMatchInt(e *core.MatchInt) string {
	var b strings.Builder
	b.WriteString("match ")
	b.WriteString(p.expr(e.Scrut))
	b.WriteString(" { ")
	for _, c := range e.Cases {
		fmt.Fprintf(&b, "%d => %s, ", c.Key, p.expr(c.Rhs))
	}
	fmt.Fprintf(&b, "_ => %s }", p.expr(e.Default))
	return b.String()
}

func (p *printer) printListLit(e *core.ListLit) string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = p.expr(el)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// occursIndex reports whether idx occurs free in e, accounting for the
// extra binder each telescope/function/let step introduces.
func occursIndex(e core.Expr, idx env.Index) bool {
	switch e := e.(type) {
	case core.LocalVar:
		return e.Index == idx
	case *core.Let:
		return occursIndex(e.Type, idx) || occursIndex(e.Init, idx) || occursIndex(e.Body, idx.Succ())
	case *core.FunType:
		return occursIndex(e.Param.Type, idx) || occursIndex(e.Body, idx.Succ())
	case *core.FunLit:
		return occursIndex(e.Param.Type, idx) || occursIndex(e.Body, idx.Succ())
	case *core.FunApp:
		return occursIndex(e.Fun, idx) || occursIndex(e.Arg.Expr, idx)
	case *core.RecordType:
		cur := idx
		for _, f := range e.Fields {
			if occursIndex(f.Expr, cur) {
				return true
			}
			cur = cur.Succ()
		}
		return false
	case *core.RecordLit:
		for _, f := range e.Fields {
			if occursIndex(f.Expr, idx) {
				return true
			}
		}
		return false
	case *core.RecordProj:
		return occursIndex(e.Scrut, idx)
	case *core.MatchBool:
		return occursIndex(e.Cond, idx) || occursIndex(e.Then, idx) || occursIndex(e.Else, idx)
	case *core.MatchInt:
		if occursIndex(e.Scrut, idx) || occursIndex(e.Default, idx) {
			return true
		}
		for _, c := range e.Cases {
			if occursIndex(c.Rhs, idx) {
				return true
			}
		}
		return false
	case *core.ListLit:
		for _, el := range e.Elements {
			if occursIndex(el, idx) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
