package parser

import (
	"github.com/pion-lang/pion/internal/ast"
	"github.com/pion-lang/pion/internal/errors"
	"github.com/pion-lang/pion/internal/lexer"
)

// ParsePat parses a single pattern, the grammar used for let-bindings
// and match arms: `_ | ident | literal | (pat, …) | { name = pat, … }`.
func ParsePat(file, src string, sink errors.Sink) ast.Located[ast.Pat] {
	p := New(file, src, sink)
	return p.parsePat()
}

func errPat(rng ast.Range) ast.Located[ast.Pat] {
	return ast.Located[ast.Pat]{Range: rng, Data: ast.ErrorPat{}}
}

func (p *Parser) parsePat() ast.Located[ast.Pat] {
	line, col, off := p.here()
	switch p.tok.Type {
	case lexer.UNDERSCORE:
		p.advance()
		return ast.Located[ast.Pat]{Range: p.rangeFrom(line, col, off), Data: ast.UnderscorePat{}}
	case lexer.IDENT:
		name := p.tok.Text
		p.advance()
		return ast.Located[ast.Pat]{Range: p.rangeFrom(line, col, off), Data: ast.IdentPat{Name: name}}
	case lexer.TRUE:
		p.advance()
		b := true
		return ast.Located[ast.Pat]{Range: p.rangeFrom(line, col, off), Data: ast.LitPat{Const: ast.ConstExpr{Bool: &b}}}
	case lexer.FALSE:
		p.advance()
		b := false
		return ast.Located[ast.Pat]{Range: p.rangeFrom(line, col, off), Data: ast.LitPat{Const: ast.ConstExpr{Bool: &b}}}
	case lexer.DEC_INT:
		text := p.tok.Text
		p.advance()
		return ast.Located[ast.Pat]{Range: p.rangeFrom(line, col, off), Data: ast.LitPat{Const: ast.ConstExpr{IsInt: true, IntBase: ast.Base10, Text: text}}}
	case lexer.BIN_INT:
		text := p.tok.Text
		p.advance()
		return ast.Located[ast.Pat]{Range: p.rangeFrom(line, col, off), Data: ast.LitPat{Const: ast.ConstExpr{IsInt: true, IntBase: ast.Base2, Text: text}}}
	case lexer.HEX_INT:
		text := p.tok.Text
		p.advance()
		return ast.Located[ast.Pat]{Range: p.rangeFrom(line, col, off), Data: ast.LitPat{Const: ast.ConstExpr{IsInt: true, IntBase: ast.Base16, Text: text}}}
	case lexer.LPAREN:
		return p.parseParenOrTuplePat()
	case lexer.LBRACE:
		return p.parseRecordPat()
	default:
		p.errorf(errors.PAR001, "expected a pattern, found "+p.tok.Type.String())
		p.advance()
		return errPat(p.rangeFrom(line, col, off))
	}
}

func (p *Parser) parseParenOrTuplePat() ast.Located[ast.Pat] {
	line, col, off := p.here()
	p.advance() // (
	if p.at(lexer.RPAREN) {
		p.advance()
		return ast.Located[ast.Pat]{Range: p.rangeFrom(line, col, off), Data: ast.TuplePat{}}
	}
	first := p.parsePat()
	if p.at(lexer.COMMA) {
		elems := []ast.Located[ast.Pat]{first}
		for p.at(lexer.COMMA) {
			p.advance()
			if p.at(lexer.RPAREN) {
				break
			}
			elems = append(elems, p.parsePat())
		}
		p.expect(lexer.RPAREN, "')'")
		return ast.Located[ast.Pat]{Range: p.rangeFrom(line, col, off), Data: ast.TuplePat{Elements: elems}}
	}
	p.expect(lexer.RPAREN, "')'")
	return ast.Located[ast.Pat]{Range: p.rangeFrom(line, col, off), Data: ast.ParenPat{Inner: first}}
}

func (p *Parser) parseRecordPat() ast.Located[ast.Pat] {
	line, col, off := p.here()
	p.advance() // {
	if p.at(lexer.RBRACE) {
		p.advance()
		return ast.Located[ast.Pat]{Range: p.rangeFrom(line, col, off), Data: ast.RecordLitPat{}}
	}
	var fields []ast.RecordLitPatField
	for {
		name := p.tok.Text
		p.expect(lexer.IDENT, "a field name")
		p.expect(lexer.EQUAL, "'='")
		fields = append(fields, ast.RecordLitPatField{Name: name, Pat: p.parsePat()})
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RBRACE, "'}'")
	return ast.Located[ast.Pat]{Range: p.rangeFrom(line, col, off), Data: ast.RecordLitPat{Fields: fields}}
}
