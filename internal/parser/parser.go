// Package parser builds the surface ast.Located[Expr] tree straight from
// a lexer.Lexer token stream. It is a plain recursive-descent parser with
// one token of lookahead; on a malformed construct it reports a PAR-coded
// diagnostic and substitutes ast.ErrorExpr/ast.ErrorPat so the caller's
// tree stays well-formed and parsing can keep going rather than abort.
package parser

import (
	"strconv"

	"github.com/pion-lang/pion/internal/ast"
	"github.com/pion-lang/pion/internal/errors"
	"github.com/pion-lang/pion/internal/lexer"
)

// Parser holds one token of lookahead over a lexer.Lexer.
type Parser struct {
	file string
	lex  *lexer.Lexer
	sink errors.Sink
	tok  lexer.Token
}

// New constructs a Parser over src, reporting PAR-coded diagnostics
// (alongside any LEX-coded ones the lexer itself reports) to sink.
func New(file, src string, sink errors.Sink) *Parser {
	p := &Parser{file: file, lex: lexer.New(file, src, sink), sink: sink}
	p.advance()
	return p
}

func (p *Parser) advance() { p.tok = p.lex.Next() }

func (p *Parser) at(tt lexer.TokenType) bool { return p.tok.Type == tt }

func (p *Parser) rangeFrom(startLine, startCol, startOff int) ast.Range {
	return ast.Range{
		Start: ast.Pos{Line: startLine, Column: startCol, Offset: startOff},
		End:   ast.Pos{Line: p.tok.Line, Column: p.tok.Column, Offset: p.tok.Offset},
	}
}

func (p *Parser) here() (int, int, int) { return p.tok.Line, p.tok.Column, p.tok.Offset }

// expect consumes tok if it matches tt, else reports PAR001 and leaves
// the stream positioned on the offending token so the caller can decide
// how to recover.
func (p *Parser) expect(tt lexer.TokenType, what string) bool {
	if p.at(tt) {
		p.advance()
		return true
	}
	p.errorf(errors.PAR001, "expected "+what+", found "+p.tok.Type.String())
	return false
}

func (p *Parser) errorf(code, msg string) {
	if p.sink == nil {
		return
	}
	rng := ast.Range{
		Start: ast.Pos{Line: p.tok.Line, Column: p.tok.Column, Offset: p.tok.Offset},
		End:   ast.Pos{Line: p.tok.Line, Column: p.tok.Column + len(p.tok.Text), Offset: p.tok.Offset + len(p.tok.Text)},
	}
	p.sink.Report(errors.New(code, p.file, msg, rng))
}

func errExpr(rng ast.Range) ast.Located[ast.Expr] {
	return ast.Located[ast.Expr]{Range: rng, Data: ast.ErrorExpr{}}
}

// ParseExpr parses a single top-level expression, the whole of what the
// `check`/`eval` CLI commands feed the elaborator.
func ParseExpr(file, src string, sink errors.Sink) ast.Located[ast.Expr] {
	p := New(file, src, sink)
	return p.parseExpr()
}

// parseExpr is the entry point for any expression position: try the
// keyword-led forms first, otherwise fall through to the arrow/tuple/
// application grammar.
func (p *Parser) parseExpr() ast.Located[ast.Expr] {
	switch p.tok.Type {
	case lexer.LET:
		return p.parseLet()
	case lexer.IF:
		return p.parseIf()
	case lexer.FUN:
		return p.parseFunLit()
	case lexer.MATCH:
		return p.parseMatch()
	case lexer.FORALL:
		return p.parseFunType()
	default:
		return p.parseArrow()
	}
}

func (p *Parser) parseLet() ast.Located[ast.Expr] {
	line, col, off := p.here()
	p.advance() // let
	recursive := false
	if p.at(lexer.REC) {
		recursive = true
		p.advance()
	}
	pat := p.parsePat()
	var ty *ast.Located[ast.Expr]
	if p.at(lexer.COLON) {
		p.advance()
		t := p.parseArrow()
		ty = &t
	}
	if !p.expect(lexer.EQUAL, "'='") {
		return errExpr(p.rangeFrom(line, col, off))
	}
	init := p.parseExpr()
	if !p.expect(lexer.SEMI, "';'") {
		return errExpr(p.rangeFrom(line, col, off))
	}
	body := p.parseExpr()
	return ast.Located[ast.Expr]{
		Range: p.rangeFrom(line, col, off),
		Data:  ast.LetExpr{Recursive: recursive, Pat: pat, Type: ty, Init: init, Body: body},
	}
}

func (p *Parser) parseIf() ast.Located[ast.Expr] {
	line, col, off := p.here()
	p.advance() // if
	cond := p.parseExpr()
	p.expect(lexer.THEN, "'then'")
	then := p.parseExpr()
	p.expect(lexer.ELSE, "'else'")
	els := p.parseExpr()
	return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.IfExpr{Cond: cond, Then: then, Else: els}}
}

func (p *Parser) parseFunLit() ast.Located[ast.Expr] {
	line, col, off := p.here()
	p.advance() // fun
	params := p.parseParams()
	p.expect(lexer.FARROW, "'=>'")
	body := p.parseExpr()
	return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.FunLitExpr{Params: params, Body: body}}
}

func (p *Parser) parseFunType() ast.Located[ast.Expr] {
	line, col, off := p.here()
	p.advance() // forall
	params := p.parseParams()
	p.expect(lexer.ARROW, "'->'")
	body := p.parseExpr()
	return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.FunTypeExpr{Params: params, Body: body}}
}

// parseParams parses a sequence of one or more parameters, each either a
// bare name (`x`), an implicit bare name (`@x`), or a parenthesized
// annotated form (`(x : A)` / `(@x : A)`), continuing until a token that
// cannot start another parameter.
func (p *Parser) parseParams() []ast.FunParam {
	var params []ast.FunParam
	for {
		switch {
		case p.at(lexer.AT):
			p.advance()
			params = append(params, p.parseOneParam(ast.Implicit))
		case p.at(lexer.LPAREN):
			params = append(params, p.parseParenParam())
		case p.at(lexer.IDENT) || p.at(lexer.UNDERSCORE):
			params = append(params, p.parseOneParam(ast.Explicit))
		default:
			p.errorf(errors.PAR001, "expected a parameter")
			return params
		}
		if !(p.at(lexer.AT) || p.at(lexer.LPAREN) || p.at(lexer.IDENT) || p.at(lexer.UNDERSCORE)) {
			return params
		}
	}
}

func (p *Parser) parseOneParam(plicity ast.Plicity) ast.FunParam {
	name := p.parseBinderName()
	return ast.FunParam{Plicity: plicity, Name: name}
}

func (p *Parser) parseParenParam() ast.FunParam {
	p.advance() // (
	plicity := ast.Explicit
	if p.at(lexer.AT) {
		plicity = ast.Implicit
		p.advance()
	}
	name := p.parseBinderName()
	var ty *ast.Located[ast.Expr]
	if p.at(lexer.COLON) {
		p.advance()
		t := p.parseArrow()
		ty = &t
	}
	p.expect(lexer.RPAREN, "')'")
	return ast.FunParam{Plicity: plicity, Name: name, Type: ty}
}

func (p *Parser) parseBinderName() *string {
	if p.at(lexer.UNDERSCORE) {
		p.advance()
		return nil
	}
	text := p.tok.Text
	p.expect(lexer.IDENT, "a parameter name")
	return &text
}

func (p *Parser) parseMatch() ast.Located[ast.Expr] {
	line, col, off := p.here()
	p.advance() // match
	scrut := p.parseArrow()
	p.expect(lexer.LBRACE, "'{'")
	var arms []ast.MatchArm
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		pat := p.parsePat()
		var guard *ast.Located[ast.Expr]
		if p.at(lexer.IF) {
			p.advance()
			g := p.parseArrow()
			guard = &g
		}
		p.expect(lexer.FARROW, "'=>'")
		rhs := p.parseExpr()
		arms = append(arms, ast.MatchArm{Pat: pat, Guard: guard, Rhs: rhs})
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACE, "'}'")
	return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.MatchExpr{Scrut: scrut, Arms: arms}}
}

// parseArrow parses the `A -> B` / `@A -> B` sugar, right-associative,
// above application in precedence.
func (p *Parser) parseArrow() ast.Located[ast.Expr] {
	if p.at(lexer.FORALL) {
		return p.parseFunType()
	}
	line, col, off := p.here()
	plicity := ast.Explicit
	if p.at(lexer.AT) {
		plicity = ast.Implicit
		p.advance()
	}
	lhs := p.parseApp()
	if p.at(lexer.ARROW) {
		p.advance()
		rhs := p.parseArrow()
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.FunArrowExpr{Plicity: plicity, Lhs: lhs, Rhs: rhs}}
	}
	if plicity == ast.Implicit {
		p.errorf(errors.PAR001, "'@' is only valid before a function arrow or application argument")
	}
	return lhs
}

// parseApp parses left-associative application, `f x @y z`.
func (p *Parser) parseApp() ast.Located[ast.Expr] {
	line, col, off := p.here()
	fn := p.parsePostfix()
	for p.startsArg() {
		argPlicity := ast.Explicit
		if p.at(lexer.AT) {
			argPlicity = ast.Implicit
			p.advance()
		}
		arg := p.parsePostfix()
		fn = ast.Located[ast.Expr]{
			Range: p.rangeFrom(line, col, off),
			Data:  ast.FunAppExpr{Fun: fn, Arg: ast.FunArg{Plicity: argPlicity, Expr: arg}},
		}
	}
	return fn
}

// startsArg decides whether the current token can begin an application
// argument. LBRACE is deliberately excluded: it would make a bare record
// literal argument (`f { x = 1 }`) indistinguishable from the `{ arms }`
// block that follows a `match` scrutinee. Write `f ({ x = 1 })` instead.
func (p *Parser) startsArg() bool {
	switch p.tok.Type {
	case lexer.IDENT, lexer.DEC_INT, lexer.BIN_INT, lexer.HEX_INT, lexer.TRUE, lexer.FALSE,
		lexer.LPAREN, lexer.LBRACKET, lexer.AT, lexer.UNDERSCORE, lexer.QUESTION:
		return true
	default:
		return false
	}
}

// parsePostfix parses an atom followed by any number of `.field`
// projections.
func (p *Parser) parsePostfix() ast.Located[ast.Expr] {
	line, col, off := p.here()
	e := p.parseAtom()
	for p.at(lexer.DOT) {
		p.advance()
		name := p.tok.Text
		p.expect(lexer.IDENT, "a field name")
		e = ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.RecordProjExpr{Scrut: e, Name: name}}
	}
	return e
}

func (p *Parser) parseAtom() ast.Located[ast.Expr] {
	line, col, off := p.here()
	switch p.tok.Type {
	case lexer.IDENT:
		name := p.tok.Text
		p.advance()
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.LocalVarExpr{Name: name}}
	case lexer.UNDERSCORE, lexer.QUESTION:
		p.advance()
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.HoleExpr{}}
	case lexer.TRUE:
		p.advance()
		b := true
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.ConstExpr{Bool: &b}}
	case lexer.FALSE:
		p.advance()
		b := false
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.ConstExpr{Bool: &b}}
	case lexer.DEC_INT:
		text := p.tok.Text
		p.advance()
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.ConstExpr{IsInt: true, IntBase: ast.Base10, Text: text}}
	case lexer.BIN_INT:
		text := p.tok.Text
		p.advance()
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.ConstExpr{IsInt: true, IntBase: ast.Base2, Text: text}}
	case lexer.HEX_INT:
		text := p.tok.Text
		p.advance()
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.ConstExpr{IsInt: true, IntBase: ast.Base16, Text: text}}
	case lexer.LPAREN:
		return p.parseParenOrTuple()
	case lexer.LBRACKET:
		return p.parseListLit()
	case lexer.LBRACE:
		return p.parseRecord()
	default:
		p.errorf(errors.PAR001, "expected an expression, found "+p.tok.Type.String())
		p.advance()
		return errExpr(p.rangeFrom(line, col, off))
	}
}

// ParseIntLiteral re-parses a Const token's text in its recorded base,
// the Const synth rule of the elaborator ("parse literal against
// primitive type").
func ParseIntLiteral(text string, base ast.IntBase) (uint32, bool) {
	radix := 10
	switch base {
	case ast.Base2:
		radix = 2
	case ast.Base16:
		radix = 16
	}
	n, err := strconv.ParseUint(text, radix, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

func (p *Parser) parseParenOrTuple() ast.Located[ast.Expr] {
	line, col, off := p.here()
	p.advance() // (
	if p.at(lexer.RPAREN) {
		p.advance()
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.TupleLitExpr{}}
	}
	first := p.parseExpr()
	switch {
	case p.at(lexer.COLON):
		p.advance()
		ty := p.parseArrow()
		p.expect(lexer.RPAREN, "')'")
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.AnnExpr{Expr: first, Type: ty}}
	case p.at(lexer.COMMA):
		elems := []ast.Located[ast.Expr]{first}
		for p.at(lexer.COMMA) {
			p.advance()
			if p.at(lexer.RPAREN) {
				break
			}
			elems = append(elems, p.parseExpr())
		}
		p.expect(lexer.RPAREN, "')'")
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.TupleLitExpr{Elements: elems}}
	default:
		p.expect(lexer.RPAREN, "')'")
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.ParenExpr{Inner: first}}
	}
}

func (p *Parser) parseListLit() ast.Located[ast.Expr] {
	line, col, off := p.here()
	p.advance() // [
	var elems []ast.Located[ast.Expr]
	for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
		elems = append(elems, p.parseExpr())
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACKET, "']'")
	return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.ListLitExpr{Elements: elems}}
}

// parseRecord disambiguates `{ name : Type, … }` (RecordType) from
// `{ name = expr, … }` (RecordLit) by looking one token past the first
// field name.
func (p *Parser) parseRecord() ast.Located[ast.Expr] {
	line, col, off := p.here()
	p.advance() // {
	if p.at(lexer.RBRACE) {
		p.advance()
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.RecordLitExpr{}}
	}

	firstName := p.tok.Text
	p.expect(lexer.IDENT, "a field name")
	isType := p.at(lexer.COLON)
	if !isType {
		p.expect(lexer.EQUAL, "'=' or ':'")
	} else {
		p.advance()
	}

	if isType {
		fields := []ast.RecordTypeField{{Name: firstName, Type: p.parseArrow()}}
		for p.at(lexer.COMMA) {
			p.advance()
			name := p.tok.Text
			p.expect(lexer.IDENT, "a field name")
			p.expect(lexer.COLON, "':'")
			fields = append(fields, ast.RecordTypeField{Name: name, Type: p.parseArrow()})
		}
		p.expect(lexer.RBRACE, "'}'")
		return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.RecordTypeExpr{Fields: fields}}
	}

	fields := []ast.RecordLitField{{Name: firstName, Expr: p.parseExpr()}}
	for p.at(lexer.COMMA) {
		p.advance()
		name := p.tok.Text
		p.expect(lexer.IDENT, "a field name")
		p.expect(lexer.EQUAL, "'='")
		fields = append(fields, ast.RecordLitField{Name: name, Expr: p.parseExpr()})
	}
	p.expect(lexer.RBRACE, "'}'")
	return ast.Located[ast.Expr]{Range: p.rangeFrom(line, col, off), Data: ast.RecordLitExpr{Fields: fields}}
}
