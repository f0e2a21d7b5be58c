package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion-lang/pion/internal/errors"
)

func collectAll(l *Lexer) []Token {
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func TestLexesKeywordsAndPunctuation(t *testing.T) {
	sink := &errors.CollectingSink{}
	l := New("test.pn", "let rec f : Int -> Bool = fun x => x;", sink)
	toks := collectAll(l)
	require.Empty(t, sink.Reports)

	var types []TokenType
	for _, tk := range toks {
		types = append(types, tk.Type)
	}
	assert.Equal(t, []TokenType{
		LET, REC, IDENT, COLON, IDENT, ARROW, IDENT, EQUAL, FUN, IDENT, FARROW, IDENT, SEMI, EOF,
	}, types)
}

func TestLexesIntLiteralBases(t *testing.T) {
	sink := &errors.CollectingSink{}
	l := New("test.pn", "42 0x1F 0b101", sink)
	toks := collectAll(l)
	require.Empty(t, sink.Reports)
	require.Len(t, toks, 4) // three ints + EOF

	assert.Equal(t, DEC_INT, toks[0].Type)
	assert.Equal(t, "42", toks[0].Text)
	assert.Equal(t, HEX_INT, toks[1].Type)
	assert.Equal(t, "1F", toks[1].Text)
	assert.Equal(t, BIN_INT, toks[2].Type)
	assert.Equal(t, "101", toks[2].Text)
}

func TestIllegalCharacterReportsLEX001(t *testing.T) {
	sink := &errors.CollectingSink{}
	l := New("test.pn", "x $ y", sink)
	collectAll(l)
	require.Len(t, sink.Reports, 1)
	assert.Equal(t, errors.LEX001, sink.Reports[0].Code)
}

func TestUnterminatedHexLiteralReportsLEX002(t *testing.T) {
	sink := &errors.CollectingSink{}
	l := New("test.pn", "0x", sink)
	collectAll(l)
	require.Len(t, sink.Reports, 1)
	assert.Equal(t, errors.LEX002, sink.Reports[0].Code)
}

func TestUnderscoreLexesAsKeyword(t *testing.T) {
	sink := &errors.CollectingSink{}
	l := New("test.pn", "_", sink)
	tok := l.Next()
	assert.Equal(t, UNDERSCORE, tok.Type)
}

func TestCommentsAreSkipped(t *testing.T) {
	sink := &errors.CollectingSink{}
	l := New("test.pn", "# a comment\ntrue", sink)
	tok := l.Next()
	require.Empty(t, sink.Reports)
	assert.Equal(t, TRUE, tok.Type)
}
