package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sclp/internal/token"
)

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestScanKeywordsAndPunctuation(t *testing.T) {
	toks, err := New("int x; void main() { x = 3; print x; }", "t.sc", nil).Scan()
	require.NoError(t, err)
	require.Equal(t, []token.Type{
		token.IntKw, token.Ident, token.Semicolon,
		token.Void, token.Ident, token.LParen, token.RParen, token.LBrace,
		token.Ident, token.Assign, token.IntLit, token.Semicolon,
		token.Print, token.Ident, token.Semicolon,
		token.RBrace, token.EOF,
	}, types(toks))
}

func TestScanOperators(t *testing.T) {
	toks, err := New("a <= b && c != d || !e", "t.sc", nil).Scan()
	require.NoError(t, err)
	require.Equal(t, []token.Type{
		token.Ident, token.Le, token.Ident, token.AndAnd, token.Ident,
		token.Neq, token.Ident, token.OrOr, token.Bang, token.Ident, token.EOF,
	}, types(toks))
}

func TestScanFloatVsIntLiteral(t *testing.T) {
	toks, err := New("1 2.5 3.", "t.sc", nil).Scan()
	require.NoError(t, err)
	require.Equal(t, token.IntLit, toks[0].Type)
	require.Equal(t, "1", toks[0].Lexeme)
	require.Equal(t, token.FloatLit, toks[1].Type)
	require.Equal(t, "2.5", toks[1].Lexeme)
	// A bare trailing dot with no following digit does not start a float.
	require.Equal(t, token.IntLit, toks[2].Type)
}

func TestScanLineNumbers(t *testing.T) {
	toks, err := New("int x;\n\nfloat y;", "t.sc", nil).Scan()
	require.NoError(t, err)
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 3, toks[3].Line)
}

func TestStringLiteralEscapes(t *testing.T) {
	toks, err := New(`"a\nb\t\"c\\d"`, "t.sc", nil).Scan()
	require.NoError(t, err)
	require.Equal(t, token.StringLit, toks[0].Type)
	require.Equal(t, "a\nb\t\"c\\d", toks[0].Lexeme)
}

type recordingPool struct {
	ids map[string]string
	n   int
}

func (p *recordingPool) GetStringID(s string) string {
	if p.ids == nil {
		p.ids = make(map[string]string)
	}
	if id, ok := p.ids[s]; ok {
		return id
	}
	id := string(rune('a' + p.n))
	p.n++
	p.ids[s] = id
	return id
}

func TestStringLiteralsRegisteredWithPool(t *testing.T) {
	pool := &recordingPool{}
	_, err := New(`print "hi"; print "hi";`, "t.sc", pool).Scan()
	require.NoError(t, err)
	require.Len(t, pool.ids, 1, "the same literal is registered once")
}

func TestUnterminatedStringIsLexicalError(t *testing.T) {
	_, err := New(`"unterminated`, "t.sc", nil).Scan()
	require.Error(t, err)
}

func TestCommentsAreSkipped(t *testing.T) {
	toks, err := New("int x; // trailing comment\nfloat y;", "t.sc", nil).Scan()
	require.NoError(t, err)
	require.Equal(t, []token.Type{
		token.IntKw, token.Ident, token.Semicolon,
		token.FloatKw, token.Ident, token.Semicolon, token.EOF,
	}, types(toks))
}
