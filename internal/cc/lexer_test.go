package cc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	lex := NewLexer(strings.NewReader(src))
	var toks []Token
	for {
		tok, err := lex.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}

func Test_Lexer_keywordsAndIdents(t *testing.T) {
	toks := scanAll(t, "int x = foo(Bar);")
	var kinds []Kind
	var texts []string
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}
	assert.Equal(t,
		[]Kind{Keyword, Ident, Punct, Ident, Punct, Ident, Punct, Punct, EOF},
		kinds,
	)
	assert.Equal(t,
		[]string{"int", "x", "=", "foo", "(", "Bar", ")", ";", ""},
		texts,
	)
}

func Test_Lexer_multiCharOperators(t *testing.T) {
	toks := scanAll(t, "a==b a!=b a<=b a>=b a<b a>b a=b")
	var texts []string
	for _, tok := range toks {
		if tok.Kind == Punct {
			texts = append(texts, tok.Text)
		}
	}
	assert.Equal(t, []string{"==", "!=", "<=", ">=", "<", ">", "="}, texts)
}

func Test_Lexer_numbers(t *testing.T) {
	toks := scanAll(t, "0 42 1000000")
	var vals []int64
	for _, tok := range toks {
		if tok.Kind == Number {
			vals = append(vals, tok.Value)
		}
	}
	assert.Equal(t, []int64{0, 42, 1000000}, vals)
}

func Test_Lexer_skipsLineAndBlockComments(t *testing.T) {
	toks := scanAll(t, "a // trailing comment\nb /* block\ncomment */ c")
	var idents []string
	for _, tok := range toks {
		if tok.Kind == Ident {
			idents = append(idents, tok.Text)
		}
	}
	assert.Equal(t, []string{"a", "b", "c"}, idents)
}

func Test_Lexer_unterminatedBlockCommentErrors(t *testing.T) {
	lex := NewLexer(strings.NewReader("/* never closes"))
	_, err := lex.Next()
	assert.Error(t, err)
}

func Test_Lexer_replayFeedsBufferedTokens(t *testing.T) {
	lex := NewLexer(strings.NewReader("tail"))
	buffered := []Token{
		{Kind: Ident, Text: "i"},
		{Kind: Punct, Text: "="},
		{Kind: Punct, Text: "+"},
		{Kind: Punct, Text: "+"},
		{Kind: EOF},
	}
	lex.EnterReplay(buffered)
	var got []Token
	for {
		tok, err := lex.Next()
		require.NoError(t, err)
		got = append(got, tok)
		if tok.Kind == EOF {
			break
		}
	}
	assert.Equal(t, buffered, got)

	lex.ExitReplay()
	tok, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, Token{Kind: Ident, Text: "tail"}, tok)
}

func Test_Lexer_ungetOverflowPanics(t *testing.T) {
	lex := NewLexer(strings.NewReader("abc"))
	assert.Panics(t, func() {
		lex.unreadByte('a')
		lex.unreadByte('b')
		lex.unreadByte('c')
	})
}
