package lexer

import (
	"errors"
	"strings"
	"testing"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func assertKinds(t *testing.T, got []Token, want ...Kind) {
	t.Helper()
	gotKinds := kinds(got)
	if len(gotKinds) != len(want) {
		t.Fatalf("expected %d tokens %v, got %d %v", len(want), want, len(gotKinds), gotKinds)
	}
	for i := range want {
		if gotKinds[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s (all: %v)", i, want[i], gotKinds[i], gotKinds)
		}
	}
}

func TestTokenizeAssignment(t *testing.T) {
	tokens, err := Tokenize("local x = 5 + 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens, Local, Identifier, Assign, Number, Plus, Number, EOF)
	if tokens[3].Literal != "5" || tokens[5].Literal != "3" {
		t.Fatalf("unexpected number literals: %v", tokens)
	}
	if tokens[1].Literal != "x" {
		t.Fatalf("expected identifier x, got %q", tokens[1].Literal)
	}
}

func TestTokenizeEqualityBeforeAssign(t *testing.T) {
	tokens, err := Tokenize("a == b = c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens, Identifier, Equal, Identifier, Assign, Identifier, EOF)
}

func TestTokenizeKeywordsAndPunctuation(t *testing.T) {
	tokens, err := Tokenize(`table t = { "a": 1, "b": [x.y] } % 2 * 3 / 4 - 5 < 6 > 7`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens,
		Table, Identifier, Assign, LBrace, String, Colon, Number, Comma, String, Colon,
		LBracket, Identifier, Dot, Identifier, RBracket, RBrace,
		Percent, Number, Star, Number, Slash, Number, Minus, Number, Less, Number, Greater, Number, EOF)
	if tokens[4].Literal != "a" {
		t.Fatalf("expected string contents without quotes, got %q", tokens[4].Literal)
	}
}

func TestTokenizeEveryReservedWord(t *testing.T) {
	words := Keywords()
	if len(words) != 31 {
		t.Fatalf("expected 31 reserved words, got %d", len(words))
	}
	for _, word := range words {
		tokens, err := Tokenize(word)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", word, err)
		}
		if !tokens[0].Kind.IsKeyword() {
			t.Fatalf("expected %q to lex as a keyword, got %s", word, tokens[0].Kind)
		}
	}
	tokens, _ := Tokenize("printlines True_ _local")
	assertKinds(t, tokens, Identifier, Identifier, Identifier, EOF)
}

func TestTokenizeIndentation(t *testing.T) {
	src := strings.Join([]string{
		"if (x):",
		"    printline(1)",
		"    while (y):",
		"        break",
		"printline(2)",
	}, "\n")
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens,
		If, LParen, Identifier, RParen, Colon,
		Indent, Printline, LParen, Number, RParen,
		While, LParen, Identifier, RParen, Colon,
		Indent, Break,
		Dedent, Dedent,
		Printline, LParen, Number, RParen, EOF)
	if tokens[5].Line != 2 {
		t.Fatalf("expected INDENT on line 2, got %d", tokens[5].Line)
	}
}

func TestTokenizeClosesOpenBlocksAtEnd(t *testing.T) {
	tokens, err := Tokenize("func f():\n  while (1):\n    return 1\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case Indent:
			depth++
		case Dedent:
			depth--
		}
		if depth < 0 {
			t.Fatalf("dedent without indent in %v", kinds(tokens))
		}
	}
	if depth != 0 {
		t.Fatalf("unbalanced stream: %v", kinds(tokens))
	}
	if tokens[len(tokens)-1].Kind != EOF {
		t.Fatalf("expected EOF last")
	}
}

func TestTokenizePartialDedentStaysBalanced(t *testing.T) {
	src := "if (a):\n    x()\n  y()\nz()"
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens,
		If, LParen, Identifier, RParen, Colon,
		Indent, Identifier, LParen, RParen,
		Dedent, Indent, Identifier, LParen, RParen,
		Dedent, Identifier, LParen, RParen, EOF)
}

func TestTokenizeSkipsBlankLines(t *testing.T) {
	tokens, err := Tokenize("while (1):\n    a()\n\n   \n    b()\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens,
		While, LParen, Number, RParen, Colon,
		Indent, Identifier, LParen, RParen, Identifier, LParen, RParen, Dedent, EOF)
}

func TestTokenizeJoinsLinesInsideBrackets(t *testing.T) {
	src := "table t = {\n    \"a\": 1,\n  \"b\": 2\n}\nprintline(t)"
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tok := range tokens {
		if tok.Kind == Indent || tok.Kind == Dedent {
			t.Fatalf("unexpected block token inside braces: %v", kinds(tokens))
		}
	}
}

func TestTokenizeCRLF(t *testing.T) {
	tokens, err := Tokenize("if (a):\r\n    b()\r\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens, If, LParen, Identifier, RParen, Colon, Indent, Identifier, LParen, RParen, Dedent, EOF)
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		line int
		text string
	}{
		{"tab", "if (a):\n\tb()", 2, "tab"},
		{"tab after spaces", "if (a):\n  \tb()", 2, "tab"},
		{"unterminated string", "printline(\"oops)", 1, "unterminated"},
		{"unknown character", "local x = 1\nlocal y = x ! 2", 2, "unknown character '!'"},
	}
	for _, tc := range cases {
		_, err := Tokenize(tc.src)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		var lexErr *LexError
		if !errors.As(err, &lexErr) {
			t.Fatalf("%s: expected LexError, got %T", tc.name, err)
		}
		if lexErr.Line != tc.line {
			t.Fatalf("%s: expected line %d, got %d", tc.name, tc.line, lexErr.Line)
		}
		if !strings.Contains(lexErr.Error(), tc.text) {
			t.Fatalf("%s: expected %q in %q", tc.name, tc.text, lexErr.Error())
		}
	}
}
