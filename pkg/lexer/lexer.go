package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// LexError reports a tokenization failure on a source line.
type LexError struct {
	Line    int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

type lexer struct {
	tokens []Token
	indent []int
	// open (, { and [ on the current logical line
	depth int
	line  int
}

// Tokenize converts source text into a token stream ending in EOF.
// Every INDENT in the stream is matched by a DEDENT.
func Tokenize(src string) ([]Token, error) {
	lx := &lexer{indent: []int{0}}
	lines := strings.Split(src, "\n")
	for idx, raw := range lines {
		lx.line = idx + 1
		text := strings.TrimRight(raw, "\r")
		if err := lx.scanLine(text); err != nil {
			return nil, err
		}
	}
	last := len(lines)
	for len(lx.indent) > 1 {
		lx.indent = lx.indent[:len(lx.indent)-1]
		lx.emit(Dedent, "", last)
	}
	lx.emit(EOF, "", last)
	return lx.tokens, nil
}

func (lx *lexer) emit(kind Kind, literal string, line int) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Literal: literal, Line: line})
}

func (lx *lexer) fail(format string, args ...any) error {
	return &LexError{Line: lx.line, Message: fmt.Sprintf(format, args...)}
}

func (lx *lexer) scanLine(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	pos := 0
	if lx.depth == 0 {
		width, err := lx.measureIndent(text)
		if err != nil {
			return err
		}
		lx.applyIndent(width)
		pos = width
	}
	return lx.scanRest(text, pos)
}

func (lx *lexer) measureIndent(text string) (int, error) {
	width := 0
	for width < len(text) {
		switch text[width] {
		case ' ':
			width++
			continue
		case '\t':
			return 0, lx.fail("tab in indentation")
		}
		break
	}
	return width, nil
}

func (lx *lexer) applyIndent(width int) {
	top := lx.indent[len(lx.indent)-1]
	for width < top {
		lx.indent = lx.indent[:len(lx.indent)-1]
		lx.emit(Dedent, "", lx.line)
		top = lx.indent[len(lx.indent)-1]
	}
	if width > top {
		lx.indent = append(lx.indent, width)
		lx.emit(Indent, "", lx.line)
	}
}

func (lx *lexer) scanRest(text string, pos int) error {
	for pos < len(text) {
		ch := text[pos]
		switch {
		case ch == ' ' || ch == '\t':
			pos++
		case ch == '"':
			end := strings.IndexByte(text[pos+1:], '"')
			if end < 0 {
				return lx.fail("unterminated string literal")
			}
			lx.emit(String, text[pos+1:pos+1+end], lx.line)
			pos += end + 2
		case isDigit(ch):
			start := pos
			for pos < len(text) && isDigit(text[pos]) {
				pos++
			}
			lx.emit(Number, text[start:pos], lx.line)
		case isIdentStart(ch):
			start := pos
			for pos < len(text) && isIdentPart(text[pos]) {
				pos++
			}
			word := text[start:pos]
			lx.emit(LookupKeyword(word), word, lx.line)
		default:
			kind, width, ok := matchOperator(text[pos:])
			if !ok {
				r, _ := utf8.DecodeRuneInString(text[pos:])
				return lx.fail("unknown character %q", r)
			}
			lx.trackDepth(kind)
			lx.emit(kind, text[pos:pos+width], lx.line)
			pos += width
		}
	}
	return nil
}

func (lx *lexer) trackDepth(kind Kind) {
	switch kind {
	case LParen, LBrace, LBracket:
		lx.depth++
	case RParen, RBrace, RBracket:
		if lx.depth > 0 {
			lx.depth--
		}
	}
}

func matchOperator(rest string) (Kind, int, bool) {
	for _, width := range []int{2, 1} {
		if len(rest) < width {
			continue
		}
		if kind, ok := operators[rest[:width]]; ok {
			return kind, width, true
		}
	}
	return 0, 0, false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
