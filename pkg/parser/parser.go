package parser

import (
	"fmt"

	"github.com/PlazmaDevelopment/FFling/pkg/ast"
	"github.com/PlazmaDevelopment/FFling/pkg/lexer"
)

// ParseError reports the first token that did not fit the grammar.
type ParseError struct {
	Expected string
	Found    lexer.Token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Found)
}

// Parser is single use: it consumes one token stream and yields one Program.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// NewParser wraps a token stream produced by lexer.Tokenize.
func NewParser(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse builds a Program from tokens. Parsing stops at the first error.
func Parse(tokens []lexer.Token) (*ast.Program, error) {
	return NewParser(tokens).ParseProgram()
}

// ParseSource tokenizes and parses src.
func ParseSource(src string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func (p *Parser) ParseProgram() (*ast.Program, error) {
	var body []ast.Statement
	for p.current().Kind != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return ast.NewProgram(body), nil
}

func (p *Parser) current() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	line := 0
	if n := len(p.tokens); n > 0 {
		line = p.tokens[n-1].Line
	}
	return lexer.Token{Kind: lexer.EOF, Line: line}
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) at(kind lexer.Kind) bool {
	return p.current().Kind == kind
}

func (p *Parser) expect(kind lexer.Kind) (lexer.Token, error) {
	if !p.at(kind) {
		return lexer.Token{}, p.errorf(kind.String())
	}
	return p.advance(), nil
}

func (p *Parser) errorf(expected string) error {
	return &ParseError{Expected: expected, Found: p.current()}
}
