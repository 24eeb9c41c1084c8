package parser

import (
	"math/big"

	"github.com/PlazmaDevelopment/FFling/pkg/ast"
	"github.com/PlazmaDevelopment/FFling/pkg/lexer"
)

// All arithmetic and comparison operators share one left-associative
// level; and/or sit one level below.
var binaryOperators = map[lexer.Kind]string{
	lexer.Plus:    "+",
	lexer.Minus:   "-",
	lexer.Equal:   "==",
	lexer.Greater: ">",
	lexer.Less:    "<",
	lexer.Star:    "*",
	lexer.Slash:   "/",
	lexer.Percent: "%",
}

var logicOperators = map[lexer.Kind]string{
	lexer.And: "and",
	lexer.Or:  "or",
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseChain(logicOperators, func() (ast.Expression, error) {
		return p.parseChain(binaryOperators, p.parsePrimary)
	})
}

func (p *Parser) parseChain(ops map[lexer.Kind]string, operand func() (ast.Expression, error)) (ast.Expression, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.current().Kind]
		if !ok {
			return left, nil
		}
		line := p.advance().Line
		right, err := operand()
		if err != nil {
			return nil, err
		}
		bin := ast.NewBinOp(op, left, right)
		ast.SetLine(bin, line)
		left = bin
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.current()
	var expr ast.Expression
	switch tok.Kind {
	case lexer.Number:
		p.advance()
		value, ok := new(big.Int).SetString(tok.Literal, 10)
		if !ok {
			return nil, &ParseError{Expected: "integer literal", Found: tok}
		}
		expr = ast.NewIntegerLiteral(value)
	case lexer.String:
		p.advance()
		expr = ast.NewStringLiteral(tok.Literal)
	case lexer.True, lexer.False:
		p.advance()
		expr = ast.NewBooleanLiteral(tok.Kind == lexer.True)
	case lexer.Identifier:
		p.advance()
		if !p.at(lexer.LParen) {
			expr = ast.NewVariable(tok.Literal)
			break
		}
		p.advance()
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		expr = ast.NewCall(tok.Literal, args)
	case lexer.LParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.LBrace:
		table, err := p.parseTable()
		if err != nil {
			return nil, err
		}
		expr = table
	default:
		return nil, p.errorf("expression")
	}
	ast.SetLine(expr, tok.Line)
	return expr, nil
}

// parseArguments reads "expr, expr, ...)" after an opening paren.
func (p *Parser) parseArguments() ([]ast.Expression, error) {
	var args []ast.Expression
	if !p.at(lexer.RParen) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.at(lexer.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return args, nil
}

// parseTable reads `{ "key": expr, ... }`. A repeated key keeps its first
// position and takes the later value.
func (p *Parser) parseTable() (*ast.Table, error) {
	open, err := p.expect(lexer.LBrace)
	if err != nil {
		return nil, err
	}
	var entries []*ast.TableEntry
	index := make(map[string]int)
	if !p.at(lexer.RBrace) {
		for {
			key, err := p.expect(lexer.String)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.Colon); err != nil {
				return nil, err
			}
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if at, ok := index[key.Literal]; ok {
				entries[at].Value = value
			} else {
				entry := ast.NewTableEntry(key.Literal, value)
				ast.SetLine(entry, key.Line)
				index[key.Literal] = len(entries)
				entries = append(entries, entry)
			}
			if !p.at(lexer.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	table := ast.NewTable(entries)
	ast.SetLine(table, open.Line)
	return table, nil
}
