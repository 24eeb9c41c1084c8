package parser

import (
	"github.com/PlazmaDevelopment/FFling/pkg/ast"
	"github.com/PlazmaDevelopment/FFling/pkg/lexer"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	start := p.current()
	var (
		stmt ast.Statement
		err  error
	)
	switch start.Kind {
	case lexer.Local:
		stmt, err = p.parseAssignment()
	case lexer.Printline, lexer.Printlinef:
		stmt, err = p.parsePrintline()
	case lexer.If:
		stmt, err = p.parseIf()
	case lexer.For:
		stmt, err = p.parseFor()
	case lexer.While:
		stmt, err = p.parseWhile()
	case lexer.Break:
		p.advance()
		stmt = ast.NewBreak()
	case lexer.Continue:
		p.advance()
		stmt = ast.NewContinue()
	case lexer.Func:
		stmt, err = p.parseFunc()
	case lexer.Return:
		stmt, err = p.parseReturn()
	case lexer.Table:
		stmt, err = p.parseTableAssignment()
	case lexer.Import:
		stmt, err = p.parseImport()
	default:
		stmt, err = p.parseExpression()
	}
	if err != nil {
		return nil, err
	}
	ast.SetLine(stmt, start.Line)
	return stmt, nil
}

func (p *Parser) parseAssignment() (ast.Statement, error) {
	p.advance()
	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Assign); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewAssignment(name.Literal, value), nil
}

func (p *Parser) parsePrintline() (ast.Statement, error) {
	p.advance()
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	return ast.NewPrintline(args), nil
}

// parseCondition reads "(expr):" as used by if, elif and while.
func (p *Parser) parseCondition() (ast.Expression, error) {
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Colon); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elifs []*ast.Elif
	for p.at(lexer.Elif) {
		line := p.advance().Line
		elifCond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		clause := ast.NewElif(elifCond, body)
		ast.SetLine(clause, line)
		elifs = append(elifs, clause)
	}
	var elseBody ast.Block
	if p.at(lexer.Else) {
		p.advance()
		if _, err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIf(cond, then, elifs, elseBody), nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	p.advance()
	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.In); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Range); err != nil {
		return nil, err
	}
	bound, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFor(name.Literal, bound, body), nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(cond, body), nil
}

func (p *Parser) parseFunc() (ast.Statement, error) {
	p.advance()
	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var params []string
	if !p.at(lexer.RParen) {
		for {
			param, err := p.expect(lexer.Identifier)
			if err != nil {
				return nil, err
			}
			params = append(params, param.Literal)
			if !p.at(lexer.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Colon); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFunc(name.Literal, params, body), nil
}

// parseReturn only takes a value that starts on the same line as the keyword.
func (p *Parser) parseReturn() (ast.Statement, error) {
	keyword := p.advance()
	next := p.current()
	if next.Kind == lexer.EOF || next.Kind == lexer.Dedent || next.Line != keyword.Line {
		return ast.NewReturn(nil), nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewReturn(value), nil
}

func (p *Parser) parseTableAssignment() (ast.Statement, error) {
	p.advance()
	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Assign); err != nil {
		return nil, err
	}
	if !p.at(lexer.LBrace) {
		return nil, p.errorf(lexer.LBrace.String())
	}
	table, err := p.parseTable()
	if err != nil {
		return nil, err
	}
	return ast.NewAssignment(name.Literal, table), nil
}

func (p *Parser) parseImport() (ast.Statement, error) {
	p.advance()
	switch p.current().Kind {
	case lexer.String, lexer.Identifier:
		return ast.NewImport(p.advance().Literal), nil
	default:
		return nil, p.errorf("STRING or IDENTIFIER")
	}
}

func (p *Parser) parseBlock() (ast.Block, error) {
	if _, err := p.expect(lexer.Indent); err != nil {
		return nil, err
	}
	var body ast.Block
	for !p.at(lexer.Dedent) {
		if p.at(lexer.EOF) {
			return nil, p.errorf(lexer.Dedent.String())
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.advance()
	return body, nil
}
