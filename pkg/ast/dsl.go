package ast

import "math/big"

// Literal and reference helpers.

func ID(name string) *Variable {
	return NewVariable(name)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(big.NewInt(value))
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Bin(op string, left, right Expression) *BinOp {
	return NewBinOp(op, left, right)
}

func CallExpr(callee string, args ...Expression) *Call {
	return NewCall(callee, args)
}

func Entry(key string, value Expression) *TableEntry {
	return NewTableEntry(key, value)
}

func Tbl(entries ...*TableEntry) *Table {
	return NewTable(entries)
}

// Statement helpers.

func Prog(stmts ...Statement) *Program {
	return NewProgram(stmts)
}

func Body(stmts ...Statement) Block {
	return Block(stmts)
}

func Print(args ...Expression) *Printline {
	return NewPrintline(args)
}

func Assign(name string, value Expression) *Assignment {
	return NewAssignment(name, value)
}

func IfElse(condition Expression, then Block, elseBody Block, elifs ...*Elif) *If {
	return NewIf(condition, then, elifs, elseBody)
}

func ElifClause(condition Expression, body Block) *Elif {
	return NewElif(condition, body)
}

func ForRange(name string, bound Expression, body Block) *For {
	return NewFor(name, bound, body)
}

func WhileLoop(condition Expression, body Block) *While {
	return NewWhile(condition, body)
}

func Fn(name string, params []string, body Block) *Func {
	return NewFunc(name, params, body)
}

func Ret(value Expression) *Return {
	return NewReturn(value)
}

func Brk() *Break {
	return NewBreak()
}

func Cont() *Continue {
	return NewContinue()
}

func Imp(path string) *Import {
	return NewImport(path)
}
