package ast

import "math/big"

type NodeType string

const (
	NodeProgram    NodeType = "Program"
	NodePrintline  NodeType = "Printline"
	NodeAssignment NodeType = "Assignment"
	NodeIf         NodeType = "If"
	NodeElif       NodeType = "Elif"
	NodeFor        NodeType = "For"
	NodeWhile      NodeType = "While"
	NodeBreak      NodeType = "Break"
	NodeContinue   NodeType = "Continue"
	NodeFunc       NodeType = "Func"
	NodeReturn     NodeType = "Return"
	NodeImport     NodeType = "Import"
	NodeCall       NodeType = "Call"
	NodeVariable   NodeType = "Variable"
	NodeInteger    NodeType = "IntegerLiteral"
	NodeString     NodeType = "StringLiteral"
	NodeBoolean    NodeType = "BooleanLiteral"
	NodeBinOp      NodeType = "BinOp"
	NodeTable      NodeType = "Table"
	NodeTableEntry NodeType = "TableEntry"
)

type Node interface {
	NodeType() NodeType
	Line() int
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	line int
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Line() int          { return n.line }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setLine(line int)  { n.line = line }

// SetLine records the source line a node started on.
func SetLine(node Node, line int) {
	if setter, ok := node.(interface{ setLine(int) }); ok {
		setter.setLine(line)
	}
}

// Statement is the closed set of nodes that may appear in a block.
type Statement interface {
	Node
	statementNode()
}

// Expression is the closed set of nodes that produce a value.
type Expression interface {
	Node
	Statement
	expressionNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}
func (expressionMarker) statementNode()  {}

// Program is the root produced by one parse.
type Program struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewProgram(body []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Body: body}
}

// Block is an indented statement list.
type Block []Statement

type Printline struct {
	nodeImpl
	statementMarker

	Args []Expression `json:"args"`
}

func NewPrintline(args []Expression) *Printline {
	return &Printline{nodeImpl: newNodeImpl(NodePrintline), Args: args}
}

type Assignment struct {
	nodeImpl
	statementMarker

	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

func NewAssignment(name string, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Name: name, Value: value}
}

type Elif struct {
	nodeImpl

	Condition Expression `json:"condition"`
	Body      Block      `json:"body"`
}

func NewElif(condition Expression, body Block) *Elif {
	return &Elif{nodeImpl: newNodeImpl(NodeElif), Condition: condition, Body: body}
}

type If struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      Block      `json:"then"`
	Elifs     []*Elif    `json:"elifs,omitempty"`
	Else      Block      `json:"else,omitempty"`
}

func NewIf(condition Expression, then Block, elifs []*Elif, elseBody Block) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf), Condition: condition, Then: then, Elifs: elifs, Else: elseBody}
}

type For struct {
	nodeImpl
	statementMarker

	Var   string     `json:"var"`
	Range Expression `json:"range"`
	Body  Block      `json:"body"`
}

func NewFor(name string, rng Expression, body Block) *For {
	return &For{nodeImpl: newNodeImpl(NodeFor), Var: name, Range: rng, Body: body}
}

type While struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Block      `json:"body"`
}

func NewWhile(condition Expression, body Block) *While {
	return &While{nodeImpl: newNodeImpl(NodeWhile), Condition: condition, Body: body}
}

type Break struct {
	nodeImpl
	statementMarker
}

func NewBreak() *Break {
	return &Break{nodeImpl: newNodeImpl(NodeBreak)}
}

type Continue struct {
	nodeImpl
	statementMarker
}

func NewContinue() *Continue {
	return &Continue{nodeImpl: newNodeImpl(NodeContinue)}
}

type Func struct {
	nodeImpl
	statementMarker

	Name   string   `json:"name"`
	Params []string `json:"params"`
	Body   Block    `json:"body"`
}

func NewFunc(name string, params []string, body Block) *Func {
	return &Func{nodeImpl: newNodeImpl(NodeFunc), Name: name, Params: params, Body: body}
}

type Return struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value,omitempty"`
}

func NewReturn(value Expression) *Return {
	return &Return{nodeImpl: newNodeImpl(NodeReturn), Value: value}
}

// Import names a library either as a bare identifier or a quoted path.
type Import struct {
	nodeImpl
	statementMarker

	Path string `json:"path"`
}

func NewImport(path string) *Import {
	return &Import{nodeImpl: newNodeImpl(NodeImport), Path: path}
}

type Call struct {
	nodeImpl
	expressionMarker

	Callee string       `json:"callee"`
	Args   []Expression `json:"args"`
}

func NewCall(callee string, args []Expression) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall), Callee: callee, Args: args}
}

type Variable struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewVariable(name string) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker

	Value *big.Int `json:"value"`
}

func NewIntegerLiteral(value *big.Int) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeInteger), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeString), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBoolean), Value: value}
}

// BinOp carries the operator as its source spelling ("+", "==", "and").
type BinOp struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinOp(operator string, left, right Expression) *BinOp {
	return &BinOp{nodeImpl: newNodeImpl(NodeBinOp), Operator: operator, Left: left, Right: right}
}

type TableEntry struct {
	nodeImpl

	Key   string     `json:"key"`
	Value Expression `json:"value"`
}

func NewTableEntry(key string, value Expression) *TableEntry {
	return &TableEntry{nodeImpl: newNodeImpl(NodeTableEntry), Key: key, Value: value}
}

// Table keeps entries in source order; keys are unique.
type Table struct {
	nodeImpl
	expressionMarker

	Entries []*TableEntry `json:"entries"`
}

func NewTable(entries []*TableEntry) *Table {
	return &Table{nodeImpl: newNodeImpl(NodeTable), Entries: entries}
}
