package lexer

import "fmt"

// Kind identifies a token category.
type Kind int

const (
	EOF Kind = iota
	Indent
	Dedent
	Number
	String
	Identifier

	// keywords
	Local
	Printline
	Printlinef
	Import
	For
	In
	Range
	If
	Elif
	Else
	While
	Break
	Continue
	Func
	Return
	True
	False
	Table
	And
	Or
	Not
	Pass
	Const
	Try
	Catch
	Class
	New
	This
	Null
	Nil
	Assert

	// operators and punctuation
	Assign
	Equal
	Greater
	Less
	Plus
	Minus
	Star
	Slash
	Percent
	LParen
	RParen
	Colon
	Comma
	LBrace
	RBrace
	LBracket
	RBracket
	Dot
)

var kindNames = map[Kind]string{
	EOF:        "EOF",
	Indent:     "INDENT",
	Dedent:     "DEDENT",
	Number:     "NUMBER",
	String:     "STRING",
	Identifier: "IDENTIFIER",
	Local:      "LOCAL",
	Printline:  "PRINTLINE",
	Printlinef: "PRINTLINEF",
	Import:     "IMPORT",
	For:        "FOR",
	In:         "IN",
	Range:      "RANGE",
	If:         "IF",
	Elif:       "ELIF",
	Else:       "ELSE",
	While:      "WHILE",
	Break:      "BREAK",
	Continue:   "CONTINUE",
	Func:       "FUNC",
	Return:     "RETURN",
	True:       "TRUE",
	False:      "FALSE",
	Table:      "TABLE",
	And:        "AND",
	Or:         "OR",
	Not:        "NOT",
	Pass:       "PASS",
	Const:      "CONST",
	Try:        "TRY",
	Catch:      "CATCH",
	Class:      "CLASS",
	New:        "NEW",
	This:       "THIS",
	Null:       "NULL",
	Nil:        "NIL",
	Assert:     "ASSERT",
	Assign:     "ASSIGN",
	Equal:      "EQ",
	Greater:    "GT",
	Less:       "LT",
	Plus:       "PLUS",
	Minus:      "MINUS",
	Star:       "MUL",
	Slash:      "DIV",
	Percent:    "MOD",
	LParen:     "LPAREN",
	RParen:     "RPAREN",
	Colon:      "COLON",
	Comma:      "COMMA",
	LBrace:     "LBRACKET",
	RBrace:     "RBRACKET",
	LBracket:   "LSQUARE",
	RBracket:   "RSQUARE",
	Dot:        "DOT",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// IsKeyword reports whether the kind belongs to the reserved word table.
func (k Kind) IsKeyword() bool {
	return k >= Local && k <= Assert
}

var keywords = map[string]Kind{
	"local":      Local,
	"printline":  Printline,
	"printlinef": Printlinef,
	"import":     Import,
	"for":        For,
	"in":         In,
	"range":      Range,
	"if":         If,
	"elif":       Elif,
	"else":       Else,
	"while":      While,
	"break":      Break,
	"continue":   Continue,
	"func":       Func,
	"return":     Return,
	"True":       True,
	"False":      False,
	"table":      Table,
	"and":        And,
	"or":         Or,
	"not":        Not,
	"pass":       Pass,
	"const":      Const,
	"try":        Try,
	"catch":      Catch,
	"class":      Class,
	"new":        New,
	"this":       This,
	"null":       Null,
	"nil":        Nil,
	"assert":     Assert,
}

// LookupKeyword returns the keyword kind for word, or Identifier.
func LookupKeyword(word string) Kind {
	if kind, ok := keywords[word]; ok {
		return kind
	}
	return Identifier
}

// Keywords lists the reserved words.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for word := range keywords {
		out = append(out, word)
	}
	return out
}

var operators = map[string]Kind{
	"==": Equal,
	"=":  Assign,
	">":  Greater,
	"<":  Less,
	"+":  Plus,
	"-":  Minus,
	"*":  Star,
	"/":  Slash,
	"%":  Percent,
	"(":  LParen,
	")":  RParen,
	":":  Colon,
	",":  Comma,
	"{":  LBrace,
	"}":  RBrace,
	"[":  LBracket,
	"]":  RBracket,
	".":  Dot,
}

// Token is one lexical unit. Literal holds the source text (string
// contents without quotes, digit runs for numbers).
type Token struct {
	Kind    Kind
	Literal string
	Line    int
}

func (t Token) String() string {
	switch t.Kind {
	case EOF, Indent, Dedent:
		return fmt.Sprintf("%s at line %d", t.Kind, t.Line)
	default:
		return fmt.Sprintf("%s %q at line %d", t.Kind, t.Literal, t.Line)
	}
}
