package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PlazmaDevelopment/FFling/pkg/interpreter"
	"github.com/PlazmaDevelopment/FFling/pkg/lexer"
	"github.com/PlazmaDevelopment/FFling/pkg/parser"
)

// DiagnosticKind classifies a pipeline failure.
type DiagnosticKind string

const (
	DiagnosticSyntax  DiagnosticKind = "syntax"
	DiagnosticRuntime DiagnosticKind = "runtime"
	DiagnosticHost    DiagnosticKind = "host"
)

// DiagnosticLocation references a source line for diagnostics.
type DiagnosticLocation struct {
	Path string
	Line int
}

// Diagnostic is a pipeline error prepared for display.
type Diagnostic struct {
	Kind     DiagnosticKind
	Message  string
	Location DiagnosticLocation
}

// Diagnose classifies err. Path is attached to the location when known.
func Diagnose(err error, path string) Diagnostic {
	var (
		lexErr   *lexer.LexError
		parseErr *parser.ParseError
		rtErr    *interpreter.RuntimeError
	)
	switch {
	case errors.As(err, &lexErr):
		return Diagnostic{
			Kind:     DiagnosticSyntax,
			Message:  lexErr.Message,
			Location: DiagnosticLocation{Path: path, Line: lexErr.Line},
		}
	case errors.As(err, &parseErr):
		found := parseErr.Found.Kind.String()
		if parseErr.Found.Literal != "" {
			found = fmt.Sprintf("%s %q", found, parseErr.Found.Literal)
		}
		return Diagnostic{
			Kind:     DiagnosticSyntax,
			Message:  fmt.Sprintf("expected %s, got %s", parseErr.Expected, found),
			Location: DiagnosticLocation{Path: path, Line: parseErr.Found.Line},
		}
	case errors.As(err, &rtErr):
		return Diagnostic{
			Kind:     DiagnosticRuntime,
			Message:  rtErr.Message,
			Location: DiagnosticLocation{Path: path, Line: rtErr.Line},
		}
	default:
		return Diagnostic{Kind: DiagnosticHost, Message: err.Error()}
	}
}

// DescribeDiagnostic formats a diagnostic for CLI output.
func DescribeDiagnostic(diag Diagnostic) string {
	var prefix string
	switch diag.Kind {
	case DiagnosticSyntax:
		prefix = "Syntax Error: "
	case DiagnosticRuntime:
		prefix = "Runtime Error: "
	default:
		prefix = "Error: "
	}
	message := strings.TrimSpace(diag.Message)
	if location := formatDiagnosticLocation(diag.Location); location != "" {
		return fmt.Sprintf("%s%s: %s", prefix, location, message)
	}
	return prefix + message
}

// DescribeError is Diagnose followed by DescribeDiagnostic.
func DescribeError(err error, path string) string {
	return DescribeDiagnostic(Diagnose(err, path))
}

func formatDiagnosticLocation(loc DiagnosticLocation) string {
	path := strings.TrimSpace(loc.Path)
	switch {
	case path != "" && loc.Line > 0:
		return fmt.Sprintf("%s:%d", path, loc.Line)
	case path != "":
		return path
	case loc.Line > 0:
		return fmt.Sprintf("line %d", loc.Line)
	default:
		return ""
	}
}
