package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PlazmaDevelopment/FFling/pkg/ast"
	"github.com/PlazmaDevelopment/FFling/pkg/interpreter"
	"github.com/PlazmaDevelopment/FFling/pkg/lexer"
	"github.com/PlazmaDevelopment/FFling/pkg/parser"
)

// Compile tokenizes and parses src.
func Compile(src string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens)
}

// ReadSource loads a script from disk.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// LoadFile reads and compiles the script at path.
func LoadFile(path string) (*ast.Program, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return Compile(src)
}

// SaveFile writes code to path, creating parent directories.
func SaveFile(path string, code string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Run compiles src and executes it in the interpreter's global frame.
func Run(interp *interpreter.Interpreter, src string) error {
	program, err := Compile(src)
	if err != nil {
		return err
	}
	return interp.Execute(program, interp.GlobalEnvironment())
}

// RunFile loads path and executes it in the interpreter's global frame.
func RunFile(interp *interpreter.Interpreter, path string) error {
	program, err := LoadFile(path)
	if err != nil {
		return err
	}
	return interp.Execute(program, interp.GlobalEnvironment())
}
