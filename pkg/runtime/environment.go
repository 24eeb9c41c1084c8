package runtime

import (
	"fmt"
	"sort"
	"sync"
)

// UndefinedNameError is returned when a lookup reaches the root scope.
type UndefinedNameError struct {
	Name string
}

func (e *UndefinedNameError) Error() string {
	return fmt.Sprintf("undefined name '%s'", e.Name)
}

// Environment is one scope frame chained to an optional parent.
type Environment struct {
	values map[string]Value
	parent *Environment
	mu     sync.RWMutex
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the enclosing frame (nil when global).
func (e *Environment) Parent() *Environment {
	e.mu.RLock()
	parent := e.parent
	e.mu.RUnlock()
	return parent
}

// Define binds name in this frame, shadowing any outer binding.
func (e *Environment) Define(name string, value Value) {
	e.mu.Lock()
	e.values[name] = value
	e.mu.Unlock()
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	e.mu.RLock()
	if v, ok := e.values[name]; ok {
		e.mu.RUnlock()
		return v, nil
	}
	parent := e.parent
	e.mu.RUnlock()
	if parent != nil {
		return parent.Get(name)
	}
	return nil, &UndefinedNameError{Name: name}
}

// Has reports whether name is bound in this frame only.
func (e *Environment) Has(name string) bool {
	e.mu.RLock()
	_, ok := e.values[name]
	e.mu.RUnlock()
	return ok
}

// Keys returns the names bound in this frame, sorted.
func (e *Environment) Keys() []string {
	e.mu.RLock()
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	e.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of this frame's bindings.
func (e *Environment) Snapshot() map[string]Value {
	e.mu.RLock()
	out := make(map[string]Value, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	e.mu.RUnlock()
	return out
}

// Delete removes name from this frame.
func (e *Environment) Delete(name string) bool {
	e.mu.Lock()
	_, ok := e.values[name]
	delete(e.values, name)
	e.mu.Unlock()
	return ok
}
