package runtime

import (
	"fmt"
	"sort"
)

// binding is a mutable storage cell. Frames produced by Split share cells,
// so an assignment through either frame is seen by both.
type binding struct {
	value Value
	set   bool
}

// Environment provides lexical scoping for Lox runtime values.
//
// A name can be declared without a value; lookups stop at the first frame
// that declares the name, whether or not it has been set.
type Environment struct {
	bindings map[string]*binding
	parent   *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		bindings: make(map[string]*binding),
		parent:   parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Declare records name in the current frame without giving it a value.
// Any earlier binding of the same name in this frame is replaced.
func (e *Environment) Declare(name string) {
	e.bindings[name] = &binding{}
}

// Define inserts or shadows a binding in the current frame.
func (e *Environment) Define(name string, value Value) {
	e.bindings[name] = &binding{value: value, set: true}
}

func (e *Environment) lookup(name string) *binding {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.bindings[name]; ok {
			return b
		}
	}
	return nil
}

// Assign updates an existing binding in the first frame where it is declared.
func (e *Environment) Assign(name string, value Value) error {
	b := e.lookup(name)
	if b == nil {
		return fmt.Errorf("Undefined variable '%s'.", name)
	}
	b.value = value
	b.set = true
	return nil
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	b := e.lookup(name)
	if b == nil {
		return nil, fmt.Errorf("Undefined variable '%s'.", name)
	}
	if !b.set {
		return nil, fmt.Errorf("Variable '%s' declared but never set.", name)
	}
	return b.value, nil
}

// Has reports whether the name is declared anywhere in the scope chain.
func (e *Environment) Has(name string) bool {
	return e.lookup(name) != nil
}

// HasInCurrentScope reports whether the name is declared in this frame.
func (e *Environment) HasInCurrentScope(name string) bool {
	_, ok := e.bindings[name]
	return ok
}

// Split returns a sibling frame sharing this frame's parent and holding a
// copy of its bindings. Closures that captured e keep seeing e, so names
// declared in the copy afterwards are invisible to them, while assignments
// to names that existed before the split remain shared.
func (e *Environment) Split() *Environment {
	next := &Environment{
		bindings: make(map[string]*binding, len(e.bindings)+1),
		parent:   e.parent,
	}
	for k, b := range e.bindings {
		next.bindings[k] = b
	}
	return next
}

// Snapshot returns a copy of the current frame's set bindings.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.bindings))
	for k, b := range e.bindings {
		if b.set {
			out[k] = b.value
		}
	}
	return out
}

// Keys returns the declared names in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.bindings))
	for k := range e.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extend creates a new child scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
