// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package symtab implements the symbol table of a compiled kernel body.
//
// Scopes follow a stack discipline: Enter opens a scope, Exit releases it.
// The outermost scopes are read-only: the builtins, then the values the
// kernel captured from the host language. They always resolve to
// compile-time variables.
package symtab

import (
	"fmt"
	"slices"

	"github.com/agnivade/levenshtein"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/internal/base/scope"
)

// Kind of a variable.
type Kind int

const (
	// CompileTime variables hold a host value.
	CompileTime Kind = iota + 1
	// Runtime variables hold a typed IR value.
	Runtime
)

func (k Kind) String() string {
	switch k {
	case CompileTime:
		return "compile-time"
	case Runtime:
		return "runtime"
	}
	return "invalid"
}

// Variable is a binding in a scope.
type Variable struct {
	Name string
	Pos  ast.Pos
	Kind Kind

	// Value of a compile-time variable.
	Value host.Value

	// Type of a runtime variable. Fixed for the lifetime of the binding.
	Type ir.Type
	// Slot is the allocation of a runtime variable stored in memory.
	// ir.InvalidHandle if the variable is a value (a parameter or a loop index).
	Slot ir.Handle
	// Ref is the value of a runtime variable not stored in memory.
	Ref ir.Operand

	// Region identifies the runtime region (branch or loop body) in which the
	// variable has been defined.
	Region int
	// External is true if the variable is a builtin or has been captured from the host.
	External bool
}

// NewCompileTime returns a new compile-time variable.
func NewCompileTime(name string, pos ast.Pos, val host.Value, region int) *Variable {
	return &Variable{Name: name, Pos: pos, Kind: CompileTime, Value: val, Slot: ir.InvalidHandle, Region: region}
}

// NewRuntime returns a new runtime variable stored in a slot.
func NewRuntime(name string, pos ast.Pos, typ ir.Type, slot ir.Handle, region int) *Variable {
	return &Variable{Name: name, Pos: pos, Kind: Runtime, Type: typ, Slot: slot, Region: region}
}

// NewRuntimeValue returns a new runtime variable bound to an IR value.
func NewRuntimeValue(name string, pos ast.Pos, ref ir.Operand, region int) *Variable {
	return &Variable{Name: name, Pos: pos, Kind: Runtime, Type: ref.Type(), Slot: ir.InvalidHandle, Ref: ref, Region: region}
}

func (v *Variable) String() string {
	if v.Kind == CompileTime {
		return fmt.Sprintf("%s = %s", v.Name, host.Repr(v.Value))
	}
	return fmt.Sprintf("%s: %s", v.Name, v.Type.String())
}

// Table is the symbol table of a kernel body.
type Table struct {
	root    scope.Scope[*Variable]
	current *scope.RWScope[*Variable]
	depth   int
}

func external(vals map[string]host.Value) map[string]*Variable {
	vars := make(map[string]*Variable, len(vals))
	for name, val := range vals {
		v := NewCompileTime(name, ast.Pos{}, val, 0)
		v.External = true
		vars[name] = v
	}
	return vars
}

// New returns a symbol table with the function scope open.
// Externals shadow the builtins.
func New(externals map[string]host.Value) *Table {
	builtins := host.Builtins()
	root := scope.NewReadOnly[*Variable](nil, external(builtins), sortedKeys(builtins))
	root = scope.NewReadOnly(root, external(externals), sortedKeys(externals))
	return &Table{
		root:    root,
		current: scope.NewScope(root),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// Depth returns the number of scopes opened with Enter and not yet released.
func (t *Table) Depth() int {
	return t.depth
}

// Enter opens a new scope.
func (t *Table) Enter() {
	t.current = scope.NewScope[*Variable](t.current)
	t.depth++
}

// Exit releases the current scope and all its bindings.
func (t *Table) Exit() error {
	if t.depth == 0 {
		return fmterr.Internal(errors.Errorf("cannot exit the function scope"))
	}
	parent, ok := t.current.Parent().(*scope.RWScope[*Variable])
	if !ok {
		return fmterr.Internal(errors.Errorf("parent scope of type %T is read-only", t.current.Parent()))
	}
	t.current = parent
	t.depth--
	return nil
}

// Within calls f in a new scope. The scope is released whatever f returns.
func (t *Table) Within(f func() error) (err error) {
	t.Enter()
	defer func() {
		err = multierr.Append(err, t.Exit())
	}()
	return f()
}

// Define binds a variable in the current scope.
// If the name is already bound in the current scope, the existing variable is
// returned if it has the same kind and type. Otherwise, a RedefinitionError is
// returned. A name bound in a parent scope is shadowed.
func (t *Table) Define(v *Variable) (*Variable, error) {
	prev, ok := t.current.Local(v.Name)
	if !ok {
		t.current.Define(v.Name, v)
		return v, nil
	}
	if prev.Kind != v.Kind {
		return nil, fmterr.Position(fmterr.RedefinitionError, v.Pos, errors.Errorf("%s already defined as a %s variable at %s", v.Name, prev.Kind, prev.Pos))
	}
	if prev.Kind == Runtime && !prev.Type.Equal(v.Type) {
		return nil, fmterr.Position(fmterr.RedefinitionError, v.Pos, errors.Errorf("%s already defined with type %s at %s: cannot redefine it with type %s", v.Name, prev.Type.String(), prev.Pos, v.Type.String()))
	}
	if prev.Kind == CompileTime {
		prev.Value = v.Value
	}
	return prev, nil
}

// Lookup returns the nearest binding of a name.
func (t *Table) Lookup(name string) (*Variable, bool) {
	return t.current.Find(name)
}

// IsLocal returns true if the name is bound in the current scope.
func (t *Table) IsLocal(name string) bool {
	return t.current.IsLocal(name)
}

// Resolve returns the nearest binding of an identifier or a NameError.
func (t *Table) Resolve(ident *ast.Name) (*Variable, error) {
	if v, ok := t.Lookup(ident.ID); ok {
		return v, nil
	}
	msg := fmt.Sprintf("name %q is not defined", ident.ID)
	if hint := t.closest(ident.ID); hint != "" {
		msg += fmt.Sprintf(": did you mean %q?", hint)
	}
	return nil, fmterr.Errorf(fmterr.NameError, ident, "%s", msg)
}

// closest returns the visible name the most similar to name, or an empty string.
func (t *Table) closest(name string) string {
	visible := make(map[string]bool)
	for n := range t.current.Names() {
		visible[n] = true
	}
	best, bestDist := "", 3
	for _, candidate := range sortedKeys(visible) {
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDist && d < len(name) {
			best, bestDist = candidate, d
		}
	}
	return best
}
