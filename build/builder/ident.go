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

package builder

import (
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/symtab"
)

func (fb *fnBuilder) evalName(ident *ast.Name) (*value, error) {
	v, err := fb.syms.Resolve(ident)
	if err != nil {
		return nil, err
	}
	return fb.load(ident, v), nil
}

// load returns the value of a variable.
// Runtime variables stored in memory are loaded at every use.
func (fb *fnBuilder) load(node ast.Node, v *symtab.Variable) *value {
	switch {
	case v.Kind == symtab.CompileTime:
		fb.claim(v.Value, v.Region)
		return ctValue(v.Value)
	case v.Slot == ir.InvalidHandle:
		return rtValue(v.Ref)
	}
	return rtValue(fb.emitValue(&ir.LocalLoad{
		Base: fb.em.Base(node.Position()),
		Var:  v.Slot,
		Typ:  v.Type,
	}))
}

// callee resolves the function of a call to a compile-time value without emitting IR.
// Returns false if the expression is not a name or a selector on compile-time values.
func (fb *fnBuilder) callee(expr ast.Expr) (host.Value, bool) {
	switch exprT := expr.(type) {
	case *ast.Name:
		v, ok := fb.syms.Lookup(exprT.ID)
		if !ok || v.Kind != symtab.CompileTime {
			return nil, false
		}
		return v.Value, true
	case *ast.Attribute:
		x, ok := fb.callee(exprT.X)
		if !ok {
			return nil, false
		}
		attr, err := host.Attr(x, exprT.Name)
		return attr, err == nil
	}
	return nil, false
}

// calleeBuiltin returns the builtin called by a call expression, if any.
func (fb *fnBuilder) calleeBuiltin(expr ast.Expr) (*ast.Call, host.Builtin, bool) {
	call, ok := expr.(*ast.Call)
	if !ok {
		return nil, host.Builtin{}, false
	}
	fn, ok := fb.callee(call.Func)
	if !ok {
		return nil, host.Builtin{}, false
	}
	b, ok := fn.(host.Builtin)
	return call, b, ok
}
