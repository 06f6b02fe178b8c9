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
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/symtab"
)

// assignedNames returns the names assigned anywhere in a body.
func assignedNames(body []ast.Stmt) map[string]bool {
	names := make(map[string]bool)
	visit := func(n ast.Node) bool {
		switch nT := n.(type) {
		case *ast.Assign:
			for _, target := range nT.Targets {
				targetNames(target, names)
			}
		case *ast.AugAssign:
			targetNames(nT.Target, names)
		case *ast.AnnAssign:
			names[nT.Target.ID] = true
		case *ast.NamedExpr:
			names[nT.Target.ID] = true
		}
		return true
	}
	for _, stmt := range body {
		ast.Walk(stmt, visit)
	}
	return names
}

func targetNames(target ast.Expr, names map[string]bool) {
	switch targetT := target.(type) {
	case *ast.Name:
		names[targetT.ID] = true
	case *ast.Tuple:
		for _, elem := range targetT.Elems {
			targetNames(elem, names)
		}
	case *ast.List:
		for _, elem := range targetT.Elems {
			targetNames(elem, names)
		}
	}
}

// processParams defines the parameters of the body.
// Parameters assigned in the body are copied into local variables.
func (fb *fnBuilder) processParams() ([]ir.Param, error) {
	assigned := assignedNames(fb.fn.Body)
	ctx := stmtCtx{outermost: true}
	params := make([]ir.Param, len(fb.fn.Params))
	for i, param := range fb.fn.Params {
		if param.Annotation == nil {
			return nil, fmterr.Errorf(fmterr.TypeError, param, "parameter %s has no type annotation", param.Name)
		}
		ann, err := fb.evalCompileTime(ctx, param.Annotation, "type annotation")
		if err != nil {
			return nil, err
		}
		typ, err := fb.check.FromAnnotation(ann)
		if err != nil {
			return nil, fmterr.At(param.Annotation, err)
		}
		if fb.syms.IsLocal(param.Name) {
			return nil, fmterr.Errorf(fmterr.RedefinitionError, param, "duplicate parameter %s", param.Name)
		}
		arg := &ir.Arg{Base: fb.em.Base(param.Pos), Index: i, Name: param.Name, Typ: typ}
		ref := fb.emitValue(arg)
		params[i] = ir.Param{Name: param.Name, Typ: typ, Arg: arg.H}
		if !assigned[param.Name] {
			if _, err := fb.syms.Define(symtab.NewRuntimeValue(param.Name, param.Pos, ref, ctx.region)); err != nil {
				return nil, err
			}
			continue
		}
		slot := fb.alloca(param, param.Name, typ)
		fb.em.Emit(&ir.LocalStore{Base: fb.em.Base(param.Pos), Var: slot, Val: ref})
		if _, err := fb.syms.Define(symtab.NewRuntime(param.Name, param.Pos, typ, slot, ctx.region)); err != nil {
			return nil, err
		}
	}
	return params, nil
}

// processResult returns the declared result type, or nil if the body returns nothing.
func (fb *fnBuilder) processResult() (ir.Type, error) {
	if fb.fn.Returns == nil {
		return nil, nil
	}
	ann, err := fb.evalCompileTime(stmtCtx{outermost: true}, fb.fn.Returns, "return type annotation")
	if err != nil {
		return nil, err
	}
	if _, isNone := ann.(host.NoneType); isNone {
		return nil, nil
	}
	typ, err := fb.check.FromAnnotation(ann)
	if err != nil {
		return nil, fmterr.At(fb.fn.Returns, err)
	}
	return typ, nil
}
