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
	"github.com/gx-org/kernelc/build/ir"
)

// checkReturns checks that the body has at most one return statement,
// that it is the last statement of the body, and that it is consistent
// with the declared result type.
func (fb *fnBuilder) checkReturns() error {
	var returns []*ast.Return
	for _, stmt := range fb.fn.Body {
		ast.Walk(stmt, func(n ast.Node) bool {
			if ret, ok := n.(*ast.Return); ok {
				returns = append(returns, ret)
			}
			return true
		})
	}
	if len(returns) > 1 {
		return fmterr.Errorf(fmterr.CompileError, returns[1], "%s has more than one return statement: first one at %s", fb.fn.Name, returns[0].Pos)
	}
	if len(returns) == 0 {
		if fb.result != nil {
			return fmterr.Errorf(fmterr.CompileError, fb.fn, "%s declares a result of type %s but has no return statement", fb.fn.Name, fb.result.String())
		}
		return nil
	}
	last := fb.fn.Body[len(fb.fn.Body)-1]
	if last != ast.Stmt(returns[0]) {
		return fmterr.Errorf(fmterr.CompileError, returns[0], "return must be the last statement of %s", fb.fn.Name)
	}
	return nil
}

func (fb *fnBuilder) processReturn(ctx stmtCtx, stmt *ast.Return) error {
	if stmt.Value == nil {
		if fb.result != nil {
			return fmterr.Errorf(fmterr.TypeError, stmt, "missing return value of type %s", fb.result.String())
		}
		fb.em.Emit(&ir.Return{Base: fb.em.Base(stmt.Pos)})
		return nil
	}
	if fb.result == nil {
		return fmterr.Errorf(fmterr.TypeError, stmt, "%s returns a value but has no declared result type", fb.fn.Name)
	}
	v, err := fb.evalExpr(ctx, stmt.Value)
	if err != nil {
		return err
	}
	op, err := fb.assignable(stmt, "result", fb.result, v)
	if err != nil {
		return err
	}
	fb.em.Emit(&ir.Return{Base: fb.em.Base(stmt.Pos), Values: []ir.Operand{op}})
	return nil
}
