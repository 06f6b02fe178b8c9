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
)

// processBlock compiles a list of statements. It stops at the first statement
// ending the block at compile time (a break or continue of a static loop).
func (fb *fnBuilder) processBlock(ctx stmtCtx, stmts []ast.Stmt) (flow, error) {
	for i := 0; i < len(stmts); i++ {
		dir, err := fb.directive(ctx, stmts[i])
		if err != nil {
			return flowNext, err
		}
		var fl flow
		if dir != nil {
			i++
			if i == len(stmts) {
				return flowNext, fmterr.Errorf(fmterr.CompileError, dir.src, "loop_config() must be followed by a for loop")
			}
			forStmt, ok := stmts[i].(*ast.For)
			if !ok {
				return flowNext, fmterr.Errorf(fmterr.CompileError, stmts[i], "loop_config() must be followed by a for loop")
			}
			fl, err = fb.processFor(ctx, forStmt, dir)
		} else {
			fl, err = fb.processStmt(ctx, stmts[i])
		}
		if err != nil {
			return flowNext, err
		}
		if fl != flowNext {
			return fl, nil
		}
	}
	return flowNext, nil
}

func (fb *fnBuilder) processStmt(ctx stmtCtx, stmt ast.Stmt) (flow, error) {
	var err error
	switch stmtT := stmt.(type) {
	case *ast.Assign:
		err = fb.processAssign(ctx, stmtT)
	case *ast.AugAssign:
		err = fb.processAugAssign(ctx, stmtT)
	case *ast.AnnAssign:
		err = fb.processAnnAssign(ctx, stmtT)
	case *ast.ExprStmt:
		_, err = fb.evalExpr(ctx, stmtT.X)
	case *ast.If:
		return fb.processIf(ctx, stmtT)
	case *ast.While:
		err = fb.processWhile(ctx, stmtT)
	case *ast.For:
		return fb.processFor(ctx, stmtT, nil)
	case *ast.Break:
		return fb.processBreak(ctx, stmtT)
	case *ast.Continue:
		return fb.processContinue(ctx, stmtT)
	case *ast.Pass:
	case *ast.Return:
		err = fb.processReturn(ctx, stmtT)
	case *ast.Assert:
		err = fb.processAssert(ctx, stmtT)
	default:
		err = fmterr.Errorf(fmterr.CompileError, stmt, "statement %T not supported", stmt)
	}
	return flowNext, err
}
