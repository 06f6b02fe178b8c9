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

// processBreak compiles a break statement.
// In a static loop, break stops the unrolling. It must then not depend on a runtime condition.
func (fb *fnBuilder) processBreak(ctx stmtCtx, stmt *ast.Break) (flow, error) {
	loop := ctx.loop
	switch {
	case loop == nil:
		return flowNext, fmterr.Errorf(fmterr.ScopeError, stmt, "'break' outside loop")
	case loop.static && loop.region != ctx.region:
		return flowNext, fmterr.Errorf(fmterr.CompileError, stmt, "break in a static loop cannot depend on a runtime condition")
	case loop.static:
		return flowBreak, nil
	case loop.kind == ir.StructLoop:
		return flowNext, fmterr.Errorf(fmterr.CompileError, stmt, "break not permitted in struct-for loop")
	case loop.parallel:
		return flowNext, fmterr.Errorf(fmterr.CompileError, stmt, "break not permitted in parallel loop: serialize the loop with loop_config(serialize=True)")
	}
	fb.em.Emit(&ir.Break{Base: fb.em.Base(stmt.Pos)})
	return flowBreak, nil
}

// processContinue compiles a continue statement.
func (fb *fnBuilder) processContinue(ctx stmtCtx, stmt *ast.Continue) (flow, error) {
	loop := ctx.loop
	switch {
	case loop == nil:
		return flowNext, fmterr.Errorf(fmterr.ScopeError, stmt, "'continue' not properly in loop")
	case loop.static && loop.region != ctx.region:
		return flowNext, fmterr.Errorf(fmterr.CompileError, stmt, "continue in a static loop cannot depend on a runtime condition")
	case loop.static:
		return flowContinue, nil
	}
	fb.em.Emit(&ir.Continue{Base: fb.em.Base(stmt.Pos)})
	return flowContinue, nil
}
