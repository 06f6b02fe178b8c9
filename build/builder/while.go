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
)

// processWhile compiles a while loop. The condition is evaluated at the
// beginning of the body and exits the loop when false.
func (fb *fnBuilder) processWhile(ctx stmtCtx, stmt *ast.While) error {
	base := fb.em.Base(stmt.Pos)
	loop := &loopCtx{kind: ir.WhileLoop, src: stmt}
	body, err := fb.runtimeBlock(ctx.inLoop(loop), func(ctx stmtCtx) error {
		loop.region = ctx.region
		if err := fb.exitUnless(ctx, stmt.Cond); err != nil {
			return err
		}
		_, err := fb.processBlock(ctx, stmt.Body)
		return err
	})
	if err != nil {
		return err
	}
	fb.em.Emit(&ir.While{Base: base, Body: body})
	fb.recordLoop(stmt, base.H, ir.WhileLoop, false)
	return nil
}

// exitUnless emits a break executed when a condition is false.
func (fb *fnBuilder) exitUnless(ctx stmtCtx, expr ast.Expr) error {
	cond, err := fb.evalExpr(ctx, expr)
	if err != nil {
		return err
	}
	if !cond.isRuntime() {
		if !host.Truth(cond.ct) {
			fb.em.Emit(&ir.Break{Base: fb.em.Base(expr.Position())})
		}
		return nil
	}
	c, err := fb.truth(expr, cond)
	if err != nil {
		return err
	}
	not := fb.emitValue(&ir.UnaryOp{
		Base: fb.em.Base(expr.Position()),
		Op:   ast.Not,
		X:    c,
		Typ:  ir.BoolType(),
	})
	ifBase := fb.em.Base(expr.Position())
	fb.em.Push()
	fb.em.Emit(&ir.Break{Base: fb.em.Base(expr.Position())})
	fb.em.Emit(&ir.If{Base: ifBase, Cond: not, Then: fb.em.Pop()})
	return nil
}

func (fb *fnBuilder) recordLoop(node ast.Node, h ir.Handle, kind ir.LoopKind, parallel bool) {
	fb.em.RecordLoop(ir.LoopInfo{Loop: h, Kind: kind, Parallel: parallel, Src: node.Position()})
	fb.log.Debug("loop", "pos", node.Position().String(), "kind", kind.String(), "parallel", parallel)
}
