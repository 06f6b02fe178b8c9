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

// runtimeBlock compiles statements in a new block executed at runtime,
// in a new scope and a new runtime region.
func (fb *fnBuilder) runtimeBlock(ctx stmtCtx, f func(stmtCtx) error) (*ir.Block, error) {
	fb.em.Push()
	inner := ctx.nested(fb.newRegion())
	err := fb.syms.Within(func() error {
		return f(inner)
	})
	block := fb.em.Pop()
	return block, err
}

// processIf compiles an if statement. If the condition is a compile-time
// value, only the branch taken is compiled.
func (fb *fnBuilder) processIf(ctx stmtCtx, stmt *ast.If) (flow, error) {
	cond, err := fb.evalExpr(ctx, stmt.Cond)
	if err != nil {
		return flowNext, err
	}
	if !cond.isRuntime() {
		taken, branch := stmt.Body, "then"
		if !host.Truth(cond.ct) {
			taken, branch = stmt.Else, "else"
		}
		fb.log.Debug("static branch", "pos", stmt.Pos.String(), "branch", branch)
		fl := flowNext
		err := fb.syms.Within(func() error {
			var err error
			fl, err = fb.processBlock(ctx, taken)
			return err
		})
		return fl, err
	}
	c, err := fb.truth(stmt.Cond, cond)
	if err != nil {
		return flowNext, err
	}
	base := fb.em.Base(stmt.Pos)
	then, err := fb.runtimeBlock(ctx, func(ctx stmtCtx) error {
		_, err := fb.processBlock(ctx, stmt.Body)
		return err
	})
	if err != nil {
		return flowNext, err
	}
	var els *ir.Block
	if len(stmt.Else) > 0 {
		if els, err = fb.runtimeBlock(ctx, func(ctx stmtCtx) error {
			_, err := fb.processBlock(ctx, stmt.Else)
			return err
		}); err != nil {
			return flowNext, err
		}
	}
	fb.em.Emit(&ir.If{Base: base, Cond: c, Then: then, Else: els})
	return flowNext, nil
}
