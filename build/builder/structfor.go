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
	"github.com/gx-org/kernelc/build/ir/irkind"
)

// processStructFor compiles a loop over the active coordinates of a field.
// The loop must be at the top level of the body. It is parallel unless
// serialized by a directive, and can never be exited early.
func (fb *fnBuilder) processStructFor(ctx stmtCtx, stmt *ast.For, field *host.Field, grouped bool, dir *loopDirective) error {
	if !ctx.outermost {
		return fmterr.Errorf(fmterr.ScopeError, stmt, "struct-for not outermost: loops over field %s must be at the top level of the kernel", field.Name)
	}
	if err := checkTargets(stmt, field.NDim(), grouped); err != nil {
		return err
	}
	if err := fb.useField(stmt.Iter, field); err != nil {
		return err
	}
	parallel := !dir.serialized()
	base := fb.em.Base(stmt.Pos)
	loop := &loopCtx{kind: ir.StructLoop, parallel: parallel, src: stmt}
	body, err := fb.runtimeBlock(ctx.inLoop(loop), func(ctx stmtCtx) error {
		loop.region = ctx.region
		idxs := make([]*value, field.NDim())
		for axis := range idxs {
			idxs[axis] = rtValue(fb.emitValue(&ir.LoopIndex{
				Base: fb.em.Base(stmt.Target.Position()),
				Loop: base.H,
				Axis: axis,
				Typ:  ir.Int32Type(),
			}))
		}
		if err := fb.bindIndices(ctx, stmt, idxs, irkind.Int32, grouped); err != nil {
			return err
		}
		_, err := fb.processBlock(ctx, stmt.Body)
		return err
	})
	if err != nil {
		return err
	}
	fb.em.Emit(&ir.StructFor{
		Base:     base,
		Field:    field.Name,
		NDim:     field.NDim(),
		Body:     body,
		Parallel: parallel,
		BlockDim: dir.dim(),
	})
	fb.recordLoop(stmt, base.H, ir.StructLoop, parallel)
	return nil
}
