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
)

// processStaticFor unrolls a loop over a compile-time iterable.
// The body is compiled once per element, in the scope and the runtime
// region of the loop: no loop is emitted.
func (fb *fnBuilder) processStaticFor(ctx stmtCtx, stmt *ast.For, call *ast.Call) (flow, error) {
	iter, err := fb.evalStatic(ctx, call)
	if err != nil {
		return flowNext, err
	}
	if fb.staticDepth >= fb.opts.MaxStaticDepth {
		return flowNext, fmterr.Errorf(fmterr.CompileError, stmt, "static loops nested more than %d levels deep", fb.opts.MaxStaticDepth)
	}
	if n, ok := host.Size(iter.ct); ok && n > int64(fb.opts.MaxUnroll-fb.unrolled) {
		return flowNext, fb.errUnrollLimit(stmt)
	}
	elems, err := host.Iterate(iter.ct)
	if err != nil {
		return flowNext, fmterr.At(stmt.Iter, err)
	}
	fb.staticDepth++
	defer func() { fb.staticDepth-- }()
	fb.log.Debug("unroll", "pos", stmt.Pos.String(), "iterations", len(elems))
	loop := &loopCtx{static: true, region: ctx.region, src: stmt}
	inner := ctx.inLoop(loop)
	for _, el := range elems {
		fb.unrolled++
		if fb.unrolled > fb.opts.MaxUnroll {
			return flowNext, fb.errUnrollLimit(stmt)
		}
		fl := flowNext
		if err := fb.syms.Within(func() error {
			if err := fb.defineTarget(inner, stmt.Target, ctValue(el)); err != nil {
				return err
			}
			var err error
			fl, err = fb.processBlock(inner, stmt.Body)
			return err
		}); err != nil {
			return flowNext, err
		}
		if fl == flowBreak {
			break
		}
	}
	return flowNext, nil
}

func (fb *fnBuilder) errUnrollLimit(stmt *ast.For) error {
	return fmterr.Errorf(fmterr.CompileError, stmt, "static loops unrolled more than %d times", fb.opts.MaxUnroll)
}
