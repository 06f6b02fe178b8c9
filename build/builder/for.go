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

// processFor dispatches a for loop on the kind of its iterable:
// static(...) is unrolled, range, ndrange and fields are lowered to runtime loops.
func (fb *fnBuilder) processFor(ctx stmtCtx, stmt *ast.For, dir *loopDirective) (flow, error) {
	if call, b, ok := fb.calleeBuiltin(stmt.Iter); ok {
		switch b.Name {
		case host.Static:
			if dir != nil {
				return flowNext, fmterr.Errorf(fmterr.CompileError, dir.src, "%s() cannot be applied to a static loop", host.LoopConfig)
			}
			return fb.processStaticFor(ctx, stmt, call)
		case host.RangeFn:
			return flowNext, fb.processRangeFor(ctx, stmt, call, dir)
		}
	}
	iter, err := fb.evalExpr(ctx, stmt.Iter)
	if err != nil {
		return flowNext, err
	}
	if iter.isRuntime() {
		return flowNext, fmterr.Errorf(fmterr.CompileError, stmt.Iter, "cannot iterate over a runtime value of type %s", iter.rt.Type().String())
	}
	switch iterT := iter.ct.(type) {
	case host.Range:
		if err := checkStep(stmt, iterT); err != nil {
			return flowNext, err
		}
		return flowNext, fb.lowerRange(ctx, stmt, ctValue(iterT.Start), ctValue(iterT.Stop), dir)
	case host.NDRange:
		return flowNext, fb.processNDRangeFor(ctx, stmt, iterT, false, dir)
	case *host.Field:
		return flowNext, fb.processStructFor(ctx, stmt, iterT, false, dir)
	case host.Grouped:
		switch x := iterT.X.(type) {
		case host.NDRange:
			return flowNext, fb.processNDRangeFor(ctx, stmt, x, true, dir)
		case *host.Field:
			return flowNext, fb.processStructFor(ctx, stmt, x, true, dir)
		case host.Range:
			if err := checkStep(stmt, x); err != nil {
				return flowNext, err
			}
			return flowNext, fb.processNDRangeFor(ctx, stmt, host.NDRange{Axes: []host.Range{x}}, true, dir)
		}
	}
	return flowNext, fmterr.Errorf(fmterr.CompileError, stmt.Iter, "cannot iterate over %s at runtime: wrap the iterable with %s() to unroll the loop", host.TypeName(iter.ct), host.Static)
}

func checkStep(stmt *ast.For, r host.Range) error {
	if r.Step == 1 {
		return nil
	}
	return fmterr.Errorf(fmterr.CompileError, stmt.Iter, "range step not permitted in a runtime loop: wrap the range with %s() to unroll the loop", host.Static)
}

// processRangeFor compiles a loop over range(stop) or range(start, stop).
// The bounds can be runtime values.
func (fb *fnBuilder) processRangeFor(ctx stmtCtx, stmt *ast.For, call *ast.Call, dir *loopDirective) error {
	if err := noKeywords(call, host.RangeFn); err != nil {
		return err
	}
	var begin, end *value
	var err error
	switch len(call.Args) {
	case 1:
		begin = ctValue(int64(0))
		end, err = fb.evalExpr(ctx, call.Args[0])
	case 2:
		if begin, err = fb.evalExpr(ctx, call.Args[0]); err != nil {
			return err
		}
		end, err = fb.evalExpr(ctx, call.Args[1])
	case 3:
		return fmterr.Errorf(fmterr.CompileError, call.Args[2], "range step not permitted in a runtime loop: wrap the range with %s() to unroll the loop", host.Static)
	default:
		return fmterr.Errorf(fmterr.TypeError, call, "range expected 1 or 2 arguments, got %d", len(call.Args))
	}
	if err != nil {
		return err
	}
	return fb.lowerRange(ctx, stmt, begin, end, dir)
}

// indexKind returns the kind of the index of a range loop given its bounds.
func (fb *fnBuilder) indexKind(stmt *ast.For, bounds ...*value) (irkind.Kind, error) {
	kind := fb.check.DefaultInt().Kind()
	for _, b := range bounds {
		if !b.isRuntime() {
			if _, ok := host.AsInt(b.ct); !ok {
				return irkind.Invalid, fmterr.Errorf(fmterr.TypeError, stmt.Iter, "range bounds must be integers, not %s", host.TypeName(b.ct))
			}
			continue
		}
		typ := b.rt.Type()
		if _, isScalar := typ.(*ir.ScalarType); !isScalar || !irkind.IsInteger(typ.Kind()) {
			return irkind.Invalid, fmterr.Errorf(fmterr.TypeError, stmt.Iter, "range bounds must be integers, not %s", typ.String())
		}
		kind = fb.check.ArithmeticKind(kind, typ.Kind())
	}
	return kind, nil
}

func (fb *fnBuilder) bound(stmt *ast.For, v *value, kind irkind.Kind) (ir.Operand, error) {
	if !v.isRuntime() {
		return fb.literal(stmt.Iter, v.ct, ir.TypeFromKind(kind))
	}
	return fb.convert(stmt.Iter, v.rt, kind)
}

// lowerRange emits a range loop. The loop is parallel if it is at the top
// level of the body and has not been serialized by a directive.
func (fb *fnBuilder) lowerRange(ctx stmtCtx, stmt *ast.For, begin, end *value, dir *loopDirective) error {
	kind, err := fb.indexKind(stmt, begin, end)
	if err != nil {
		return err
	}
	bop, err := fb.bound(stmt, begin, kind)
	if err != nil {
		return err
	}
	eop, err := fb.bound(stmt, end, kind)
	if err != nil {
		return err
	}
	parallel := ctx.outermost && !dir.serialized()
	base := fb.em.Base(stmt.Pos)
	loop := &loopCtx{kind: ir.RangeLoop, parallel: parallel, src: stmt}
	body, err := fb.runtimeBlock(ctx.inLoop(loop), func(ctx stmtCtx) error {
		loop.region = ctx.region
		idx := fb.emitValue(&ir.LoopIndex{
			Base: fb.em.Base(stmt.Target.Position()),
			Loop: base.H,
			Typ:  ir.TypeFromKind(kind),
		})
		if err := fb.defineTarget(ctx, stmt.Target, rtValue(idx)); err != nil {
			return err
		}
		_, err := fb.processBlock(ctx, stmt.Body)
		return err
	})
	if err != nil {
		return err
	}
	fb.em.Emit(&ir.RangeFor{
		Base:     base,
		Begin:    bop,
		End:      eop,
		Body:     body,
		Parallel: parallel,
		BlockDim: dir.dim(),
	})
	fb.recordLoop(stmt, base.H, ir.RangeLoop, parallel)
	return nil
}
