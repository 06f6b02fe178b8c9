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

// processNDRangeFor lowers a loop over an n-dimensional range to a single
// range loop over the number of points. The index along each axis is
// recovered from the flat index:
//
//	idx[k] = (flat / stride[k]) % len[k] + start[k]
func (fb *fnBuilder) processNDRangeFor(ctx stmtCtx, stmt *ast.For, r host.NDRange, grouped bool, dir *loopDirective) error {
	if len(r.Axes) == 0 {
		return fmterr.Errorf(fmterr.CompileError, stmt.Iter, "%s() requires at least one axis", host.NDRangeFn)
	}
	if err := checkTargets(stmt, len(r.Axes), grouped); err != nil {
		return err
	}
	kind := fb.check.DefaultInt().Kind()
	strides := make([]int64, len(r.Axes))
	stride := int64(1)
	for k := len(r.Axes) - 1; k >= 0; k-- {
		strides[k] = stride
		stride *= r.Axes[k].Len()
	}
	begin, err := fb.literal(stmt.Iter, int64(0), ir.TypeFromKind(kind))
	if err != nil {
		return err
	}
	end, err := fb.literal(stmt.Iter, r.Len(), ir.TypeFromKind(kind))
	if err != nil {
		return err
	}
	parallel := ctx.outermost && !dir.serialized()
	base := fb.em.Base(stmt.Pos)
	loop := &loopCtx{kind: ir.NDRangeLoop, parallel: parallel, src: stmt}
	body, err := fb.runtimeBlock(ctx.inLoop(loop), func(ctx stmtCtx) error {
		loop.region = ctx.region
		flat := rtValue(fb.emitValue(&ir.LoopIndex{
			Base: fb.em.Base(stmt.Target.Position()),
			Loop: base.H,
			Typ:  ir.TypeFromKind(kind),
		}))
		idxs := make([]*value, len(r.Axes))
		for k, axis := range r.Axes {
			var err error
			if idxs[k], err = fb.axisIndex(stmt, flat, axis, strides[k], k > 0); err != nil {
				return err
			}
		}
		if err := fb.bindIndices(ctx, stmt, idxs, kind, grouped); err != nil {
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
		Begin:    begin,
		End:      end,
		Body:     body,
		Parallel: parallel,
		BlockDim: dir.dim(),
	})
	fb.recordLoop(stmt, base.H, ir.NDRangeLoop, parallel)
	return nil
}

func (fb *fnBuilder) axisIndex(stmt *ast.For, flat *value, axis host.Range, stride int64, wrap bool) (*value, error) {
	idx := flat
	var err error
	if stride != 1 {
		if idx, err = fb.binary(stmt.Iter, ast.FloorDiv, idx, ctValue(stride)); err != nil {
			return nil, err
		}
	}
	if wrap {
		if idx, err = fb.binary(stmt.Iter, ast.Mod, idx, ctValue(axis.Len())); err != nil {
			return nil, err
		}
	}
	if axis.Start != 0 {
		if idx, err = fb.binary(stmt.Iter, ast.Add, idx, ctValue(axis.Start)); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// checkTargets checks that a loop binds one variable per axis,
// or a single variable for a grouped loop.
func checkTargets(stmt *ast.For, n int, grouped bool) error {
	got := 1
	switch target := stmt.Target.(type) {
	case *ast.Tuple:
		got = len(target.Elems)
	case *ast.List:
		got = len(target.Elems)
	}
	if grouped {
		if _, ok := stmt.Target.(*ast.Name); !ok {
			return fmterr.Errorf(fmterr.CompileError, stmt.Target, "a grouped loop binds a single variable")
		}
		return nil
	}
	if got != n {
		return fmterr.Errorf(fmterr.CompileError, stmt.Target, "loop over %d axes requires %d loop variables, got %d", n, n, got)
	}
	return nil
}

// bindIndices binds the loop variables to the indices of the axes,
// or to a vector of the indices for a grouped loop.
func (fb *fnBuilder) bindIndices(ctx stmtCtx, stmt *ast.For, idxs []*value, kind irkind.Kind, grouped bool) error {
	if grouped {
		elems := make([]ir.Operand, len(idxs))
		for i, idx := range idxs {
			elems[i] = idx.rt
		}
		vec := fb.emitValue(&ir.VectorMake{
			Base:  fb.em.Base(stmt.Target.Position()),
			Elems: elems,
			Typ:   ir.NewVectorType(kind, len(idxs)),
		})
		return fb.defineTarget(ctx, stmt.Target, rtValue(vec))
	}
	if len(idxs) == 1 {
		if _, ok := stmt.Target.(*ast.Name); ok {
			return fb.defineTarget(ctx, stmt.Target, idxs[0])
		}
	}
	return fb.defineTarget(ctx, stmt.Target, ctValue(host.Tuple(hostValues(idxs))))
}
