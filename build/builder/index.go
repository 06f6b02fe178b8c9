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

// fieldAccess is an element of a field selected by runtime indices.
type fieldAccess struct {
	field   *host.Field
	indices []ir.Operand
}

func (acc *fieldAccess) elem() *ir.ScalarType {
	return ir.TypeFromKind(acc.field.Kind())
}

func (fb *fnBuilder) evalSubscript(ctx stmtCtx, expr *ast.Subscript) (*value, error) {
	base, err := fb.evalExpr(ctx, expr.X)
	if err != nil {
		return nil, err
	}
	if base.isRuntime() {
		return fb.vectorIndex(ctx, expr, base)
	}
	if field, ok := base.ct.(*host.Field); ok {
		acc, err := fb.fieldIndices(ctx, expr, field)
		if err != nil {
			return nil, err
		}
		return fb.fieldLoad(expr, acc), nil
	}
	idx, err := fb.subscriptIndex(ctx, expr)
	if err != nil {
		return nil, err
	}
	if idx.isRuntime() {
		return fb.dynamicContainerIndex(expr, base, idx)
	}
	v, err := host.Index(base.ct, idx.ct)
	if err != nil {
		return nil, fmterr.At(expr, err)
	}
	return ctValue(v), nil
}

// subscriptIndex evaluates the index of a subscript. Several indices form a tuple.
func (fb *fnBuilder) subscriptIndex(ctx stmtCtx, expr *ast.Subscript) (*value, error) {
	if len(expr.Index) == 1 {
		return fb.evalExpr(ctx, expr.Index[0])
	}
	vals, err := fb.evalExprs(ctx, expr.Index)
	if err != nil {
		return nil, err
	}
	return ctValue(host.Tuple(hostValues(vals))), nil
}

// fieldElement returns the element of a field selected by a subscript,
// or nil if the subscript is not applied to a field.
func (fb *fnBuilder) fieldElement(ctx stmtCtx, expr *ast.Subscript) (*fieldAccess, error) {
	base, err := fb.evalExpr(ctx, expr.X)
	if err != nil {
		return nil, err
	}
	if base.isRuntime() {
		return nil, nil
	}
	field, ok := base.ct.(*host.Field)
	if !ok {
		return nil, nil
	}
	return fb.fieldIndices(ctx, expr, field)
}

// indexValues evaluates the indices of a subscript. A single tuple or vector
// index is expanded into its elements.
func (fb *fnBuilder) indexValues(ctx stmtCtx, expr *ast.Subscript) ([]*value, error) {
	if len(expr.Index) != 1 {
		return fb.evalExprs(ctx, expr.Index)
	}
	idx, err := fb.evalExpr(ctx, expr.Index[0])
	if err != nil {
		return nil, err
	}
	if tpl, ok := idx.ct.(host.Tuple); ok && !idx.isRuntime() {
		vals := make([]*value, len(tpl))
		for i, el := range tpl {
			vals[i] = ctValue(el)
		}
		return vals, nil
	}
	if idx.isRuntime() {
		if vt, ok := idx.rt.Type().(*ir.VectorType); ok {
			return fb.vectorElements(expr, idx.rt, vt), nil
		}
	}
	return []*value{idx}, nil
}

func (fb *fnBuilder) vectorElements(node ast.Node, x ir.Operand, vt *ir.VectorType) []*value {
	vals := make([]*value, vt.Len())
	for i := range vals {
		vals[i] = fb.extract(node, x, vt, i)
	}
	return vals
}

func (fb *fnBuilder) extract(node ast.Node, x ir.Operand, vt *ir.VectorType, i int) *value {
	return rtValue(fb.emitValue(&ir.VectorExtract{
		Base:  fb.em.Base(node.Position()),
		X:     x,
		Index: i,
		Typ:   vt.Elem(),
	}))
}

// fieldIndices converts the indices of a field subscript to 32-bit integers.
func (fb *fnBuilder) fieldIndices(ctx stmtCtx, expr *ast.Subscript, field *host.Field) (*fieldAccess, error) {
	idxs, err := fb.indexValues(ctx, expr)
	if err != nil {
		return nil, err
	}
	if len(idxs) != field.NDim() {
		return nil, fmterr.Errorf(fmterr.IndexError, expr, "field %s has %d dimension(s) but %d index(es) were given", field.Name, field.NDim(), len(idxs))
	}
	acc := &fieldAccess{field: field, indices: make([]ir.Operand, len(idxs))}
	for axis, idx := range idxs {
		if acc.indices[axis], err = fb.fieldIndex(expr, field, axis, idx); err != nil {
			return nil, err
		}
	}
	if err := fb.useField(expr, field); err != nil {
		return nil, err
	}
	return acc, nil
}

func (fb *fnBuilder) fieldIndex(expr *ast.Subscript, field *host.Field, axis int, idx *value) (ir.Operand, error) {
	if !idx.isRuntime() {
		i, ok := host.AsInt(idx.ct)
		if !ok {
			return nil, fmterr.Errorf(fmterr.TypeError, expr, "field indices must be integers, not %s", host.TypeName(idx.ct))
		}
		if n := int64(field.Shape.AxisLengths[axis]); !field.Sparse && (i < 0 || i >= n) {
			return nil, fmterr.Errorf(fmterr.IndexError, expr, "index %d out of range for axis %d of field %s with length %d", i, axis, field.Name, n)
		}
		return fb.literal(expr, i, ir.Int32Type())
	}
	typ := idx.rt.Type()
	if _, isScalar := typ.(*ir.ScalarType); !isScalar || !irkind.IsInteger(typ.Kind()) {
		return nil, fmterr.Errorf(fmterr.TypeError, expr, "field indices must be integers, not %s", typ.String())
	}
	return fb.convert(expr, idx.rt, irkind.Int32)
}

// useField records a field accessed by the program.
func (fb *fnBuilder) useField(node ast.Node, field *host.Field) error {
	prev, ok := fb.fields[field.Name]
	if ok && prev != field {
		return fmterr.Errorf(fmterr.CompileError, node, "two different fields named %s are accessed", field.Name)
	}
	fb.fields[field.Name] = field
	fb.em.UseField(field.Info())
	return nil
}

func (fb *fnBuilder) fieldLoad(node ast.Node, acc *fieldAccess) *value {
	return rtValue(fb.emitValue(&ir.FieldLoad{
		Base:    fb.em.Base(node.Position()),
		Field:   acc.field.Name,
		Indices: acc.indices,
		Typ:     acc.elem(),
	}))
}

// atomic emits an atomic operation on a field element and returns the previous value.
func (fb *fnBuilder) atomic(node ast.Node, op ast.Op, acc *fieldAccess, val *value) (*value, error) {
	elem := acc.elem()
	v, err := fb.assignable(node, acc.field.Name, elem, val)
	if err != nil {
		return nil, err
	}
	return rtValue(fb.emitValue(&ir.AtomicOp{
		Base:    fb.em.Base(node.Position()),
		Op:      op,
		Field:   acc.field.Name,
		Indices: acc.indices,
		Val:     v,
		Typ:     elem,
	})), nil
}

// vectorIndex reads an element of a runtime vector.
func (fb *fnBuilder) vectorIndex(ctx stmtCtx, expr *ast.Subscript, base *value) (*value, error) {
	vt, ok := base.rt.Type().(*ir.VectorType)
	if !ok {
		return nil, fmterr.Errorf(fmterr.TypeError, expr, "value of type %s is not subscriptable", base.rt.Type().String())
	}
	if len(expr.Index) != 1 {
		return nil, fmterr.Errorf(fmterr.IndexError, expr, "vector of type %s expects 1 index, got %d", vt.String(), len(expr.Index))
	}
	idx, err := fb.evalExpr(ctx, expr.Index[0])
	if err != nil {
		return nil, err
	}
	if !idx.isRuntime() {
		i, ok := host.AsInt(idx.ct)
		if !ok {
			return nil, fmterr.Errorf(fmterr.TypeError, expr, "vector indices must be integers, not %s", host.TypeName(idx.ct))
		}
		n := int64(vt.Len())
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return nil, fmterr.Errorf(fmterr.IndexError, expr, "index %s out of range for %s", host.Repr(idx.ct), vt.String())
		}
		return fb.extract(expr, base.rt, vt, int(i)), nil
	}
	if !fb.opts.DynamicIndex {
		return nil, fmterr.Errorf(fmterr.IndexError, expr, "dynamic index not permitted on %s", vt.String())
	}
	return fb.selectElement(expr, idx, fb.vectorElements(expr, base.rt, vt))
}

// dynamicContainerIndex reads an element of a compile-time sequence with a runtime index.
func (fb *fnBuilder) dynamicContainerIndex(expr *ast.Subscript, base, idx *value) (*value, error) {
	var elems []host.Value
	switch baseT := base.ct.(type) {
	case host.Tuple:
		elems = baseT
	case *host.List:
		elems = baseT.Elems
	}
	if elems == nil || !fb.opts.DynamicIndex {
		return nil, fmterr.Errorf(fmterr.IndexError, expr, "dynamic index not permitted on %s", host.TypeName(base.ct))
	}
	vals := make([]*value, len(elems))
	for i, el := range elems {
		vals[i] = ctValue(el)
	}
	return fb.selectElement(expr, idx, vals)
}

// selectElement lowers a runtime index into a list of values to a chain of selections.
func (fb *fnBuilder) selectElement(node ast.Node, idx *value, elems []*value) (*value, error) {
	if len(elems) == 0 {
		return nil, fmterr.Errorf(fmterr.IndexError, node, "index into an empty sequence")
	}
	if k := idx.rt.Type(); !irkind.IsInteger(k.Kind()) {
		return nil, fmterr.Errorf(fmterr.TypeError, node, "indices must be integers, not %s", k.String())
	}
	res := elems[len(elems)-1]
	for i := len(elems) - 2; i >= 0; i-- {
		cond, err := fb.binary(node, ast.Eq, idx, ctValue(int64(i)))
		if err != nil {
			return nil, err
		}
		if res, err = fb.selectOf(node, cond.rt, elems[i], res); err != nil {
			return nil, err
		}
	}
	return res, nil
}
