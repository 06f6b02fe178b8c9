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
	"github.com/gx-org/kernelc/build/typecheck"
)

// value is the result of evaluating an expression:
// either a compile-time host value or a runtime IR operand.
type value struct {
	ct host.Value
	rt ir.Operand
}

func ctValue(v host.Value) *value {
	if r, ok := v.(host.Runtime); ok {
		return &value{rt: r.Op}
	}
	return &value{ct: v}
}

func rtValue(op ir.Operand) *value {
	return &value{rt: op}
}

func (v *value) isRuntime() bool {
	return v.rt != nil
}

// host returns the value as stored in a compile-time container.
func (v *value) host() host.Value {
	if v.isRuntime() {
		return host.Runtime{Op: v.rt}
	}
	return v.ct
}

func (v *value) String() string {
	if v.isRuntime() {
		return v.rt.String() + ": " + v.rt.Type().String()
	}
	return host.Repr(v.ct)
}

// emitValue emits a statement producing a value and returns a reference to it.
func (fb *fnBuilder) emitValue(stmt ir.Value) *ir.Ref {
	fb.em.Emit(stmt)
	return ir.RefTo(stmt)
}

// literal materializes a compile-time number with a given scalar type.
func (fb *fnBuilder) literal(node ast.Node, v host.Value, typ *ir.ScalarType) (*ir.Imm, error) {
	imm, err := host.Imm(v, typ)
	if err != nil {
		return nil, fmterr.At(node, err)
	}
	return imm, nil
}

// operand returns the operand of a value. Compile-time numbers are
// materialized with their default type.
func (fb *fnBuilder) operand(node ast.Node, v *value) (ir.Operand, error) {
	if v.isRuntime() {
		return v.rt, nil
	}
	typ, err := fb.check.Literal(v.ct)
	if err != nil {
		return nil, fmterr.At(node, err)
	}
	return fb.literal(node, v.ct, typ)
}

func elemKind(t ir.Type) irkind.Kind {
	if vt, ok := t.(*ir.VectorType); ok {
		return vt.Elem().Kind()
	}
	return t.Kind()
}

func withKind(t ir.Type, kind irkind.Kind) ir.Type {
	if vt, ok := t.(*ir.VectorType); ok {
		return ir.NewVectorType(kind, vt.Len())
	}
	return ir.TypeFromKind(kind)
}

// convert converts an operand to a kind, preserving its shape.
// Immediates are converted at compile time.
func (fb *fnBuilder) convert(node ast.Node, op ir.Operand, kind irkind.Kind) (ir.Operand, error) {
	if elemKind(op.Type()) == kind {
		return op, nil
	}
	if imm, ok := op.(*ir.Imm); ok {
		var src host.Value = imm.Val
		if u, ok := src.(uint64); ok {
			src = int64(u)
		}
		val, err := host.Convert(kind, src)
		if err != nil {
			return nil, fmterr.At(node, err)
		}
		return fb.literal(node, val, ir.TypeFromKind(kind))
	}
	return fb.emitValue(&ir.Cast{
		Base: fb.em.Base(node.Position()),
		X:    op,
		Typ:  withKind(op.Type(), kind),
	}), nil
}

// truth returns a boolean operand with the truth value of a runtime scalar.
func (fb *fnBuilder) truth(node ast.Node, v *value) (ir.Operand, error) {
	if !v.isRuntime() {
		return fb.literal(node, host.Truth(v.ct), ir.BoolType())
	}
	typ := v.rt.Type()
	if _, isVec := typ.(*ir.VectorType); isVec {
		return nil, fmterr.Errorf(fmterr.TypeError, node, "the truth value of a %s is ambiguous", typ.String())
	}
	if typ.Kind() == irkind.Bool {
		return v.rt, nil
	}
	if !irkind.IsNumeric(typ.Kind()) {
		return nil, fmterr.Errorf(fmterr.TypeError, node, "value of type %s has no truth value", typ.String())
	}
	zero, err := fb.literal(node, int64(0), ir.TypeFromKind(typ.Kind()))
	if err != nil {
		return nil, err
	}
	return fb.emitValue(&ir.BinaryOp{
		Base: fb.em.Base(node.Position()),
		Op:   ast.NotEq,
		X:    v.rt,
		Y:    zero,
		Typ:  ir.BoolType(),
	}), nil
}

// assignable converts a value to the fixed type of a variable, or fails with a TypeError.
func (fb *fnBuilder) assignable(node ast.Node, name string, dst ir.Type, v *value) (ir.Operand, error) {
	if !v.isRuntime() {
		imm, err := fb.check.AssignLiteral(name, dst, v.ct)
		if err != nil {
			return nil, fmterr.At(node, err)
		}
		return imm, nil
	}
	cast, err := fb.check.AssignValue(name, dst, v.rt.Type())
	if err != nil {
		return nil, fmterr.At(node, err)
	}
	if !cast {
		return v.rt, nil
	}
	return fb.convert(node, v.rt, elemKind(dst))
}

// scalarOperands converts compile-time operands to immediates of the type of
// the runtime operand they are used with.
func (fb *fnBuilder) scalarOperands(node ast.Node, x, y *value) (ir.Operand, ir.Operand, error) {
	var err error
	xop, yop := x.rt, y.rt
	if !x.isRuntime() {
		if xop, err = fb.adopt(node, x.ct, y.rt.Type()); err != nil {
			return nil, nil, err
		}
	}
	if !y.isRuntime() {
		if yop, err = fb.adopt(node, y.ct, x.rt.Type()); err != nil {
			return nil, nil, err
		}
	}
	return xop, yop, nil
}

func (fb *fnBuilder) adopt(node ast.Node, v host.Value, other ir.Type) (ir.Operand, error) {
	typ, err := fb.check.LiteralWith(v, other)
	if err != nil {
		return nil, fmterr.At(node, err)
	}
	return fb.literal(node, v, typ)
}

// promote converts two runtime operands to the operand kind of a promotion.
func (fb *fnBuilder) promote(node ast.Node, prom typecheck.Promotion, x, y ir.Operand) (ir.Operand, ir.Operand, error) {
	x, err := fb.convert(node, x, prom.Operand)
	if err != nil {
		return nil, nil, err
	}
	y, err = fb.convert(node, y, prom.Operand)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func errRuntimeInStatic(node ast.Node, what string) error {
	return fmterr.Errorf(fmterr.StaticEvaluationError, node, "%s depends on a runtime value and cannot be evaluated at compile time", what)
}
