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

package interp

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/ir"
)

// flow is the control flow after a statement has been executed.
type flow int

const (
	next flow = iota
	brk
	cont
	ret
)

type context struct {
	itp  *Interpreter
	args []Value
	// vals stores the values of statements and the content of local variables.
	vals   map[ir.Handle]Value
	loops  map[ir.Handle][]int64
	result Value
}

// fail attaches the position of a statement to an error raised while executing it.
func fail(stmt ir.Stmt, err error) error {
	var withKind *fmterr.Error
	if !errors.As(err, &withKind) {
		return errors.Wrapf(err, "%s", stmt.Source().String())
	}
	if withKind.Pos.IsValid() {
		return err
	}
	return fmterr.Position(withKind.Kind, stmt.Source(), withKind.Err)
}

func (ctx *context) operand(op ir.Operand) (Value, error) {
	switch opT := op.(type) {
	case *ir.Imm:
		return opT.Val, nil
	case *ir.Ref:
		v, ok := ctx.vals[opT.H]
		if !ok {
			return nil, fmterr.Internal(errors.Errorf("value %s used before being computed", opT.H))
		}
		return v, nil
	}
	return nil, fmterr.Internal(errors.Errorf("operand %T not supported", op))
}

func (ctx *context) operands(ops []ir.Operand) ([]Value, error) {
	vals := make([]Value, len(ops))
	for i, op := range ops {
		var err error
		if vals[i], err = ctx.operand(op); err != nil {
			return nil, err
		}
	}
	return vals, nil
}

func (ctx *context) indices(ops []ir.Operand) ([]int64, error) {
	vals, err := ctx.operands(ops)
	if err != nil {
		return nil, err
	}
	idx := make([]int64, len(vals))
	for i, v := range vals {
		idx[i] = toInt64(v)
	}
	return idx, nil
}

func (ctx *context) field(name string) (*Field, error) {
	field := ctx.itp.fields[name]
	if field == nil {
		return nil, fmterr.Internal(errors.Errorf("field %s not declared by the program", name))
	}
	return field, nil
}

func (ctx *context) evalBlock(block *ir.Block) (flow, error) {
	if block == nil {
		return next, nil
	}
	for _, stmt := range block.Stmts {
		fl, err := ctx.evalStmt(stmt)
		if err != nil {
			return ret, err
		}
		if fl != next {
			return fl, nil
		}
	}
	return next, nil
}

func (ctx *context) evalStmt(stmt ir.Stmt) (fl flow, err error) {
	switch stmtT := stmt.(type) {
	case *ir.LocalStore:
		err = ctx.store(stmtT)
	case *ir.FieldStore:
		err = ctx.fieldStore(stmtT)
	case *ir.Break:
		fl = brk
	case *ir.Continue:
		fl = cont
	case *ir.Assert:
		err = ctx.assert(stmtT)
	case *ir.Print:
		err = ctx.print(stmtT)
	case *ir.Return:
		fl, err = ctx.ret(stmtT)
	case *ir.If:
		fl, err = ctx.evalIf(stmtT)
	case *ir.While:
		fl, err = ctx.evalWhile(stmtT)
	case *ir.RangeFor:
		fl, err = ctx.evalRangeFor(stmtT)
	case *ir.StructFor:
		fl, err = ctx.evalStructFor(stmtT)
	case ir.Value:
		var v Value
		if v, err = ctx.evalValue(stmtT); err == nil {
			ctx.vals[stmt.ID()] = v
		}
	default:
		err = fmterr.Internal(errors.Errorf("statement %T not supported", stmt))
	}
	if err == nil {
		return fl, nil
	}
	if _, nested := stmt.(ir.Nested); nested {
		return ret, err
	}
	return ret, fail(stmt, err)
}

func (ctx *context) evalValue(stmt ir.Value) (Value, error) {
	switch stmtT := stmt.(type) {
	case *ir.Arg:
		return ctx.args[stmtT.Index], nil
	case *ir.Alloca:
		return zero(stmtT.Typ), nil
	case *ir.LocalLoad:
		v, ok := ctx.vals[stmtT.Var]
		if !ok {
			return nil, fmterr.Internal(errors.Errorf("variable %s not allocated", stmtT.Var))
		}
		return v, nil
	case *ir.BinaryOp:
		return ctx.binaryOp(stmtT)
	case *ir.UnaryOp:
		x, err := ctx.operand(stmtT.X)
		if err != nil {
			return nil, err
		}
		kind := elemKind(stmtT.Typ)
		return lift(func(xs ...Value) (Value, error) {
			return unary(stmtT.Op, kind, xs[0])
		}, x)
	case *ir.Cast:
		x, err := ctx.operand(stmtT.X)
		if err != nil {
			return nil, err
		}
		kind := elemKind(stmtT.Typ)
		return lift(func(xs ...Value) (Value, error) {
			return castScalar(kind, xs[0]), nil
		}, x)
	case *ir.Select:
		vals, err := ctx.operands([]ir.Operand{stmtT.Cond, stmtT.X, stmtT.Y})
		if err != nil {
			return nil, err
		}
		return lift(func(xs ...Value) (Value, error) {
			if truth(xs[0]) {
				return xs[1], nil
			}
			return xs[2], nil
		}, vals...)
	case *ir.VectorMake:
		elems, err := ctx.operands(stmtT.Elems)
		if err != nil {
			return nil, err
		}
		return Vector(elems), nil
	case *ir.VectorExtract:
		x, err := ctx.operand(stmtT.X)
		if err != nil {
			return nil, err
		}
		vec, ok := x.(Vector)
		if !ok || stmtT.Index < 0 || stmtT.Index >= len(vec) {
			return nil, fmterr.Internal(errors.Errorf("cannot extract element %d from %s", stmtT.Index, Format(x)))
		}
		return vec[stmtT.Index], nil
	case *ir.FieldLoad:
		field, err := ctx.field(stmtT.Field)
		if err != nil {
			return nil, err
		}
		idx, err := ctx.indices(stmtT.Indices)
		if err != nil {
			return nil, err
		}
		return field.At(idx...)
	case *ir.AtomicOp:
		return ctx.atomic(stmtT)
	case *ir.Intrinsic:
		args, err := ctx.operands(stmtT.Args)
		if err != nil {
			return nil, err
		}
		kind := elemKind(stmtT.Typ)
		return lift(func(xs ...Value) (Value, error) {
			return intrinsic(stmtT.Name, kind, xs)
		}, args...)
	case *ir.LoopIndex:
		idx, ok := ctx.loops[stmtT.Loop]
		if !ok || stmtT.Axis >= len(idx) {
			return nil, fmterr.Internal(errors.Errorf("loop %s axis %d not running", stmtT.Loop, stmtT.Axis))
		}
		return castScalar(stmtT.Typ.Kind(), idx[stmtT.Axis]), nil
	}
	return nil, fmterr.Internal(errors.Errorf("value %T not supported", stmt))
}

func (ctx *context) binaryOp(stmt *ir.BinaryOp) (Value, error) {
	x, err := ctx.operand(stmt.X)
	if err != nil {
		return nil, err
	}
	y, err := ctx.operand(stmt.Y)
	if err != nil {
		return nil, err
	}
	kind := elemKind(stmt.X.Type())
	return lift(func(xs ...Value) (Value, error) {
		return binary(stmt.Op, kind, xs[0], xs[1])
	}, x, y)
}

func (ctx *context) store(stmt *ir.LocalStore) error {
	if _, ok := ctx.vals[stmt.Var]; !ok {
		return fmterr.Internal(errors.Errorf("variable %s not allocated", stmt.Var))
	}
	v, err := ctx.operand(stmt.Val)
	if err != nil {
		return err
	}
	ctx.vals[stmt.Var] = v
	return nil
}

func (ctx *context) fieldStore(stmt *ir.FieldStore) error {
	field, err := ctx.field(stmt.Field)
	if err != nil {
		return err
	}
	idx, err := ctx.indices(stmt.Indices)
	if err != nil {
		return err
	}
	v, err := ctx.operand(stmt.Val)
	if err != nil {
		return err
	}
	return field.store(v, idx)
}

// atomic updates an element of a field and returns its previous value.
func (ctx *context) atomic(stmt *ir.AtomicOp) (Value, error) {
	field, err := ctx.field(stmt.Field)
	if err != nil {
		return nil, err
	}
	idx, err := ctx.indices(stmt.Indices)
	if err != nil {
		return nil, err
	}
	val, err := ctx.operand(stmt.Val)
	if err != nil {
		return nil, err
	}
	old, err := field.At(idx...)
	if err != nil {
		return nil, err
	}
	updated, err := binary(stmt.Op, stmt.Typ.Kind(), old, val)
	if err != nil {
		return nil, err
	}
	return old, field.store(updated, idx)
}

func (ctx *context) assert(stmt *ir.Assert) error {
	cond, err := ctx.operand(stmt.Cond)
	if err != nil {
		return err
	}
	if truth(cond) {
		return nil
	}
	msg := stmt.Msg
	if len(stmt.Args) > 0 {
		args, err := ctx.operands(stmt.Args)
		if err != nil {
			return err
		}
		strs := make([]string, len(args))
		for i, arg := range args {
			strs[i] = Format(arg)
		}
		msg = strings.Join(strs, " ")
	}
	return fmterr.Position(fmterr.RuntimeAssertionError, stmt.Source(), errors.New(msg))
}

func (ctx *context) print(stmt *ir.Print) error {
	strs := make([]string, len(stmt.Contents))
	for i, op := range stmt.Contents {
		if text, ok := op.(*ir.Text); ok {
			strs[i] = text.S
			continue
		}
		v, err := ctx.operand(op)
		if err != nil {
			return err
		}
		strs[i] = Format(v)
	}
	_, err := io.WriteString(ctx.itp.out, strings.Join(strs, " ")+"\n")
	return errors.WithStack(err)
}

func (ctx *context) ret(stmt *ir.Return) (flow, error) {
	switch len(stmt.Values) {
	case 0:
		ctx.result = nil
	case 1:
		v, err := ctx.operand(stmt.Values[0])
		if err != nil {
			return ret, err
		}
		ctx.result = v
	default:
		vals, err := ctx.operands(stmt.Values)
		if err != nil {
			return ret, err
		}
		ctx.result = Vector(vals)
	}
	return ret, nil
}

func (ctx *context) evalIf(stmt *ir.If) (flow, error) {
	cond, err := ctx.operand(stmt.Cond)
	if err != nil {
		return ret, err
	}
	if truth(cond) {
		return ctx.evalBlock(stmt.Then)
	}
	return ctx.evalBlock(stmt.Else)
}

// loopBody executes one iteration of a loop. It returns true if the loop has to stop.
func (ctx *context) loopBody(body *ir.Block) (flow, bool, error) {
	fl, err := ctx.evalBlock(body)
	switch {
	case err != nil:
		return ret, true, err
	case fl == brk:
		return next, true, nil
	case fl == ret:
		return ret, true, nil
	}
	return next, false, nil
}

func (ctx *context) evalWhile(stmt *ir.While) (flow, error) {
	for {
		fl, stop, err := ctx.loopBody(stmt.Body)
		if stop {
			return fl, err
		}
	}
}

func (ctx *context) evalRangeFor(stmt *ir.RangeFor) (flow, error) {
	bounds, err := ctx.operands([]ir.Operand{stmt.Begin, stmt.End})
	if err != nil {
		return ret, err
	}
	begin, end := toInt64(bounds[0]), toInt64(bounds[1])
	defer delete(ctx.loops, stmt.ID())
	for i := begin; i < end; i++ {
		ctx.loops[stmt.ID()] = []int64{i}
		fl, stop, err := ctx.loopBody(stmt.Body)
		if stop {
			return fl, err
		}
	}
	return next, nil
}

func (ctx *context) evalStructFor(stmt *ir.StructFor) (flow, error) {
	field, err := ctx.field(stmt.Field)
	if err != nil {
		return ret, err
	}
	if n := len(field.info.Shape.AxisLengths); n != stmt.NDim {
		return ret, fmterr.Internal(errors.Errorf("struct-for over %d axes of field %s with %d axes", stmt.NDim, stmt.Field, n))
	}
	defer delete(ctx.loops, stmt.ID())
	for _, idx := range field.Active() {
		ctx.loops[stmt.ID()] = idx
		fl, stop, err := ctx.loopBody(stmt.Body)
		if stop {
			return fl, err
		}
	}
	return next, nil
}
