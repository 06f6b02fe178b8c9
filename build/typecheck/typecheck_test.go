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

package typecheck_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/ir/irkind"
	"github.com/gx-org/kernelc/build/typecheck"
)

func newChecker(t *testing.T) *typecheck.Checker {
	t.Helper()
	c, err := typecheck.New(irkind.Int32, irkind.Float32)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestBinary(t *testing.T) {
	c := newChecker(t)
	tests := []struct {
		x, y ir.Type
		op   ast.Op
		want typecheck.Promotion
	}{
		{
			x: ir.Int32Type(), op: ast.Add, y: ir.Int32Type(),
			want: typecheck.Promotion{Operand: irkind.Int32, Result: ir.Int32Type()},
		},
		{
			x: ir.Int32Type(), op: ast.Mult, y: ir.Float64Type(),
			want: typecheck.Promotion{Operand: irkind.Float64, Result: ir.Float64Type()},
		},
		{
			x: ir.Int64Type(), op: ast.Sub, y: ir.Float32Type(),
			want: typecheck.Promotion{Operand: irkind.Float32, Result: ir.Float32Type()},
		},
		{
			x: ir.Uint32Type(), op: ast.Add, y: ir.Int32Type(),
			want: typecheck.Promotion{Operand: irkind.Int32, Result: ir.Int32Type()},
		},
		{
			x: ir.Uint64Type(), op: ast.Add, y: ir.Int32Type(),
			want: typecheck.Promotion{Operand: irkind.Uint64, Result: ir.Uint64Type()},
		},
		{
			x: ir.Int32Type(), op: ast.Div, y: ir.Int32Type(),
			want: typecheck.Promotion{Operand: irkind.Float32, Result: ir.Float32Type()},
		},
		{
			x: ir.Float32Type(), op: ast.Lt, y: ir.Int32Type(),
			want: typecheck.Promotion{Operand: irkind.Float32, Result: ir.BoolType()},
		},
		{
			x: ir.BoolType(), op: ast.BitAnd, y: ir.BoolType(),
			want: typecheck.Promotion{Operand: irkind.Bool, Result: ir.BoolType()},
		},
		{
			x: ir.NewVectorType(irkind.Int32, 2), op: ast.Add, y: ir.Int64Type(),
			want: typecheck.Promotion{Operand: irkind.Int64, Result: ir.NewVectorType(irkind.Int64, 2)},
		},
	}
	for _, test := range tests {
		got, err := c.Binary(test.op, test.x, test.y)
		if err != nil {
			t.Errorf("%s %s %s: %v", test.x, test.op, test.y, err)
			continue
		}
		if got.Operand != test.want.Operand || !got.Result.Equal(test.want.Result) {
			t.Errorf("%s %s %s = {%s, %s}, want {%s, %s}", test.x, test.op, test.y, got.Operand, got.Result, test.want.Operand, test.want.Result)
		}
	}
}

func TestBinaryErrors(t *testing.T) {
	c := newChecker(t)
	tests := []struct {
		x, y ir.Type
		op   ast.Op
	}{
		{x: ir.Float32Type(), op: ast.BitAnd, y: ir.Int32Type()},
		{x: ir.Float32Type(), op: ast.LShift, y: ir.Float32Type()},
		{x: ir.NewVectorType(irkind.Int32, 2), op: ast.Add, y: ir.NewVectorType(irkind.Int32, 3)},
		{x: ir.Int32Type(), op: ast.MatMult, y: ir.Int32Type()},
	}
	for _, test := range tests {
		if _, err := c.Binary(test.op, test.x, test.y); !errors.Is(err, fmterr.TypeError) {
			t.Errorf("%s %s %s: got error %v, want TypeError", test.x, test.op, test.y, err)
		}
	}
}

func TestLiteralWith(t *testing.T) {
	c := newChecker(t)
	tests := []struct {
		lit   host.Value
		other ir.Type
		want  *ir.ScalarType
	}{
		{lit: int64(1), other: ir.Float64Type(), want: ir.Float64Type()},
		{lit: int64(1), other: ir.Uint32Type(), want: ir.Uint32Type()},
		{lit: 0.5, other: ir.Int64Type(), want: ir.Float32Type()},
		{lit: 0.5, other: ir.Float64Type(), want: ir.Float64Type()},
		{lit: true, other: ir.Int64Type(), want: ir.Int64Type()},
		{lit: int64(2), other: ir.BoolType(), want: ir.Int32Type()},
		{lit: int64(2), other: ir.NewVectorType(irkind.Int64, 3), want: ir.Int64Type()},
	}
	for _, test := range tests {
		got, err := c.LiteralWith(test.lit, test.other)
		if err != nil {
			t.Errorf("LiteralWith(%s, %s): %v", host.Repr(test.lit), test.other, err)
			continue
		}
		if got != test.want {
			t.Errorf("LiteralWith(%s, %s) = %s, want %s", host.Repr(test.lit), test.other, got, test.want)
		}
	}
}

func TestAssign(t *testing.T) {
	c := newChecker(t)
	valueTests := []struct {
		dst, src ir.Type
		cast     bool
		ok       bool
	}{
		{dst: ir.Int32Type(), src: ir.Int32Type(), ok: true},
		{dst: ir.Int64Type(), src: ir.Int32Type(), cast: true, ok: true},
		{dst: ir.Float64Type(), src: ir.Float32Type(), cast: true, ok: true},
		{dst: ir.Uint64Type(), src: ir.Uint32Type(), cast: true, ok: true},
		{dst: ir.Int32Type(), src: ir.Int64Type()},
		{dst: ir.Int32Type(), src: ir.Float32Type()},
		{dst: ir.Float64Type(), src: ir.Int32Type()},
		{dst: ir.Int64Type(), src: ir.Uint32Type()},
	}
	for _, test := range valueTests {
		cast, err := c.AssignValue("x", test.dst, test.src)
		if test.ok != (err == nil) || cast != test.cast {
			t.Errorf("AssignValue(%s <- %s) = %v, %v, want cast=%v ok=%v", test.dst, test.src, cast, err, test.cast, test.ok)
		}
		if err != nil && !errors.Is(err, fmterr.TypeError) {
			t.Errorf("AssignValue(%s <- %s): got error %v, want TypeError", test.dst, test.src, err)
		}
	}

	literalTests := []struct {
		dst  ir.Type
		lit  host.Value
		want *ir.Imm
	}{
		{dst: ir.Int32Type(), lit: int64(3), want: &ir.Imm{Val: int64(3), Typ: ir.Int32Type()}},
		{dst: ir.Float32Type(), lit: int64(3), want: &ir.Imm{Val: 3.0, Typ: ir.Float32Type()}},
		{dst: ir.Float64Type(), lit: 0.5, want: &ir.Imm{Val: 0.5, Typ: ir.Float64Type()}},
		{dst: ir.Int32Type(), lit: 1.5},
		{dst: ir.BoolType(), lit: int64(1)},
		{dst: ir.Uint32Type(), lit: int64(-1)},
	}
	for _, test := range literalTests {
		got, err := c.AssignLiteral("x", test.dst, test.lit)
		if test.want == nil {
			if !errors.Is(err, fmterr.TypeError) {
				t.Errorf("AssignLiteral(%s <- %s): got error %v, want TypeError", test.dst, host.Repr(test.lit), err)
			}
			continue
		}
		if err != nil {
			t.Errorf("AssignLiteral(%s <- %s): %v", test.dst, host.Repr(test.lit), err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("AssignLiteral(%s <- %s): unexpected immediate (-want +got):\n%s", test.dst, host.Repr(test.lit), diff)
		}
	}
}

func TestFromAnnotation(t *testing.T) {
	c := newChecker(t)
	tests := []struct {
		ann  host.Value
		want *ir.ScalarType
	}{
		{ann: host.TypeValue{Kind: irkind.Float64}, want: ir.Float64Type()},
		{ann: host.Builtin{Name: "int"}, want: ir.Int32Type()},
		{ann: host.Builtin{Name: "float"}, want: ir.Float32Type()},
		{ann: host.Builtin{Name: "bool"}, want: ir.BoolType()},
	}
	for _, test := range tests {
		got, err := c.FromAnnotation(test.ann)
		if err != nil || got != test.want {
			t.Errorf("FromAnnotation(%s) = %v, %v, want %s", host.Repr(test.ann), got, err, test.want)
		}
	}
	if _, err := c.FromAnnotation("i32"); !errors.Is(err, fmterr.TypeError) {
		t.Errorf("FromAnnotation('i32'): got error %v, want TypeError", err)
	}
}
