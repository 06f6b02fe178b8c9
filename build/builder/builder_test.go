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

package builder_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/kernelc/api/options"
	"github.com/gx-org/kernelc/build/ast"
	ab "github.com/gx-org/kernelc/build/ast/astbuilder"
	"github.com/gx-org/kernelc/build/builder"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

func intParam(name string) *ast.Param {
	return ab.Param(name, ab.Name("int"))
}

func compile(t *testing.T, fn *ast.FuncDef, externals map[string]host.Value, opts options.Options) *ir.Program {
	t.Helper()
	prog, err := builder.Compile(fn, externals, opts)
	require.NoError(t, err)
	return prog
}

func count[T ir.Stmt](prog *ir.Program) int {
	n := 0
	for stmt := range prog.Body.All() {
		if _, ok := stmt.(T); ok {
			n++
		}
	}
	return n
}

func returned(t *testing.T, prog *ir.Program) ir.Operand {
	t.Helper()
	stmts := prog.Body.Stmts
	require.NotEmpty(t, stmts)
	ret, ok := stmts[len(stmts)-1].(*ir.Return)
	require.True(t, ok, "last statement %s is not a return", stmts[len(stmts)-1])
	require.Len(t, ret.Values, 1)
	return ret.Values[0]
}

func TestGolden(t *testing.T) {
	fields := map[string]host.Value{
		"x": host.NewField("x", dtype.Int32, 8),
	}
	tests := []struct {
		name string
		fn   *ast.FuncDef
	}{
		{
			name: "add",
			fn: ab.Func("add", ab.Params(intParam("x"), intParam("y")), ab.Name("int"),
				ab.Return(ab.Bin(ab.Name("x"), ast.Add, ab.Bin(ab.Name("y"), ast.Mult, ab.Int(2)))),
			),
		},
		{
			name: "unroll",
			fn: ab.Func("unroll", ab.Params(intParam("x")), ab.Name("int"),
				ab.AnnAssign("s", ab.Name("int"), ab.Int(0)),
				ab.ForIn("i", ab.CallName("static", ab.CallName("range", ab.Int(3))),
					ab.AugAssign(ab.Name("s"), ast.Add, ab.Name("x")),
				),
				ab.Return(ab.Name("s")),
			),
		},
		{
			name: "fill",
			fn: ab.Func("fill", ab.Params(intParam("n")), nil,
				ab.ForIn("i", ab.CallName("range", ab.Name("n")),
					ab.Assign(ab.Index(ab.Name("x"), ab.Name("i")), ab.Name("i")),
				),
			),
		},
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			prog := compile(t, test.fn, fields, options.Default())
			g.Assert(t, test.name, []byte(prog.String()))
		})
	}
}

func TestConstantFolding(t *testing.T) {
	fn := ab.Func("fold", nil, ab.Name("int"),
		ab.Define("a", ab.Bin(ab.Bin(ab.Int(2), ast.Mult, ab.Int(3)), ast.Add, ab.Int(4))),
		ab.Return(ab.Bin(ab.Name("a"), ast.FloorDiv, ab.Int(3))),
	)
	prog := compile(t, fn, nil, options.Default())
	if len(prog.Body.Stmts) != 1 {
		t.Errorf("got %d statements, want a single return:\n%s", len(prog.Body.Stmts), prog)
	}
	imm, ok := returned(t, prog).(*ir.Imm)
	require.True(t, ok, "result is not an immediate")
	if imm.Val != int64(3) {
		t.Errorf("got result %v, want 3", imm.Val)
	}
}

func TestRuntimeOperationEmitsOneNode(t *testing.T) {
	fn := ab.Func("incr", ab.Params(intParam("x")), ab.Name("int"),
		ab.Return(ab.Bin(ab.Name("x"), ast.Add, ab.Int(1))),
	)
	prog := compile(t, fn, nil, options.Default())
	if got := count[*ir.BinaryOp](prog); got != 1 {
		t.Errorf("got %d binary operations, want 1:\n%s", got, prog)
	}
	if got := count[*ir.Cast](prog); got != 0 {
		t.Errorf("got %d casts, want 0:\n%s", got, prog)
	}
}

func TestStaticUnroll(t *testing.T) {
	for _, n := range []int64{0, 1, 5} {
		fn := ab.Func("unroll", ab.Params(intParam("x")), nil,
			ab.ForIn("i", ab.CallName("static", ab.CallName("range", ab.Int(n))),
				ab.Expr(ab.CallName("print", ab.Name("i"), ab.Name("x"))),
			),
		)
		prog := compile(t, fn, nil, options.Default())
		if got := count[*ir.Print](prog); got != int(n) {
			t.Errorf("range(%d): got %d print statements, want %d:\n%s", n, got, n, prog)
		}
		if got := len(prog.Loops); got != 0 {
			t.Errorf("range(%d): got %d runtime loops, want 0", n, got)
		}
	}
}

func TestStaticBreak(t *testing.T) {
	fn := ab.Func("first", ab.Params(intParam("x")), nil,
		ab.ForIn("i", ab.CallName("static", ab.CallName("range", ab.Int(10))),
			ab.If(ab.CallName("static", ab.Cmp(ab.Name("i"), ast.Eq, ab.Int(3))), ab.Body(ab.Break()), nil),
			ab.Expr(ab.CallName("print", ab.Name("x"))),
		),
	)
	prog := compile(t, fn, nil, options.Default())
	if got := count[*ir.Print](prog); got != 3 {
		t.Errorf("got %d print statements, want 3:\n%s", got, prog)
	}
	if got := count[*ir.Break](prog); got != 0 {
		t.Errorf("got %d runtime break statements, want 0:\n%s", got, prog)
	}
}

func TestStaticUnrollLimit(t *testing.T) {
	fn := ab.Func("unroll", nil, nil,
		ab.ForIn("i", ab.CallName("static", ab.CallName("range", ab.Int(100))),
			ab.Pass(),
		),
	)
	opts := options.Default()
	opts.MaxUnroll = 10
	_, err := builder.Compile(fn, nil, opts)
	require.ErrorIs(t, err, fmterr.CompileError)
	require.ErrorContains(t, err, "unrolled more than 10 times")
}

func TestHugeStaticIterables(t *testing.T) {
	huge := ab.CallName("range", ab.Int(1<<40))
	tests := []struct {
		name string
		stmt ast.Stmt
		msg  string
	}{
		{
			name: "static for",
			stmt: ab.ForIn("i", ab.CallName("static", huge), ab.Pass()),
			msg:  "unrolled more than",
		},
		{
			name: "static for over ndrange",
			stmt: ab.ForIn("i", ab.CallName("static", ab.CallName("ndrange", ab.Int(1<<21), ab.Int(1<<21))), ab.Pass()),
			msg:  "unrolled more than",
		},
		{
			name: "list comprehension",
			stmt: ab.Define("a", ab.ListComp(ab.Name("i"), ab.Gen(ab.Name("i"), huge))),
			msg:  "exceed the limit",
		},
		{
			name: "list builtin",
			stmt: ab.Define("a", ab.CallName("list", huge)),
			msg:  "exceed the limit",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fn := ab.Func("huge", nil, nil, test.stmt)
			_, err := builder.Compile(fn, nil, options.Default())
			require.ErrorIs(t, err, fmterr.CompileError)
			require.ErrorContains(t, err, test.msg)
		})
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	fn := ab.Func("sum", ab.Params(intParam("n")), ab.Name("int"),
		ab.AnnAssign("s", ab.Name("int"), ab.Int(0)),
		ab.ForIn("i", ab.CallName("range", ab.Name("n")),
			ab.AugAssign(ab.Name("s"), ast.Add, ab.Name("i")),
		),
		ab.Return(ab.Name("s")),
	)
	bld, err := builder.New(options.Default())
	require.NoError(t, err)
	first, err := bld.Compile(fn, nil)
	require.NoError(t, err)
	second, err := bld.Compile(fn, nil)
	require.NoError(t, err)
	if diff := cmp.Diff(first.String(), second.String()); diff != "" {
		t.Errorf("compiling twice gives different programs (-first +second):\n%s", diff)
	}
	if first.ID == second.ID {
		t.Errorf("both programs have the same ID %s", first.ID)
	}
}

func TestLoopScheduling(t *testing.T) {
	x := host.NewField("x", dtype.Int32, 4, 4)
	serial := ab.CallKw(ab.Name("loop_config"), nil, ab.Kw("serialize", ab.Bool(true)))
	tests := []struct {
		name string
		body []ast.Stmt
		want []bool
	}{
		{
			name: "outermost range",
			body: ab.Body(
				ab.ForIn("i", ab.CallName("range", ab.Int(4)), ab.Pass()),
			),
			want: []bool{true},
		},
		{
			name: "nested",
			body: ab.Body(
				ab.ForIn("i", ab.CallName("range", ab.Int(4)),
					ab.ForIn("j", ab.CallName("range", ab.Name("i")), ab.Pass()),
				),
			),
			want: []bool{false, true},
		},
		{
			name: "serialized",
			body: ab.Body(
				ab.Expr(serial),
				ab.ForIn("i", ab.CallName("range", ab.Int(4)), ab.Break()),
			),
			want: []bool{false},
		},
		{
			name: "struct-for",
			body: ab.Body(
				ab.For(ab.Tuple(ab.Name("i"), ab.Name("j")), ab.Name("x"),
					ab.Assign(ab.Index(ab.Name("x"), ab.Name("i"), ab.Name("j")), ab.Int(0)),
				),
			),
			want: []bool{true},
		},
		{
			name: "ndrange",
			body: ab.Body(
				ab.For(ab.Tuple(ab.Name("i"), ab.Name("j")), ab.CallName("ndrange", ab.Int(4), ab.Int(4)), ab.Pass()),
			),
			want: []bool{true},
		},
		{
			name: "while",
			body: ab.Body(
				ab.While(ab.Bool(true), ab.Break()),
			),
			want: []bool{false},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fn := ab.Func("kernel", nil, nil, test.body...)
			prog := compile(t, fn, map[string]host.Value{"x": x}, options.Default())
			var got []bool
			for _, info := range prog.Loops {
				got = append(got, info.Parallel)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("unexpected scheduling (-want +got):\n%s\nprogram:\n%s", diff, prog)
			}
		})
	}
}

func TestWalrus(t *testing.T) {
	fn := ab.Func("walrus", nil, ab.Name("int"),
		ab.Define("b", ab.Bin(ab.Int(2), ast.Add, ab.Walrus("a", ab.Int(5)))),
		ab.AugAssign(ab.Name("b"), ast.Add, ab.Name("a")),
		ab.Return(ab.Name("b")),
	)
	prog := compile(t, fn, nil, options.Default())
	imm, ok := returned(t, prog).(*ir.Imm)
	require.True(t, ok, "result is not an immediate:\n%s", prog)
	if imm.Val != int64(12) {
		t.Errorf("got result %v, want 12", imm.Val)
	}

	annotated := ab.Func("walrus", nil, ab.Name("int"),
		ab.AnnAssign("b", ab.Name("int"), ab.Bin(ab.Int(2), ast.Add, ab.Walrus("a", ab.Int(5)))),
		ab.AugAssign(ab.Name("b"), ast.Add, ab.Name("a")),
		ab.Return(ab.Name("b")),
	)
	prog = compile(t, annotated, nil, options.Default())
	if got := count[*ir.Alloca](prog); got != 1 {
		t.Errorf("got %d allocations, want 1:\n%s", got, prog)
	}
	if _, isImm := returned(t, prog).(*ir.Imm); isImm {
		t.Errorf("runtime variable folded into an immediate:\n%s", prog)
	}
}

func TestShortCircuit(t *testing.T) {
	fn := func() *ast.FuncDef {
		return ab.Func("in_range", ab.Params(intParam("x")), ab.Name("bool"),
			ab.Return(ab.And(
				ab.Cmp(ab.Name("x"), ast.Gt, ab.Int(0)),
				ab.Cmp(ab.Name("x"), ast.Lt, ab.Int(10)),
			)),
		)
	}
	eager := compile(t, fn(), nil, options.Default())
	if got := count[*ir.If](eager); got != 0 {
		t.Errorf("eager evaluation: got %d if statements, want 0:\n%s", got, eager)
	}
	opts := options.Default()
	opts.ShortCircuit = true
	lazy := compile(t, fn(), nil, opts)
	if got := count[*ir.If](lazy); got != 1 {
		t.Errorf("short-circuit evaluation: got %d if statements, want 1:\n%s", got, lazy)
	}
}

func TestRedefinition(t *testing.T) {
	compatible := ab.Func("redefine", nil, ab.Attr(ab.Name("ti"), "i64"),
		ab.AnnAssign("a", ab.Attr(ab.Name("ti"), "i64"), ab.Int(1)),
		ab.AnnAssign("a", ab.Name("int"), ab.Int(2)),
		ab.Return(ab.Name("a")),
	)
	prog := compile(t, compatible, nil, options.Default())
	if got := count[*ir.Alloca](prog); got != 1 {
		t.Errorf("got %d allocations, want 1:\n%s", got, prog)
	}
	i64 := ir.TypeFromKind(irkind.Int64)
	for stmt := range prog.Body.All() {
		switch stmtT := stmt.(type) {
		case *ir.Alloca:
			if !stmtT.Typ.Equal(i64) {
				t.Errorf("variable allocated with type %s, want %s:\n%s", stmtT.Typ, i64, prog)
			}
		case *ir.LocalStore:
			if got := stmtT.Val.Type(); !got.Equal(i64) {
				t.Errorf("stored a value of type %s, want %s:\n%s", got, i64, prog)
			}
		}
	}
	if got := returned(t, prog).Type(); !got.Equal(i64) {
		t.Errorf("returned a value of type %s, want %s:\n%s", got, i64, prog)
	}
}
