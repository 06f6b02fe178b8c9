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

package interp_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/kernelc/api/options"
	"github.com/gx-org/kernelc/build/ast"
	ab "github.com/gx-org/kernelc/build/ast/astbuilder"
	"github.com/gx-org/kernelc/build/builder"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/interp"
)

func compile(t *testing.T, fn *ast.FuncDef, externals map[string]host.Value, opts options.Options) *ir.Program {
	t.Helper()
	prog, err := builder.Compile(fn, externals, opts)
	require.NoError(t, err)
	return prog
}

func intParam(name string) *ast.Param {
	return ab.Param(name, ab.Name("int"))
}

func TestRun(t *testing.T) {
	shortCircuit := options.Default()
	shortCircuit.ShortCircuit = true
	inRange := func() *ast.FuncDef {
		return ab.Func("in_range", ab.Params(intParam("x")), ab.Name("bool"),
			ab.Return(ab.And(
				ab.Cmp(ab.Name("x"), ast.Gt, ab.Int(0)),
				ab.Cmp(ab.Name("x"), ast.Lt, ab.Int(10)),
			)),
		)
	}
	tests := []struct {
		name string
		fn   *ast.FuncDef
		opts *options.Options
		args []any
		want interp.Value
	}{
		{
			name: "sum",
			fn: ab.Func("sum", ab.Params(intParam("n")), ab.Name("int"),
				ab.AnnAssign("s", ab.Name("int"), ab.Int(0)),
				ab.ForIn("i", ab.CallName("range", ab.Name("n")),
					ab.AugAssign(ab.Name("s"), ast.Add, ab.Name("i")),
				),
				ab.Return(ab.Name("s")),
			),
			args: []any{10},
			want: int64(45),
		},
		{
			name: "walrus at compile time",
			fn: ab.Func("walrus", nil, ab.Name("int"),
				ab.Define("b", ab.Bin(ab.Int(2), ast.Add, ab.Walrus("a", ab.Int(5)))),
				ab.AugAssign(ab.Name("b"), ast.Add, ab.Name("a")),
				ab.Return(ab.Name("b")),
			),
			want: int64(12),
		},
		{
			name: "walrus at runtime",
			fn: ab.Func("walrus", ab.Params(intParam("x")), ab.Name("int"),
				ab.Define("b", ab.Bin(ab.Name("x"), ast.Add, ab.Walrus("a", ab.Int(5)))),
				ab.AugAssign(ab.Name("b"), ast.Add, ab.Name("a")),
				ab.Return(ab.Name("b")),
			),
			args: []any{2},
			want: int64(12),
		},
		{
			name: "walrus with an annotated variable",
			fn: ab.Func("walrus", nil, ab.Name("int"),
				ab.AnnAssign("b", ab.Name("int"), ab.Bin(ab.Int(2), ast.Add, ab.Walrus("a", ab.Int(5)))),
				ab.AugAssign(ab.Name("b"), ast.Add, ab.Name("a")),
				ab.Return(ab.Name("b")),
			),
			want: int64(12),
		},
		{
			name: "list local to a loop body",
			fn: ab.Func("last", ab.Params(intParam("n")), ab.Name("int"),
				ab.AnnAssign("s", ab.Name("int"), ab.Int(0)),
				ab.ForIn("i", ab.CallName("range", ab.Name("n")),
					ab.Define("lst", ab.List(ab.Int(0), ab.Int(0))),
					ab.Assign(ab.Index(ab.Name("lst"), ab.Int(1)), ab.Name("i")),
					ab.AugAssign(ab.Name("s"), ast.Add, ab.Index(ab.Name("lst"), ab.Int(1))),
				),
				ab.Return(ab.Name("s")),
			),
			args: []any{4},
			want: int64(6),
		},
		{
			name: "floor division",
			fn: ab.Func("div", ab.Params(intParam("x"), intParam("y")), ab.Name("int"),
				ab.Return(ab.Bin(ab.Name("x"), ast.FloorDiv, ab.Name("y"))),
			),
			args: []any{-7, 2},
			want: int64(-4),
		},
		{
			name: "modulo",
			fn: ab.Func("mod", ab.Params(intParam("x"), intParam("y")), ab.Name("int"),
				ab.Return(ab.Bin(ab.Name("x"), ast.Mod, ab.Name("y"))),
			),
			args: []any{-7, 2},
			want: int64(1),
		},
		{
			name: "float",
			fn: ab.Func("twice", ab.Params(ab.Param("x", ab.Name("float"))), ab.Name("float"),
				ab.Return(ab.Bin(ab.Name("x"), ast.Mult, ab.Float(2))),
			),
			args: []any{1.5},
			want: float64(3),
		},
		{
			name: "static unroll",
			fn: ab.Func("unroll", ab.Params(intParam("x")), ab.Name("int"),
				ab.AnnAssign("s", ab.Name("int"), ab.Int(0)),
				ab.ForIn("i", ab.CallName("static", ab.CallName("range", ab.Int(4))),
					ab.AugAssign(ab.Name("s"), ast.Add, ab.Name("x")),
				),
				ab.Return(ab.Name("s")),
			),
			args: []any{3},
			want: int64(12),
		},
		{
			name: "while",
			fn: ab.Func("count", ab.Params(intParam("n")), ab.Name("int"),
				ab.AnnAssign("i", ab.Name("int"), ab.Int(0)),
				ab.While(ab.Cmp(ab.Name("i"), ast.Lt, ab.Name("n")),
					ab.AugAssign(ab.Name("i"), ast.Add, ab.Int(1)),
				),
				ab.Return(ab.Name("i")),
			),
			args: []any{5},
			want: int64(5),
		},
		{
			name: "if else",
			fn: ab.Func("sign", ab.Params(intParam("x")), ab.Name("int"),
				ab.AnnAssign("r", ab.Name("int"), ab.Int(0)),
				ab.If(ab.Cmp(ab.Name("x"), ast.Gt, ab.Int(0)),
					ab.Body(ab.Define("r", ab.Int(1))),
					ab.Body(ab.Define("r", ab.Unary(ast.USub, ab.Int(1)))),
				),
				ab.Return(ab.Name("r")),
			),
			args: []any{-3},
			want: int64(-1),
		},
		{
			name: "ndrange",
			fn: ab.Func("grid", nil, ab.Name("int"),
				ab.AnnAssign("s", ab.Name("int"), ab.Int(0)),
				ab.For(ab.Tuple(ab.Name("i"), ab.Name("j")), ab.CallName("ndrange", ab.Int(2), ab.Int(3)),
					ab.AugAssign(ab.Name("s"), ast.Add, ab.Bin(ab.Bin(ab.Name("i"), ast.Mult, ab.Int(10)), ast.Add, ab.Name("j"))),
				),
				ab.Return(ab.Name("s")),
			),
			want: int64(36),
		},
		{
			name: "eager and",
			fn:   inRange(),
			args: []any{20},
			want: false,
		},
		{
			name: "short-circuit and",
			fn:   inRange(),
			opts: &shortCircuit,
			args: []any{5},
			want: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			opts := options.Default()
			if test.opts != nil {
				opts = *test.opts
			}
			prog := compile(t, test.fn, nil, opts)
			got, err := interp.Run(prog, test.args)
			require.NoError(t, err, "program:\n%s", prog.String())
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("unexpected result (-want +got):\n%s\nprogram:\n%s", diff, prog.String())
			}
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	fn := ab.Func("div", ab.Params(intParam("x"), intParam("y")), ab.Name("int"),
		ab.Return(ab.Bin(ab.Name("x"), ast.FloorDiv, ab.Name("y"))),
	)
	prog := compile(t, fn, nil, options.Default())
	_, err := interp.Run(prog, []any{1, 0})
	require.ErrorContains(t, err, "division or modulo by zero")
	require.ErrorContains(t, err, "test.py:2")
}

func TestArguments(t *testing.T) {
	fn := ab.Func("id", ab.Params(intParam("x")), ab.Name("int"),
		ab.Return(ab.Name("x")),
	)
	prog := compile(t, fn, nil, options.Default())
	_, err := interp.Run(prog, nil)
	require.ErrorContains(t, err, "got 0 arguments, want 1")
	_, err = interp.Run(prog, []any{int64(1) << 40})
	require.ErrorContains(t, err, "overflows i32")
}

func TestAssert(t *testing.T) {
	fn := ab.Func("check", ab.Params(intParam("x")), nil,
		ab.Assert(ab.Cmp(ab.Name("x"), ast.Gt, ab.Int(0)), ab.Str("x must be positive")),
	)
	debug := options.Default()
	debug.Debug = true
	prog := compile(t, fn, nil, debug)
	_, err := interp.Run(prog, []any{1})
	require.NoError(t, err)
	_, err = interp.Run(prog, []any{-1})
	require.ErrorIs(t, err, fmterr.RuntimeAssertionError)
	require.ErrorContains(t, err, "x must be positive")
	pos, ok := fmterr.PosOf(err)
	require.True(t, ok)
	if pos.Line != 2 {
		t.Errorf("assertion reported at line %d, want 2", pos.Line)
	}

	prog = compile(t, fn, nil, options.Default())
	_, err = interp.Run(prog, []any{-1})
	require.NoError(t, err)
}

func TestAssertMessageNotEvaluatedInRelease(t *testing.T) {
	fn := ab.Func("check", ab.Params(intParam("x")), ab.Name("int"),
		ab.Assert(ab.Cmp(ab.Name("x"), ast.Gt, ab.Int(0)), ab.Name("undefined")),
		ab.Assert(ab.Bool(false), ab.Walrus("m", ab.Int(1))),
		ab.Return(ab.Name("x")),
	)
	prog := compile(t, fn, nil, options.Default())
	if got := len(prog.Body.Stmts); got != 2 {
		t.Errorf("got %d statements, want 2 (argument and return):\n%s", got, prog)
	}
	got, err := interp.Run(prog, []any{-1})
	require.NoError(t, err)
	if got != int64(-1) {
		t.Errorf("got %v, want -1", got)
	}

	debug := options.Default()
	debug.Debug = true
	_, err = builder.Compile(fn, nil, debug)
	require.ErrorIs(t, err, fmterr.NameError)
	require.ErrorContains(t, err, "undefined")

	leaked := ab.Func("leak", nil, ab.Name("int"),
		ab.Assert(ab.Bool(true), ab.Walrus("m", ab.Int(1))),
		ab.Return(ab.Name("m")),
	)
	_, err = builder.Compile(leaked, nil, options.Default())
	require.ErrorIs(t, err, fmterr.NameError)
}

func TestPrint(t *testing.T) {
	fn := ab.Func("show", ab.Params(intParam("x")), nil,
		ab.Expr(ab.CallName("print", ab.Str("x ="), ab.Name("x"), ab.Float(0.5))),
	)
	prog := compile(t, fn, nil, options.Default())
	out := &strings.Builder{}
	_, err := interp.Run(prog, []any{3}, interp.WithOutput(out))
	require.NoError(t, err)
	if got, want := out.String(), "x = 3 0.5\n"; got != want {
		t.Errorf("got output %q, want %q", got, want)
	}
}

func TestStructFor(t *testing.T) {
	x := host.NewField("x", dtype.Float32, 4)
	fn := ab.Func("fill", nil, nil,
		ab.ForIn("i", ab.Name("x"),
			ab.Assign(ab.Index(ab.Name("x"), ab.Name("i")), ab.Bin(ab.Name("i"), ast.Mult, ab.Float(2))),
		),
	)
	prog := compile(t, fn, map[string]host.Value{"x": x}, options.Default())
	itp, err := interp.New(prog)
	require.NoError(t, err)
	_, err = itp.Run()
	require.NoError(t, err)
	want := []interp.Value{0.0, 2.0, 4.0, 6.0}
	if diff := cmp.Diff(want, itp.Field("x").Values()); diff != "" {
		t.Errorf("unexpected field values (-want +got):\n%s", diff)
	}
}

func TestAtomicAdd(t *testing.T) {
	c := host.NewField("c", dtype.Int32, 1)
	fn := ab.Func("count", ab.Params(intParam("n")), nil,
		ab.ForIn("i", ab.CallName("range", ab.Name("n")),
			ab.AugAssign(ab.Index(ab.Name("c"), ab.Int(0)), ast.Add, ab.Int(1)),
		),
	)
	prog := compile(t, fn, map[string]host.Value{"c": c}, options.Default())
	storage := interp.NewField(c.Info())
	require.NoError(t, storage.Set(2, 0))
	_, err := interp.Run(prog, []any{7}, interp.WithFields(storage))
	require.NoError(t, err)
	got, err := storage.At(0)
	require.NoError(t, err)
	if got != int64(9) {
		t.Errorf("c[0] = %v, want 9", got)
	}
}

func TestSparseField(t *testing.T) {
	s := host.NewField("s", dtype.Int64, 2, 3)
	s.Sparse = true
	fn := ab.Func("incr", nil, nil,
		ab.For(ab.Tuple(ab.Name("i"), ab.Name("j")), ab.Name("s"),
			ab.AugAssign(ab.Index(ab.Name("s"), ab.Name("i"), ab.Name("j")), ast.Add, ab.Int(1)),
		),
	)
	prog := compile(t, fn, map[string]host.Value{"s": s}, options.Default())
	storage := interp.NewField(s.Info())
	require.NoError(t, storage.Set(10, 1, 2))
	require.NoError(t, storage.Set(20, 0, 1))
	_, err := interp.Run(prog, nil, interp.WithFields(storage))
	require.NoError(t, err)
	if diff := cmp.Diff([][]int64{{0, 1}, {1, 2}}, storage.Active()); diff != "" {
		t.Errorf("unexpected active coordinates (-want +got):\n%s", diff)
	}
	want := []interp.Value{int64(0), int64(21), int64(0), int64(0), int64(0), int64(11)}
	if diff := cmp.Diff(want, storage.Values()); diff != "" {
		t.Errorf("unexpected field values (-want +got):\n%s", diff)
	}
}

func TestFieldMismatch(t *testing.T) {
	x := host.NewField("x", dtype.Float32, 4)
	fn := ab.Func("read", nil, ab.Name("float"),
		ab.Return(ab.Index(ab.Name("x"), ab.Int(1))),
	)
	prog := compile(t, fn, map[string]host.Value{"x": x}, options.Default())
	other := interp.NewField(host.NewField("x", dtype.Float32, 5).Info())
	_, err := interp.New(prog, interp.WithFields(other))
	require.ErrorContains(t, err, "does not match declaration")
}

func TestFieldString(t *testing.T) {
	s := host.NewField("s", dtype.Int32, 2, 2)
	s.Sparse = true
	storage := interp.NewField(s.Info())
	require.NoError(t, storage.Set(7, 1, 0))
	want := "s[2][2]i32{\n\t{_, _},\n\t{7, _},\n}"
	if got := storage.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
