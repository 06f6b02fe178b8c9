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

package host_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
	"github.com/pkg/errors"
)

func TestBinary(t *testing.T) {
	tests := []struct {
		x    host.Value
		op   ast.Op
		y    host.Value
		want host.Value
	}{
		{x: int64(2), op: ast.Add, y: int64(5), want: int64(7)},
		{x: int64(7), op: ast.Div, y: int64(2), want: 3.5},
		{x: int64(-7), op: ast.FloorDiv, y: int64(2), want: int64(-4)},
		{x: int64(-7), op: ast.Mod, y: int64(3), want: int64(2)},
		{x: int64(7), op: ast.Mod, y: int64(-3), want: int64(-2)},
		{x: -7.5, op: ast.Mod, y: 2.0, want: 0.5},
		{x: -7.0, op: ast.FloorDiv, y: 2.0, want: -4.0},
		{x: int64(2), op: ast.Pow, y: int64(10), want: int64(1024)},
		{x: int64(2), op: ast.Pow, y: int64(-1), want: 0.5},
		{x: true, op: ast.Add, y: true, want: int64(2)},
		{x: true, op: ast.BitAnd, y: false, want: false},
		{x: int64(6), op: ast.BitXor, y: int64(3), want: int64(5)},
		{x: int64(1), op: ast.LShift, y: int64(4), want: int64(16)},
		{x: int64(1), op: ast.Add, y: 0.5, want: 1.5},
		{x: "ab", op: ast.Add, y: "c", want: "abc"},
		{x: "ab", op: ast.Mult, y: int64(2), want: "abab"},
		{x: host.Tuple{int64(1)}, op: ast.Add, y: host.Tuple{int64(2)}, want: host.Tuple{int64(1), int64(2)}},
		{x: int64(2), op: ast.Mult, y: host.Tuple{"a"}, want: host.Tuple{"a", "a"}},
	}
	for i, test := range tests {
		got, err := host.Binary(test.op, test.x, test.y)
		if err != nil {
			t.Errorf("test %d: %s %s %s: %v", i, host.Repr(test.x), test.op, host.Repr(test.y), err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("test %d: %s %s %s: unexpected result (-want +got):\n%s", i, host.Repr(test.x), test.op, host.Repr(test.y), diff)
		}
	}
}

func TestBinaryErrors(t *testing.T) {
	tests := []struct {
		x, y host.Value
		op   ast.Op
		kind fmterr.Kind
	}{
		{x: int64(1), op: ast.Div, y: int64(0), kind: fmterr.CompileError},
		{x: 1.0, op: ast.BitAnd, y: int64(1), kind: fmterr.TypeError},
		{x: "a", op: ast.Sub, y: "b", kind: fmterr.TypeError},
		{x: host.None, op: ast.Add, y: int64(1), kind: fmterr.TypeError},
	}
	for i, test := range tests {
		_, err := host.Binary(test.op, test.x, test.y)
		if !errors.Is(err, test.kind) {
			t.Errorf("test %d: got error %v, want %s", i, err, test.kind)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		x    host.Value
		op   ast.Op
		y    host.Value
		want bool
	}{
		{x: int64(1), op: ast.Eq, y: 1.0, want: true},
		{x: true, op: ast.Eq, y: int64(1), want: true},
		{x: int64(1), op: ast.Lt, y: 1.5, want: true},
		{x: "a", op: ast.Lt, y: "b", want: true},
		{x: host.Tuple{int64(1), int64(2)}, op: ast.Lt, y: host.Tuple{int64(1), int64(3)}, want: true},
		{x: host.Tuple{int64(1)}, op: ast.Lt, y: host.Tuple{int64(1), int64(0)}, want: true},
		{x: int64(3), op: ast.In, y: host.Range{Start: 0, Stop: 10, Step: 3}, want: true},
		{x: int64(4), op: ast.In, y: host.Range{Start: 0, Stop: 10, Step: 3}, want: false},
		{x: "b", op: ast.In, y: "abc", want: true},
		{x: int64(2), op: ast.NotIn, y: host.Tuple{int64(1)}, want: true},
		{x: host.None, op: ast.Is, y: host.None, want: true},
	}
	for i, test := range tests {
		got, err := host.Compare(test.op, test.x, test.y)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if got != test.want {
			t.Errorf("test %d: %s %s %s = %v, want %v", i, host.Repr(test.x), test.op, host.Repr(test.y), got, test.want)
		}
	}
}

func TestUnaryAndTruth(t *testing.T) {
	if got, _ := host.Unary(ast.USub, true); got != int64(-1) {
		t.Errorf("-True = %v, want -1", got)
	}
	if got, _ := host.Unary(ast.Invert, int64(5)); got != int64(-6) {
		t.Errorf("~5 = %v, want -6", got)
	}
	if got, _ := host.Unary(ast.Not, &host.List{}); got != true {
		t.Errorf("not [] = %v, want True", got)
	}
	if _, err := host.Unary(ast.USub, "a"); !errors.Is(err, fmterr.TypeError) {
		t.Errorf("-'a': got error %v, want TypeError", err)
	}
	if host.Truth(host.Range{Start: 3, Stop: 3, Step: 1}) {
		t.Errorf("range(3, 3) is true, want false")
	}
}

func TestIterate(t *testing.T) {
	tests := []struct {
		v    host.Value
		want []host.Value
	}{
		{v: host.Range{Start: 0, Stop: 3, Step: 1}, want: []host.Value{int64(0), int64(1), int64(2)}},
		{v: host.Range{Start: 5, Stop: 0, Step: -2}, want: []host.Value{int64(5), int64(3), int64(1)}},
		{v: host.Range{Start: 0, Stop: 0, Step: 1}, want: []host.Value{}},
		{
			v: host.NDRange{Axes: []host.Range{{Start: 0, Stop: 2, Step: 1}, {Start: 1, Stop: 3, Step: 1}}},
			want: []host.Value{
				host.Tuple{int64(0), int64(1)}, host.Tuple{int64(0), int64(2)},
				host.Tuple{int64(1), int64(1)}, host.Tuple{int64(1), int64(2)},
			},
		},
		{v: "ab", want: []host.Value{"a", "b"}},
	}
	for i, test := range tests {
		got, err := host.Iterate(test.v)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("test %d: Iterate(%s): unexpected elements (-want +got):\n%s", i, host.Repr(test.v), diff)
		}
	}
	field := host.NewField("x", dtype.Float32, 4)
	if _, err := host.Iterate(field); !errors.Is(err, fmterr.StaticEvaluationError) {
		t.Errorf("Iterate(field): got error %v, want StaticEvaluationError", err)
	}
}

func TestIterateLimit(t *testing.T) {
	huge := host.Range{Start: 0, Stop: 1 << 40, Step: 1}
	if n, ok := host.Size(huge); !ok || n != 1<<40 {
		t.Errorf("Size(%s) = %d, %v, want %d, true", host.Repr(huge), n, ok, int64(1<<40))
	}
	if _, err := host.Iterate(huge); !errors.Is(err, fmterr.CompileError) {
		t.Errorf("Iterate(%s): got error %v, want CompileError", host.Repr(huge), err)
	}
	if _, err := host.IterateN(host.Grouped{X: host.Range{Start: 0, Stop: 4, Step: 1}}, 3); !errors.Is(err, fmterr.CompileError) {
		t.Errorf("IterateN(grouped(range(4)), 3): got error %v, want CompileError", err)
	}
	full := host.Range{Start: math.MinInt64, Stop: math.MaxInt64, Step: 1}
	if got := full.Len(); got != math.MaxInt64 {
		t.Errorf("Len(%s) = %d, want %d", host.Repr(full), got, int64(math.MaxInt64))
	}
	square := host.NDRange{Axes: []host.Range{huge, huge, {Start: 0, Stop: 0, Step: 1}}}
	if got := square.Len(); got != 0 {
		t.Errorf("Len(%s) = %d, want 0", host.Repr(square), got)
	}
	found, err := host.Contains(host.Range{Start: 1 << 40, Stop: 0, Step: -3}, int64(1<<40-6))
	if err != nil || !found {
		t.Errorf("Contains() = %v, %v, want true", found, err)
	}
	found, err = host.Contains(host.Range{Start: 0, Stop: 1 << 40, Step: 2}, int64(7))
	if err != nil || found {
		t.Errorf("Contains() = %v, %v, want false", found, err)
	}
}

func TestDict(t *testing.T) {
	d := host.NewDict()
	for _, kv := range [][2]host.Value{{int64(1), "a"}, {"k", 2.0}, {1.0, "b"}, {host.Tuple{int64(1), true}, "t"}} {
		if err := d.Set(kv[0], kv[1]); err != nil {
			t.Fatal(err)
		}
	}
	if got, want := host.Repr(d), "{1: 'b', 'k': 2.0, (1, True): 't'}"; got != want {
		t.Errorf("Repr() = %s, want %s", got, want)
	}
	if got, err := host.Index(d, host.Tuple{int64(1), int64(1)}); err != nil || got != "t" {
		t.Errorf("d[(1, 1)] = %v, %v, want 't'", got, err)
	}
	if err := d.Set(&host.List{}, int64(0)); !errors.Is(err, fmterr.TypeError) {
		t.Errorf("Set(list): got error %v, want TypeError", err)
	}
}

func TestIndex(t *testing.T) {
	tup := host.Tuple{int64(1), int64(2), int64(3)}
	if got, _ := host.Index(tup, int64(-1)); got != int64(3) {
		t.Errorf("t[-1] = %v, want 3", got)
	}
	if _, err := host.Index(tup, int64(3)); !errors.Is(err, fmterr.IndexError) {
		t.Errorf("t[3]: got error %v, want IndexError", err)
	}
}

func TestAttr(t *testing.T) {
	field := host.NewField("x", dtype.Int32, 4, 8)
	tests := []struct {
		name string
		want host.Value
	}{
		{name: "shape", want: host.Tuple{int64(4), int64(8)}},
		{name: "ndim", want: int64(2)},
		{name: "name", want: "x"},
		{name: "dtype", want: host.TypeValue{Kind: field.Kind()}},
	}
	for _, test := range tests {
		got, err := host.Attr(field, test.name)
		if err != nil {
			t.Errorf("x.%s: %v", test.name, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("x.%s: unexpected value (-want +got):\n%s", test.name, diff)
		}
	}
	lst := &host.List{}
	app, err := host.Attr(lst, "append")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := host.Call(app, []host.Value{int64(4)}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]host.Value{int64(4)}, lst.Elems); diff != "" {
		t.Errorf("unexpected list after append (-want +got):\n%s", diff)
	}
}

func TestCallBuiltin(t *testing.T) {
	tests := []struct {
		name string
		args []host.Value
		want host.Value
	}{
		{name: "range", args: []host.Value{int64(3)}, want: host.Range{Start: 0, Stop: 3, Step: 1}},
		{name: "len", args: []host.Value{host.Tuple{int64(1), int64(2)}}, want: int64(2)},
		{name: "min", args: []host.Value{int64(3), 1.5, int64(2)}, want: 1.5},
		{name: "max", args: []host.Value{host.Tuple{int64(3), int64(9)}}, want: int64(9)},
		{name: "abs", args: []host.Value{int64(-3)}, want: int64(3)},
		{name: "int", args: []host.Value{-2.7}, want: int64(-2)},
		{name: "sum", args: []host.Value{host.Range{Start: 0, Stop: 5, Step: 1}}, want: int64(10)},
		{name: "sqrt", args: []host.Value{int64(16)}, want: 4.0},
		{name: "static", args: []host.Value{int64(1), "a"}, want: host.Tuple{int64(1), "a"}},
		{
			name: "zip",
			args: []host.Value{host.Tuple{int64(1), int64(2)}, "ab"},
			want: host.Tuple{host.Tuple{int64(1), "a"}, host.Tuple{int64(2), "b"}},
		},
		{
			name: "ndrange",
			args: []host.Value{int64(2), host.Tuple{int64(1), int64(4)}},
			want: host.NDRange{Axes: []host.Range{{Start: 0, Stop: 2, Step: 1}, {Start: 1, Stop: 4, Step: 1}}},
		},
	}
	for _, test := range tests {
		got, err := host.CallBuiltin(test.name, test.args, nil)
		if err != nil {
			t.Errorf("%s(%v): %v", test.name, test.args, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s(%v): unexpected result (-want +got):\n%s", test.name, test.args, diff)
		}
	}
	if got, _ := host.CallBuiltin("float", []host.Value{int64(1)}, nil); got != 1.0 {
		t.Errorf("float(1) = %v, want 1.0", got)
	}
}

func TestRepr(t *testing.T) {
	tests := []struct {
		v    host.Value
		want string
	}{
		{v: int64(3), want: "3"},
		{v: 3.0, want: "3.0"},
		{v: true, want: "True"},
		{v: host.None, want: "None"},
		{v: host.Tuple{int64(1)}, want: "(1,)"},
		{v: &host.List{Elems: []host.Value{"a", 1.5}}, want: "['a', 1.5]"},
		{v: host.Range{Start: 0, Stop: 4, Step: 2}, want: "range(0, 4, 2)"},
	}
	for _, test := range tests {
		if got := host.Repr(test.v); got != test.want {
			t.Errorf("Repr(%#v) = %q, want %q", test.v, got, test.want)
		}
	}
}
