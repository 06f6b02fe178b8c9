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

package astbuilder_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/kernelc/build/ast"
	ab "github.com/gx-org/kernelc/build/ast/astbuilder"
)

func TestFuncPositions(t *testing.T) {
	sum := ab.Bin(ab.Name("s"), ast.Add, ab.Name("i"))
	inner := ab.Define("s", sum)
	loop := ab.ForIn("i", ab.CallName("range", ab.Int(4)), inner)
	cond := ab.If(ab.Name("c"), ab.Body(ab.Pass()), ab.Body(ab.Break()))
	ret := ab.Return(ab.Name("s"))
	fn := ab.Func("kernel", ab.Params(ab.Param("c", ab.Name("bool"))), ab.Name("int"),
		ab.Define("s", ab.Int(0)),
		loop,
		cond,
		ret,
	)
	pos := func(line, col int) ast.Pos {
		return ast.Pos{File: "test.py", Line: line, Col: col}
	}
	tests := []struct {
		node ast.Node
		want ast.Pos
	}{
		{node: fn, want: pos(1, 1)},
		{node: fn.Params[0], want: pos(1, 1)},
		{node: fn.Body[0], want: pos(2, 5)},
		{node: loop, want: pos(3, 5)},
		{node: inner, want: pos(4, 9)},
		{node: sum, want: pos(4, 9)},
		{node: sum.X, want: pos(4, 9)},
		{node: cond, want: pos(5, 5)},
		{node: cond.Body[0], want: pos(6, 9)},
		{node: cond.Else[0], want: pos(8, 9)},
		{node: ret, want: pos(9, 5)},
	}
	for i, test := range tests {
		if diff := cmp.Diff(test.want, test.node.Position()); diff != "" {
			t.Errorf("test %d: unexpected position for %T (-want +got):\n%s", i, test.node, diff)
		}
	}
}
