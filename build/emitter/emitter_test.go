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

package emitter_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/emitter"
	"github.com/gx-org/kernelc/build/ir"
)

func TestEmitOrder(t *testing.T) {
	em := emitter.New()
	pos := ast.Pos{File: "k.py", Line: 1}
	arg := &ir.Arg{Base: em.Base(pos), Name: "a", Typ: ir.Int32Type()}
	em.Emit(arg)
	loop := em.Base(pos)
	em.Push()
	idx := &ir.LoopIndex{Base: em.Base(pos), Loop: loop.H, Typ: ir.Int32Type()}
	em.Emit(idx)
	em.Emit(&ir.BinaryOp{
		Base: em.Base(pos),
		Op:   ast.Add,
		X:    ir.RefTo(idx),
		Y:    ir.RefTo(arg),
		Typ:  ir.Int32Type(),
	})
	body := em.Pop()
	end, err := ir.NewImm(int64(10), ir.Int32Type())
	if err != nil {
		t.Fatal(err)
	}
	begin, _ := ir.NewImm(int64(0), ir.Int32Type())
	em.Emit(&ir.RangeFor{Base: loop, Begin: begin, End: end, Body: body, Parallel: true})
	em.RecordLoop(ir.LoopInfo{Loop: loop.H, Kind: ir.RangeLoop, Parallel: true, Src: pos})
	prog, err := em.Finish("f", []ir.Param{{Name: "a", Typ: ir.Int32Type(), Arg: arg.H}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var got []ir.Handle
	for stmt := range prog.Body.All() {
		got = append(got, stmt.ID())
	}
	want := []ir.Handle{0, 2, 3, 1}
	if !cmp.Equal(got, want) {
		t.Errorf("incorrect statement order: got %v but want %v", got, want)
	}
	wantStr := `kernel f(a: i32) {
  %0 = arg 0 "a" : i32
  parallel for %1 in range(0, 10) {
    %2 = index %1[0] : i32
    %3 = %2 + %0 : i32
  }
}
`
	if diff := cmp.Diff(wantStr, prog.String()); diff != "" {
		t.Errorf("unexpected program:\n%s", diff)
	}
	if info, ok := prog.Loop(loop.H); !ok || !info.Parallel {
		t.Errorf("Loop(%s) = %v, %v, want a parallel loop", loop.H, info, ok)
	}
}

func TestEmitTwice(t *testing.T) {
	em := emitter.New()
	stmt := &ir.Break{Base: em.Base(ast.Pos{})}
	em.Emit(stmt)
	em.Emit(stmt)
	if _, err := em.Finish("f", nil, nil); err == nil {
		t.Error("Finish() succeeded after a statement was emitted twice, expected failure")
	}
}

func TestUnbalancedBlocks(t *testing.T) {
	em := emitter.New()
	em.Push()
	if _, err := em.Finish("f", nil, nil); err == nil {
		t.Error("Finish() succeeded with an open block, expected failure")
	}
}
