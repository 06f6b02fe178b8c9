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

// Package emitter appends IR statements to the program being compiled.
//
// The emitter is the only writer of the program: statements are appended once
// and never edited afterwards. Nested constructs are built bottom-up: a block
// is opened with Push, filled, sealed with Pop, and handed to the statement
// owning it, which is appended last. Handles are allocated before a statement
// is appended so that loops can be referenced from their own body.
package emitter

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/gx-org/kernelc/base/uname"
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/ir"
)

// Emitter owns the output program of a compilation.
type Emitter struct {
	next     ir.Handle
	pending  map[ir.Handle]bool
	stack    []*ir.Block
	loops    []ir.LoopInfo
	fields   []ir.FieldInfo
	names    *uname.Unique
	finished bool
	err      error
}

// New returns a new emitter with an open top-level block.
func New() *Emitter {
	return &Emitter{
		pending: make(map[ir.Handle]bool),
		stack:   []*ir.Block{{}},
		names:   uname.New(),
	}
}

// fail records the first error. Later calls are no-ops.
func (em *Emitter) fail(err error) {
	if em.err != nil {
		return
	}
	em.err = fmterr.Internal(err)
}

// Base allocates a handle for a statement emitted for a given source position.
// The statement must later be appended with Emit.
func (em *Emitter) Base(pos ast.Pos) ir.Base {
	h := em.next
	em.next++
	em.pending[h] = true
	return ir.Base{H: h, Src: pos}
}

// Emit appends a statement to the current block and returns its handle.
func (em *Emitter) Emit(stmt ir.Stmt) ir.Handle {
	h := stmt.ID()
	switch {
	case em.finished:
		em.fail(errors.Errorf("cannot emit %s: program already finished", stmt.String()))
	case !em.pending[h]:
		em.fail(errors.Errorf("cannot emit %s: handle %s not allocated or already emitted", stmt.String(), h))
	default:
		delete(em.pending, h)
		current := em.stack[len(em.stack)-1]
		current.Stmts = append(current.Stmts, stmt)
	}
	return h
}

// Push opens a new block. Statements are appended to it until Pop is called.
func (em *Emitter) Push() {
	em.stack = append(em.stack, &ir.Block{})
}

// Pop seals the current block and returns it.
func (em *Emitter) Pop() *ir.Block {
	if len(em.stack) <= 1 {
		em.fail(errors.New("cannot pop the top-level block"))
		return &ir.Block{}
	}
	last := em.stack[len(em.stack)-1]
	em.stack = em.stack[:len(em.stack)-1]
	return last
}

// Depth returns the number of open blocks, including the top-level block.
func (em *Emitter) Depth() int {
	return len(em.stack)
}

// Len returns the number of statements in the current block.
func (em *Emitter) Len() int {
	return len(em.stack[len(em.stack)-1].Stmts)
}

// Last returns the last statement appended to the current block, or nil.
func (em *Emitter) Last() ir.Stmt {
	current := em.stack[len(em.stack)-1]
	if len(current.Stmts) == 0 {
		return nil
	}
	return current.Stmts[len(current.Stmts)-1]
}

// RecordLoop records the scheduling decision of a loop.
func (em *Emitter) RecordLoop(info ir.LoopInfo) {
	em.loops = append(em.loops, info)
}

// UseField records that the program accesses a field.
// Fields are recorded once, in order of first access.
func (em *Emitter) UseField(info ir.FieldInfo) {
	for _, field := range em.fields {
		if field.Name == info.Name {
			return
		}
	}
	em.fields = append(em.fields, info)
}

// Name returns a unique name for a runtime variable.
func (em *Emitter) Name(root string) string {
	return em.names.Name(root)
}

// Finish seals the program. The emitter cannot be used afterwards.
func (em *Emitter) Finish(name string, params []ir.Param, result ir.Type) (*ir.Program, error) {
	if em.err != nil {
		return nil, em.err
	}
	if len(em.stack) != 1 {
		return nil, fmterr.Internal(errors.Errorf("cannot finish program %s: %d blocks still open", name, len(em.stack)-1))
	}
	for h := range em.pending {
		if isLoop(em.loops, h) {
			return nil, fmterr.Internal(errors.Errorf("cannot finish program %s: loop %s allocated but never emitted", name, h))
		}
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	em.finished = true
	return &ir.Program{
		ID:         id,
		Name:       name,
		Version:    ir.Version,
		Params:     params,
		Result:     result,
		Body:       em.stack[0],
		Loops:      em.loops,
		Fields:     em.fields,
		NumHandles: int(em.next),
	}, nil
}

func isLoop(loops []ir.LoopInfo, h ir.Handle) bool {
	for _, info := range loops {
		if info.Loop == h {
			return true
		}
	}
	return false
}
