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

// Package interp executes kernel programs on the host.
//
// The interpreter gives the reference semantics of the IR: statements are
// executed in order and parallel loops run their iterations sequentially,
// in increasing order of their index. Fields are stored in host memory.
package interp

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/gx-org/kernelc/build/ir"
)

// Option configures an interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer of print statements. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(itp *Interpreter) {
		itp.out = w
	}
}

// WithFields sets the storage of some fields accessed by the program.
// Fields not given are allocated and initialised to zero.
func WithFields(fields ...*Field) Option {
	return func(itp *Interpreter) {
		for _, field := range fields {
			itp.fields[field.info.Name] = field
		}
	}
}

// Interpreter runs a program.
type Interpreter struct {
	prog   *ir.Program
	fields map[string]*Field
	out    io.Writer
}

// New returns an interpreter for a program.
func New(prog *ir.Program, opts ...Option) (*Interpreter, error) {
	itp := &Interpreter{
		prog:   prog,
		fields: make(map[string]*Field),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(itp)
	}
	for _, info := range prog.Fields {
		field, ok := itp.fields[info.Name]
		if !ok {
			itp.fields[info.Name] = NewField(info)
			continue
		}
		if err := field.compatible(info); err != nil {
			return nil, err
		}
	}
	return itp, nil
}

// Field returns the storage of a field, or nil if the program does not access it.
func (itp *Interpreter) Field(name string) *Field {
	return itp.fields[name]
}

// Run executes the program given its arguments.
// It returns the value returned by the program, or nil.
func (itp *Interpreter) Run(args ...any) (Value, error) {
	if len(args) != len(itp.prog.Params) {
		return nil, errors.Errorf("%s: got %d arguments, want %d", itp.prog.Signature(), len(args), len(itp.prog.Params))
	}
	ctx := &context{
		itp:   itp,
		args:  make([]Value, len(args)),
		vals:  make(map[ir.Handle]Value),
		loops: make(map[ir.Handle][]int64),
	}
	for i, param := range itp.prog.Params {
		var err error
		if ctx.args[i], err = FromGo(param.Typ, args[i]); err != nil {
			return nil, errors.Wrapf(err, "argument %s", param.Name)
		}
	}
	if _, err := ctx.evalBlock(itp.prog.Body); err != nil {
		return nil, err
	}
	return ctx.result, nil
}

// Run executes a program once.
func Run(prog *ir.Program, args []any, opts ...Option) (Value, error) {
	itp, err := New(prog, opts...)
	if err != nil {
		return nil, err
	}
	return itp.Run(args...)
}
