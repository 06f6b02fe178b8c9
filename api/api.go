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

// Package api compiles kernel bodies and runs them on the host.
package api

import (
	"io"

	"github.com/gx-org/kernelc/api/options"
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/builder"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/interp"
)

// Runtime encapsulates a kernel builder and the fields shared by the kernels it compiles.
// The storage of the fields lives on the host and persists across runs.
type Runtime struct {
	builder *builder.Builder
	fields  map[string]*host.Field
	storage map[string]*interp.Field
}

// NewRuntime returns a new runtime compiling kernels with the given options.
func NewRuntime(opts options.Options) (*Runtime, error) {
	bld, err := builder.New(opts)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		builder: bld,
		fields:  make(map[string]*host.Field),
		storage: make(map[string]*interp.Field),
	}, nil
}

// NewRuntimeFromConfig returns a new runtime given a YAML configuration.
// Environment variables override the configuration.
func NewRuntimeFromConfig(config io.Reader) (*Runtime, error) {
	opts, err := options.Load(config)
	if err != nil {
		return nil, err
	}
	return NewRuntime(opts.FromEnv())
}

// Builder returns the builder used to compile kernel bodies into IR.
func (rtm *Runtime) Builder() *builder.Builder {
	return rtm.builder
}

// DeclareField declares a field visible to all the kernels compiled by the runtime
// and allocates its storage.
func (rtm *Runtime) DeclareField(field *host.Field) *interp.Field {
	rtm.fields[field.Name] = field
	storage := interp.NewField(field.Info())
	rtm.storage[field.Name] = storage
	return storage
}

// Field returns the storage of a declared field, or nil if the field has not been declared.
func (rtm *Runtime) Field(name string) *interp.Field {
	return rtm.storage[name]
}

// Kernel is a compiled kernel body.
type Kernel struct {
	rtm  *Runtime
	prog *ir.Program
}

// Compile a kernel body given the host values it captures, in addition to the fields of the runtime.
// Captured values shadow the fields of the runtime.
func (rtm *Runtime) Compile(fn *ast.FuncDef, externals map[string]host.Value) (*Kernel, error) {
	vals := make(map[string]host.Value, len(rtm.fields)+len(externals))
	for name, field := range rtm.fields {
		vals[name] = field
	}
	for name, v := range externals {
		vals[name] = v
	}
	prog, err := rtm.builder.Compile(fn, vals)
	if err != nil {
		return nil, err
	}
	return &Kernel{rtm: rtm, prog: prog}, nil
}

// Program returns the IR of the kernel.
func (k *Kernel) Program() *ir.Program {
	return k.prog
}

// Run the kernel on the host. The kernel reads and writes the storage of the
// fields declared in the runtime. Other fields are allocated for the run.
func (k *Kernel) Run(args []any, opts ...interp.Option) (interp.Value, error) {
	var fields []*interp.Field
	for _, info := range k.prog.Fields {
		if storage := k.rtm.storage[info.Name]; storage != nil {
			fields = append(fields, storage)
		}
	}
	opts = append([]interp.Option{interp.WithFields(fields...)}, opts...)
	return interp.Run(k.prog, args, opts...)
}
