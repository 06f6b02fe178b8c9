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

// Package builder compiles the body of a kernel into IR.
//
// The builder walks the host AST once. Every expression evaluates either to a
// compile-time value, computed immediately, or to a runtime value, for which
// IR is emitted. Any operator with a runtime operand produces a runtime
// value. static(...) forces its arguments to be compile-time values,
// which is how kernels branch and unroll loops at compile time.
//
// Loops found at the top level of the body are parallel, unless a loop_config
// directive makes them serial. Nested loops are serial.
package builder

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/gx-org/kernelc/api/options"
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/emitter"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/symtab"
	"github.com/gx-org/kernelc/build/typecheck"
)

// Builder compiles kernel bodies with a set of options.
// A builder has no mutable state: bodies can be compiled concurrently.
type Builder struct {
	opts    options.Options
	checker *typecheck.Checker
}

// New returns a builder given compilation options.
func New(opts options.Options) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	checker, err := typecheck.New(opts.IntKind(), opts.FloatKind())
	if err != nil {
		return nil, err
	}
	return &Builder{opts: opts, checker: checker}, nil
}

// Options returns the options of the builder.
func (b *Builder) Options() options.Options {
	return b.opts
}

// Compile compiles a body given the host values it has captured.
// Compilation stops at the first error: no program is returned in that case.
func (b *Builder) Compile(fn *ast.FuncDef, externals map[string]host.Value) (*ir.Program, error) {
	fb := &fnBuilder{
		bld:     b,
		opts:    b.opts,
		log:     b.opts.Log().With("kernel", fn.Name),
		check:   b.checker,
		fn:      fn,
		syms:    symtab.New(externals),
		em:      emitter.New(),
		fields:  make(map[string]*host.Field),
		owners:  make(map[host.Value]int),
		regions: 1,
	}
	return fb.build()
}

// Compile compiles a body with the given options.
func Compile(fn *ast.FuncDef, externals map[string]host.Value, opts options.Options) (*ir.Program, error) {
	b, err := New(opts)
	if err != nil {
		return nil, err
	}
	return b.Compile(fn, externals)
}

// fnBuilder holds the state of the compilation of one body.
type fnBuilder struct {
	bld   *Builder
	opts  options.Options
	log   *slog.Logger
	check *typecheck.Checker

	fn     *ast.FuncDef
	syms   *symtab.Table
	em     *emitter.Emitter
	fields map[string]*host.Field
	result ir.Type

	// regions is the number of runtime regions created so far.
	regions int
	// owners maps mutable compile-time containers to the region owning them.
	owners map[host.Value]int
	// unrolled counts the loop bodies instantiated by static loops.
	unrolled int
	// staticDepth is the current nesting of static loops.
	staticDepth int
}

func (fb *fnBuilder) build() (*ir.Program, error) {
	params, err := fb.processParams()
	if err != nil {
		return nil, err
	}
	if fb.result, err = fb.processResult(); err != nil {
		return nil, err
	}
	if err := fb.checkReturns(); err != nil {
		return nil, err
	}
	ctx := stmtCtx{outermost: true}
	if _, err := fb.processBlock(ctx, fb.fn.Body); err != nil {
		return nil, err
	}
	if fb.syms.Depth() != 0 {
		return nil, fmterr.Internal(errors.Errorf("%d scopes still open after compiling %s", fb.syms.Depth(), fb.fn.Name))
	}
	prog, err := fb.em.Finish(fb.fn.Name, params, fb.result)
	if err != nil {
		return nil, err
	}
	fb.log.Debug("compiled", "handles", prog.NumHandles, "loops", len(prog.Loops), "unrolled", fb.unrolled)
	return prog, nil
}

// newRegion returns the identifier of a new runtime region.
func (fb *fnBuilder) newRegion() int {
	r := fb.regions
	fb.regions++
	return r
}

// loopCtx describes an enclosing loop.
type loopCtx struct {
	kind     ir.LoopKind
	static   bool
	parallel bool
	// region in which a static loop is unrolled.
	region int
	src    ast.Node
}

// stmtCtx is the context in which a statement is compiled.
// It is passed by value down the traversal.
type stmtCtx struct {
	// outermost is true for statements of the top-level statement list of the body,
	// before any runtime loop or runtime conditional.
	outermost bool
	// region identifies the runtime region of the statement.
	region int
	// loop is the innermost enclosing loop, static or runtime. nil if none.
	loop *loopCtx
}

// nested returns the context of the body of a runtime construct.
func (ctx stmtCtx) nested(region int) stmtCtx {
	ctx.outermost = false
	ctx.region = region
	return ctx
}

// inLoop returns the context of the body of a loop.
func (ctx stmtCtx) inLoop(loop *loopCtx) stmtCtx {
	ctx.loop = loop
	return ctx
}

// flow is the control flow at the end of a statement known at compile time.
type flow int

const (
	flowNext flow = iota
	flowBreak
	flowContinue
)
