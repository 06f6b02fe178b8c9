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

package builder

import (
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
)

// Comprehensions are evaluated at compile time: every expression of the
// comprehension must be a compile-time value.

func (fb *fnBuilder) evalListComp(ctx stmtCtx, expr *ast.ListComp) (*value, error) {
	var elems []host.Value
	if err := fb.comprehend(ctx, expr.Generators, func(ctx stmtCtx) error {
		v, err := fb.evalCompileTime(ctx, expr.Elt, "element of list comprehension")
		if err != nil {
			return err
		}
		elems = append(elems, v)
		return nil
	}); err != nil {
		return nil, err
	}
	return ctValue(&host.List{Elems: elems}), nil
}

func (fb *fnBuilder) evalDictComp(ctx stmtCtx, expr *ast.DictComp) (*value, error) {
	d := host.NewDict()
	if err := fb.comprehend(ctx, expr.Generators, func(ctx stmtCtx) error {
		key, err := fb.evalCompileTime(ctx, expr.Key, "key of dictionary comprehension")
		if err != nil {
			return err
		}
		val, err := fb.evalCompileTime(ctx, expr.Value, "value of dictionary comprehension")
		if err != nil {
			return err
		}
		return fmterr.At(expr.Key, d.Set(key, val))
	}); err != nil {
		return nil, err
	}
	return ctValue(d), nil
}

// comprehend calls body for every combination of the generators.
// Targets are bound in a scope local to the comprehension.
func (fb *fnBuilder) comprehend(ctx stmtCtx, gens []*ast.Comprehension, body func(stmtCtx) error) error {
	if len(gens) == 0 {
		return body(ctx)
	}
	gen := gens[0]
	iter, err := fb.evalCompileTime(ctx, gen.Iter, "iterable of comprehension")
	if err != nil {
		return err
	}
	elems, err := host.IterateN(iter, int64(fb.opts.MaxUnroll))
	if err != nil {
		return fmterr.At(gen.Iter, err)
	}
	return fb.syms.Within(func() error {
		for _, el := range elems {
			if err := fb.defineTarget(ctx, gen.Target, ctValue(el)); err != nil {
				return err
			}
			keep, err := fb.filter(ctx, gen.Ifs)
			if err != nil {
				return err
			}
			if !keep {
				continue
			}
			if err := fb.comprehend(ctx, gens[1:], body); err != nil {
				return err
			}
		}
		return nil
	})
}

func (fb *fnBuilder) filter(ctx stmtCtx, conds []ast.Expr) (bool, error) {
	for _, cond := range conds {
		c, err := fb.evalCompileTime(ctx, cond, "condition of comprehension")
		if err != nil {
			return false, err
		}
		if !host.Truth(c) {
			return false, nil
		}
	}
	return true, nil
}
