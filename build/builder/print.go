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
	"github.com/gx-org/kernelc/build/ir"
)

// processPrint emits a print statement. Compile-time arguments are printed as text.
func (fb *fnBuilder) processPrint(ctx stmtCtx, expr *ast.Call) (*value, error) {
	if err := noKeywords(expr, host.Print); err != nil {
		return nil, err
	}
	contents := make([]ir.Operand, len(expr.Args))
	for i, arg := range expr.Args {
		v, err := fb.evalExpr(ctx, arg)
		if err != nil {
			return nil, err
		}
		switch {
		case v.isRuntime():
			contents[i] = v.rt
		case host.HasRuntime(v.ct):
			return nil, fmterr.Errorf(fmterr.TypeError, arg, "cannot print a %s holding runtime values", host.TypeName(v.ct))
		default:
			contents[i] = &ir.Text{S: host.Str(v.ct)}
		}
	}
	fb.em.Emit(&ir.Print{Base: fb.em.Base(expr.Pos), Contents: contents})
	return ctValue(host.None), nil
}
