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
	"strings"

	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
)

const swizzle = "xyzw"

func (fb *fnBuilder) evalAttribute(ctx stmtCtx, expr *ast.Attribute) (*value, error) {
	x, err := fb.evalExpr(ctx, expr.X)
	if err != nil {
		return nil, err
	}
	if !x.isRuntime() {
		v, err := host.Attr(x.ct, expr.Name)
		if err != nil {
			return nil, fmterr.At(expr, err)
		}
		return ctValue(v), nil
	}
	if vt, ok := x.rt.Type().(*ir.VectorType); ok {
		if expr.Name == "n" {
			return ctValue(int64(vt.Len())), nil
		}
		if i := strings.Index(swizzle, expr.Name); len(expr.Name) == 1 && i >= 0 && i < vt.Len() {
			return fb.extract(expr, x.rt, vt, i), nil
		}
	}
	return nil, fmterr.Errorf(fmterr.NameError, expr, "value of type %s has no attribute '%s'", x.rt.Type().String(), expr.Name)
}
