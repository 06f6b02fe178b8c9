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
	"fmt"

	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
)

// evalStatic evaluates static(...). Its arguments must be compile-time values.
// A single argument is returned as is, several arguments as a tuple.
func (fb *fnBuilder) evalStatic(ctx stmtCtx, expr *ast.Call) (*value, error) {
	if len(expr.Keywords) > 0 {
		return nil, fmterr.Errorf(fmterr.CompileError, expr.Keywords[0], "%s() does not take keyword arguments", host.Static)
	}
	if len(expr.Args) == 0 {
		return nil, fmterr.Errorf(fmterr.CompileError, expr, "%s() takes at least one argument", host.Static)
	}
	vals := make([]host.Value, len(expr.Args))
	for i, arg := range expr.Args {
		var err error
		if vals[i], err = fb.evalCompileTime(ctx, arg, fmt.Sprintf("argument of %s()", host.Static)); err != nil {
			return nil, err
		}
	}
	if len(vals) == 1 {
		return ctValue(vals[0]), nil
	}
	return ctValue(host.Tuple(vals)), nil
}
