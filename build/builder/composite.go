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

// Displays are compile-time containers. Their elements may be runtime values.

func (fb *fnBuilder) evalTuple(ctx stmtCtx, expr *ast.Tuple) (*value, error) {
	vals, err := fb.evalExprs(ctx, expr.Elems)
	if err != nil {
		return nil, err
	}
	return ctValue(host.Tuple(hostValues(vals))), nil
}

func (fb *fnBuilder) evalList(ctx stmtCtx, expr *ast.List) (*value, error) {
	vals, err := fb.evalExprs(ctx, expr.Elems)
	if err != nil {
		return nil, err
	}
	return ctValue(&host.List{Elems: hostValues(vals)}), nil
}

func (fb *fnBuilder) evalDict(ctx stmtCtx, expr *ast.Dict) (*value, error) {
	d := host.NewDict()
	for i, keyExpr := range expr.Keys {
		key, err := fb.evalCompileTime(ctx, keyExpr, "dictionary key")
		if err != nil {
			return nil, err
		}
		val, err := fb.evalExpr(ctx, expr.Values[i])
		if err != nil {
			return nil, err
		}
		if err := d.Set(key, val.host()); err != nil {
			return nil, fmterr.At(keyExpr, err)
		}
	}
	return ctValue(d), nil
}
