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

import "github.com/gx-org/kernelc/build/ast"

// evalNamedExpr binds the value to the target and returns it.
func (fb *fnBuilder) evalNamedExpr(ctx stmtCtx, expr *ast.NamedExpr) (*value, error) {
	v, err := fb.evalExpr(ctx, expr.Value)
	if err != nil {
		return nil, err
	}
	if err := fb.assignName(ctx, expr.Target, v); err != nil {
		return nil, err
	}
	return v, nil
}
