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

// loopDirective configures the for loop following it.
type loopDirective struct {
	src       ast.Node
	serialize bool
	blockDim  int
}

// directive returns the loop directive of a statement,
// or nil if the statement is not a call to loop_config.
func (fb *fnBuilder) directive(ctx stmtCtx, stmt ast.Stmt) (*loopDirective, error) {
	exprStmt, ok := stmt.(*ast.ExprStmt)
	if !ok {
		return nil, nil
	}
	call, b, ok := fb.calleeBuiltin(exprStmt.X)
	if !ok || b.Name != host.LoopConfig {
		return nil, nil
	}
	if len(call.Args) > 0 {
		return nil, fmterr.Errorf(fmterr.TypeError, call, "%s() takes keyword arguments only", host.LoopConfig)
	}
	dir := &loopDirective{src: call}
	for _, kw := range call.Keywords {
		v, err := fb.evalCompileTime(ctx, kw.Value, "argument of "+host.LoopConfig+"()")
		if err != nil {
			return nil, err
		}
		switch kw.Name {
		case "serialize":
			serialize, ok := v.(bool)
			if !ok {
				return nil, fmterr.Errorf(fmterr.TypeError, kw, "serialize must be a bool, not %s", host.TypeName(v))
			}
			dir.serialize = serialize
		case "block_dim":
			_, isBool := v.(bool)
			dim, ok := host.AsInt(v)
			if !ok || isBool || dim < 0 {
				return nil, fmterr.Errorf(fmterr.TypeError, kw, "block_dim must be a non-negative int, not %s", host.Repr(v))
			}
			dir.blockDim = int(dim)
		default:
			return nil, fmterr.Errorf(fmterr.TypeError, kw, "%s() got an unexpected keyword argument '%s'", host.LoopConfig, kw.Name)
		}
	}
	return dir, nil
}

func (dir *loopDirective) serialized() bool {
	return dir != nil && dir.serialize
}

func (dir *loopDirective) dim() int {
	if dir == nil {
		return 0
	}
	return dir.blockDim
}
