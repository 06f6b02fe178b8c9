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
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
)

const defaultAssertMsg = "assertion failed"

// processAssert compiles an assertion to a runtime trap.
// Outside of debug mode, nothing is evaluated, including the message.
func (fb *fnBuilder) processAssert(ctx stmtCtx, stmt *ast.Assert) error {
	if !fb.opts.Debug {
		return nil
	}
	test, err := fb.evalExpr(ctx, stmt.Test)
	if err != nil {
		return err
	}
	if !test.isRuntime() && host.Truth(test.ct) {
		return nil
	}
	cond, err := fb.truth(stmt.Test, test)
	if err != nil {
		return err
	}
	msg := defaultAssertMsg
	var args []ir.Operand
	if stmt.Msg != nil {
		m, err := fb.evalExpr(ctx, stmt.Msg)
		if err != nil {
			return err
		}
		if m.isRuntime() {
			args = append(args, m.rt)
		} else {
			msg = host.Str(m.ct)
		}
	}
	fb.em.Emit(&ir.Assert{
		Base: fb.em.Base(stmt.Pos),
		Cond: cond,
		Msg:  msg,
		Args: args,
	})
	return nil
}
