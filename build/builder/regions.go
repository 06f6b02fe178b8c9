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

// claim records the runtime region owning a mutable compile-time container
// and the containers it holds. A container belongs to the region of the
// first variable it is read from or, if it is a temporary, to the region
// of the expression creating it.
func (fb *fnBuilder) claim(v host.Value, region int) {
	switch vT := v.(type) {
	case *host.List:
		if _, ok := fb.owners[vT]; ok {
			return
		}
		fb.owners[vT] = region
		for _, el := range vT.Elems {
			fb.claim(el, region)
		}
	case *host.Dict:
		if _, ok := fb.owners[vT]; ok {
			return
		}
		fb.owners[vT] = region
		for key, val := range vT.Items() {
			fb.claim(key, region)
			fb.claim(val, region)
		}
	case host.Tuple:
		for _, el := range vT {
			fb.claim(el, region)
		}
	case host.Grouped:
		fb.claim(vT.X, region)
	}
}

// checkMutation returns a TypeError if a compile-time container is modified
// outside of the runtime region owning it: its content would depend on the
// execution of the program.
func (fb *fnBuilder) checkMutation(ctx stmtCtx, node ast.Node, container host.Value) error {
	switch container.(type) {
	case *host.List, *host.Dict:
	default:
		return nil
	}
	region, ok := fb.owners[container]
	if !ok || region == ctx.region {
		return nil
	}
	return fmterr.Errorf(fmterr.TypeError, node, "compile-time %s defined outside of the current runtime branch or loop cannot be modified in it", host.TypeName(container))
}
