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
	"github.com/gx-org/kernelc/build/ir/irkind"
	"github.com/gx-org/kernelc/build/symtab"
)

func (fb *fnBuilder) processAssign(ctx stmtCtx, stmt *ast.Assign) error {
	v, err := fb.evalExpr(ctx, stmt.Value)
	if err != nil {
		return err
	}
	for _, target := range stmt.Targets {
		if err := fb.assignTo(ctx, target, v); err != nil {
			return err
		}
	}
	return nil
}

func (fb *fnBuilder) assignTo(ctx stmtCtx, target ast.Expr, v *value) error {
	switch targetT := target.(type) {
	case *ast.Name:
		return fb.assignName(ctx, targetT, v)
	case *ast.Tuple:
		return fb.unpack(ctx, targetT, targetT.Elems, v, fb.assignTo)
	case *ast.List:
		return fb.unpack(ctx, targetT, targetT.Elems, v, fb.assignTo)
	case *ast.Subscript:
		return fb.assignSubscript(ctx, targetT, v)
	}
	return fmterr.Errorf(fmterr.CompileError, target, "cannot assign to %T", target)
}

// unpack assigns the elements of a value to a list of targets.
func (fb *fnBuilder) unpack(ctx stmtCtx, node ast.Node, targets []ast.Expr, v *value, assign func(stmtCtx, ast.Expr, *value) error) error {
	elems, err := fb.elements(node, v)
	if err != nil {
		return err
	}
	if len(elems) != len(targets) {
		return fmterr.Errorf(fmterr.TypeError, node, "cannot unpack %d values into %d targets", len(elems), len(targets))
	}
	for i, target := range targets {
		if err := assign(ctx, target, elems[i]); err != nil {
			return err
		}
	}
	return nil
}

// elements returns the elements of a compile-time iterable or of a runtime vector.
func (fb *fnBuilder) elements(node ast.Node, v *value) ([]*value, error) {
	if v.isRuntime() {
		vt, ok := v.rt.Type().(*ir.VectorType)
		if !ok {
			return nil, fmterr.Errorf(fmterr.TypeError, node, "cannot unpack a value of type %s", v.rt.Type().String())
		}
		return fb.vectorElements(node, v.rt, vt), nil
	}
	hvs, err := host.Iterate(v.ct)
	if err != nil {
		return nil, fmterr.Errorf(fmterr.TypeError, node, "cannot unpack non-iterable %s object", host.TypeName(v.ct))
	}
	elems := make([]*value, len(hvs))
	for i, hv := range hvs {
		elems[i] = ctValue(hv)
	}
	return elems, nil
}

func (fb *fnBuilder) assignSubscript(ctx stmtCtx, target *ast.Subscript, v *value) error {
	base, err := fb.evalExpr(ctx, target.X)
	if err != nil {
		return err
	}
	if base.isRuntime() {
		return fmterr.Errorf(fmterr.TypeError, target, "value of type %s does not support item assignment", base.rt.Type().String())
	}
	if field, ok := base.ct.(*host.Field); ok {
		acc, err := fb.fieldIndices(ctx, target, field)
		if err != nil {
			return err
		}
		return fb.fieldStore(target, acc, v)
	}
	idx, err := fb.subscriptIndex(ctx, target)
	if err != nil {
		return err
	}
	if idx.isRuntime() {
		return fmterr.Errorf(fmterr.IndexError, target, "dynamic index not permitted on %s", host.TypeName(base.ct))
	}
	if err := fb.checkMutation(ctx, target, base.ct); err != nil {
		return err
	}
	return fmterr.At(target, host.SetIndex(base.ct, idx.ct, v.host()))
}

func (fb *fnBuilder) fieldStore(node ast.Node, acc *fieldAccess, v *value) error {
	val, err := fb.assignable(node, acc.field.Name, acc.elem(), v)
	if err != nil {
		return err
	}
	fb.em.Emit(&ir.FieldStore{
		Base:    fb.em.Base(node.Position()),
		Field:   acc.field.Name,
		Indices: acc.indices,
		Val:     val,
	})
	return nil
}

// assignName binds a value to a name.
//
// A compile-time variable can only be reassigned a compile-time value and
// only in the runtime region it has been defined in. Otherwise, its value
// would depend on the execution of the program. Rebinding it to a runtime
// value in the scope defining it is a redefinition with another kind.
// A runtime variable keeps the type it has been defined with.
func (fb *fnBuilder) assignName(ctx stmtCtx, name *ast.Name, v *value) error {
	prev, ok := fb.syms.Lookup(name.ID)
	if !ok || prev.External {
		return fb.defineName(ctx, name, v)
	}
	switch {
	case prev.Kind == symtab.CompileTime && v.isRuntime():
		kind := fmterr.TypeError
		if fb.syms.IsLocal(name.ID) {
			kind = fmterr.RedefinitionError
		}
		typ := v.rt.Type().String()
		return fmterr.Errorf(kind, name, "cannot assign a runtime value of type %s to compile-time variable %s defined at %s: annotate the definition with a type (%s: %s = ...) to make it a runtime variable", typ, name.ID, prev.Pos, name.ID, typ)
	case prev.Kind == symtab.CompileTime && prev.Region != ctx.region:
		return fmterr.Errorf(fmterr.TypeError, name, "compile-time variable %s defined at %s cannot be assigned in a runtime branch or loop: annotate the definition with a type to make it a runtime variable", name.ID, prev.Pos)
	case prev.Kind == symtab.CompileTime:
		prev.Value = v.ct
		return nil
	case prev.Slot == ir.InvalidHandle:
		return fmterr.Errorf(fmterr.CompileError, name, "%s is read-only", name.ID)
	}
	op, err := fb.assignable(name, name.ID, prev.Type, v)
	if err != nil {
		return err
	}
	fb.em.Emit(&ir.LocalStore{Base: fb.em.Base(name.Pos), Var: prev.Slot, Val: op})
	return nil
}

// defineName defines a new variable in the current scope.
// The variable of a runtime value is stored in memory so that it can be reassigned.
func (fb *fnBuilder) defineName(ctx stmtCtx, name *ast.Name, v *value) error {
	if !v.isRuntime() {
		_, err := fb.syms.Define(symtab.NewCompileTime(name.ID, name.Pos, v.ct, ctx.region))
		return err
	}
	typ := v.rt.Type()
	slot := fb.alloca(name, name.ID, typ)
	fb.em.Emit(&ir.LocalStore{Base: fb.em.Base(name.Pos), Var: slot, Val: v.rt})
	_, err := fb.syms.Define(symtab.NewRuntime(name.ID, name.Pos, typ, slot, ctx.region))
	return err
}

func (fb *fnBuilder) alloca(node ast.Node, name string, typ ir.Type) ir.Handle {
	return fb.em.Emit(&ir.Alloca{
		Base: fb.em.Base(node.Position()),
		Name: fb.em.Name(name),
		Typ:  typ,
	})
}

// defineTarget binds the target of a loop or of a comprehension in the current scope.
// Runtime values are bound without being stored in memory: the variables are read-only.
func (fb *fnBuilder) defineTarget(ctx stmtCtx, target ast.Expr, v *value) error {
	switch targetT := target.(type) {
	case *ast.Name:
		var err error
		if v.isRuntime() {
			_, err = fb.syms.Define(symtab.NewRuntimeValue(targetT.ID, targetT.Pos, v.rt, ctx.region))
		} else {
			_, err = fb.syms.Define(symtab.NewCompileTime(targetT.ID, targetT.Pos, v.ct, ctx.region))
		}
		return err
	case *ast.Tuple:
		return fb.unpack(ctx, targetT, targetT.Elems, v, fb.defineTarget)
	case *ast.List:
		return fb.unpack(ctx, targetT, targetT.Elems, v, fb.defineTarget)
	}
	return fmterr.Errorf(fmterr.CompileError, target, "invalid loop target %T", target)
}

// atomicOp returns true if an augmented assignment on a field element is lowered to an atomic operation.
func atomicOp(op ast.Op, kind irkind.Kind) bool {
	switch op {
	case ast.Add, ast.Sub:
		return irkind.IsNumeric(kind)
	case ast.BitAnd, ast.BitOr, ast.BitXor:
		return irkind.IsInteger(kind)
	}
	return false
}

func (fb *fnBuilder) processAugAssign(ctx stmtCtx, stmt *ast.AugAssign) error {
	switch target := stmt.Target.(type) {
	case *ast.Name:
		x, err := fb.evalName(target)
		if err != nil {
			return err
		}
		y, err := fb.evalExpr(ctx, stmt.Value)
		if err != nil {
			return err
		}
		res, err := fb.binary(stmt, stmt.Op, x, y)
		if err != nil {
			return err
		}
		return fb.assignName(ctx, target, res)
	case *ast.Subscript:
		return fb.augAssignSubscript(ctx, stmt, target)
	}
	return fmterr.Errorf(fmterr.CompileError, stmt.Target, "cannot assign to %T", stmt.Target)
}

// augAssignSubscript updates an element of a field or of a compile-time container.
// Additions and bitwise operations on field elements are atomic.
func (fb *fnBuilder) augAssignSubscript(ctx stmtCtx, stmt *ast.AugAssign, target *ast.Subscript) error {
	base, err := fb.evalExpr(ctx, target.X)
	if err != nil {
		return err
	}
	if base.isRuntime() {
		return fmterr.Errorf(fmterr.TypeError, target, "value of type %s does not support item assignment", base.rt.Type().String())
	}
	if field, ok := base.ct.(*host.Field); ok {
		acc, err := fb.fieldIndices(ctx, target, field)
		if err != nil {
			return err
		}
		y, err := fb.evalExpr(ctx, stmt.Value)
		if err != nil {
			return err
		}
		if atomicOp(stmt.Op, field.Kind()) {
			_, err := fb.atomic(stmt, stmt.Op, acc, y)
			return err
		}
		res, err := fb.binary(stmt, stmt.Op, fb.fieldLoad(target, acc), y)
		if err != nil {
			return err
		}
		return fb.fieldStore(stmt, acc, res)
	}
	idx, err := fb.subscriptIndex(ctx, target)
	if err != nil {
		return err
	}
	if idx.isRuntime() {
		return fmterr.Errorf(fmterr.IndexError, target, "dynamic index not permitted on %s", host.TypeName(base.ct))
	}
	if err := fb.checkMutation(ctx, target, base.ct); err != nil {
		return err
	}
	cur, err := host.Index(base.ct, idx.ct)
	if err != nil {
		return fmterr.At(target, err)
	}
	y, err := fb.evalExpr(ctx, stmt.Value)
	if err != nil {
		return err
	}
	res, err := fb.binary(stmt, stmt.Op, ctValue(cur), y)
	if err != nil {
		return err
	}
	return fmterr.At(target, host.SetIndex(base.ct, idx.ct, res.host()))
}

// processAnnAssign defines a runtime variable with a fixed type.
// Without a value, the variable is initialized to zero.
func (fb *fnBuilder) processAnnAssign(ctx stmtCtx, stmt *ast.AnnAssign) error {
	ann, err := fb.evalCompileTime(ctx, stmt.Annotation, "type annotation")
	if err != nil {
		return err
	}
	typ, err := fb.check.FromAnnotation(ann)
	if err != nil {
		return fmterr.At(stmt.Annotation, err)
	}
	v := ctValue(nil)
	if stmt.Value != nil {
		if v, err = fb.evalExpr(ctx, stmt.Value); err != nil {
			return err
		}
	} else {
		zero, err := host.Convert(typ.Kind(), int64(0))
		if err != nil {
			return fmterr.At(stmt, err)
		}
		v = ctValue(zero)
	}
	name := stmt.Target
	if prev, ok := fb.syms.Lookup(name.ID); ok && fb.syms.IsLocal(name.ID) {
		return fb.redefine(ctx, stmt, prev, typ, v)
	}
	op, err := fb.assignable(stmt, name.ID, typ, v)
	if err != nil {
		return err
	}
	slot := fb.alloca(name, name.ID, typ)
	fb.em.Emit(&ir.LocalStore{Base: fb.em.Base(name.Pos), Var: slot, Val: op})
	_, err = fb.syms.Define(symtab.NewRuntime(name.ID, name.Pos, typ, slot, ctx.region))
	return err
}

// redefine processes an annotated assignment of a variable already defined in the current scope.
// The variable keeps its original type.
func (fb *fnBuilder) redefine(ctx stmtCtx, stmt *ast.AnnAssign, prev *symtab.Variable, typ ir.Type, v *value) error {
	name := stmt.Target
	if prev.Kind == symtab.CompileTime {
		return fmterr.Errorf(fmterr.RedefinitionError, name, "%s already defined as a compile-time variable at %s", name.ID, prev.Pos)
	}
	if prev.Slot == ir.InvalidHandle {
		return fmterr.Errorf(fmterr.CompileError, name, "%s is read-only", name.ID)
	}
	if _, err := fb.check.AssignValue(name.ID, prev.Type, typ); err != nil {
		return fmterr.Errorf(fmterr.TypeError, name, "cannot redefine %s of type %s defined at %s with type %s", name.ID, prev.Type.String(), prev.Pos, typ.String())
	}
	return fb.assignName(ctx, name, v)
}
