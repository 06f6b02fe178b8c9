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

package interp

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/ir/irkind"
	"github.com/gx-org/kernelc/fmt/fmtarray"
)

// Field is the storage of a field.
// The active coordinates of a sparse field are the coordinates written to.
type Field struct {
	info   ir.FieldInfo
	elem   *ir.ScalarType
	data   []Value
	active map[int]bool
}

// NewField allocates the storage of a field. All elements are zero.
func NewField(info ir.FieldInfo) *Field {
	elem := ir.TypeFromKind(irkind.FromDType(info.Shape.DType))
	f := &Field{
		info: info,
		elem: elem,
		data: make([]Value, info.Shape.Size()),
	}
	for i := range f.data {
		f.data[i] = zeroKind(elem.Kind())
	}
	if info.Sparse {
		f.active = make(map[int]bool)
	}
	return f
}

// Info returns the description of the field.
func (f *Field) Info() ir.FieldInfo {
	return f.info
}

func (f *Field) offset(idx []int64) (int, error) {
	axes := f.info.Shape.AxisLengths
	if len(idx) != len(axes) {
		return 0, fmterr.Errorf(fmterr.IndexError, nil, "field %s has %d axes, got %d indices", f.info.Name, len(axes), len(idx))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= int64(axes[i]) {
			return 0, fmterr.Errorf(fmterr.IndexError, nil, "index %d out of bounds for axis %d of field %s with size %d", x, i, f.info.Name, axes[i])
		}
		off = off*axes[i] + int(x)
	}
	return off, nil
}

func (f *Field) coords(off int) []int64 {
	axes := f.info.Shape.AxisLengths
	idx := make([]int64, len(axes))
	for i := len(axes) - 1; i >= 0; i-- {
		idx[i] = int64(off % axes[i])
		off /= axes[i]
	}
	return idx
}

// At returns the element of the field at some coordinates.
func (f *Field) At(idx ...int64) (Value, error) {
	off, err := f.offset(idx)
	if err != nil {
		return nil, err
	}
	return f.data[off], nil
}

// Set converts a Go value into the element type of the field and stores it.
func (f *Field) Set(v any, idx ...int64) error {
	val, err := FromGo(f.elem, v)
	if err != nil {
		return errors.Wrapf(err, "cannot set element of field %s", f.info.Name)
	}
	return f.store(val, idx)
}

func (f *Field) store(val Value, idx []int64) error {
	off, err := f.offset(idx)
	if err != nil {
		return err
	}
	f.data[off] = val
	if f.active != nil {
		f.active[off] = true
	}
	return nil
}

// Active returns the active coordinates of the field in row-major order.
func (f *Field) Active() [][]int64 {
	var offs []int
	if f.active == nil {
		offs = make([]int, len(f.data))
		for i := range offs {
			offs[i] = i
		}
	} else {
		for off := range f.active {
			offs = append(offs, off)
		}
		slices.Sort(offs)
	}
	idx := make([][]int64, len(offs))
	for i, off := range offs {
		idx[i] = f.coords(off)
	}
	return idx
}

// Values returns a copy of the elements of the field in row-major order.
func (f *Field) Values() []Value {
	return slices.Clone(f.data)
}

func (f *Field) compatible(info ir.FieldInfo) error {
	if f.info.Sparse != info.Sparse ||
		f.info.Shape.DType != info.Shape.DType ||
		!slices.Equal(f.info.Shape.AxisLengths, info.Shape.AxisLengths) {
		return errors.Errorf("field %s: storage %s does not match declaration %s", info.Name, f.info.String(), info.String())
	}
	return nil
}

// String returns the content of the field. Inactive elements of sparse fields are printed as _.
func (f *Field) String() string {
	cells := make([]string, len(f.data))
	for i, v := range f.data {
		if f.active != nil && !f.active[i] {
			cells[i] = "_"
			continue
		}
		cells[i] = Format(v)
	}
	return f.info.Name + fmtarray.Sprint(f.elem.Kind(), cells, f.info.Shape.AxisLengths)
}
