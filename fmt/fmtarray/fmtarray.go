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

// Package fmtarray formats the content of fields into strings.
//
// Elements are given already formatted, in row-major order. Fields with one
// axis are printed on a single line; fields with more axes are printed with
// one row of the last axis per line.
package fmtarray

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

const tab = "\t"

type printer struct {
	w       strings.Builder
	cells   []string
	axes    []int
	strides []int
}

func newPrinter(cells []string, axes []int) (*printer, error) {
	p := &printer{cells: cells, axes: axes, strides: make([]int, len(axes))}
	size := 1
	for i := len(axes) - 1; i >= 0; i-- {
		p.strides[i] = size
		size *= axes[i]
	}
	if size != len(cells) {
		return nil, errors.Errorf("got %d elements for axes %v of size %d", len(cells), axes, size)
	}
	return p, nil
}

func (p *printer) row(offset int) {
	n := p.axes[len(p.axes)-1]
	p.w.WriteString("{")
	p.w.WriteString(strings.Join(p.cells[offset:offset+n], ", "))
	p.w.WriteString("}")
}

// axis prints the sub-array starting at offset along a given axis.
func (p *printer) axis(indent string, axis, offset int) {
	if axis == len(p.axes)-1 {
		p.row(offset)
		return
	}
	p.w.WriteString("{\n")
	for i := range p.axes[axis] {
		p.w.WriteString(indent + tab)
		p.axis(indent+tab, axis+1, offset+i*p.strides[axis])
		p.w.WriteString(",\n")
	}
	p.w.WriteString(indent + "}")
}

func (p *printer) data() {
	if len(p.axes) == 0 {
		p.w.WriteString("(" + p.cells[0] + ")")
		return
	}
	p.axis("", 0, 0)
}

// SDataPrint returns the content of an array without its type.
func SDataPrint(cells []string, axes []int) string {
	p, err := newPrinter(cells, axes)
	if err != nil {
		return err.Error()
	}
	p.data()
	return p.w.String()
}

// Sprint returns a string representation of an array with elements of a given kind.
func Sprint(kind irkind.Kind, cells []string, axes []int) string {
	p, err := newPrinter(cells, axes)
	if err != nil {
		return err.Error()
	}
	for _, n := range axes {
		fmt.Fprintf(&p.w, "[%d]", n)
	}
	p.w.WriteString(kind.String())
	p.data()
	return p.w.String()
}
