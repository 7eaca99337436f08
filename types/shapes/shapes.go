/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package shapes defines Shape, the abstract descriptor attached to every node of a kernel graph.
//
// A Shape is either a tensor shape (a DType plus Dimensions) or a tuple of other shapes.
// Sparse tensors are tuples of their components (e.g. indices, values and dense shape) tagged
// with their SparseFormat.
package shapes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/kernelgraph/internal/utils"
	"github.com/pkg/errors"
)

// SparseFormat tags a tuple shape as a sparse tensor container.
type SparseFormat int

const (
	// NotSparse is the default for dense tensors and plain tuples.
	NotSparse SparseFormat = iota
	COO
	CSR
	RowTensor
)

func (f SparseFormat) String() string {
	switch f {
	case NotSparse:
		return "dense"
	case COO:
		return "coo"
	case CSR:
		return "csr"
	case RowTensor:
		return "row"
	}
	return fmt.Sprintf("SparseFormat(%d)", int(f))
}

// Shape represents the shape of either a tensor or a tuple of shapes.
//
// For tuples, DType is dtypes.InvalidDType and TupleShapes is non-nil (possibly empty).
type Shape struct {
	DType       dtypes.DType
	Dimensions  []int
	TupleShapes []Shape
	Sparse      SparseFormat
}

// Make returns a Shape structure filled with the values given.
func Make(dtype dtypes.DType, dimensions ...int) Shape {
	s := Shape{DType: dtype, Dimensions: slices.Clone(dimensions)}
	for _, dim := range dimensions {
		if dim <= 0 {
			panic(errors.Errorf("shapes.Make(%v): cannot create a shape with an axis with dimension <= 0", s))
		}
	}
	return s
}

// MakeTuple returns a tuple shape with the given element shapes.
func MakeTuple(elements ...Shape) Shape {
	tuple := Shape{DType: dtypes.InvalidDType, TupleShapes: make([]Shape, len(elements))}
	for i, e := range elements {
		tuple.TupleShapes[i] = e.Clone()
	}
	return tuple
}

// MakeSparse returns a tuple shape of the given components tagged as a sparse tensor of the given format.
func MakeSparse(format SparseFormat, components ...Shape) Shape {
	s := MakeTuple(components...)
	s.Sparse = format
	return s
}

// Invalid returns an invalid shape: it is used to mark a missing abstract descriptor.
func Invalid() Shape {
	return Shape{DType: dtypes.InvalidDType}
}

// Ok returns whether this is a valid Shape.
func (s Shape) Ok() bool { return s.DType != dtypes.InvalidDType || s.TupleShapes != nil }

// IsScalar returns whether the shape represents a scalar, that is there are no dimensions (rank=0).
func (s Shape) IsScalar() bool { return !s.IsTuple() && s.Ok() && len(s.Dimensions) == 0 }

// IsTuple returns whether the shape represents a tuple (sparse containers included).
func (s Shape) IsTuple() bool { return s.DType == dtypes.InvalidDType && s.TupleShapes != nil }

// IsSparse returns whether the shape represents a sparse tensor container.
func (s Shape) IsSparse() bool { return s.IsTuple() && s.Sparse != NotSparse }

// TupleSize returns the number of elements in the tuple, or 0 if it is not a tuple.
func (s Shape) TupleSize() int {
	if !s.IsTuple() {
		return 0
	}
	return len(s.TupleShapes)
}

// Rank of the shape, that is, the number of dimensions.
func (s Shape) Rank() int { return len(s.Dimensions) }

// Dim returns the dimension of the given axis. axis can take negative numbers, in which
// case it counts as starting from the end -- so axis=-1 refers to the last axis.
//
// It panics if axis is out of range.
func (s Shape) Dim(axis int) int {
	adjustedAxis := axis
	if axis < 0 {
		adjustedAxis = s.Rank() + axis
	}
	if adjustedAxis < 0 || adjustedAxis >= s.Rank() {
		panic(errors.Errorf("Shape.Dim(%d) out-of-bounds for rank %d (shape=%s)", axis, s.Rank(), s))
	}
	return s.Dimensions[adjustedAxis]
}

// Size returns the number of elements of DType are needed for this shape. It's the product of all dimensions.
//
// For tuples it returns the sum of the sizes of its elements.
func (s Shape) Size() (size int) {
	if s.IsTuple() {
		for _, e := range s.TupleShapes {
			size += e.Size()
		}
		return
	}
	size = 1
	for _, d := range s.Dimensions {
		size *= d
	}
	return
}

// Memory returns the number of bytes for that would be used to store the shape.
func (s Shape) Memory() uintptr {
	if s.IsTuple() {
		var total uintptr
		for _, e := range s.TupleShapes {
			total += e.Memory()
		}
		return total
	}
	return uintptr(s.DType.Size()) * uintptr(s.Size())
}

// Equal compares two shapes for equality: dtype, dimensions, sparse format and tuple elements are compared.
func (s Shape) Equal(s2 Shape) bool {
	if s.DType != s2.DType || s.Sparse != s2.Sparse || s.IsTuple() != s2.IsTuple() {
		return false
	}
	if s.IsTuple() {
		if len(s.TupleShapes) != len(s2.TupleShapes) {
			return false
		}
		for i := range s.TupleShapes {
			if !s.TupleShapes[i].Equal(s2.TupleShapes[i]) {
				return false
			}
		}
		return true
	}
	return slices.Equal(s.Dimensions, s2.Dimensions)
}

// Clone returns a new deep copy of the shape.
func (s Shape) Clone() (s2 Shape) {
	s2.DType = s.DType
	s2.Sparse = s.Sparse
	s2.Dimensions = slices.Clone(s.Dimensions)
	if s.TupleShapes != nil {
		s2.TupleShapes = make([]Shape, len(s.TupleShapes))
		for i, e := range s.TupleShapes {
			s2.TupleShapes[i] = e.Clone()
		}
	}
	return
}

// Check that the shape has the given dtype and dimensions, and return an error otherwise.
func (s Shape) Check(dtype dtypes.DType, dimensions ...int) error {
	if s.IsTuple() {
		return errors.Errorf("shape %s is a tuple, wanted (%s)%v", s, dtype, dimensions)
	}
	if s.DType != dtype || !slices.Equal(s.Dimensions, dimensions) {
		return errors.Errorf("shape %s doesn't match wanted (%s)%v", s, dtype, dimensions)
	}
	return nil
}

// String implements fmt.Stringer.
func (s Shape) String() string {
	if s.IsTuple() {
		parts := make([]string, len(s.TupleShapes))
		for i, e := range s.TupleShapes {
			parts[i] = e.String()
		}
		prefix := "Tuple"
		if s.IsSparse() {
			prefix = fmt.Sprintf("Sparse[%s]", s.Sparse)
		}
		return fmt.Sprintf("%s<%s>", prefix, strings.Join(parts, ", "))
	}
	if s.DType == dtypes.InvalidDType {
		return "(Invalid)"
	}
	if len(s.Dimensions) == 0 {
		return fmt.Sprintf("(%s)", s.DType)
	}
	return fmt.Sprintf("(%s)%v", s.DType, s.Dimensions)
}

// ToText returns the textual representation used when dumping graphs, e.g. "tensor<1x10xf32>"
// or "tuple<tensor<f32>, tensor<3xi32>>".
func (s Shape) ToText() string {
	if s.IsTuple() {
		parts := make([]string, len(s.TupleShapes))
		for i, e := range s.TupleShapes {
			parts[i] = e.ToText()
		}
		if s.IsSparse() {
			return fmt.Sprintf("sparse<%s, %s>", s.Sparse, strings.Join(parts, ", "))
		}
		return fmt.Sprintf("tuple<%s>", strings.Join(parts, ", "))
	}
	var sb strings.Builder
	sb.WriteString("tensor<")
	for _, dim := range s.Dimensions {
		fmt.Fprintf(&sb, "%dx", dim)
	}
	sb.WriteString(utils.DTypeToText(s.DType))
	sb.WriteString(">")
	return sb.String()
}
