// Package shapeinference calculates the shape resulting from operations and validates its inputs.
//
// The kernel graph builder uses it to set the abstract descriptor of the nodes it creates, including the
// element-access nodes synthesized when tuples are unfolded.
//
// Unary operations don't change the shape, binary operations use the standard broadcasting rules, and
// the variadic operations (AddN, Concat, Stack) accept their operands either as separate tensors or
// as a single (possibly nested) tuple, so a node's shape is the same before and after its tuple
// operands are unfolded.
package shapeinference

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/kernelgraph/internal/optypes"
	"github.com/gomlx/kernelgraph/types/shapes"
	"github.com/pkg/errors"
)

// BinaryOp returns the expected output shape for ops in the optypes.BinaryOps set.
//
// It returns an error if the data type (shape.DType) is invalid for the operation -- e.g.: non-matching
// dtypes, or dimensions that can't be broadcast.
func BinaryOp(opType optypes.OpType, lhsShape, rhsShape shapes.Shape) (output shapes.Shape, err error) {
	if !optypes.BinaryOps.Has(opType) {
		err = errors.Errorf("operation %s is not in the BinaryOps set, cannot process it with BinaryOp", opType)
		return
	}
	if lhsShape.DType == dtypes.InvalidDType || rhsShape.DType == dtypes.InvalidDType {
		err = errors.Errorf("invalid shape for %s or %s for %q", lhsShape, rhsShape, opType)
		return
	}
	if lhsShape.DType != rhsShape.DType {
		err = errors.Errorf("dtypes for %q must match, got %s and %s", opType, lhsShape, rhsShape)
		return
	}
	if !(lhsShape.DType.IsInt() || lhsShape.DType.IsFloat() || lhsShape.DType.IsComplex()) {
		err = errors.Errorf("numeric BinaryOp %s must have a number (Int32, Float32, Complex64, ...) data type as input, got %s", opType, lhsShape)
		return
	}
	return binaryOpImpl(opType, lhsShape, rhsShape)
}

func binaryOpImpl(opType optypes.OpType, lhsShape, rhsShape shapes.Shape) (output shapes.Shape, err error) {
	// Trivial cases: if one of the sides is a scalar, return the other side shape.
	if lhsShape.IsScalar() {
		return rhsShape, nil
	}
	if rhsShape.IsScalar() {
		return lhsShape, nil
	}

	// Other cases, either the dimensions match or one of them is 1.
	if lhsShape.Rank() != rhsShape.Rank() {
		err = errors.Errorf("if operands are not scalars, their rank must match for BinaryOp (%s), got shapes %s and %s",
			opType, lhsShape, rhsShape)
		return
	}
	output = lhsShape.Clone()
	for axis := range output.Rank() {
		lhsDim := lhsShape.Dimensions[axis]
		rhsDim := rhsShape.Dimensions[axis]
		if lhsDim != 1 && rhsDim != 1 && lhsDim != rhsDim {
			err = errors.Errorf("dimension of axis #%d doesn't match and cannot be broadcast for BinaryOp (%s), got shapes %s and %s",
				axis, opType, lhsShape, rhsShape)
			return
		}
		output.Dimensions[axis] = max(lhsDim, rhsDim)
	}
	return
}

// UnaryOp checks the validity of the data type for unary operations, which don't change the shape.
func UnaryOp(opType optypes.OpType, operand shapes.Shape) (output shapes.Shape, err error) {
	if !optypes.UnaryOps.Has(opType) {
		err = errors.Errorf("operation %s is not in the UnaryOps set, cannot process it with UnaryOp", opType)
		return
	}
	if operand.DType == dtypes.InvalidDType {
		err = errors.Errorf("invalid shape %s for UnaryOp %s", operand, opType)
		return
	}
	if opType == optypes.Negate && (operand.DType.IsUnsigned() ||
		!(operand.DType.IsInt() || operand.DType.IsFloat() || operand.DType.IsComplex())) {
		err = errors.Errorf("signed UnaryOp %s must have a signed data type as input, got %s", opType, operand)
		return
	}
	switch opType {
	case optypes.Exp, optypes.Log, optypes.Sqrt, optypes.Tanh:
		if !(operand.DType.IsFloat() || operand.DType.IsComplex()) {
			err = errors.Errorf("float/complex UnaryOp %s must have a float or complex (Float32, Complex64, ...) data type as input, got %s", opType, operand)
			return
		}
	}

	// Special cases:
	if opType == optypes.Abs && operand.DType.IsComplex() {
		// Abs(complex) -> real.
		output = operand.Clone()
		output.DType = operand.DType.RealDType()
		return
	}

	// Default: output shape is the same as the operand.
	output = operand
	return
}

// FlattenTuple returns the leaf (non-tuple) shapes of shape, in order.
// A non-tuple shape returns itself.
func FlattenTuple(shape shapes.Shape) []shapes.Shape {
	if !shape.IsTuple() {
		return []shapes.Shape{shape}
	}
	var leaves []shapes.Shape
	for _, element := range shape.TupleShapes {
		leaves = append(leaves, FlattenTuple(element)...)
	}
	return leaves
}

// flattenOperands expands tuple operands into their leaf shapes, in order.
func flattenOperands(operands []shapes.Shape) []shapes.Shape {
	flat := make([]shapes.Shape, 0, len(operands))
	for _, operand := range operands {
		flat = append(flat, FlattenTuple(operand)...)
	}
	return flat
}

// AddN returns the shape of the element-wise sum of all operands, which must have the same shape.
// Operands can be given as separate tensors or as tuples of tensors.
func AddN(operands []shapes.Shape) (output shapes.Shape, err error) {
	inputs := flattenOperands(operands)
	if len(inputs) == 0 {
		return shapes.Invalid(), errors.Errorf("AddN requires at least one input shape")
	}
	output = inputs[0]
	if !output.Ok() {
		return shapes.Invalid(), errors.Errorf("invalid shape %s for first input of AddN", output)
	}
	for i, input := range inputs[1:] {
		if !input.Equal(output) {
			return shapes.Invalid(), errors.Errorf("AddN requires all inputs to have the same shape, input #0 has %s, input #%d has %s",
				output, i+1, input)
		}
	}
	return output, nil
}

// Concatenate returns the shape of the concatenation of the inputs along the given axis.
// Operands can be given as separate tensors or as tuples of tensors.
func Concatenate(operands []shapes.Shape, axis int) (output shapes.Shape, err error) {
	inputs := flattenOperands(operands)
	if len(inputs) == 0 {
		return shapes.Invalid(), errors.Errorf("Concatenate requires at least one input shape")
	}

	// Initialize output dimensions with the first shape.
	firstShape := inputs[0]
	dtype := firstShape.DType
	rank := firstShape.Rank()
	output = firstShape.Clone()
	if dtype == dtypes.InvalidDType {
		return shapes.Invalid(), errors.Errorf("invalid shape %s for first input of Concatenate", firstShape)
	}
	if len(inputs) == 1 {
		return firstShape, nil
	}

	axis, err = AdjustAxisToRank(axis, rank)
	if err != nil {
		return shapes.Invalid(), errors.WithMessage(err, "invalid concatenation axis")
	}

	// Validate further inputs and accumulate the concatenation axis size.
	for i := 1; i < len(inputs); i++ {
		currentShape := inputs[i]
		if currentShape.DType == dtypes.InvalidDType {
			return shapes.Invalid(), errors.Errorf("invalid shape %s for input #%d of Concatenate", currentShape, i)
		}
		if currentShape.DType != dtype {
			return shapes.Invalid(), errors.Errorf("mismatched DTypes for Concatenate: input #0 has %s, input #%d has %s",
				dtype, i, currentShape.DType)
		}
		if currentShape.Rank() != rank {
			return shapes.Invalid(), errors.Errorf("mismatched ranks for Concatenate: input #0 has rank %d, input #%d has rank %d",
				rank, i, currentShape.Rank())
		}

		for d := 0; d < rank; d++ {
			if d == axis {
				output.Dimensions[d] += currentShape.Dimensions[d]
			} else {
				if currentShape.Dimensions[d] != output.Dimensions[d] {
					return shapes.Invalid(), errors.Errorf("mismatched dimensions for Concatenate at axis %d (non-concatenation axis): input #0 has %d, input #%d has %d",
						d, output.Dimensions[d], i, currentShape.Dimensions[d])
				}
			}
		}
	}
	return output, nil
}

// Stack returns the shape of stacking the inputs along a new axis.
// Operands can be given as separate tensors or as tuples of tensors.
func Stack(operands []shapes.Shape, axis int) (output shapes.Shape, err error) {
	inputs := flattenOperands(operands)
	if len(inputs) == 0 {
		return shapes.Invalid(), errors.Errorf("Stack requires at least one input shape")
	}
	first := inputs[0]
	if !first.Ok() {
		return shapes.Invalid(), errors.Errorf("invalid shape %s for first input of Stack", first)
	}
	for i, input := range inputs[1:] {
		if !input.Equal(first) {
			return shapes.Invalid(), errors.Errorf("Stack requires all inputs to have the same shape, input #0 has %s, input #%d has %s",
				first, i+1, input)
		}
	}
	axis, err = AdjustAxisToRank(axis, first.Rank()+1)
	if err != nil {
		return shapes.Invalid(), errors.WithMessage(err, "invalid stack axis")
	}
	dims := make([]int, 0, first.Rank()+1)
	dims = append(dims, first.Dimensions[:axis]...)
	dims = append(dims, len(inputs))
	dims = append(dims, first.Dimensions[axis:]...)
	return shapes.Make(first.DType, dims...), nil
}

// MakeTuple returns the tuple shape of the given elements.
func MakeTuple(elements []shapes.Shape) (output shapes.Shape, err error) {
	for i, element := range elements {
		if !element.Ok() {
			return shapes.Invalid(), errors.Errorf("invalid shape %s for element #%d of MakeTuple", element, i)
		}
	}
	return shapes.MakeTuple(elements...), nil
}

// TupleGetItem returns the shape of the element at index of the tuple.
func TupleGetItem(tuple shapes.Shape, index int) (output shapes.Shape, err error) {
	if !tuple.IsTuple() {
		return shapes.Invalid(), errors.Errorf("TupleGetItem requires a tuple, got %s", tuple)
	}
	if index < 0 || index >= tuple.TupleSize() {
		return shapes.Invalid(), errors.Errorf("TupleGetItem index %d out of range for tuple of size %d (%s)",
			index, tuple.TupleSize(), tuple)
	}
	return tuple.TupleShapes[index].Clone(), nil
}

// AdjustAxisToRank returns a positive axis, adjusting negative numbers to the correct rank.
func AdjustAxisToRank(axis, rank int) (int, error) {
	if axis < -rank || axis >= rank {
		return -1, errors.Errorf("axis %d is out of range for the rank %d", axis, rank)
	}
	if axis < 0 {
		axis += rank
	}
	return axis, nil
}
