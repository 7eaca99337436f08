package typetransform

import (
	"github.com/gomlx/kernelgraph"
	"github.com/gomlx/kernelgraph/types"
	"github.com/gomlx/kernelgraph/types/shapes"
)

// objectTypeOf derives the object type of a value with no selected kernel from its abstract.
func objectTypeOf(shape shapes.Shape) types.ObjectType {
	switch {
	case !shape.Ok():
		return types.ObjectUnknown
	case shape.IsTuple():
		return types.ObjectTupleUnfold
	default:
		return types.ObjectTensor
	}
}

// RequiredInputTypes returns the object type required by each operand slot of the node, in order.
//
// They are read from the node's kernel build descriptor when it describes every operand; otherwise they
// are derived from the operands' abstracts: tuples are required unfolded and everything else as tensors.
func RequiredInputTypes(node *kernelgraph.Node) []types.ObjectType {
	if info := node.KernelInfo(); info != nil {
		if objs := info.InputsObjectType(); len(objs) == node.NumOperands() {
			return objs
		}
	}
	objs := make([]types.ObjectType, node.NumOperands())
	for i, operand := range node.Operands() {
		objs[i] = objectTypeOf(operand.Shape())
	}
	return objs
}

// OutputTypes returns the object types produced by the node.
//
// They are read from the node's kernel build descriptor when set; otherwise the object type of the
// whole value is derived from its abstract and returned as the only element.
func OutputTypes(node *kernelgraph.Node) []types.ObjectType {
	if info := node.KernelInfo(); info != nil {
		if objs := info.OutputsObjectType(); len(objs) > 0 {
			return objs
		}
	}
	return []types.ObjectType{objectTypeOf(node.Shape())}
}

// currentType is the object type of the value an operand carries into its consumer.
func currentType(operand *kernelgraph.Node) types.ObjectType {
	objs := OutputTypes(operand)
	if len(objs) == 0 {
		return types.ObjectUnknown
	}
	return objs[0]
}
