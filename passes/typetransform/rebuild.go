package typetransform

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/kernelgraph"
	"github.com/gomlx/kernelgraph/kernelinfo"
	"github.com/gomlx/kernelgraph/types"
	"github.com/pkg/errors"
)

// Rebuild creates the replacement of origin applied over newInputs (newInputs[0] is the operator node,
// possibly a new one).
//
// The new node inherits the abstract, scope, attributes and primal attributes of origin. If nodeMap is
// not nil it is updated to map origin's front-end node to the new node. The kernel build descriptor is
// derived from origin's, with the inputs reset to the new operands.
//
// Missing required fields of origin (operator, abstract) are invariant violations, returned as errors.
func Rebuild(g *kernelgraph.Graph, newInputs []*kernelgraph.Node, origin *kernelgraph.Node, nodeMap kernelgraph.NodeMap) (*kernelgraph.Node, error) {
	if g == nil || origin == nil {
		return nil, errors.Errorf("Rebuild requires a graph and an origin node, got graph=%v, origin=%s", g, origin)
	}
	if origin.Primitive() == nil {
		return nil, errors.Errorf("node %s has no operator", origin.FullName())
	}
	if !origin.Shape().Ok() {
		return nil, errors.Errorf("node %s has no abstract", origin.FullName())
	}
	newNode, err := g.NewApplication(newInputs, origin.Shape())
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to rebuild node %s", origin.FullName())
	}
	newNode.InheritFrom(origin)
	if nodeMap != nil {
		nodeMap.Update(origin, newNode)
	}
	info, err := rebuildKernelInfo(newNode, origin)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to rebuild kernel build info of node %s", origin.FullName())
	}
	newNode.WithKernelInfo(info)
	return newNode, nil
}

// rebuildKernelInfo returns a new descriptor inheriting from origin's, with the inputs description
// read from output 0 of each operand of newNode.
//
// If origin had no descriptor, its outputs are described from its abstract.
func rebuildKernelInfo(newNode, origin *kernelgraph.Node) (*kernelinfo.BuildInfo, error) {
	builder := kernelinfo.BuilderFrom(origin.KernelInfo())
	if origin.KernelInfo() == nil {
		numOutputs := origin.NumOutputs()
		formats := make([]types.Format, numOutputs)
		dts := make([]dtypes.DType, numOutputs)
		for i := range numOutputs {
			var err error
			if formats[i], err = origin.OutputFormat(i); err != nil {
				return nil, err
			}
			if dts[i], err = origin.OutputDeviceDType(i); err != nil {
				return nil, err
			}
		}
		builder.SetOutputsFormat(formats).SetOutputsDeviceType(dts)
	}

	numInputs := newNode.NumOperands()
	formats := make([]types.Format, numInputs)
	dts := make([]dtypes.DType, numInputs)
	objs := make([]types.ObjectType, numInputs)
	for i, operand := range newNode.Operands() {
		var err error
		if formats[i], err = operand.OutputFormat(0); err != nil {
			return nil, err
		}
		if dts[i], err = operand.OutputDeviceDType(0); err != nil {
			return nil, err
		}
		objs[i] = currentType(operand)
	}
	builder.SetInputsFormat(formats).SetInputsDeviceType(dts).SetInputsObjectType(objs)
	return builder.Build()
}
