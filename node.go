package kernelgraph

import (
	"fmt"
	"maps"
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/kernelgraph/internal/optypes"
	"github.com/gomlx/kernelgraph/kernelinfo"
	"github.com/gomlx/kernelgraph/types"
	"github.com/gomlx/kernelgraph/types/shapes"
	"github.com/pkg/errors"
)

// NodeKind classifies a node once, at construction.
type NodeKind int

const (
	KindInvalid NodeKind = iota

	// KindLeaf is a graph parameter or a constant.
	KindLeaf

	// KindOperator is a value node holding a *Primitive: it is the first input of applications.
	KindOperator

	// KindApplication applies an operator to operands.
	KindApplication

	// KindConstructor is an application of optypes.MakeTuple: it bundles its operands into one tuple value.
	KindConstructor
)

func (k NodeKind) String() string {
	switch k {
	case KindLeaf:
		return "Leaf"
	case KindOperator:
		return "Operator"
	case KindApplication:
		return "Application"
	case KindConstructor:
		return "Constructor"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// IndexAttr is the attribute holding the element index of optypes.TupleGetItem nodes.
const IndexAttr = "index"

// AxisAttr is the attribute holding the axis of optypes.Concat and optypes.Stack nodes.
const AxisAttr = "axis"

// Primitive is an operator referred by applications.
type Primitive struct {
	Op optypes.OpType

	// Attributes of the operator itself, shared by every application referring to it.
	Attributes map[string]any
}

// DebugInfo holds debugging information of a node.
type DebugInfo struct {
	// Location in the source program, if known.
	Location string

	// Origins are the nodes this one was derived from by a rewrite.
	Origins []*Node
}

// Node of a kernel graph: either a leaf (parameter or constant), an operator value, or an application of
// an operator over its operands.
//
// Nodes are created by the Graph. Apart from the graph edges, which Graph.Replace redirects, a node
// is not changed once fully configured: rewrites create new nodes.
type Node struct {
	graph *Graph
	id    int
	name  string // Optional name composed of letters, digits and underscore
	kind  NodeKind

	// prim is set for KindOperator nodes.
	prim *Primitive

	// value is set for constants.
	value       any
	isParameter bool

	// inputs of applications: inputs[0] is the operator node, the remaining are the operands.
	inputs []*Node

	shape            shapes.Shape
	kernelInfo       *kernelinfo.BuildInfo
	attributes       map[string]any
	primalAttributes map[string]any
	scope            string
	debug            DebugInfo
}

// Graph owning the node.
func (n *Node) Graph() *Graph { return n.graph }

// ID is unique within the graph.
func (n *Node) ID() int { return n.id }

// Name of the node, or "" if it has none.
func (n *Node) Name() string { return n.name }

// Kind of the node.
func (n *Node) Kind() NodeKind { return n.kind }

// Shape returns the abstract descriptor of the node.
// It is invalid for operator nodes.
func (n *Node) Shape() shapes.Shape { return n.shape }

// IsParameter returns whether the node is a graph parameter.
func (n *Node) IsParameter() bool { return n.kind == KindLeaf && n.isParameter }

// IsApplication returns whether the node applies an operator (constructors included).
func (n *Node) IsApplication() bool {
	return n.kind == KindApplication || n.kind == KindConstructor
}

// Value of a constant node, nil otherwise.
func (n *Node) Value() any { return n.value }

// Primitive held by an operator node, or the operator of an application.
// It returns nil for leaves.
func (n *Node) Primitive() *Primitive {
	switch n.kind {
	case KindOperator:
		return n.prim
	case KindApplication, KindConstructor:
		if len(n.inputs) == 0 || n.inputs[0] == nil {
			return nil
		}
		return n.inputs[0].prim
	}
	return nil
}

// Op returns the OpType of an application or operator node, or optypes.Invalid.
func (n *Node) Op() optypes.OpType {
	prim := n.Primitive()
	if prim == nil {
		return optypes.Invalid
	}
	return prim.Op
}

// CheckPrimitive returns whether the node is an application of the given op.
func (n *Node) CheckPrimitive(op optypes.OpType) bool {
	return n.IsApplication() && n.Op() == op
}

// IsRealKernel returns whether the node is an application denoting a schedulable compute operation.
func (n *Node) IsRealKernel() bool {
	return n.IsApplication() && n.Op().IsRealKernel()
}

// IsCallOrPartial returns whether the node is a control indirection (call or partial application).
func (n *Node) IsCallOrPartial() bool {
	return n.IsApplication() && optypes.ControlOps.Has(n.Op())
}

// Inputs returns a copy of the inputs of an application: the operator node followed by the operands.
func (n *Node) Inputs() []*Node { return slices.Clone(n.inputs) }

// OperatorNode returns the first input of an application, the node holding its Primitive.
func (n *Node) OperatorNode() *Node {
	if !n.IsApplication() || len(n.inputs) == 0 {
		return nil
	}
	return n.inputs[0]
}

// Operands returns a copy of the data inputs of an application.
func (n *Node) Operands() []*Node {
	if len(n.inputs) == 0 {
		return nil
	}
	return slices.Clone(n.inputs[1:])
}

// NumOperands returns the number of data inputs of an application.
func (n *Node) NumOperands() int {
	return max(len(n.inputs)-1, 0)
}

// Operand returns the data input at the given index.
func (n *Node) Operand(idx int) *Node {
	return n.inputs[idx+1]
}

// NumOutputs returns the number of tensors produced: the size of a tuple, or 1.
func (n *Node) NumOutputs() int {
	if n.shape.IsTuple() {
		return n.shape.TupleSize()
	}
	return 1
}

// KernelInfo returns the kernel build descriptor of the node, or nil if no kernel was selected for it.
func (n *Node) KernelInfo() *kernelinfo.BuildInfo { return n.kernelInfo }

// WithKernelInfo sets the kernel build descriptor of the node. It returns the node itself.
func (n *Node) WithKernelInfo(info *kernelinfo.BuildInfo) *Node {
	n.kernelInfo = info
	return n
}

// Attributes returns the attributes map of the node. It may be nil.
func (n *Node) Attributes() map[string]any { return n.attributes }

// Attribute returns the value of the attribute, if set.
func (n *Node) Attribute(key string) (value any, found bool) {
	value, found = n.attributes[key]
	return
}

// SetAttribute sets an attribute of the node and returns the node itself.
func (n *Node) SetAttribute(key string, value any) *Node {
	if n.attributes == nil {
		n.attributes = make(map[string]any)
	}
	n.attributes[key] = value
	return n
}

// PrimalAttributes returns the attributes of the node that are kept from the primal (forward) graph.
func (n *Node) PrimalAttributes() map[string]any { return n.primalAttributes }

// SetPrimalAttribute sets a primal attribute of the node and returns the node itself.
func (n *Node) SetPrimalAttribute(key string, value any) *Node {
	if n.primalAttributes == nil {
		n.primalAttributes = make(map[string]any)
	}
	n.primalAttributes[key] = value
	return n
}

// Scope of the node, e.g. "Default/network/dense".
func (n *Node) Scope() string { return n.scope }

// WithScope sets the scope of the node and returns the node itself.
func (n *Node) WithScope(scope string) *Node {
	n.scope = scope
	return n
}

// DebugInfo of the node.
func (n *Node) DebugInfo() DebugInfo { return n.debug }

// WithLocation sets the source location of the node and returns the node itself.
func (n *Node) WithLocation(location string) *Node {
	n.debug.Location = location
	return n
}

// InheritFrom copies every non-input metadata from origin: abstract, scope, both attribute maps
// and the debug location. origin is recorded as the debug origin of n. It returns n itself.
//
// The kernel build descriptor is not copied: it depends on the inputs.
func (n *Node) InheritFrom(origin *Node) *Node {
	n.shape = origin.shape
	n.scope = origin.scope
	n.attributes = maps.Clone(origin.attributes)
	n.primalAttributes = maps.Clone(origin.primalAttributes)
	n.debug = DebugInfo{
		Location: origin.debug.Location,
		Origins:  []*Node{origin},
	}
	return n
}

// String implements fmt.Stringer: it returns the node reference used in graph dumps, like `%3` or `%x`.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.kind == KindOperator && n.prim != nil {
		return "@" + n.prim.Op.ToText()
	}
	if n.name != "" {
		return "%" + n.name
	}
	return fmt.Sprintf("%%%d", n.id)
}

// FullName returns the node reference qualified by its scope and operator, for diagnostics.
func (n *Node) FullName() string {
	name := n.String()
	if n.IsApplication() {
		name = fmt.Sprintf("%s-op%s", n.Op().ToText(), name)
	}
	if n.scope != "" {
		name = n.scope + "/" + name
	}
	return name
}

// visitOutput follows virtual nodes without kernel info to the node and output index that really produce
// the output idx of n.
func (n *Node) visitOutput(idx int) (*Node, int, bool) {
	switch {
	case n.CheckPrimitive(optypes.TupleGetItem) && n.NumOperands() == 1:
		index, ok := n.attributes[IndexAttr].(int)
		if !ok || idx != 0 {
			return nil, 0, false
		}
		return n.Operand(0), index, true
	case n.kind == KindConstructor:
		if idx < 0 || idx >= n.NumOperands() {
			return nil, 0, false
		}
		return n.Operand(idx), 0, true
	}
	return nil, 0, false
}

// OutputFormat returns the device format of the output idx of the node.
//
// Nodes without a selected kernel produce types.DefaultFormat, except virtual tuple nodes which forward
// the format of the value they refer to.
func (n *Node) OutputFormat(idx int) (types.Format, error) {
	if n.kernelInfo != nil {
		f, err := n.kernelInfo.OutputFormat(idx)
		return f, errors.WithMessagef(err, "node %s", n.FullName())
	}
	if src, srcIdx, ok := n.visitOutput(idx); ok {
		return src.OutputFormat(srcIdx)
	}
	if idx < 0 || idx >= n.NumOutputs() {
		return "", errors.Errorf("output index %d out of range for node %s with %d outputs", idx, n.FullName(), n.NumOutputs())
	}
	return types.DefaultFormat, nil
}

// OutputDeviceDType returns the device element type of the output idx of the node.
//
// Nodes without a selected kernel use the dtype of their abstract descriptor, except virtual tuple nodes
// which forward the device type of the value they refer to.
func (n *Node) OutputDeviceDType(idx int) (dtypes.DType, error) {
	if n.kernelInfo != nil {
		dt, err := n.kernelInfo.OutputDeviceType(idx)
		return dt, errors.WithMessagef(err, "node %s", n.FullName())
	}
	if src, srcIdx, ok := n.visitOutput(idx); ok {
		return src.OutputDeviceDType(srcIdx)
	}
	if idx < 0 || idx >= n.NumOutputs() {
		return dtypes.InvalidDType, errors.Errorf("output index %d out of range for node %s with %d outputs", idx, n.FullName(), n.NumOutputs())
	}
	if n.shape.IsTuple() {
		return n.shape.TupleShapes[idx].DType, nil
	}
	return n.shape.DType, nil
}
