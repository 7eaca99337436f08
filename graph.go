package kernelgraph

import (
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/kernelgraph/internal/optypes"
	"github.com/gomlx/kernelgraph/shapeinference"
	"github.com/gomlx/kernelgraph/types/shapes"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Graph is a dataflow graph of kernel nodes. It owns all its nodes.
//
// A Graph is not safe for concurrent use: passes mutate it sequentially.
type Graph struct {
	name string

	// nodes holds all the nodes created in the graph, in creation order.
	nodes []*Node

	// parameters of the graph, in creation order.
	parameters []*Node

	// output is the Return node, once Graph.Return is called.
	output *Node

	// nodeMap is only set for kernel graphs, that keep track of the front-end nodes they were built from.
	nodeMap NodeMap

	// nextID is the next ID to be assigned to a new node.
	nextID int
}

// New creates a new empty Graph.
func New(name string) *Graph {
	return &Graph{name: name}
}

// Name of the graph.
func (g *Graph) Name() string { return g.name }

// WithNodeMap makes the graph a kernel graph, whose node replacements are reported to m.
func (g *Graph) WithNodeMap(m NodeMap) *Graph {
	g.nodeMap = m
	return g
}

// NodeMap returns the map of front-end to kernel graph nodes, or nil if the graph doesn't keep one.
func (g *Graph) NodeMap() NodeMap { return g.nodeMap }

// Nodes returns all the nodes ever created in the graph, in creation order, including the ones
// no longer reachable from the output.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Parameters returns the parameters of the graph, in creation order.
func (g *Graph) Parameters() []*Node { return slices.Clone(g.parameters) }

// Output returns the Return node of the graph, or nil if Graph.Return was not called yet.
func (g *Graph) Output() *Node { return g.output }

func (g *Graph) newNode(kind NodeKind) *Node {
	n := &Node{
		graph: g,
		id:    g.nextID,
		kind:  kind,
		shape: shapes.Invalid(),
	}
	g.nextID++
	g.nodes = append(g.nodes, n)
	return n
}

// Parameter creates a new named input parameter of the graph.
func (g *Graph) Parameter(name string, shape shapes.Shape) *Node {
	n := g.newNode(KindLeaf)
	n.name = NormalizeIdentifier(name)
	n.isParameter = true
	n.shape = shape
	g.parameters = append(g.parameters, n)
	return n
}

// Constant creates a new scalar or tensor constant from a Go value (a scalar or a possibly multi-level slice
// of a supported data type, float16.Float16 included).
func (g *Graph) Constant(value any) (*Node, error) {
	shape, err := shapes.FromAnyValue(value)
	if err != nil {
		return nil, errors.WithMessagef(err, "Graph(%q).Constant", g.name)
	}
	if shape.DType == dtypes.InvalidDType {
		return nil, errors.Errorf("unsupported constant value type %T", value)
	}
	n := g.newNode(KindLeaf)
	n.value = value
	n.shape = shape
	return n, nil
}

// Operator creates a new operator value node holding a Primitive for op.
func (g *Graph) Operator(op optypes.OpType) *Node {
	n := g.newNode(KindOperator)
	n.prim = &Primitive{Op: op}
	return n
}

// checkOperands returns an error if any of the operands is nil or owned by another graph.
func (g *Graph) checkOperands(op optypes.OpType, operands []*Node) error {
	for i, operand := range operands {
		if operand == nil {
			return errors.Errorf("cannot add operation %s to graph %q, operand #%d is nil", op, g.name, i)
		}
		if operand.graph != g {
			return errors.Errorf("cannot add operation %s to graph %q, because operand #%d (%s) is not part of the graph",
				op, g.name, i, operand)
		}
		if operand.kind == KindOperator {
			return errors.Errorf("cannot add operation %s to graph %q, operand #%d (%s) is an operator, not a value",
				op, g.name, i, operand)
		}
	}
	return nil
}

// NewApplication creates an application node from the raw list of inputs: inputs[0] must be an operator node,
// and the remaining are the operands. The shape is not inferred: it is used as given.
//
// This is what passes use to rebuild a node with a new decomposition of its inputs.
func (g *Graph) NewApplication(inputs []*Node, shape shapes.Shape) (*Node, error) {
	if len(inputs) == 0 || inputs[0] == nil {
		return nil, errors.Errorf("graph %q: application requires an operator node as its first input", g.name)
	}
	opNode := inputs[0]
	if opNode.kind != KindOperator || opNode.prim == nil {
		return nil, errors.Errorf("graph %q: first input of an application must be an operator node, got %s (%s)",
			g.name, opNode, opNode.kind)
	}
	if opNode.graph != g {
		return nil, errors.Errorf("graph %q: operator node %s is not part of the graph", g.name, opNode)
	}
	if err := g.checkOperands(opNode.prim.Op, inputs[1:]); err != nil {
		return nil, err
	}
	kind := KindApplication
	if opNode.prim.Op == optypes.MakeTuple {
		kind = KindConstructor
	}
	n := g.newNode(kind)
	n.inputs = slices.Clone(inputs)
	n.shape = shape
	return n, nil
}

// ApplyWithShape creates a new application of op over the operands, with the given output shape.
// Use it for operations without shape inference (custom kernels, control ops, etc.).
func (g *Graph) ApplyWithShape(op optypes.OpType, shape shapes.Shape, operands ...*Node) (*Node, error) {
	if err := g.checkOperands(op, operands); err != nil {
		return nil, err
	}
	inputs := make([]*Node, 0, len(operands)+1)
	inputs = append(inputs, g.Operator(op))
	inputs = append(inputs, operands...)
	return g.NewApplication(inputs, shape)
}

// Apply creates a new application of op over the operands, inferring its output shape.
func (g *Graph) Apply(op optypes.OpType, operands ...*Node) (*Node, error) {
	if err := g.checkOperands(op, operands); err != nil {
		return nil, err
	}
	operandShapes := make([]shapes.Shape, len(operands))
	for i, operand := range operands {
		operandShapes[i] = operand.shape
	}
	var shape shapes.Shape
	var err error
	switch {
	case optypes.UnaryOps.Has(op):
		if len(operands) != 1 {
			return nil, errors.Errorf("operation %s takes 1 operand, got %d", op, len(operands))
		}
		shape, err = shapeinference.UnaryOp(op, operandShapes[0])
	case optypes.BinaryOps.Has(op):
		if len(operands) != 2 {
			return nil, errors.Errorf("operation %s takes 2 operands, got %d", op, len(operands))
		}
		shape, err = shapeinference.BinaryOp(op, operandShapes[0], operandShapes[1])
	case op == optypes.AddN:
		shape, err = shapeinference.AddN(operandShapes)
	case op == optypes.Concat:
		shape, err = shapeinference.Concatenate(operandShapes, 0)
	case op == optypes.Stack:
		shape, err = shapeinference.Stack(operandShapes, 0)
	case op == optypes.MakeTuple:
		shape, err = shapeinference.MakeTuple(operandShapes)
	case op == optypes.Depend && len(operands) > 0:
		shape = operandShapes[0]
	default:
		return nil, errors.Errorf("no shape inference for operation %s, use Graph.ApplyWithShape", op)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "Graph(%q).Apply(%s)", g.name, op)
	}
	n, err := g.ApplyWithShape(op, shape, operands...)
	if err != nil {
		return nil, err
	}
	if op == optypes.Concat || op == optypes.Stack {
		n.SetAttribute(AxisAttr, 0)
	}
	return n, nil
}

// MakeTuple creates a tuple constructor node over the given elements.
func (g *Graph) MakeTuple(elements ...*Node) (*Node, error) {
	return g.Apply(optypes.MakeTuple, elements...)
}

// TupleGetItem creates a node projecting the element index of the tuple-valued node.
func (g *Graph) TupleGetItem(tuple *Node, index int) (*Node, error) {
	if err := g.checkOperands(optypes.TupleGetItem, []*Node{tuple}); err != nil {
		return nil, err
	}
	shape, err := shapeinference.TupleGetItem(tuple.shape, index)
	if err != nil {
		return nil, errors.WithMessagef(err, "Graph(%q).TupleGetItem(%s, %d)", g.name, tuple, index)
	}
	n, err := g.ApplyWithShape(optypes.TupleGetItem, shape, tuple)
	if err != nil {
		return nil, err
	}
	n.SetAttribute(IndexAttr, index)
	return n, nil
}

// Return sets the output of the graph. Multiple values are returned as a tuple.
// It can only be called once.
func (g *Graph) Return(values ...*Node) (*Node, error) {
	if g.output != nil {
		return nil, errors.Errorf("Graph(%q).Return already called", g.name)
	}
	if len(values) == 0 {
		return nil, errors.Errorf("Graph(%q).Return requires at least one value", g.name)
	}
	value := values[0]
	if len(values) > 1 {
		var err error
		value, err = g.MakeTuple(values...)
		if err != nil {
			return nil, err
		}
	}
	if err := g.checkOperands(optypes.Return, []*Node{value}); err != nil {
		return nil, err
	}
	ret, err := g.ApplyWithShape(optypes.Return, value.shape, value)
	if err != nil {
		return nil, err
	}
	g.output = ret
	return ret, nil
}

// TopoSort returns the nodes reachable from the output in the canonical traversal order: operands
// before their users. Operator nodes are included, right before the application using them.
//
// If Graph.Return was not called, all the nodes of the graph are sorted.
func (g *Graph) TopoSort() []*Node {
	visited := make(map[*Node]bool, len(g.nodes))
	order := make([]*Node, 0, len(g.nodes))
	var visit func(n *Node)
	visit = func(n *Node) {
		if n == nil || visited[n] {
			return
		}
		visited[n] = true
		for _, input := range n.inputs {
			visit(input)
		}
		order = append(order, n)
	}
	if g.output != nil {
		visit(g.output)
	} else {
		for _, n := range g.nodes {
			visit(n)
		}
	}
	return order
}

// Users returns the applications using n as an input, in creation order.
func (g *Graph) Users(n *Node) []*Node {
	var users []*Node
	for _, user := range g.nodes {
		if slices.Contains(user.inputs, n) {
			users = append(users, user)
		}
	}
	return users
}

// Replace redirects every use of oldNode to newNode, and returns the number of use-sites changed.
//
// oldNode is left in the graph, unreachable if it had no other uses.
func (g *Graph) Replace(oldNode, newNode *Node) (int, error) {
	if oldNode == nil || newNode == nil {
		return 0, errors.Errorf("Graph(%q).Replace(%s, %s): nodes must be non-nil", g.name, oldNode, newNode)
	}
	if oldNode.graph != g || newNode.graph != g {
		return 0, errors.Errorf("Graph(%q).Replace(%s, %s): nodes must be owned by the graph", g.name, oldNode, newNode)
	}
	if oldNode == newNode {
		return 0, nil
	}
	var count int
	for _, user := range g.nodes {
		if user == newNode {
			continue
		}
		for i, input := range user.inputs {
			if input == oldNode {
				user.inputs[i] = newNode
				count++
			}
		}
	}
	if g.output == oldNode {
		g.output = newNode
		count++
	}
	return count, nil
}

// Verify checks the invariants of every node reachable from the output, and returns all violations found.
func (g *Graph) Verify() error {
	var err error
	for _, n := range g.TopoSort() {
		err = multierr.Append(err, n.verify())
	}
	return err
}

func (n *Node) verify() error {
	switch n.kind {
	case KindOperator:
		if n.prim == nil {
			return errors.Errorf("operator node %s has no primitive", n)
		}
		return nil
	case KindLeaf:
		if !n.shape.Ok() {
			return errors.Errorf("leaf %s has no abstract", n.FullName())
		}
		return nil
	case KindApplication, KindConstructor:
	default:
		return errors.Errorf("node %s has an invalid kind %s", n, n.kind)
	}

	var err error
	if n.Primitive() == nil {
		err = multierr.Append(err, errors.Errorf("application %s has no operator", n))
	}
	if !n.shape.Ok() {
		err = multierr.Append(err, errors.Errorf("application %s has no abstract", n.FullName()))
	}
	for i, operand := range n.inputs[1:] {
		if operand == nil {
			err = multierr.Append(err, errors.Errorf("application %s has a nil operand #%d", n.FullName(), i))
		} else if operand.graph != n.graph {
			err = multierr.Append(err, errors.Errorf("application %s operand #%d (%s) belongs to another graph", n.FullName(), i, operand))
		}
	}
	if n.kernelInfo != nil && n.kernelInfo.NumInputs() != n.NumOperands() {
		err = multierr.Append(err, errors.Errorf("application %s has %d operands but its kernel build info describes %d inputs",
			n.FullName(), n.NumOperands(), n.kernelInfo.NumInputs()))
	}
	return err
}
