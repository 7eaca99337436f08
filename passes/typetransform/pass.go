package typetransform

import (
	"slices"

	"github.com/gomlx/kernelgraph"
	"github.com/gomlx/kernelgraph/types"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// PassName is the name of the pass.
const PassName = "insert_type_transform_op"

// Pass inserts the transformations needed for every kernel input to have the object type its kernel requires.
// It implements passes.Pass.
type Pass struct {
	table      *Table
	multigraph bool
}

// New creates the pass with the DefaultTable.
func New() *Pass {
	return &Pass{table: DefaultTable()}
}

// WithTable replaces the transformations table used by the pass. It returns the pass itself.
func (p *Pass) WithTable(table *Table) *Pass {
	p.table = table
	return p
}

// WithMultigraph sets whether the pass should also process sub-graphs. It returns the pass itself.
func (p *Pass) WithMultigraph(multigraph bool) *Pass {
	p.multigraph = multigraph
	return p
}

// Name implements passes.Pass.
func (p *Pass) Name() string { return PassName }

// Multigraph implements passes.MultigraphPass.
func (p *Pass) Multigraph() bool { return p.multigraph }

// Table used by the pass.
func (p *Pass) Table() *Table { return p.table }

// Process implements passes.Pass: it returns the node rebuilt with its inputs transformed, or nil if no
// input needed a transformation.
//
// Only real kernels are processed: virtual nodes, calls and partial applications are skipped.
func (p *Pass) Process(g *kernelgraph.Graph, node *kernelgraph.Node) (*kernelgraph.Node, error) {
	if g == nil || node == nil {
		return nil, errors.Errorf("pass %s: graph and node must be non-nil", PassName)
	}
	if !node.IsRealKernel() || node.IsCallOrPartial() {
		return nil, nil
	}
	opNode := node.OperatorNode()
	if opNode == nil || node.Primitive() == nil {
		return nil, errors.Errorf("node %s has no operator", node.FullName())
	}

	needed := RequiredInputTypes(node)
	newInputs := make([]*kernelgraph.Node, 1, node.NumOperands()+1)
	newInputs[0] = opNode
	var primReplaced bool
	for i, input := range node.Operands() {
		if input == nil {
			return nil, errors.Errorf("node %s has a nil operand #%d", node.FullName(), i)
		}
		pair := types.ObjectTypePair{Current: currentType(input), Needed: needed[i]}
		klog.V(2).Infof("kernel object type of input #%d of %s is %s", i, node.FullName(), pair)
		fn, found := p.table.Lookup(pair)
		if !found {
			newInputs = append(newInputs, input)
			continue
		}
		klog.V(1).Infof("kernel object type pair of input #%d of %s is %s", i, node.FullName(), pair)
		processed, newPrim, err := fn(g, input, node)
		if err != nil {
			return nil, errors.WithMessagef(err, "transforming input #%d (%s) of %s with %s",
				i, input.FullName(), node.FullName(), pair)
		}
		if !newPrim {
			newInputs = append(newInputs, processed...)
			continue
		}
		if len(processed) == 0 {
			return nil, errors.Errorf("transform %s for input #%d of %s signaled a new operator but returned no inputs",
				pair, i, node.FullName())
		}
		if primReplaced {
			return nil, errors.Errorf("more than one transform substitutes the operator of %s (second one at input #%d, %s)",
				node.FullName(), i, pair)
		}
		primReplaced = true
		newInputs[0] = processed[0]
		newInputs = append(newInputs, processed[1:]...)
	}

	if slices.Equal(newInputs, node.Inputs()) {
		return nil, nil
	}
	return Rebuild(g, newInputs, node, g.NodeMap())
}
