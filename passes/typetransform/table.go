package typetransform

import (
	"maps"
	"slices"

	"github.com/gomlx/kernelgraph"
	"github.com/gomlx/kernelgraph/internal/optypes"
	"github.com/gomlx/kernelgraph/types"
	"k8s.io/klog/v2"
)

// TransformFunc returns the inputs that replace input in the input list of node.
//
// If newPrim is true, inputs[0] is an operator node that replaces the operator of node, and the remaining
// elements replace input.
type TransformFunc func(g *kernelgraph.Graph, input, node *kernelgraph.Node) (inputs []*kernelgraph.Node, newPrim bool, err error)

// Table maps (current, needed) object type pairs to the transformation to apply.
// Pairs without an entry are left untouched.
type Table struct {
	funcs map[types.ObjectTypePair]TransformFunc
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{funcs: make(map[types.ObjectTypePair]TransformFunc)}
}

// DefaultTable returns a new Table with the transformations the pass applies by default:
// only TupleUnfold -> TupleUnfold, handled by TupleUnfoldToTupleUnfold.
func DefaultTable() *Table {
	return NewTable().Register(types.ObjectTypePair{Current: types.ObjectTupleUnfold, Needed: types.ObjectTupleUnfold},
		TupleUnfoldToTupleUnfold)
}

// Register fn for the pair, replacing any previous entry. It returns the table itself.
func (t *Table) Register(pair types.ObjectTypePair, fn TransformFunc) *Table {
	t.funcs[pair] = fn
	return t
}

// Lookup returns the transformation registered for the pair.
func (t *Table) Lookup(pair types.ObjectTypePair) (fn TransformFunc, found bool) {
	fn, found = t.funcs[pair]
	return
}

// Pairs returns the registered pairs, sorted.
func (t *Table) Pairs() []types.ObjectTypePair {
	return slices.SortedFunc(maps.Keys(t.funcs), func(a, b types.ObjectTypePair) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
}

// TupleUnfoldToTupleUnfold replaces an unfolded tuple input by its leaves, see Flatten.
//
// Sparse tensors given to a BpropCut are kept as they are: the backward pass needs them structured.
// Inputs that turn out not to be tuple-valued are also kept.
func TupleUnfoldToTupleUnfold(g *kernelgraph.Graph, input, node *kernelgraph.Node) ([]*kernelgraph.Node, bool, error) {
	if node.CheckPrimitive(optypes.BpropCut) && input.Shape().IsSparse() {
		return []*kernelgraph.Node{input}, false, nil
	}
	leaves, count, err := Flatten(g, input)
	if err != nil {
		return nil, false, err
	}
	if count < 0 {
		return []*kernelgraph.Node{input}, false, nil
	}
	klog.V(2).Infof("tuple unfold input %s has %d outputs", input.FullName(), count)
	return leaves, false, nil
}
