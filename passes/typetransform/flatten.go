package typetransform

import (
	"github.com/gomlx/kernelgraph"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Flatten expands a tuple-valued node into the ordered sequence of its leaves, and returns them with
// their count.
//
//   - A tuple constructor contributes its operands as they are, with nested constructors spliced in
//     place. No new node is created.
//   - Any other tuple-valued node is unfolded into one new TupleGetItem node per element.
//
// If tupleInput is not tuple-valued, a warning is logged and the count is -1: callers should treat it as
// "no leaves". An error is only returned if the graph failed to create a node.
func Flatten(g *kernelgraph.Graph, tupleInput *kernelgraph.Node) (leaves []*kernelgraph.Node, count int, err error) {
	if tupleInput == nil {
		return nil, -1, errors.New("Flatten: nil input")
	}
	if !tupleInput.Shape().IsTuple() {
		klog.Warningf("only tuple-valued inputs can be flattened, but %s has abstract %s", tupleInput.FullName(), tupleInput.Shape())
		return nil, -1, nil
	}
	count, err = flattenInto(g, tupleInput, &leaves)
	if err != nil {
		return nil, -1, err
	}
	return leaves, count, nil
}

// flattenInto appends the leaves of the tuple-valued input to leaves and returns how many were appended.
func flattenInto(g *kernelgraph.Graph, input *kernelgraph.Node, leaves *[]*kernelgraph.Node) (int, error) {
	if input.Kind() == kernelgraph.KindConstructor {
		var count int
		for _, element := range input.Operands() {
			// Nested tuples are spliced in place.
			if element.Kind() == kernelgraph.KindConstructor {
				n, err := flattenInto(g, element, leaves)
				if err != nil {
					return 0, err
				}
				count += n
				continue
			}
			*leaves = append(*leaves, element)
			count++
		}
		return count, nil
	}

	numElements := input.NumOutputs()
	for idx := range numElements {
		item, err := g.TupleGetItem(input, idx)
		if err != nil {
			return 0, errors.WithMessagef(err, "failed to unfold element #%d of %s", idx, input.FullName())
		}
		item.WithScope(input.Scope())
		*leaves = append(*leaves, item)
	}
	return numElements, nil
}
