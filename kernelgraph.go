// Package kernelgraph defines the kernel graph: the dataflow intermediate representation handed to the
// backends, where each application node denotes a kernel launch (or a virtual tuple operation), and each
// edge carries a tensor or a (possibly nested) tuple of tensors.
//
// Among its features:
//
// - Graph building with shape inference: every node carries its abstract descriptor (shapes.Shape).
// - Kernel build descriptors (package kernelinfo) per node: device format, device element type and
// object type of each input and output.
// - Rewriting primitives for passes: Graph.NewApplication, Graph.Replace and an optional NodeMap that is kept
// up-to-date with the replacements.
// - Human-readable dumps (Graph.Write) and invariant checks (Graph.Verify).
//
// Passes over a kernel graph live under the passes/ directory.
package kernelgraph

import "github.com/gomlx/kernelgraph/internal/utils"

// NormalizeIdentifier converts the name of an identifier (graph parameter name, etc.) to a valid one:
// only letters, digits, and underscores are allowed.
//
// Invalid characters are replaced with underscores.
// If the name starts with a digit, it is prefixed with an underscore.
func NormalizeIdentifier(name string) string {
	return utils.NormalizeIdentifier(name)
}
