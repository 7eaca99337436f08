package kernelgraph

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/kernelgraph/internal/optypes"
	"github.com/gomlx/kernelgraph/internal/utils"
	"github.com/gomlx/kernelgraph/types/shapes"
	"github.com/x448/float16"
)

// IndentationStep used when writing graphs.
const IndentationStep = "  "

// Write the graph in its textual form to the given writer.
//
// Each application is written in one line, in the canonical traversal order, in the form:
//
//	%3 = add(%x, %2){attr = value} : (tensor<f32>, tensor<f32>) -> tensor<f32>
func (g *Graph) Write(writer io.Writer) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			// No op if an error was encountered earlier
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}

	w("graph @%s(", NormalizeIdentifier(g.name))
	for i, param := range g.parameters {
		if i > 0 {
			w(", ")
		}
		w("%s: %s", param, param.shape.ToText())
	}
	w(") {\n")
	for _, n := range g.TopoSort() {
		if n.kind == KindOperator || n.IsParameter() {
			continue
		}
		w(IndentationStep)
		if err == nil {
			err = n.Write(writer)
		}
		w("\n")
	}
	w("}\n")
	return err
}

// String returns the textual form of the graph. See Graph.Write.
func (g *Graph) String() string {
	var buf bytes.Buffer
	if err := g.Write(&buf); err != nil {
		return fmt.Sprintf("Graph(%q): failed to write: %v", g.name, err)
	}
	return buf.String()
}

// Write writes the node definition in one line (without indentation or new line).
func (n *Node) Write(writer io.Writer) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			// No op if an error was encountered earlier
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}

	if n.kind == KindLeaf {
		if n.isParameter {
			w("%s : %s", n, n.shape.ToText())
			return err
		}
		w("%s = constant(){value = %s} : () -> %s", n, literalToText(n.value), n.shape.ToText())
		return err
	}
	if !n.IsApplication() {
		w("%s", n)
		return err
	}

	// Output value is written first, except for the return:
	if !n.CheckPrimitive(optypes.Return) {
		w("%s = ", n)
	}
	w("%s(", n.Op().ToText())
	for i, operand := range n.inputs[1:] {
		if i > 0 {
			w(", ")
		}
		w("%s", operand)
	}
	w(")")

	// Attributes in alphabetical order:
	if len(n.attributes) > 0 {
		w("{")
		for i, key := range slices.Sorted(maps.Keys(n.attributes)) {
			if i > 0 {
				w(", ")
			}
			w("%s = %s", key, literalToText(n.attributes[key]))
		}
		w("}")
	}

	// Signature:
	w(" : (")
	for i, operand := range n.inputs[1:] {
		if i > 0 {
			w(", ")
		}
		w("%s", operand.shape.ToText())
	}
	w(") -> %s", n.shape.ToText())
	if n.scope != "" {
		w("  # %s", n.scope)
	}
	return err
}

// literalToText converts a literal value, usually used in attributes and constants, to its textual representation.
func literalToText(attr any) string {
	switch v := attr.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case float16.Float16:
		return floatToText(float64(v.Float32()), dtypes.Float16)
	case float32:
		return floatToText(float64(v), dtypes.Float32)
	case float64:
		return floatToText(v, dtypes.Float64)
	case int, int8, int16, int32, int64, uint8, uint16, uint32, uint64:
		dtype := dtypes.FromAny(v)
		return fmt.Sprintf("%d : %s", v, utils.DTypeToText(dtype))
	case bool:
		if v {
			return "true"
		}
		return "false"
	case shapes.Shape:
		return v.ToText()
	case fmt.Stringer:
		return v.String()
	default:
		shape, err := shapes.FromAnyValue(v)
		if err == nil && !shape.IsScalar() {
			return fmt.Sprintf("dense<%v> : %s", v, shape.ToText())
		}
		return fmt.Sprintf("%v", v)
	}
}

func floatToText(f float64, dtype dtypes.DType) string {
	shape := shapes.Make(dtype)
	format := "dense<%g> : %s"
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		// f is an integer, make sure we add a decimal point.
		format = "dense<%.1f> : %s"
	}
	return fmt.Sprintf(format, f, shape.ToText())
}
