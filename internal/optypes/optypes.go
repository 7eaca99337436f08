// Package optypes defines OpType and lists the supported operations.
package optypes

import (
	"github.com/gomlx/kernelgraph/internal/utils"
)

// OpType is an enum of all operators (primitives) a kernel graph application can refer to.
type OpType int

//go:generate go tool enumer -type=OpType -output=gen_optype_enumer.go optypes.go

const (
	Invalid OpType = iota

	// Virtual ops: they don't launch a kernel.

	Return
	MakeTuple
	TupleGetItem
	Depend
	UpdateState
	Load

	// Control indirections.

	Call
	Partial

	// BpropCut marks a cut point of the automatic differentiation: its inputs are bookkept for the backward pass.
	BpropCut

	Identity
	Abs
	Negate
	Exp
	Log
	Sqrt
	Tanh
	Add
	Sub
	Mul
	Div
	Maximum
	Minimum
	AddN
	Concat
	Stack

	// Last should always be kept the last, it is used as a counter/marker.
	Last
)

var (
	// VirtualOps don't denote a schedulable compute operation.
	VirtualOps = utils.SetWith(Return, MakeTuple, TupleGetItem, Depend, UpdateState, Load)

	// ControlOps transfer control to another graph: their inputs are not data dependencies in the usual sense.
	ControlOps = utils.SetWith(Call, Partial)

	// UnaryOps keep the shape of their single operand.
	UnaryOps = utils.SetWith(Identity, Abs, Negate, Exp, Log, Sqrt, Tanh)

	// BinaryOps take two operands with the usual broadcasting rules.
	BinaryOps = utils.SetWith(Add, Sub, Mul, Div, Maximum, Minimum)

	// VariadicOps take a dynamic number of tensor operands, usually given as one tuple.
	VariadicOps = utils.SetWith(AddN, Concat, Stack)
)

// ToText returns the name of the operation used in graph dumps, e.g. "tuple_get_item".
func (op OpType) ToText() string {
	return utils.ToSnakeCase(op.String())
}

// IsRealKernel returns whether the op denotes a schedulable compute operation.
func (op OpType) IsRealKernel() bool {
	return op != Invalid && !VirtualOps.Has(op)
}
