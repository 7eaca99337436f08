package types

import (
	"fmt"
)

// ObjectType is the physical representation of a value slot (a node output or a node input),
// as required or produced by a kernel.
type ObjectType int

//go:generate go tool enumer -type=ObjectType -trimprefix=Object -output=gen_objecttype_enumer.go objecttype.go

const (
	// ObjectUnknown is used when no object type could be determined.
	ObjectUnknown ObjectType = iota

	// ObjectTensor is a flat tensor.
	ObjectTensor

	// ObjectScalar is a host scalar value.
	ObjectScalar

	// ObjectTuple is a tuple realized as a single structured value.
	ObjectTuple

	// ObjectTupleUnfold is an unrealized tuple: its elements are passed to the kernel as separate flat tensors.
	ObjectTupleUnfold

	// ObjectList is a list of scalars.
	ObjectList
)

// ObjectTypePair is the (current, required) pair of object types of an input slot.
// It is used as the key for the transformations that reconcile them.
type ObjectTypePair struct {
	Current, Needed ObjectType
}

// Less orders pairs by Current and then by Needed.
func (p ObjectTypePair) Less(other ObjectTypePair) bool {
	if p.Current != other.Current {
		return p.Current < other.Current
	}
	return p.Needed < other.Needed
}

// String implements fmt.Stringer.
func (p ObjectTypePair) String() string {
	return fmt.Sprintf("%s->%s", p.Current, p.Needed)
}

// Format is the device memory layout of a tensor, as selected by the kernel.
type Format string

const (
	// DefaultFormat is used for values with no kernel selected, and for kernels without layout requirements.
	DefaultFormat Format = "DefaultFormat"
	NCHW          Format = "NCHW"
	NHWC          Format = "NHWC"
	NC1HWC0       Format = "NC1HWC0"
	FracZ         Format = "FracZ"
)
