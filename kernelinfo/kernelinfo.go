// Package kernelinfo holds the kernel build descriptor of a node: the device format, the device
// element type and the object type of each of its inputs and outputs, as selected for its kernel.
//
// A BuildInfo is never mutated once built: use a Builder (possibly initialized from an existing
// BuildInfo) to derive a new one.
package kernelinfo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/kernelgraph/types"
	"github.com/pkg/errors"
)

// Processor the kernel was selected for.
type Processor string

const (
	UnknownProcessor Processor = ""
	CPU              Processor = "CPU"
	GPU              Processor = "GPU"
	NPU              Processor = "NPU"
)

// BuildInfo is the kernel build descriptor of one node.
type BuildInfo struct {
	processor Processor

	inputsFormat     []types.Format
	inputsDeviceType []dtypes.DType
	inputsObjectType []types.ObjectType

	outputsFormat     []types.Format
	outputsDeviceType []dtypes.DType
	outputsObjectType []types.ObjectType
}

// Processor returns the processor the kernel was selected for.
func (info *BuildInfo) Processor() Processor { return info.processor }

// NumInputs returns the number of input slots described.
func (info *BuildInfo) NumInputs() int { return len(info.inputsFormat) }

// NumOutputs returns the number of output slots described.
func (info *BuildInfo) NumOutputs() int { return len(info.outputsFormat) }

// InputFormat returns the device format of the input slot.
func (info *BuildInfo) InputFormat(idx int) (types.Format, error) {
	if idx < 0 || idx >= len(info.inputsFormat) {
		return "", errors.Errorf("input index %d out of range, kernel build info has %d inputs formats", idx, len(info.inputsFormat))
	}
	return info.inputsFormat[idx], nil
}

// InputDeviceType returns the device element type of the input slot.
func (info *BuildInfo) InputDeviceType(idx int) (dtypes.DType, error) {
	if idx < 0 || idx >= len(info.inputsDeviceType) {
		return dtypes.InvalidDType, errors.Errorf("input index %d out of range, kernel build info has %d inputs device types", idx, len(info.inputsDeviceType))
	}
	return info.inputsDeviceType[idx], nil
}

// OutputFormat returns the device format of the output slot.
func (info *BuildInfo) OutputFormat(idx int) (types.Format, error) {
	if idx < 0 || idx >= len(info.outputsFormat) {
		return "", errors.Errorf("output index %d out of range, kernel build info has %d outputs formats", idx, len(info.outputsFormat))
	}
	return info.outputsFormat[idx], nil
}

// OutputDeviceType returns the device element type of the output slot.
func (info *BuildInfo) OutputDeviceType(idx int) (dtypes.DType, error) {
	if idx < 0 || idx >= len(info.outputsDeviceType) {
		return dtypes.InvalidDType, errors.Errorf("output index %d out of range, kernel build info has %d outputs device types", idx, len(info.outputsDeviceType))
	}
	return info.outputsDeviceType[idx], nil
}

// InputsFormat returns a copy of the formats of all inputs.
func (info *BuildInfo) InputsFormat() []types.Format { return slices.Clone(info.inputsFormat) }

// InputsDeviceType returns a copy of the device element types of all inputs.
func (info *BuildInfo) InputsDeviceType() []dtypes.DType { return slices.Clone(info.inputsDeviceType) }

// InputsObjectType returns a copy of the object types required for the inputs.
// It may be empty if the kernel selection didn't set them.
func (info *BuildInfo) InputsObjectType() []types.ObjectType {
	return slices.Clone(info.inputsObjectType)
}

// OutputsObjectType returns a copy of the object types produced by the outputs.
// It may be empty if the kernel selection didn't set them.
func (info *BuildInfo) OutputsObjectType() []types.ObjectType {
	return slices.Clone(info.outputsObjectType)
}

// Equal compares every field of the two build infos.
func (info *BuildInfo) Equal(other *BuildInfo) bool {
	if info == nil || other == nil {
		return info == other
	}
	return info.processor == other.processor &&
		slices.Equal(info.inputsFormat, other.inputsFormat) &&
		slices.Equal(info.inputsDeviceType, other.inputsDeviceType) &&
		slices.Equal(info.inputsObjectType, other.inputsObjectType) &&
		slices.Equal(info.outputsFormat, other.outputsFormat) &&
		slices.Equal(info.outputsDeviceType, other.outputsDeviceType) &&
		slices.Equal(info.outputsObjectType, other.outputsObjectType)
}

// String implements fmt.Stringer.
func (info *BuildInfo) String() string {
	if info == nil {
		return "<nil>"
	}
	var sb strings.Builder
	slot := func(formats []types.Format, dts []dtypes.DType, objs []types.ObjectType) {
		sb.WriteString("(")
		for i := range formats {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "<%s, %s", formats[i], dts[i])
			if i < len(objs) {
				fmt.Fprintf(&sb, ", %s", objs[i])
			}
			sb.WriteString(">")
		}
		sb.WriteString(")")
	}
	if info.processor != UnknownProcessor {
		fmt.Fprintf(&sb, "%s ", info.processor)
	}
	slot(info.inputsFormat, info.inputsDeviceType, info.inputsObjectType)
	sb.WriteString(" -> ")
	slot(info.outputsFormat, info.outputsDeviceType, info.outputsObjectType)
	return sb.String()
}
