package kernelinfo

import (
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/kernelgraph/types"
	"github.com/pkg/errors"
)

// Builder creates BuildInfo objects. Each call to Build returns a new BuildInfo that shares
// no memory with the Builder or with any previously built BuildInfo.
type Builder struct {
	info BuildInfo
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuilderFrom returns a Builder initialized with a copy of every field of info.
// If info is nil it is the same as NewBuilder.
func BuilderFrom(info *BuildInfo) *Builder {
	b := NewBuilder()
	if info != nil {
		b.info = *info.clone()
	}
	return b
}

// WithProcessor sets the processor the kernel is selected for.
func (b *Builder) WithProcessor(p Processor) *Builder {
	b.info.processor = p
	return b
}

// SetInputsFormat sets the device format of every input slot.
func (b *Builder) SetInputsFormat(formats []types.Format) *Builder {
	b.info.inputsFormat = slices.Clone(formats)
	return b
}

// SetInputsDeviceType sets the device element type of every input slot.
func (b *Builder) SetInputsDeviceType(dts []dtypes.DType) *Builder {
	b.info.inputsDeviceType = slices.Clone(dts)
	return b
}

// SetInputsObjectType sets the object type required by every input slot.
func (b *Builder) SetInputsObjectType(objs []types.ObjectType) *Builder {
	b.info.inputsObjectType = slices.Clone(objs)
	return b
}

// SetOutputsFormat sets the device format of every output slot.
func (b *Builder) SetOutputsFormat(formats []types.Format) *Builder {
	b.info.outputsFormat = slices.Clone(formats)
	return b
}

// SetOutputsDeviceType sets the device element type of every output slot.
func (b *Builder) SetOutputsDeviceType(dts []dtypes.DType) *Builder {
	b.info.outputsDeviceType = slices.Clone(dts)
	return b
}

// SetOutputsObjectType sets the object type produced by every output slot.
func (b *Builder) SetOutputsObjectType(objs []types.ObjectType) *Builder {
	b.info.outputsObjectType = slices.Clone(objs)
	return b
}

// Build checks the consistency of the slots and returns a new BuildInfo.
func (b *Builder) Build() (*BuildInfo, error) {
	info := &b.info
	if len(info.inputsFormat) != len(info.inputsDeviceType) {
		return nil, errors.Errorf("kernel build info has %d inputs formats but %d inputs device types",
			len(info.inputsFormat), len(info.inputsDeviceType))
	}
	if len(info.outputsFormat) != len(info.outputsDeviceType) {
		return nil, errors.Errorf("kernel build info has %d outputs formats but %d outputs device types",
			len(info.outputsFormat), len(info.outputsDeviceType))
	}
	if len(info.inputsObjectType) > 0 && len(info.inputsObjectType) != len(info.inputsFormat) {
		return nil, errors.Errorf("kernel build info has %d inputs but %d inputs object types",
			len(info.inputsFormat), len(info.inputsObjectType))
	}
	if len(info.outputsObjectType) > 0 && len(info.outputsObjectType) != len(info.outputsFormat) {
		return nil, errors.Errorf("kernel build info has %d outputs but %d outputs object types",
			len(info.outputsFormat), len(info.outputsObjectType))
	}
	return info.clone(), nil
}

func (info *BuildInfo) clone() *BuildInfo {
	return &BuildInfo{
		processor:         info.processor,
		inputsFormat:      slices.Clone(info.inputsFormat),
		inputsDeviceType:  slices.Clone(info.inputsDeviceType),
		inputsObjectType:  slices.Clone(info.inputsObjectType),
		outputsFormat:     slices.Clone(info.outputsFormat),
		outputsDeviceType: slices.Clone(info.outputsDeviceType),
		outputsObjectType: slices.Clone(info.outputsObjectType),
	}
}
