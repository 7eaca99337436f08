package shapes

import (
	"reflect"
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// FromAnyValue returns the shape of a Go value used as a constant: a scalar of a supported dtype
// (float16.Float16 included), or a regular multi-level slice of one.
//
// Example:
//
//	shape, _ := shapes.FromAnyValue([][]float64{{0, 0}}) // (Float64)[1 2]
func FromAnyValue(v any) (Shape, error) {
	if v == nil {
		return Invalid(), errors.New("cannot derive the shape of a nil value")
	}
	dims, dtype, err := dimensionsOf(reflect.ValueOf(v))
	if err != nil {
		return Invalid(), err
	}
	return Shape{DType: dtype, Dimensions: dims}, nil
}

// dimensionsOf returns the dimensions and dtype of v, checking that every sub-slice has the same dimensions.
func dimensionsOf(v reflect.Value) ([]int, dtypes.DType, error) {
	if v.Kind() != reflect.Slice {
		dtype := dtypes.FromGoType(v.Type())
		if dtype == dtypes.InvalidDType {
			return nil, dtype, errors.Errorf("values of type %s cannot be used as constants", v.Type())
		}
		return nil, dtype, nil
	}
	if v.Len() == 0 {
		return nil, dtypes.InvalidDType, errors.Errorf("empty slice %s has no inner dimensions", v.Type())
	}
	inner, dtype, err := dimensionsOf(v.Index(0))
	if err != nil {
		return nil, dtype, err
	}
	for i := 1; i < v.Len(); i++ {
		other, _, err := dimensionsOf(v.Index(i))
		if err != nil {
			return nil, dtype, err
		}
		if !slices.Equal(inner, other) {
			return nil, dtype, errors.Errorf("irregular slice: element #0 has dimensions %v, element #%d has %v", inner, i, other)
		}
	}
	return append([]int{v.Len()}, inner...), dtype, nil
}
