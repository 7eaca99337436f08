package utils

import (
	"fmt"

	"github.com/gomlx/gopjrt/dtypes"
)

var dtypeNames = map[dtypes.DType]string{
	dtypes.Bool:       "i1",
	dtypes.Int8:       "i8",
	dtypes.Int16:      "i16",
	dtypes.Int32:      "i32",
	dtypes.Int64:      "i64",
	dtypes.Uint8:      "ui8",
	dtypes.Uint16:     "ui16",
	dtypes.Uint32:     "ui32",
	dtypes.Uint64:     "ui64",
	dtypes.Float16:    "f16",
	dtypes.BFloat16:   "bf16",
	dtypes.Float32:    "f32",
	dtypes.Float64:    "f64",
	dtypes.Complex64:  "complex<f32>",
	dtypes.Complex128: "complex<f64>",
}

// DTypeToText returns the short textual name of dtype used in graph dumps, e.g. "f32" or "i64".
func DTypeToText(dtype dtypes.DType) string {
	if name, found := dtypeNames[dtype]; found {
		return name
	}
	return fmt.Sprintf("unknown_dtype<%s>", dtype)
}
