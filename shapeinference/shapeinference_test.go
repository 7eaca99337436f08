package shapeinference

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/kernelgraph/internal/optypes"
	"github.com/gomlx/kernelgraph/types/shapes"
)

// Aliases
var (
	Bool = dtypes.Bool
	I32  = dtypes.Int32
	F32  = dtypes.Float32
	U64  = dtypes.Uint64

	S   = shapes.Make
	Tup = shapes.MakeTuple
)

// must1 panics if there is an error.
func must1[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

func TestBinaryOp(t *testing.T) {
	var err error
	_, err = BinaryOp(optypes.Mul, S(Bool, 1), S(Bool, 1))
	if err == nil {
		t.Error("expected error for Mul(Bool, Bool), got nil")
	}
	_, err = BinaryOp(optypes.Add, S(F32, 1), S(I32, 1))
	if err == nil {
		t.Error("expected error for Add(F32, I32), got nil")
	}

	// Invalid operation type (not binary op).
	_, err = BinaryOp(optypes.Exp, S(F32), S(F32))
	if err == nil {
		t.Error("expected error for Exp(F32, F32), got nil")
	}

	// Scalar broadcasting.
	output := must1(BinaryOp(optypes.Add, S(F32), S(F32, 2, 3)))
	if !output.Equal(S(F32, 2, 3)) {
		t.Errorf("Add(F32, F32[2,3]) = %s, want F32[2,3]", output)
	}

	// Dimension 1 broadcasting.
	output = must1(BinaryOp(optypes.Mul, S(F32, 1, 3), S(F32, 4, 1)))
	if !output.Equal(S(F32, 4, 3)) {
		t.Errorf("Mul(F32[1,3], F32[4,1]) = %s, want F32[4,3]", output)
	}

	// Incompatible dimensions and ranks.
	_, err = BinaryOp(optypes.Sub, S(F32, 2, 3), S(F32, 3, 3))
	if err == nil {
		t.Error("expected error for Sub(F32[2,3], F32[3,3]), got nil")
	}
	_, err = BinaryOp(optypes.Sub, S(F32, 2, 3), S(F32, 3))
	if err == nil {
		t.Error("expected error for Sub(F32[2,3], F32[3]), got nil")
	}
}

func TestUnaryOp(t *testing.T) {
	_, err := UnaryOp(optypes.Negate, S(U64))
	if err == nil {
		t.Error("expected error for Negate(U64), got nil")
	}
	_, err = UnaryOp(optypes.Exp, S(I32, 3))
	if err == nil {
		t.Error("expected error for Exp(I32), got nil")
	}
	_, err = UnaryOp(optypes.Add, S(F32))
	if err == nil {
		t.Error("expected error for non-unary Add, got nil")
	}
	output := must1(UnaryOp(optypes.Abs, S(dtypes.Complex64, 3)))
	if !output.Equal(S(F32, 3)) {
		t.Errorf("Abs(C64[3]) = %s, want F32[3]", output)
	}
	output = must1(UnaryOp(optypes.Tanh, S(F32, 2, 2)))
	if !output.Equal(S(F32, 2, 2)) {
		t.Errorf("Tanh(F32[2,2]) = %s, want F32[2,2]", output)
	}
}

func TestVariadic(t *testing.T) {
	x, y := S(F32, 2, 3), S(F32, 4, 3)

	// Separate operands and a nested tuple yield the same shape.
	concat := must1(Concatenate([]shapes.Shape{x, y, x}, 0))
	if !concat.Equal(S(F32, 8, 3)) {
		t.Errorf("Concatenate(...) = %s, want F32[8,3]", concat)
	}
	concatTuple := must1(Concatenate([]shapes.Shape{Tup(x, Tup(y, x))}, 0))
	if !concatTuple.Equal(concat) {
		t.Errorf("Concatenate(tuple) = %s, want %s", concatTuple, concat)
	}
	if _, err := Concatenate([]shapes.Shape{x, S(I32, 2, 3)}, 0); err == nil {
		t.Error("expected error for Concatenate with mismatched dtypes, got nil")
	}
	if _, err := Concatenate([]shapes.Shape{x, y}, 1); err == nil {
		t.Error("expected error for Concatenate with mismatched non-concatenation axis, got nil")
	}
	if _, err := Concatenate(nil, 0); err == nil {
		t.Error("expected error for Concatenate without inputs, got nil")
	}

	sum := must1(AddN([]shapes.Shape{Tup(x, x, x)}))
	if !sum.Equal(x) {
		t.Errorf("AddN(tuple) = %s, want %s", sum, x)
	}
	if _, err := AddN([]shapes.Shape{x, y}); err == nil {
		t.Error("expected error for AddN with different shapes, got nil")
	}

	stacked := must1(Stack([]shapes.Shape{x, x}, -1))
	if !stacked.Equal(S(F32, 2, 3, 2)) {
		t.Errorf("Stack(x, x, -1) = %s, want F32[2,3,2]", stacked)
	}
	stacked = must1(Stack([]shapes.Shape{Tup(x, x, x)}, 0))
	if !stacked.Equal(S(F32, 3, 2, 3)) {
		t.Errorf("Stack(tuple, 0) = %s, want F32[3,2,3]", stacked)
	}
}

func TestTuples(t *testing.T) {
	x, y := S(F32, 2), S(I32)
	tuple := must1(MakeTuple([]shapes.Shape{x, Tup(y, y)}))
	if tuple.TupleSize() != 2 {
		t.Fatalf("MakeTuple size = %d, want 2", tuple.TupleSize())
	}
	if _, err := MakeTuple([]shapes.Shape{x, shapes.Invalid()}); err == nil {
		t.Error("expected error for MakeTuple with an invalid element, got nil")
	}

	element := must1(TupleGetItem(tuple, 1))
	if !element.Equal(Tup(y, y)) {
		t.Errorf("TupleGetItem(tuple, 1) = %s, want %s", element, Tup(y, y))
	}
	if _, err := TupleGetItem(tuple, 2); err == nil {
		t.Error("expected error for out-of-range TupleGetItem, got nil")
	}
	if _, err := TupleGetItem(x, 0); err == nil {
		t.Error("expected error for TupleGetItem on a tensor, got nil")
	}

	leaves := FlattenTuple(tuple)
	if len(leaves) != 3 || !leaves[0].Equal(x) || !leaves[2].Equal(y) {
		t.Errorf("FlattenTuple(%s) = %v", tuple, leaves)
	}
}

func TestAdjustAxisToRank(t *testing.T) {
	if axis := must1(AdjustAxisToRank(-1, 3)); axis != 2 {
		t.Errorf("AdjustAxisToRank(-1, 3) = %d, want 2", axis)
	}
	if _, err := AdjustAxisToRank(3, 3); err == nil {
		t.Error("expected error for AdjustAxisToRank(3, 3), got nil")
	}
}
