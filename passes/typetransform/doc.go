// Package typetransform implements the pass that reconciles the object type of each kernel input with the
// object type its producer outputs.
//
// Some kernels take a tuple operand as a sequence of separate flat tensors (types.ObjectTupleUnfold). For
// those, the pass replaces the structured operand by its leaves: the operands of a tuple constructor are
// used directly (recursively for nested constructors), and any other tuple-valued producer is unfolded with
// one TupleGetItem node per element. The consumer is then rebuilt with the expanded input list, keeping its
// abstract, scope and attributes.
//
// Which transformation applies to an input is decided by a Table keyed by the (current, needed) pair of
// object types. The pass is a single forward visit: rebuilt nodes are not revisited.
package typetransform
