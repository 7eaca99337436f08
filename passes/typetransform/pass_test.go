package typetransform

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/kernelgraph"
	"github.com/gomlx/kernelgraph/internal/optypes"
	"github.com/gomlx/kernelgraph/kernelinfo"
	"github.com/gomlx/kernelgraph/passes"
	"github.com/gomlx/kernelgraph/types"
	"github.com/gomlx/kernelgraph/types/shapes"
	"github.com/google/go-cmp/cmp"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess(t *testing.T) {
	t.Run("flat and constructor inputs", func(t *testing.T) {
		g := kernelgraph.New(t.Name())
		w := g.Parameter("w", S(F32, 2))
		x := g.Parameter("x", S(F32, 2))
		y := g.Parameter("y", S(F32, 2))
		tuple := must.M1(g.MakeTuple(x, y))
		node := must.M1(g.ApplyWithShape(optypes.Concat, S(F32, 6), w, tuple))
		node.WithScope("Default/concat").SetAttribute(kernelgraph.AxisAttr, 0).SetPrimalAttribute("unique_id", "17")
		node.WithLocation("model.py:12")

		newNode, err := New().Process(g, node)
		require.NoError(t, err)
		require.NotNil(t, newNode)
		assert.NotSame(t, node, newNode)

		if diff := cmp.Diff([]string{"%w", "%x", "%y"}, names(newNode.Operands())); diff != "" {
			t.Errorf("operands mismatch (-want +got):\n%s", diff)
		}
		assert.Same(t, w, newNode.Operand(0))
		assert.Same(t, node.OperatorNode(), newNode.OperatorNode())
		assert.True(t, newNode.Shape().Equal(node.Shape()))
		assert.Equal(t, "Default/concat", newNode.Scope())
		assert.Equal(t, node.Attributes(), newNode.Attributes())
		assert.Equal(t, node.PrimalAttributes(), newNode.PrimalAttributes())
		assert.Equal(t, "model.py:12", newNode.DebugInfo().Location)
		assert.Equal(t, []*kernelgraph.Node{node}, newNode.DebugInfo().Origins)

		// The original node is not changed.
		assert.Equal(t, 2, node.NumOperands())
		assert.Nil(t, node.KernelInfo())

		// A new kernel build descriptor describes the new inputs.
		info := newNode.KernelInfo()
		require.NotNil(t, info)
		assert.Equal(t, 3, info.NumInputs())
		assert.Equal(t, []types.Format{types.DefaultFormat, types.DefaultFormat, types.DefaultFormat}, info.InputsFormat())
		assert.Equal(t, []dtypes.DType{F32, F32, F32}, info.InputsDeviceType())
		assert.Equal(t, []types.ObjectType{types.ObjectTensor, types.ObjectTensor, types.ObjectTensor}, info.InputsObjectType())
		require.NoError(t, g.Verify())
	})

	t.Run("all inputs already flat", func(t *testing.T) {
		g := kernelgraph.New(t.Name())
		x := g.Parameter("x", S(F32, 2))
		y := g.Parameter("y", S(F32, 2))
		node := must.M1(g.Apply(optypes.Add, x, y))
		newNode, err := New().Process(g, node)
		require.NoError(t, err)
		assert.Nil(t, newNode)
	})

	t.Run("virtual and control nodes are skipped", func(t *testing.T) {
		g := kernelgraph.New(t.Name())
		p := g.Parameter("p", shapes.MakeTuple(S(F32), S(F32)))
		x := g.Parameter("x", S(F32))
		pass := New()
		for _, node := range []*kernelgraph.Node{
			must.M1(g.MakeTuple(p, x)),
			must.M1(g.ApplyWithShape(optypes.Call, S(F32), p)),
			must.M1(g.ApplyWithShape(optypes.Partial, S(F32), p)),
			must.M1(g.ApplyWithShape(optypes.Depend, p.Shape(), p, x)),
			x,
			g.Operator(optypes.Add),
		} {
			newNode, err := pass.Process(g, node)
			require.NoError(t, err)
			assert.Nil(t, newNode, "node %s should be skipped", node)
		}
	})

	t.Run("sparse input of bprop cut", func(t *testing.T) {
		g := kernelgraph.New(t.Name())
		sparse := g.Parameter("sparse", shapes.MakeSparse(shapes.COO, S(dtypes.Int64, 4, 2), S(F32, 4), S(dtypes.Int64, 2)))
		x := g.Parameter("x", S(F32))
		cut := must.M1(g.ApplyWithShape(optypes.BpropCut, S(F32), x, sparse))
		numNodes := len(g.Nodes())
		newNode, err := New().Process(g, cut)
		require.NoError(t, err)
		assert.Nil(t, newNode)
		assert.Len(t, g.Nodes(), numNodes)

		// Other kernels do unfold sparse tensors.
		other := must.M1(g.ApplyWithShape(optypes.Identity, S(F32), sparse))
		newNode, err = New().Process(g, other)
		require.NoError(t, err)
		require.NotNil(t, newNode)
		assert.Equal(t, 3, newNode.NumOperands())
	})

	t.Run("unregistered mismatch is left untouched", func(t *testing.T) {
		g := kernelgraph.New(t.Name())
		x := g.Parameter("x", S(F32))
		node := must.M1(g.Apply(optypes.Exp, x))
		node.WithKernelInfo(must.M1(kernelinfo.NewBuilder().
			SetInputsFormat([]types.Format{types.DefaultFormat}).
			SetInputsDeviceType([]dtypes.DType{F32}).
			SetInputsObjectType([]types.ObjectType{types.ObjectScalar}).
			SetOutputsFormat([]types.Format{types.DefaultFormat}).
			SetOutputsDeviceType([]dtypes.DType{F32}).
			Build()))
		newNode, err := New().Process(g, node)
		require.NoError(t, err)
		assert.Nil(t, newNode)
	})
}

func TestProcessKernelInfo(t *testing.T) {
	g := kernelgraph.New(t.Name())
	x := g.Parameter("x", S(F32, 1, 3, 4, 4))
	conv := must.M1(g.Apply(optypes.Abs, x))
	conv.WithKernelInfo(must.M1(kernelinfo.NewBuilder().
		SetInputsFormat([]types.Format{types.NCHW}).
		SetInputsDeviceType([]dtypes.DType{F32}).
		SetOutputsFormat([]types.Format{types.NC1HWC0}).
		SetOutputsDeviceType([]dtypes.DType{dtypes.Float16}).
		Build()))
	p := g.Parameter("p", shapes.MakeTuple(S(F32, 1, 3, 4, 4), S(F32, 1, 3, 4, 4)))
	tuple := must.M1(g.MakeTuple(conv, p))
	sum := must.M1(g.Apply(optypes.AddN, tuple))
	origInfo := must.M1(kernelinfo.NewBuilder().
		WithProcessor(kernelinfo.NPU).
		SetInputsFormat([]types.Format{types.NC1HWC0}).
		SetInputsDeviceType([]dtypes.DType{dtypes.Float16}).
		SetInputsObjectType([]types.ObjectType{types.ObjectTupleUnfold}).
		SetOutputsFormat([]types.Format{types.NC1HWC0}).
		SetOutputsDeviceType([]dtypes.DType{dtypes.Float16}).
		SetOutputsObjectType([]types.ObjectType{types.ObjectTensor}).
		Build())
	sum.WithKernelInfo(origInfo)

	newSum, err := New().Process(g, sum)
	require.NoError(t, err)
	require.NotNil(t, newSum)
	require.Equal(t, 2, newSum.NumOperands())
	assert.Same(t, conv, newSum.Operand(0))
	assert.Same(t, p, newSum.Operand(1), "opaque tuples nested in a constructor are kept as they are")

	info := newSum.KernelInfo()
	require.NotNil(t, info)
	assert.NotSame(t, origInfo, info)
	assert.Equal(t, kernelinfo.NPU, info.Processor())
	assert.Equal(t, []types.Format{types.NC1HWC0, types.DefaultFormat}, info.InputsFormat())
	assert.Equal(t, []dtypes.DType{dtypes.Float16, F32}, info.InputsDeviceType())
	assert.Equal(t, []types.ObjectType{types.ObjectTensor, types.ObjectTupleUnfold}, info.InputsObjectType())
	assert.Equal(t, []types.ObjectType{types.ObjectTensor}, info.OutputsObjectType())
	f := must.M1(info.OutputFormat(0))
	assert.Equal(t, types.NC1HWC0, f)

	// The original descriptor is untouched.
	assert.Equal(t, []types.Format{types.NC1HWC0}, origInfo.InputsFormat())
	assert.Same(t, origInfo, sum.KernelInfo())
}

func TestProcessNodeMap(t *testing.T) {
	frontGraph := kernelgraph.New("front")
	frontX := frontGraph.Parameter("x", S(F32))
	frontSum := must.M1(frontGraph.Apply(optypes.AddN, must.M1(frontGraph.MakeTuple(frontX, frontX))))

	nodeMap := kernelgraph.NewFrontBackendMap()
	g := kernelgraph.New(t.Name()).WithNodeMap(nodeMap)
	x := g.Parameter("x", S(F32))
	sum := must.M1(g.Apply(optypes.AddN, must.M1(g.MakeTuple(x, x))))
	nodeMap.Add(frontX, x)
	nodeMap.Add(frontSum, sum)

	newSum, err := New().Process(g, sum)
	require.NoError(t, err)
	require.NotNil(t, newSum)
	back, found := nodeMap.Backend(frontSum)
	require.True(t, found)
	assert.Same(t, newSum, back)
	front, found := nodeMap.Front(newSum)
	require.True(t, found)
	assert.Same(t, frontSum, front)
	_, found = nodeMap.Front(sum)
	assert.False(t, found)
	assert.Equal(t, 2, nodeMap.Len())
}

func TestPassWithManager(t *testing.T) {
	g := kernelgraph.New(t.Name())
	x := g.Parameter("x", S(F32, 2))
	y := g.Parameter("y", S(F32, 2))
	p := g.Parameter("p", shapes.MakeTuple(S(F32, 2), S(F32, 2), S(F32, 2)))
	sum := must.M1(g.Apply(optypes.AddN, must.M1(g.MakeTuple(x, must.M1(g.MakeTuple(y, x))))))
	sumP := must.M1(g.Apply(optypes.AddN, p))
	result := must.M1(g.Apply(optypes.Concat, sum, sumP))
	_ = must.M1(g.Return(result))

	manager := passes.NewManager(New())
	changed, err := manager.Run(g)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NoError(t, g.Verify())

	// Every real kernel now only has flat inputs.
	var numKernels int
	for _, node := range g.TopoSort() {
		if !node.IsRealKernel() {
			continue
		}
		numKernels++
		for _, operand := range node.Operands() {
			assert.False(t, operand.Shape().IsTuple(), "operand %s of %s is still a tuple", operand, node.FullName())
		}
	}
	assert.Equal(t, 3, numKernels)

	newResult := g.Output().Operand(0)
	assert.True(t, newResult.Shape().Equal(result.Shape()))
	newSum, newSumP := newResult.Operand(0), newResult.Operand(1)
	if diff := cmp.Diff([]string{"%x", "%y", "%x"}, names(newSum.Operands())); diff != "" {
		t.Errorf("AddN operands mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 3, newSumP.NumOperands())
	for i, operand := range newSumP.Operands() {
		assert.True(t, operand.CheckPrimitive(optypes.TupleGetItem))
		index, _ := operand.Attribute(kernelgraph.IndexAttr)
		assert.Equal(t, i, index)
	}

	// A second run finds nothing to do.
	changed, err = manager.Run(g)
	require.NoError(t, err)
	assert.False(t, changed)
}
