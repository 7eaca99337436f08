package kernelgraph

import (
	"k8s.io/klog/v2"
)

// NodeMap is notified when a node of a kernel graph is replaced by a rewrite, so that other subsystems
// resolving nodes through it see the new node.
type NodeMap interface {
	Update(oldNode, newNode *Node)
}

// FrontBackendMap maps front-end nodes (the graph the kernel graph was built from) to the kernel graph
// nodes implementing them, and back.
type FrontBackendMap struct {
	frontToBack map[*Node]*Node
	backToFront map[*Node]*Node
}

var _ NodeMap = (*FrontBackendMap)(nil)

// NewFrontBackendMap returns an empty FrontBackendMap.
func NewFrontBackendMap() *FrontBackendMap {
	return &FrontBackendMap{
		frontToBack: make(map[*Node]*Node),
		backToFront: make(map[*Node]*Node),
	}
}

// Add the mapping front <-> back.
func (m *FrontBackendMap) Add(front, back *Node) {
	m.frontToBack[front] = back
	m.backToFront[back] = front
}

// Backend returns the kernel graph node of the front-end node.
func (m *FrontBackendMap) Backend(front *Node) (back *Node, found bool) {
	back, found = m.frontToBack[front]
	return
}

// Front returns the front-end node of the kernel graph node.
func (m *FrontBackendMap) Front(back *Node) (front *Node, found bool) {
	front, found = m.backToFront[back]
	return
}

// Len returns the number of mappings.
func (m *FrontBackendMap) Len() int { return len(m.frontToBack) }

// Update implements NodeMap: the front-end node of oldNode is mapped to newNode instead.
// Kernel graph nodes without a front-end node are ignored.
func (m *FrontBackendMap) Update(oldNode, newNode *Node) {
	front, found := m.backToFront[oldNode]
	if !found {
		klog.V(2).Infof("node %s has no front-end node, nothing to update", oldNode.FullName())
		return
	}
	delete(m.backToFront, oldNode)
	m.frontToBack[front] = newNode
	m.backToFront[newNode] = front
}
