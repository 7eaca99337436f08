// Package passes runs rewrite passes over kernel graphs.
//
// A Pass processes one node at a time and may return a replacement for it. The Manager owns the
// iteration: it visits each node of a snapshot of the graph's canonical order once, and substitutes
// the replacements at every use-site. Nodes created by a pass are not visited by that same pass.
package passes

import (
	"time"

	"github.com/gomlx/kernelgraph"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Pass is a node-level rewrite.
type Pass interface {
	// Name of the pass, used in logs and errors.
	Name() string

	// Process returns the replacement for node, or nil if node should be left untouched.
	// An error aborts the whole run: the graph may be left partially rewritten.
	Process(g *kernelgraph.Graph, node *kernelgraph.Node) (*kernelgraph.Node, error)
}

// MultigraphPass is implemented by passes that can tell whether they should also process the
// sub-graphs given to Manager.RunAll. Passes not implementing it only process the root graph.
type MultigraphPass interface {
	Pass
	Multigraph() bool
}

// Manager runs a sequence of passes.
type Manager struct {
	passes []Pass
}

// NewManager creates a Manager for the given passes, run in the given order.
func NewManager(passes ...Pass) *Manager {
	return &Manager{passes: passes}
}

// Add a pass to be run after the ones already configured.
func (m *Manager) Add(p Pass) *Manager {
	m.passes = append(m.passes, p)
	return m
}

// Passes returns the configured passes.
func (m *Manager) Passes() []Pass { return m.passes }

// Run all passes over the graph, and returns whether any node was replaced.
func (m *Manager) Run(g *kernelgraph.Graph) (changed bool, err error) {
	for _, p := range m.passes {
		passChanged, err := RunPass(p, g)
		changed = changed || passChanged
		if err != nil {
			return changed, err
		}
	}
	return changed, nil
}

// RunAll runs all passes over the root graph (graphs[0]) and, for passes that are multigraph, over the
// remaining graphs as well.
func (m *Manager) RunAll(graphs ...*kernelgraph.Graph) (changed bool, err error) {
	for _, p := range m.passes {
		targets := graphs
		if mp, ok := p.(MultigraphPass); !ok || !mp.Multigraph() {
			targets = graphs[:min(len(graphs), 1)]
		}
		for _, g := range targets {
			passChanged, err := RunPass(p, g)
			changed = changed || passChanged
			if err != nil {
				return changed, err
			}
		}
	}
	return changed, nil
}

// RunPass runs one pass over the graph: each node of the canonical order (as it is before the pass
// starts) is processed exactly once.
func RunPass(p Pass, g *kernelgraph.Graph) (changed bool, err error) {
	start := time.Now()
	var numReplaced int
	for _, node := range g.TopoSort() {
		replacement, err := p.Process(g, node)
		if err != nil {
			return changed, errors.WithMessagef(err, "pass %q failed processing node %s of graph %q",
				p.Name(), node.FullName(), g.Name())
		}
		if replacement == nil || replacement == node {
			continue
		}
		if _, err = g.Replace(node, replacement); err != nil {
			return changed, errors.WithMessagef(err, "pass %q failed replacing node %s of graph %q",
				p.Name(), node.FullName(), g.Name())
		}
		numReplaced++
		changed = true
	}
	if klog.V(1).Enabled() {
		klog.Infof("pass %q on graph %q: %d nodes replaced in %s", p.Name(), g.Name(), numReplaced, time.Since(start))
	}
	return changed, nil
}
