// Package domain contains the core models for lockfile auditing.
package domain

import (
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// GraphNode is one package in a resolved dependency graph.
type GraphNode struct {
	Name      InternedString
	Version   string
	Resolved  string
	Integrity string
	IsRoot    bool
}

// DependencyGraph is the install graph produced by resolving a manifest.
// It has exactly one root node, whose outgoing edges are the direct dependencies.
type DependencyGraph struct {
	root  string
	nodes map[string]*GraphNode
	edges map[string][]InternedString
	order []string
}

// NewDependencyGraph creates a graph with a root node named after the project.
func NewDependencyGraph(rootName string) *DependencyGraph {
	g := &DependencyGraph{
		nodes: make(map[string]*GraphNode),
		edges: make(map[string][]InternedString),
	}
	g.root = nodeKey(rootName, "")
	g.nodes[g.root] = &GraphNode{Name: NewInternedString(rootName), IsRoot: true}
	g.order = append(g.order, g.root)
	return g
}

func nodeKey(name, version string) string {
	return name + "@" + version
}

// RootKey returns the key of the root node.
func (g *DependencyGraph) RootKey() string {
	return g.root
}

// AddNode inserts a package node and returns its key.
// Adding the same name@version twice is a no-op.
func (g *DependencyGraph) AddNode(n GraphNode) string {
	key := nodeKey(n.Name.String(), n.Version)
	if _, exists := g.nodes[key]; exists {
		return key
	}
	n.IsRoot = false
	g.nodes[key] = &n
	g.order = append(g.order, key)
	return key
}

// Has reports whether a node with the given key exists.
func (g *DependencyGraph) Has(key string) bool {
	_, ok := g.nodes[key]
	return ok
}

// Len returns the number of nodes, including the root.
func (g *DependencyGraph) Len() int {
	return len(g.nodes)
}

// Link records an edge from the node at fromKey to the dependency name.
func (g *DependencyGraph) Link(fromKey string, dep InternedString) error {
	if _, ok := g.nodes[fromKey]; !ok {
		return zerr.With(ErrMissingNode, "node", fromKey)
	}
	if slices.Contains(g.edges[fromKey], dep) {
		return nil
	}
	g.edges[fromKey] = append(g.edges[fromKey], dep)
	return nil
}

// EdgesOut returns the dependency names of the node at key.
func (g *DependencyGraph) EdgesOut(key string) []InternedString {
	return g.edges[key]
}

// DirectNames returns the set of names on the root's outgoing edges.
func (g *DependencyGraph) DirectNames() map[string]struct{} {
	out := make(map[string]struct{}, len(g.edges[g.root]))
	for _, name := range g.edges[g.root] {
		out[name.String()] = struct{}{}
	}
	return out
}

// Inventory yields every node in insertion order, the root first.
func (g *DependencyGraph) Inventory() iter.Seq[GraphNode] {
	return func(yield func(GraphNode) bool) {
		for _, key := range g.order {
			if !yield(*g.nodes[key]) {
				return
			}
		}
	}
}
