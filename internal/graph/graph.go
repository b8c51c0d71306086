// Package graph builds a process/edge graph from resolved facts and assigns
// vertical ranks for layout. A graph lives inside a single resolution cycle
// and is never shared, so it carries no locking.
package graph

import (
	"fmt"

	"github.com/vk/depict/internal/fact"
)

// Edge is one directed communication hop between two processes.
type Edge struct {
	From fact.Ident `json:"from"`
	To   fact.Ident `json:"to"`
}

// Graph holds processes as nodes and communication hops as edges. Node
// order is insertion order, which keeps rendering deterministic.
type Graph struct {
	nodes map[fact.Ident]*node
	order []fact.Ident
	edges []Edge
}

type node struct {
	id  fact.Ident
	out []fact.Ident
	in  []fact.Ident
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[fact.Ident]*node)}
}

// AddNode adds a node with the given id. Adding an existing id does
// nothing.
func (g *Graph) AddNode(id fact.Ident) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{id: id}
	g.order = append(g.order, id)
}

// AddEdge records a directed edge between two nodes, creating the nodes as
// needed. Self-referential edges are rejected.
func (g *Graph) AddEdge(from, to fact.Ident) error {
	if from == to {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", from, to)
	}
	g.AddNode(from)
	g.AddNode(to)
	g.nodes[from].out = append(g.nodes[from].out, to)
	g.nodes[to].in = append(g.nodes[to].in, from)
	g.edges = append(g.edges, Edge{From: from, To: to})
	return nil
}

// Nodes returns node ids in insertion order.
func (g *Graph) Nodes() []fact.Ident {
	return g.order
}

// Edges returns edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// DetectCycles reports an error naming a node on the first cycle found, or
// nil for an acyclic graph. Classic depth-first search with a permanent set
// for finished nodes and a temporary set for the current stack.
func (g *Graph) DetectCycles() error {
	permanent := make(map[fact.Ident]bool)
	temporary := make(map[fact.Ident]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("cycle detected involving node '%s'", n.id)
		}
		temporary[n.id] = true
		for _, next := range n.out {
			if err := visit(g.nodes[next]); err != nil {
				return err
			}
		}
		delete(temporary, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, id := range g.order {
		if !permanent[id] {
			if err := visit(g.nodes[id]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Ranks assigns each node a vertical rank by longest-path layering: a node
// sits one rank below its deepest predecessor. When the graph has a cycle
// the layering is undefined, so ranks fall back to discovery order.
func (g *Graph) Ranks() map[fact.Ident]int {
	ranks := make(map[fact.Ident]int, len(g.order))
	if g.DetectCycles() != nil {
		for i, id := range g.order {
			ranks[id] = i
		}
		return ranks
	}

	memo := make(map[fact.Ident]int)
	var rank func(id fact.Ident) int
	rank = func(id fact.Ident) int {
		if r, ok := memo[id]; ok {
			return r
		}
		r := 0
		for _, from := range g.nodes[id].in {
			if pr := rank(from) + 1; pr > r {
				r = pr
			}
		}
		memo[id] = r
		return r
	}
	for _, id := range g.order {
		ranks[id] = rank(id)
	}
	return ranks
}

// FromFacts builds a graph from a sequence of resolved facts: an edge fact
// (head "-") links its member atoms in order, any other compound becomes a
// node, and nested bodies are walked the same way.
func FromFacts(facts []fact.Fact) *Graph {
	g := New()
	addFacts(g, facts)
	return g
}

func addFacts(g *Graph, facts []fact.Fact) {
	for _, f := range facts {
		c, ok := f.(*fact.Compound)
		if !ok {
			continue
		}
		if c.Head == "-" {
			addPath(g, c.Body)
			continue
		}
		g.AddNode(c.Head)
		addFacts(g, c.Body)
	}
}

// addPath links adjacent atoms of an edge fact. A self-referential hop is
// skipped rather than failing the whole drawing.
func addPath(g *Graph, body []fact.Fact) {
	var prev fact.Ident
	for _, f := range body {
		a, ok := f.(*fact.Atom)
		if !ok {
			continue
		}
		g.AddNode(a.Name)
		if prev != "" && prev != a.Name {
			_ = g.AddEdge(prev, a.Name)
		}
		prev = a.Name
	}
}
