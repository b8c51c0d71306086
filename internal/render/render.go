// Package render turns a resolved fact store into drawings: the layout
// result handed to the presentation collaborator, plus a Graphviz dot
// serialization of it.
package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/depict/internal/ctxlog"
	"github.com/vk/depict/internal/directive"
	"github.com/vk/depict/internal/fact"
	"github.com/vk/depict/internal/graph"
)

// Node is one placed process of a drawing.
type Node struct {
	ID    fact.Ident `json:"id"`
	Label string     `json:"label,omitempty"`
	Rank  int        `json:"rank"`
}

// Drawing is the resolved layout for one draw target. The shell treats it
// as opaque and hands it to its renderer.
type Drawing struct {
	Name    fact.Ident   `json:"name"`
	Compact bool         `json:"compact,omitempty"`
	Nodes   []Node       `json:"nodes"`
	Edges   []graph.Edge `json:"edges"`
}

// Drawings resolves every draw directive in the store into a drawing. A
// store without draw directives yields one implicit drawing of the whole
// store, so a plain model is still previewable. A cyclic drawing is still
// emitted, with a warning diagnostic naming the drawing; its ranks fall
// back to discovery order.
func Drawings(ctx context.Context, store fact.Store, reg *directive.Registry) ([]Drawing, hcl.Diagnostics, error) {
	logger := ctxlog.FromContext(ctx)

	plan, err := reg.Plan(ctx, store)
	if err != nil {
		return nil, nil, err
	}

	var diags hcl.Diagnostics
	if len(plan.Drawings) == 0 {
		logger.Debug("No draw directives; drawing the whole store.")
		g := graph.FromFacts(storeFacts(store))
		diags = append(diags, cycleDiagnostic("main", g)...)
		return []Drawing{build("main", plan.Compact, g, store)}, diags, nil
	}

	drawings := make([]Drawing, 0, len(plan.Drawings))
	for _, name := range plan.Drawings {
		var facts []fact.Fact
		for f := range store.FilterFact(name) {
			facts = append(facts, f)
		}
		g := graph.FromFacts(facts)
		diags = append(diags, cycleDiagnostic(name, g)...)
		drawings = append(drawings, build(name, plan.Compact, g, store))
	}
	return drawings, diags, nil
}

// cycleDiagnostic reports a cyclic drawing as a warning; the drawing still
// renders with fallback ranks.
func cycleDiagnostic(name fact.Ident, g *graph.Graph) hcl.Diagnostics {
	err := g.DetectCycles()
	if err == nil {
		return nil
	}
	return hcl.Diagnostics{{
		Severity: hcl.DiagWarning,
		Summary:  "Cyclic drawing",
		Detail:   fmt.Sprintf("Drawing %q: %s. Ranks fall back to discovery order.", string(name), err),
	}}
}

func build(name fact.Ident, compact bool, g *graph.Graph, store fact.Store) Drawing {
	ranks := g.Ranks()
	d := Drawing{Name: name, Compact: compact, Edges: g.Edges()}
	for _, id := range g.Nodes() {
		d.Nodes = append(d.Nodes, Node{
			ID:    id,
			Label: label(store, id),
			Rank:  ranks[id],
		})
	}
	return d
}

// label resolves a node's display label: the first atom of a nested "name"
// fact under the node's own facts, when one exists.
func label(store fact.Store, id fact.Ident) string {
	for f := range store.FilterFact(id) {
		c, ok := f.(*fact.Compound)
		if !ok || c.Head != "name" {
			continue
		}
		var words []string
		for _, nf := range c.Body {
			if a, ok := nf.(*fact.Atom); ok {
				words = append(words, string(a.Name))
			}
		}
		if len(words) > 0 {
			return strings.Join(words, " ")
		}
	}
	return ""
}

// storeFacts flattens the store's top-level facts for the implicit drawing.
func storeFacts(store fact.Store) []fact.Fact {
	var facts []fact.Fact
	for _, syn := range store {
		if c, ok := syn.(*fact.Compound); ok {
			facts = append(facts, c)
		}
	}
	return facts
}

// Dot serializes a drawing as a Graphviz digraph. Deterministic for a given
// drawing.
func (d Drawing) Dot() string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", string(d.Name))
	if d.Compact {
		b.WriteString("  graph [ranksep=0.25, nodesep=0.25];\n")
	}
	for _, n := range d.Nodes {
		if n.Label != "" {
			fmt.Fprintf(&b, "  %q [label=%q]; // rank %d\n", string(n.ID), n.Label, n.Rank)
		} else {
			fmt.Fprintf(&b, "  %q; // rank %d\n", string(n.ID), n.Rank)
		}
	}
	for _, e := range d.Edges {
		fmt.Fprintf(&b, "  %q -> %q;\n", string(e.From), string(e.To))
	}
	b.WriteString("}\n")
	return b.String()
}
