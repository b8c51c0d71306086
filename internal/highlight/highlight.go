// Package highlight resolves the secondary highlight query against a
// model's term tree and derives the name-to-style selection the shell's
// style generator consumes.
package highlight

import (
	"strings"

	"github.com/vk/depict/internal/eval"
	"github.com/vk/depict/internal/fact"
	"github.com/vk/depict/internal/parser"
)

// Kind classifies a style rule target.
type Kind string

const (
	KindProcess Kind = "process" // a named process box
	KindChain   Kind = "chain"   // a whole named chain
	KindEdge    Kind = "edge"    // one hop of an anonymous chain
)

// Style is one "name maps to emphasis" pair. For KindEdge, From and To name
// the hop's endpoints instead of Name.
type Style struct {
	Kind Kind       `json:"kind"`
	Name fact.Ident `json:"name,omitempty"`
	From fact.Ident `json:"from,omitempty"`
	To   fact.Ident `json:"to,omitempty"`
}

// Parse evaluates a highlight query buffer into its term tree. An
// all-whitespace buffer short-circuits to the default empty tree without
// invoking the lexer.
func Parse(filename, src string) (*eval.Process, error) {
	if strings.TrimSpace(src) == "" {
		return &eval.Process{Body: &eval.Group{}}, nil
	}
	toks, err := parser.NewLexer(filename, src).All()
	if err != nil {
		return nil, err
	}
	return eval.Eval(toks)
}

// Resolve binds the query's references against the model tree's scopes.
// Lexical lookup runs first, so a query that mirrors the model's nesting
// binds scope-accurately; references still unbound after that fall back to
// the shallowest model scope declaring the name, letting a flat query name
// a deeply nested process. Query names absent from the model simply stay
// unresolved; that is never an error.
func Resolve(query, model *eval.Process) eval.Scopes {
	scopes := make(eval.Scopes)
	eval.Index(model, nil, scopes)
	eval.Resolve(query, nil, scopes)
	bindLoose(query, scopes)
	return scopes
}

// bindLoose binds the remaining unresolved references by declaration site
// instead of lexical position.
func bindLoose(v eval.Val, scopes eval.Scopes) {
	switch n := v.(type) {
	case *eval.Process:
		if n.Binding == nil && n.Name != "" && n.Label == "" && n.Body == nil {
			n.Binding = eval.DeclaringScope(n.Name, scopes)
			return
		}
		if n.Body != nil {
			for _, c := range n.Body.Items {
				bindLoose(c, scopes)
			}
		}
	case *eval.Chain:
		for _, c := range n.Path {
			bindLoose(c, scopes)
		}
	case *eval.Group:
		for _, c := range n.Items {
			bindLoose(c, scopes)
		}
	}
}

// Names flattens a scope table into the set of every declared name,
// regardless of depth. Used to filter chain selections that name nothing in
// the model.
func Names(scopes eval.Scopes) map[fact.Ident]bool {
	names := make(map[fact.Ident]bool)
	for _, declared := range scopes {
		for _, n := range declared {
			names[n] = true
		}
	}
	return names
}

// Styles maps the resolved query tree to style rules. Only bound process
// references, chains whose name the model declares, and hops with both
// endpoints bound produce rules; everything unresolved is a silent no-op.
func Styles(query *eval.Process, declared map[fact.Ident]bool) []Style {
	var styles []Style
	if query.Body == nil {
		return styles
	}
	for _, v := range query.Body.Items {
		styles = appendStyles(styles, v, declared)
	}
	return styles
}

func appendStyles(styles []Style, v eval.Val, declared map[fact.Ident]bool) []Style {
	switch n := v.(type) {
	case *eval.Process:
		if name := n.DisplayName(); name != "" && n.Binding != nil {
			styles = append(styles, Style{Kind: KindProcess, Name: name})
		}
		if n.Body != nil {
			for _, c := range n.Body.Items {
				styles = appendStyles(styles, c, declared)
			}
		}
	case *eval.Chain:
		if n.Name != "" {
			if declared[n.Name] {
				styles = append(styles, Style{Kind: KindChain, Name: n.Name})
			}
			return styles
		}
		styles = append(styles, hopStyles(n)...)
	case *eval.Group:
		for _, c := range n.Items {
			styles = appendStyles(styles, c, declared)
		}
	}
	return styles
}

// hopStyles emits one edge rule per adjacent pair of bound, named endpoints
// along an anonymous chain.
func hopStyles(c *eval.Chain) []Style {
	var styles []Style
	for i := 0; i+1 < len(c.Path); i++ {
		from, ok1 := c.Path[i].(*eval.Process)
		to, ok2 := c.Path[i+1].(*eval.Process)
		if !ok1 || !ok2 {
			continue
		}
		if from.Binding == nil || to.Binding == nil {
			continue
		}
		fn, tn := from.DisplayName(), to.DisplayName()
		if fn == "" || tn == "" {
			continue
		}
		styles = append(styles, Style{Kind: KindEdge, From: fn, To: tn})
	}
	return styles
}
