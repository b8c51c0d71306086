// Package eval builds the nested term tree used by the highlighting path
// and resolves names in it against lexical scopes. This is the scoped
// counterpart to the fact package's flat resolver; the two deliberately
// disagree about shadowing and must stay separate.
package eval

import "github.com/vk/depict/internal/fact"

// Val is one node of the nested term tree: a process, a chain of processes,
// or a group collecting sibling terms.
type Val interface {
	valNode()
}

// Process is a named process with an optional label and an optional
// structured body. A process with neither name nor label is anonymous and
// cannot be selected by a highlight query. Binding is filled in by the
// scope resolver: the path of the scope that declares Name, or nil while
// the reference is unresolved.
type Process struct {
	Name    fact.Ident
	Label   fact.Ident
	Body    *Group
	Binding []fact.Ident
}

// Chain is an ordered path of processes linked by communication edges. An
// empty path is degenerate and resolves to a no-op.
type Chain struct {
	Name fact.Ident
	Path []Val
}

// Group is a composite body. Item order follows the source but carries no
// meaning.
type Group struct {
	Items []Val
}

func (*Process) valNode() {}
func (*Chain) valNode()   {}
func (*Group) valNode()   {}

// DisplayName is the name a process is referenced and styled by: the
// explicit name, falling back to the label.
func (p *Process) DisplayName() fact.Ident {
	if p.Name != "" {
		return p.Name
	}
	return p.Label
}
