package eval

import (
	"slices"
	"strings"

	"github.com/vk/depict/internal/fact"
)

// Scopes maps a nesting path to the names declared directly at that depth.
// It is built once per resolution pass by Index and read by Resolve, then
// discarded with the cycle that owns it.
type Scopes map[string][]fact.Ident

// scopeSep joins a path into a map key. The separator cannot occur in an
// identifier, so distinct paths never collide.
const scopeSep = "\x1f"

func scopeKey(path []fact.Ident) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = string(id)
	}
	return strings.Join(parts, scopeSep)
}

// snapshot copies a path so stored paths never alias the walker's working
// stack.
func snapshot(path []fact.Ident) []fact.Ident {
	return slices.Clone(path)
}

// declares reports the name v introduces into its enclosing scope, or "".
// A process declares itself when it has structure (a body or a label); a
// bare name is a reference, not a declaration. A named chain declares its
// name. Elements of a chain's path are implicit declarations and are
// registered by the chain itself.
func declares(v Val) fact.Ident {
	switch n := v.(type) {
	case *Process:
		if n.Body != nil || n.Label != "" {
			return n.DisplayName()
		}
	case *Chain:
		return n.Name
	}
	return ""
}

// isReference reports whether v is a bare name reference.
func isReference(v Val) bool {
	p, ok := v.(*Process)
	return ok && p.Name != "" && p.Label == "" && p.Body == nil
}

// Index walks the tree depth-first and records, for every nesting path, the
// names declared at exactly that depth. A named process or chain extends
// the path for everything beneath it; its directly nested named children
// are registered under the extended path, a fresh snapshot per scope.
func Index(v Val, path []fact.Ident, scopes Scopes) {
	switch n := v.(type) {
	case *Process:
		if name := n.DisplayName(); name != "" {
			path = append(snapshot(path), name)
		}
		if n.Body == nil {
			return
		}
		register(n.Body.Items, path, scopes)
		for _, c := range n.Body.Items {
			Index(c, path, scopes)
		}
	case *Chain:
		if n.Name != "" {
			path = append(snapshot(path), n.Name)
		}
		// linking processes into a path declares them in the chain's scope
		k := scopeKey(path)
		for _, c := range n.Path {
			if p, ok := c.(*Process); ok {
				addName(scopes, k, p.DisplayName())
			}
		}
		register(n.Path, path, scopes)
		for _, c := range n.Path {
			Index(c, path, scopes)
		}
	case *Group:
		register(n.Items, path, scopes)
		for _, c := range n.Items {
			Index(c, path, scopes)
		}
	}
}

func register(children []Val, path []fact.Ident, scopes Scopes) {
	k := scopeKey(path)
	for _, c := range children {
		addName(scopes, k, declares(c))
	}
}

func addName(scopes Scopes, key string, name fact.Ident) {
	if name != "" && !slices.Contains(scopes[key], name) {
		scopes[key] = append(scopes[key], name)
	}
}

// Resolve walks the tree depth-first, mirroring Index's traversal, and
// binds each bare name reference to the nearest enclosing scope that
// declares the name, innermost first. A name no enclosing scope declares is
// left untouched: partially typed or forward-referencing input degrades to
// an unresolved reference instead of failing the pass.
func Resolve(v Val, path []fact.Ident, scopes Scopes) {
	switch n := v.(type) {
	case *Process:
		if isReference(n) {
			n.Binding = lookup(n.Name, path, scopes)
			return
		}
		if name := n.DisplayName(); name != "" {
			path = append(snapshot(path), name)
		}
		if n.Body == nil {
			return
		}
		for _, c := range n.Body.Items {
			Resolve(c, path, scopes)
		}
	case *Chain:
		if n.Name != "" {
			path = append(snapshot(path), n.Name)
		}
		for _, c := range n.Path {
			Resolve(c, path, scopes)
		}
	case *Group:
		for _, c := range n.Items {
			Resolve(c, path, scopes)
		}
	}
}

// DeclaringScope finds a scope declaring name anywhere in the table,
// preferring the shallowest and breaking depth ties by key order so the
// result never depends on map iteration. Returns nil when no scope
// declares the name.
func DeclaringScope(name fact.Ident, scopes Scopes) []fact.Ident {
	var best string
	found := false
	for key, declared := range scopes {
		if !slices.Contains(declared, name) {
			continue
		}
		if !found || shallower(key, best) {
			best, found = key, true
		}
	}
	if !found {
		return nil
	}
	if best == "" {
		return []fact.Ident{}
	}
	parts := strings.Split(best, scopeSep)
	path := make([]fact.Ident, len(parts))
	for i, p := range parts {
		path[i] = fact.Ident(p)
	}
	return path
}

func shallower(a, b string) bool {
	if da, db := keyDepth(a), keyDepth(b); da != db {
		return da < db
	}
	return a < b
}

func keyDepth(key string) int {
	if key == "" {
		return 0
	}
	return strings.Count(key, scopeSep) + 1
}

// lookup walks the path from deepest to shallowest and returns the first
// scope declaring name, or nil when none does. A hit at the root scope
// returns an empty, non-nil path so resolved and unresolved stay
// distinguishable.
func lookup(name fact.Ident, path []fact.Ident, scopes Scopes) []fact.Ident {
	for i := len(path); i >= 0; i-- {
		if slices.Contains(scopes[scopeKey(path[:i])], name) {
			return append(make([]fact.Ident, 0, i), path[:i]...)
		}
	}
	return nil
}
