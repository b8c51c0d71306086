package fact

import "strings"

// Format renders the store as canonical source text. Parsing the result
// yields a store structurally equal to s.
func Format(s Store) string {
	var b strings.Builder
	for _, syn := range s {
		switch e := syn.(type) {
		case *Directive:
			b.WriteString(string(e.Keyword))
			for _, f := range e.Body {
				if a, ok := f.(*Atom); ok {
					b.WriteByte(' ')
					b.WriteString(string(a.Name))
				}
			}
			b.WriteByte('\n')
		case *Compound:
			writeCompound(&b, e, 0)
		}
	}
	return b.String()
}

func writeCompound(b *strings.Builder, c *Compound, depth int) {
	indent := strings.Repeat("  ", depth)
	if atoms, ok := atomNames(c.Body); ok {
		b.WriteString(indent)
		b.WriteString(string(c.Head))
		// nested compounds keep their brackets so they parse back as
		// compounds; top-level facts and dash groups read back as-is
		bracketed := depth > 0 && c.Head != "-"
		if bracketed {
			b.WriteString(" [")
		}
		for _, name := range atoms {
			b.WriteByte(' ')
			b.WriteString(string(name))
		}
		if bracketed {
			b.WriteString(" ]")
		}
		b.WriteByte('\n')
		return
	}
	b.WriteString(indent)
	b.WriteString(string(c.Head))
	b.WriteString(" [\n")
	for _, f := range c.Body {
		switch item := f.(type) {
		case *Atom:
			b.WriteString(indent)
			b.WriteString("  ")
			b.WriteString(string(item.Name))
			b.WriteByte('\n')
		case *Compound:
			writeCompound(b, item, depth+1)
		}
	}
	b.WriteString(indent)
	b.WriteString("]\n")
}

// atomNames returns the names of body when it consists solely of atoms.
func atomNames(body []Fact) ([]Ident, bool) {
	names := make([]Ident, 0, len(body))
	for _, f := range body {
		a, ok := f.(*Atom)
		if !ok {
			return nil, false
		}
		names = append(names, a.Name)
	}
	return names, true
}
