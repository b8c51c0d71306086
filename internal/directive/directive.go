// Package directive maps directive keywords to the handlers that interpret
// them when a drawing is planned. The registry is populated once at startup
// and read-only afterwards; registering the same keyword twice is a
// programmer error and panics.
package directive

import (
	"context"
	"fmt"

	"github.com/vk/depict/internal/ctxlog"
	"github.com/vk/depict/internal/fact"
)

// Plan collects what the directives of a store ask for: which fact names to
// draw, and layout hints.
type Plan struct {
	Drawings []fact.Ident
	Compact  bool
}

// HandlerFunc interprets one directive against the store it came from,
// folding its effect into the plan.
type HandlerFunc func(ctx context.Context, store fact.Store, d *fact.Directive, plan *Plan) error

// Registry holds the known directive keywords and their handlers.
type Registry struct {
	handlers map[fact.Ident]HandlerFunc
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{handlers: make(map[fact.Ident]HandlerFunc)}
}

// Core returns a registry with the built-in directives registered.
func Core() *Registry {
	r := New()
	r.Register("draw", drawHandler)
	r.Register("compact", compactHandler)
	return r
}

// Register binds a keyword to its handler.
func (r *Registry) Register(keyword fact.Ident, h HandlerFunc) {
	if _, exists := r.handlers[keyword]; exists {
		panic(fmt.Sprintf("directive handler for keyword '%s' already registered", keyword))
	}
	r.handlers[keyword] = h
}

// Keywords returns every registered keyword, for the parser's directive set.
func (r *Registry) Keywords() []fact.Ident {
	kws := make([]fact.Ident, 0, len(r.handlers))
	for k := range r.handlers {
		kws = append(kws, k)
	}
	return kws
}

// Plan runs every directive in the store through its handler. Directives
// without a handler are skipped with a debug log.
func (r *Registry) Plan(ctx context.Context, store fact.Store) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	plan := &Plan{}
	for _, syn := range store {
		d, ok := syn.(*fact.Directive)
		if !ok {
			continue
		}
		h, ok := r.handlers[d.Keyword]
		if !ok {
			logger.Debug("Skipping unknown directive.", "keyword", d.Keyword)
			continue
		}
		if err := h(ctx, store, d, plan); err != nil {
			return nil, fmt.Errorf("directive '%s': %w", d.Keyword, err)
		}
	}
	return plan, nil
}

// drawHandler records each named drawing target.
func drawHandler(ctx context.Context, store fact.Store, d *fact.Directive, plan *Plan) error {
	for _, f := range d.Body {
		if a, ok := f.(*fact.Atom); ok {
			plan.Drawings = append(plan.Drawings, a.Name)
		}
	}
	return nil
}

// compactHandler flips the compact layout hint.
func compactHandler(ctx context.Context, store fact.Store, d *fact.Directive, plan *Plan) error {
	plan.Compact = true
	return nil
}
