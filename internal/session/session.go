// Package session runs resolution cycles in response to edits. Every edit
// of the model or highlight buffer triggers a fresh
// parse-evaluate-index-resolve cycle off the shell's synchronous path; the
// session owns the inbound edit queue and the outbound result queue that
// connect the engine to the shell.
package session

import (
	"context"
	"runtime/debug"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/depict/internal/ctxlog"
	"github.com/vk/depict/internal/diag"
	"github.com/vk/depict/internal/directive"
	"github.com/vk/depict/internal/eval"
	"github.com/vk/depict/internal/highlight"
	"github.com/vk/depict/internal/parser"
	"github.com/vk/depict/internal/render"
)

// Result is one cycle's output, handed to the shell by value. A failed
// cycle carries diagnostics and keeps whatever partial output was computed
// before the failure; the shell keeps showing its previous good state.
type Result struct {
	Drawings    []render.Drawing  `json:"drawings,omitempty"`
	Styles      []highlight.Style `json:"styles,omitempty"`
	Diagnostics hcl.Diagnostics   `json:"diagnostics,omitempty"`
}

// Engine resolves one generation of buffers into a Result. It holds only
// configuration; every cycle builds and drops its own store, tree, and
// scope map.
type Engine struct {
	reg *directive.Registry
}

// NewEngine creates an engine using the given directive registry.
func NewEngine(reg *directive.Registry) *Engine {
	return &Engine{reg: reg}
}

// Cycle runs one full resolution cycle. A panic anywhere inside is caught
// here, at the cycle boundary, and degrades to a diagnostic-only result:
// one bad input must never take down the host.
func (e *Engine) Cycle(ctx context.Context, model, query string) (res Result) {
	logger := ctxlog.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			p := &diag.EvalPanic{Value: r, Stack: debug.Stack()}
			logger.Error("Resolution cycle panicked.", "panic", r, "stack", string(p.Stack))
			res = Result{Diagnostics: diag.ToDiagnostics(p)}
		}
	}()

	store, err := parser.ParseText("model", model, e.reg.Keywords()...)
	if err != nil {
		return Result{Diagnostics: diag.ToDiagnostics(err)}
	}

	drawings, diags, err := render.Drawings(ctx, store, e.reg)
	if err != nil {
		return Result{Diagnostics: diag.ToDiagnostics(err)}
	}
	res = Result{Drawings: drawings, Diagnostics: diags}

	// The highlight path evaluates the model as a term tree for its scopes.
	// A model that parses flat but not as terms just yields no highlights.
	modelTree, err := eval.EvalText("model", model)
	if err != nil {
		logger.Debug("Model has no term reading; highlights disabled for this cycle.", "error", err)
		return res
	}

	queryTree, err := highlight.Parse("highlight", query)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, diag.ToDiagnostics(err)...)
		return res
	}

	scopes := highlight.Resolve(queryTree, modelTree)
	res.Styles = highlight.Styles(queryTree, highlight.Names(scopes))
	return res
}

// Session wires an Engine to a pair of edit queues and a result queue.
type Session struct {
	engine     *Engine
	models     chan string
	highlights chan string
	results    chan Result
}

// New creates a session around the engine. Edit queues are buffered so the
// shell never blocks on a keystroke.
func New(engine *Engine) *Session {
	return &Session{
		engine:     engine,
		models:     make(chan string, 16),
		highlights: make(chan string, 16),
		results:    make(chan Result, 1),
	}
}

// SubmitModel queues a model buffer edit.
func (s *Session) SubmitModel(text string) {
	s.models <- text
}

// SubmitHighlight queues a highlight buffer edit.
func (s *Session) SubmitHighlight(text string) {
	s.highlights <- text
}

// Results is the outbound queue. It holds at most the latest result and is
// closed when Run returns.
func (s *Session) Results() <-chan Result {
	return s.results
}

// Run processes edits until the context is cancelled. Edits are coalesced
// latest-wins: queued intermediate buffers are skipped, and an edit
// identical to the previously processed pair is dropped without a cycle.
func (s *Session) Run(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	defer close(s.results)

	var model, query string
	var processed bool

	for {
		newModel, newQuery := model, query
		select {
		case <-ctx.Done():
			logger.Debug("Session stopped.")
			return
		case m := <-s.models:
			newModel = m
		case q := <-s.highlights:
			newQuery = q
		}
		newModel = drain(s.models, newModel)
		newQuery = drain(s.highlights, newQuery)

		if processed && newModel == model && newQuery == query {
			logger.Debug("Skipping duplicate edit.")
			continue
		}
		model, query = newModel, newQuery
		processed = true

		s.publish(s.engine.Cycle(ctx, model, query))
	}
}

// drain empties a queue and keeps the newest entry.
func drain(ch chan string, latest string) string {
	for {
		select {
		case v := <-ch:
			latest = v
		default:
			return latest
		}
	}
}

// publish replaces any unconsumed previous result with the new one.
func (s *Session) publish(r Result) {
	for {
		select {
		case s.results <- r:
			return
		default:
			select {
			case <-s.results:
			default:
			}
		}
	}
}
