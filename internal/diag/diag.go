// Package diag defines the error values surfaced by the resolution engine
// and helpers to render them with source context. Source locations reuse
// hcl.Range so diagnostics plug straight into hcl's text writer.
package diag

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2"
)

// LexError reports a position where no token rule matched. It is fatal to
// the resolution cycle that produced it.
type LexError struct {
	Range hcl.Range
	Text  string // the offending slice
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: no token matches %q", e.Range, e.Text)
}

// Diagnostic converts the error into an hcl.Diagnostic pointing at the
// offending slice.
func (e *LexError) Diagnostic() *hcl.Diagnostic {
	rng := e.Range
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid token",
		Detail:   fmt.Sprintf("No token rule matches %q.", e.Text),
		Subject:  &rng,
	}
}

// ParseError reports a token the parser rejected, or an input that ended
// before the grammar was satisfied. Fatal to the cycle.
type ParseError struct {
	Range hcl.Range
	Text  string // last token text; empty at end of input
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%s: unexpected end of input", e.Range)
	}
	return fmt.Sprintf("%s: unexpected token %q", e.Range, e.Text)
}

// Diagnostic converts the error into an hcl.Diagnostic.
func (e *ParseError) Diagnostic() *hcl.Diagnostic {
	rng := e.Range
	detail := "The input ended before the grammar was satisfied."
	if e.Text != "" {
		detail = fmt.Sprintf("The token %q is not valid here.", e.Text)
	}
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid syntax",
		Detail:   detail,
		Subject:  &rng,
	}
}

// EvalPanic wraps a panic recovered at a resolution cycle boundary. It is
// reported to the shell and logged, never re-raised.
type EvalPanic struct {
	Value any
	Stack []byte
}

func (e *EvalPanic) Error() string {
	return fmt.Sprintf("evaluation panicked: %v", e.Value)
}

// ToDiagnostics lifts any engine error into hcl.Diagnostics. Errors that
// carry their own source range keep it; anything else becomes a subject-less
// error diagnostic.
func ToDiagnostics(err error) hcl.Diagnostics {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *LexError:
		return hcl.Diagnostics{e.Diagnostic()}
	case *ParseError:
		return hcl.Diagnostics{e.Diagnostic()}
	case *EvalPanic:
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Internal evaluation fault",
			Detail:   e.Error(),
		}}
	default:
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Error",
			Detail:   err.Error(),
		}}
	}
}

// Write renders diagnostics with snippets from src, in the style of an hcl
// command line tool. filename must match the filename the ranges were lexed
// under.
func Write(w io.Writer, filename, src string, diags hcl.Diagnostics, width uint, color bool) error {
	files := map[string]*hcl.File{
		filename: {Bytes: []byte(src)},
	}
	return hcl.NewDiagnosticTextWriter(w, files, width, color).WriteDiagnostics(diags)
}
