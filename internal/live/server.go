// Package live exposes the resolution engine to an external GUI shell over
// socket.io. The shell streams `model` and `highlight` buffer edits in and
// receives `drawing`, `styles`, and `diagnostics` events back; every
// connected client gets its own session with its own edit queues.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/zishang520/socket.io/v2/socket"

	"github.com/vk/depict/internal/config"
	"github.com/vk/depict/internal/ctxlog"
	"github.com/vk/depict/internal/session"
)

// Server is the live-preview endpoint. It owns the HTTP listener and the
// socket.io server, and fans each connection out to a dedicated session.
type Server struct {
	addr    string
	engine  *session.Engine
	profile *config.Profile
}

// New creates a server that will listen on addr once Run is called.
func New(addr string, engine *session.Engine, profile *config.Profile) *Server {
	return &Server{addr: addr, engine: engine, profile: profile}
}

// Run serves until the context is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	io := socket.NewServer(nil, nil)
	io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		s.attach(ctx, client)
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", io.ServeHandler(nil))

	httpServer := &http.Server{
		Addr:        s.addr,
		Handler:     mux,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Live server listening.", "addr", s.addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Debug("Live server stopping.")
		io.Close(nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// attach wires one connected client to a fresh session: a goroutine runs the
// session loop, another pumps its results back out as events, and the
// client's own event handlers feed the edit queues.
func (s *Server) attach(ctx context.Context, client *socket.Socket) {
	logger := ctxlog.FromContext(ctx).With("client", client.Id())
	logger.Info("Client connected.")

	clientCtx, cancel := context.WithCancel(ctx)
	sess := session.New(s.engine)
	go sess.Run(clientCtx)
	go s.pump(clientCtx, client, sess)

	emitJSON(logger, client, "profile", s.profile)

	client.On("model", func(data ...any) {
		if text, ok := firstString(data); ok {
			sess.SubmitModel(text)
		}
	})
	client.On("highlight", func(data ...any) {
		if text, ok := firstString(data); ok {
			sess.SubmitHighlight(text)
		}
	})
	client.On("disconnect", func(...any) {
		logger.Info("Client disconnected.")
		cancel()
	})
}

// pump forwards session results to the client until the session closes its
// result queue. Drawings, styles, and diagnostics travel as separate events
// so the shell can update its panes independently.
func (s *Server) pump(ctx context.Context, client *socket.Socket, sess *session.Session) {
	logger := ctxlog.FromContext(ctx).With("client", client.Id())
	for res := range sess.Results() {
		if len(res.Drawings) > 0 {
			emitJSON(logger, client, "drawing", res.Drawings)
		}
		emitJSON(logger, client, "styles", res.Styles)
		if len(res.Diagnostics) > 0 {
			emitJSON(logger, client, "diagnostics", summarize(res.Diagnostics))
		}
	}
}

// Diagnostic is the wire form of one diagnostic: the summary text plus a
// compact "file:line,col" position the shell can jump to.
type Diagnostic struct {
	Summary  string `json:"summary"`
	Detail   string `json:"detail,omitempty"`
	Position string `json:"position,omitempty"`
}

func summarize(diags hcl.Diagnostics) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		wire := Diagnostic{Summary: d.Summary, Detail: d.Detail}
		if d.Subject != nil {
			wire.Position = d.Subject.String()
		}
		out = append(out, wire)
	}
	return out
}

func emitJSON(logger *slog.Logger, client *socket.Socket, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("Failed to encode event payload.", "event", event, "error", err)
		return
	}
	if err := client.Emit(event, string(data)); err != nil {
		logger.Warn("Failed to emit event.", "event", event, "error", err)
	}
}

// firstString extracts the text argument of an inbound edit event.
func firstString(data []any) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	text, ok := data[0].(string)
	return text, ok
}
