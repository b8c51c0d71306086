package app

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/vk/depict/internal/ctxlog"
	"github.com/vk/depict/internal/diag"
	"github.com/vk/depict/internal/fsutil"
	"github.com/vk/depict/internal/live"
	"github.com/vk/depict/internal/session"
)

// Run executes the application: either serve a live session to an external
// shell, or resolve every model file and print its drawings as dot.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.cfg.Listen != "" {
		srv := live.New(a.cfg.Listen, a.engine, a.profile)
		return srv.Run(ctx)
	}

	files, err := fsutil.FindModels(a.cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("failed to find model files: %w", err)
	}
	if len(files) == 0 {
		a.logger.Warn("No model files found.", "path", a.cfg.ModelPath)
		return nil
	}
	a.logger.Debug("Model files found.", "count", len(files))

	type outcome struct {
		src    string
		result session.Result
		err    error
	}
	outcomes := make([]outcome, len(files))

	// Resolution cycles are independent per file, so they run on a small
	// worker pool. Output is still emitted in input order.
	var wg sync.WaitGroup
	sem := make(chan struct{}, a.cfg.Workers)
	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := os.ReadFile(path)
			if err != nil {
				outcomes[i] = outcome{err: fmt.Errorf("failed to read %s: %w", path, err)}
				return
			}
			src := string(data)
			outcomes[i] = outcome{src: src, result: a.engine.Cycle(ctx, src, "")}
		}(i, path)
	}
	wg.Wait()

	failed := 0
	for i, oc := range outcomes {
		if oc.err != nil {
			failed++
			fmt.Fprintln(a.errW, oc.err)
			continue
		}
		if len(oc.result.Diagnostics) > 0 {
			if err := diag.Write(a.errW, "model", oc.src, oc.result.Diagnostics, 78, false); err != nil {
				fmt.Fprintln(a.errW, oc.result.Diagnostics.Error())
			}
			// warnings are reported but do not fail the file
			if oc.result.Diagnostics.HasErrors() {
				failed++
				continue
			}
		}
		a.logger.Debug("Model resolved.", "file", files[i], "drawings", len(oc.result.Drawings))
		for _, d := range oc.result.Drawings {
			fmt.Fprint(a.outW, d.Dot())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d model files failed to resolve", failed, len(files))
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
