package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vk/playtraversal/internal/server"
	"github.com/vk/playtraversal/internal/webversion"
)

const defaultHTTPAddr = ":8188"

// Server builds the HTTP server, resolving the web root.
func (a *App) Server(ctx context.Context) (*server.Server, error) {
	ctx = a.Context(ctx)
	webRoot := a.config.WebRoot
	if webRoot == "" && a.config.PluginDir != "" {
		sel, err := webversion.Resolve(ctx, a.config.PluginDir)
		if err != nil {
			return nil, err
		}
		webRoot = sel.Path(a.config.PluginDir)
		a.logger.Info("Web root resolved.", "version", sel.Version, "path", webRoot, "fallback", sel.Fallback)
	}
	return server.New(ctx, server.Options{
		Backdrops: a.backdrops,
		Gatherer:  a.metrics,
		WebRoot:   webRoot,
	}), nil
}

// Serve runs the HTTP server until ctx is done. When a prompt file is
// configured it is executed alongside, and a failure stops the server.
func (a *App) Serve(ctx context.Context) error {
	ctx = a.Context(ctx)
	srv, err := a.Server(ctx)
	if err != nil {
		return err
	}
	addr := a.config.HTTPAddr
	if addr == "" {
		addr = defaultHTTPAddr
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, addr)
	})
	if a.config.PromptPath != "" {
		g.Go(func() error {
			_, err := a.Run(gctx)
			return err
		})
	}
	return g.Wait()
}
