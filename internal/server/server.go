// Package server exposes the HTTP side of the plugin: the backdrop listing
// the authoring UI queries, health and metrics endpoints, and the web assets.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vk/playtraversal/internal/backdrop"
	"github.com/vk/playtraversal/internal/ctxlog"
	"github.com/vk/playtraversal/internal/perr"
)

// BackdropsPath is queried by the authoring UI.
const BackdropsPath = "/comfyui_play_traversal/get_backdrops"

// Lister lists the backdrops of a workspace.
type Lister interface {
	List(ctx context.Context, workspace string) ([]string, error)
}

var _ Lister = (*backdrop.Store)(nil)

// Options configures a Server.
type Options struct {
	Backdrops Lister
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// WebRoot is served under /web when set.
	WebRoot string
}

// Server wraps the gin router and its http.Server.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New builds the router.
func New(ctx context.Context, opts Options) *Server {
	logger := ctxlog.FromContext(ctx)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", health)
	router.GET(BackdropsPath, listBackdrops(opts.Backdrops))
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	if opts.WebRoot != "" {
		router.Static("/web", opts.WebRoot)
		logger.Debug("Serving web assets.", "root", opts.WebRoot)
	}
	return &Server{router: router}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	logger := ctxlog.FromContext(ctx)
	s.http = &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🩺 HTTP server starting", "address", addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server failed unexpectedly", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down HTTP server...")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	logger.Debug("HTTP server shut down gracefully.")
	return nil
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func listBackdrops(store Lister) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := ctxlog.FromContext(c.Request.Context())

		workspace := c.Query("workspace_codename")
		if workspace == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "workspace_codename is required"})
			return
		}

		names, err := store.List(c.Request.Context(), workspace)
		if err != nil {
			if perr.IsValidation(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logger.Error("Failed to list backdrops.", "workspace", workspace, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"value": names})
	}
}
