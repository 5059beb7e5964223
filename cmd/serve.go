package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/ytmb/internal/server"
	"github.com/desertthunder/ytmb/internal/services"
	"github.com/desertthunder/ytmb/internal/session"
	"github.com/desertthunder/ytmb/internal/store"
	"github.com/desertthunder/ytmb/internal/tasks"
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"
)

var bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

// Serve starts the HTTP proxy and blocks until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config

	credStore := store.New(cfg.YouTube.HeadersPath, r.logger)
	cache := session.NewCache(credStore, r.logger)

	pool := tasks.NewPool(cfg.YouTube.PoolSize, 0)
	defer pool.Close()

	music := services.NewYTMusicService(cache, pool, cfg.YouTube.BaseURL, r.httpClient, r.logger)

	metrics := server.NewMetrics()
	metrics.ObservePoolQueue(pool.Queued)

	router := server.NewBasicRouter()
	router.Use(
		server.Logging(r.logger),
		server.CORS(cfg.Server.CORSOrigins),
		server.RateLimit(cfg.Server.RateLimit),
		metrics.Middleware(),
	)
	router.Handler(server.NewUtilsHandler(cfg, r.logger))
	router.Handler(server.NewYTMHandler(cfg, credStore, cache, music, r.logger))
	router.Handle(http.MethodGet, "/metrics", metrics.Handler())

	if watcher := r.watchHeaders(cfg.YouTube.HeadersPath, cache); watcher != nil {
		defer watcher.Close()
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	r.writePlainln("%s", bannerStyle.Render(cfg.API.Name+" v"+cfg.API.Version))
	r.logger.Info("listening", "addr", srv.Addr, "pool_size", pool.Size())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		r.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// watchHeaders invalidates the session cache when the headers file changes on
// disk outside the ingest path (manual edits, external tooling).
//
// Watching is best-effort: ingest already invalidates synchronously, so a
// failed watcher only loses the out-of-band case.
func (r *Runner) watchHeaders(path string, cache *session.Cache) *fsnotify.Watcher {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		r.logger.Warn("cannot create headers directory; file watching disabled", "dir", dir, "err", err)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		r.logger.Warn("file watching disabled", "err", err)
		return nil
	}

	if err := watcher.Add(dir); err != nil {
		r.logger.Warn("file watching disabled", "dir", dir, "err", err)
		watcher.Close()
		return nil
	}

	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) == target {
					cache.Invalidate()
					r.logger.Info("headers file changed on disk; session cache invalidated", "op", event.Op.String())
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn("watcher error", "err", err)
			}
		}
	}()

	return watcher
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP proxy server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Serve,
	}
}
