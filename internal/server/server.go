// Package server exposes the local admin HTTP surface of an animus daemon:
// health, network state, and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/danmuck/animus/internal/animus"
	"github.com/danmuck/animus/internal/auth"
	"github.com/danmuck/animus/internal/observability"
)

// StateSource is the read side of an animus runtime.
type StateSource interface {
	Snapshot() animus.NetworkState
}

type Admin struct {
	name     string
	version  string
	state    StateSource
	router   *gin.Engine
	appeared time.Time
	logger   zerolog.Logger
	guard    auth.Validator
}

func NewAdmin(name, version string, state StateSource, logger zerolog.Logger) *Admin {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.HTTPObserver(logger, name))

	a := &Admin{
		name:     name,
		version:  version,
		state:    state,
		router:   router,
		appeared: time.Now(),
		logger:   logger,
	}
	a.registerRoutes()
	return a
}

// RequireToken guards every route except /health with v. A nil v leaves the
// routes open.
func (a *Admin) RequireToken(v auth.Validator) *Admin {
	a.guard = v
	return a
}

func (a *Admin) authorize(c *gin.Context) {
	if a.guard == nil {
		c.Next()
		return
	}
	if err := auth.Authorize(a.guard, c.GetHeader("Authorization")); err != nil {
		a.logger.Debug().Str("path", c.FullPath()).Msg("server.Admin unauthorized")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.Next()
}

func (a *Admin) Handler() http.Handler {
	return a.router
}

// ListenAndServe serves the admin API on addr until ctx is done.
func (a *Admin) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", addr).Msg("server.Admin listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
