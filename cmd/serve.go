package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iuliopime/bmat/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until the command context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	host := r.config.Server.Host
	if flag := cmd.String("host"); flag != "" {
		host = flag
	}
	port := r.config.Server.Port
	if flag := cmd.Int("port"); flag != 0 {
		port = flag
	}

	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.RequestLogger(r.logger))
	router.Handler(server.NewAPI(store.submissions, store.manager, store.tracks,
		store.teams, store.roles, r.config.Fallbacks, r.logger))

	addr := fmt.Sprintf("%s:%d", host, port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}
