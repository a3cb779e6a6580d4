package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"vaxslots/internal/booking"
	"vaxslots/internal/common/fsutil"
	"vaxslots/internal/config"
	"vaxslots/internal/httpapi"
	"vaxslots/internal/hub"
	"vaxslots/internal/notify"
	"vaxslots/internal/seed"
	"vaxslots/internal/store"
)

const shutdownTimeout = 5 * time.Second

// requestLogLevel maps the process log level onto per-request logging.
func requestLogLevel(level string) string {
	switch level {
	case "debug", "trace":
		return "debug"
	case "warn", "error":
		return "error"
	case "disabled":
		return "off"
	default:
		return "info"
	}
}

// serve runs the service until ctx is canceled or the listener fails.
func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	dbPath, err := fsutil.PrepareDBPath(cfg.DBPath)
	if err != nil {
		return err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.SeedFile != "" {
		centers, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			return err
		}
		n, err := seed.Apply(ctx, st, centers, cfg.DefaultSlots)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		log.Info().Int("inserted", n).Str("file", cfg.SeedFile).Msg("seed applied")
	}

	bus := notify.NewBus(notify.Config{Buffer: cfg.BusBuffer, Logger: log})
	defer bus.Close()

	reg := hub.New(hub.Config{
		ClientBuffer: cfg.ClientBuffer,
		WriteWait:    cfg.WriteWait(),
		PongWait:     cfg.PongWait(),
		Logger:       log,
	})
	defer reg.Close()
	go reg.Follow(ctx, bus)

	auth := booking.New(booking.Config{
		Store:        st,
		Publisher:    bus,
		DefaultSlots: cfg.DefaultSlots,
		LockTimeout:  cfg.LockTimeout(),
		Logger:       log,
	})

	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(true, cfg.CORSOrigins, nil, nil)
	httpapi.SetBaseContext(ctx)
	httpapi.SetDefaultLogLevel(requestLogLevel(cfg.LogLevel))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(auth, st, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("db", dbPath).Msg("vaxslots listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	log.Info().Msg("vaxslots stopped")
	return nil
}
