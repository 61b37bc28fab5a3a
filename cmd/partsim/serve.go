package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/stream"
	"github.com/spf13/cobra"
)

var (
	listenAddr string
	serveFPS   int
)

// statsEvery is how many frames pass between progress log lines.
const statsEvery = 600

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sys, clock, err := newSystem(cfg)
	if err != nil {
		return err
	}

	hub := stream.NewHub(logger.WithPrefix("stream"))
	sys.Subscribe(hub)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok %d clients, %d frames published\n", hub.Clients(), hub.Published())
	})

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", listenAddr, "particles", cfg.Count, "fps", serveFPS)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	runCfg := cfg.SimConfig()
	runCfg.Frames = 0
	runCfg.FrameRate = serveFPS

	driver := sim.New(sys, clock)
	simErr := make(chan error, 1)
	go func() {
		n := 0
		simErr <- driver.RunWithCallback(ctx, runCfg, func(v dynamo.View, t float64) bool {
			n++
			if n%statsEvery == 0 {
				logger.Debug("streaming",
					"frame", n,
					"t", fmt.Sprintf("%.1fs", t),
					"clients", hub.Clients(),
					"dropped", hub.Dropped(),
				)
			}
			return true
		})
	}()

	simDone := false
	select {
	case err = <-serveErr:
	case err = <-simErr:
		simDone = true
	case <-ctx.Done():
	}
	cancel()
	if !simDone {
		<-simErr
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		logger.Warn("shutdown", "err", serr)
	}
	if cerr := hub.Close(); cerr != nil {
		logger.Warn("closing hub", "err", cerr)
	}

	logger.Info("stopped", "frames", sys.Version(), "published", hub.Published(), "dropped", hub.Dropped())
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
