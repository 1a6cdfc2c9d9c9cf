package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/xavierca1/ligue-crm/internal/config"
)

func main() {
	app := &cli.App{
		Name:  "ligue-crm-api",
		Usage: "CRM REST API for customers and leads with simulated network latency",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before the environment"},
			&cli.StringFlag{Name: "port", Usage: "HTTP port (overrides PORT)"},
			&cli.DurationFlag{Name: "latency", Usage: "simulated network latency (overrides LATENCY)"},
			&cli.Float64Flag{Name: "failure-rate", Usage: "fraction of API requests answered with 503 (overrides FAILURE_RATE)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides LOG_LEVEL)"},
			&cli.BoolFlag{Name: "json-logs", Usage: "log as JSON"},
			&cli.BoolFlag{Name: "no-seed", Usage: "start with an empty store"},
			&cli.BoolFlag{Name: "trust-proxy", Usage: "take client addresses from X-Forwarded-For (overrides TRUST_PROXY)"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("api stopped")
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel, c.Bool("json-logs"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	var wg sync.WaitGroup
	app.StartBackground(ctx, &wg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(log.Fields{
			"port":    cfg.Port,
			"latency": cfg.Latency,
			"version": cfg.Version,
		}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		stop()
		wg.Wait()
		return errors.Wrap(err, "listen")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("graceful shutdown failed")
	}

	// background workers observe ctx and finish their last snapshot
	wg.Wait()
	logger.Info("server stopped")
	return nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}
	if c.IsSet("latency") {
		cfg.Latency = c.Duration("latency")
	}
	if c.IsSet("failure-rate") {
		cfg.FailureRate = c.Float64("failure-rate")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("no-seed") {
		cfg.SeedData = false
	}
	if c.IsSet("trust-proxy") {
		cfg.TrustProxy = c.Bool("trust-proxy")
	}
}

func newLogger(level string, json bool) (*log.Logger, error) {
	l := log.New()
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	l.SetLevel(lvl)
	if json {
		l.SetFormatter(&log.JSONFormatter{})
	}
	return l, nil
}
