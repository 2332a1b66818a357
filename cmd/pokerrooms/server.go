package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/pokerrooms/internal/evaluator"
	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/lox/pokerrooms/internal/server"
	"github.com/lox/pokerrooms/internal/store"
	"golang.org/x/sync/errgroup"
)

// ServerCmd runs the WebSocket room server
type ServerCmd struct {
	Addr        string `help:"Server address (overrides config)" env:"POKERROOMS_ADDR"`
	StoreDriver string `help:"Store driver: memory, file, sqlite or postgres (overrides config)" env:"POKERROOMS_STORE_DRIVER"`
	StoreDSN    string `name:"store-dsn" help:"Store location (overrides config)" env:"POKERROOMS_STORE_DSN"`
	Seed        *int64 `help:"Deterministic shuffle seed (optional)"`
}

func (c *ServerCmd) Run(cli *CLI) error {
	cfg, err := server.LoadServerConfig(cli.Config)
	if err != nil {
		return err
	}
	if cli.LogLevel != "" {
		cfg.Server.LogLevel = cli.LogLevel
	}
	if c.StoreDriver != "" {
		cfg.Store.Driver = c.StoreDriver
	}
	if c.StoreDSN != "" {
		cfg.Store.DSN = c.StoreDSN
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	logger := newLogger(cfg.Server.LogLevel)
	seed := randutil.Seed(c.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	writer := store.NewWriter(st, store.WithWriterLogger(logger))
	registry := server.NewRegistry(st, writer, logger,
		server.WithTableConfig(cfg.TableConfig()),
		server.WithResolver(evaluator.NewResolver()),
		server.WithRand(randutil.NewLocked(randutil.New(seed))),
	)
	gateway := server.NewGateway(registry, logger, server.WithReconnectTimeout(cfg.ReconnectTimeout()))
	srv := server.NewServer(addr, gateway, writer, logger)

	logger.Info("Starting room server",
		"addr", addr,
		"store", cfg.Store.Driver,
		"min_players", cfg.Table.MinPlayers,
		"max_players", cfg.Table.MaxPlayers,
		"reconnect_timeout", cfg.ReconnectTimeout(),
		"seed", seed)

	writerCtx, stopWriter := context.WithCancel(context.Background())
	defer stopWriter()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return writer.Run(writerCtx) })
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		stopWriter()
		return err
	})
	return g.Wait()
}
