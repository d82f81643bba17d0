package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LachieKelly/casino/internal/api"
	"github.com/LachieKelly/casino/internal/balance"
	"github.com/LachieKelly/casino/internal/config"
	"github.com/LachieKelly/casino/internal/engine"
	"github.com/LachieKelly/casino/internal/ledger"
	"github.com/LachieKelly/casino/internal/logger"
	"github.com/LachieKelly/casino/internal/session"
	"github.com/LachieKelly/casino/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogDir)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := db.Migrate(); err != nil {
		return multierr.Append(err, db.Close())
	}

	var remote ledger.Remote
	if cfg.BalanceURL != "" {
		remote = balance.NewClient(balance.Config{BaseURL: cfg.BalanceURL})
		log.Info("balance store enabled", zap.String("url", cfg.BalanceURL))
	} else {
		log.Warn("balance store disabled, running on local balances only")
	}

	registry := session.NewRegistry(remote, db, engine.Crypto(),
		cfg.StartBalanceDecimal(), log)
	server := api.NewServer(registry, db, log)

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	return multierr.Append(err, db.Close())
}
