package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/congo-pay/payout_demo/internal/config"
	"github.com/congo-pay/payout_demo/internal/infra"
	"github.com/congo-pay/payout_demo/internal/logging"
	"github.com/congo-pay/payout_demo/internal/onboarding"
	"github.com/congo-pay/payout_demo/internal/routes"
	"github.com/congo-pay/payout_demo/internal/server"
	"github.com/congo-pay/payout_demo/internal/treasury"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	res, err := infra.Connect(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("connect backing services", "error", err)
		os.Exit(1)
	}
	defer res.Close(logger)

	client, err := treasury.New(treasury.Config{
		BaseURL:        cfg.Treasury.BaseURL,
		OrganizationID: cfg.Treasury.OrganizationID,
		APIKey:         cfg.Treasury.APIKey,
		Timeout:        cfg.Treasury.Timeout,
		PageSize:       cfg.Treasury.PageSize,
	})
	if err != nil {
		logger.Error("build treasury client", "error", err)
		os.Exit(1)
	}
	if !cfg.Ledger.LedgerConfigured() {
		logger.Warn("ledger accounts not configured, /pay-with-ledger will answer 503")
	}

	opts := onboarding.DefaultOptions()
	opts.Workers = cfg.Onboarding.Workers
	opts.Retry.MaxAttempts = cfg.Onboarding.MaxAttempts
	dispatcher := onboarding.NewDispatcher(client, res.Activity, logger, opts)

	srv, err := server.New(routes.Deps{
		Cfg:        cfg,
		DB:         res.DB,
		Cache:      res.Cache,
		Logger:     logger,
		Activity:   res.Activity,
		Treasury:   client,
		Dispatcher: dispatcher,
	})
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn("onboarding submissions abandoned", "error", err)
	}

	logger.Info("server exited cleanly")
}
