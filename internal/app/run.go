package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.String("chain-a", string(a.cfg.ChainA.ID)),
		zap.String("chain-b", string(a.cfg.ChainB.ID)),
		zap.Strings("watch-tokens", a.cfg.WatchTokens),
		zap.String("trader-mode", a.cfg.TraderMode),
		zap.Bool("auto-execute", a.cfg.AutoExecute))

	err := a.startComponents()
	if err != nil {
		return err
	}

	a.healthChecker.SetReady(true)

	a.logger.Info("application-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort))

	return a.waitForShutdown()
}

func (a *App) startComponents() error {
	// Start HTTP server
	a.wg.Add(1)
	go a.runHTTPServer()

	// Give HTTP server a moment to start
	time.Sleep(100 * time.Millisecond)

	// Start the guardian push feed if configured
	if a.bridgeFeed != nil {
		a.wg.Add(1)
		go a.runBridgeFeed()
	}

	// Start executing findings before the monitor produces any, so the
	// channel never backs up.
	if a.cfg.AutoExecute {
		a.wg.Add(1)
		go a.runExecutionLoop()
	} else {
		a.wg.Add(1)
		go a.drainFindings()
	}

	return a.monitor.Start(a.ctx)
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

func (a *App) runBridgeFeed() {
	defer a.wg.Done()
	err := a.bridgeFeed.Run(a.ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("bridge-feed-error", zap.Error(err))
	}
}

// runExecutionLoop executes each monitor finding and records the outcome.
func (a *App) runExecutionLoop() {
	defer a.wg.Done()

	for opp := range a.monitor.Findings() {
		result, err := a.orchestrator.Execute(a.ctx, opp.Token, opp.Notional)
		if err != nil {
			a.logger.Warn("auto-execution-failed",
				zap.String("token", opp.Token),
				zap.Error(err))
		}

		if result != nil {
			storeErr := a.storage.StoreExecution(a.ctx, result)
			if storeErr != nil && !errors.Is(storeErr, context.Canceled) {
				a.logger.Warn("execution-store-failed",
					zap.String("execution-id", result.ID),
					zap.Error(storeErr))
			}
		}
	}
}

// drainFindings keeps the findings channel flowing when auto-execution is
// off; detections are already logged and persisted by the monitor.
func (a *App) drainFindings() {
	defer a.wg.Done()

	for range a.monitor.Findings() {
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
