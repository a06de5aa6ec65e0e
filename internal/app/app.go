// Package app wires the engine's components together and manages their
// lifecycle.
package app

import (
	"context"
	"sync"

	"github.com/quantfence/chainarb/internal/bridge"
	"github.com/quantfence/chainarb/internal/chainrpc"
	"github.com/quantfence/chainarb/internal/monitor"
	"github.com/quantfence/chainarb/internal/orchestrator"
	"github.com/quantfence/chainarb/internal/storage"
	"github.com/quantfence/chainarb/pkg/cache"
	"github.com/quantfence/chainarb/pkg/config"
	"github.com/quantfence/chainarb/pkg/healthprobe"
	"github.com/quantfence/chainarb/pkg/httpserver"
	"go.uber.org/zap"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	rpcPool       *chainrpc.Pool
	snapshots     cache.Cache
	bridgeFeed    *bridge.AttestationFeed
	monitor       *monitor.Monitor
	orchestrator  *orchestrator.Orchestrator
	storage       storage.Storage
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}
