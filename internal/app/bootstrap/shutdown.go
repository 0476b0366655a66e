// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown is an optional hook invoked during WAFFLE's shutdown phase.
//
// This function is called after the HTTP server has stopped accepting new
// requests and existing requests have been drained (or the shutdown timeout
// has elapsed). It is your opportunity to gracefully clean up resources.
//
// The context provided has a timeout (default 10 seconds) and should be
// respected. If cleanup takes too long, the context will be cancelled.
//
// A provisioning run in flight when shutdown begins is covered by the
// request drain: the setup endpoint blocks until the run finishes, so the
// drain either completes it or the timeout abandons it and the persisted
// state records the failure on the next status read.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	// Disconnect MongoDB client
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}

	return nil
}
