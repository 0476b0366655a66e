// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"os"

	"github.com/dalemusser/stratacms/internal/app/store/setupstate"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// This is the place for one-time initialization that depends on having live
// database connections and fully loaded configuration. Unlike ConnectDB and
// EnsureSchema which focus on infrastructure, Startup is for application-level
// initialization.
//
// StrataCMS deliberately does NOT provision here. Provisioning runs only
// when an operator triggers it through the setup API, so a restart never
// mutates content. Startup just reports the state an operator cares about:
// whether the schema artifact is readable and whether provisioning has
// already completed.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting. Returning nil signals that initialization succeeded.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if _, err := os.Stat(appCfg.SchemaArtifactPath); err != nil {
		// Not fatal: the read API serves already-provisioned content
		// without the artifact. Only a provisioning run needs it.
		logger.Warn("schema artifact not found; provisioning runs will fail until it exists",
			zap.String("path", appCfg.SchemaArtifactPath),
			zap.Error(err))
	} else {
		logger.Info("schema artifact found", zap.String("path", appCfg.SchemaArtifactPath))
	}

	state, err := setupstate.New(deps.MongoDatabase).Get(ctx)
	if err != nil {
		logger.Error("failed to read setup state", zap.Error(err))
		return err
	}
	logger.Info("provisioning state",
		zap.String("phase", state.Phase),
		zap.String("run_id", state.RunID))

	return nil
}
