// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down the orchestrator and DB connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if state.Orch != nil {
		logger.Info("stopping data orchestrator")
		state.Orch.Close()
	}
	if deps.ClubHubMongoClient != nil {
		logger.Info("disconnecting ClubHub MongoDB client")
		if err := deps.ClubHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
