// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background work. The API client holds no connections that
// need closing beyond the default transport's idle pool.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Contact != nil {
		logger.Info("stopping contact rate limiter")
		deps.Contact.Stop()
	}
	return nil
}
