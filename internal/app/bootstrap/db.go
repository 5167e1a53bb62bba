// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/api"
	snapshotstore "github.com/thegrapefruitsduo/tgdweb/internal/app/store/snapshot"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// ConnectDB builds the API client and the snapshot store in front of it.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	client, err := api.NewClient(appCfg.APIBaseURL, api.Options{
		Timeout:   appCfg.APITimeout,
		UserAgent: "tgdweb/" + appCfg.SiteVersion,
		Logger:    logger.Named("api"),
	})
	if err != nil {
		return DBDeps{}, fmt.Errorf("api client: %w", err)
	}
	logger.Info("api client ready",
		zap.String("base_url", client.BaseURL()),
		zap.Duration("timeout", appCfg.APITimeout))

	return DBDeps{
		API:       client,
		Snapshots: snapshotstore.New(client, appCfg.SnapshotMaxAge, logger.Named("snapshot")),
		Contact:   ratelimit.NewSubmitLimiter(appCfg.ContactRateLimit, appCfg.ContactRateWindow),
	}, nil
}

// EnsureSchema warms the snapshot so the first visitor does not wait on the
// API. A failure is logged, not fatal: pages retry the fetch and show the
// load error until the API answers.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := deps.Snapshots.Refresh(ctx); err != nil {
		logger.Warn("initial snapshot fetch failed", zap.Error(err))
		return nil
	}
	if snap, ok := deps.Snapshots.Held(); ok {
		logger.Info("snapshot loaded",
			zap.String("api_version", snap.Version),
			zap.Int("musicians", len(snap.Musicians)),
			zap.Int("series", len(snap.Events)))
	}
	return nil
}
