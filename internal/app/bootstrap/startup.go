// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/resources"
	snapshotstore "github.com/thegrapefruitsduo/tgdweb/internal/app/store/snapshot"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/editstate"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/timeouts"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Startup loads the shared templates, applies timeout overrides and sets
// the values every page's layout shows.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts overridden from environment",
			zap.Duration("ping", cur.Ping),
			zap.Duration("short", cur.Short),
			zap.Duration("medium", cur.Medium),
			zap.Duration("long", cur.Long))
	}

	viewdata.Init(viewdata.Site{
		Version:        appCfg.SiteVersion,
		GoogleClientID: appCfg.GoogleClientID,
		SignupURL:      appCfg.SignupURL,
		BaseURL:        appCfg.BaseURL,
	})
	viewdata.SetNavLoader(navLoader(deps.Snapshots))
	return nil
}

// navLoader links each musician in the held snapshot. It never fetches: a
// page that needs data loads the snapshot itself before rendering.
func navLoader(st *snapshotstore.Store) viewdata.NavLoader {
	return func(ctx context.Context) (string, []viewdata.NavLink) {
		snap, ok := st.Held()
		if !ok {
			return "", nil
		}
		links := make([]viewdata.NavLink, 0, len(snap.Musicians))
		for _, m := range snap.Musicians {
			links = append(links, viewdata.NavLink{
				Label:  m.Name,
				Anchor: editstate.MusicianEntity(m).Anchor(),
			})
		}
		return snap.Version, links
	}
}
