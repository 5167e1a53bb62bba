// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/thegrapefruitsduo/tgdweb/internal/app/api"
	snapshotstore "github.com/thegrapefruitsduo/tgdweb/internal/app/store/snapshot"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/ratelimit"
)

// DBDeps holds the site's back-end dependencies. There is no local
// database: the API is the store of record and Snapshots holds what it
// last returned.
type DBDeps struct {
	API       *api.Client
	Snapshots *snapshotstore.Store
	Contact   *ratelimit.SubmitLimiter
}
