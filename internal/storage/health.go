package storage

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/search-frecency/internal/frecency"
	"github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/health"
)

// SnapshotCheck reads key from gw. The backend is down when the read fails
// and degraded when the stored snapshot does not decode, since loads will
// then start from empty history.
func SnapshotCheck(gw frecency.Gateway, key string) health.Check {
	return func(ctx context.Context) health.ComponentHealth {
		data, ok, err := gw.Get(ctx, key)
		if err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		if !ok || data == "" {
			return health.ComponentHealth{Status: health.StatusUp, Message: "no snapshot stored"}
		}
		snap, err := frecency.Decode([]byte(data))
		if err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{
			Status: health.StatusUp,
			Message: fmt.Sprintf("%d queries, %d selections, %d bytes",
				snap.Queries.Len(), len(snap.Selections), len(data)),
		}
	}
}
