package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/edirooss/schedsim/internal/schedcore"
)

// snapshotKeyPrefix mirrors the teacher's channelKeyPrefix convention:
// a flat string key per entity, namespaced by a colon-separated prefix.
const snapshotKeyPrefix = "schedsim:session:"

func snapshotKey(id string) string {
	return fmt.Sprintf("%s%s:snapshot", snapshotKeyPrefix, id)
}

// SnapshotStore mirrors list() snapshots to Redis for external dashboards.
// It is write-only: the core never reads this data back, and a Redis
// outage degrades to "dashboards go stale", never to a scheduling error.
type SnapshotStore struct {
	client *redis.Client
	log    *zap.Logger
}

// NewSnapshotStore dials addr the way the teacher's redis.NewClient does,
// with the same conservative timeouts.
func NewSnapshotStore(addr string, log *zap.Logger) *SnapshotStore {
	log = log.Named("snapshot_store")

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	return &SnapshotStore{client: client, log: log}
}

// snapshotDoc is the JSON shape written to Redis. It is never decoded by
// this package; the field names exist purely for downstream dashboards.
type snapshotDoc struct {
	SessionID  string              `json:"session_id"`
	Processes  []schedcore.Snapshot `json:"processes"`
	TotalFork  int                 `json:"total_forked"`
	ObservedAt int64               `json:"observed_at_unix_ms"`
}

// Publish writes a best-effort mirror of snapshot to Redis. Errors are
// logged, not returned: a failed mirror must never perturb the HTTP
// response it rides along with (same tolerance the teacher's
// summarySvc.refresh applies to a failed bulk-status call).
func (st *SnapshotStore) Publish(ctx context.Context, id string, snapshots []schedcore.Snapshot, totalForked int, observedAtUnixMs int64) {
	doc := snapshotDoc{
		SessionID:  id,
		Processes:  snapshots,
		TotalFork:  totalForked,
		ObservedAt: observedAtUnixMs,
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		st.log.Warn("marshal snapshot failed", zap.String("id", id), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	if err := st.client.Set(ctx, snapshotKey(id), payload, time.Hour).Err(); err != nil {
		st.log.Warn("publish snapshot failed", zap.String("id", id), zap.Error(err))
	}
}

// Close releases the underlying connection pool.
func (st *SnapshotStore) Close() error {
	return st.client.Close()
}
