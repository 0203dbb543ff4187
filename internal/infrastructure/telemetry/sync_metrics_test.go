package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSyncMetrics(t *testing.T) {
	m, err := NewSyncMetrics(Meter("test"))
	require.NoError(t, err)
	require.NotNil(t, m)

	// Recording must not panic against the default no-op provider.
	ctx := context.Background()
	m.RecordSaveStarted(ctx)
	m.RecordSaveSucceeded(ctx, 120*time.Millisecond, true)
	m.RecordSaveFailed(ctx, "submit_cost_items")
	m.RecordAssetsFlushed(ctx, "factory-shipment", 3)
	m.RecordFlushFailure(ctx, "logistics")
	m.RecordOpenSessions(ctx, 2)
}

func TestSyncMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *SyncMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordSaveStarted(ctx)
		m.RecordSaveSucceeded(ctx, time.Second, false)
		m.RecordSaveFailed(ctx, "update_root")
		m.RecordAssetsFlushed(ctx, "work-record", 1)
		m.RecordFlushFailure(ctx, "work-record")
		m.RecordOpenSessions(ctx, 0)
	})
}
