package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetrics tracks the outcomes of the aggregate save pipeline and its
// asset uploads.
type SyncMetrics struct {
	savesStarted   *Counter
	savesSucceeded *Counter
	savesFailed    *Counter
	saveDuration   *Histogram
	assetsFlushed  *Counter
	flushFailures  *Counter
	openSessions   *Gauge
}

// NewSyncMetrics creates save pipeline metrics on the given meter.
func NewSyncMetrics(meter metric.Meter) (*SyncMetrics, error) {
	m := &SyncMetrics{}
	var err error

	if m.savesStarted, err = NewCounter(meter,
		"ordersync.saves.started", "Save pipeline invocations", "{save}"); err != nil {
		return nil, err
	}
	if m.savesSucceeded, err = NewCounter(meter,
		"ordersync.saves.succeeded", "Save pipelines completed successfully", "{save}"); err != nil {
		return nil, err
	}
	if m.savesFailed, err = NewCounter(meter,
		"ordersync.saves.failed", "Save pipelines aborted by a fatal step failure", "{save}"); err != nil {
		return nil, err
	}
	if m.saveDuration, err = NewHistogram(meter,
		"ordersync.saves.duration", "Save pipeline duration", "s"); err != nil {
		return nil, err
	}
	if m.assetsFlushed, err = NewCounter(meter,
		"ordersync.assets.flushed", "Pending assets uploaded", "{asset}"); err != nil {
		return nil, err
	}
	if m.flushFailures, err = NewCounter(meter,
		"ordersync.assets.flush_failures", "Asset flush calls that failed", "{call}"); err != nil {
		return nil, err
	}
	if m.openSessions, err = NewGauge(meter,
		"ordersync.sessions.open", "Open editing sessions", "{session}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordSaveStarted records a pipeline invocation.
func (m *SyncMetrics) RecordSaveStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.savesStarted.Inc(ctx)
}

// RecordSaveSucceeded records a completed pipeline with its duration.
func (m *SyncMetrics) RecordSaveSucceeded(ctx context.Context, d time.Duration, created bool) {
	if m == nil {
		return
	}
	m.savesSucceeded.Inc(ctx, attribute.Bool("created", created))
	m.saveDuration.RecordDuration(ctx, d)
}

// RecordSaveFailed records a fatally aborted pipeline, tagged by step.
func (m *SyncMetrics) RecordSaveFailed(ctx context.Context, step string) {
	if m == nil {
		return
	}
	m.savesFailed.Inc(ctx, attribute.String("step", step))
}

// RecordAssetsFlushed records successfully uploaded pending assets.
func (m *SyncMetrics) RecordAssetsFlushed(ctx context.Context, kind string, count int) {
	if m == nil {
		return
	}
	m.assetsFlushed.Add(ctx, int64(count), attribute.String("owner_kind", kind))
}

// RecordFlushFailure records one failed asset flush call.
func (m *SyncMetrics) RecordFlushFailure(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.flushFailures.Inc(ctx, attribute.String("owner_kind", kind))
}

// RecordOpenSessions records the current number of open editing sessions.
func (m *SyncMetrics) RecordOpenSessions(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.openSessions.Record(ctx, int64(n))
}
