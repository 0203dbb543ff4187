package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	ordersync "github.com/orderdesk/backend/internal/application/sync"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/orderdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Manager is the in-memory registry of editing sessions. Each session
// gets its own orchestrator so save mutual exclusion is per session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	root        ordersync.RootClient
	collections ordersync.CollectionClient
	assets      ordersync.AssetClient
	loader      *ordersync.Loader
	metrics     *telemetry.SyncMetrics
	logger      *zap.Logger
}

// NewManager creates a Manager
func NewManager(root ordersync.RootClient, collections ordersync.CollectionClient, assets ordersync.AssetClient, metrics *telemetry.SyncMetrics, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		root:        root,
		collections: collections,
		assets:      assets,
		loader:      ordersync.NewLoader(root, collections, assets, logger),
		metrics:     metrics,
		logger:      logger,
	}
}

// Open starts a session. With an order identifier the aggregate is
// loaded from the upstream and the loaded state becomes the baseline;
// without one the session starts on a fresh aggregate with no baseline,
// so the new-order dirty rule applies.
func (m *Manager) Open(ctx context.Context, orderID *int64) (*Session, error) {
	var (
		agg      *order.Aggregate
		baseline *order.Snapshot
	)
	if orderID != nil {
		loaded, err := m.loader.Load(ctx, *orderID)
		if err != nil {
			return nil, err
		}
		agg = loaded
		baseline = order.TakeSnapshot(loaded)
	} else {
		agg = order.NewAggregate()
	}

	s := &Session{
		ID:       uuid.New().String(),
		agg:      agg,
		baseline: baseline,
		previews: order.NewPreviewRegistry(),
		orch:     ordersync.NewOrchestrator(m.root, m.collections, m.assets, m.loader, m.metrics, m.logger),
		logger:   m.logger,
		now:      func() time.Time { return time.Now().Truncate(24 * time.Hour) },
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	open := len(m.sessions)
	m.mu.Unlock()

	m.metrics.RecordOpenSessions(ctx, open)
	m.logger.Info("session opened",
		zap.String("session_id", s.ID),
		zap.Bool("new_order", orderID == nil),
	)
	return s, nil
}

// Get looks up a session by identifier
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	return s, nil
}

// Close removes a session and releases its previews
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	open := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return shared.ErrSessionNotFound
	}
	s.Close()
	m.metrics.RecordOpenSessions(ctx, open)
	m.logger.Info("session closed", zap.String("session_id", id))
	return nil
}

// Count reports the number of open sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
