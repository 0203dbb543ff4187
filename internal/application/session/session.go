// Package session holds the server-side editing context for one order
// aggregate: the working copy, its confirmed baseline, the preview
// registry for not-yet-uploaded photos, and the save orchestrator bound
// to the session.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	ordersync "github.com/orderdesk/backend/internal/application/sync"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Session is one editing session. All edit commands and reads go through
// the session so the working aggregate is mutated under a single lock.
type Session struct {
	ID string

	mu       sync.Mutex
	saving   atomic.Bool
	agg      *order.Aggregate
	baseline *order.Snapshot
	previews *order.PreviewRegistry
	orch     *ordersync.Orchestrator
	logger   *zap.Logger
	now      func() time.Time
}

// AssetUpload is one incoming photo to attach to a record
type AssetUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Dirty reports whether the working copy diverges from the baseline
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return order.IsDirty(s.agg, s.baseline)
}

// Read runs fn with the working aggregate and dirty flag under the
// session lock. fn must not retain the aggregate.
func (s *Session) Read(fn func(a *order.Aggregate, dirty bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.agg, order.IsDirty(s.agg, s.baseline))
}

// ApplyOrderEdit replaces the root scalar fields of the working copy
func (s *Session) ApplyOrderEdit(product order.Product, terms order.Terms) error {
	if !terms.Status.IsValid() {
		return shared.NewDomainError("VALIDATION_FAILED", "Unknown order status")
	}
	if terms.Quantity < 0 || terms.PackagingCount < 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "Quantities cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.agg.Product = product
	s.agg.Terms = terms
	return nil
}

// ReplaceCostItems replaces both peer cost collections. The two lists
// are edited together on the client and submitted together on save.
func (s *Session) ReplaceCostItems(options, labor []order.CostLineItem) {
	for i := range options {
		options[i].Recalculate()
	}
	for i := range labor {
		labor[i].Recalculate()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.agg.OptionItems = options
	s.agg.LaborCostItems = labor
}

// ReplaceShipments replaces the factory shipment or return/exchange
// collection. Pending photos of surviving records are carried over;
// previews of removed records are released.
func (s *Session) ReplaceShipments(kind order.CollectionKind, records []order.ShipmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case order.CollectionFactoryShipments:
		s.agg.FactoryShipments = s.carryShipments(s.agg.FactoryShipments, records)
	case order.CollectionReturnExchanges:
		s.agg.ReturnExchanges = s.carryShipments(s.agg.ReturnExchanges, records)
	default:
		return shared.NewDomainError("VALIDATION_FAILED", "Not a shipment collection")
	}
	return nil
}

// ReplaceWorkRecords replaces the work record collection and applies the
// work-end-date rule: when every record is complete and no end date is
// set, today's date is filled in; when any record is incomplete, the end
// date is cleared.
func (s *Session) ReplaceWorkRecords(records []order.WorkRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[order.ItemID][]order.PendingAsset)
	for i := range s.agg.WorkRecords {
		if s.agg.WorkRecords[i].HasPending() {
			byID[s.agg.WorkRecords[i].ID] = s.agg.WorkRecords[i].Pending
		}
	}
	for i := range records {
		if pending, ok := byID[records[i].ID]; ok {
			records[i].Pending = pending
			delete(byID, records[i].ID)
		}
	}
	for _, orphaned := range byID {
		s.previews.Release(previewsOf(orphaned)...)
	}
	s.agg.WorkRecords = records

	switch {
	case len(records) == 0:
		// No records, nothing to infer.
	case order.AllWorkComplete(records):
		if s.agg.Terms.WorkEndDate == nil {
			today := s.now()
			s.agg.Terms.WorkEndDate = &today
		}
	default:
		s.agg.Terms.WorkEndDate = nil
	}
}

// ReplaceDeliverySets replaces the delivery set collection, carrying
// over pending logistics photos of surviving records.
func (s *Session) ReplaceDeliverySets(sets []order.DeliverySet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[order.ItemID][]order.PendingAsset)
	for i := range s.agg.DeliverySets {
		for j := range s.agg.DeliverySets[i].Logistics {
			rec := &s.agg.DeliverySets[i].Logistics[j]
			if rec.HasPending() {
				byID[rec.ID] = rec.Pending
			}
		}
	}
	for i := range sets {
		for j := range sets[i].Packages {
			sets[i].Packages[j].Recalculate()
		}
		for j := range sets[i].Logistics {
			if pending, ok := byID[sets[i].Logistics[j].ID]; ok {
				sets[i].Logistics[j].Pending = pending
				delete(byID, sets[i].Logistics[j].ID)
			}
		}
	}
	for _, orphaned := range byID {
		s.previews.Release(previewsOf(orphaned)...)
	}
	s.agg.DeliverySets = sets
}

// AttachAssets queues photos on one record and returns how many were
// accepted under the record's cap. Previews of truncated photos are
// released immediately.
func (s *Session) AttachAssets(kind order.AssetOwnerKind, recordID order.ItemID, uploads []AssetUpload) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]order.PendingAsset, 0, len(uploads))
	for _, u := range uploads {
		pending = append(pending, s.previews.NewPendingAsset(u.Name, u.ContentType, u.Data))
	}

	accepted, err := s.attach(kind, recordID, pending)
	if err != nil {
		s.previews.Release(previewsOf(pending)...)
		return 0, err
	}
	if accepted < len(pending) {
		s.previews.Release(previewsOf(pending[accepted:])...)
	}
	return accepted, nil
}

func (s *Session) attach(kind order.AssetOwnerKind, recordID order.ItemID, pending []order.PendingAsset) (int, error) {
	switch kind {
	case order.OwnerFactoryShipment:
		for i := range s.agg.FactoryShipments {
			if s.agg.FactoryShipments[i].ID == recordID {
				return s.agg.FactoryShipments[i].Attach(pending), nil
			}
		}
	case order.OwnerReturnExchange:
		for i := range s.agg.ReturnExchanges {
			if s.agg.ReturnExchanges[i].ID == recordID {
				return s.agg.ReturnExchanges[i].Attach(pending), nil
			}
		}
	case order.OwnerWorkRecord:
		for i := range s.agg.WorkRecords {
			if s.agg.WorkRecords[i].ID == recordID {
				return s.agg.WorkRecords[i].Attach(pending), nil
			}
		}
	case order.OwnerLogistics:
		for i := range s.agg.DeliverySets {
			for j := range s.agg.DeliverySets[i].Logistics {
				if s.agg.DeliverySets[i].Logistics[j].ID == recordID {
					return s.agg.DeliverySets[i].Logistics[j].Attach(pending), nil
				}
			}
		}
	default:
		return 0, shared.NewDomainError("VALIDATION_FAILED", "Unknown asset owner kind")
	}
	return 0, shared.ErrRecordNotFound
}

// Save runs the orchestrator for this session. A save already in flight
// is rejected immediately, never queued. On success the session's
// baseline becomes the snapshot taken at the end of the pipeline.
func (s *Session) Save(ctx context.Context, elevated bool) (*ordersync.SaveResult, error) {
	if !s.saving.CompareAndSwap(false, true) {
		return nil, shared.ErrSaveInProgress
	}
	defer s.saving.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.orch.Save(ctx, ordersync.SaveRequest{
		Aggregate: s.agg,
		Previews:  s.previews,
		Elevated:  elevated,
	})
	if err != nil {
		return nil, err
	}
	s.baseline = result.Baseline
	return result, nil
}

// Close releases every live preview held by the session
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previews.ReleaseAll()
}

func (s *Session) carryShipments(old, fresh []order.ShipmentRecord) []order.ShipmentRecord {
	byID := make(map[order.ItemID][]order.PendingAsset)
	for i := range old {
		if old[i].HasPending() {
			byID[old[i].ID] = old[i].Pending
		}
	}
	for i := range fresh {
		if pending, ok := byID[fresh[i].ID]; ok {
			fresh[i].Pending = pending
			delete(byID, fresh[i].ID)
		}
	}
	for _, orphaned := range byID {
		s.previews.Release(previewsOf(orphaned)...)
	}
	return fresh
}

func previewsOf(pending []order.PendingAsset) []order.PreviewRef {
	refs := make([]order.PreviewRef, 0, len(pending))
	for _, p := range pending {
		refs = append(refs, p.Preview)
	}
	return refs
}
