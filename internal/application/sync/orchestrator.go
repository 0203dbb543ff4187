package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/orderdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Orchestrator runs the multi-step save pipeline for one editing session.
// Steps execute strictly sequentially; a second save request while one is
// in flight is rejected, never queued. A fatal step failure aborts the
// remainder of the pipeline, keeps every local edit and leaves the
// baseline unchanged. Asset upload failures are non-fatal: the affected
// pending lists stay populated for retry. Every collection that flushed
// assets, with or without failures, is reloaded afterwards so local
// state reflects what the upstream now holds.
type Orchestrator struct {
	root        RootClient
	collections CollectionClient
	assets      AssetClient
	loader      *Loader
	metrics     *telemetry.SyncMetrics
	logger      *zap.Logger

	mu     sync.Mutex
	saving bool
}

// NewOrchestrator creates an Orchestrator for one session
func NewOrchestrator(root RootClient, collections CollectionClient, assets AssetClient, loader *Loader, metrics *telemetry.SyncMetrics, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		root:        root,
		collections: collections,
		assets:      assets,
		loader:      loader,
		metrics:     metrics,
		logger:      logger,
	}
}

// SaveRequest carries the aggregate to persist. The aggregate is mutated
// in place: freshly assigned persistent identifiers replace temporary
// ones, and successfully flushed pending lists are cleared (their preview
// handles released through Previews).
type SaveRequest struct {
	Aggregate *order.Aggregate
	Previews  *order.PreviewRegistry
	// Elevated is true when the acting principal may edit admin-only
	// cost items.
	Elevated bool
}

// AssetWarning describes one non-fatal asset flush failure
type AssetWarning struct {
	Kind    order.AssetOwnerKind `json:"kind"`
	OwnerID int64                `json:"owner_id"`
	Count   int                  `json:"count"`
	Message string               `json:"message"`
}

// SaveResult reports the outcome of a successful save. AssetWarnings is
// populated when one or more asset flushes failed; Reloaded lists every
// collection refreshed from upstream after flushing.
type SaveResult struct {
	Created       bool
	OrderID       int64
	Baseline      *order.Snapshot
	AssetWarnings []AssetWarning
	Reloaded      []order.CollectionKind
}

// Save runs the pipeline. The returned error is fatal-to-save: the
// aggregate was not (fully) persisted and the caller's edits and baseline
// must be kept. Validation failures are reported before any network call.
func (o *Orchestrator) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	o.mu.Lock()
	if o.saving {
		o.mu.Unlock()
		return nil, shared.ErrSaveInProgress
	}
	o.saving = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.saving = false
		o.mu.Unlock()
	}()

	agg := req.Aggregate

	// Client-side validation, before any network submission. Admin-only
	// items from a non-elevated principal are a contract violation and
	// must never be silently dropped.
	if !req.Elevated && order.HasAdminItems(agg.OptionItems, agg.LaborCostItems) {
		return nil, shared.ErrAdminItemForbidden
	}
	if !agg.Terms.Status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", agg.Terms.Status))
	}

	start := time.Now()
	o.metrics.RecordSaveStarted(ctx)

	result, err := o.run(ctx, req)
	if err != nil {
		return nil, err
	}

	o.metrics.RecordSaveSucceeded(ctx, time.Since(start), result.Created)
	o.logger.Info("aggregate saved",
		zap.Int64("order_id", result.OrderID),
		zap.Bool("created", result.Created),
		zap.Int("asset_warnings", len(result.AssetWarnings)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	agg := req.Aggregate

	// Creation path: persist the root and return. Sub-collections of a
	// brand-new order are empty by construction and are populated only
	// after the first successful creation.
	if agg.IsNew() {
		id, err := o.root.Create(ctx, agg.Product, agg.Terms)
		if err != nil {
			o.metrics.RecordSaveFailed(ctx, "create-root")
			return nil, fmt.Errorf("create order: %w", err)
		}
		agg.ID = id
		return &SaveResult{
			Created:  true,
			OrderID:  id,
			Baseline: order.TakeSnapshot(agg),
		}, nil
	}

	// Step 1: root scalar fields.
	if err := o.root.Update(ctx, agg.ID, agg.Product, agg.Terms); err != nil {
		o.metrics.RecordSaveFailed(ctx, "root")
		return nil, fmt.Errorf("submit order: %w", err)
	}

	// Step 2: both peer cost collections in one replace batch.
	optionIDs, laborIDs, err := o.collections.SubmitCostItems(ctx, agg.ID, agg.OptionItems, agg.LaborCostItems)
	if err != nil {
		o.metrics.RecordSaveFailed(ctx, "cost-items")
		return nil, fmt.Errorf("submit cost items: %w", err)
	}
	if err := assignCostItemIDs(agg.OptionItems, optionIDs); err != nil {
		o.metrics.RecordSaveFailed(ctx, "cost-items")
		return nil, err
	}
	if err := assignCostItemIDs(agg.LaborCostItems, laborIDs); err != nil {
		o.metrics.RecordSaveFailed(ctx, "cost-items")
		return nil, err
	}

	// Step 3: the three record collections, each an independent replace
	// batch. Submission order must be preserved exactly: the response
	// identifiers align by position, not by content.
	factoryIDs, err := o.collections.SubmitShipments(ctx, agg.ID, order.CollectionFactoryShipments, agg.FactoryShipments)
	if err != nil {
		o.metrics.RecordSaveFailed(ctx, "factory-shipments")
		return nil, fmt.Errorf("submit factory shipments: %w", err)
	}
	returnIDs, err := o.collections.SubmitShipments(ctx, agg.ID, order.CollectionReturnExchanges, agg.ReturnExchanges)
	if err != nil {
		o.metrics.RecordSaveFailed(ctx, "return-exchanges")
		return nil, fmt.Errorf("submit return exchanges: %w", err)
	}
	workIDs, err := o.collections.SubmitWorkRecords(ctx, agg.ID, agg.WorkRecords)
	if err != nil {
		o.metrics.RecordSaveFailed(ctx, "work-records")
		return nil, fmt.Errorf("submit work records: %w", err)
	}
	if err := assignShipmentIDs(agg.FactoryShipments, factoryIDs); err != nil {
		o.metrics.RecordSaveFailed(ctx, "factory-shipments")
		return nil, err
	}
	if err := assignShipmentIDs(agg.ReturnExchanges, returnIDs); err != nil {
		o.metrics.RecordSaveFailed(ctx, "return-exchanges")
		return nil, err
	}
	if err := assignWorkIDs(agg.WorkRecords, workIDs); err != nil {
		o.metrics.RecordSaveFailed(ctx, "work-records")
		return nil, err
	}

	// Step 4: flush pending photos against the identifiers recovered in
	// step 3.
	var warnings []AssetWarning
	touched := make(map[order.CollectionKind]bool)
	for i := range agg.FactoryShipments {
		o.flushRecord(ctx, req, order.OwnerFactoryShipment, agg.FactoryShipments[i].ID,
			&agg.FactoryShipments[i].Pending, &warnings, touched)
	}
	for i := range agg.ReturnExchanges {
		o.flushRecord(ctx, req, order.OwnerReturnExchange, agg.ReturnExchanges[i].ID,
			&agg.ReturnExchanges[i].Pending, &warnings, touched)
	}
	for i := range agg.WorkRecords {
		o.flushRecord(ctx, req, order.OwnerWorkRecord, agg.WorkRecords[i].ID,
			&agg.WorkRecords[i].Pending, &warnings, touched)
	}

	// Step 5: delivery sets as one nested replace batch, then flush
	// logistics photos.
	setIDs, err := o.collections.SubmitDeliverySets(ctx, agg.ID, agg.DeliverySets)
	if err != nil {
		o.metrics.RecordSaveFailed(ctx, "delivery-sets")
		return nil, fmt.Errorf("submit delivery sets: %w", err)
	}
	if err := assignDeliveryIDs(agg.DeliverySets, setIDs); err != nil {
		o.metrics.RecordSaveFailed(ctx, "delivery-sets")
		return nil, err
	}
	for i := range agg.DeliverySets {
		for j := range agg.DeliverySets[i].Logistics {
			rec := &agg.DeliverySets[i].Logistics[j]
			o.flushRecord(ctx, req, order.OwnerLogistics, rec.ID, &rec.Pending, &warnings, touched)
		}
	}

	// Step 6: any flush, successful or not, leaves local asset state
	// behind the upstream: uploaded photos exist only as listed assets
	// upstream, and failed uploads may have partially landed. Reload
	// every touched collection before taking the new baseline.
	var reloaded []order.CollectionKind
	for _, kind := range []order.CollectionKind{
		order.CollectionFactoryShipments,
		order.CollectionReturnExchanges,
		order.CollectionWorkRecords,
		order.CollectionDeliverySets,
	} {
		if !touched[kind] {
			continue
		}
		if err := o.loader.Reload(ctx, agg, kind); err != nil {
			o.logger.Warn("reconciling reload failed",
				zap.Int64("order_id", agg.ID),
				zap.String("collection", kind.String()),
				zap.Error(err),
			)
			continue
		}
		reloaded = append(reloaded, kind)
	}

	return &SaveResult{
		OrderID:       agg.ID,
		Baseline:      order.TakeSnapshot(agg),
		AssetWarnings: warnings,
		Reloaded:      reloaded,
	}, nil
}

// flushRecord uploads one record's pending photos and marks the record's
// collection for a reconciling reload. Failure is non-fatal: the pending
// list stays intact for retry on the next save.
func (o *Orchestrator) flushRecord(ctx context.Context, req SaveRequest, kind order.AssetOwnerKind, id order.ItemID, pending *[]order.PendingAsset, warnings *[]AssetWarning, touched map[order.CollectionKind]bool) {
	if len(*pending) == 0 {
		return
	}
	touched[kind.Collection()] = true
	ownerID, ok := id.Persistent()
	if !ok {
		// Identifier reconciliation should have replaced every
		// temporary ID before flushing; treat a leftover like a
		// failed flush so the photos are retried.
		o.logger.Warn("pending assets on record without persistent identifier",
			zap.String("owner_kind", kind.String()),
			zap.String("record_id", id.String()),
		)
		return
	}

	count := len(*pending)
	if err := o.assets.Upload(ctx, req.Aggregate.ID, kind, ownerID, *pending); err != nil {
		o.metrics.RecordFlushFailure(ctx, kind.String())
		o.logger.Warn("asset flush failed, photos kept pending for retry",
			zap.Int64("order_id", req.Aggregate.ID),
			zap.String("owner_kind", kind.String()),
			zap.Int64("owner_id", ownerID),
			zap.Int("count", count),
			zap.Error(err),
		)
		*warnings = append(*warnings, AssetWarning{
			Kind:    kind,
			OwnerID: ownerID,
			Count:   count,
			Message: err.Error(),
		})
		return
	}

	o.metrics.RecordAssetsFlushed(ctx, kind.String(), count)
	released := previewsOf(*pending)
	*pending = nil
	if req.Previews != nil {
		req.Previews.Release(released...)
	}
}

func previewsOf(pending []order.PendingAsset) []order.PreviewRef {
	refs := make([]order.PreviewRef, 0, len(pending))
	for _, p := range pending {
		refs = append(refs, p.Preview)
	}
	return refs
}

func assignCostItemIDs(items []order.CostLineItem, ids []int64) error {
	if len(items) != len(ids) {
		return fmt.Errorf("cost item identifier count mismatch: submitted %d, received %d", len(items), len(ids))
	}
	for i := range items {
		items[i].ID = order.PersistentID(ids[i])
	}
	return nil
}

func assignShipmentIDs(records []order.ShipmentRecord, ids []int64) error {
	if len(records) != len(ids) {
		return fmt.Errorf("shipment identifier count mismatch: submitted %d, received %d", len(records), len(ids))
	}
	for i := range records {
		records[i].ID = order.PersistentID(ids[i])
	}
	return nil
}

func assignWorkIDs(records []order.WorkRecord, ids []int64) error {
	if len(records) != len(ids) {
		return fmt.Errorf("work record identifier count mismatch: submitted %d, received %d", len(records), len(ids))
	}
	for i := range records {
		records[i].ID = order.PersistentID(ids[i])
	}
	return nil
}

func assignDeliveryIDs(sets []order.DeliverySet, ids []DeliverySetIDs) error {
	if len(sets) != len(ids) {
		return fmt.Errorf("delivery set identifier count mismatch: submitted %d, received %d", len(sets), len(ids))
	}
	for i := range sets {
		sets[i].ID = order.PersistentID(ids[i].SetID)
		if len(sets[i].Packages) != len(ids[i].PackageIDs) {
			return fmt.Errorf("package identifier count mismatch in set %d: submitted %d, received %d",
				ids[i].SetID, len(sets[i].Packages), len(ids[i].PackageIDs))
		}
		for j := range sets[i].Packages {
			sets[i].Packages[j].ID = order.PersistentID(ids[i].PackageIDs[j])
		}
		if len(sets[i].Logistics) != len(ids[i].LogisticsIDs) {
			return fmt.Errorf("logistics identifier count mismatch in set %d: submitted %d, received %d",
				ids[i].SetID, len(sets[i].Logistics), len(ids[i].LogisticsIDs))
		}
		for j := range sets[i].Logistics {
			sets[i].Logistics[j].ID = order.PersistentID(ids[i].LogisticsIDs[j])
		}
	}
	return nil
}
