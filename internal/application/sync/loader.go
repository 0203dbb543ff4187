package sync

import (
	"context"
	"fmt"

	"github.com/orderdesk/backend/internal/domain/order"
	"go.uber.org/zap"
)

// Loader hydrates an order aggregate and its sub-collections from the
// upstream read API. It is used at session start and to reconcile state
// after a save whose asset uploads partially failed.
type Loader struct {
	root        RootClient
	collections CollectionClient
	assets      AssetClient
	logger      *zap.Logger
}

// NewLoader creates a Loader
func NewLoader(root RootClient, collections CollectionClient, assets AssetClient, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		root:        root,
		collections: collections,
		assets:      assets,
		logger:      logger,
	}
}

// Load reads the full aggregate for an existing order. A failure reading
// the root or a sub-collection fails the load; a failure listing one
// record's assets degrades that record's assets to empty.
func (l *Loader) Load(ctx context.Context, orderID int64) (*order.Aggregate, error) {
	product, terms, err := l.root.Fetch(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order %d: %w", orderID, err)
	}

	agg := order.NewAggregate()
	agg.ID = orderID
	agg.Product = product
	agg.Terms = terms

	agg.OptionItems, agg.LaborCostItems, err = l.collections.FetchCostItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch cost items: %w", err)
	}

	agg.FactoryShipments, err = l.loadShipments(ctx, orderID, order.CollectionFactoryShipments)
	if err != nil {
		return nil, err
	}
	agg.ReturnExchanges, err = l.loadShipments(ctx, orderID, order.CollectionReturnExchanges)
	if err != nil {
		return nil, err
	}
	agg.WorkRecords, err = l.loadWorkRecords(ctx, orderID)
	if err != nil {
		return nil, err
	}
	agg.DeliverySets, err = l.loadDeliverySets(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return agg, nil
}

// Reload refreshes one sub-collection of the aggregate in place. Pending
// asset lists of surviving records are carried over so locally attached,
// not-yet-uploaded photos are not lost by the refresh.
func (l *Loader) Reload(ctx context.Context, agg *order.Aggregate, kind order.CollectionKind) error {
	switch kind {
	case order.CollectionCostItems:
		options, labor, err := l.collections.FetchCostItems(ctx, agg.ID)
		if err != nil {
			return fmt.Errorf("reload cost items: %w", err)
		}
		agg.OptionItems, agg.LaborCostItems = options, labor
		return nil

	case order.CollectionFactoryShipments:
		fresh, err := l.loadShipments(ctx, agg.ID, kind)
		if err != nil {
			return err
		}
		agg.FactoryShipments = carryShipmentPending(agg.FactoryShipments, fresh)
		return nil

	case order.CollectionReturnExchanges:
		fresh, err := l.loadShipments(ctx, agg.ID, kind)
		if err != nil {
			return err
		}
		agg.ReturnExchanges = carryShipmentPending(agg.ReturnExchanges, fresh)
		return nil

	case order.CollectionWorkRecords:
		fresh, err := l.loadWorkRecords(ctx, agg.ID)
		if err != nil {
			return err
		}
		byID := make(map[order.ItemID][]order.PendingAsset)
		for i := range agg.WorkRecords {
			if agg.WorkRecords[i].HasPending() {
				byID[agg.WorkRecords[i].ID] = agg.WorkRecords[i].Pending
			}
		}
		for i := range fresh {
			if pending, ok := byID[fresh[i].ID]; ok {
				fresh[i].Pending = pending
			}
		}
		agg.WorkRecords = fresh
		return nil

	case order.CollectionDeliverySets:
		fresh, err := l.loadDeliverySets(ctx, agg.ID)
		if err != nil {
			return err
		}
		byID := make(map[order.ItemID][]order.PendingAsset)
		for i := range agg.DeliverySets {
			for j := range agg.DeliverySets[i].Logistics {
				rec := &agg.DeliverySets[i].Logistics[j]
				if rec.HasPending() {
					byID[rec.ID] = rec.Pending
				}
			}
		}
		for i := range fresh {
			for j := range fresh[i].Logistics {
				if pending, ok := byID[fresh[i].Logistics[j].ID]; ok {
					fresh[i].Logistics[j].Pending = pending
				}
			}
		}
		agg.DeliverySets = fresh
		return nil

	default:
		return fmt.Errorf("reload: unknown collection %q", kind)
	}
}

func (l *Loader) loadShipments(ctx context.Context, orderID int64, kind order.CollectionKind) ([]order.ShipmentRecord, error) {
	records, err := l.collections.FetchShipments(ctx, orderID, kind)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", kind, err)
	}
	ownerKind := order.OwnerFactoryShipment
	if kind == order.CollectionReturnExchanges {
		ownerKind = order.OwnerReturnExchange
	}
	for i := range records {
		records[i].Assets = l.listAssets(ctx, orderID, ownerKind, records[i].ID)
	}
	return records, nil
}

func (l *Loader) loadWorkRecords(ctx context.Context, orderID int64) ([]order.WorkRecord, error) {
	records, err := l.collections.FetchWorkRecords(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch work records: %w", err)
	}
	for i := range records {
		records[i].Assets = l.listAssets(ctx, orderID, order.OwnerWorkRecord, records[i].ID)
	}
	return records, nil
}

func (l *Loader) loadDeliverySets(ctx context.Context, orderID int64) ([]order.DeliverySet, error) {
	sets, err := l.collections.FetchDeliverySets(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch delivery sets: %w", err)
	}
	for i := range sets {
		for j := range sets[i].Logistics {
			sets[i].Logistics[j].Assets = l.listAssets(ctx, orderID, order.OwnerLogistics, sets[i].Logistics[j].ID)
		}
	}
	return sets, nil
}

// listAssets resolves one record's asset list. A listing failure degrades
// the record's displayed assets to empty rather than failing the load.
func (l *Loader) listAssets(ctx context.Context, orderID int64, kind order.AssetOwnerKind, id order.ItemID) []order.AssetRef {
	ownerID, ok := id.Persistent()
	if !ok {
		return nil
	}
	assets, err := l.assets.List(ctx, orderID, kind, ownerID)
	if err != nil {
		l.logger.Warn("asset listing failed, record assets degraded to empty",
			zap.Int64("order_id", orderID),
			zap.String("owner_kind", kind.String()),
			zap.Int64("owner_id", ownerID),
			zap.Error(err),
		)
		return nil
	}
	return assets
}

func carryShipmentPending(old, fresh []order.ShipmentRecord) []order.ShipmentRecord {
	byID := make(map[order.ItemID][]order.PendingAsset)
	for i := range old {
		if old[i].HasPending() {
			byID[old[i].ID] = old[i].Pending
		}
	}
	for i := range fresh {
		if pending, ok := byID[fresh[i].ID]; ok {
			fresh[i].Pending = pending
		}
	}
	return fresh
}
