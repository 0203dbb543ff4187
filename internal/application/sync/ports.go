// Package sync implements the order aggregate synchronization engine:
// loading an aggregate from the upstream system of record, detecting
// divergence from the last confirmed snapshot, and orchestrating the
// multi-step save that reconciles temporary identifiers and flushes
// pending photo uploads.
package sync

import (
	"context"

	"github.com/orderdesk/backend/internal/domain/order"
)

// RootClient is the upstream collaborator for the root order entity
type RootClient interface {
	// Fetch reads the scalar root fields of an existing order
	Fetch(ctx context.Context, orderID int64) (order.Product, order.Terms, error)
	// Create persists a new root entity and returns its identifier
	Create(ctx context.Context, product order.Product, terms order.Terms) (int64, error)
	// Update replaces the scalar root fields of an existing order
	Update(ctx context.Context, orderID int64, product order.Product, terms order.Terms) error
}

// DeliverySetIDs carries the persistent identifiers returned for one
// submitted delivery set, positionally aligned with its children.
type DeliverySetIDs struct {
	SetID        int64
	PackageIDs   []int64
	LogisticsIDs []int64
}

// CollectionClient is the upstream collaborator for the per-collection
// read and replace-semantics batch endpoints. Every submit sends the full
// desired end-state of the collection (identifiers present only when
// persistent) and returns persistent identifiers aligned to the submitted
// order; the collaborator never echoes identifiers by content match, so
// callers must preserve submission order exactly.
type CollectionClient interface {
	FetchCostItems(ctx context.Context, orderID int64) (options, labor []order.CostLineItem, err error)
	FetchShipments(ctx context.Context, orderID int64, kind order.CollectionKind) ([]order.ShipmentRecord, error)
	FetchWorkRecords(ctx context.Context, orderID int64) ([]order.WorkRecord, error)
	FetchDeliverySets(ctx context.Context, orderID int64) ([]order.DeliverySet, error)

	SubmitCostItems(ctx context.Context, orderID int64, options, labor []order.CostLineItem) (optionIDs, laborIDs []int64, err error)
	SubmitShipments(ctx context.Context, orderID int64, kind order.CollectionKind, records []order.ShipmentRecord) ([]int64, error)
	SubmitWorkRecords(ctx context.Context, orderID int64, records []order.WorkRecord) ([]int64, error)
	SubmitDeliverySets(ctx context.Context, orderID int64, sets []order.DeliverySet) ([]DeliverySetIDs, error)
}

// AssetClient is the upstream collaborator for photo upload and listing,
// keyed by (order, owner kind, owner persistent identifier). Upload
// succeeds or fails per call, not per file.
type AssetClient interface {
	Upload(ctx context.Context, orderID int64, kind order.AssetOwnerKind, ownerID int64, assets []order.PendingAsset) error
	List(ctx context.Context, orderID int64, kind order.AssetOwnerKind, ownerID int64) ([]order.AssetRef, error)
}
