package order

import (
	"time"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// PackageInfo describes one packing line inside a delivery set. Total is
// derived from Types × Pieces × Sets on every mutation and is never
// independently editable.
type PackageInfo struct {
	ID     ItemID `json:"id"`
	Types  int64  `json:"types"`
	Pieces int64  `json:"pieces"`
	Sets   int64  `json:"sets"`
	Total  int64  `json:"total"`
}

// NewPackageInfo creates a packing line with a temporary identifier
func NewPackageInfo(types, pieces, sets int64) (*PackageInfo, error) {
	if types < 0 || pieces < 0 || sets < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Package quantities cannot be negative")
	}
	p := &PackageInfo{ID: NewTemporaryID(), Types: types, Pieces: pieces, Sets: sets}
	p.Recalculate()
	return p, nil
}

// Recalculate re-derives the total from the quantity factors
func (p *PackageInfo) Recalculate() {
	p.Total = p.Types * p.Pieces * p.Sets
}

// LogisticsInfo describes one logistics dispatch inside a delivery set
type LogisticsInfo struct {
	ID             ItemID         `json:"id"`
	TrackingNumber string         `json:"tracking_number"`
	CarrierID      int64          `json:"carrier_id"`
	Assets         []AssetRef     `json:"assets"`
	Pending        []PendingAsset `json:"-"`
}

// NewLogisticsInfo creates a logistics record with a temporary identifier
func NewLogisticsInfo() *LogisticsInfo {
	return &LogisticsInfo{ID: NewTemporaryID()}
}

// Attach adds pending photos up to the record's capacity and returns how
// many of the incoming assets were accepted.
func (l *LogisticsInfo) Attach(incoming []PendingAsset) int {
	var accepted int
	l.Pending, accepted = attachCapped(l.Pending, incoming, len(l.Assets), MaxLogisticsAssets)
	return accepted
}

// Images returns the visible image projection for the record
func (l *LogisticsInfo) Images() []string {
	return imageProjection(l.Assets, l.Pending)
}

// HasPending reports whether the record holds photos awaiting upload
func (l *LogisticsInfo) HasPending() bool {
	return len(l.Pending) > 0
}

// ClearPending drops the pending list, returning the preview handles that
// must be released by the owning session.
func (l *LogisticsInfo) ClearPending() []PreviewRef {
	refs := previewRefs(l.Pending)
	l.Pending = nil
	return refs
}

// DeliverySet groups an ordered list of packing lines and logistics
// dispatches under one packing code.
type DeliverySet struct {
	ID          ItemID          `json:"id"`
	PackingCode string          `json:"packing_code"`
	Date        *time.Time      `json:"date,omitempty"`
	Packages    []PackageInfo   `json:"packages"`
	Logistics   []LogisticsInfo `json:"logistics"`
}

// NewDeliverySet creates an empty delivery set with a temporary identifier
func NewDeliverySet(packingCode string) *DeliverySet {
	return &DeliverySet{ID: NewTemporaryID(), PackingCode: packingCode}
}
