package order

import "time"

// ShipmentRecord is the common shape of factory shipment records and
// return/exchange records. For factory shipments Quantity means goods
// inbound from the factory; for return/exchange records it is an inbound
// correction. Pending holds not-yet-uploaded photos and is transient:
// it is never part of the persisted state.
type ShipmentRecord struct {
	ID             ItemID         `json:"id"`
	Date           *time.Time     `json:"date,omitempty"`
	Quantity       int64          `json:"quantity"`
	TrackingNumber string         `json:"tracking_number"`
	ReceiptDate    *time.Time     `json:"receipt_date,omitempty"`
	Assets         []AssetRef     `json:"assets"`
	Pending        []PendingAsset `json:"-"`
}

// NewShipmentRecord creates an empty record with a temporary identifier
func NewShipmentRecord() *ShipmentRecord {
	return &ShipmentRecord{ID: NewTemporaryID()}
}

// Attach adds pending photos up to the record's capacity and returns how
// many of the incoming assets were accepted.
func (r *ShipmentRecord) Attach(incoming []PendingAsset) int {
	var accepted int
	r.Pending, accepted = attachCapped(r.Pending, incoming, len(r.Assets), MaxShipmentAssets)
	return accepted
}

// Images returns the visible image projection: persisted asset URLs plus
// preview handles for pending uploads, without duplication.
func (r *ShipmentRecord) Images() []string {
	return imageProjection(r.Assets, r.Pending)
}

// HasPending reports whether the record holds photos awaiting upload
func (r *ShipmentRecord) HasPending() bool {
	return len(r.Pending) > 0
}

// ClearPending drops the pending list, returning the preview handles that
// must be released by the owning session.
func (r *ShipmentRecord) ClearPending() []PreviewRef {
	refs := previewRefs(r.Pending)
	r.Pending = nil
	return refs
}
