package order

// WorkRecord describes one rework/packaging task on an order, with photos
// and a free-text description in two locales.
type WorkRecord struct {
	ID             ItemID         `json:"id"`
	Description    string         `json:"description"`
	DescriptionAlt string         `json:"description_alt"`
	Completed      bool           `json:"completed"`
	Assets         []AssetRef     `json:"assets"`
	Pending        []PendingAsset `json:"-"`
}

// NewWorkRecord creates an empty record with a temporary identifier
func NewWorkRecord() *WorkRecord {
	return &WorkRecord{ID: NewTemporaryID()}
}

// Attach adds pending photos up to the record's capacity and returns how
// many of the incoming assets were accepted.
func (r *WorkRecord) Attach(incoming []PendingAsset) int {
	var accepted int
	r.Pending, accepted = attachCapped(r.Pending, incoming, len(r.Assets), MaxShipmentAssets)
	return accepted
}

// Images returns the visible image projection for the record
func (r *WorkRecord) Images() []string {
	return imageProjection(r.Assets, r.Pending)
}

// HasPending reports whether the record holds photos awaiting upload
func (r *WorkRecord) HasPending() bool {
	return len(r.Pending) > 0
}

// ClearPending drops the pending list, returning the preview handles that
// must be released by the owning session.
func (r *WorkRecord) ClearPending() []PreviewRef {
	refs := previewRefs(r.Pending)
	r.Pending = nil
	return refs
}

// AllWorkComplete reports whether every record in a non-empty work
// collection is marked complete.
func AllWorkComplete(records []WorkRecord) bool {
	if len(records) == 0 {
		return false
	}
	for _, r := range records {
		if !r.Completed {
			return false
		}
	}
	return true
}
