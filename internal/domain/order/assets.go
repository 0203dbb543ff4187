package order

import (
	"sync"

	"github.com/google/uuid"
)

// Per-record asset caps, counting persisted references plus pending uploads
const (
	MaxShipmentAssets  = 5
	MaxLogisticsAssets = 10
)

// AssetRef is a persisted asset reference returned by the upstream system.
// Locator is the raw upstream locator (possibly relative); URL is the
// fully-qualified form after base-URL resolution.
type AssetRef struct {
	Locator string `json:"locator"`
	URL     string `json:"url"`
}

// PreviewRef is a session-local handle for displaying a pending asset
// before it has been uploaded. It must be released when the owning record
// is removed or a persisted reference supersedes it.
type PreviewRef string

// PendingAsset is a binary asset attached locally to a sub-record that
// does not yet have a persistent identifier to upload against.
type PendingAsset struct {
	Preview     PreviewRef
	Name        string
	ContentType string
	Data        []byte
}

// PreviewRegistry tracks live preview references for one editing session
// so they can be released deterministically. It is safe for concurrent use.
type PreviewRegistry struct {
	mu   sync.Mutex
	live map[PreviewRef]struct{}
}

// NewPreviewRegistry creates an empty registry
func NewPreviewRegistry() *PreviewRegistry {
	return &PreviewRegistry{live: make(map[PreviewRef]struct{})}
}

// NewPendingAsset registers a preview reference and wraps the binary data
func (r *PreviewRegistry) NewPendingAsset(name, contentType string, data []byte) PendingAsset {
	ref := PreviewRef(uuid.New().String())
	r.mu.Lock()
	r.live[ref] = struct{}{}
	r.mu.Unlock()
	return PendingAsset{
		Preview:     ref,
		Name:        name,
		ContentType: contentType,
		Data:        data,
	}
}

// Release frees the given preview references
func (r *PreviewRegistry) Release(refs ...PreviewRef) {
	r.mu.Lock()
	for _, ref := range refs {
		delete(r.live, ref)
	}
	r.mu.Unlock()
}

// ReleaseAll frees every live preview reference
func (r *PreviewRegistry) ReleaseAll() {
	r.mu.Lock()
	r.live = make(map[PreviewRef]struct{})
	r.mu.Unlock()
}

// Live returns the number of outstanding preview references
func (r *PreviewRegistry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// previewRefs collects the preview handles of a pending list
func previewRefs(pending []PendingAsset) []PreviewRef {
	refs := make([]PreviewRef, 0, len(pending))
	for _, p := range pending {
		refs = append(refs, p.Preview)
	}
	return refs
}

// attachCapped appends incoming assets to pending, respecting the record's
// capacity (cap minus already-used slots). It returns the new pending list
// and how many of the incoming assets were accepted; overflow is truncated,
// never an error, so the caller can report the dropped count.
func attachCapped(pending, incoming []PendingAsset, used, capacity int) ([]PendingAsset, int) {
	remaining := capacity - used - len(pending)
	if remaining <= 0 {
		return pending, 0
	}
	if len(incoming) > remaining {
		incoming = incoming[:remaining]
	}
	return append(pending, incoming...), len(incoming)
}

// imageProjection builds the visible image list for a record: persisted
// asset URLs followed by preview handles for pending uploads, without
// duplication.
func imageProjection(assets []AssetRef, pending []PendingAsset) []string {
	images := make([]string, 0, len(assets)+len(pending))
	seen := make(map[string]struct{}, len(assets)+len(pending))
	for _, a := range assets {
		if _, ok := seen[a.URL]; ok {
			continue
		}
		seen[a.URL] = struct{}{}
		images = append(images, a.URL)
	}
	for _, p := range pending {
		if _, ok := seen[string(p.Preview)]; ok {
			continue
		}
		seen[string(p.Preview)] = struct{}{}
		images = append(images, string(p.Preview))
	}
	return images
}
