package order

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePendingAssets(t *testing.T, reg *PreviewRegistry, n int) []PendingAsset {
	t.Helper()
	assets := make([]PendingAsset, 0, n)
	for i := 0; i < n; i++ {
		assets = append(assets, reg.NewPendingAsset(fmt.Sprintf("photo-%d.jpg", i), "image/jpeg", []byte{0xff, 0xd8}))
	}
	return assets
}

func TestShipmentRecord_AttachCap(t *testing.T) {
	reg := NewPreviewRegistry()
	rec := NewShipmentRecord()

	// Batch of 6 against a cap of 5: exactly 5 accepted
	accepted := rec.Attach(makePendingAssets(t, reg, 6))
	assert.Equal(t, 5, accepted)
	assert.Len(t, rec.Pending, 5)

	// Record is full, nothing more fits
	assert.Equal(t, 0, rec.Attach(makePendingAssets(t, reg, 1)))
}

func TestShipmentRecord_AttachCountsPersisted(t *testing.T) {
	reg := NewPreviewRegistry()
	rec := NewShipmentRecord()
	rec.Assets = []AssetRef{
		{Locator: "a.jpg", URL: "https://img.example.com/a.jpg"},
		{Locator: "b.jpg", URL: "https://img.example.com/b.jpg"},
	}

	// 2 persisted + cap 5 leaves room for 3
	accepted := rec.Attach(makePendingAssets(t, reg, 6))
	assert.Equal(t, 3, accepted)
	assert.Len(t, rec.Pending, 3)
}

func TestLogisticsInfo_AttachCap(t *testing.T) {
	reg := NewPreviewRegistry()
	rec := NewLogisticsInfo()

	accepted := rec.Attach(makePendingAssets(t, reg, 12))
	assert.Equal(t, 10, accepted)
	assert.Len(t, rec.Pending, 10)
}

func TestImageProjection(t *testing.T) {
	reg := NewPreviewRegistry()
	rec := NewShipmentRecord()
	rec.Assets = []AssetRef{
		{Locator: "a.jpg", URL: "https://img.example.com/a.jpg"},
		{Locator: "a-dup.jpg", URL: "https://img.example.com/a.jpg"},
	}
	rec.Attach(makePendingAssets(t, reg, 2))

	images := rec.Images()
	// Duplicate persisted URL collapses, previews follow persisted
	require.Len(t, images, 3)
	assert.Equal(t, "https://img.example.com/a.jpg", images[0])
	assert.Equal(t, string(rec.Pending[0].Preview), images[1])
	assert.Equal(t, string(rec.Pending[1].Preview), images[2])
}

func TestPreviewRegistry_ReleaseOnClear(t *testing.T) {
	reg := NewPreviewRegistry()
	rec := NewShipmentRecord()
	rec.Attach(makePendingAssets(t, reg, 3))
	assert.Equal(t, 3, reg.Live())

	refs := rec.ClearPending()
	reg.Release(refs...)
	assert.Equal(t, 0, reg.Live())
	assert.False(t, rec.HasPending())
}

func TestPreviewRegistry_ReleaseAll(t *testing.T) {
	reg := NewPreviewRegistry()
	makePendingAssets(t, reg, 4)
	assert.Equal(t, 4, reg.Live())
	reg.ReleaseAll()
	assert.Equal(t, 0, reg.Live())
}
