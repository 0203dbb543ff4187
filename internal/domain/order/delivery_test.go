package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPackageInfo(t *testing.T) {
	p, err := NewPackageInfo(2, 5, 3)
	require.NoError(t, err)
	assert.True(t, p.ID.IsTemporary())
	assert.Equal(t, int64(30), p.Total)

	_, err = NewPackageInfo(-1, 1, 1)
	assert.Error(t, err)
}

func TestPackageInfo_TotalFollowsFactors(t *testing.T) {
	p, err := NewPackageInfo(2, 5, 3)
	require.NoError(t, err)

	p.Pieces = 10
	p.Recalculate()
	assert.Equal(t, int64(60), p.Total)

	p.Sets = 0
	p.Recalculate()
	assert.Equal(t, int64(0), p.Total)
}

func TestNewDeliverySet(t *testing.T) {
	set := NewDeliverySet("PK-07")
	assert.True(t, set.ID.IsTemporary())
	assert.Equal(t, "PK-07", set.PackingCode)
	assert.Empty(t, set.Packages)
	assert.Empty(t, set.Logistics)
}
