package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCostLineItem(t *testing.T) {
	item, err := NewCostLineItem("Button upgrade", decimal.NewFromInt(1500), 3, false)
	require.NoError(t, err)

	assert.True(t, item.ID.IsTemporary())
	assert.True(t, item.Cost.Equal(decimal.NewFromInt(4500)))
	assert.False(t, item.AdminOnly)
}

func TestNewCostLineItem_Validation(t *testing.T) {
	_, err := NewCostLineItem("", decimal.NewFromInt(1), 1, false)
	assert.Error(t, err)

	_, err = NewCostLineItem("x", decimal.NewFromInt(1), -1, false)
	assert.Error(t, err)
}

func TestCostLineItem_CostFollowsFactors(t *testing.T) {
	item, err := NewCostLineItem("Labor", decimal.NewFromFloat(12.5), 4, true)
	require.NoError(t, err)
	assert.True(t, item.Cost.Equal(decimal.NewFromInt(50)))

	item.SetUnitPrice(decimal.NewFromInt(10))
	assert.True(t, item.Cost.Equal(decimal.NewFromInt(40)))

	require.NoError(t, item.SetQuantity(7))
	assert.True(t, item.Cost.Equal(decimal.NewFromInt(70)))

	assert.Error(t, item.SetQuantity(-1))
	// Failed mutation leaves the derived cost untouched
	assert.True(t, item.Cost.Equal(decimal.NewFromInt(70)))
}

func TestHasAdminItems(t *testing.T) {
	plain, err := NewCostLineItem("Plain", decimal.NewFromInt(1), 1, false)
	require.NoError(t, err)
	admin, err := NewCostLineItem("Hidden margin", decimal.NewFromInt(1), 1, true)
	require.NoError(t, err)

	assert.False(t, HasAdminItems([]CostLineItem{*plain}, nil))
	assert.True(t, HasAdminItems([]CostLineItem{*plain}, []CostLineItem{*admin}))
}
