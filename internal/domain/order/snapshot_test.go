package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return &d
}

// buildAggregate creates a populated existing-order aggregate used across
// comparator tests.
func buildAggregate(t *testing.T) *Aggregate {
	t.Helper()
	a := NewAggregate()
	a.ID = 100
	a.Product.Name = "Leather tote"
	a.Terms.BaseUnitPrice = decimal.NewFromInt(120)
	a.Terms.Quantity = 50

	opt, err := NewCostLineItem("Strap option", decimal.NewFromInt(5), 50, false)
	require.NoError(t, err)
	opt.ID = PersistentID(1)
	labor, err := NewCostLineItem("Stitch rework", decimal.NewFromInt(2), 50, true)
	require.NoError(t, err)
	labor.ID = PersistentID(2)
	a.OptionItems = []CostLineItem{*opt}
	a.LaborCostItems = []CostLineItem{*labor}

	a.FactoryShipments = []ShipmentRecord{
		{ID: PersistentID(7), Date: date(t, "2026-08-01"), Quantity: 10, TrackingNumber: "TRK-1"},
		{ID: PersistentID(8), Date: date(t, "2026-08-05"), Quantity: 40, TrackingNumber: "TRK-2"},
	}
	a.WorkRecords = []WorkRecord{
		{ID: PersistentID(11), Description: "repack", Completed: true},
	}
	a.DeliverySets = []DeliverySet{
		{
			ID:          PersistentID(21),
			PackingCode: "PK-01",
			Date:        date(t, "2026-08-10"),
			Packages:    []PackageInfo{{ID: PersistentID(31), Types: 2, Pieces: 5, Sets: 5, Total: 50}},
			Logistics:   []LogisticsInfo{{ID: PersistentID(41), TrackingNumber: "LOG-1", CarrierID: 3}},
		},
	}
	return a
}

func TestIsDirty_SelfCompareNeverDirty(t *testing.T) {
	a := buildAggregate(t)
	assert.False(t, IsDirty(a, TakeSnapshot(a)))
}

func TestIsDirty_PermutationIsNotDirty(t *testing.T) {
	a := buildAggregate(t)
	base := TakeSnapshot(a)

	// Reorder every permutable collection
	a.FactoryShipments[0], a.FactoryShipments[1] = a.FactoryShipments[1], a.FactoryShipments[0]
	assert.False(t, IsDirty(a, base))
}

func TestIsDirty_ScalarChange(t *testing.T) {
	a := buildAggregate(t)
	base := TakeSnapshot(a)

	a.Terms.Quantity = 51
	assert.True(t, IsDirty(a, base))

	a.Terms.Quantity = 50
	assert.False(t, IsDirty(a, base))
}

func TestIsDirty_ItemFieldChange(t *testing.T) {
	a := buildAggregate(t)
	base := TakeSnapshot(a)

	a.FactoryShipments[0].Quantity = 12
	assert.True(t, IsDirty(a, base))
}

func TestIsDirty_CollectionLengthChange(t *testing.T) {
	a := buildAggregate(t)
	base := TakeSnapshot(a)

	a.ReturnExchanges = append(a.ReturnExchanges, *NewShipmentRecord())
	assert.True(t, IsDirty(a, base))
}

func TestIsDirty_DerivedFieldsExcluded(t *testing.T) {
	a := buildAggregate(t)
	base := TakeSnapshot(a)

	// Corrupting a derived field alone is invisible to the comparator:
	// derived values are recomputed, never compared.
	a.OptionItems[0].Cost = decimal.NewFromInt(999999)
	a.DeliverySets[0].Packages[0].Total = 999999
	assert.False(t, IsDirty(a, base))
}

func TestIsDirty_PendingAssetAloneIsDirty(t *testing.T) {
	a := buildAggregate(t)
	base := TakeSnapshot(a)
	reg := NewPreviewRegistry()

	a.FactoryShipments[0].Attach(makePendingAssets(t, reg, 1))
	assert.True(t, IsDirty(a, base))

	refs := a.FactoryShipments[0].ClearPending()
	reg.Release(refs...)
	assert.False(t, IsDirty(a, base))
}

func TestIsDirty_NestedDeliveryChange(t *testing.T) {
	a := buildAggregate(t)
	base := TakeSnapshot(a)

	a.DeliverySets[0].Packages[0].Pieces = 6
	a.DeliverySets[0].Packages[0].Recalculate()
	assert.True(t, IsDirty(a, base))
}

func TestIsDirty_NewAggregateDefaults(t *testing.T) {
	a := NewAggregate()
	assert.False(t, IsDirty(a, nil))

	a.Terms.Quantity = 5
	assert.True(t, IsDirty(a, nil))

	a = NewAggregate()
	a.OptionItems = []CostLineItem{{ID: NewTemporaryID(), Name: "x"}}
	assert.True(t, IsDirty(a, nil))
}

func TestTakeSnapshot_Isolation(t *testing.T) {
	a := buildAggregate(t)
	base := TakeSnapshot(a)

	// Mutating the aggregate after the snapshot must not leak into it
	*a.FactoryShipments[0].Date = a.FactoryShipments[0].Date.AddDate(0, 0, 3)
	a.Terms.WorkEndDate = date(t, "2026-08-29")
	assert.True(t, IsDirty(a, base))
}

func TestAllWorkComplete(t *testing.T) {
	assert.False(t, AllWorkComplete(nil))
	assert.True(t, AllWorkComplete([]WorkRecord{{Completed: true}, {Completed: true}}))
	assert.False(t, AllWorkComplete([]WorkRecord{{Completed: true}, {Completed: false}}))
}
