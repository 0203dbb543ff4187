package order

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the last confirmed persisted state of an aggregate, reduced
// to author-editable fields. Derived values (item cost, package total) and
// transient state (pending assets, preview handles) are excluded, so a
// snapshot can only change through an explicit save or load.
type Snapshot struct {
	id      int64
	product Product
	terms   Terms

	optionItems    []costItemState
	laborCostItems []costItemState
	factory        []shipmentState
	returns        []shipmentState
	work           []workState
	delivery       []deliveryState
}

type costItemState struct {
	id        ItemID
	name      string
	unitPrice decimal.Decimal
	quantity  int64
	adminOnly bool
}

type shipmentState struct {
	id             ItemID
	date           *time.Time
	quantity       int64
	trackingNumber string
	receiptDate    *time.Time
}

type workState struct {
	id             ItemID
	description    string
	descriptionAlt string
	completed      bool
}

type packageState struct {
	id     ItemID
	types  int64
	pieces int64
	sets   int64
}

type logisticsState struct {
	id             ItemID
	trackingNumber string
	carrierID      int64
}

type deliveryState struct {
	id          ItemID
	packingCode string
	date        *time.Time
	packages    []packageState
	logistics   []logisticsState
}

// TakeSnapshot captures the persisted-relevant state of the aggregate
func TakeSnapshot(a *Aggregate) *Snapshot {
	s := &Snapshot{
		id:      a.ID,
		product: a.Product,
		terms:   a.Terms,
	}
	s.terms.AdvanceDate = copyDate(a.Terms.AdvanceDate)
	s.terms.BalanceDate = copyDate(a.Terms.BalanceDate)
	s.terms.OrderDate = copyDate(a.Terms.OrderDate)
	s.terms.DeliveryDate = copyDate(a.Terms.DeliveryDate)
	s.terms.WorkEndDate = copyDate(a.Terms.WorkEndDate)
	s.optionItems = costItemStates(a.OptionItems)
	s.laborCostItems = costItemStates(a.LaborCostItems)
	s.factory = shipmentStates(a.FactoryShipments)
	s.returns = shipmentStates(a.ReturnExchanges)
	for i := range a.WorkRecords {
		r := &a.WorkRecords[i]
		s.work = append(s.work, workState{
			id:             r.ID,
			description:    r.Description,
			descriptionAlt: r.DescriptionAlt,
			completed:      r.Completed,
		})
	}
	for i := range a.DeliverySets {
		set := &a.DeliverySets[i]
		ds := deliveryState{
			id:          set.ID,
			packingCode: set.PackingCode,
			date:        copyDate(set.Date),
		}
		for j := range set.Packages {
			p := &set.Packages[j]
			ds.packages = append(ds.packages, packageState{
				id: p.ID, types: p.Types, pieces: p.Pieces, sets: p.Sets,
			})
		}
		for j := range set.Logistics {
			l := &set.Logistics[j]
			ds.logistics = append(ds.logistics, logisticsState{
				id: l.ID, trackingNumber: l.TrackingNumber, carrierID: l.CarrierID,
			})
		}
		s.delivery = append(s.delivery, ds)
	}
	return s
}

func costItemStates(items []CostLineItem) []costItemState {
	states := make([]costItemState, 0, len(items))
	for i := range items {
		it := &items[i]
		states = append(states, costItemState{
			id:        it.ID,
			name:      it.Name,
			unitPrice: it.UnitPrice,
			quantity:  it.Quantity,
			adminOnly: it.AdminOnly,
		})
	}
	return states
}

func shipmentStates(records []ShipmentRecord) []shipmentState {
	states := make([]shipmentState, 0, len(records))
	for i := range records {
		r := &records[i]
		states = append(states, shipmentState{
			id:             r.ID,
			date:           copyDate(r.Date),
			quantity:       r.Quantity,
			trackingNumber: r.TrackingNumber,
			receiptDate:    copyDate(r.ReceiptDate),
		})
	}
	return states
}

func copyDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// IsDirty reports whether the aggregate has diverged from the baseline
// snapshot in any editable or pending-asset dimension. A nil baseline is
// the "new aggregate" case: dirtiness then means any editable field holds
// a non-default value or any sub-collection is non-empty. The function is
// pure and total; item order within a collection never affects the result.
func IsDirty(a *Aggregate, baseline *Snapshot) bool {
	if a.HasPendingAssets() {
		return true
	}
	if baseline == nil {
		baseline = TakeSnapshot(NewAggregate())
	}
	current := TakeSnapshot(a)
	return !current.equal(baseline)
}

func (s *Snapshot) equal(o *Snapshot) bool {
	if s.id != o.id {
		return false
	}
	if s.product != o.product {
		return false
	}
	if !termsEqual(&s.terms, &o.terms) {
		return false
	}
	if !costItemsEqual(s.optionItems, o.optionItems) {
		return false
	}
	if !costItemsEqual(s.laborCostItems, o.laborCostItems) {
		return false
	}
	if !shipmentsEqual(s.factory, o.factory) {
		return false
	}
	if !shipmentsEqual(s.returns, o.returns) {
		return false
	}
	if !workEqual(s.work, o.work) {
		return false
	}
	return deliveryEqual(s.delivery, o.delivery)
}

func termsEqual(a, b *Terms) bool {
	return a.BaseUnitPrice.Equal(b.BaseUnitPrice) &&
		a.PriceAdjustment.Equal(b.PriceAdjustment) &&
		a.Quantity == b.Quantity &&
		a.ShippingCost.Equal(b.ShippingCost) &&
		a.CommissionRate.Equal(b.CommissionRate) &&
		a.CommissionType == b.CommissionType &&
		a.AdvanceRate.Equal(b.AdvanceRate) &&
		a.BalanceRate.Equal(b.BalanceRate) &&
		datesEqual(a.AdvanceDate, b.AdvanceDate) &&
		datesEqual(a.BalanceDate, b.BalanceDate) &&
		datesEqual(a.OrderDate, b.OrderDate) &&
		datesEqual(a.DeliveryDate, b.DeliveryDate) &&
		datesEqual(a.WorkEndDate, b.WorkEndDate) &&
		a.PackagingCount == b.PackagingCount &&
		a.Confirmed == b.Confirmed &&
		a.Status == b.Status
}

func datesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// sortByID sorts a copy of the slice by identifier so that reordering
// alone never produces a dirty signal.
func sortByID[T any](items []T, id func(*T) ItemID) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return id(&sorted[i]).Less(id(&sorted[j]))
	})
	return sorted
}

func costItemsEqual(a, b []costItemState) bool {
	if len(a) != len(b) {
		return false
	}
	a = sortByID(a, func(s *costItemState) ItemID { return s.id })
	b = sortByID(b, func(s *costItemState) ItemID { return s.id })
	for i := range a {
		if a[i].id != b[i].id ||
			a[i].name != b[i].name ||
			!a[i].unitPrice.Equal(b[i].unitPrice) ||
			a[i].quantity != b[i].quantity ||
			a[i].adminOnly != b[i].adminOnly {
			return false
		}
	}
	return true
}

func shipmentsEqual(a, b []shipmentState) bool {
	if len(a) != len(b) {
		return false
	}
	a = sortByID(a, func(s *shipmentState) ItemID { return s.id })
	b = sortByID(b, func(s *shipmentState) ItemID { return s.id })
	for i := range a {
		if a[i].id != b[i].id ||
			!datesEqual(a[i].date, b[i].date) ||
			a[i].quantity != b[i].quantity ||
			a[i].trackingNumber != b[i].trackingNumber ||
			!datesEqual(a[i].receiptDate, b[i].receiptDate) {
			return false
		}
	}
	return true
}

func workEqual(a, b []workState) bool {
	if len(a) != len(b) {
		return false
	}
	a = sortByID(a, func(s *workState) ItemID { return s.id })
	b = sortByID(b, func(s *workState) ItemID { return s.id })
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func deliveryEqual(a, b []deliveryState) bool {
	if len(a) != len(b) {
		return false
	}
	a = sortByID(a, func(s *deliveryState) ItemID { return s.id })
	b = sortByID(b, func(s *deliveryState) ItemID { return s.id })
	for i := range a {
		if a[i].id != b[i].id ||
			a[i].packingCode != b[i].packingCode ||
			!datesEqual(a[i].date, b[i].date) {
			return false
		}
		if !packagesEqual(a[i].packages, b[i].packages) {
			return false
		}
		if !logisticsEqual(a[i].logistics, b[i].logistics) {
			return false
		}
	}
	return true
}

func packagesEqual(a, b []packageState) bool {
	if len(a) != len(b) {
		return false
	}
	a = sortByID(a, func(s *packageState) ItemID { return s.id })
	b = sortByID(b, func(s *packageState) ItemID { return s.id })
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func logisticsEqual(a, b []logisticsState) bool {
	if len(a) != len(b) {
		return false
	}
	a = sortByID(a, func(s *logisticsState) ItemID { return s.id })
	b = sortByID(b, func(s *logisticsState) ItemID { return s.id })
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
