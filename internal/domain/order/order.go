package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of an order
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CommissionType distinguishes how the commission rate is applied
type CommissionType string

const (
	CommissionTypePercent CommissionType = "PERCENT"
	CommissionTypeFixed   CommissionType = "FIXED"
)

// Product holds the descriptor fields of the ordered product
type Product struct {
	Name          string `json:"name"`
	Size          string `json:"size"`
	Weight        string `json:"weight"`
	PackagingSize string `json:"packaging_size"`
	PrimaryImage  string `json:"primary_image"`
}

// Terms holds the scalar commercial fields of the root entity
type Terms struct {
	BaseUnitPrice   decimal.Decimal `json:"base_unit_price"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	Quantity        int64           `json:"quantity"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	CommissionRate  decimal.Decimal `json:"commission_rate"`
	CommissionType  CommissionType  `json:"commission_type"`
	AdvanceRate     decimal.Decimal `json:"advance_rate"`
	BalanceRate     decimal.Decimal `json:"balance_rate"`
	AdvanceDate     *time.Time      `json:"advance_date,omitempty"`
	BalanceDate     *time.Time      `json:"balance_date,omitempty"`
	OrderDate       *time.Time      `json:"order_date,omitempty"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty"`
	WorkEndDate     *time.Time      `json:"work_end_date,omitempty"`
	PackagingCount  int64           `json:"packaging_count"`
	Confirmed       bool            `json:"confirmed"`
	Status          Status          `json:"status"`
}

// Aggregate is the root order entity together with every owned
// sub-collection, treated as one edit/save unit. It is owned exclusively
// by one open editing session; there is no concurrent editor.
type Aggregate struct {
	ID      int64   `json:"id"`
	Product Product `json:"product"`
	Terms   Terms   `json:"terms"`

	OptionItems    []CostLineItem `json:"option_items"`
	LaborCostItems []CostLineItem `json:"labor_cost_items"`

	FactoryShipments []ShipmentRecord `json:"factory_shipments"`
	ReturnExchanges  []ShipmentRecord `json:"return_exchanges"`
	WorkRecords      []WorkRecord     `json:"work_records"`
	DeliverySets     []DeliverySet    `json:"delivery_sets"`
}

// NewAggregate initializes an empty "new order" aggregate with every
// editable field at its default value.
func NewAggregate() *Aggregate {
	return &Aggregate{
		Terms: Terms{
			CommissionType: CommissionTypePercent,
			Status:         StatusPending,
		},
	}
}

// IsNew reports whether the order has not been created upstream yet
func (a *Aggregate) IsNew() bool {
	return a.ID == 0
}

// HasPendingAssets reports whether any sub-record holds photos awaiting
// upload. An unsaved attached asset is unsaved work, so this feeds the
// dirty computation independently of field-level comparison.
func (a *Aggregate) HasPendingAssets() bool {
	for i := range a.FactoryShipments {
		if a.FactoryShipments[i].HasPending() {
			return true
		}
	}
	for i := range a.ReturnExchanges {
		if a.ReturnExchanges[i].HasPending() {
			return true
		}
	}
	for i := range a.WorkRecords {
		if a.WorkRecords[i].HasPending() {
			return true
		}
	}
	for i := range a.DeliverySets {
		for j := range a.DeliverySets[i].Logistics {
			if a.DeliverySets[i].Logistics[j].HasPending() {
				return true
			}
		}
	}
	return false
}

// PendingPreviews collects the preview handles of every pending asset in
// the aggregate. Used when a session closes to release them all.
func (a *Aggregate) PendingPreviews() []PreviewRef {
	var refs []PreviewRef
	for i := range a.FactoryShipments {
		refs = append(refs, previewRefs(a.FactoryShipments[i].Pending)...)
	}
	for i := range a.ReturnExchanges {
		refs = append(refs, previewRefs(a.ReturnExchanges[i].Pending)...)
	}
	for i := range a.WorkRecords {
		refs = append(refs, previewRefs(a.WorkRecords[i].Pending)...)
	}
	for i := range a.DeliverySets {
		for j := range a.DeliverySets[i].Logistics {
			refs = append(refs, previewRefs(a.DeliverySets[i].Logistics[j].Pending)...)
		}
	}
	return refs
}
