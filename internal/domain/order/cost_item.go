package order

import (
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CostLineItem is a member of one of the two peer cost collections
// (option items and labor cost items). Cost is derived from
// UnitPrice × Quantity on every mutation and is never stored
// independently.
type CostLineItem struct {
	ID        ItemID          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
	AdminOnly bool            `json:"admin_only"`
}

// NewCostLineItem creates a new cost line item with a temporary identifier
func NewCostLineItem(name string, unitPrice decimal.Decimal, quantity int64, adminOnly bool) (*CostLineItem, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Cost item name cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Cost item quantity cannot be negative")
	}
	item := &CostLineItem{
		ID:        NewTemporaryID(),
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		AdminOnly: adminOnly,
	}
	item.recalculate()
	return item, nil
}

// SetUnitPrice updates the unit price and recomputes the derived cost
func (i *CostLineItem) SetUnitPrice(unitPrice decimal.Decimal) {
	i.UnitPrice = unitPrice
	i.recalculate()
}

// SetQuantity updates the quantity and recomputes the derived cost
func (i *CostLineItem) SetQuantity(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Cost item quantity cannot be negative")
	}
	i.Quantity = quantity
	i.recalculate()
	return nil
}

func (i *CostLineItem) recalculate() {
	i.Cost = i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Recalculate re-derives the cost from the current factors. Callers that
// assemble items field-by-field (e.g. request mapping) use this to keep
// the invariant before the item enters the aggregate.
func (i *CostLineItem) Recalculate() {
	i.recalculate()
}

// HasAdminItems reports whether any item in the given collections is
// flagged admin-only. Used to gate submission by principal elevation.
func HasAdminItems(collections ...[]CostLineItem) bool {
	for _, items := range collections {
		for _, item := range items {
			if item.AdminOnly {
				return true
			}
		}
	}
	return false
}
