package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderdesk/backend/internal/application/session"
	ordersync "github.com/orderdesk/backend/internal/application/sync"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/shared"
)

const requestDateFormat = "2006-01-02"

// OpenSessionRequest opens an editing session. A nil order ID starts a
// new-order session.
type OpenSessionRequest struct {
	OrderID *int64 `json:"order_id"`
}

// TermsDTO carries the editable commercial fields of the order root
type TermsDTO struct {
	BaseUnitPrice   decimal.Decimal `json:"base_unit_price"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	Quantity        int64           `json:"quantity" binding:"min=0"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	CommissionRate  decimal.Decimal `json:"commission_rate"`
	CommissionType  string          `json:"commission_type" binding:"omitempty,oneof=PERCENT FIXED"`
	AdvanceRate     decimal.Decimal `json:"advance_rate"`
	BalanceRate     decimal.Decimal `json:"balance_rate"`
	AdvanceDate     *string         `json:"advance_date"`
	BalanceDate     *string         `json:"balance_date"`
	OrderDate       *string         `json:"order_date"`
	DeliveryDate    *string         `json:"delivery_date"`
	WorkEndDate     *string         `json:"work_end_date"`
	PackagingCount  int64           `json:"packaging_count" binding:"min=0"`
	Confirmed       bool            `json:"confirmed"`
	Status          string          `json:"status" binding:"required,oneof=PENDING CONFIRMED CANCELLED"`
}

// OrderEditRequest replaces the editable root fields of the aggregate
type OrderEditRequest struct {
	Product struct {
		Name          string `json:"name"`
		Size          string `json:"size"`
		Weight        string `json:"weight"`
		PackagingSize string `json:"packaging_size"`
		PrimaryImage  string `json:"primary_image"`
	} `json:"product"`
	Terms TermsDTO `json:"terms" binding:"required"`
}

func (r *OrderEditRequest) toDomain() (order.Product, order.Terms, error) {
	terms := order.Terms{
		BaseUnitPrice:   r.Terms.BaseUnitPrice,
		PriceAdjustment: r.Terms.PriceAdjustment,
		Quantity:        r.Terms.Quantity,
		ShippingCost:    r.Terms.ShippingCost,
		CommissionRate:  r.Terms.CommissionRate,
		CommissionType:  order.CommissionType(r.Terms.CommissionType),
		AdvanceRate:     r.Terms.AdvanceRate,
		BalanceRate:     r.Terms.BalanceRate,
		PackagingCount:  r.Terms.PackagingCount,
		Confirmed:       r.Terms.Confirmed,
		Status:          order.Status(r.Terms.Status),
	}
	if terms.CommissionType == "" {
		terms.CommissionType = order.CommissionTypePercent
	}
	var err error
	if terms.AdvanceDate, err = parseRequestDate(r.Terms.AdvanceDate); err != nil {
		return order.Product{}, order.Terms{}, err
	}
	if terms.BalanceDate, err = parseRequestDate(r.Terms.BalanceDate); err != nil {
		return order.Product{}, order.Terms{}, err
	}
	if terms.OrderDate, err = parseRequestDate(r.Terms.OrderDate); err != nil {
		return order.Product{}, order.Terms{}, err
	}
	if terms.DeliveryDate, err = parseRequestDate(r.Terms.DeliveryDate); err != nil {
		return order.Product{}, order.Terms{}, err
	}
	if terms.WorkEndDate, err = parseRequestDate(r.Terms.WorkEndDate); err != nil {
		return order.Product{}, order.Terms{}, err
	}
	product := order.Product{
		Name:          r.Product.Name,
		Size:          r.Product.Size,
		Weight:        r.Product.Weight,
		PackagingSize: r.Product.PackagingSize,
		PrimaryImage:  r.Product.PrimaryImage,
	}
	return product, terms, nil
}

// CostItemDTO is one cost line in a replace request. An empty ID means a
// newly added row.
type CostItemDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity" binding:"min=0"`
	AdminOnly bool            `json:"admin_only"`
}

// CostItemsRequest replaces both peer cost collections together
type CostItemsRequest struct {
	Options []CostItemDTO `json:"options"`
	Labor   []CostItemDTO `json:"labor"`
}

// ShipmentDTO is one shipment or return/exchange row in a replace request
type ShipmentDTO struct {
	ID             string  `json:"id"`
	Date           *string `json:"date"`
	Quantity       int64   `json:"quantity" binding:"min=0"`
	TrackingNumber string  `json:"tracking_number"`
	ReceiptDate    *string `json:"receipt_date"`
}

// ShipmentsRequest replaces one shipment-shaped collection
type ShipmentsRequest struct {
	Records []ShipmentDTO `json:"records"`
}

// WorkRecordDTO is one work record row in a replace request
type WorkRecordDTO struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	DescriptionAlt string `json:"description_alt"`
	Completed      bool   `json:"completed"`
}

// WorkRecordsRequest replaces the work record collection
type WorkRecordsRequest struct {
	Records []WorkRecordDTO `json:"records"`
}

// PackageDTO is one packing line inside a delivery set
type PackageDTO struct {
	ID     string `json:"id"`
	Types  int64  `json:"types" binding:"min=0"`
	Pieces int64  `json:"pieces" binding:"min=0"`
	Sets   int64  `json:"sets" binding:"min=0"`
}

// LogisticsDTO is one logistics dispatch inside a delivery set
type LogisticsDTO struct {
	ID             string `json:"id"`
	TrackingNumber string `json:"tracking_number"`
	CarrierID      int64  `json:"carrier_id"`
}

// DeliverySetDTO is one delivery set row in a replace request
type DeliverySetDTO struct {
	ID          string         `json:"id"`
	PackingCode string         `json:"packing_code"`
	Date        *string        `json:"date"`
	Packages    []PackageDTO   `json:"packages"`
	Logistics   []LogisticsDTO `json:"logistics"`
}

// DeliverySetsRequest replaces the delivery set collection
type DeliverySetsRequest struct {
	Sets []DeliverySetDTO `json:"sets"`
}

func parseRequestDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(requestDateFormat, *s)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Invalid date, expected YYYY-MM-DD")
	}
	return &t, nil
}

func formatResponseDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(requestDateFormat)
	return &s
}

// parseRowID maps a DTO identifier to an item identifier: an empty or
// zero ID becomes a fresh temporary one.
func parseRowID(s string) (order.ItemID, error) {
	id, err := order.ParseItemID(s)
	if err != nil {
		return order.ItemID{}, shared.NewDomainError("VALIDATION_FAILED", "Invalid record identifier")
	}
	if id.IsZero() {
		id = order.NewTemporaryID()
	}
	return id, nil
}

func costItemsToDomain(dtos []CostItemDTO) ([]order.CostLineItem, error) {
	items := make([]order.CostLineItem, 0, len(dtos))
	for _, d := range dtos {
		id, err := parseRowID(d.ID)
		if err != nil {
			return nil, err
		}
		item := order.CostLineItem{
			ID:        id,
			Name:      d.Name,
			UnitPrice: d.UnitPrice,
			Quantity:  d.Quantity,
			AdminOnly: d.AdminOnly,
		}
		item.Recalculate()
		items = append(items, item)
	}
	return items, nil
}

func shipmentsToDomain(dtos []ShipmentDTO) ([]order.ShipmentRecord, error) {
	records := make([]order.ShipmentRecord, 0, len(dtos))
	for _, d := range dtos {
		id, err := parseRowID(d.ID)
		if err != nil {
			return nil, err
		}
		date, err := parseRequestDate(d.Date)
		if err != nil {
			return nil, err
		}
		receipt, err := parseRequestDate(d.ReceiptDate)
		if err != nil {
			return nil, err
		}
		records = append(records, order.ShipmentRecord{
			ID:             id,
			Date:           date,
			Quantity:       d.Quantity,
			TrackingNumber: d.TrackingNumber,
			ReceiptDate:    receipt,
		})
	}
	return records, nil
}

func workRecordsToDomain(dtos []WorkRecordDTO) ([]order.WorkRecord, error) {
	records := make([]order.WorkRecord, 0, len(dtos))
	for _, d := range dtos {
		id, err := parseRowID(d.ID)
		if err != nil {
			return nil, err
		}
		records = append(records, order.WorkRecord{
			ID:             id,
			Description:    d.Description,
			DescriptionAlt: d.DescriptionAlt,
			Completed:      d.Completed,
		})
	}
	return records, nil
}

func deliverySetsToDomain(dtos []DeliverySetDTO) ([]order.DeliverySet, error) {
	sets := make([]order.DeliverySet, 0, len(dtos))
	for _, d := range dtos {
		id, err := parseRowID(d.ID)
		if err != nil {
			return nil, err
		}
		date, err := parseRequestDate(d.Date)
		if err != nil {
			return nil, err
		}
		set := order.DeliverySet{
			ID:          id,
			PackingCode: d.PackingCode,
			Date:        date,
		}
		for _, p := range d.Packages {
			pid, err := parseRowID(p.ID)
			if err != nil {
				return nil, err
			}
			pkg := order.PackageInfo{ID: pid, Types: p.Types, Pieces: p.Pieces, Sets: p.Sets}
			pkg.Recalculate()
			set.Packages = append(set.Packages, pkg)
		}
		for _, l := range d.Logistics {
			lid, err := parseRowID(l.ID)
			if err != nil {
				return nil, err
			}
			set.Logistics = append(set.Logistics, order.LogisticsInfo{
				ID:             lid,
				TrackingNumber: l.TrackingNumber,
				CarrierID:      l.CarrierID,
			})
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// TermsView mirrors TermsDTO for responses
type TermsView struct {
	BaseUnitPrice   decimal.Decimal `json:"base_unit_price"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	Quantity        int64           `json:"quantity"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	CommissionRate  decimal.Decimal `json:"commission_rate"`
	CommissionType  string          `json:"commission_type"`
	AdvanceRate     decimal.Decimal `json:"advance_rate"`
	BalanceRate     decimal.Decimal `json:"balance_rate"`
	AdvanceDate     *string         `json:"advance_date"`
	BalanceDate     *string         `json:"balance_date"`
	OrderDate       *string         `json:"order_date"`
	DeliveryDate    *string         `json:"delivery_date"`
	WorkEndDate     *string         `json:"work_end_date"`
	PackagingCount  int64           `json:"packaging_count"`
	Confirmed       bool            `json:"confirmed"`
	Status          string          `json:"status"`
}

// CostItemView is one cost line in a session view, with the derived cost
type CostItemView struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
	AdminOnly bool            `json:"admin_only"`
}

// ShipmentView is one shipment row in a session view. Images merges
// persisted asset URLs with pending preview handles.
type ShipmentView struct {
	ID             string   `json:"id"`
	Date           *string  `json:"date"`
	Quantity       int64    `json:"quantity"`
	TrackingNumber string   `json:"tracking_number"`
	ReceiptDate    *string  `json:"receipt_date"`
	Images         []string `json:"images"`
	PendingCount   int      `json:"pending_count"`
}

// WorkRecordView is one work record row in a session view
type WorkRecordView struct {
	ID             string   `json:"id"`
	Description    string   `json:"description"`
	DescriptionAlt string   `json:"description_alt"`
	Completed      bool     `json:"completed"`
	Images         []string `json:"images"`
	PendingCount   int      `json:"pending_count"`
}

// PackageView is one packing line in a session view
type PackageView struct {
	ID     string `json:"id"`
	Types  int64  `json:"types"`
	Pieces int64  `json:"pieces"`
	Sets   int64  `json:"sets"`
	Total  int64  `json:"total"`
}

// LogisticsView is one logistics dispatch in a session view
type LogisticsView struct {
	ID             string   `json:"id"`
	TrackingNumber string   `json:"tracking_number"`
	CarrierID      int64    `json:"carrier_id"`
	Images         []string `json:"images"`
	PendingCount   int      `json:"pending_count"`
}

// DeliverySetView is one delivery set in a session view
type DeliverySetView struct {
	ID          string          `json:"id"`
	PackingCode string          `json:"packing_code"`
	Date        *string         `json:"date"`
	Packages    []PackageView   `json:"packages"`
	Logistics   []LogisticsView `json:"logistics"`
}

// SessionView is the full editing state of a session as the client sees it
type SessionView struct {
	SessionID string `json:"session_id"`
	OrderID   *int64 `json:"order_id"`
	New       bool   `json:"new"`
	Dirty     bool   `json:"dirty"`
	Product   struct {
		Name          string `json:"name"`
		Size          string `json:"size"`
		Weight        string `json:"weight"`
		PackagingSize string `json:"packaging_size"`
		PrimaryImage  string `json:"primary_image"`
	} `json:"product"`
	Terms            TermsView         `json:"terms"`
	Options          []CostItemView    `json:"options"`
	Labor            []CostItemView    `json:"labor"`
	FactoryShipments []ShipmentView    `json:"factory_shipments"`
	ReturnExchanges  []ShipmentView    `json:"return_exchanges"`
	WorkRecords      []WorkRecordView  `json:"work_records"`
	DeliverySets     []DeliverySetView `json:"delivery_sets"`
}

// AttachAssetsResponse reports how many of the uploaded files were
// accepted within the record's capacity.
type AttachAssetsResponse struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// SaveResponse reports the outcome of a save
type SaveResponse struct {
	Created       bool                     `json:"created"`
	OrderID       int64                    `json:"order_id"`
	Dirty         bool                     `json:"dirty"`
	AssetWarnings []ordersync.AssetWarning `json:"asset_warnings,omitempty"`
	Reloaded      []order.CollectionKind   `json:"reloaded,omitempty"`
	Session       *SessionView             `json:"session"`
}

func newSessionView(s *session.Session) *SessionView {
	view := &SessionView{SessionID: s.ID}
	s.Read(func(a *order.Aggregate, dirty bool) {
		view.Dirty = dirty
		view.New = a.IsNew()
		if !a.IsNew() {
			id := a.ID
			view.OrderID = &id
		}
		view.Product.Name = a.Product.Name
		view.Product.Size = a.Product.Size
		view.Product.Weight = a.Product.Weight
		view.Product.PackagingSize = a.Product.PackagingSize
		view.Product.PrimaryImage = a.Product.PrimaryImage
		view.Terms = newTermsView(a.Terms)
		view.Options = costItemViews(a.OptionItems)
		view.Labor = costItemViews(a.LaborCostItems)
		view.FactoryShipments = shipmentViews(a.FactoryShipments)
		view.ReturnExchanges = shipmentViews(a.ReturnExchanges)
		view.WorkRecords = workRecordViews(a.WorkRecords)
		view.DeliverySets = deliverySetViews(a.DeliverySets)
	})
	return view
}

func newTermsView(t order.Terms) TermsView {
	return TermsView{
		BaseUnitPrice:   t.BaseUnitPrice,
		PriceAdjustment: t.PriceAdjustment,
		Quantity:        t.Quantity,
		ShippingCost:    t.ShippingCost,
		CommissionRate:  t.CommissionRate,
		CommissionType:  string(t.CommissionType),
		AdvanceRate:     t.AdvanceRate,
		BalanceRate:     t.BalanceRate,
		AdvanceDate:     formatResponseDate(t.AdvanceDate),
		BalanceDate:     formatResponseDate(t.BalanceDate),
		OrderDate:       formatResponseDate(t.OrderDate),
		DeliveryDate:    formatResponseDate(t.DeliveryDate),
		WorkEndDate:     formatResponseDate(t.WorkEndDate),
		PackagingCount:  t.PackagingCount,
		Confirmed:       t.Confirmed,
		Status:          t.Status.String(),
	}
}

func costItemViews(items []order.CostLineItem) []CostItemView {
	views := make([]CostItemView, 0, len(items))
	for _, i := range items {
		views = append(views, CostItemView{
			ID:        i.ID.String(),
			Name:      i.Name,
			UnitPrice: i.UnitPrice,
			Quantity:  i.Quantity,
			Cost:      i.Cost,
			AdminOnly: i.AdminOnly,
		})
	}
	return views
}

func shipmentViews(records []order.ShipmentRecord) []ShipmentView {
	views := make([]ShipmentView, 0, len(records))
	for i := range records {
		r := &records[i]
		views = append(views, ShipmentView{
			ID:             r.ID.String(),
			Date:           formatResponseDate(r.Date),
			Quantity:       r.Quantity,
			TrackingNumber: r.TrackingNumber,
			ReceiptDate:    formatResponseDate(r.ReceiptDate),
			Images:         r.Images(),
			PendingCount:   len(r.Pending),
		})
	}
	return views
}

func workRecordViews(records []order.WorkRecord) []WorkRecordView {
	views := make([]WorkRecordView, 0, len(records))
	for i := range records {
		r := &records[i]
		views = append(views, WorkRecordView{
			ID:             r.ID.String(),
			Description:    r.Description,
			DescriptionAlt: r.DescriptionAlt,
			Completed:      r.Completed,
			Images:         r.Images(),
			PendingCount:   len(r.Pending),
		})
	}
	return views
}

func deliverySetViews(sets []order.DeliverySet) []DeliverySetView {
	views := make([]DeliverySetView, 0, len(sets))
	for i := range sets {
		s := &sets[i]
		view := DeliverySetView{
			ID:          s.ID.String(),
			PackingCode: s.PackingCode,
			Date:        formatResponseDate(s.Date),
			Packages:    make([]PackageView, 0, len(s.Packages)),
			Logistics:   make([]LogisticsView, 0, len(s.Logistics)),
		}
		for _, p := range s.Packages {
			view.Packages = append(view.Packages, PackageView{
				ID:     p.ID.String(),
				Types:  p.Types,
				Pieces: p.Pieces,
				Sets:   p.Sets,
				Total:  p.Total,
			})
		}
		for j := range s.Logistics {
			l := &s.Logistics[j]
			view.Logistics = append(view.Logistics, LogisticsView{
				ID:             l.ID.String(),
				TrackingNumber: l.TrackingNumber,
				CarrierID:      l.CarrierID,
				Images:         l.Images(),
				PendingCount:   len(l.Pending),
			})
		}
		views = append(views, view)
	}
	return views
}
