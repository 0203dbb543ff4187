package upstream

import (
	"context"
	"fmt"
	"time"

	ordersync "github.com/orderdesk/backend/internal/application/sync"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// wireDateFormat is the date-only format the upstream exchanges
const wireDateFormat = "2006-01-02"

// OrderClient talks to the root order endpoints
type OrderClient struct {
	client *Client
}

var _ ordersync.RootClient = (*OrderClient)(nil)

// NewOrderClient creates an OrderClient
func NewOrderClient(client *Client) *OrderClient {
	return &OrderClient{client: client}
}

type orderWire struct {
	Name          string `json:"name"`
	Size          string `json:"size"`
	Weight        string `json:"weight"`
	PackagingSize string `json:"packaging_size"`
	PrimaryImage  string `json:"primary_image"`

	BaseUnitPrice   decimal.Decimal `json:"base_unit_price"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	Quantity        int64           `json:"quantity"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	CommissionRate  decimal.Decimal `json:"commission_rate"`
	CommissionType  string          `json:"commission_type"`
	AdvanceRate     decimal.Decimal `json:"advance_rate"`
	BalanceRate     decimal.Decimal `json:"balance_rate"`
	AdvanceDate     *string         `json:"advance_date,omitempty"`
	BalanceDate     *string         `json:"balance_date,omitempty"`
	OrderDate       *string         `json:"order_date,omitempty"`
	DeliveryDate    *string         `json:"delivery_date,omitempty"`
	WorkEndDate     *string         `json:"work_end_date,omitempty"`
	PackagingCount  int64           `json:"packaging_count"`
	Confirmed       bool            `json:"confirmed"`
	Status          string          `json:"status"`
}

type orderResponse struct {
	ID int64 `json:"id"`
	orderWire
}

type createResponse struct {
	ID int64 `json:"id"`
}

// Fetch reads the root scalar fields of an order
func (c *OrderClient) Fetch(ctx context.Context, orderID int64) (order.Product, order.Terms, error) {
	var resp orderResponse
	if err := c.client.doJSON(ctx, "GET", fmt.Sprintf("/orders/%d", orderID), nil, &resp); err != nil {
		return order.Product{}, order.Terms{}, err
	}
	product, terms, err := resp.orderWire.toDomain()
	if err != nil {
		return order.Product{}, order.Terms{}, err
	}
	return product, terms, nil
}

// Create persists a new order and returns its identifier
func (c *OrderClient) Create(ctx context.Context, product order.Product, terms order.Terms) (int64, error) {
	var resp createResponse
	if err := c.client.doJSON(ctx, "POST", "/orders", toOrderWire(product, terms), &resp); err != nil {
		return 0, err
	}
	if resp.ID <= 0 {
		return 0, fmt.Errorf("%w: missing order id", ErrBadResponse)
	}
	return resp.ID, nil
}

// Update replaces the root scalar fields of an existing order
func (c *OrderClient) Update(ctx context.Context, orderID int64, product order.Product, terms order.Terms) error {
	return c.client.doJSON(ctx, "PUT", fmt.Sprintf("/orders/%d", orderID), toOrderWire(product, terms), nil)
}

func toOrderWire(product order.Product, terms order.Terms) orderWire {
	return orderWire{
		Name:          product.Name,
		Size:          product.Size,
		Weight:        product.Weight,
		PackagingSize: product.PackagingSize,
		PrimaryImage:  product.PrimaryImage,

		BaseUnitPrice:   terms.BaseUnitPrice,
		PriceAdjustment: terms.PriceAdjustment,
		Quantity:        terms.Quantity,
		ShippingCost:    terms.ShippingCost,
		CommissionRate:  terms.CommissionRate,
		CommissionType:  string(terms.CommissionType),
		AdvanceRate:     terms.AdvanceRate,
		BalanceRate:     terms.BalanceRate,
		AdvanceDate:     dateToWire(terms.AdvanceDate),
		BalanceDate:     dateToWire(terms.BalanceDate),
		OrderDate:       dateToWire(terms.OrderDate),
		DeliveryDate:    dateToWire(terms.DeliveryDate),
		WorkEndDate:     dateToWire(terms.WorkEndDate),
		PackagingCount:  terms.PackagingCount,
		Confirmed:       terms.Confirmed,
		Status:          string(terms.Status),
	}
}

func (w orderWire) toDomain() (order.Product, order.Terms, error) {
	status := order.Status(w.Status)
	if !status.IsValid() {
		return order.Product{}, order.Terms{}, fmt.Errorf("%w: unknown status %q", ErrBadResponse, w.Status)
	}

	product := order.Product{
		Name:          w.Name,
		Size:          w.Size,
		Weight:        w.Weight,
		PackagingSize: w.PackagingSize,
		PrimaryImage:  w.PrimaryImage,
	}
	terms := order.Terms{
		BaseUnitPrice:   w.BaseUnitPrice,
		PriceAdjustment: w.PriceAdjustment,
		Quantity:        w.Quantity,
		ShippingCost:    w.ShippingCost,
		CommissionRate:  w.CommissionRate,
		CommissionType:  order.CommissionType(w.CommissionType),
		AdvanceRate:     w.AdvanceRate,
		BalanceRate:     w.BalanceRate,
		PackagingCount:  w.PackagingCount,
		Confirmed:       w.Confirmed,
		Status:          status,
	}

	var err error
	if terms.AdvanceDate, err = dateFromWire(w.AdvanceDate); err != nil {
		return order.Product{}, order.Terms{}, err
	}
	if terms.BalanceDate, err = dateFromWire(w.BalanceDate); err != nil {
		return order.Product{}, order.Terms{}, err
	}
	if terms.OrderDate, err = dateFromWire(w.OrderDate); err != nil {
		return order.Product{}, order.Terms{}, err
	}
	if terms.DeliveryDate, err = dateFromWire(w.DeliveryDate); err != nil {
		return order.Product{}, order.Terms{}, err
	}
	if terms.WorkEndDate, err = dateFromWire(w.WorkEndDate); err != nil {
		return order.Product{}, order.Terms{}, err
	}
	return product, terms, nil
}

func dateToWire(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(wireDateFormat)
	return &s
}

func dateFromWire(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(wireDateFormat, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrBadResponse, *s)
	}
	return &t, nil
}
