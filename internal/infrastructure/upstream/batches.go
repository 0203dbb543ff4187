package upstream

import (
	"context"
	"fmt"

	ordersync "github.com/orderdesk/backend/internal/application/sync"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// BatchClient talks to the per-collection read and replace endpoints.
// Every submit carries the full desired end state of the collection;
// the upstream answers with persistent identifiers aligned positionally
// to the submitted lists.
type BatchClient struct {
	client *Client
	assets *AssetClient
}

var _ ordersync.CollectionClient = (*BatchClient)(nil)

// NewBatchClient creates a BatchClient. The asset client is used to
// resolve locators embedded in read responses.
func NewBatchClient(client *Client) *BatchClient {
	return &BatchClient{client: client, assets: NewAssetClient(client)}
}

type costItemWire struct {
	ID        *int64          `json:"id,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	AdminOnly bool            `json:"admin_only"`
}

type shipmentWire struct {
	ID             *int64  `json:"id,omitempty"`
	Date           *string `json:"date,omitempty"`
	Quantity       int64   `json:"quantity"`
	TrackingNumber string  `json:"tracking_number"`
	ReceiptDate    *string `json:"receipt_date,omitempty"`
}

type workRecordWire struct {
	ID             *int64 `json:"id,omitempty"`
	Description    string `json:"description"`
	DescriptionAlt string `json:"description_alt"`
	Completed      bool   `json:"completed"`
}

type packageWire struct {
	ID     *int64 `json:"id,omitempty"`
	Types  int64  `json:"types"`
	Pieces int64  `json:"pieces"`
	Sets   int64  `json:"sets"`
}

type logisticsWire struct {
	ID             *int64 `json:"id,omitempty"`
	TrackingNumber string `json:"tracking_number"`
	CarrierID      int64  `json:"carrier_id"`
}

type deliverySetWire struct {
	ID          *int64          `json:"id,omitempty"`
	PackingCode string          `json:"packing_code"`
	Date        *string         `json:"date,omitempty"`
	Packages    []packageWire   `json:"packages"`
	Logistics   []logisticsWire `json:"logistics"`
}

// FetchCostItems reads both peer cost collections
func (c *BatchClient) FetchCostItems(ctx context.Context, orderID int64) ([]order.CostLineItem, []order.CostLineItem, error) {
	var resp struct {
		Options []costItemWire `json:"options"`
		Labor   []costItemWire `json:"labor"`
	}
	if err := c.client.doJSON(ctx, "GET", fmt.Sprintf("/orders/%d/cost-items", orderID), nil, &resp); err != nil {
		return nil, nil, err
	}
	options, err := costItemsToDomain(resp.Options)
	if err != nil {
		return nil, nil, err
	}
	labor, err := costItemsToDomain(resp.Labor)
	if err != nil {
		return nil, nil, err
	}
	return options, labor, nil
}

// FetchShipments reads the factory shipment or return/exchange collection
func (c *BatchClient) FetchShipments(ctx context.Context, orderID int64, kind order.CollectionKind) ([]order.ShipmentRecord, error) {
	var resp struct {
		Records []shipmentWire `json:"records"`
	}
	if err := c.client.doJSON(ctx, "GET", fmt.Sprintf("/orders/%d/%s", orderID, kind), nil, &resp); err != nil {
		return nil, err
	}

	records := make([]order.ShipmentRecord, 0, len(resp.Records))
	for _, w := range resp.Records {
		id, err := persistedID(w.ID)
		if err != nil {
			return nil, err
		}
		rec := order.ShipmentRecord{
			ID:             id,
			Quantity:       w.Quantity,
			TrackingNumber: w.TrackingNumber,
		}
		if rec.Date, err = dateFromWire(w.Date); err != nil {
			return nil, err
		}
		if rec.ReceiptDate, err = dateFromWire(w.ReceiptDate); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// FetchWorkRecords reads the work record collection
func (c *BatchClient) FetchWorkRecords(ctx context.Context, orderID int64) ([]order.WorkRecord, error) {
	var resp struct {
		Records []workRecordWire `json:"records"`
	}
	if err := c.client.doJSON(ctx, "GET", fmt.Sprintf("/orders/%d/work-records", orderID), nil, &resp); err != nil {
		return nil, err
	}

	records := make([]order.WorkRecord, 0, len(resp.Records))
	for _, w := range resp.Records {
		id, err := persistedID(w.ID)
		if err != nil {
			return nil, err
		}
		records = append(records, order.WorkRecord{
			ID:             id,
			Description:    w.Description,
			DescriptionAlt: w.DescriptionAlt,
			Completed:      w.Completed,
		})
	}
	return records, nil
}

// FetchDeliverySets reads the delivery set collection with its nested
// packing and logistics children
func (c *BatchClient) FetchDeliverySets(ctx context.Context, orderID int64) ([]order.DeliverySet, error) {
	var resp struct {
		Sets []deliverySetWire `json:"sets"`
	}
	if err := c.client.doJSON(ctx, "GET", fmt.Sprintf("/orders/%d/delivery-sets", orderID), nil, &resp); err != nil {
		return nil, err
	}

	sets := make([]order.DeliverySet, 0, len(resp.Sets))
	for _, w := range resp.Sets {
		id, err := persistedID(w.ID)
		if err != nil {
			return nil, err
		}
		set := order.DeliverySet{ID: id, PackingCode: w.PackingCode}
		if set.Date, err = dateFromWire(w.Date); err != nil {
			return nil, err
		}
		for _, pw := range w.Packages {
			pid, err := persistedID(pw.ID)
			if err != nil {
				return nil, err
			}
			pkg := order.PackageInfo{ID: pid, Types: pw.Types, Pieces: pw.Pieces, Sets: pw.Sets}
			pkg.Recalculate()
			set.Packages = append(set.Packages, pkg)
		}
		for _, lw := range w.Logistics {
			lid, err := persistedID(lw.ID)
			if err != nil {
				return nil, err
			}
			set.Logistics = append(set.Logistics, order.LogisticsInfo{
				ID:             lid,
				TrackingNumber: lw.TrackingNumber,
				CarrierID:      lw.CarrierID,
			})
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// SubmitCostItems replaces both peer cost collections in one batch
func (c *BatchClient) SubmitCostItems(ctx context.Context, orderID int64, options, labor []order.CostLineItem) ([]int64, []int64, error) {
	payload := struct {
		Options []costItemWire `json:"options"`
		Labor   []costItemWire `json:"labor"`
	}{costItemsToWire(options), costItemsToWire(labor)}

	var resp struct {
		OptionIDs []int64 `json:"option_ids"`
		LaborIDs  []int64 `json:"labor_ids"`
	}
	if err := c.client.doJSON(ctx, "PUT", fmt.Sprintf("/orders/%d/cost-items", orderID), payload, &resp); err != nil {
		return nil, nil, err
	}
	if len(resp.OptionIDs) != len(options) || len(resp.LaborIDs) != len(labor) {
		return nil, nil, fmt.Errorf("%w: cost item id counts %d/%d for %d/%d submitted",
			ErrBadResponse, len(resp.OptionIDs), len(resp.LaborIDs), len(options), len(labor))
	}
	return resp.OptionIDs, resp.LaborIDs, nil
}

// SubmitShipments replaces one shipment-shaped collection
func (c *BatchClient) SubmitShipments(ctx context.Context, orderID int64, kind order.CollectionKind, records []order.ShipmentRecord) ([]int64, error) {
	wires := make([]shipmentWire, 0, len(records))
	for _, r := range records {
		wires = append(wires, shipmentWire{
			ID:             r.ID.SubmissionID(),
			Date:           dateToWire(r.Date),
			Quantity:       r.Quantity,
			TrackingNumber: r.TrackingNumber,
			ReceiptDate:    dateToWire(r.ReceiptDate),
		})
	}
	payload := struct {
		Records []shipmentWire `json:"records"`
	}{wires}

	var resp struct {
		IDs []int64 `json:"ids"`
	}
	if err := c.client.doJSON(ctx, "PUT", fmt.Sprintf("/orders/%d/%s", orderID, kind), payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.IDs) != len(records) {
		return nil, fmt.Errorf("%w: %d ids for %d submitted %s", ErrBadResponse, len(resp.IDs), len(records), kind)
	}
	return resp.IDs, nil
}

// SubmitWorkRecords replaces the work record collection
func (c *BatchClient) SubmitWorkRecords(ctx context.Context, orderID int64, records []order.WorkRecord) ([]int64, error) {
	wires := make([]workRecordWire, 0, len(records))
	for _, r := range records {
		wires = append(wires, workRecordWire{
			ID:             r.ID.SubmissionID(),
			Description:    r.Description,
			DescriptionAlt: r.DescriptionAlt,
			Completed:      r.Completed,
		})
	}
	payload := struct {
		Records []workRecordWire `json:"records"`
	}{wires}

	var resp struct {
		IDs []int64 `json:"ids"`
	}
	if err := c.client.doJSON(ctx, "PUT", fmt.Sprintf("/orders/%d/work-records", orderID), payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.IDs) != len(records) {
		return nil, fmt.Errorf("%w: %d ids for %d submitted work records", ErrBadResponse, len(resp.IDs), len(records))
	}
	return resp.IDs, nil
}

// SubmitDeliverySets replaces the delivery set collection and returns
// the nested identifier lists for every set
func (c *BatchClient) SubmitDeliverySets(ctx context.Context, orderID int64, sets []order.DeliverySet) ([]ordersync.DeliverySetIDs, error) {
	wires := make([]deliverySetWire, 0, len(sets))
	for _, s := range sets {
		w := deliverySetWire{
			ID:          s.ID.SubmissionID(),
			PackingCode: s.PackingCode,
			Date:        dateToWire(s.Date),
			Packages:    make([]packageWire, 0, len(s.Packages)),
			Logistics:   make([]logisticsWire, 0, len(s.Logistics)),
		}
		for _, p := range s.Packages {
			w.Packages = append(w.Packages, packageWire{
				ID:     p.ID.SubmissionID(),
				Types:  p.Types,
				Pieces: p.Pieces,
				Sets:   p.Sets,
			})
		}
		for _, l := range s.Logistics {
			w.Logistics = append(w.Logistics, logisticsWire{
				ID:             l.ID.SubmissionID(),
				TrackingNumber: l.TrackingNumber,
				CarrierID:      l.CarrierID,
			})
		}
		wires = append(wires, w)
	}
	payload := struct {
		Sets []deliverySetWire `json:"sets"`
	}{wires}

	var resp struct {
		Sets []struct {
			ID           int64   `json:"id"`
			PackageIDs   []int64 `json:"package_ids"`
			LogisticsIDs []int64 `json:"logistics_ids"`
		} `json:"sets"`
	}
	if err := c.client.doJSON(ctx, "PUT", fmt.Sprintf("/orders/%d/delivery-sets", orderID), payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Sets) != len(sets) {
		return nil, fmt.Errorf("%w: %d ids for %d submitted delivery sets", ErrBadResponse, len(resp.Sets), len(sets))
	}

	ids := make([]ordersync.DeliverySetIDs, 0, len(resp.Sets))
	for i, s := range resp.Sets {
		if s.ID <= 0 {
			return nil, fmt.Errorf("%w: missing delivery set id", ErrBadResponse)
		}
		if len(s.PackageIDs) != len(sets[i].Packages) || len(s.LogisticsIDs) != len(sets[i].Logistics) {
			return nil, fmt.Errorf("%w: child id counts for delivery set %d", ErrBadResponse, s.ID)
		}
		ids = append(ids, ordersync.DeliverySetIDs{
			SetID:        s.ID,
			PackageIDs:   s.PackageIDs,
			LogisticsIDs: s.LogisticsIDs,
		})
	}
	return ids, nil
}

func costItemsToWire(items []order.CostLineItem) []costItemWire {
	wires := make([]costItemWire, 0, len(items))
	for _, i := range items {
		wires = append(wires, costItemWire{
			ID:        i.ID.SubmissionID(),
			Name:      i.Name,
			UnitPrice: i.UnitPrice,
			Quantity:  i.Quantity,
			AdminOnly: i.AdminOnly,
		})
	}
	return wires
}

func costItemsToDomain(wires []costItemWire) ([]order.CostLineItem, error) {
	items := make([]order.CostLineItem, 0, len(wires))
	for _, w := range wires {
		id, err := persistedID(w.ID)
		if err != nil {
			return nil, err
		}
		item := order.CostLineItem{
			ID:        id,
			Name:      w.Name,
			UnitPrice: w.UnitPrice,
			Quantity:  w.Quantity,
			AdminOnly: w.AdminOnly,
		}
		item.Recalculate()
		items = append(items, item)
	}
	return items, nil
}

// persistedID converts a wire identifier from a read response. Read
// responses always carry persistent identifiers; a missing or
// non-positive one breaks the contract.
func persistedID(id *int64) (order.ItemID, error) {
	if id == nil || *id <= 0 {
		return order.ItemID{}, fmt.Errorf("%w: missing record id", ErrBadResponse)
	}
	return order.PersistentID(*id), nil
}
