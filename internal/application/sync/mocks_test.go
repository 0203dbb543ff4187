package sync

import (
	"context"

	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/stretchr/testify/mock"
)

// mockRootClient mocks RootClient
type mockRootClient struct {
	mock.Mock
}

func (m *mockRootClient) Fetch(ctx context.Context, orderID int64) (order.Product, order.Terms, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(order.Product), args.Get(1).(order.Terms), args.Error(2)
}

func (m *mockRootClient) Create(ctx context.Context, product order.Product, terms order.Terms) (int64, error) {
	args := m.Called(ctx, product, terms)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRootClient) Update(ctx context.Context, orderID int64, product order.Product, terms order.Terms) error {
	args := m.Called(ctx, orderID, product, terms)
	return args.Error(0)
}

// mockCollectionClient mocks CollectionClient
type mockCollectionClient struct {
	mock.Mock
}

func (m *mockCollectionClient) FetchCostItems(ctx context.Context, orderID int64) ([]order.CostLineItem, []order.CostLineItem, error) {
	args := m.Called(ctx, orderID)
	return costItemsArg(args, 0), costItemsArg(args, 1), args.Error(2)
}

func (m *mockCollectionClient) FetchShipments(ctx context.Context, orderID int64, kind order.CollectionKind) ([]order.ShipmentRecord, error) {
	args := m.Called(ctx, orderID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ShipmentRecord), args.Error(1)
}

func (m *mockCollectionClient) FetchWorkRecords(ctx context.Context, orderID int64) ([]order.WorkRecord, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.WorkRecord), args.Error(1)
}

func (m *mockCollectionClient) FetchDeliverySets(ctx context.Context, orderID int64) ([]order.DeliverySet, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.DeliverySet), args.Error(1)
}

func (m *mockCollectionClient) SubmitCostItems(ctx context.Context, orderID int64, options, labor []order.CostLineItem) ([]int64, []int64, error) {
	args := m.Called(ctx, orderID, options, labor)
	return int64sArg(args, 0), int64sArg(args, 1), args.Error(2)
}

func (m *mockCollectionClient) SubmitShipments(ctx context.Context, orderID int64, kind order.CollectionKind, records []order.ShipmentRecord) ([]int64, error) {
	args := m.Called(ctx, orderID, kind, records)
	return int64sArg(args, 0), args.Error(1)
}

func (m *mockCollectionClient) SubmitWorkRecords(ctx context.Context, orderID int64, records []order.WorkRecord) ([]int64, error) {
	args := m.Called(ctx, orderID, records)
	return int64sArg(args, 0), args.Error(1)
}

func (m *mockCollectionClient) SubmitDeliverySets(ctx context.Context, orderID int64, sets []order.DeliverySet) ([]DeliverySetIDs, error) {
	args := m.Called(ctx, orderID, sets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DeliverySetIDs), args.Error(1)
}

// mockAssetClient mocks AssetClient
type mockAssetClient struct {
	mock.Mock
}

func (m *mockAssetClient) Upload(ctx context.Context, orderID int64, kind order.AssetOwnerKind, ownerID int64, assets []order.PendingAsset) error {
	args := m.Called(ctx, orderID, kind, ownerID, assets)
	return args.Error(0)
}

func (m *mockAssetClient) List(ctx context.Context, orderID int64, kind order.AssetOwnerKind, ownerID int64) ([]order.AssetRef, error) {
	args := m.Called(ctx, orderID, kind, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.AssetRef), args.Error(1)
}

func int64sArg(args mock.Arguments, index int) []int64 {
	if args.Get(index) == nil {
		return nil
	}
	return args.Get(index).([]int64)
}

func costItemsArg(args mock.Arguments, index int) []order.CostLineItem {
	if args.Get(index) == nil {
		return nil
	}
	return args.Get(index).([]order.CostLineItem)
}
