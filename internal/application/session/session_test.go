package session

import (
	"context"
	"testing"
	"time"

	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func newTestSession() *Session {
	return &Session{
		ID:       "test-session",
		agg:      order.NewAggregate(),
		previews: order.NewPreviewRegistry(),
		now:      func() time.Time { return testToday },
	}
}

func completeWork(id int64) order.WorkRecord {
	rec := order.NewWorkRecord()
	rec.ID = order.PersistentID(id)
	rec.Completed = true
	return *rec
}

func TestSession_WorkEndDateAutoSetWhenAllComplete(t *testing.T) {
	s := newTestSession()

	s.ReplaceWorkRecords([]order.WorkRecord{completeWork(1), completeWork(2), completeWork(3)})

	require.NotNil(t, s.agg.Terms.WorkEndDate)
	assert.Equal(t, testToday, *s.agg.Terms.WorkEndDate)
}

func TestSession_WorkEndDateClearedWhenAnyIncomplete(t *testing.T) {
	s := newTestSession()
	s.ReplaceWorkRecords([]order.WorkRecord{completeWork(1), completeWork(2), completeWork(3)})
	require.NotNil(t, s.agg.Terms.WorkEndDate)

	reopened := completeWork(2)
	reopened.Completed = false
	s.ReplaceWorkRecords([]order.WorkRecord{completeWork(1), reopened, completeWork(3)})

	assert.Nil(t, s.agg.Terms.WorkEndDate)
}

func TestSession_WorkEndDateUserValuePreserved(t *testing.T) {
	s := newTestSession()
	userDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.agg.Terms.WorkEndDate = &userDate

	s.ReplaceWorkRecords([]order.WorkRecord{completeWork(1)})

	require.NotNil(t, s.agg.Terms.WorkEndDate)
	assert.Equal(t, userDate, *s.agg.Terms.WorkEndDate)
}

func TestSession_WorkEndDateUntouchedByEmptyCollection(t *testing.T) {
	s := newTestSession()
	userDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.agg.Terms.WorkEndDate = &userDate

	s.ReplaceWorkRecords(nil)

	require.NotNil(t, s.agg.Terms.WorkEndDate)
}

func TestSession_AttachReportsAcceptedCount(t *testing.T) {
	s := newTestSession()
	rec := order.NewShipmentRecord()
	rec.ID = order.PersistentID(11)
	s.agg.FactoryShipments = []order.ShipmentRecord{*rec}

	uploads := make([]AssetUpload, 7)
	for i := range uploads {
		uploads[i] = AssetUpload{Name: "p.jpg", ContentType: "image/jpeg", Data: []byte{byte(i)}}
	}

	accepted, err := s.AttachAssets(order.OwnerFactoryShipment, order.PersistentID(11), uploads)
	require.NoError(t, err)

	assert.Equal(t, 5, accepted)
	assert.Len(t, s.agg.FactoryShipments[0].Pending, 5)
	// Truncated previews are released right away.
	assert.Equal(t, 5, s.previews.Live())
}

func TestSession_AttachUnknownRecord(t *testing.T) {
	s := newTestSession()

	_, err := s.AttachAssets(order.OwnerWorkRecord, order.PersistentID(99), []AssetUpload{
		{Name: "p.jpg", ContentType: "image/jpeg", Data: []byte{1}},
	})

	assert.ErrorIs(t, err, shared.ErrRecordNotFound)
	assert.Equal(t, 0, s.previews.Live())
}

func TestSession_ReplaceShipmentsCarriesPending(t *testing.T) {
	s := newTestSession()
	kept := order.NewShipmentRecord()
	kept.ID = order.PersistentID(11)
	removed := order.NewShipmentRecord()
	removed.ID = order.PersistentID(12)
	s.agg.FactoryShipments = []order.ShipmentRecord{*kept, *removed}

	_, err := s.AttachAssets(order.OwnerFactoryShipment, order.PersistentID(11), []AssetUpload{{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte{1}}})
	require.NoError(t, err)
	_, err = s.AttachAssets(order.OwnerFactoryShipment, order.PersistentID(12), []AssetUpload{{Name: "b.jpg", ContentType: "image/jpeg", Data: []byte{2}}})
	require.NoError(t, err)
	require.Equal(t, 2, s.previews.Live())

	edited := *kept
	edited.Quantity = 3
	err = s.ReplaceShipments(order.CollectionFactoryShipments, []order.ShipmentRecord{edited})
	require.NoError(t, err)

	require.Len(t, s.agg.FactoryShipments, 1)
	assert.True(t, s.agg.FactoryShipments[0].HasPending())
	assert.Equal(t, int64(3), s.agg.FactoryShipments[0].Quantity)
	// The removed record's preview is released with it.
	assert.Equal(t, 1, s.previews.Live())
}

func TestSession_ReplaceShipmentsRejectsOtherKinds(t *testing.T) {
	s := newTestSession()
	err := s.ReplaceShipments(order.CollectionWorkRecords, nil)
	assert.Error(t, err)
}

func TestSession_DirtyTracksNewOrderRule(t *testing.T) {
	s := newTestSession()
	assert.False(t, s.Dirty())

	require.NoError(t, s.ApplyOrderEdit(s.agg.Product, func() order.Terms {
		terms := s.agg.Terms
		terms.Quantity = 12
		return terms
	}()))
	assert.True(t, s.Dirty())
}

func TestSession_ApplyOrderEditValidation(t *testing.T) {
	s := newTestSession()

	bad := s.agg.Terms
	bad.Status = order.Status("SHIPPED")
	assert.Error(t, s.ApplyOrderEdit(s.agg.Product, bad))

	negative := s.agg.Terms
	negative.Quantity = -1
	assert.Error(t, s.ApplyOrderEdit(s.agg.Product, negative))
}

func TestSession_ReplaceCostItemsRecalculates(t *testing.T) {
	s := newTestSession()
	item := order.CostLineItem{
		ID:        order.NewTemporaryID(),
		Name:      "Handles",
		UnitPrice: decimal.NewFromInt(4),
		Quantity:  10,
		Cost:      decimal.NewFromInt(999),
	}

	s.ReplaceCostItems([]order.CostLineItem{item}, nil)

	assert.True(t, decimal.NewFromInt(40).Equal(s.agg.OptionItems[0].Cost))
}

func TestSession_SaveRejectedWhileInFlight(t *testing.T) {
	s := newTestSession()
	s.saving.Store(true)

	_, err := s.Save(context.Background(), false)
	assert.ErrorIs(t, err, shared.ErrSaveInProgress)
}

func TestSession_CloseReleasesPreviews(t *testing.T) {
	s := newTestSession()
	rec := order.NewShipmentRecord()
	rec.ID = order.PersistentID(11)
	s.agg.FactoryShipments = []order.ShipmentRecord{*rec}

	_, err := s.AttachAssets(order.OwnerFactoryShipment, order.PersistentID(11), []AssetUpload{{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte{1}}})
	require.NoError(t, err)
	require.Equal(t, 1, s.previews.Live())

	s.Close()
	assert.Equal(t, 0, s.previews.Live())
}
