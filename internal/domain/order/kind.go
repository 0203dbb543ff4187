package order

// CollectionKind names one independently-persisted sub-collection of the
// aggregate. Save batches and reloads are keyed by it.
type CollectionKind string

const (
	CollectionCostItems        CollectionKind = "cost-items"
	CollectionFactoryShipments CollectionKind = "factory-shipments"
	CollectionReturnExchanges  CollectionKind = "return-exchanges"
	CollectionWorkRecords      CollectionKind = "work-records"
	CollectionDeliverySets     CollectionKind = "delivery-sets"
)

// IsValid checks if the kind names a known sub-collection
func (k CollectionKind) IsValid() bool {
	switch k {
	case CollectionCostItems, CollectionFactoryShipments, CollectionReturnExchanges,
		CollectionWorkRecords, CollectionDeliverySets:
		return true
	}
	return false
}

// String returns the string representation of CollectionKind
func (k CollectionKind) String() string {
	return string(k)
}

// AssetOwnerKind names the kind of sub-record an asset batch is uploaded
// against or listed for.
type AssetOwnerKind string

const (
	OwnerFactoryShipment AssetOwnerKind = "factory-shipment"
	OwnerReturnExchange  AssetOwnerKind = "return-exchange"
	OwnerWorkRecord      AssetOwnerKind = "work-record"
	OwnerLogistics       AssetOwnerKind = "logistics"
)

// IsValid checks if the kind names a known asset owner
func (k AssetOwnerKind) IsValid() bool {
	switch k {
	case OwnerFactoryShipment, OwnerReturnExchange, OwnerWorkRecord, OwnerLogistics:
		return true
	}
	return false
}

// String returns the string representation of AssetOwnerKind
func (k AssetOwnerKind) String() string {
	return string(k)
}

// Collection returns the sub-collection a flushed owner kind belongs to,
// for reload targeting. Logistics records reload with their delivery sets.
func (k AssetOwnerKind) Collection() CollectionKind {
	switch k {
	case OwnerFactoryShipment:
		return CollectionFactoryShipments
	case OwnerReturnExchange:
		return CollectionReturnExchanges
	case OwnerWorkRecord:
		return CollectionWorkRecords
	case OwnerLogistics:
		return CollectionDeliverySets
	}
	return ""
}
