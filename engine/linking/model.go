// Package linking builds and serves the typed relationship graph that
// connects the independent fleet collections (vehicles, drivers, work
// orders, fuel, parts, vendors, maintenance schedules). The graph is
// derived in full from the source collections and is never persisted;
// every query runs against an immutable in-memory snapshot.
package linking

// EntityType identifies the kind of fleet record an EntityReference
// points at. The set is closed; strings outside it never produce edges.
type EntityType string

const (
	EntityVehicle       EntityType = "vehicle"
	EntityDriver        EntityType = "driver"
	EntityWorkOrder     EntityType = "work-order"
	EntityMaintenance   EntityType = "maintenance"
	EntityFuel          EntityType = "fuel"
	EntityPart          EntityType = "part"
	EntityVendor        EntityType = "vendor"
	EntityInvoice       EntityType = "invoice"
	EntityPurchaseOrder EntityType = "purchase-order"
	EntityFacility      EntityType = "facility"
	EntityTrip          EntityType = "trip"
	EntityRoute         EntityType = "route"
	EntityAsset         EntityType = "asset"
	EntityEquipment     EntityType = "equipment"
	EntityTrailer       EntityType = "trailer"
	EntityAlert         EntityType = "alert"
	EntityDocument      EntityType = "document"
	EntityCommunication EntityType = "communication"
)

// KnownEntityTypes is the set of recognised entity types.
var KnownEntityTypes = map[EntityType]bool{
	EntityVehicle: true, EntityDriver: true, EntityWorkOrder: true,
	EntityMaintenance: true, EntityFuel: true, EntityPart: true,
	EntityVendor: true, EntityInvoice: true, EntityPurchaseOrder: true,
	EntityFacility: true, EntityTrip: true, EntityRoute: true,
	EntityAsset: true, EntityEquipment: true, EntityTrailer: true,
	EntityAlert: true, EntityDocument: true, EntityCommunication: true,
}

// RelationshipKind classifies a directed edge between two entities.
type RelationshipKind string

const (
	KindAssignedTo    RelationshipKind = "assigned-to"
	KindBelongsTo     RelationshipKind = "belongs-to"
	KindContains      RelationshipKind = "contains"
	KindTows          RelationshipKind = "tows"
	KindServicedBy    RelationshipKind = "serviced-by"
	KindPurchasedFrom RelationshipKind = "purchased-from"
	KindInvoicedTo    RelationshipKind = "invoiced-to"
	KindDocumentedBy  RelationshipKind = "documented-by"
	KindRelatedTo     RelationshipKind = "related-to"
	KindParentOf      RelationshipKind = "parent-of"
	KindChildOf       RelationshipKind = "child-of"
	KindFueledBy      RelationshipKind = "fueled-by"
	KindMaintainedBy  RelationshipKind = "maintained-by"
)

// EntityReference is a lightweight pointer to a fleet record. Identity
// is (Type, ID); Label and Data are display conveniences. References
// are replaced wholesale on rebuild, never mutated in place.
type EntityReference struct {
	Type  EntityType `json:"type"`
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Data  any        `json:"data,omitempty"`
}

// EntityRelationship is a directed, typed edge between two entity
// references. Queries traverse edges in both directions.
type EntityRelationship struct {
	Source   EntityReference  `json:"source"`
	Target   EntityReference  `json:"target"`
	Kind     RelationshipKind `json:"relationshipType"`
	Metadata map[string]any   `json:"metadata,omitempty"`
}

// LinkedEntities buckets the far endpoints of every edge touching one
// entity, grouped by the far endpoint's type. Asset, equipment and
// trailer endpoints all land in the Assets bucket. A fresh value is
// produced per query and never cached.
type LinkedEntities struct {
	Drivers            []EntityReference `json:"drivers"`
	Vehicles           []EntityReference `json:"vehicles"`
	WorkOrders         []EntityReference `json:"workOrders"`
	MaintenanceRecords []EntityReference `json:"maintenanceRecords"`
	FuelTransactions   []EntityReference `json:"fuelTransactions"`
	Parts              []EntityReference `json:"parts"`
	Vendors            []EntityReference `json:"vendors"`
	Invoices           []EntityReference `json:"invoices"`
	PurchaseOrders     []EntityReference `json:"purchaseOrders"`
	Facilities         []EntityReference `json:"facilities"`
	Trips              []EntityReference `json:"trips"`
	Routes             []EntityReference `json:"routes"`
	Assets             []EntityReference `json:"assets"`
	Alerts             []EntityReference `json:"alerts"`
	Documents          []EntityReference `json:"documents"`
}

// add buckets ref by its type. Communication endpoints have no bucket
// and are dropped.
func (l *LinkedEntities) add(ref EntityReference) {
	switch ref.Type {
	case EntityDriver:
		l.Drivers = append(l.Drivers, ref)
	case EntityVehicle:
		l.Vehicles = append(l.Vehicles, ref)
	case EntityWorkOrder:
		l.WorkOrders = append(l.WorkOrders, ref)
	case EntityMaintenance:
		l.MaintenanceRecords = append(l.MaintenanceRecords, ref)
	case EntityFuel:
		l.FuelTransactions = append(l.FuelTransactions, ref)
	case EntityPart:
		l.Parts = append(l.Parts, ref)
	case EntityVendor:
		l.Vendors = append(l.Vendors, ref)
	case EntityInvoice:
		l.Invoices = append(l.Invoices, ref)
	case EntityPurchaseOrder:
		l.PurchaseOrders = append(l.PurchaseOrders, ref)
	case EntityFacility:
		l.Facilities = append(l.Facilities, ref)
	case EntityTrip:
		l.Trips = append(l.Trips, ref)
	case EntityRoute:
		l.Routes = append(l.Routes, ref)
	case EntityAsset, EntityEquipment, EntityTrailer:
		l.Assets = append(l.Assets, ref)
	case EntityAlert:
		l.Alerts = append(l.Alerts, ref)
	case EntityDocument:
		l.Documents = append(l.Documents, ref)
	}
}

// Bucket returns the list holding references of type t, applying the
// same asset/equipment/trailer collapse as add. Unknown or unbucketed
// types return nil.
func (l LinkedEntities) Bucket(t EntityType) []EntityReference {
	switch t {
	case EntityDriver:
		return l.Drivers
	case EntityVehicle:
		return l.Vehicles
	case EntityWorkOrder:
		return l.WorkOrders
	case EntityMaintenance:
		return l.MaintenanceRecords
	case EntityFuel:
		return l.FuelTransactions
	case EntityPart:
		return l.Parts
	case EntityVendor:
		return l.Vendors
	case EntityInvoice:
		return l.Invoices
	case EntityPurchaseOrder:
		return l.PurchaseOrders
	case EntityFacility:
		return l.Facilities
	case EntityTrip:
		return l.Trips
	case EntityRoute:
		return l.Routes
	case EntityAsset, EntityEquipment, EntityTrailer:
		return l.Assets
	case EntityAlert:
		return l.Alerts
	case EntityDocument:
		return l.Documents
	}
	return nil
}
