package linking

import (
	"fmt"

	"github.com/asmortongpt/fleetgraph/pkg/fn"
)

// Context views are on-demand aggregate snapshots scoped to a single
// entity. An unknown id yields the zero-value view, never an error:
// the UI renders an empty panel instead of handling failures.
//
// The "recent" lists are the first N entries in build order. The
// builder emits edges in source iteration order, not by date, so
// "recent" means "first seen", not literal recency.

// VehicleContext aggregates everything connected to one vehicle.
type VehicleContext struct {
	Vehicle          EntityReference   `json:"vehicle"`
	PrimaryDriver    *EntityReference  `json:"primaryDriver,omitempty"`
	RecentWorkOrders []EntityReference `json:"recentWorkOrders"`
	FuelHistory      []EntityReference `json:"fuelHistory"`
	Maintenance      []EntityReference `json:"maintenance"`
	Alerts           []EntityReference `json:"alerts"`
	TotalCost        float64           `json:"totalCost"`
}

// DriverContext aggregates everything connected to one driver.
type DriverContext struct {
	Driver           EntityReference   `json:"driver"`
	PrimaryVehicle   *EntityReference  `json:"primaryVehicle,omitempty"`
	AssignedVehicles []EntityReference `json:"assignedVehicles"`
	RecentWorkOrders []EntityReference `json:"recentWorkOrders"`
	SafetyScore      float64           `json:"safetyScore"`
}

// WorkOrderContext aggregates one work order with its derived cost.
type WorkOrderContext struct {
	WorkOrder  EntityReference   `json:"workOrder"`
	Vehicle    *EntityReference  `json:"vehicle,omitempty"`
	Parts      []EntityReference `json:"parts"`
	ActualCost float64           `json:"actualCost"`
}

// VehicleContext returns the aggregate view for one vehicle id, or the
// zero-value view if the id does not resolve.
func (e *Engine) VehicleContext(id string) VehicleContext {
	snap := e.snap.Load()
	v, ok := findByID(snap.collections.Vehicles, id, func(v Vehicle) string { return v.ID })
	if !ok {
		return VehicleContext{}
	}

	linked := e.GetLinkedEntities(EntityVehicle, id)

	workOrders := fn.Filter(snap.collections.WorkOrders, func(w WorkOrder) bool { return w.VehicleID == id })
	fuel := fn.Filter(snap.collections.FuelTransactions, func(f FuelTransaction) bool { return f.VehicleID == id })

	totalCost := fn.SumBy(workOrders, func(w WorkOrder) float64 { return w.Cost }) +
		fn.SumBy(fuel, func(f FuelTransaction) float64 { return f.Gallons * f.PricePerGallon })

	// Alerts live on the vehicle record itself; the synthesized
	// references are display artifacts, not graph edges.
	alerts := make([]EntityReference, 0, len(v.Alerts))
	for i, msg := range v.Alerts {
		alerts = append(alerts, EntityReference{
			Type:  EntityAlert,
			ID:    fmt.Sprintf("%s-alert-%d", v.ID, i),
			Label: msg,
		})
	}

	return VehicleContext{
		Vehicle:          vehicleRef(v),
		PrimaryDriver:    firstRef(linked.Drivers),
		RecentWorkOrders: fn.Truncate(linked.WorkOrders, e.opts.RecentWorkOrderLimit),
		FuelHistory:      fn.Truncate(linked.FuelTransactions, e.opts.FuelHistoryLimit),
		Maintenance:      linked.MaintenanceRecords,
		Alerts:           alerts,
		TotalCost:        totalCost,
	}
}

// DriverContext returns the aggregate view for one driver id, or the
// zero-value view if the id does not resolve. SafetyScore passes
// through verbatim from the driver record.
func (e *Engine) DriverContext(id string) DriverContext {
	snap := e.snap.Load()
	d, ok := findByID(snap.collections.Drivers, id, func(d Driver) string { return d.ID })
	if !ok {
		return DriverContext{}
	}

	linked := e.GetLinkedEntities(EntityDriver, id)

	// Work orders reach a driver through the assigned vehicles.
	vehicleIDs := make(map[string]bool)
	for _, ref := range linked.Vehicles {
		vehicleIDs[ref.ID] = true
	}
	orders := fn.FilterMap(snap.collections.WorkOrders, func(w WorkOrder) (EntityReference, bool) {
		if !vehicleIDs[w.VehicleID] {
			return EntityReference{}, false
		}
		return workOrderRef(w), true
	})

	return DriverContext{
		Driver:           driverRef(d),
		PrimaryVehicle:   firstRef(linked.Vehicles),
		AssignedVehicles: linked.Vehicles,
		RecentWorkOrders: fn.Truncate(orders, e.opts.RecentWorkOrderLimit),
		SafetyScore:      d.SafetyScore,
	}
}

// WorkOrderContext returns the aggregate view for one work order id,
// or the zero-value view if the id does not resolve. ActualCost is
// part lines (quantity x unit cost) plus labor hours at the configured
// hourly rate.
func (e *Engine) WorkOrderContext(id string) WorkOrderContext {
	snap := e.snap.Load()
	w, ok := findByID(snap.collections.WorkOrders, id, func(w WorkOrder) string { return w.ID })
	if !ok {
		return WorkOrderContext{}
	}

	linked := e.GetLinkedEntities(EntityWorkOrder, id)

	partsCost := fn.SumBy(w.Parts, func(line WorkOrderPart) float64 { return line.Quantity * line.UnitCost })

	return WorkOrderContext{
		WorkOrder:  workOrderRef(w),
		Vehicle:    firstRef(linked.Vehicles),
		Parts:      linked.Parts,
		ActualCost: partsCost + w.LaborHours*e.opts.LaborRate,
	}
}

func findByID[T any](items []T, id string, key func(T) string) (T, bool) {
	for _, v := range items {
		if key(v) == id {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// firstRef returns a pointer to a copy of the first reference, or nil.
func firstRef(refs []EntityReference) *EntityReference {
	if len(refs) == 0 {
		return nil
	}
	ref := refs[0]
	return &ref
}
