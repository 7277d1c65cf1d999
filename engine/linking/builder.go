package linking

import "github.com/asmortongpt/fleetgraph/pkg/fn"

// UnlinkedCollections names builder inputs that currently produce no
// edges. Vendors arrive with the other collections but no join rule
// consumes them until purchase data carries a resolvable vendor id.
var UnlinkedCollections = []EntityType{EntityVendor}

// BuildRelationships derives the full edge list from the source
// collections. The output order is deterministic: rule order below,
// then source iteration order within each rule, so downstream "first
// N" truncations are reproducible.
//
// A reference that does not resolve in its lookup collection produces
// no edge. Dangling ids are routine upstream (stale records), so the
// skip is silent.
func BuildRelationships(c Collections) []EntityRelationship {
	driversByID := fn.IndexBy(c.Drivers, func(d Driver) string { return d.ID })
	driversByName := fn.IndexBy(c.Drivers, func(d Driver) string { return d.Name })
	vehiclesByID := fn.IndexBy(c.Vehicles, func(v Vehicle) string { return v.ID })
	partsByID := fn.IndexBy(c.Parts, func(p Part) string { return p.ID })

	var edges []EntityRelationship

	// vehicle -> driver: AssignedDriver matches a driver id or name.
	edges = append(edges, fn.FilterMap(c.Vehicles, func(v Vehicle) (EntityRelationship, bool) {
		if v.AssignedDriver == "" {
			return EntityRelationship{}, false
		}
		d, ok := driversByID[v.AssignedDriver]
		if !ok {
			d, ok = driversByName[v.AssignedDriver]
		}
		if !ok {
			return EntityRelationship{}, false
		}
		return EntityRelationship{Source: vehicleRef(v), Target: driverRef(d), Kind: KindAssignedTo}, true
	})...)

	// parent vehicle -> child vehicle.
	edges = append(edges, fn.FilterMap(c.Vehicles, func(v Vehicle) (EntityRelationship, bool) {
		if v.ParentAssetID == "" {
			return EntityRelationship{}, false
		}
		parent, ok := vehiclesByID[v.ParentAssetID]
		if !ok {
			return EntityRelationship{}, false
		}
		return EntityRelationship{Source: vehicleRef(parent), Target: vehicleRef(v), Kind: KindTows}, true
	})...)

	// work order -> vehicle.
	edges = append(edges, fn.FilterMap(c.WorkOrders, func(w WorkOrder) (EntityRelationship, bool) {
		v, ok := vehiclesByID[w.VehicleID]
		if !ok {
			return EntityRelationship{}, false
		}
		return EntityRelationship{Source: workOrderRef(w), Target: vehicleRef(v), Kind: KindServicedBy}, true
	})...)

	// work order -> parts, with quantity and cost metadata per line.
	for _, w := range c.WorkOrders {
		for _, line := range w.Parts {
			p, ok := partsByID[line.PartID]
			if !ok {
				continue
			}
			edges = append(edges, EntityRelationship{
				Source: workOrderRef(w),
				Target: partRef(p),
				Kind:   KindContains,
				Metadata: map[string]any{
					"quantity": line.Quantity,
					"cost":     line.UnitCost,
				},
			})
		}
	}

	// fuel transaction -> vehicle.
	edges = append(edges, fn.FilterMap(c.FuelTransactions, func(f FuelTransaction) (EntityRelationship, bool) {
		v, ok := vehiclesByID[f.VehicleID]
		if !ok {
			return EntityRelationship{}, false
		}
		return EntityRelationship{Source: fuelRef(f), Target: vehicleRef(v), Kind: KindFueledBy}, true
	})...)

	// maintenance schedule -> vehicle.
	edges = append(edges, fn.FilterMap(c.MaintenanceSchedules, func(m MaintenanceSchedule) (EntityRelationship, bool) {
		v, ok := vehiclesByID[m.VehicleID]
		if !ok {
			return EntityRelationship{}, false
		}
		return EntityRelationship{Source: maintenanceRef(m), Target: vehicleRef(v), Kind: KindMaintainedBy}, true
	})...)

	return edges
}
