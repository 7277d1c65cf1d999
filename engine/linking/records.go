package linking

// Source record shapes as delivered by the fleet REST collections. Only
// the identifier and reference fields drive edge derivation; the rest
// ride along for labels and context totals.

// Vehicle is a fleet vehicle record.
type Vehicle struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Make           string   `json:"make,omitempty"`
	Model          string   `json:"model,omitempty"`
	Year           int      `json:"year,omitempty"`
	Status         string   `json:"status,omitempty"`
	AssignedDriver string   `json:"assignedDriver,omitempty"`
	ParentAssetID  string   `json:"parent_asset_id,omitempty"`
	Alerts         []string `json:"alerts,omitempty"`
}

// Driver is a fleet driver record.
type Driver struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	LicenseNo   string  `json:"licenseNumber,omitempty"`
	Status      string  `json:"status,omitempty"`
	SafetyScore float64 `json:"safetyScore,omitempty"`
}

// WorkOrderPart is a part line inside a work order.
type WorkOrderPart struct {
	PartID   string  `json:"partId"`
	Quantity float64 `json:"quantity"`
	UnitCost float64 `json:"cost"`
}

// WorkOrder is a maintenance work order record.
type WorkOrder struct {
	ID          string          `json:"id"`
	VehicleID   string          `json:"vehicleId"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status,omitempty"`
	Cost        float64         `json:"cost,omitempty"`
	LaborHours  float64         `json:"laborHours,omitempty"`
	Parts       []WorkOrderPart `json:"parts,omitempty"`
}

// FuelTransaction is a single fueling event.
type FuelTransaction struct {
	ID             string  `json:"id"`
	VehicleID      string  `json:"vehicleId"`
	Date           string  `json:"date,omitempty"`
	Gallons        float64 `json:"gallons,omitempty"`
	PricePerGallon float64 `json:"pricePerGallon,omitempty"`
	Station        string  `json:"station,omitempty"`
}

// Part is an inventory part record.
type Part struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Number   string  `json:"partNumber,omitempty"`
	UnitCost float64 `json:"unitCost,omitempty"`
	Stock    int     `json:"stock,omitempty"`
}

// Vendor is a supplier record. Vendors are accepted as builder input
// but no edge rule consumes them yet; see UnlinkedCollections.
type Vendor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// MaintenanceSchedule is a recurring maintenance plan for a vehicle.
type MaintenanceSchedule struct {
	ID           string `json:"id"`
	VehicleID    string `json:"vehicleId"`
	Task         string `json:"task,omitempty"`
	IntervalDays int    `json:"intervalDays,omitempty"`
	NextDue      string `json:"nextDue,omitempty"`
}

// Collections bundles the seven source collections handed to the
// engine. Slices are treated as read-only by the engine.
type Collections struct {
	Vehicles             []Vehicle
	Drivers              []Driver
	WorkOrders           []WorkOrder
	FuelTransactions     []FuelTransaction
	Parts                []Part
	Vendors              []Vendor
	MaintenanceSchedules []MaintenanceSchedule
}

// Reference constructors. Labels fall back to the record ID when the
// display field is empty so a reference is always renderable.

func vehicleRef(v Vehicle) EntityReference {
	return EntityReference{Type: EntityVehicle, ID: v.ID, Label: orID(v.Name, v.ID)}
}

func driverRef(d Driver) EntityReference {
	return EntityReference{Type: EntityDriver, ID: d.ID, Label: orID(d.Name, d.ID)}
}

func workOrderRef(w WorkOrder) EntityReference {
	return EntityReference{Type: EntityWorkOrder, ID: w.ID, Label: orID(w.Description, w.ID)}
}

func fuelRef(f FuelTransaction) EntityReference {
	return EntityReference{Type: EntityFuel, ID: f.ID, Label: orID(f.Date, f.ID)}
}

func partRef(p Part) EntityReference {
	return EntityReference{Type: EntityPart, ID: p.ID, Label: orID(p.Name, p.ID)}
}

func maintenanceRef(m MaintenanceSchedule) EntityReference {
	return EntityReference{Type: EntityMaintenance, ID: m.ID, Label: orID(m.Task, m.ID)}
}

func orID(label, id string) string {
	if label != "" {
		return label
	}
	return id
}
