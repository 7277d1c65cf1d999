package ingest

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadAllCollections(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileVehicles, `[{"id":"v1","name":"Truck 1","assignedDriver":"d1"}]`)
	writeFile(t, dir, FileDrivers, `[{"id":"d1","name":"Alice","safetyScore":90}]`)
	writeFile(t, dir, FileWorkOrders, `[{"id":"w1","vehicleId":"v1","cost":100}]`)
	writeFile(t, dir, FileFuelTransactions, `[{"id":"f1","vehicleId":"v1","gallons":10,"pricePerGallon":3.5}]`)
	writeFile(t, dir, FileParts, `[{"id":"p1","name":"Brake Pad"}]`)
	writeFile(t, dir, FileVendors, `[{"id":"ven1","name":"ACME"}]`)
	writeFile(t, dir, FileMaintenanceSchedules, `[{"id":"m1","vehicleId":"v1","task":"Rotation"}]`)

	c, err := NewLoader(dir, discardLogger()).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Vehicles) != 1 || c.Vehicles[0].AssignedDriver != "d1" {
		t.Fatalf("vehicles = %+v", c.Vehicles)
	}
	if len(c.Drivers) != 1 || c.Drivers[0].SafetyScore != 90 {
		t.Fatalf("drivers = %+v", c.Drivers)
	}
	if len(c.WorkOrders) != 1 || len(c.FuelTransactions) != 1 ||
		len(c.Parts) != 1 || len(c.Vendors) != 1 || len(c.MaintenanceSchedules) != 1 {
		t.Fatalf("collections = %+v", c)
	}
}

func TestLoadMissingFilesAreEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileVehicles, `[{"id":"v1"}]`)

	c, err := NewLoader(dir, discardLogger()).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Vehicles) != 1 {
		t.Fatalf("vehicles = %+v", c.Vehicles)
	}
	if len(c.Drivers) != 0 || len(c.WorkOrders) != 0 {
		t.Fatal("missing files must load as empty collections")
	}
}

func TestLoadMalformedJSONFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileDrivers, `{not json`)

	if _, err := NewLoader(dir, discardLogger()).Load(); err == nil {
		t.Fatal("malformed JSON must be an error")
	}
}

func TestLoadDropsRecordsWithoutIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileVehicles, `[{"id":"v1"},{"name":"no id"},{"id":"v2"}]`)

	c, err := NewLoader(dir, discardLogger()).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Vehicles) != 2 || c.Vehicles[0].ID != "v1" || c.Vehicles[1].ID != "v2" {
		t.Fatalf("vehicles = %+v", c.Vehicles)
	}
}
