// Package ingest feeds the linking engine with source collections:
// from a directory of JSON files, from filesystem change events, or
// from NATS collection-update messages.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/asmortongpt/fleetgraph/engine/linking"
)

// Collection file names inside the data directory.
const (
	FileVehicles             = "vehicles.json"
	FileDrivers              = "drivers.json"
	FileWorkOrders           = "work_orders.json"
	FileFuelTransactions     = "fuel_transactions.json"
	FileParts                = "parts.json"
	FileVendors              = "vendors.json"
	FileMaintenanceSchedules = "maintenance_schedules.json"
)

// CollectionFiles lists every file the loader reads.
var CollectionFiles = []string{
	FileVehicles, FileDrivers, FileWorkOrders, FileFuelTransactions,
	FileParts, FileVendors, FileMaintenanceSchedules,
}

// Loader reads the seven source collections from a data directory.
// A missing file is an empty collection; malformed JSON is an error.
type Loader struct {
	dir string
	log *slog.Logger
}

// NewLoader creates a Loader for the given directory.
func NewLoader(dir string, log *slog.Logger) *Loader {
	return &Loader{dir: dir, log: log}
}

// Load reads all collection files. Records with an empty id are
// dropped with a warning; they can never resolve and would only
// produce unreachable references.
func (l *Loader) Load() (linking.Collections, error) {
	var c linking.Collections
	var err error

	if c.Vehicles, err = readCollection[linking.Vehicle](l, FileVehicles, func(v linking.Vehicle) string { return v.ID }); err != nil {
		return linking.Collections{}, err
	}
	if c.Drivers, err = readCollection[linking.Driver](l, FileDrivers, func(d linking.Driver) string { return d.ID }); err != nil {
		return linking.Collections{}, err
	}
	if c.WorkOrders, err = readCollection[linking.WorkOrder](l, FileWorkOrders, func(w linking.WorkOrder) string { return w.ID }); err != nil {
		return linking.Collections{}, err
	}
	if c.FuelTransactions, err = readCollection[linking.FuelTransaction](l, FileFuelTransactions, func(f linking.FuelTransaction) string { return f.ID }); err != nil {
		return linking.Collections{}, err
	}
	if c.Parts, err = readCollection[linking.Part](l, FileParts, func(p linking.Part) string { return p.ID }); err != nil {
		return linking.Collections{}, err
	}
	if c.Vendors, err = readCollection[linking.Vendor](l, FileVendors, func(v linking.Vendor) string { return v.ID }); err != nil {
		return linking.Collections{}, err
	}
	if c.MaintenanceSchedules, err = readCollection[linking.MaintenanceSchedule](l, FileMaintenanceSchedules, func(m linking.MaintenanceSchedule) string { return m.ID }); err != nil {
		return linking.Collections{}, err
	}

	return c, nil
}

// readCollection reads one JSON array file, dropping records whose id
// is empty.
func readCollection[T any](l *Loader, name string, id func(T) string) ([]T, error) {
	path := filepath.Join(l.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	kept := records[:0]
	dropped := 0
	for _, r := range records {
		if id(r) == "" {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	if dropped > 0 {
		l.log.Warn("dropped records without ids", "file", name, "count", dropped)
	}
	return kept, nil
}
