// Package main implements datagen, a fake fleet dataset generator for
// local development. It writes the seven collection JSON files the API
// server loads, with mostly-intact referential integrity and a
// configurable fraction of dangling references.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/asmortongpt/fleetgraph/engine/ingest"
	"github.com/asmortongpt/fleetgraph/engine/linking"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var (
		out      = pflag.String("out", "./data", "output directory for the collection files")
		vehicles = pflag.Int("vehicles", 25, "number of vehicles")
		drivers  = pflag.Int("drivers", 15, "number of drivers")
		orders   = pflag.Int("orders", 60, "number of work orders")
		dangling = pflag.Float64("dangling", 0.1, "fraction of references pointing at no record")
		seed     = pflag.Int64("seed", 0, "random seed (0 picks one)")
	)
	pflag.Parse()

	if err := run(*out, *vehicles, *drivers, *orders, *dangling, *seed, logger); err != nil {
		logger.Error("datagen failed", "err", err)
		os.Exit(1)
	}
}

func run(out string, vehicles, drivers, orders int, dangling float64, seed int64, logger *slog.Logger) error {
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	faker := gofakeit.New(seed)
	c := generate(faker, vehicles, drivers, orders, dangling)

	files := map[string]any{
		ingest.FileVehicles:             c.Vehicles,
		ingest.FileDrivers:              c.Drivers,
		ingest.FileWorkOrders:           c.WorkOrders,
		ingest.FileFuelTransactions:     c.FuelTransactions,
		ingest.FileParts:                c.Parts,
		ingest.FileVendors:              c.Vendors,
		ingest.FileMaintenanceSchedules: c.MaintenanceSchedules,
	}
	for name, records := range files {
		if err := writeJSON(filepath.Join(out, name), records); err != nil {
			return err
		}
	}

	logger.Info("dataset written",
		"dir", out,
		"vehicles", len(c.Vehicles),
		"drivers", len(c.Drivers),
		"workOrders", len(c.WorkOrders),
		"fuelTransactions", len(c.FuelTransactions),
		"parts", len(c.Parts),
		"vendors", len(c.Vendors),
		"maintenanceSchedules", len(c.MaintenanceSchedules),
	)
	return nil
}

// generate builds a coherent dataset. A dangling reference is a fresh
// uuid that matches no record, exercising the engine's skip path.
func generate(faker *gofakeit.Faker, vehicles, drivers, orders int, dangling float64) linking.Collections {
	var c linking.Collections

	for i := 0; i < drivers; i++ {
		c.Drivers = append(c.Drivers, linking.Driver{
			ID:          uuid.NewString(),
			Name:        faker.Name(),
			LicenseNo:   faker.LetterN(2) + faker.DigitN(6),
			Status:      faker.RandomString([]string{"active", "active", "on-leave"}),
			SafetyScore: faker.Float64Range(55, 100),
		})
	}

	driverID := func() string {
		if faker.Float64Range(0, 1) < dangling || len(c.Drivers) == 0 {
			return uuid.NewString()
		}
		return c.Drivers[faker.IntRange(0, len(c.Drivers)-1)].ID
	}

	for i := 0; i < vehicles; i++ {
		v := linking.Vehicle{
			ID:     uuid.NewString(),
			Name:   fmt.Sprintf("Unit %03d", i+1),
			Make:   faker.CarMaker(),
			Model:  faker.CarModel(),
			Year:   faker.IntRange(2008, 2026),
			Status: faker.RandomString([]string{"active", "active", "active", "in-shop"}),
		}
		if faker.Float64Range(0, 1) < 0.8 {
			v.AssignedDriver = driverID()
		}
		// A few trailers towed by an earlier unit.
		if i > 0 && faker.Float64Range(0, 1) < 0.15 {
			v.ParentAssetID = c.Vehicles[faker.IntRange(0, i-1)].ID
		}
		if faker.Float64Range(0, 1) < 0.2 {
			v.Alerts = []string{faker.RandomString([]string{
				"check engine light", "tire pressure low", "service overdue",
			})}
		}
		c.Vehicles = append(c.Vehicles, v)
	}

	vehicleID := func() string {
		if faker.Float64Range(0, 1) < dangling || len(c.Vehicles) == 0 {
			return uuid.NewString()
		}
		return c.Vehicles[faker.IntRange(0, len(c.Vehicles)-1)].ID
	}

	parts := faker.IntRange(10, 30)
	for i := 0; i < parts; i++ {
		c.Parts = append(c.Parts, linking.Part{
			ID:       uuid.NewString(),
			Name:     faker.ProductName(),
			Number:   faker.LetterN(3) + "-" + faker.DigitN(5),
			UnitCost: faker.Float64Range(4, 600),
			Stock:    faker.IntRange(0, 40),
		})
	}

	for i := 0; i < orders; i++ {
		w := linking.WorkOrder{
			ID:          uuid.NewString(),
			VehicleID:   vehicleID(),
			Description: faker.RandomString([]string{
				"oil change", "brake pad replacement", "transmission service",
				"tire rotation", "coolant flush", "battery replacement",
			}),
			Status:     faker.RandomString([]string{"open", "in-progress", "completed", "completed"}),
			Cost:       faker.Float64Range(40, 2500),
			LaborHours: faker.Float64Range(0.5, 12),
		}
		lines := faker.IntRange(0, 3)
		for j := 0; j < lines && len(c.Parts) > 0; j++ {
			p := c.Parts[faker.IntRange(0, len(c.Parts)-1)]
			w.Parts = append(w.Parts, linking.WorkOrderPart{
				PartID:   p.ID,
				Quantity: float64(faker.IntRange(1, 4)),
				UnitCost: p.UnitCost,
			})
		}
		c.WorkOrders = append(c.WorkOrders, w)
	}

	fuel := vehicles * 4
	for i := 0; i < fuel; i++ {
		c.FuelTransactions = append(c.FuelTransactions, linking.FuelTransaction{
			ID:             uuid.NewString(),
			VehicleID:      vehicleID(),
			Date:           faker.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).Format("2006-01-02"),
			Gallons:        faker.Float64Range(5, 60),
			PricePerGallon: faker.Float64Range(2.8, 5.2),
			Station:        faker.Company(),
		})
	}

	vendors := faker.IntRange(3, 8)
	for i := 0; i < vendors; i++ {
		c.Vendors = append(c.Vendors, linking.Vendor{
			ID:   uuid.NewString(),
			Name: faker.Company(),
			Type: faker.RandomString([]string{"parts", "fuel", "service"}),
		})
	}

	schedules := vehicles / 2
	for i := 0; i < schedules; i++ {
		c.MaintenanceSchedules = append(c.MaintenanceSchedules, linking.MaintenanceSchedule{
			ID:           uuid.NewString(),
			VehicleID:    vehicleID(),
			Task:         faker.RandomString([]string{"oil change", "inspection", "tire rotation"}),
			IntervalDays: faker.RandomInt([]int{30, 60, 90, 180}),
			NextDue:      faker.FutureDate().Format("2006-01-02"),
		})
	}

	return c
}

func writeJSON(path string, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
