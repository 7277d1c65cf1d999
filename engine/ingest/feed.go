package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/asmortongpt/fleetgraph/engine/linking"
	"github.com/asmortongpt/fleetgraph/pkg/natsutil"
)

// NATS subjects for collection updates and rebuild notifications.
const (
	SubjectVehicles             = "fleet.collections.vehicles"
	SubjectDrivers              = "fleet.collections.drivers"
	SubjectWorkOrders           = "fleet.collections.workorders"
	SubjectFuelTransactions     = "fleet.collections.fuel"
	SubjectParts                = "fleet.collections.parts"
	SubjectVendors              = "fleet.collections.vendors"
	SubjectMaintenanceSchedules = "fleet.collections.maintenance"
	SubjectRebuilt              = "fleet.graph.rebuilt"
)

// RebuiltEvent announces a completed graph rebuild.
type RebuiltEvent struct {
	EventID    string    `json:"event_id"`
	Edges      int       `json:"edges"`
	LastUpdate time.Time `json:"last_update"`
}

// Feed applies full-replacement collection updates arriving over NATS
// and announces every resulting rebuild on SubjectRebuilt.
type Feed struct {
	nc      *nats.Conn
	engine  *linking.Engine
	log     *slog.Logger
	publish func(context.Context, RebuiltEvent) error

	mu      sync.Mutex
	current linking.Collections
	subs    []*nats.Subscription
}

// NewFeed creates a Feed seeded with the initial collections.
func NewFeed(nc *nats.Conn, engine *linking.Engine, initial linking.Collections, log *slog.Logger) *Feed {
	f := &Feed{nc: nc, engine: engine, current: initial, log: log}
	f.publish = func(ctx context.Context, ev RebuiltEvent) error {
		return natsutil.Publish(ctx, f.nc, SubjectRebuilt, ev)
	}
	return f
}

// Start subscribes to every collection subject. Each message carries a
// full replacement for one collection.
func (f *Feed) Start() error {
	type bind struct {
		subject string
		sub     func() (*nats.Subscription, error)
	}
	binds := []bind{
		{SubjectVehicles, func() (*nats.Subscription, error) {
			return natsutil.Subscribe(f.nc, SubjectVehicles, func(ctx context.Context, v []linking.Vehicle) {
				f.apply(ctx, SubjectVehicles, func(c *linking.Collections) { c.Vehicles = v })
			})
		}},
		{SubjectDrivers, func() (*nats.Subscription, error) {
			return natsutil.Subscribe(f.nc, SubjectDrivers, func(ctx context.Context, v []linking.Driver) {
				f.apply(ctx, SubjectDrivers, func(c *linking.Collections) { c.Drivers = v })
			})
		}},
		{SubjectWorkOrders, func() (*nats.Subscription, error) {
			return natsutil.Subscribe(f.nc, SubjectWorkOrders, func(ctx context.Context, v []linking.WorkOrder) {
				f.apply(ctx, SubjectWorkOrders, func(c *linking.Collections) { c.WorkOrders = v })
			})
		}},
		{SubjectFuelTransactions, func() (*nats.Subscription, error) {
			return natsutil.Subscribe(f.nc, SubjectFuelTransactions, func(ctx context.Context, v []linking.FuelTransaction) {
				f.apply(ctx, SubjectFuelTransactions, func(c *linking.Collections) { c.FuelTransactions = v })
			})
		}},
		{SubjectParts, func() (*nats.Subscription, error) {
			return natsutil.Subscribe(f.nc, SubjectParts, func(ctx context.Context, v []linking.Part) {
				f.apply(ctx, SubjectParts, func(c *linking.Collections) { c.Parts = v })
			})
		}},
		{SubjectVendors, func() (*nats.Subscription, error) {
			return natsutil.Subscribe(f.nc, SubjectVendors, func(ctx context.Context, v []linking.Vendor) {
				f.apply(ctx, SubjectVendors, func(c *linking.Collections) { c.Vendors = v })
			})
		}},
		{SubjectMaintenanceSchedules, func() (*nats.Subscription, error) {
			return natsutil.Subscribe(f.nc, SubjectMaintenanceSchedules, func(ctx context.Context, v []linking.MaintenanceSchedule) {
				f.apply(ctx, SubjectMaintenanceSchedules, func(c *linking.Collections) { c.MaintenanceSchedules = v })
			})
		}},
	}

	for _, b := range binds {
		sub, err := b.sub()
		if err != nil {
			f.Stop()
			return fmt.Errorf("subscribe %s: %w", b.subject, err)
		}
		f.subs = append(f.subs, sub)
	}

	f.log.Info("collection feed started", "subjects", len(binds))
	return nil
}

// Stop unsubscribes from all collection subjects.
func (f *Feed) Stop() {
	for _, sub := range f.subs {
		_ = sub.Unsubscribe()
	}
	f.subs = nil
}

// apply swaps one collection, rebuilds, and announces the rebuild.
func (f *Feed) apply(ctx context.Context, subject string, set func(*linking.Collections)) {
	f.mu.Lock()
	set(&f.current)
	c := f.current
	f.mu.Unlock()

	f.engine.SetCollections(c)

	ev := RebuiltEvent{
		EventID:    uuid.NewString(),
		Edges:      f.engine.EdgeCount(),
		LastUpdate: f.engine.LastUpdate(),
	}
	if err := f.publish(ctx, ev); err != nil {
		f.log.Warn("publish rebuilt event failed", "err", err)
	}
	f.log.Info("graph rebuilt from feed", "subject", subject, "edges", ev.Edges)
}
