package linking

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/asmortongpt/fleetgraph/pkg/fn"
)

// Options tunes the derived context views.
type Options struct {
	// LaborRate is the hourly rate applied to work-order labor when
	// deriving actual cost.
	LaborRate float64
	// RecentWorkOrderLimit bounds the work-order list in context views.
	RecentWorkOrderLimit int
	// FuelHistoryLimit bounds the fuel list in vehicle context views.
	FuelHistoryLimit int
}

// DefaultOptions returns the standard context tuning.
func DefaultOptions() Options {
	return Options{
		LaborRate:            85.0,
		RecentWorkOrderLimit: 5,
		FuelHistoryLimit:     10,
	}
}

// snapshot is one immutable generation of the graph. A rebuild or a
// manual edit produces a new snapshot and publishes it with a single
// pointer swap, so a reader sees either the prior generation or the
// new one in full, never a partial rebuild.
type snapshot struct {
	edges       []EntityRelationship
	collections Collections
	counts      map[EntityType]int
	lastUpdate  time.Time
}

// Engine owns the relationship graph derived from the fleet
// collections. All query results are fresh copies; callers can never
// reach engine-internal state.
//
// Manual overlay edges added via RegisterRelationship are ephemeral:
// the next SetCollections rebuild discards them.
type Engine struct {
	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[snapshot]
	opts Options
}

// New creates an Engine with an empty graph.
func New(opts Options) *Engine {
	e := &Engine{opts: opts}
	e.snap.Store(&snapshot{counts: map[EntityType]int{}})
	return e
}

// SetCollections replaces the source collections and rebuilds the full
// edge list. Manual overlay edges from the prior generation are lost.
func (e *Engine) SetCollections(c Collections) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	edges := BuildRelationships(c)
	e.snap.Store(&snapshot{
		edges:       edges,
		collections: c,
		counts:      countCollections(c),
		lastUpdate:  e.bump(),
	})

	rebuildTotal.Inc()
	rebuildDuration.Observe(time.Since(start).Seconds())
	recordEdgeCounts(edges)
}

// bump returns the next lastUpdate timestamp, strictly non-decreasing
// even if the wall clock steps backwards. Callers hold e.mu.
func (e *Engine) bump() time.Time {
	now := time.Now()
	if prev := e.snap.Load().lastUpdate; !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

// GetLinkedEntities buckets the far endpoint of every edge touching
// (t, id) by the far endpoint's type. Both edge directions match. The
// zero-value record is returned when nothing links, never an error.
func (e *Engine) GetLinkedEntities(t EntityType, id string) LinkedEntities {
	linkedQueries.WithLabelValues(string(t)).Inc()

	var linked LinkedEntities
	for _, edge := range e.snap.Load().edges {
		switch {
		case edge.Source.Type == t && edge.Source.ID == id:
			linked.add(edge.Target)
		case edge.Target.Type == t && edge.Target.ID == id:
			linked.add(edge.Source)
		}
	}
	return linked
}

// FindRelationships returns copies of every edge touching (t, id),
// in both directions.
func (e *Engine) FindRelationships(t EntityType, id string) []EntityRelationship {
	linkedQueries.WithLabelValues(string(t)).Inc()

	var out []EntityRelationship
	for _, edge := range e.snap.Load().edges {
		if (edge.Source.Type == t && edge.Source.ID == id) ||
			(edge.Target.Type == t && edge.Target.ID == id) {
			out = append(out, copyEdge(edge))
		}
	}
	return out
}

// RegisterRelationship appends a manual overlay edge. The edge does
// not survive the next SetCollections rebuild.
func (e *Engine) RegisterRelationship(edge EntityRelationship) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.snap.Load()
	edges := make([]EntityRelationship, len(cur.edges), len(cur.edges)+1)
	copy(edges, cur.edges)
	edges = append(edges, copyEdge(edge))

	e.snap.Store(&snapshot{
		edges:       edges,
		collections: cur.collections,
		counts:      cur.counts,
		lastUpdate:  e.bump(),
	})
	recordEdgeCounts(edges)
}

// RemoveRelationship drops every edge whose endpoints exactly match
// (sourceType, sourceID) -> (targetType, targetID). The relationship
// kind is not part of the removal key.
func (e *Engine) RemoveRelationship(sourceType EntityType, sourceID string, targetType EntityType, targetID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.snap.Load()
	edges := fn.Filter(cur.edges, func(edge EntityRelationship) bool {
		return !(edge.Source.Type == sourceType && edge.Source.ID == sourceID &&
			edge.Target.Type == targetType && edge.Target.ID == targetID)
	})

	e.snap.Store(&snapshot{
		edges:       edges,
		collections: cur.collections,
		counts:      cur.counts,
		lastUpdate:  e.bump(),
	})
	recordEdgeCounts(edges)
}

// EdgeCount reports the number of edges in the current snapshot,
// manual overlay edges included.
func (e *Engine) EdgeCount() int {
	return len(e.snap.Load().edges)
}

// LastUpdate reports when the graph last changed (rebuild or manual
// edit). Monotonically non-decreasing.
func (e *Engine) LastUpdate() time.Time {
	return e.snap.Load().lastUpdate
}

// UncountedTypes lists entity types with no backing collection in this
// process. They are absent from EntityCounts rather than reported as
// zero, so callers can tell "none" from "not wired up".
var UncountedTypes = []EntityType{
	EntityInvoice, EntityPurchaseOrder, EntityFacility, EntityTrip,
	EntityRoute, EntityAsset, EntityEquipment, EntityTrailer,
	EntityAlert, EntityDocument, EntityCommunication,
}

// EntityCounts returns per-type record counts for the collections the
// engine holds. Types named in UncountedTypes are absent.
func (e *Engine) EntityCounts() map[EntityType]int {
	return maps.Clone(e.snap.Load().counts)
}

func countCollections(c Collections) map[EntityType]int {
	return map[EntityType]int{
		EntityVehicle:     len(c.Vehicles),
		EntityDriver:      len(c.Drivers),
		EntityWorkOrder:   len(c.WorkOrders),
		EntityFuel:        len(c.FuelTransactions),
		EntityPart:        len(c.Parts),
		EntityVendor:      len(c.Vendors),
		EntityMaintenance: len(c.MaintenanceSchedules),
	}
}

func copyEdge(edge EntityRelationship) EntityRelationship {
	out := edge
	if edge.Metadata != nil {
		out.Metadata = maps.Clone(edge.Metadata)
	}
	return out
}
