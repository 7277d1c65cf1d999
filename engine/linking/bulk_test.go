package linking

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
)

// bulkCollections generates a larger random fleet with a slice of
// deliberately dangling references mixed in.
func bulkCollections(seed int64, vehicles, drivers, orders int) Collections {
	faker := gofakeit.New(seed)

	var c Collections
	for i := 0; i < drivers; i++ {
		c.Drivers = append(c.Drivers, Driver{
			ID:          fmt.Sprintf("d%d", i),
			Name:        faker.Name(),
			SafetyScore: faker.Float64Range(50, 100),
		})
	}
	for i := 0; i < vehicles; i++ {
		v := Vehicle{ID: fmt.Sprintf("v%d", i), Name: faker.CarModel()}
		switch faker.IntRange(0, 3) {
		case 0:
			v.AssignedDriver = fmt.Sprintf("d%d", faker.IntRange(0, drivers-1))
		case 1:
			v.AssignedDriver = "gone-" + faker.LetterN(6) // dangling
		}
		c.Vehicles = append(c.Vehicles, v)
	}
	for i := 0; i < orders; i++ {
		w := WorkOrder{
			ID:   fmt.Sprintf("w%d", i),
			Cost: faker.Float64Range(10, 500),
		}
		if faker.IntRange(0, 9) == 0 {
			w.VehicleID = "missing-" + faker.LetterN(6) // dangling
		} else {
			w.VehicleID = fmt.Sprintf("v%d", faker.IntRange(0, vehicles-1))
		}
		c.WorkOrders = append(c.WorkOrders, w)
	}
	return c
}

func TestBuildBulkDeterministic(t *testing.T) {
	c := bulkCollections(42, 500, 100, 1000)
	first := BuildRelationships(c)
	second := BuildRelationships(c)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("bulk builds differ (-first +second):\n%s", diff)
	}
}

func TestBuildBulkSymmetry(t *testing.T) {
	e := New(DefaultOptions())
	e.SetCollections(bulkCollections(7, 200, 50, 400))

	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("v%d", i)
		for _, edge := range e.FindRelationships(EntityVehicle, id) {
			linked := e.GetLinkedEntities(edge.Target.Type, edge.Target.ID)
			if !containsRef(linked.Bucket(edge.Source.Type), edge.Source.ID) {
				t.Fatalf("edge %s -> %s not traversable from target side", edge.Source.ID, edge.Target.ID)
			}
		}
	}
}

// BenchmarkBuildRelationships runs the builder at doubling fleet
// sizes. ns/op should grow roughly linearly across sub-benchmarks; a
// superlinear jump means the id-indexed lookups regressed to scans.
func BenchmarkBuildRelationships(b *testing.B) {
	for _, vehicles := range []int{500, 1000, 2000, 4000} {
		c := bulkCollections(int64(vehicles), vehicles, vehicles/5, vehicles*2)
		b.Run(fmt.Sprintf("vehicles_%d", vehicles), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				BuildRelationships(c)
			}
		})
	}
}

func TestBuildBulkNoDanglingEdges(t *testing.T) {
	c := bulkCollections(99, 300, 60, 600)
	vehicleIDs := make(map[string]bool, len(c.Vehicles))
	for _, v := range c.Vehicles {
		vehicleIDs[v.ID] = true
	}

	for _, edge := range BuildRelationships(c) {
		if edge.Kind == KindServicedBy && !vehicleIDs[edge.Target.ID] {
			t.Fatalf("edge targets unknown vehicle %s", edge.Target.ID)
		}
	}
}
