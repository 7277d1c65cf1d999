package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asmortongpt/fleetgraph/engine/linking"
)

func newTestServer() *server {
	engine := linking.New(linking.DefaultOptions())
	engine.SetCollections(linking.Collections{
		Vehicles: []linking.Vehicle{
			{ID: "v1", Name: "Truck 1", AssignedDriver: "d1"},
			{ID: "v2", Name: "Van 2"},
		},
		Drivers: []linking.Driver{
			{ID: "d1", Name: "Alice Smith", SafetyScore: 92.5},
		},
		WorkOrders: []linking.WorkOrder{
			{ID: "w1", VehicleID: "v1", Cost: 100, LaborHours: 2},
		},
		FuelTransactions: []linking.FuelTransaction{
			{ID: "f1", VehicleID: "v1", Gallons: 10, PricePerGallon: 3.5},
		},
	})
	return &server{
		engine: engine,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func doRequest(t *testing.T, s *server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestHandleStatus(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.EntityCounts[linking.EntityVehicle] != 2 {
		t.Fatalf("vehicle count = %d", body.EntityCounts[linking.EntityVehicle])
	}
	if _, present := body.EntityCounts[linking.EntityTrip]; present {
		t.Fatal("uncounted types must be absent from entityCounts")
	}
	if len(body.UncountedTypes) == 0 {
		t.Fatal("uncountedTypes missing")
	}
	if body.LastUpdate.IsZero() {
		t.Fatal("lastUpdate not set")
	}
}

func TestHandleLinked(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/entities/vehicle/v1/linked", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body linking.LinkedEntities
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Drivers) != 1 || body.Drivers[0].ID != "d1" {
		t.Fatalf("drivers = %+v", body.Drivers)
	}
	if len(body.WorkOrders) != 1 || len(body.FuelTransactions) != 1 {
		t.Fatalf("buckets = %+v", body)
	}
}

func TestHandleLinkedUnknownTypeIs400(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/entities/starship/v1/linked", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleLinkedUnknownIDIsZeroValue(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/entities/vehicle/nope/linked", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body linking.LinkedEntities
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Drivers) != 0 || len(body.Vehicles) != 0 {
		t.Fatalf("expected empty buckets, got %+v", body)
	}
}

func TestHandleLinkedEmptyBucketsAreArrays(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/entities/vehicle/nope/linked", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "null") {
		t.Fatalf("buckets must serialize as arrays, got: %s", rec.Body.String())
	}

	var body map[string][]linking.EntityReference
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, bucket := range []string{"drivers", "vehicles", "workOrders", "parts", "vendors"} {
		if _, present := body[bucket]; !present {
			t.Fatalf("bucket %q missing from response", bucket)
		}
	}
}

func TestHandleRelationships(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/entities/driver/d1/relationships", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var edges []linking.EntityRelationship
	if err := json.Unmarshal(rec.Body.Bytes(), &edges); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(edges) != 1 || edges[0].Kind != linking.KindAssignedTo {
		t.Fatalf("edges = %+v", edges)
	}
}

func TestHandleRelationshipsUnknownIDIsEmptyArray(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/entities/driver/nope/relationships", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("body = %q", got)
	}
}

func TestHandleVehicleContext(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/vehicles/v1/context", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body linking.VehicleContext
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 100 work order cost + 10 gal * 3.50.
	if body.TotalCost != 135 {
		t.Fatalf("totalCost = %v", body.TotalCost)
	}
}

func TestHandleDriverContext(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/drivers/d1/context", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body linking.DriverContext
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SafetyScore != 92.5 {
		t.Fatalf("safetyScore = %v", body.SafetyScore)
	}
}

func TestHandleWorkOrderContext(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/workorders/w1/context", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body linking.WorkOrderContext
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 2 labor hours at the default 85/h rate.
	if body.ActualCost != 170 {
		t.Fatalf("actualCost = %v", body.ActualCost)
	}
}

func TestHandleRegisterRelationship(t *testing.T) {
	s := newTestServer()
	body := `{
		"source": {"type": "vehicle", "id": "v2", "label": "Van 2"},
		"target": {"type": "driver", "id": "d1", "label": "Alice Smith"},
		"relationshipType": "related-to"
	}`
	rec := doRequest(t, s, http.MethodPost, "/api/relationships", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	linked := s.engine.GetLinkedEntities(linking.EntityVehicle, "v2")
	if len(linked.Drivers) != 1 || linked.Drivers[0].ID != "d1" {
		t.Fatalf("overlay edge not queryable: %+v", linked)
	}
}

func TestHandleRegisterRelationshipRejectsBadBody(t *testing.T) {
	cases := map[string]string{
		"malformed":    `{not json`,
		"missing ids":  `{"source": {"type": "vehicle"}, "target": {"type": "driver"}}`,
		"unknown type": `{"source": {"type": "starship", "id": "s1"}, "target": {"type": "driver", "id": "d1"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doRequest(t, newTestServer(), http.MethodPost, "/api/relationships", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
		})
	}
}

func TestHandleRemoveRelationship(t *testing.T) {
	s := newTestServer()
	body := `{"sourceType": "vehicle", "sourceId": "v1", "targetType": "driver", "targetId": "d1"}`
	rec := doRequest(t, s, http.MethodDelete, "/api/relationships", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	linked := s.engine.GetLinkedEntities(linking.EntityVehicle, "v1")
	if len(linked.Drivers) != 0 {
		t.Fatalf("edge still present: %+v", linked.Drivers)
	}
}
