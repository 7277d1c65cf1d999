package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asmortongpt/fleetgraph/engine/linking"
)

// server holds the handler dependencies for the API.
type server struct {
	engine *linking.Engine
	log    *slog.Logger
}

// router builds the full route table.
func (s *server) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/entities/{type}/{id}/linked", s.handleLinked).Methods(http.MethodGet)
	r.HandleFunc("/api/entities/{type}/{id}/relationships", s.handleRelationships).Methods(http.MethodGet)
	r.HandleFunc("/api/vehicles/{id}/context", s.handleVehicleContext).Methods(http.MethodGet)
	r.HandleFunc("/api/drivers/{id}/context", s.handleDriverContext).Methods(http.MethodGet)
	r.HandleFunc("/api/workorders/{id}/context", s.handleWorkOrderContext).Methods(http.MethodGet)
	r.HandleFunc("/api/relationships", s.handleRegisterRelationship).Methods(http.MethodPost)
	r.HandleFunc("/api/relationships", s.handleRemoveRelationship).Methods(http.MethodDelete)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	LastUpdate     time.Time                  `json:"lastUpdate"`
	EntityCounts   map[linking.EntityType]int `json:"entityCounts"`
	UncountedTypes []linking.EntityType       `json:"uncountedTypes"`
	Edges          int                        `json:"edges"`
}

func (s *server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		LastUpdate:     s.engine.LastUpdate(),
		EntityCounts:   s.engine.EntityCounts(),
		UncountedTypes: linking.UncountedTypes,
		Edges:          s.engine.EdgeCount(),
	})
}

// entityParams pulls and validates the {type}/{id} path variables.
// An unrecognised type writes a 400 and returns ok=false; an unknown
// id is not an error, queries on it return zero values.
func (s *server) entityParams(w http.ResponseWriter, r *http.Request) (linking.EntityType, string, bool) {
	vars := mux.Vars(r)
	t := linking.EntityType(vars["type"])
	if !linking.KnownEntityTypes[t] {
		writeError(w, http.StatusBadRequest, "unknown entity type: "+vars["type"])
		return "", "", false
	}
	return t, vars["id"], true
}

func (s *server) handleLinked(w http.ResponseWriter, r *http.Request) {
	t, id, ok := s.entityParams(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, linkedWire(s.engine.GetLinkedEntities(t, id)))
}

// linkedWire normalizes nil buckets to empty slices so every response
// carries all fifteen lists as JSON arrays, never null.
func linkedWire(l linking.LinkedEntities) linking.LinkedEntities {
	for _, b := range []*[]linking.EntityReference{
		&l.Drivers, &l.Vehicles, &l.WorkOrders, &l.MaintenanceRecords,
		&l.FuelTransactions, &l.Parts, &l.Vendors, &l.Invoices,
		&l.PurchaseOrders, &l.Facilities, &l.Trips, &l.Routes,
		&l.Assets, &l.Alerts, &l.Documents,
	} {
		if *b == nil {
			*b = []linking.EntityReference{}
		}
	}
	return l
}

func (s *server) handleRelationships(w http.ResponseWriter, r *http.Request) {
	t, id, ok := s.entityParams(w, r)
	if !ok {
		return
	}
	edges := s.engine.FindRelationships(t, id)
	if edges == nil {
		edges = []linking.EntityRelationship{}
	}
	writeJSON(w, http.StatusOK, edges)
}

func (s *server) handleVehicleContext(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.VehicleContext(mux.Vars(r)["id"]))
}

func (s *server) handleDriverContext(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.DriverContext(mux.Vars(r)["id"]))
}

func (s *server) handleWorkOrderContext(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.WorkOrderContext(mux.Vars(r)["id"]))
}

func (s *server) handleRegisterRelationship(w http.ResponseWriter, r *http.Request) {
	var edge linking.EntityRelationship
	if err := json.NewDecoder(r.Body).Decode(&edge); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if edge.Source.ID == "" || edge.Target.ID == "" {
		writeError(w, http.StatusBadRequest, "source and target ids are required")
		return
	}
	if !linking.KnownEntityTypes[edge.Source.Type] || !linking.KnownEntityTypes[edge.Target.Type] {
		writeError(w, http.StatusBadRequest, "unknown entity type")
		return
	}
	s.engine.RegisterRelationship(edge)
	writeJSON(w, http.StatusCreated, map[string]any{"lastUpdate": s.engine.LastUpdate()})
}

// RemoveRelationshipRequest is the body of DELETE /api/relationships.
// The relationship kind is intentionally absent: removal matches on
// endpoints alone.
type RemoveRelationshipRequest struct {
	SourceType linking.EntityType `json:"sourceType"`
	SourceID   string             `json:"sourceId"`
	TargetType linking.EntityType `json:"targetType"`
	TargetID   string             `json:"targetId"`
}

func (s *server) handleRemoveRelationship(w http.ResponseWriter, r *http.Request) {
	var req RemoveRelationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SourceID == "" || req.TargetID == "" {
		writeError(w, http.StatusBadRequest, "source and target ids are required")
		return
	}
	s.engine.RemoveRelationship(req.SourceType, req.SourceID, req.TargetType, req.TargetID)
	writeJSON(w, http.StatusOK, map[string]any{"lastUpdate": s.engine.LastUpdate()})
}
