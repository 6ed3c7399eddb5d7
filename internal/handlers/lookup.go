// Package handlers provides HTTP handlers for API endpoints
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"vahan-rc-bot/internal/models"
	"vahan-rc-bot/internal/services"
)

// LookupResponse is the JSON body returned by HandleLookup
type LookupResponse struct {
	Plate   string         `json:"plate"`
	Outcome string         `json:"outcome"`
	Fields  []models.Field `json:"fields"`
	Error   string         `json:"error,omitempty"`
}

// LookupHandler exposes vehicle lookups over HTTP
type LookupHandler struct {
	service services.VehicleLookup
}

// NewLookupHandler creates a new lookup handler
func NewLookupHandler(service services.VehicleLookup) *LookupHandler {
	return &LookupHandler{service: service}
}

// HandleLookup answers GET /api/lookup?plate=...
func (h *LookupHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	plate, err := services.Normalize(r.URL.Query().Get("plate"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, LookupResponse{
			Plate:  plate,
			Fields: []models.Field{},
			Error:  err.Error(),
		})
		return
	}

	res := h.service.Lookup(r.Context(), plate)

	body := LookupResponse{
		Plate:   res.Plate,
		Outcome: res.Outcome.String(),
		Fields:  res.Record.Fields,
	}
	if body.Fields == nil {
		body.Fields = []models.Field{}
	}

	status := http.StatusOK
	switch res.Outcome {
	case services.OutcomeNotFound:
		status = http.StatusNotFound
	case services.OutcomeUnavailable:
		status = http.StatusBadGateway
		body.Error = "registry unavailable"
	}

	writeJSON(w, status, body)
}

// HandleHealth reports liveness
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "err", err)
	}
}
