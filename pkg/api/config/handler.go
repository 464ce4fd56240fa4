package config

import (
	"encoding/json"
	"net/http"

	"pro_valuation/pkg/core/assumption"
	"pro_valuation/pkg/models"
)

// Response exposes the engine's fixed assumptions and parameter defaults so
// the client can label its sliders without hardcoding.
type Response struct {
	Assumptions assumption.Set             `json:"assumptions"`
	Defaults    models.ValuationParameters `json:"defaults"`
	SectorCount int                        `json:"sector_count"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	Set     assumption.Set
	Sectors *assumption.SectorMultiples
}

// NewHandler creates a new config handler
func NewHandler(set assumption.Set, sectors *assumption.SectorMultiples) *Handler {
	return &Handler{Set: set, Sectors: sectors}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	resp := Response{
		Assumptions: h.Set,
		Defaults:    models.DefaultParameters(),
	}
	if h.Sectors != nil {
		resp.SectorCount = h.Sectors.Count()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
