package valuation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pro_valuation/pkg/core/assumption"
	"pro_valuation/pkg/core/fundamentals"
	"pro_valuation/pkg/core/report"
	"pro_valuation/pkg/core/valuation"
	"pro_valuation/pkg/models"
)

// Handler holds dependencies for the valuation endpoints
type Handler struct {
	Loader  *fundamentals.Loader
	Engine  *valuation.Engine
	Sectors *assumption.SectorMultiples
}

// NewHandler creates a valuation handler
func NewHandler(loader *fundamentals.Loader, engine *valuation.Engine, sectors *assumption.SectorMultiples) *Handler {
	return &Handler{Loader: loader, Engine: engine, Sectors: sectors}
}

// AnalyzeRequest mirrors the interactive parameter surface. Zero values fall
// back to the calculator defaults.
type AnalyzeRequest struct {
	Ticker             string   `json:"ticker"`
	ForecastYears      int      `json:"forecast_years"`
	TerminalGrowthRate float64  `json:"terminal_growth_rate"`
	ManualDiscountRate *float64 `json:"manual_discount_rate"`
	ForceStartupMode   bool     `json:"force_startup_mode"`
	SectorMultiple     float64  `json:"sector_multiple"`
}

// AnalyzeResponse bundles the result with the fundamentals it was computed
// from, so the client can render the identity card without a second call.
type AnalyzeResponse struct {
	Result       *models.ValuationResult     `json:"result"`
	Fundamentals *models.CompanyFundamentals `json:"fundamentals"`
}

func (h *Handler) params(req AnalyzeRequest, sector string) models.ValuationParameters {
	p := models.DefaultParameters()
	if req.ForecastYears != 0 {
		p.ForecastYears = req.ForecastYears
	}
	if req.TerminalGrowthRate != 0 {
		p.TerminalGrowthRate = req.TerminalGrowthRate
	}
	p.ManualDiscountRate = req.ManualDiscountRate
	p.ForceStartupMode = req.ForceStartupMode

	// The multiple is caller-controlled only when startup mode is forced.
	// When the heuristic selects startup mode on its own, the fixed default
	// applies regardless of sector or request.
	if req.ForceStartupMode {
		if req.SectorMultiple != 0 {
			p.SectorMultiple = req.SectorMultiple
		} else if h.Sectors != nil {
			p.SectorMultiple = h.Sectors.Multiple(sector)
		}
	}
	return p
}

// analyze runs the full pipeline for a request: load (cached), then compute.
func (h *Handler) analyze(r *http.Request) (*AnalyzeResponse, int, error) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err)
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		return nil, http.StatusBadRequest, fmt.Errorf("ticker is required")
	}
	fmt.Printf("[VALUATION] Request: %s (years=%d, g=%.4f, force_startup=%v)\n",
		ticker, req.ForecastYears, req.TerminalGrowthRate, req.ForceStartupMode)

	f, err := h.Loader.Load(r.Context(), ticker)
	if err != nil {
		switch {
		case fundamentals.IsNotFound(err):
			return nil, http.StatusNotFound, err
		case fundamentals.IsIncompleteStatements(err):
			return nil, http.StatusUnprocessableEntity, err
		default:
			return nil, http.StatusBadGateway, err
		}
	}

	result, err := h.Engine.Analyze(f, h.params(req, f.Sector))
	if err != nil {
		var ve *valuation.ValidationError
		if errors.As(err, &ve) && ve.Reason == valuation.ReasonParamOutOfRange {
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusUnprocessableEntity, err
	}

	fmt.Printf("[VALUATION] %s: mode=%s fair=%.2f upside=%.1f%%\n",
		ticker, result.SelectedMode, result.FairValue(), result.UpsidePct*100)
	return &AnalyzeResponse{Result: result, Fundamentals: f}, http.StatusOK, nil
}

// HandleAnalyze serves POST /api/valuation/analyze
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !prepare(w, r) {
		return
	}
	resp, status, err := h.analyze(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleReport serves POST /api/valuation/report with a rendered HTML summary
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if !prepare(w, r) {
		return
	}
	resp, status, err := h.analyze(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	markdown := report.BuildMarkdown(resp.Result, resp.Fundamentals)
	html, err := report.RenderHTML(markdown)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

// prepare applies CORS headers and answers preflight; returns false when the
// request is already handled.
func prepare(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return false
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
