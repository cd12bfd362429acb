package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"goab/app"
	"goab/domain/abtest"
	"goab/domain/core"
	"goab/internal/report"
)

type analyzeRequest struct {
	Name      string              `json:"name"`
	Control   abtest.Observations `json:"control"`
	Treatment abtest.Observations `json:"treatment"`
	Alpha     float64             `json:"alpha,omitempty"`
}

type analyzeResponse struct {
	Experiment *abtest.Experiment     `json:"experiment"`
	Result     *abtest.AnalysisResult `json:"result"`
}

func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	exp, result, err := a.service.Analyze(r.Context(), app.AnalyzeRequest{
		Name:      req.Name,
		Control:   req.Control,
		Treatment: req.Treatment,
		Alpha:     req.Alpha,
	})
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, analyzeResponse{Experiment: exp, Result: result})
}

type planResponse struct {
	SampleSizePerGroup int                `json:"sample_size_per_group"`
	Config             abtest.PowerConfig `json:"config"`
}

func (a *App) handlePlan(w http.ResponseWriter, r *http.Request) {
	var cfg abtest.PowerConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	n, err := a.service.Plan(r.Context(), cfg)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, planResponse{
		SampleSizePerGroup: n,
		Config:             cfg.WithDefaults(),
	})
}

func (a *App) handleListExperiments(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		a.writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}
	experiments, err := a.repo.ListExperiments(r.Context(), 50)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, experiments)
}

func (a *App) handleGetExperiment(w http.ResponseWriter, r *http.Request) {
	exp, result, ok := a.loadExperiment(w, r)
	if !ok {
		return
	}
	a.writeJSON(w, http.StatusOK, analyzeResponse{Experiment: exp, Result: result})
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	exp, result, ok := a.loadExperiment(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(report.HTML(exp, result))
}

// loadExperiment resolves the {id} route parameter to a stored experiment
// and its result, writing the HTTP error itself when that fails
func (a *App) loadExperiment(w http.ResponseWriter, r *http.Request) (*abtest.Experiment, *abtest.AnalysisResult, bool) {
	if a.repo == nil {
		a.writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return nil, nil, false
	}
	id, err := core.ParseExperimentID(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	exp, err := a.repo.GetExperiment(r.Context(), id)
	if err != nil {
		a.writeDomainError(w, err)
		return nil, nil, false
	}
	result, err := a.repo.GetResult(r.Context(), id)
	if err != nil {
		a.writeDomainError(w, err)
		return nil, nil, false
	}
	return exp, result, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("encoding response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps the domain error taxonomy onto HTTP status codes
func (a *App) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case core.IsInvalidInputError(err):
		a.writeError(w, http.StatusBadRequest, err.Error())
	case core.IsNumericDomainError(err):
		a.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case core.IsNotFoundError(err):
		a.writeError(w, http.StatusNotFound, err.Error())
	default:
		a.logger.Error("internal error: %v", err)
		a.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
