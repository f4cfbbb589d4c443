package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/GiorgiUbiria/expense_tracker/internal/httputil"
	"github.com/GiorgiUbiria/expense_tracker/internal/logger"
	"github.com/GiorgiUbiria/expense_tracker/internal/rates"
	"go.uber.org/zap"
)

type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Database    string    `json:"database"`
}

type NotFoundResponse struct {
	Message string `json:"message"`
	Path    string `json:"path"`
	Method  string `json:"method"`
}

// Health godoc
// @Summary   Liveness and database connectivity
// @Tags      system
// @Produce   json
// @Success   200  {object}  HealthResponse
// @Failure   503  {object}  HealthResponse
// @Router    /health [get]
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:      "ok",
		Timestamp:   h.now().UTC(),
		Environment: h.cfg.Server.Env,
		Database:    "connected",
	}
	code := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		logger.Log.Warn("health check: database unreachable", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "disconnected"
		code = http.StatusServiceUnavailable
	}

	httputil.WriteJSON(w, code, resp)
}

// Rates godoc
// @Summary   Exchange rates for display conversion
// @Tags      system
// @Produce   json
// @Param     base  query     string  false  "Base currency"  default(USD)
// @Success   200   {object}  rates.Quote
// @Failure   400   {object}  httputil.ErrorResponse
// @Router    /api/rates [get]
func (h *Handlers) Rates(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	if base == "" {
		base = "USD"
	}

	q, err := h.rates.Latest(r.Context(), base)
	if errors.Is(err, rates.ErrInvalidCurrency) || errors.Is(err, rates.ErrUnknownCurrency) {
		httputil.WriteError(w, http.StatusBadRequest, "Unsupported currency")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Error fetching exchange rates")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, q)
}

func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	httputil.WriteMessage(w, http.StatusOK, "API is working")
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusNotFound, NotFoundResponse{
		Message: "Route not found",
		Path:    r.URL.Path,
		Method:  r.Method,
	})
}

func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
