package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/models/dtos"
)

// GetPilotLedger handles GET /api/v1/pilots/{id}/ledger
func (h *Handlers) GetPilotLedger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		ledger, err := h.deps.Services.Pireps.PilotLedger(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, initTime, err, nil)
			return
		}

		common.RespondSuccess(w, initTime, "Pilot ledger fetched successfully", ledger)
	}
}

// ListPilotPireps handles GET /api/v1/pilots/{id}/pireps?limit=N
func (h *Handlers) ListPilotPireps() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				common.RespondErrorCode(w, initTime, constants.ErrCodeValidation, "limit must be a number", http.StatusBadRequest, nil)
				return
			}
			limit = parsed
		}

		pireps, err := h.deps.Services.Pireps.ListPilotPireps(r.Context(), chi.URLParam(r, "id"), limit)
		if err != nil {
			respondServiceError(w, r, initTime, err, nil)
			return
		}

		response := make([]dtos.PirepResponse, 0, len(pireps))
		for i := range pireps {
			response = append(response, toPirepResponse(&pireps[i]))
		}

		common.RespondSuccess(w, initTime, "Pilot PIREPs fetched successfully", response)
	}
}
