package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"infinite-experiment/flightlog/internal/auth"
	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/models/dtos"
)

func decodeBody(r *http.Request, dest any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// CreatePirep handles POST /api/v1/pireps
func (h *Handlers) CreatePirep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		var req dtos.CreatePirepRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondErrorCode(w, initTime, constants.ErrCodeValidation, err.Error(), http.StatusBadRequest, nil)
			return
		}

		result, err := h.deps.Services.Pireps.CreatePirep(r.Context(), &req, claims.UserID())
		if err != nil {
			var data any
			if result != nil {
				data = dtos.CreatePirepResponse{
					Pirep:              toPirepResponse(result.Pirep),
					AdjustedFlightTime: result.AdjustedFlightTime,
				}
			}
			respondServiceError(w, r, initTime, err, data)
			return
		}

		common.RespondSuccess(w, initTime, "PIREP filed successfully", dtos.CreatePirepResponse{
			Pirep:              toPirepResponse(result.Pirep),
			AdjustedFlightTime: result.AdjustedFlightTime,
		}, http.StatusCreated)
	}
}

// GetPirep handles GET /api/v1/pireps/{id}
func (h *Handlers) GetPirep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		pirep, err := h.deps.Services.Pireps.GetPirep(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, initTime, err, nil)
			return
		}

		common.RespondSuccess(w, initTime, "PIREP fetched successfully", toPirepResponse(pirep))
	}
}

// EditPirep handles PATCH /api/v1/pireps/{id}
func (h *Handlers) EditPirep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		var req dtos.EditPirepRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondErrorCode(w, initTime, constants.ErrCodeValidation, err.Error(), http.StatusBadRequest, nil)
			return
		}
		req.ID = chi.URLParam(r, "id")

		if err := h.deps.Services.Pireps.EditPirep(r.Context(), &req, claims.UserID(), claims.Roles()); err != nil {
			respondServiceError(w, r, initTime, err, nil)
			return
		}

		pirep, err := h.deps.Services.Pireps.GetPirep(r.Context(), req.ID)
		if err != nil {
			respondServiceError(w, r, initTime, err, nil)
			return
		}

		common.RespondSuccess(w, initTime, "PIREP updated successfully", toPirepResponse(pirep))
	}
}

// ListPirepEvents handles GET /api/v1/pireps/{id}/events
func (h *Handlers) ListPirepEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		events, err := h.deps.Services.Pireps.ListEvents(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, initTime, err, nil)
			return
		}

		response := make([]dtos.PirepEventResponse, 0, len(events))
		for i := range events {
			response = append(response, toEventResponse(&events[i]))
		}

		common.RespondSuccess(w, initTime, "PIREP events fetched successfully", response)
	}
}

// ApprovePirep handles POST /api/v1/pireps/{id}/approve
func (h *Handlers) ApprovePirep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		if err := h.deps.Services.Pireps.ApprovePirep(r.Context(), chi.URLParam(r, "id"), claims.UserID()); err != nil {
			respondServiceError(w, r, initTime, err, nil)
			return
		}

		common.RespondSuccess(w, initTime, "PIREP approved", nil)
	}
}

// DenyPirep handles POST /api/v1/pireps/{id}/deny
func (h *Handlers) DenyPirep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		var req dtos.DenyPirepRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondErrorCode(w, initTime, constants.ErrCodeValidation, err.Error(), http.StatusBadRequest, nil)
			return
		}

		if err := h.deps.Services.Pireps.DenyPirep(r.Context(), chi.URLParam(r, "id"), claims.UserID(), req.Reason); err != nil {
			respondServiceError(w, r, initTime, err, nil)
			return
		}

		common.RespondSuccess(w, initTime, "PIREP denied", nil)
	}
}
