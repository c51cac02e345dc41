package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"sleepdiary/internal/delivery/dto"
	"sleepdiary/internal/usecase"
	"sleepdiary/pkg/response"
	"sleepdiary/pkg/validator"

	"github.com/google/uuid"
)

type SleepEntryHandler struct {
	sleepEntryUsecase usecase.SleepEntryUsecase
	validator         *validator.CustomValidator
}

func NewSleepEntryHandler(sleepEntryUsecase usecase.SleepEntryUsecase, validator *validator.CustomValidator) *SleepEntryHandler {
	return &SleepEntryHandler{
		sleepEntryUsecase: sleepEntryUsecase,
		validator:         validator,
	}
}

// ListEntries returns sleep entries for the caller
// @Summary List sleep entries
// @Description Patients get their own entries; doctors get a roster patient's entries via patientId
// @Tags SleepEntries
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Page offset"
// @Param patientId query string false "Roster patient (doctors only)"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sleep-entries [get]
func (h *SleepEntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	var patientID *uuid.UUID
	if raw := query.Get("patientId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid patientId", nil)
			return
		}
		patientID = &id
	}

	entries, err := h.sleepEntryUsecase.ListEntries(r.Context(), limit, offset, patientID)
	if err != nil {
		switch err {
		case usecase.ErrPatientIDRequired:
			response.Error(w, http.StatusBadRequest, "patientId is required", nil)
		case usecase.ErrPatientAccessDenied:
			response.Forbidden(w, "Access denied to this patient")
		case usecase.ErrPatientProfileNotFound:
			response.NotFound(w, "Patient profile not found")
		case usecase.ErrDoctorProfileNotFound:
			response.NotFound(w, "Doctor profile not found")
		case usecase.ErrInvalidRole:
			response.Forbidden(w, "Invalid role for this operation")
		default:
			response.InternalServerError(w, "Failed to get sleep entries")
		}
		return
	}

	response.Success(w, http.StatusOK, "Sleep entries retrieved successfully", entries)
}

// CreateEntry appends one diary record
// @Summary Create sleep entry
// @Tags SleepEntries
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateSleepEntryRequest true "Sleep Entry"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sleep-entries [post]
func (h *SleepEntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSleepEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.sleepEntryUsecase.CreateEntry(r.Context(), &req)
	if err != nil {
		var ratingErr *usecase.RatingOutOfRangeError
		switch {
		case errors.As(err, &ratingErr):
			response.Error(w, http.StatusBadRequest, ratingErr.Error(), nil)
		case err == usecase.ErrInvalidDateFormat, err == usecase.ErrInvalidTimestampFormat:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case err == usecase.ErrPatientProfileNotFound:
			response.NotFound(w, "Patient profile not found")
		default:
			response.InternalServerError(w, "Failed to create sleep entry")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Sleep entry created successfully", entry)
}
