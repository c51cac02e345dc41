package handler

import (
	"net/http"

	"sleepdiary/internal/usecase"
	"sleepdiary/pkg/response"
)

type PatientHandler struct {
	metricsUsecase usecase.PatientMetricsUsecase
}

func NewPatientHandler(metricsUsecase usecase.PatientMetricsUsecase) *PatientHandler {
	return &PatientHandler{
		metricsUsecase: metricsUsecase,
	}
}

// ListPatients returns the calling doctor's roster with sleep summaries
// @Summary List roster patients
// @Description Per-patient sleep metrics for the doctor dashboard
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients [get]
func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.metricsUsecase.ListPatients(r.Context())
	if err != nil {
		switch err {
		case usecase.ErrDoctorProfileNotFound:
			response.NotFound(w, "Doctor profile not found")
		default:
			response.InternalServerError(w, "Failed to get patients")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}
