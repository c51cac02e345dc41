package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sleepdiary/internal/delivery/dto"
	"sleepdiary/internal/usecase"
	"sleepdiary/pkg/response"
	"sleepdiary/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSleepEntryUsecase is a mock implementation of usecase.SleepEntryUsecase
type MockSleepEntryUsecase struct {
	mock.Mock
}

func (m *MockSleepEntryUsecase) ListEntries(ctx context.Context, limit, offset int, patientID *uuid.UUID) ([]dto.SleepEntryResponse, error) {
	args := m.Called(ctx, limit, offset, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.SleepEntryResponse), args.Error(1)
}

func (m *MockSleepEntryUsecase) CreateEntry(ctx context.Context, req *dto.CreateSleepEntryRequest) (*dto.SleepEntryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SleepEntryResponse), args.Error(1)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestListEntriesMapsAccessDeniedTo403(t *testing.T) {
	mockUsecase := new(MockSleepEntryUsecase)
	h := NewSleepEntryHandler(mockUsecase, validator.NewValidator())

	mockUsecase.On("ListEntries", mock.Anything, 0, 0, mock.Anything).Return(nil, usecase.ErrPatientAccessDenied)

	patientID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sleep-entries?patientId="+patientID.String(), nil)
	rec := httptest.NewRecorder()

	h.ListEntries(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Access denied to this patient", resp.Message)
}

func TestListEntriesMapsMissingPatientIDTo400(t *testing.T) {
	mockUsecase := new(MockSleepEntryUsecase)
	h := NewSleepEntryHandler(mockUsecase, validator.NewValidator())

	mockUsecase.On("ListEntries", mock.Anything, 0, 0, (*uuid.UUID)(nil)).Return(nil, usecase.ErrPatientIDRequired)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sleep-entries", nil)
	rec := httptest.NewRecorder()

	h.ListEntries(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEntriesRejectsMalformedPatientID(t *testing.T) {
	mockUsecase := new(MockSleepEntryUsecase)
	h := NewSleepEntryHandler(mockUsecase, validator.NewValidator())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sleep-entries?patientId=not-a-uuid", nil)
	rec := httptest.NewRecorder()

	h.ListEntries(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockUsecase.AssertNotCalled(t, "ListEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListEntriesMapsMissingProfileTo404(t *testing.T) {
	mockUsecase := new(MockSleepEntryUsecase)
	h := NewSleepEntryHandler(mockUsecase, validator.NewValidator())

	mockUsecase.On("ListEntries", mock.Anything, 0, 0, (*uuid.UUID)(nil)).Return(nil, usecase.ErrPatientProfileNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sleep-entries", nil)
	rec := httptest.NewRecorder()

	h.ListEntries(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEntriesForwardsPagination(t *testing.T) {
	mockUsecase := new(MockSleepEntryUsecase)
	h := NewSleepEntryHandler(mockUsecase, validator.NewValidator())

	mockUsecase.On("ListEntries", mock.Anything, 20, 40, (*uuid.UUID)(nil)).Return([]dto.SleepEntryResponse{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sleep-entries?limit=20&offset=40", nil)
	rec := httptest.NewRecorder()

	h.ListEntries(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockUsecase.AssertExpectations(t)
}

func TestCreateEntryMapsRatingErrorTo400(t *testing.T) {
	mockUsecase := new(MockSleepEntryUsecase)
	h := NewSleepEntryHandler(mockUsecase, validator.NewValidator())

	ratingErr := &usecase.RatingOutOfRangeError{Field: "sleep_quality_rating", Min: 1, Max: 10}
	mockUsecase.On("CreateEntry", mock.Anything, mock.Anything).Return(nil, ratingErr)

	body, _ := json.Marshal(map[string]interface{}{
		"date":                 "2026-08-29",
		"bedtime":              "2026-08-29T22:30:00Z",
		"wake_up_time":         "2026-08-30T06:45:00Z",
		"sleep_quality_rating": 42,
		"rested_rating":        5,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sleep-entries", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateEntry(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "sleep_quality_rating must be between 1 and 10", resp.Message)
}

func TestCreateEntryRejectsMissingRatings(t *testing.T) {
	mockUsecase := new(MockSleepEntryUsecase)
	h := NewSleepEntryHandler(mockUsecase, validator.NewValidator())

	body, _ := json.Marshal(map[string]interface{}{
		"date":         "2026-08-29",
		"bedtime":      "2026-08-29T22:30:00Z",
		"wake_up_time": "2026-08-30T06:45:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sleep-entries", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateEntry(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockUsecase.AssertNotCalled(t, "CreateEntry", mock.Anything, mock.Anything)
}

func TestCreateEntryReturns201(t *testing.T) {
	mockUsecase := new(MockSleepEntryUsecase)
	h := NewSleepEntryHandler(mockUsecase, validator.NewValidator())

	created := &dto.SleepEntryResponse{ID: uuid.New(), SleepQualityRating: 7, RestedRating: 6}
	mockUsecase.On("CreateEntry", mock.Anything, mock.Anything).Return(created, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"date":                 "2026-08-29",
		"bedtime":              "2026-08-29T22:30:00Z",
		"wake_up_time":         "2026-08-30T06:45:00Z",
		"sleep_quality_rating": 7,
		"rested_rating":        6,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sleep-entries", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateEntry(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}
