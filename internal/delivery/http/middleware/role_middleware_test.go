package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sleepdiary/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func requestWithRole(role entity.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	ctx := context.WithValue(req.Context(), RoleKey, role)
	return req.WithContext(ctx)
}

func TestRequireDoctorAllowsDoctor(t *testing.T) {
	called := false
	handler := RequireDoctor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(entity.RoleDoctor))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireDoctorRejectsPatient(t *testing.T) {
	called := false
	handler := RequireDoctor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(entity.RolePatient))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePatientRejectsDoctor(t *testing.T) {
	handler := RequirePatient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(entity.RoleDoctor))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleWithoutClaimsIsUnauthorized(t *testing.T) {
	handler := RequireDoctor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
