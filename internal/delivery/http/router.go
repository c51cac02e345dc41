package http

import (
	"net/http"

	"sleepdiary/internal/delivery/http/handler"
	"sleepdiary/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	authHandler       *handler.AuthHandler
	patientHandler    *handler.PatientHandler
	sleepEntryHandler *handler.SleepEntryHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	sleepEntryHandler *handler.SleepEntryHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		authHandler:       authHandler,
		patientHandler:    patientHandler,
		sleepEntryHandler: sleepEntryHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/magic-link", r.authHandler.RequestMagicLink).Methods(http.MethodPost)
	auth.HandleFunc("/magic-link/verify", r.authHandler.VerifyMagicLink).Methods(http.MethodGet, http.MethodPost)
	auth.HandleFunc("/google", r.authHandler.GoogleAuth).Methods(http.MethodGet)
	auth.HandleFunc("/google/callback", r.authHandler.GoogleCallback).Methods(http.MethodGet)
	auth.HandleFunc("/callback", r.authHandler.Callback).Methods(http.MethodGet)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Patients list (doctor only)
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.Use(middleware.RequireDoctor)
	patients.HandleFunc("", r.patientHandler.ListPatients).Methods(http.MethodGet)

	// Sleep entries: reads for both roles, writes for patients
	entries := api.PathPrefix("/sleep-entries").Subrouter()
	entries.Use(r.authMiddleware.Authenticate)
	entries.HandleFunc("", r.sleepEntryHandler.ListEntries).Methods(http.MethodGet)

	entriesWrite := api.PathPrefix("/sleep-entries").Subrouter()
	entriesWrite.Use(r.authMiddleware.Authenticate)
	entriesWrite.Use(middleware.RequirePatient)
	entriesWrite.HandleFunc("", r.sleepEntryHandler.CreateEntry).Methods(http.MethodPost)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
