package patient

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayurdiet/platform/internal/shared/errors"
	"github.com/ayurdiet/platform/internal/shared/metrics"
	"github.com/ayurdiet/platform/internal/shared/types"
)

// Handler provides HTTP handlers for the patient module
type Handler struct {
	repo Repository

	// dietPlan, when set, is registered as GET /{patientID}/diet-plan.
	// Injected as a plain handler so the report module stays decoupled.
	dietPlan http.HandlerFunc
}

// NewHandler creates a new patient handler. dietPlan may be nil.
func NewHandler(repo Repository, dietPlan http.HandlerFunc) *Handler {
	return &Handler{repo: repo, dietPlan: dietPlan}
}

// Routes registers the patient routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPatients)
	r.Post("/", h.CreatePatient)

	r.Route("/{patientID}", func(r chi.Router) {
		r.Get("/", h.GetPatient)
		r.Put("/", h.UpdatePatient)

		if h.dietPlan != nil {
			r.Get("/diet-plan", h.dietPlan)
		}
	})

	return r
}

// ListPatients returns every stored record, newest-created first
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"patients": patients,
	})
}

// GetPatient returns the record with the given id. Ids are opaque strings on
// the wire; an unknown id is a 404, never a 400.
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id := types.ID(chi.URLParam(r, "patientID"))

	rec, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// CreatePatient validates the candidate against the record schema and stores
// it. Duplicate submissions create duplicate records; there is no idempotency
// key handling.
func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var candidate map[string]any
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	rec, fieldErrs := Validate(candidate)
	if fieldErrs != nil {
		metrics.RecordValidationFailure("create")
		writeError(w, errors.Validation("validation failed", fieldErrs))
		return
	}

	created, err := h.repo.Create(r.Context(), rec)
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordPatientCreated()
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePatient validates the fields present in the body and shallow-merges
// them onto the existing record. BMI is stored as supplied, not recomputed.
func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id := types.ID(chi.URLParam(r, "patientID"))

	var candidate map[string]any
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	partial, fieldErrs := ValidatePartial(candidate)
	if fieldErrs != nil {
		metrics.RecordValidationFailure("update")
		writeError(w, errors.Validation("validation failed", fieldErrs))
		return
	}

	updated, err := h.repo.Update(r.Context(), id, partial)
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordPatientUpdated()
	writeJSON(w, http.StatusOK, updated)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
