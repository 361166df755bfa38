package dietplan

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayurdiet/platform/internal/patient"
	"github.com/ayurdiet/platform/internal/shared/errors"
	"github.com/ayurdiet/platform/internal/shared/metrics"
	"github.com/ayurdiet/platform/internal/shared/types"
)

// Handler serves diet plan reports for stored patients
type Handler struct {
	repo patient.Repository
}

// NewHandler creates a new diet plan handler
func NewHandler(repo patient.Repository) *Handler {
	return &Handler{repo: repo}
}

// GetDietPlan returns the generated plan for the patient in the route, or
// 404 when the patient is absent. Registered under the patient routes as
// GET /api/patients/{patientID}/diet-plan.
func (h *Handler) GetDietPlan(w http.ResponseWriter, r *http.Request) {
	id := types.ID(chi.URLParam(r, "patientID"))

	rec, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	plan := PlanFor(rec)
	metrics.RecordDietPlanServed(string(plan.Dosha))
	writeJSON(w, http.StatusOK, plan)
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
