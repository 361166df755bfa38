package patient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestHandler(t *testing.T) (*Handler, *Store) {
	t.Helper()
	store := NewStore()
	return NewHandler(store, nil), store
}

func validBody() map[string]any {
	return map[string]any{
		"fullName":   "Test User",
		"age":        30,
		"gender":     "Male",
		"contact":    "9999999999",
		"email":      "t@example.com",
		"weight":     70,
		"height":     175,
		"bmi":        22.9,
		"conditions": []string{},
		"allergies":  []string{},
		"routine":    "desk job",
		"sleepHours": 7,
		"activity":   "Medium",
		"dosha":      "Pitta",
		"foodPref":   "Vegetarian",
	}
}

func doRequest(t *testing.T, h *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestListPatientsEmpty(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Patients []PatientRecord `json:"patients"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Patients) != 0 {
		t.Errorf("Expected empty list, got %d records", len(resp.Patients))
	}
}

func TestListPatientsNewestFirst(t *testing.T) {
	h, store := newTestHandler(t)
	if err := store.Seed(context.Background()); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	rec := doRequest(t, h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Patients []PatientRecord `json:"patients"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Patients) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(resp.Patients))
	}
	if resp.Patients[0].FullName != "Ananya Gupta" {
		t.Errorf("Expected 'Ananya Gupta' first, got '%s'", resp.Patients[0].FullName)
	}
}

func TestGetPatientNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/does-not-exist", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["error"] != "Not found" {
		t.Errorf("Expected error 'Not found', got '%v'", resp["error"])
	}
}

func TestCreatePatient(t *testing.T) {
	h, store := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/", validBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created PatientRecord
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("Created record should carry a server-assigned id")
	}
	if created.FullName != "Test User" {
		t.Errorf("Expected 'Test User', got '%s'", created.FullName)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("Created record should carry timestamps")
	}

	// Stored, not just echoed
	stored, err := store.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Created record not retrievable: %v", err)
	}
	if stored.Email != "t@example.com" {
		t.Errorf("Expected stored email 't@example.com', got '%s'", stored.Email)
	}
}

func TestCreatePatientCoercesNumbers(t *testing.T) {
	h, _ := newTestHandler(t)

	body := validBody()
	body["age"] = "30"
	body["weight"] = "70.5"

	rec := doRequest(t, h, http.MethodPost, "/", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created PatientRecord
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if created.Age != 30 {
		t.Errorf("Expected age 30, got %d", created.Age)
	}
	if created.Weight != 70.5 {
		t.Errorf("Expected weight 70.5, got %v", created.Weight)
	}
}

func TestCreatePatientValidationFailure(t *testing.T) {
	h, store := newTestHandler(t)

	body := validBody()
	body["email"] = "not-an-email"
	delete(body, "fullName")

	rec := doRequest(t, h, http.MethodPost, "/", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	var resp struct {
		Error   string            `json:"error"`
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code 'VALIDATION_ERROR', got '%s'", resp.Code)
	}
	if resp.Details["email"] != "Enter a valid email" {
		t.Errorf("Expected email error 'Enter a valid email', got '%s'", resp.Details["email"])
	}
	if resp.Details["fullName"] == "" {
		t.Error("Expected a fullName error in details")
	}

	// Nothing persisted
	list, _ := store.List(context.Background())
	if len(list) != 0 {
		t.Errorf("Rejected submission must not be stored, found %d records", len(list))
	}
}

func TestCreatePatientMalformedBody(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestUpdatePatient(t *testing.T) {
	h, store := newTestHandler(t)
	created, err := store.Create(context.Background(), testRecord("Test User"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rec := doRequest(t, h, http.MethodPut, "/"+created.ID.String(), map[string]any{
		"weight": 80,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated PatientRecord
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if updated.Weight != 80 {
		t.Errorf("Expected weight 80, got %v", updated.Weight)
	}
	if updated.FullName != "Test User" {
		t.Errorf("Absent fields must be preserved, got '%s'", updated.FullName)
	}
	if updated.BMI != created.BMI {
		t.Errorf("BMI must not be recomputed on update, got %v", updated.BMI)
	}
}

func TestUpdatePatientNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPut, "/missing-id", map[string]any{"weight": 80})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["error"] != "Not found" {
		t.Errorf("Expected error 'Not found', got '%v'", resp["error"])
	}
}

func TestUpdatePatientInvalidField(t *testing.T) {
	h, store := newTestHandler(t)
	created, err := store.Create(context.Background(), testRecord("Test User"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rec := doRequest(t, h, http.MethodPut, "/"+created.ID.String(), map[string]any{
		"email": "broken",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	after, _ := store.Get(context.Background(), created.ID)
	if after.Email != created.Email {
		t.Error("Rejected update must not mutate the record")
	}
}
