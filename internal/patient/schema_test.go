package patient

import (
	"encoding/json"
	"reflect"
	"testing"
)

func validCandidate() map[string]any {
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

func TestValidateAcceptsFullCandidate(t *testing.T) {
	rec, errs := Validate(validCandidate())
	if errs != nil {
		t.Fatalf("Expected no validation errors, got %v", errs)
	}

	if rec.FullName != "Test User" {
		t.Errorf("Expected fullName 'Test User', got '%s'", rec.FullName)
	}
	if rec.Age != 30 {
		t.Errorf("Expected age 30, got %d", rec.Age)
	}
	if rec.Gender != GenderMale {
		t.Errorf("Expected gender Male, got '%s'", rec.Gender)
	}
	if rec.BMI != 22.9 {
		t.Errorf("Expected bmi 22.9, got %v", rec.BMI)
	}
	if rec.Dosha != DoshaPitta {
		t.Errorf("Expected dosha Pitta, got '%s'", rec.Dosha)
	}
	if !rec.ID.IsZero() {
		t.Error("Validation must not assign an id")
	}
}

func TestValidateCoercesStringNumbers(t *testing.T) {
	candidate := validCandidate()
	candidate["age"] = "30"
	candidate["weight"] = "70.5"
	candidate["height"] = "175"
	candidate["bmi"] = "23.0"
	candidate["sleepHours"] = "7.5"

	rec, errs := Validate(candidate)
	if errs != nil {
		t.Fatalf("Expected string-coercible numbers to validate, got %v", errs)
	}
	if rec.Age != 30 {
		t.Errorf("Expected age 30, got %d", rec.Age)
	}
	if rec.Weight != 70.5 {
		t.Errorf("Expected weight 70.5, got %v", rec.Weight)
	}
	if rec.SleepHours != 7.5 {
		t.Errorf("Expected sleepHours 7.5, got %v", rec.SleepHours)
	}
}

func TestValidateDefaults(t *testing.T) {
	candidate := validCandidate()
	delete(candidate, "conditions")
	delete(candidate, "allergies")

	rec, errs := Validate(candidate)
	if errs != nil {
		t.Fatalf("Expected no validation errors, got %v", errs)
	}
	if rec.Conditions == nil || len(rec.Conditions) != 0 {
		t.Errorf("Expected conditions to default to an empty set, got %v", rec.Conditions)
	}
	if rec.Allergies == nil || len(rec.Allergies) != 0 {
		t.Errorf("Expected allergies to default to an empty set, got %v", rec.Allergies)
	}
	if rec.Restrictions != "" {
		t.Errorf("Expected restrictions to default to empty, got '%s'", rec.Restrictions)
	}
}

func TestValidateFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
	}{
		{"empty fullName", "fullName", ""},
		{"age too low", "age", 0},
		{"age too high", "age", 121},
		{"fractional age", "age", 30.5},
		{"age not a number", "age", "thirty"},
		{"unknown gender", "gender", "Unknown"},
		{"contact too short", "contact", "123456"},
		{"contact too long", "contact", "123456789012345678901"},
		{"bad email", "email", "not-an-email"},
		{"zero weight", "weight", 0},
		{"negative weight", "weight", -5},
		{"zero height", "height", 0},
		{"zero bmi", "bmi", 0},
		{"conditions not a list", "conditions", "Diabetes"},
		{"empty routine", "routine", ""},
		{"negative sleep", "sleepHours", -1},
		{"too much sleep", "sleepHours", 25},
		{"unknown activity", "activity", "Extreme"},
		{"unknown dosha", "dosha", "Tridosha"},
		{"unknown foodPref", "foodPref", "Pescatarian"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := validCandidate()
			candidate[tt.field] = tt.value

			rec, errs := Validate(candidate)
			if rec != nil {
				t.Fatal("Expected validation to fail")
			}
			if errs[tt.field] == "" {
				t.Errorf("Expected an error keyed by field '%s', got %v", tt.field, errs)
			}
			if len(errs) != 1 {
				t.Errorf("Expected exactly one field error, got %v", errs)
			}
		})
	}
}

func TestValidateMissingRequiredFields(t *testing.T) {
	_, errs := Validate(map[string]any{})
	if errs == nil {
		t.Fatal("Expected validation to fail for an empty candidate")
	}

	for _, field := range []string{"fullName", "age", "gender", "email", "weight", "height", "dosha"} {
		if errs[field] == "" {
			t.Errorf("Expected a message for missing field '%s'", field)
		}
	}
}

func TestValidateReportsEveryInvalidField(t *testing.T) {
	candidate := validCandidate()
	candidate["fullName"] = ""
	candidate["age"] = 0
	candidate["email"] = "nope"

	_, errs := Validate(candidate)
	if len(errs) != 3 {
		t.Fatalf("Expected one message per invalid field, got %v", errs)
	}
}

func TestValidateDoesNotMutateCandidate(t *testing.T) {
	candidate := validCandidate()
	candidate["age"] = "30"
	before := make(map[string]any, len(candidate))
	for k, v := range candidate {
		before[k] = v
	}

	Validate(candidate)

	if !reflect.DeepEqual(candidate, before) {
		t.Error("Validation must not mutate its input")
	}
}

func TestValidateIgnoresServerManagedFields(t *testing.T) {
	candidate := validCandidate()
	candidate["id"] = "client-chosen-id"
	candidate["createdAt"] = "2024-01-01T00:00:00Z"
	candidate["updatedAt"] = "2024-01-01T00:00:00Z"

	rec, errs := Validate(candidate)
	if errs != nil {
		t.Fatalf("Expected server-managed fields to be ignored, got %v", errs)
	}
	if !rec.ID.IsZero() {
		t.Error("A client-supplied id must be dropped")
	}
}

func TestValidateRejectsUnknownFields(t *testing.T) {
	candidate := validCandidate()
	candidate["favouriteColour"] = "green"

	_, errs := Validate(candidate)
	if errs["favouriteColour"] == "" {
		t.Errorf("Expected unknown field to be rejected, got %v", errs)
	}
}

// Validating, serializing, and re-validating a record must yield the
// identical record.
func TestValidateRoundTripIdempotent(t *testing.T) {
	first, errs := Validate(validCandidate())
	if errs != nil {
		t.Fatalf("Expected no validation errors, got %v", errs)
	}

	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Failed to marshal record: %v", err)
	}

	var candidate map[string]any
	if err := json.Unmarshal(encoded, &candidate); err != nil {
		t.Fatalf("Failed to unmarshal record: %v", err)
	}

	second, errs := Validate(candidate)
	if errs != nil {
		t.Fatalf("Expected re-validation to pass, got %v", errs)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Round-trip record differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestValidatePartial(t *testing.T) {
	partial, errs := ValidatePartial(map[string]any{"weight": 80})
	if errs != nil {
		t.Fatalf("Expected partial to validate, got %v", errs)
	}
	if len(partial) != 1 {
		t.Fatalf("Expected exactly the present field, got %v", partial)
	}
	if partial["weight"] != float64(80) {
		t.Errorf("Expected normalized weight 80, got %v", partial["weight"])
	}
}

func TestValidatePartialRejectsInvalidPresentField(t *testing.T) {
	_, errs := ValidatePartial(map[string]any{"weight": -2, "fullName": "Still Fine"})
	if errs["weight"] == "" {
		t.Errorf("Expected weight to be rejected, got %v", errs)
	}
	if len(errs) != 1 {
		t.Errorf("Expected only the invalid field to error, got %v", errs)
	}
}

func TestValidatePartialDropsServerManagedFields(t *testing.T) {
	partial, errs := ValidatePartial(map[string]any{"id": "overwrite-attempt", "age": 40})
	if errs != nil {
		t.Fatalf("Expected partial to validate, got %v", errs)
	}
	if _, present := partial["id"]; present {
		t.Error("Partial validation must drop the id field")
	}
	if partial["age"] != 40 {
		t.Errorf("Expected age 40, got %v", partial["age"])
	}
}
