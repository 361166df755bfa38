package patient

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// emailRegex accepts the usual local@domain.tld shape without attempting full
// RFC 5322 coverage
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CoerceNumber converts string-coercible input (raw text-field values, JSON
// numbers) to a float64. Coercion failure is reported as an error, never a
// panic.
func CoerceNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return 0, fmt.Errorf("empty value")
		}
		return strconv.ParseFloat(trimmed, 64)
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}

// coerceString converts a candidate value to a string
func coerceString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// coerceStringSet converts a candidate value to a string slice, accepting
// both []string and the []any produced by JSON decoding
func coerceStringSet(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case nil:
		return []string{}, true
	default:
		return nil, false
	}
}

// serverManagedFields are dropped from candidates before validation: the
// store owns them and clients echoing a fetched record back must not trip
// the unknown-field check.
var serverManagedFields = map[string]bool{
	"id":        true,
	"createdAt": true,
	"updatedAt": true,
}

// Validate checks a full candidate against the patient record schema. On
// success it returns the normalized record (id and timestamps unset) and a
// nil error map; on failure it returns nil and one message per invalid field,
// keyed by field name. The candidate is never mutated.
func Validate(candidate map[string]any) (*PatientRecord, map[string]string) {
	errs := make(map[string]string)
	rec := &PatientRecord{
		Conditions: []string{},
		Allergies:  []string{},
	}

	for key, value := range candidate {
		if serverManagedFields[key] {
			continue
		}
		normalized, msg := validateField(key, value)
		if msg != "" {
			errs[key] = msg
			continue
		}
		assignField(rec, key, normalized)
	}

	// Required fields must be present in the candidate
	for _, key := range requiredFields {
		if _, present := candidate[key]; !present {
			if _, already := errs[key]; !already {
				errs[key] = requiredMessage(key)
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rec, nil
}

// ValidatePartial checks only the fields present in the candidate, returning
// the normalized partial for shallow merging. Server-managed fields are
// dropped; unknown fields are rejected. The candidate is never mutated.
func ValidatePartial(candidate map[string]any) (map[string]any, map[string]string) {
	errs := make(map[string]string)
	normalized := make(map[string]any, len(candidate))

	for key, value := range candidate {
		if serverManagedFields[key] {
			continue
		}
		v, msg := validateField(key, value)
		if msg != "" {
			errs[key] = msg
			continue
		}
		normalized[key] = v
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return normalized, nil
}

// requiredFields lists every field a full candidate must carry.
// conditions, allergies and restrictions are defaulted instead.
var requiredFields = []string{
	"fullName", "age", "gender", "contact", "email",
	"weight", "height", "bmi", "routine", "sleepHours",
	"activity", "dosha", "foodPref",
}

func requiredMessage(key string) string {
	switch key {
	case "fullName":
		return "Full Name is required"
	case "routine":
		return "Daily Routine is required"
	case "gender":
		return "Gender is required"
	case "activity":
		return "Select activity"
	case "dosha":
		return "Select dosha"
	case "foodPref":
		return "Select food preference"
	case "bmi":
		return "BMI will be calculated from weight and height"
	default:
		return key + " is required"
	}
}

// validateField checks a single field value and returns its normalized form,
// or a non-empty message describing why it is invalid
func validateField(key string, value any) (any, string) {
	switch key {
	case "fullName":
		s, ok := coerceString(value)
		if !ok || len(s) < 1 {
			return nil, "Full Name is required"
		}
		return s, ""

	case "age":
		n, err := CoerceNumber(value)
		if err != nil || n != math.Trunc(n) || n < 1 || n > 120 {
			return nil, "Age must be a whole number between 1 and 120"
		}
		return int(n), ""

	case "gender":
		s, _ := coerceString(value)
		g := Gender(s)
		if !g.IsValid() {
			return nil, "Gender is required"
		}
		return g, ""

	case "contact":
		s, ok := coerceString(value)
		if !ok || len(s) < 7 || len(s) > 20 {
			return nil, "Enter a valid contact"
		}
		return s, ""

	case "email":
		s, ok := coerceString(value)
		if !ok || !emailRegex.MatchString(s) {
			return nil, "Enter a valid email"
		}
		return s, ""

	case "weight":
		n, err := CoerceNumber(value)
		if err != nil || n <= 0 || math.IsInf(n, 0) || math.IsNaN(n) {
			return nil, "Weight must be a positive number"
		}
		return n, ""

	case "height":
		n, err := CoerceNumber(value)
		if err != nil || n <= 0 || math.IsInf(n, 0) || math.IsNaN(n) {
			return nil, "Height must be a positive number"
		}
		return n, ""

	case "bmi":
		n, err := CoerceNumber(value)
		if err != nil || n <= 0 || math.IsInf(n, 0) || math.IsNaN(n) {
			return nil, "BMI must be a positive number"
		}
		return n, ""

	case "conditions":
		set, ok := coerceStringSet(value)
		if !ok {
			return nil, "Conditions must be a list of strings"
		}
		return set, ""

	case "allergies":
		set, ok := coerceStringSet(value)
		if !ok {
			return nil, "Allergies must be a list of strings"
		}
		return set, ""

	case "routine":
		s, ok := coerceString(value)
		if !ok || len(s) < 1 {
			return nil, "Daily Routine is required"
		}
		return s, ""

	case "sleepHours":
		n, err := CoerceNumber(value)
		if err != nil || n < 0 || n > 24 {
			return nil, "Sleep hours must be between 0 and 24"
		}
		return n, ""

	case "activity":
		s, _ := coerceString(value)
		a := ActivityLevel(s)
		if !a.IsValid() {
			return nil, "Select activity"
		}
		return a, ""

	case "dosha":
		s, _ := coerceString(value)
		d := Dosha(s)
		if !d.IsValid() {
			return nil, "Select dosha"
		}
		return d, ""

	case "foodPref":
		s, _ := coerceString(value)
		f := FoodPreference(s)
		if !f.IsValid() {
			return nil, "Select food preference"
		}
		return f, ""

	case "restrictions":
		if value == nil {
			return "", ""
		}
		s, ok := coerceString(value)
		if !ok {
			return nil, "Restrictions must be text"
		}
		return s, ""

	default:
		return nil, "Unknown field"
	}
}

// assignField writes a normalized value into the record
func assignField(rec *PatientRecord, key string, value any) {
	switch key {
	case "fullName":
		rec.FullName = value.(string)
	case "age":
		rec.Age = value.(int)
	case "gender":
		rec.Gender = value.(Gender)
	case "contact":
		rec.Contact = value.(string)
	case "email":
		rec.Email = value.(string)
	case "weight":
		rec.Weight = value.(float64)
	case "height":
		rec.Height = value.(float64)
	case "bmi":
		rec.BMI = value.(float64)
	case "conditions":
		rec.Conditions = value.([]string)
	case "allergies":
		rec.Allergies = value.([]string)
	case "routine":
		rec.Routine = value.(string)
	case "sleepHours":
		rec.SleepHours = value.(float64)
	case "activity":
		rec.Activity = value.(ActivityLevel)
	case "dosha":
		rec.Dosha = value.(Dosha)
	case "foodPref":
		rec.FoodPref = value.(FoodPreference)
	case "restrictions":
		rec.Restrictions = value.(string)
	}
}
