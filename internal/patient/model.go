package patient

import (
	"math"
	"time"

	"github.com/ayurdiet/platform/internal/shared/types"
)

// Gender defines the gender of a patient
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// ActivityLevel defines the physical activity level of a patient
type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "Low"
	ActivityMedium ActivityLevel = "Medium"
	ActivityHigh   ActivityLevel = "High"
)

// Dosha defines the Ayurvedic constitutional category of a patient.
// Treated as an opaque classification; never derived from other fields.
type Dosha string

const (
	DoshaVata  Dosha = "Vata"
	DoshaPitta Dosha = "Pitta"
	DoshaKapha Dosha = "Kapha"
	DoshaMixed Dosha = "Mixed"
)

// FoodPreference defines the dietary preference of a patient
type FoodPreference string

const (
	FoodVegetarian    FoodPreference = "Vegetarian"
	FoodVegan         FoodPreference = "Vegan"
	FoodNonVegetarian FoodPreference = "Non-Vegetarian"
)

// ConditionOptions is the fixed vocabulary offered for existing conditions.
// Free additions beyond this list are accepted.
var ConditionOptions = []string{
	"Diabetes",
	"Hypertension",
	"Thyroid",
	"Digestive Issues",
	"PCOS/PCOD",
	"Cardiac Issues",
}

// AllergyOptions is the fixed vocabulary offered for allergies
var AllergyOptions = []string{
	"Gluten",
	"Lactose",
	"Nuts",
	"Soy",
	"Shellfish",
	"Eggs",
}

// PatientRecord represents a patient intake profile
type PatientRecord struct {
	ID           types.ID       `json:"id"`
	FullName     string         `json:"fullName"`
	Age          int            `json:"age"`
	Gender       Gender         `json:"gender"`
	Contact      string         `json:"contact"`
	Email        string         `json:"email"`
	Weight       float64        `json:"weight"`
	Height       float64        `json:"height"`
	BMI          float64        `json:"bmi"`
	Conditions   []string       `json:"conditions"`
	Allergies    []string       `json:"allergies"`
	Routine      string         `json:"routine"`
	SleepHours   float64        `json:"sleepHours"`
	Activity     ActivityLevel  `json:"activity"`
	Dosha        Dosha          `json:"dosha"`
	FoodPref     FoodPreference `json:"foodPref"`
	Restrictions string         `json:"restrictions,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsValid checks whether g is a known gender value
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// IsValid checks whether a is a known activity level
func (a ActivityLevel) IsValid() bool {
	switch a {
	case ActivityLow, ActivityMedium, ActivityHigh:
		return true
	}
	return false
}

// IsValid checks whether d is a known dosha
func (d Dosha) IsValid() bool {
	switch d {
	case DoshaVata, DoshaPitta, DoshaKapha, DoshaMixed:
		return true
	}
	return false
}

// IsValid checks whether f is a known food preference
func (f FoodPreference) IsValid() bool {
	switch f {
	case FoodVegetarian, FoodVegan, FoodNonVegetarian:
		return true
	}
	return false
}

// ComputeBMI derives the body mass index from weight (kg) and height (cm),
// rounded to one decimal place. Returns false when either input is zero or
// non-finite, or when the result would not be finite; callers must leave any
// previously computed value unchanged in that case.
func ComputeBMI(weight, height float64) (float64, bool) {
	if weight == 0 || height == 0 {
		return 0, false
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || math.IsNaN(height) || math.IsInf(height, 0) {
		return 0, false
	}

	meters := height / 100
	bmi := weight / (meters * meters)
	if math.IsNaN(bmi) || math.IsInf(bmi, 0) {
		return 0, false
	}

	return math.Round(bmi*10) / 10, true
}

// Fields returns the wire representation of the client-supplied fields,
// excluding the server-managed id and timestamps. Used to build create and
// update payloads.
func (p *PatientRecord) Fields() map[string]any {
	fields := map[string]any{
		"fullName":   p.FullName,
		"age":        p.Age,
		"gender":     string(p.Gender),
		"contact":    p.Contact,
		"email":      p.Email,
		"weight":     p.Weight,
		"height":     p.Height,
		"bmi":        p.BMI,
		"conditions": p.Conditions,
		"allergies":  p.Allergies,
		"routine":    p.Routine,
		"sleepHours": p.SleepHours,
		"activity":   string(p.Activity),
		"dosha":      string(p.Dosha),
		"foodPref":   string(p.FoodPref),
	}
	if p.Restrictions != "" {
		fields["restrictions"] = p.Restrictions
	}
	return fields
}
