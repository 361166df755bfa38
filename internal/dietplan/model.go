// Package dietplan serves the generated Ayurvedic diet recommendation for a
// patient. The dosha and meal content is static sample material keyed by the
// patient's recorded dosha and food preference; nothing here infers or
// computes a constitution.
package dietplan

import (
	"github.com/ayurdiet/platform/internal/patient"
)

// Balance describes the dosha distribution shown in the analysis header
type Balance struct {
	Vata  int `json:"vata"`
	Pitta int `json:"pitta"`
	Kapha int `json:"kapha"`
}

// MealRow is one line of the daily diet chart
type MealRow struct {
	Meal string `json:"meal"`
	Item string `json:"item"`
}

// Plan is the personalized diet report for one patient
type Plan struct {
	PatientID   string                 `json:"patientId"`
	FullName    string                 `json:"fullName"`
	Dosha       patient.Dosha          `json:"dosha"`
	FoodPref    patient.FoodPreference `json:"foodPref"`
	Balance     Balance                `json:"balance"`
	Guidance    string                 `json:"guidance"`
	BMI         float64                `json:"bmi"`
	BMICategory string                 `json:"bmiCategory"`
	Meals       []MealRow              `json:"meals"`
	Nutrients   []string               `json:"nutrients"`
}

// balances maps each dosha to its sample distribution and guidance line
var balances = map[patient.Dosha]struct {
	balance  Balance
	guidance string
}{
	patient.DoshaVata: {
		Balance{Vata: 40, Pitta: 35, Kapha: 25},
		"You have a dominant Vata imbalance; foods that are warm, grounding, and oily will help balance it.",
	},
	patient.DoshaPitta: {
		Balance{Vata: 25, Pitta: 45, Kapha: 30},
		"You have a dominant Pitta imbalance; foods that are cooling, mildly spiced, and hydrating will help balance it.",
	},
	patient.DoshaKapha: {
		Balance{Vata: 25, Pitta: 30, Kapha: 45},
		"You have a dominant Kapha imbalance; foods that are light, warm, and gently stimulating will help balance it.",
	},
	patient.DoshaMixed: {
		Balance{Vata: 34, Pitta: 33, Kapha: 33},
		"Your constitution is mixed; a balanced routine with seasonal adjustments suits you best.",
	},
}

// meals maps a food preference to the sample daily chart
var meals = map[patient.FoodPreference][]MealRow{
	patient.FoodVegetarian: {
		{Meal: "Breakfast", Item: "Moong Dal Khichdi — Protein: 14g, Calories: 320 | Laghu (light), balances Pitta."},
		{Meal: "Lunch", Item: "Steamed Rice & Veg Curry — Protein: 12g, Calories: 450 | Snigdha (unctuous), grounds Vata."},
		{Meal: "Dinner", Item: "Roti with Ghee & Dal — Protein: 16g, Calories: 400 | Ushna (warming), aids digestion."},
		{Meal: "Snacks", Item: "Soaked Almonds & Herbal Tea — Healthy fats | Balances Vata."},
	},
	patient.FoodVegan: {
		{Meal: "Breakfast", Item: "Moong Dal Khichdi with Sesame Oil — Protein: 14g, Calories: 310 | Laghu (light), balances Pitta."},
		{Meal: "Lunch", Item: "Steamed Rice & Veg Curry — Protein: 12g, Calories: 450 | Snigdha (unctuous), grounds Vata."},
		{Meal: "Dinner", Item: "Roti with Sesame Oil & Dal — Protein: 16g, Calories: 380 | Ushna (warming), aids digestion."},
		{Meal: "Snacks", Item: "Soaked Almonds & Herbal Tea — Healthy fats | Balances Vata."},
	},
	patient.FoodNonVegetarian: {
		{Meal: "Breakfast", Item: "Moong Dal Khichdi — Protein: 14g, Calories: 320 | Laghu (light), balances Pitta."},
		{Meal: "Lunch", Item: "Steamed Rice & Light Chicken Curry — Protein: 24g, Calories: 520 | Snigdha (unctuous), grounds Vata."},
		{Meal: "Dinner", Item: "Roti with Ghee & Dal — Protein: 16g, Calories: 400 | Ushna (warming), aids digestion."},
		{Meal: "Snacks", Item: "Soaked Almonds & Herbal Tea — Healthy fats | Balances Vata."},
	},
}

// nutrients is the sample nutrient insight block
var nutrients = []string{
	"Rich in Vitamin A, C; Minerals: Iron, Magnesium.",
	"Balanced macronutrients suitable for dosha pacification.",
}

// PlanFor assembles the static plan for a patient record
func PlanFor(rec *patient.PatientRecord) Plan {
	entry, ok := balances[rec.Dosha]
	if !ok {
		entry = balances[patient.DoshaMixed]
	}

	chart, ok := meals[rec.FoodPref]
	if !ok {
		chart = meals[patient.FoodVegetarian]
	}

	return Plan{
		PatientID:   rec.ID.String(),
		FullName:    rec.FullName,
		Dosha:       rec.Dosha,
		FoodPref:    rec.FoodPref,
		Balance:     entry.balance,
		Guidance:    entry.guidance,
		BMI:         rec.BMI,
		BMICategory: BMICategory(rec.BMI),
		Meals:       append([]MealRow(nil), chart...),
		Nutrients:   append([]string(nil), nutrients...),
	}
}

// BMICategory buckets a BMI value using the standard thresholds
func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0:
		return "Unknown"
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}
