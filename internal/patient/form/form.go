// Package form implements the client-side patient intake collector: a draft
// of raw field input that recomputes BMI reactively, validates against the
// patient record schema, and hands validated values to an injected submission
// callback.
package form

import (
	"context"

	"github.com/ayurdiet/platform/internal/patient"
	"github.com/ayurdiet/platform/internal/shared/errors"
)

// SubmitFunc receives the validated values when submission passes. The caller
// decides whether it creates a new record or updates an existing one.
type SubmitFunc func(ctx context.Context, values *patient.PatientRecord) error

// Form holds the draft state for one patient profile
type Form struct {
	draft      map[string]any
	fieldErrs  map[string]string
	submitting bool
	onSubmit   SubmitFunc
}

// New creates a form bound to a submission callback. initialValues may be nil
// (blank form) or pre-populate the draft for edit mode; validation rules are
// identical either way.
func New(onSubmit SubmitFunc, initialValues map[string]any) *Form {
	draft := map[string]any{
		"conditions": []string{},
		"allergies":  []string{},
	}
	for key, value := range initialValues {
		draft[key] = value
	}

	return &Form{
		draft:     draft,
		fieldErrs: map[string]string{},
		onSubmit:  onSubmit,
	}
}

// InitialValues builds edit-mode initial values from an existing record
func InitialValues(rec *patient.PatientRecord) map[string]any {
	return rec.Fields()
}

// Set writes raw field input into the draft. Numeric fields hold the raw text
// until validation coerces them. Any change to weight or height recomputes the
// derived BMI.
func (f *Form) Set(field string, value string) {
	f.draft[field] = value

	if field == "weight" || field == "height" {
		f.recomputeBMI()
	}
}

// Toggle flips set membership for a multi-select field (conditions or
// allergies): the option is added if absent and removed if present. No
// duplicates; selection order is preserved.
func (f *Form) Toggle(field string, option string) {
	current := f.selected(field)

	for i, existing := range current {
		if existing == option {
			f.draft[field] = append(append([]string{}, current[:i]...), current[i+1:]...)
			return
		}
	}
	f.draft[field] = append(append([]string{}, current...), option)
}

// Value returns the current draft value for a field
func (f *Form) Value(field string) any {
	return f.draft[field]
}

// Selected returns the current set for a multi-select field
func (f *Form) Selected(field string) []string {
	return append([]string(nil), f.selected(field)...)
}

// FieldError returns the validation message for a field from the last
// submission attempt, or "" when the field is valid
func (f *Form) FieldError(field string) string {
	return f.fieldErrs[field]
}

// Errors returns every field error from the last submission attempt
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.fieldErrs))
	for k, v := range f.fieldErrs {
		out[k] = v
	}
	return out
}

// Submitting reports whether a submission is in flight; inputs and the submit
// action are disabled while true
func (f *Form) Submitting() bool {
	return f.submitting
}

// Submit validates the draft and invokes the submission callback. When any
// field fails, submission is blocked, no partial submission happens, and the
// per-field messages are retained for display next to each offending field.
func (f *Form) Submit(ctx context.Context) error {
	if f.submitting {
		return errors.BadRequest("submission already in progress")
	}

	values, fieldErrs := patient.Validate(f.draft)
	if fieldErrs != nil {
		f.fieldErrs = fieldErrs
		return errors.Validation("validation failed", fieldErrs)
	}
	f.fieldErrs = map[string]string{}

	f.submitting = true
	defer func() { f.submitting = false }()

	return f.onSubmit(ctx, values)
}

// recomputeBMI derives bmi from the current weight and height draft values.
// The draft keeps its previous bmi when either input is missing or unparsable,
// when height is zero, or when the result is not finite.
func (f *Form) recomputeBMI() {
	rawWeight, okW := f.draft["weight"]
	rawHeight, okH := f.draft["height"]
	if !okW || !okH {
		return
	}

	weight, errW := patient.CoerceNumber(rawWeight)
	height, errH := patient.CoerceNumber(rawHeight)
	if errW != nil || errH != nil {
		return
	}

	if bmi, ok := patient.ComputeBMI(weight, height); ok {
		f.draft["bmi"] = bmi
	}
}

func (f *Form) selected(field string) []string {
	switch set := f.draft[field].(type) {
	case []string:
		return set
	case []any:
		out := make([]string, 0, len(set))
		for _, item := range set {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
