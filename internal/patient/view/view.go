// Package view implements the patient management view: it composes the
// intake form with the patient API client to support create-new and
// search/select/update-existing workflows.
package view

import (
	"context"
	"strings"

	"github.com/ayurdiet/platform/internal/patient"
	"github.com/ayurdiet/platform/internal/patient/form"
	"github.com/ayurdiet/platform/internal/shared/errors"
	"github.com/ayurdiet/platform/internal/shared/types"
)

// Tab identifies which workflow the view is showing
type Tab string

const (
	TabNew      Tab = "new"
	TabExisting Tab = "existing"
)

// View holds the management screen state: the active tab, the fetched list,
// the search query, the current selection, and the bound intake form.
type View struct {
	client   *Client
	tab      Tab
	list     []patient.PatientRecord
	query    string
	selected *patient.PatientRecord
	form     *form.Form
	lastErr  error
}

// NewView creates a management view starting on the new-patient tab
func NewView(client *Client) *View {
	v := &View{client: client}
	v.OpenNewPatient()
	return v
}

// Tab returns the active tab
func (v *View) Tab() Tab {
	return v.tab
}

// OpenNewPatient switches to the create workflow with a blank form
func (v *View) OpenNewPatient() {
	v.tab = TabNew
	v.selected = nil
	v.form = form.New(v.createPatient, nil)
}

// OpenExisting switches to the search/select/update workflow and fetches the
// full list. A fetch failure is recorded and returned; the caller offers a
// manual Reload, never an automatic retry.
func (v *View) OpenExisting(ctx context.Context) error {
	v.tab = TabExisting
	return v.Reload(ctx)
}

// Reload refetches the patient list
func (v *View) Reload(ctx context.Context) error {
	list, err := v.client.ListPatients(ctx)
	if err != nil {
		v.lastErr = err
		return err
	}
	v.lastErr = nil
	v.list = list
	return nil
}

// SetQuery sets the search query
func (v *View) SetQuery(query string) {
	v.query = query
}

// Patients returns the fetched list filtered by case-insensitive substring
// match on full name. Filtering is local; the server returns the full set.
func (v *View) Patients() []patient.PatientRecord {
	if v.query == "" {
		return append([]patient.PatientRecord(nil), v.list...)
	}

	needle := strings.ToLower(v.query)
	var filtered []patient.PatientRecord
	for _, rec := range v.list {
		if strings.Contains(strings.ToLower(rec.FullName), needle) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// Select picks a patient from the fetched list and binds the form in edit
// mode, pre-populated with the record's values
func (v *View) Select(id types.ID) error {
	for i := range v.list {
		if v.list[i].ID == id {
			rec := v.list[i]
			v.selected = &rec
			v.form = form.New(v.updateSelected, form.InitialValues(&rec))
			return nil
		}
	}
	return errors.NotFound("patient", id.String())
}

// Selected returns the currently selected patient, or nil
func (v *View) Selected() *patient.PatientRecord {
	return v.selected
}

// Form returns the bound intake form for the active workflow
func (v *View) Form() *form.Form {
	return v.form
}

// LastError returns the most recent fetch failure, cleared by a successful
// Reload
func (v *View) LastError() error {
	return v.lastErr
}

// createPatient is the submission callback for the new-patient workflow: it
// creates the record, prepends it to the local list, selects it, and switches
// to the existing tab for further edits.
func (v *View) createPatient(ctx context.Context, values *patient.PatientRecord) error {
	created, err := v.client.CreatePatient(ctx, values)
	if err != nil {
		v.lastErr = err
		return err
	}

	v.lastErr = nil
	v.list = append([]patient.PatientRecord{*created}, v.list...)
	v.selected = created
	v.tab = TabExisting
	v.form = form.New(v.updateSelected, form.InitialValues(created))
	return nil
}

// updateSelected is the submission callback for the edit workflow: it updates
// the selected record and replaces it in the local list.
func (v *View) updateSelected(ctx context.Context, values *patient.PatientRecord) error {
	if v.selected == nil {
		return errors.BadRequest("no patient selected")
	}

	updated, err := v.client.UpdatePatient(ctx, v.selected.ID, values.Fields())
	if err != nil {
		v.lastErr = err
		return err
	}

	v.lastErr = nil
	for i := range v.list {
		if v.list[i].ID == updated.ID {
			v.list[i] = *updated
			break
		}
	}
	v.selected = updated
	return nil
}
