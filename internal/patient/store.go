package patient

import (
	"context"
	"sync"
	"time"

	"github.com/ayurdiet/platform/internal/shared/errors"
	"github.com/ayurdiet/platform/internal/shared/types"
)

// Repository is the storage capability the API handlers depend on. The
// in-memory Store is the only implementation in this scope; a persistent
// implementation can be swapped in without touching the handlers.
type Repository interface {
	List(ctx context.Context) ([]PatientRecord, error)
	Get(ctx context.Context, id types.ID) (*PatientRecord, error)
	Create(ctx context.Context, rec *PatientRecord) (*PatientRecord, error)
	Update(ctx context.Context, id types.ID, partial map[string]any) (*PatientRecord, error)
}

// Store is an in-memory patient collection ordered newest-created first.
// It lives for the process lifetime and is discarded on exit.
//
// The store trusts its caller to have validated writes: Create expects a
// schema-normalized record and Update a schema-normalized partial. That
// boundary belongs to the API layer.
type Store struct {
	mu      sync.RWMutex
	records []*PatientRecord
	byID    map[types.ID]*PatientRecord
}

// NewStore creates an empty in-memory patient store
func NewStore() *Store {
	return &Store{
		byID: make(map[types.ID]*PatientRecord),
	}
}

// List returns the current records, newest-created first. No pagination and
// no filtering; filtering is a client-side responsibility over the full set.
func (s *Store) List(ctx context.Context) ([]PatientRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]PatientRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec.clone())
	}
	return out, nil
}

// Get retrieves a record by id
func (s *Store) Get(ctx context.Context, id types.ID) (*PatientRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, errors.NotFound("patient", id.String())
	}
	return rec.clone(), nil
}

// Create assigns a fresh unique id, prepends the record, and returns the
// stored record. The id namespace is checked against the store so two
// near-simultaneous creates can never collide.
func (s *Store) Create(ctx context.Context, rec *PatientRecord) (*PatientRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := types.NewID()
	for {
		if _, taken := s.byID[id]; !taken {
			break
		}
		id = types.NewID()
	}

	stored := rec.clone()
	stored.ID = id
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Conditions == nil {
		stored.Conditions = []string{}
	}
	if stored.Allergies == nil {
		stored.Allergies = []string{}
	}

	s.records = append([]*PatientRecord{stored}, s.records...)
	s.byID[id] = stored

	return stored.clone(), nil
}

// Update shallow-merges the normalized partial onto the existing record:
// each present key overwrites, absent keys keep their old value. Fails with
// NotFound when the id is absent, leaving the store unchanged. BMI is stored
// as supplied; it is never recomputed here.
func (s *Store) Update(ctx context.Context, id types.ID, partial map[string]any) (*PatientRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[id]
	if !ok {
		return nil, errors.NotFound("patient", id.String())
	}

	updated := existing.clone()
	for key, value := range partial {
		assignField(updated, key, value)
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	*existing = *updated
	return updated.clone(), nil
}

// Seed loads the two sample patients the application boots with. Ids are
// deterministic so restarts produce stable references in development.
func (s *Store) Seed(ctx context.Context) error {
	ananyaBMI, _ := ComputeBMI(62, 165)
	rahulBMI, _ := ComputeBMI(75, 172)

	seeds := []*PatientRecord{
		{
			ID:           types.NewDeterministicID("patient", "ananya-gupta"),
			FullName:     "Ananya Gupta",
			Age:          32,
			Gender:       GenderFemale,
			Contact:      "9876543210",
			Email:        "ananya@example.com",
			Weight:       62,
			Height:       165,
			BMI:          ananyaBMI,
			Conditions:   []string{"Thyroid"},
			Allergies:    []string{"Lactose"},
			Routine:      "Office 9-6, evening walk",
			SleepHours:   7,
			Activity:     ActivityMedium,
			Dosha:        DoshaVata,
			FoodPref:     FoodVegetarian,
			Restrictions: "Avoid cold drinks",
		},
		{
			ID:         types.NewDeterministicID("patient", "rahul-verma"),
			FullName:   "Rahul Verma",
			Age:        41,
			Gender:     GenderMale,
			Contact:    "9988776655",
			Email:      "rahul@example.com",
			Weight:     75,
			Height:     172,
			BMI:        rahulBMI,
			Conditions: []string{"Hypertension"},
			Allergies:  []string{},
			Routine:    "Morning gym, desk job",
			SleepHours: 6.5,
			Activity:   ActivityHigh,
			Dosha:      DoshaPitta,
			FoodPref:   FoodNonVegetarian,
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Appended in declaration order so the sample list reads the same as the
	// original fixture data.
	now := time.Now().UTC()
	for _, seed := range seeds {
		seed.CreatedAt = now
		seed.UpdatedAt = now
		s.records = append(s.records, seed)
		s.byID[seed.ID] = seed
	}
	return nil
}

// clone returns a deep copy so callers can never alias store-owned state
func (p *PatientRecord) clone() *PatientRecord {
	out := *p
	if p.Conditions != nil {
		out.Conditions = append([]string(nil), p.Conditions...)
	}
	if p.Allergies != nil {
		out.Allergies = append([]string(nil), p.Allergies...)
	}
	return &out
}
