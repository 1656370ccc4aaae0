package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

var (
	ErrPatientExists    = errors.New("patient already exists")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrLogExists        = errors.New("log already exists")
	ErrLogNotFound      = errors.New("log not found")
	ErrDailyLogLimit    = errors.New("daily log limit reached")
	ErrLogAlreadyEdited = errors.New("log has already been edited once")
	ErrPFTNotFound      = errors.New("pft entry not found")
)

// MaxLogsPerDay is the number of logs a patient may submit for one calendar date.
const MaxLogsPerDay = 2

type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Change describes one committed mutation. Patient is nil for deletions.
type Change struct {
	Kind      ChangeKind
	PatientID string
	Patient   *domain.Patient
}

// Watcher is called after a change is persisted, outside the store lock.
type Watcher func(Change)

// PatientStore owns the patient collection. Every mutation is written through to the
// Snapshotter as a full snapshot; a failed write leaves the collection unchanged.
type PatientStore struct {
	mu       sync.RWMutex
	snap     Snapshotter
	logger   *zap.Logger
	patients []domain.Patient
	watchers []Watcher
}

// NewPatientStore loads the persisted collection once.
func NewPatientStore(ctx context.Context, snap Snapshotter, logger *zap.Logger) (*PatientStore, error) {
	patients, err := snap.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load patients: %w", err)
	}
	logger.Info("Patient store loaded", zap.Int("patient_count", len(patients)))
	return &PatientStore{snap: snap, logger: logger, patients: patients}, nil
}

// Watch registers w for all future changes.
func (s *PatientStore) Watch(w Watcher) {
	s.mu.Lock()
	s.watchers = append(s.watchers, w)
	s.mu.Unlock()
}

func (s *PatientStore) FindByID(id string) (domain.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.patients[i].Clone(), true
	}
	return domain.Patient{}, false
}

// List returns copies of all patients in insertion order.
func (s *PatientStore) List() []domain.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Patient, len(s.patients))
	for i, p := range s.patients {
		out[i] = p.Clone()
	}
	return out
}

func (s *PatientStore) Add(ctx context.Context, p domain.Patient) error {
	if p.ID == "" {
		return domain.Invalid("id", "is required")
	}
	p = p.Clone()
	p.ApplyDefaults()

	s.mu.Lock()
	if s.indexOf(p.ID) >= 0 {
		s.mu.Unlock()
		return ErrPatientExists
	}
	next := make([]domain.Patient, len(s.patients), len(s.patients)+1)
	copy(next, s.patients)
	next = append(next, p)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	watchers := s.watchers
	s.mu.Unlock()

	s.logger.Info("Patient added", zap.String("patient_id", p.ID))
	notify(watchers, Change{Kind: ChangeAdded, PatientID: p.ID, Patient: clonePtr(p)})
	return nil
}

// Update replaces the patient with the same id in place.
func (s *PatientStore) Update(ctx context.Context, p domain.Patient) error {
	_, err := s.Modify(ctx, p.ID, func(cur *domain.Patient) error {
		*cur = p.Clone()
		return nil
	})
	return err
}

// Modify applies fn to a copy of the patient and commits the result. The id cannot be
// changed by fn. Errors from fn abort the change and are returned unchanged.
func (s *PatientStore) Modify(ctx context.Context, id string, fn func(p *domain.Patient) error) (domain.Patient, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.Patient{}, ErrPatientNotFound
	}
	updated := s.patients[i].Clone()
	if err := fn(&updated); err != nil {
		s.mu.Unlock()
		return domain.Patient{}, err
	}
	updated.ID = id
	updated.ApplyDefaults()

	next := make([]domain.Patient, len(s.patients))
	copy(next, s.patients)
	next[i] = updated
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return domain.Patient{}, err
	}
	watchers := s.watchers
	s.mu.Unlock()

	notify(watchers, Change{Kind: ChangeUpdated, PatientID: id, Patient: clonePtr(updated)})
	return updated.Clone(), nil
}

// Delete removes the patient with everything it owns. Deleting an unknown id is a no-op.
func (s *PatientStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	next := make([]domain.Patient, 0, len(s.patients)-1)
	next = append(next, s.patients[:i]...)
	next = append(next, s.patients[i+1:]...)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	watchers := s.watchers
	s.mu.Unlock()

	s.logger.Info("Patient deleted", zap.String("patient_id", id))
	notify(watchers, Change{Kind: ChangeDeleted, PatientID: id})
	return nil
}

// AppendLog adds a log, refusing a third log on the same date or a duplicate log id.
func (s *PatientStore) AppendLog(ctx context.Context, patientID string, log domain.HealthLog) (domain.Patient, error) {
	return s.Modify(ctx, patientID, func(p *domain.Patient) error {
		if p.FindLog(log.ID) >= 0 {
			return ErrLogExists
		}
		if len(p.LogsOn(log.Date)) >= MaxLogsPerDay {
			return ErrDailyLogLimit
		}
		p.Logs = append(p.Logs, log.Clone())
		return nil
	})
}

// ReplaceLog stores the edited content of an existing log and marks it edited. A log can
// be edited once. Id, date and creation timestamp are kept from the original.
func (s *PatientStore) ReplaceLog(ctx context.Context, patientID string, log domain.HealthLog) (domain.Patient, error) {
	return s.Modify(ctx, patientID, func(p *domain.Patient) error {
		i := p.FindLog(log.ID)
		if i < 0 {
			return ErrLogNotFound
		}
		orig := p.Logs[i]
		if orig.IsEdited {
			return ErrLogAlreadyEdited
		}
		edited := log.Clone()
		edited.Date = orig.Date
		edited.Timestamp = orig.Timestamp
		edited.IsEdited = true
		p.Logs[i] = edited
		return nil
	})
}

// commit persists next and installs it. Caller holds s.mu.
func (s *PatientStore) commit(ctx context.Context, next []domain.Patient) error {
	if err := s.snap.Save(ctx, next); err != nil {
		s.logger.Error("Failed to persist patient snapshot", zap.Error(err))
		return fmt.Errorf("failed to persist patients: %w", err)
	}
	s.patients = next
	return nil
}

func (s *PatientStore) indexOf(id string) int {
	for i := range s.patients {
		if s.patients[i].ID == id {
			return i
		}
	}
	return -1
}

func notify(watchers []Watcher, c Change) {
	for _, w := range watchers {
		w(c)
	}
}

func clonePtr(p domain.Patient) *domain.Patient {
	c := p.Clone()
	return &c
}
