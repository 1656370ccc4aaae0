package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

// Snapshotter persists the whole patient collection as one value.
type Snapshotter interface {
	Load(ctx context.Context) ([]domain.Patient, error)
	Save(ctx context.Context, patients []domain.Patient) error
}

// EncodeSnapshot serializes the collection as a JSON array. A nil collection encodes as [].
func EncodeSnapshot(patients []domain.Patient) ([]byte, error) {
	if patients == nil {
		patients = []domain.Patient{}
	}
	b, err := json.Marshal(patients)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot parses a JSON array of patients and applies field defaults. Empty input
// is an empty collection.
func DecodeSnapshot(b []byte) ([]domain.Patient, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return []domain.Patient{}, nil
	}
	var patients []domain.Patient
	if err := json.Unmarshal(b, &patients); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	for i := range patients {
		patients[i].ApplyDefaults()
	}
	return patients, nil
}

// MemorySnapshot keeps the encoded snapshot in process memory.
type MemorySnapshot struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemorySnapshot() *MemorySnapshot {
	return &MemorySnapshot{}
}

func (m *MemorySnapshot) Load(_ context.Context) ([]domain.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return DecodeSnapshot(m.data)
}

func (m *MemorySnapshot) Save(_ context.Context, patients []domain.Patient) error {
	b, err := EncodeSnapshot(patients)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = b
	m.mu.Unlock()
	return nil
}
