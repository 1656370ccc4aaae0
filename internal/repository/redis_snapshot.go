package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/store"
)

// RedisSnapshot stores the collection under a single key with no expiry.
type RedisSnapshot struct {
	kv  store.KV
	key string
}

func NewRedisSnapshot(kv store.KV, key string) *RedisSnapshot {
	return &RedisSnapshot{kv: kv, key: key}
}

func (r *RedisSnapshot) Load(ctx context.Context) ([]domain.Patient, error) {
	val, err := r.kv.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return []domain.Patient{}, nil
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", r.key, err)
	}
	return DecodeSnapshot([]byte(val))
}

func (r *RedisSnapshot) Save(ctx context.Context, patients []domain.Patient) error {
	b, err := EncodeSnapshot(patients)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, r.key, string(b), 0); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", r.key, err)
	}
	return nil
}
