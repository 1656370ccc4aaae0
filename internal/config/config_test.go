package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, BackendMemory, cfg.Persistence.Backend)
	assert.Equal(t, "aiims_ild_patients", cfg.Persistence.SnapshotKey)
	assert.Equal(t, "doctor", cfg.Auth.ClinicianUsername)
	assert.Equal(t, 10*time.Second, cfg.AirQuality.Timeout)
	assert.Equal(t, NotifyNone, cfg.Notify.Backend)
	assert.Empty(t, cfg.Archive.Bucket)
	assert.False(t, cfg.HTTP.TrustProxy)
	assert.Equal(t, 3*time.Second, cfg.MQTT.PublishTimeout)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PERSISTENCE_BACKEND", BackendPostgres)
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "clinic")
	t.Setenv("AUTH_TOKEN_TTL", "30m")
	t.Setenv("AQI_TIMEOUT", "not-a-duration")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("HTTP_TRUST_PROXY", "true")
	t.Setenv("MQTT_PUBLISH_TIMEOUT", "500ms")

	cfg := Load()
	assert.Equal(t, BackendPostgres, cfg.Persistence.Backend)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.AirQuality.Timeout)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.HTTP.TrustProxy)
	assert.Equal(t, 500*time.Millisecond, cfg.MQTT.PublishTimeout)
	assert.Equal(t, "host=localhost port=6543 user=postgres password=postgres dbname=clinic sslmode=disable", cfg.Database.GetDSN())
}
