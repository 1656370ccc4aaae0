package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Persistence backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Notification backends
const (
	NotifyNone  = "none"
	NotifyMQTT  = "mqtt"
	NotifyRedis = "redis"
)

// DatabaseConfig PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the lib/pq connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig alert publishing over MQTT
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
	QoS      byte
	// PublishTimeout bounds the wait for a broker ack
	PublishTimeout time.Duration
}

// Config ild-monitor (HTTP API) configuration
type Config struct {
	HTTP struct {
		Addr string
		// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP
		TrustProxy bool
	}
	Persistence struct {
		Backend     string
		SnapshotKey string
	}
	Database DatabaseConfig
	Redis    RedisConfig
	Log      struct {
		Level  string
		Format string
	}
	Auth struct {
		ClinicianUsername  string
		ClinicianPassword  string
		TokenSecret        string
		TokenTTL           time.Duration
		LoginRatePerMinute int
	}
	AirQuality struct {
		BaseURL string
		Timeout time.Duration
	}
	Notify struct {
		Backend     string
		AlertStream string
	}
	MQTT    MQTTConfig
	Archive struct {
		Bucket string
		Prefix string
	}
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.HTTP.TrustProxy = parseBool(getEnv("HTTP_TRUST_PROXY", "false"))

	// memory keeps everything in-process; redis/postgres persist the whole collection
	cfg.Persistence.Backend = getEnv("PERSISTENCE_BACKEND", BackendMemory)
	cfg.Persistence.SnapshotKey = getEnv("SNAPSHOT_KEY", "aiims_ild_patients")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "ild_monitor")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "2"), 2)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Auth.ClinicianUsername = getEnv("CLINICIAN_USERNAME", "doctor")
	cfg.Auth.ClinicianPassword = getEnv("CLINICIAN_PASSWORD", "aiims123")
	cfg.Auth.TokenSecret = getEnv("AUTH_TOKEN_SECRET", "change-me")
	cfg.Auth.TokenTTL = parseDuration(getEnv("AUTH_TOKEN_TTL", "12h"), 12*time.Hour)
	cfg.Auth.LoginRatePerMinute = parseInt(getEnv("LOGIN_RATE_PER_MINUTE", "10"), 10)

	cfg.AirQuality.BaseURL = getEnv("AQI_BASE_URL", "https://air-quality-api.open-meteo.com")
	cfg.AirQuality.Timeout = parseDuration(getEnv("AQI_TIMEOUT", "10s"), 10*time.Second)

	cfg.Notify.Backend = getEnv("NOTIFY_BACKEND", NotifyNone)
	cfg.Notify.AlertStream = getEnv("ALERT_STREAM", "ild:alerts")

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "ild-monitor")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "ild/alerts")
	cfg.MQTT.QoS = byte(parseInt(getEnv("MQTT_QOS", "1"), 1))
	cfg.MQTT.PublishTimeout = parseDuration(getEnv("MQTT_PUBLISH_TIMEOUT", "3s"), 3*time.Second)

	// empty bucket disables archiving
	cfg.Archive.Bucket = getEnv("EXPORT_ARCHIVE_BUCKET", "")
	cfg.Archive.Prefix = getEnv("EXPORT_ARCHIVE_PREFIX", "exports/")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
