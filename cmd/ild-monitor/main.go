package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/airquality"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/archive"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/auth"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/config"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/database"
	httpapi "github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/http"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/logger"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/notify"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/repository"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/service"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "ild-monitor")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snap, closeSnap, err := openSnapshot(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open persistence backend", zap.String("backend", cfg.Persistence.Backend), zap.Error(err))
	}
	defer closeSnap()

	patients, err := repository.NewPatientStore(ctx, snap, log)
	if err != nil {
		log.Fatal("Failed to load patients", zap.Error(err))
	}

	notifier, closeNotifier, err := openNotifier(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect alert notifier", zap.String("backend", cfg.Notify.Backend), zap.Error(err))
	}
	defer closeNotifier()

	var archiver archive.Archiver
	if cfg.Archive.Bucket != "" {
		s3a, err := archive.NewS3Archiver(ctx, cfg.Archive.Bucket, cfg.Archive.Prefix)
		if err != nil {
			// exports still work without archiving
			log.Warn("Export archiving disabled", zap.Error(err))
		} else {
			archiver = s3a
		}
	}

	validator := service.NewValidator()
	sessions := service.NewSessionRegistry(patients, log)
	gate := auth.NewGate(cfg.Auth.ClinicianUsername, cfg.Auth.ClinicianPassword, patients)
	tokens := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	aqi := airquality.NewClient(cfg.AirQuality.BaseURL, cfg.AirQuality.Timeout, log)

	handler := httpapi.NewHandler(httpapi.Services{
		Auth:     service.NewAuthService(gate, tokens, sessions, patients, log),
		Patients: service.NewPatientService(patients, validator, log),
		Logs:     service.NewLogService(patients, validator, aqi, notifier, log),
		Reports:  service.NewReportService(patients),
		Exports:  service.NewExportService(patients, archiver, log),
	}, log)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		LoginPerMinute: cfg.Auth.LoginRatePerMinute,
		TrustProxy:     cfg.HTTP.TrustProxy,
	})

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func openSnapshot(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Snapshotter, func(), error) {
	switch cfg.Persistence.Backend {
	case config.BackendMemory:
		log.Warn("Using in-memory persistence, data is lost on restart")
		return repository.NewMemorySnapshot(), func() {}, nil
	case config.BackendRedis:
		client := store.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		log.Info("Using redis persistence", zap.String("addr", cfg.Redis.Addr), zap.String("key", cfg.Persistence.SnapshotKey))
		return repository.NewRedisSnapshot(store.NewRedisKV(client), cfg.Persistence.SnapshotKey), func() { client.Close() }, nil
	case config.BackendPostgres:
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		snap := repository.NewPostgresSnapshot(db, cfg.Persistence.SnapshotKey)
		if err := snap.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("Using postgres persistence", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Database))
		return snap, func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown persistence backend %q", cfg.Persistence.Backend)
}

func openNotifier(cfg *config.Config, log *zap.Logger) (notify.Notifier, func(), error) {
	switch cfg.Notify.Backend {
	case config.NotifyNone, "":
		return notify.NopNotifier{}, func() {}, nil
	case config.NotifyMQTT:
		client, err := notify.NewMQTTClient(&cfg.MQTT)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Publishing alerts over MQTT", zap.String("broker", cfg.MQTT.Broker), zap.String("topic", cfg.MQTT.Topic))
		return notify.NewMQTTNotifier(client, cfg.MQTT.Topic, cfg.MQTT.QoS), client.Disconnect, nil
	case config.NotifyRedis:
		client := store.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("Publishing alerts to redis stream", zap.String("stream", cfg.Notify.AlertStream))
		return notify.NewRedisStreamNotifier(client, cfg.Notify.AlertStream, log), func() { client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown notify backend %q", cfg.Notify.Backend)
}
