package notify

import (
	"context"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

// AlertEvent is published when a submitted or edited log carries alerts.
type AlertEvent struct {
	PatientID    string      `json:"patient_id"`
	PatientName  string      `json:"patient_name"`
	LogID        string      `json:"log_id"`
	Date         domain.Date `json:"date"`
	Alerts       []string    `json:"alerts"`
	SpO2Rest     int         `json:"spo2_rest"`
	SpO2Exertion int         `json:"spo2_exertion"`
	Edited       bool        `json:"edited"`
	Timestamp    int64       `json:"timestamp"`
}

// Notifier delivers alert events. Delivery is best effort; callers log and continue on error.
type Notifier interface {
	NotifyAlerts(ctx context.Context, ev AlertEvent) error
}

// NopNotifier discards events.
type NopNotifier struct{}

func (NopNotifier) NotifyAlerts(context.Context, AlertEvent) error { return nil }
