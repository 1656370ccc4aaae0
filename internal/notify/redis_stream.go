package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStreamNotifier appends events to a Redis stream for downstream consumers.
type RedisStreamNotifier struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

func NewRedisStreamNotifier(client *redis.Client, stream string, logger *zap.Logger) *RedisStreamNotifier {
	return &RedisStreamNotifier{client: client, stream: stream, logger: logger}
}

func (n *RedisStreamNotifier) NotifyAlerts(ctx context.Context, ev AlertEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	id, err := n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]interface{}{
			"patient_id": ev.PatientID,
			"log_id":     ev.LogID,
			"alerts":     strings.Join(ev.Alerts, "; "),
			"data":       string(data),
			"timestamp":  fmt.Sprintf("%d", ev.Timestamp),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", n.stream, err)
	}

	n.logger.Debug("Alert event published",
		zap.String("stream", n.stream),
		zap.String("message_id", id),
		zap.String("patient_id", ev.PatientID),
	)
	return nil
}
