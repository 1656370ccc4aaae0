package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/config"
)

// Publisher is the part of an MQTT client the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error
}

// MQTTClient wraps a connected paho client
type MQTTClient struct {
	client         mqtt.Client
	publishTimeout time.Duration
}

// NewMQTTClient connects to the configured broker
func NewMQTTClient(cfg *config.MQTTConfig) (*MQTTClient, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &MQTTClient{client: client, publishTimeout: cfg.PublishTimeout}, nil
}

// Publish waits for the broker ack until ctx ends or the publish timeout elapses.
// A QoS 1/2 token is held across reconnects, so the wait must be bounded.
func (c *MQTTClient) Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error {
	if c.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.publishTimeout)
		defer cancel()
	}
	if err := waitToken(ctx, c.client.Publish(topic, qos, retained, payload)); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}
	return nil
}

func waitToken(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Disconnect waits up to 250ms for in-flight work
func (c *MQTTClient) Disconnect() {
	c.client.Disconnect(250)
}

// MQTTNotifier publishes each event as JSON on <topic>/<patient_id>.
type MQTTNotifier struct {
	pub   Publisher
	topic string
	qos   byte
}

func NewMQTTNotifier(pub Publisher, topic string, qos byte) *MQTTNotifier {
	return &MQTTNotifier{pub: pub, topic: topic, qos: qos}
}

func (n *MQTTNotifier) NotifyAlerts(ctx context.Context, ev AlertEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}
	return n.pub.Publish(ctx, n.topic+"/"+ev.PatientID, n.qos, false, payload)
}
