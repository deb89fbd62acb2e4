package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"airquality-monitor/internal/models"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher sends telemetry messages to the broker
type Publisher struct {
	client  mqtt.Client
	topic   string
	qos     byte
	timeout time.Duration
}

// PublisherConfig holds configuration for MQTT publisher
type PublisherConfig struct {
	Topic   string        // e.g., "airquality/data"
	QoS     byte          // 1 = at least once
	Timeout time.Duration // upper bound on waiting for the broker ack
}

// NewPublisher creates a new MQTT publisher
func NewPublisher(client mqtt.Client, config PublisherConfig) *Publisher {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &Publisher{
		client:  client,
		topic:   config.Topic,
		qos:     config.QoS,
		timeout: config.Timeout,
	}
}

// PublishTelemetry publishes one telemetry message. A single attempt is
// made; the caller decides what to do with the error.
func (p *Publisher) PublishTelemetry(msg *models.Telemetry) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry: %w", err)
	}

	token := p.client.Publish(p.topic, p.qos, false, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("failed to publish telemetry: timed out after %v", p.timeout)
	}
	if token.Error() != nil {
		return fmt.Errorf("failed to publish telemetry: %w", token.Error())
	}

	log.Printf("MQTT Publisher: Published telemetry to topic: %s", p.topic)
	return nil
}
