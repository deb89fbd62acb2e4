package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"airquality-monitor/internal/models"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Sink receives decoded telemetry. Offer must not block; it reports
// false when the message was dropped.
type Sink interface {
	Offer(entry *models.DashboardEntry) bool
}

// Subscriber handles the telemetry subscription and hands messages to a Sink
type Subscriber struct {
	topic string
	qos   byte
	sink  Sink
	now   func() time.Time
}

// SubscriberConfig holds configuration for MQTT subscriber
type SubscriberConfig struct {
	Topic string // e.g., "airquality/data"
	QoS   byte
}

// NewSubscriber creates a new MQTT subscriber writing into sink
func NewSubscriber(config SubscriberConfig, sink Sink) *Subscriber {
	return &Subscriber{
		topic: config.Topic,
		qos:   config.QoS,
		sink:  sink,
		now:   time.Now,
	}
}

// Subscribe subscribes client to the telemetry topic. It is safe to call
// again after a reconnect.
func (s *Subscriber) Subscribe(client mqtt.Client) error {
	token := client.Subscribe(s.topic, s.qos, s.handleTelemetry)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to telemetry topic: %w", token.Error())
	}
	log.Printf("Subscribed to telemetry topic: %s", s.topic)
	return nil
}

// OnConnect is a ClientConfig.OnConnect hook restoring the subscription
func (s *Subscriber) OnConnect(client mqtt.Client) {
	if err := s.Subscribe(client); err != nil {
		log.Printf("MQTT Subscriber: %v", err)
	}
}

// handleTelemetry decodes a telemetry message and offers it to the sink
func (s *Subscriber) handleTelemetry(client mqtt.Client, msg mqtt.Message) {
	var telemetry models.Telemetry
	if err := json.Unmarshal(msg.Payload(), &telemetry); err != nil {
		log.Printf("Error unmarshaling telemetry: %v", err)
		return
	}

	entry := &models.DashboardEntry{
		Telemetry:  telemetry,
		ReceivedAt: s.now(),
	}

	if !s.sink.Offer(entry) {
		log.Printf("Warning: Telemetry queue full, dropping message from %s", msg.Topic())
	}
}
