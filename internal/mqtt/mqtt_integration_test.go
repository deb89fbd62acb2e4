package mqtt

import (
	"fmt"
	"sync"
	"testing"
	"time"

	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airquality-monitor/internal/models"
)

const (
	mochiTCPPort = 18883
	testTopic    = "airquality/test"
)

type recordingSink struct {
	mu      sync.Mutex
	entries []*models.DashboardEntry
	accept  bool
	dropped int
}

func (s *recordingSink) Offer(entry *models.DashboardEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accept {
		s.dropped++
		return false
	}
	s.entries = append(s.entries, entry)
	return true
}

func (s *recordingSink) snapshot() ([]*models.DashboardEntry, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.DashboardEntry(nil), s.entries...), s.dropped
}

// Spin up an in-process MQTT broker for testing
func startBroker(t *testing.T) string {
	t.Helper()

	server := mochi.New(nil)
	require.NoError(t, server.AddHook(new(auth.AllowHook), nil))

	addr := fmt.Sprintf("127.0.0.1:%d", mochiTCPPort)
	require.NoError(t, server.AddListener(listeners.NewTCP(listeners.Config{
		Type:    "tcp",
		ID:      "t1",
		Address: addr,
	})))
	require.NoError(t, server.Serve())
	t.Cleanup(func() { _ = server.Close() })

	return "tcp://" + addr
}

func connect(t *testing.T, broker, id string) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{Broker: broker, ClientID: id, ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestWithMochi(t *testing.T) {
	broker := startBroker(t)

	t.Run("PublishSubscribe", func(t *testing.T) {
		sink := &recordingSink{accept: true}
		subClient := connect(t, broker, "dashboard-test")
		sub := NewSubscriber(SubscriberConfig{Topic: testTopic, QoS: 1}, sink)
		require.NoError(t, sub.Subscribe(subClient.GetNativeClient()))
		assert.True(t, subClient.IsConnected())

		pubClient := connect(t, broker, "publisher-test")
		pub := NewPublisher(pubClient.GetNativeClient(), PublisherConfig{Topic: testTopic, QoS: 1})

		outdoor := 11.5
		sent := &models.Telemetry{
			PM25Indoor:         14.2,
			Temperature:        24.1,
			Humidity:           51.3,
			GasLevel:           44.9,
			PredictedPM25:      15.02,
			IndoorCategory:     "Moderate",
			IndoorHealthAdvice: "Air quality is acceptable. Consider purifier if sensitive.",
			PM25Outdoor:        &outdoor,
			VentilationAdvice:  "Outdoor air is cleaner, open windows for ventilation.",
		}
		require.NoError(t, pub.PublishTelemetry(sent))

		require.Eventually(t, func() bool {
			got, _ := sink.snapshot()
			return len(got) == 1
		}, 5*time.Second, 20*time.Millisecond)

		got, _ := sink.snapshot()
		assert.True(t, sent.Equal(&got[0].Telemetry))
		assert.False(t, got[0].ReceivedAt.IsZero())
	})

	t.Run("FullSinkDropsMessage", func(t *testing.T) {
		sink := &recordingSink{accept: false}
		subClient := connect(t, broker, "dashboard-full")
		sub := NewSubscriber(SubscriberConfig{Topic: testTopic + "/full", QoS: 1}, sink)
		require.NoError(t, sub.Subscribe(subClient.GetNativeClient()))

		pubClient := connect(t, broker, "publisher-full")
		pub := NewPublisher(pubClient.GetNativeClient(), PublisherConfig{Topic: testTopic + "/full", QoS: 1})
		require.NoError(t, pub.PublishTelemetry(&models.Telemetry{PM25Indoor: 9}))

		require.Eventually(t, func() bool {
			_, dropped := sink.snapshot()
			return dropped == 1
		}, 5*time.Second, 20*time.Millisecond)
	})

	t.Run("ConnectFailure", func(t *testing.T) {
		_, err := NewClient(ClientConfig{
			Broker:         "tcp://127.0.0.1:1",
			ClientID:       "nobody",
			ConnectTimeout: 500 * time.Millisecond,
		})
		assert.Error(t, err)
	})

	t.Run("ConnectRetryInBackground", func(t *testing.T) {
		c, err := NewClient(ClientConfig{
			Broker:         broker,
			ClientID:       "publisher-retry",
			ConnectTimeout: time.Second,
			ConnectRetry:   true,
		})
		require.NoError(t, err)
		t.Cleanup(c.Close)

		require.Eventually(t, c.IsConnected, 5*time.Second, 20*time.Millisecond)
	})

	t.Run("PublishWhileDisconnected", func(t *testing.T) {
		c, err := NewClient(ClientConfig{
			Broker:         "tcp://127.0.0.1:1",
			ClientID:       "publisher-offline",
			ConnectTimeout: 200 * time.Millisecond,
			ConnectRetry:   true,
		})
		require.NoError(t, err)
		t.Cleanup(c.Close)

		pub := NewPublisher(c.GetNativeClient(), PublisherConfig{Topic: testTopic, QoS: 1, Timeout: 200 * time.Millisecond})
		assert.Error(t, pub.PublishTelemetry(&models.Telemetry{PM25Indoor: 9}))
	})
}
