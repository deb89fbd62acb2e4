package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airquality-monitor/internal/dashboard"
	"airquality-monitor/internal/models"
)

type memoryReadingStore struct {
	saved   []*models.DashboardEntry
	recent  []*models.DashboardEntry
	saveErr error
	loadErr error
}

func (m *memoryReadingStore) SaveReading(_ context.Context, entry *models.DashboardEntry) error {
	m.saved = append(m.saved, entry)
	return m.saveErr
}

func (m *memoryReadingStore) RecentReadings(_ context.Context, limit int) ([]*models.DashboardEntry, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if len(m.recent) > limit {
		return m.recent[len(m.recent)-limit:], nil
	}
	return m.recent, nil
}

type staticConn bool

func (c staticConn) IsConnected() bool { return bool(c) }

func entryAt(pm25 float64, at time.Time) *models.DashboardEntry {
	return &models.DashboardEntry{
		Telemetry: models.Telemetry{
			PM25Indoor:         pm25,
			Temperature:        24.5,
			Humidity:           50,
			GasLevel:           45,
			PredictedPM25:      pm25 + 1,
			IndoorCategory:     "Moderate",
			IndoorHealthAdvice: "Air quality is acceptable. Consider purifier if sensitive.",
			VentilationAdvice:  "Outdoor data unavailable. Use air purifier as needed.",
		},
		ReceivedAt: at,
	}
}

func newTestDashboard(out *bytes.Buffer) (*DashboardService, *dashboard.Queue, *dashboard.History) {
	queue := dashboard.NewQueue(10)
	history := dashboard.NewHistory(100)
	svc := NewDashboardService(queue, history, staticConn(true), out, DashboardServiceConfig{
		Page:           dashboard.PageOverview,
		RefreshSeconds: 5,
		Location:       "Pune, Maharashtra, IN",
		Endpoint:       "tcp://localhost:1883",
		Topic:          "airquality/data",
	})
	return svc, queue, history
}

func TestDashboardRefreshWaitsForData(t *testing.T) {
	var out bytes.Buffer
	svc, _, _ := newTestDashboard(&out)

	assert.Equal(t, 0, svc.Refresh(context.Background()))
	assert.Contains(t, out.String(), "Waiting for data")
}

func TestDashboardRefreshDrainsQueue(t *testing.T) {
	var out bytes.Buffer
	svc, queue, history := newTestDashboard(&out)
	store := &memoryReadingStore{}
	svc.Store = store

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.True(t, queue.Offer(entryAt(14.5, base)))
	require.True(t, queue.Offer(entryAt(14.5, base.Add(200*time.Millisecond)))) // repeat within the same second
	require.True(t, queue.Offer(entryAt(30.1, base.Add(5*time.Second))))

	added := svc.Refresh(context.Background())
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, history.Len())
	assert.Equal(t, 0, queue.Len())
	assert.Len(t, store.saved, 2)
	assert.Equal(t, 30.1, history.Latest().PM25Indoor)
	assert.Contains(t, out.String(), "30.10")
}

func TestDashboardRefreshReportsDrops(t *testing.T) {
	var out bytes.Buffer
	queue := dashboard.NewQueue(1)
	svc := NewDashboardService(queue, dashboard.NewHistory(10), staticConn(false), &out, DashboardServiceConfig{})

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.True(t, queue.Offer(entryAt(10, base)))
	require.False(t, queue.Offer(entryAt(11, base.Add(time.Second))))

	assert.Equal(t, 1, svc.Refresh(context.Background()))
	assert.Equal(t, uint64(1), queue.Dropped())
	assert.Contains(t, out.String(), "Not Connected")
}

func TestDashboardStoreFailureKeepsHistory(t *testing.T) {
	var out bytes.Buffer
	svc, queue, history := newTestDashboard(&out)
	svc.Store = &memoryReadingStore{saveErr: errors.New("clickhouse down")}

	require.True(t, queue.Offer(entryAt(12, time.Now())))
	assert.Equal(t, 1, svc.Refresh(context.Background()))
	assert.Equal(t, 1, history.Len())
}

func TestDashboardPreload(t *testing.T) {
	var out bytes.Buffer
	svc, _, history := newTestDashboard(&out)

	// no store configured
	require.NoError(t, svc.Preload(context.Background()))
	assert.Equal(t, 0, history.Len())

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.Store = &memoryReadingStore{recent: []*models.DashboardEntry{
		entryAt(10, base),
		entryAt(20, base.Add(5*time.Second)),
	}}
	require.NoError(t, svc.Preload(context.Background()))
	assert.Equal(t, 2, history.Len())
	assert.Equal(t, 20.0, history.Latest().PM25Indoor)

	svc.Store = &memoryReadingStore{loadErr: errors.New("timeout")}
	assert.Error(t, svc.Preload(context.Background()))
}

func TestDashboardClearScreen(t *testing.T) {
	var out bytes.Buffer
	svc := NewDashboardService(dashboard.NewQueue(1), dashboard.NewHistory(1), nil, &out, DashboardServiceConfig{ClearScreen: true})

	svc.Refresh(context.Background())
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte(clearScreen)))
}
