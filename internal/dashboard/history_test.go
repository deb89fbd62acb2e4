package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"airquality-monitor/internal/models"
)

func TestHistorySkipsConsecutiveRepeats(t *testing.T) {
	h := NewHistory(10)
	at := time.Date(2026, 10, 19, 12, 0, 0, 100, time.UTC)

	first := &models.DashboardEntry{Telemetry: models.Telemetry{PM25Indoor: 10}, ReceivedAt: at}
	same := &models.DashboardEntry{Telemetry: models.Telemetry{PM25Indoor: 10}, ReceivedAt: at.Add(200 * time.Millisecond)}
	later := &models.DashboardEntry{Telemetry: models.Telemetry{PM25Indoor: 10}, ReceivedAt: at.Add(5 * time.Second)}

	assert.True(t, h.Append(first))
	assert.False(t, h.Append(same))
	assert.True(t, h.Append(later))
	assert.Equal(t, 2, h.Len())
}

func TestHistoryKeepsNewest(t *testing.T) {
	h := NewHistory(DefaultHistorySize)
	for i := 0; i < DefaultHistorySize+25; i++ {
		h.Append(entry(float64(i)))
	}

	assert.Equal(t, DefaultHistorySize, h.Len())
	assert.Equal(t, float64(DefaultHistorySize+24), h.Latest().PM25Indoor)
	assert.Equal(t, 25.0, h.Tail(h.Len())[0].PM25Indoor)
}

func TestHistoryTail(t *testing.T) {
	h := NewHistory(0)
	assert.Nil(t, h.Latest())
	assert.Empty(t, h.Tail(5))

	for i := 0; i < 4; i++ {
		h.Append(entry(float64(i)))
	}
	tail := h.Tail(2)
	assert.Len(t, tail, 2)
	assert.Equal(t, 2.0, tail[0].PM25Indoor)
	assert.Len(t, h.Tail(99), 4)
}
