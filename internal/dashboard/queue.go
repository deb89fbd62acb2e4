package dashboard

import (
	"sync/atomic"

	"airquality-monitor/internal/models"
)

// DefaultQueueSize bounds the messages waiting between the MQTT listener and the refresh loop
const DefaultQueueSize = 5000

// Queue is a bounded FIFO between the MQTT listener and the dashboard.
// Offer never blocks: once full, new messages are dropped and the queued
// ones are kept.
type Queue struct {
	ch      chan *models.DashboardEntry
	dropped atomic.Uint64
}

// NewQueue creates a queue holding at most size entries
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan *models.DashboardEntry, size)}
}

// Offer enqueues entry, reporting false if the queue was full
func (q *Queue) Offer(entry *models.DashboardEntry) bool {
	select {
	case q.ch <- entry:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Drain removes and returns everything queued right now, oldest first
func (q *Queue) Drain() []*models.DashboardEntry {
	var out []*models.DashboardEntry
	for {
		select {
		case entry := <-q.ch:
			out = append(out, entry)
		default:
			return out
		}
	}
}

// Len returns the number of queued entries
func (q *Queue) Len() int {
	return len(q.ch)
}

// Dropped returns how many entries were rejected because the queue was full
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
