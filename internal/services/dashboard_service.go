package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"airquality-monitor/internal/dashboard"
	"airquality-monitor/internal/models"
)

// ANSI cursor home and erase display
const clearScreen = "\033[H\033[2J"

// ReadingStore persists readings received by the dashboard
type ReadingStore interface {
	SaveReading(ctx context.Context, entry *models.DashboardEntry) error
	RecentReadings(ctx context.Context, limit int) ([]*models.DashboardEntry, error)
}

// ConnectionState reports whether the dashboard's MQTT client is connected
type ConnectionState interface {
	IsConnected() bool
}

// DashboardService moves queued messages into the history and renders the
// selected page on each refresh
type DashboardService struct {
	queue   *dashboard.Queue
	history *dashboard.History
	conn    ConnectionState
	out     io.Writer

	// Optional reading persistence, nil when ClickHouse is disabled
	Store ReadingStore

	page     dashboard.Page
	status   dashboard.Status
	interval time.Duration
	clear    bool
}

// DashboardServiceConfig holds configuration for the dashboard loop
type DashboardServiceConfig struct {
	Page           dashboard.Page
	RefreshSeconds int
	Location       string
	Endpoint       string
	Topic          string
	ClearScreen    bool // redraw in place on a terminal
}

// NewDashboardService creates a dashboard service writing to out
func NewDashboardService(
	queue *dashboard.Queue,
	history *dashboard.History,
	conn ConnectionState,
	out io.Writer,
	config DashboardServiceConfig,
) *DashboardService {
	if config.Page == "" {
		config.Page = dashboard.PageOverview
	}
	if config.RefreshSeconds <= 0 {
		config.RefreshSeconds = 5
	}
	return &DashboardService{
		queue:   queue,
		history: history,
		conn:    conn,
		out:     out,
		page:    config.Page,
		status: dashboard.Status{
			Location: config.Location,
			Endpoint: config.Endpoint,
			Topic:    config.Topic,
		},
		interval: time.Duration(config.RefreshSeconds) * time.Second,
		clear:    config.ClearScreen,
	}
}

// Preload seeds the history with the most recent stored readings
func (s *DashboardService) Preload(ctx context.Context) error {
	if s.Store == nil {
		return nil
	}

	entries, err := s.Store.RecentReadings(ctx, dashboard.DefaultHistorySize)
	if err != nil {
		return fmt.Errorf("failed to preload readings: %w", err)
	}
	for _, e := range entries {
		s.history.Append(e)
	}
	log.Printf("DashboardService: Preloaded %d readings", s.history.Len())
	return nil
}

// Start refreshes the dashboard until the context is cancelled
func (s *DashboardService) Start(ctx context.Context) {
	log.Printf("DashboardService: Refreshing %s page every %v", s.page, s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("DashboardService: Shutting down...")
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh drains the queue into the history, then renders the page.
// It returns how many new entries were added.
func (s *DashboardService) Refresh(ctx context.Context) int {
	added := 0
	for _, entry := range s.queue.Drain() {
		if !s.history.Append(entry) {
			continue
		}
		added++

		if s.Store != nil {
			if err := s.Store.SaveReading(ctx, entry); err != nil {
				log.Printf("DashboardService: Error saving reading: %v", err)
			}
		}
	}

	st := s.status
	st.Dropped = s.queue.Dropped()
	if s.conn != nil {
		st.Connected = s.conn.IsConnected()
	}

	frame := dashboard.Render(s.page, s.history, st)
	if s.clear {
		frame = clearScreen + frame
	}
	if _, err := io.WriteString(s.out, frame); err != nil {
		log.Printf("DashboardService: Error writing dashboard: %v", err)
	}
	return added
}
