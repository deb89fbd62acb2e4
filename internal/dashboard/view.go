package dashboard

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"airquality-monitor/internal/airquality"
	"airquality-monitor/internal/models"
)

// Page selects what the dashboard shows on each refresh
type Page string

const (
	PageOverview Page = "overview"
	PageTrends   Page = "trends"
	PageInsights Page = "insights"
	PageTable    Page = "table"
)

// TableRows is how many readings the data table shows
const TableRows = 15

// ParsePage validates a page name
func ParsePage(s string) (Page, error) {
	switch p := Page(strings.ToLower(s)); p {
	case PageOverview, PageTrends, PageInsights, PageTable:
		return p, nil
	}
	return "", fmt.Errorf("unknown dashboard page %q (want overview, trends, insights or table)", s)
}

// Status describes the connection shown in the header
type Status struct {
	Location  string
	Connected bool
	Endpoint  string
	Topic     string
	Dropped   uint64
}

// Render draws page for the current history
func Render(page Page, h *History, st Status) string {
	var b strings.Builder
	renderHeader(&b, st)

	latest := h.Latest()
	if latest == nil {
		fmt.Fprintf(&b, "⏳ Waiting for data from %s...\n", st.Endpoint)
		return b.String()
	}

	switch page {
	case PageTrends:
		renderTrends(&b, h)
	case PageInsights:
		renderInsights(&b, latest)
	case PageTable:
		renderTable(&b, h.Tail(TableRows))
	default:
		renderOverview(&b, latest)
	}
	return b.String()
}

func renderHeader(b *strings.Builder, st Status) {
	conn := "🔴 Not Connected"
	if st.Connected {
		conn = "🟢 Connected"
	}
	fmt.Fprintf(b, "Air Quality Monitoring System | 📍 %s\n", st.Location)
	fmt.Fprintf(b, "%s | Endpoint: %s | Topic: %s", conn, st.Endpoint, st.Topic)
	if st.Dropped > 0 {
		fmt.Fprintf(b, " | Dropped: %d", st.Dropped)
	}
	b.WriteString("\n\n")
}

func renderOverview(b *strings.Builder, e *models.DashboardEntry) {
	t := &e.Telemetry
	indoorCat, _ := airquality.Classify(t.PM25Indoor)
	outdoorCat, _ := airquality.ClassifyOptional(t.PM25Outdoor)
	predCat, _ := airquality.Classify(t.PredictedPM25)

	b.WriteString("📊 Live Overview\n")
	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Indoor PM2.5 %s\t%.2f µg/m³\t%s\n", airquality.BadgeFor(indoorCat).Emoji, t.PM25Indoor, indoorCat)
	fmt.Fprintf(w, "Outdoor PM2.5 %s\t%s\t%s\n", airquality.BadgeFor(outdoorCat).Emoji, formatOptional(t.PM25Outdoor, " µg/m³"), outdoorCat)
	fmt.Fprintf(w, "Predicted %s\t%.2f µg/m³\t%s\n", airquality.BadgeFor(predCat).Emoji, t.PredictedPM25, predCat)
	fmt.Fprintf(w, "🌡️ Temperature\t%.2f°C\tHumidity: %.2f%%\n", t.Temperature, t.Humidity)
	_ = w.Flush()

	fmt.Fprintf(b, "\n💡 Health Advice: %s\n", orDash(t.IndoorHealthAdvice))
	fmt.Fprintf(b, "💨 Ventilation: %s\n", orDash(t.VentilationAdvice))
	fmt.Fprintf(b, "⏱️ Last update: %s\n", e.ReceivedAt.Format("15:04:05"))
}

func renderInsights(b *strings.Builder, e *models.DashboardEntry) {
	t := &e.Telemetry
	indoorCat, _ := airquality.Classify(t.PM25Indoor)
	predCat, _ := airquality.Classify(t.PredictedPM25)

	b.WriteString("🧠 AI Insights & Recommendations\n")
	fmt.Fprintf(b, "- Indoor Air: %s %s (%.2f µg/m³)\n", airquality.BadgeFor(indoorCat).Emoji, indoorCat, t.PM25Indoor)
	fmt.Fprintf(b, "- Predicted Next Hour: %s %s (%.2f µg/m³)\n", airquality.BadgeFor(predCat).Emoji, predCat, t.PredictedPM25)
	fmt.Fprintf(b, "- Advice: %s\n", orDefault(t.IndoorHealthAdvice, "No data"))
	fmt.Fprintf(b, "- Ventilation Tip: %s\n", orDefault(t.VentilationAdvice, "No data"))
	b.WriteString(Outlook(t))
	b.WriteString("\n")
}

// Outlook compares the forecast against the current indoor reading
func Outlook(t *models.Telemetry) string {
	if t.PredictedPM25 > t.PM25Indoor {
		return "⚠️ Prediction indicates air quality may worsen soon."
	}
	return "✅ Prediction shows air quality will likely remain stable or improve."
}

func renderTable(b *strings.Builder, rows []*models.DashboardEntry) {
	b.WriteString("📋 Latest Sensor Readings\n")
	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "received\tindoor\toutdoor\tpredicted\ttemperature\thumidity\tgas_level\t")
	for _, e := range rows {
		t := &e.Telemetry
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			e.ReceivedAt.Format("15:04:05"), t.PM25Indoor, formatOptional(t.PM25Outdoor, ""),
			t.PredictedPM25, t.Temperature, t.Humidity, t.GasLevel)
	}
	_ = w.Flush()
}

// SeriesStats summarizes one series over the history
type SeriesStats struct {
	Name  string
	Count int
	Min   float64
	Mean  float64
	Max   float64
}

// Trends computes per-series statistics over the entries
func Trends(entries []*models.DashboardEntry) []SeriesStats {
	series := []struct {
		name string
		get  func(*models.Telemetry) *float64
	}{
		{"Indoor PM2.5", func(t *models.Telemetry) *float64 { return &t.PM25Indoor }},
		{"Outdoor PM2.5", func(t *models.Telemetry) *float64 { return t.PM25Outdoor }},
		{"Predicted PM2.5", func(t *models.Telemetry) *float64 { return &t.PredictedPM25 }},
		{"Temperature", func(t *models.Telemetry) *float64 { return &t.Temperature }},
		{"Humidity", func(t *models.Telemetry) *float64 { return &t.Humidity }},
		{"Gas Level", func(t *models.Telemetry) *float64 { return &t.GasLevel }},
	}

	out := make([]SeriesStats, 0, len(series))
	for _, s := range series {
		st := SeriesStats{Name: s.name, Min: math.Inf(1), Max: math.Inf(-1)}
		var sum float64
		for _, e := range entries {
			v := s.get(&e.Telemetry)
			if v == nil {
				continue
			}
			st.Count++
			sum += *v
			st.Min = math.Min(st.Min, *v)
			st.Max = math.Max(st.Max, *v)
		}
		if st.Count == 0 {
			st.Min, st.Max = 0, 0
		} else {
			st.Mean = sum / float64(st.Count)
		}
		out = append(out, st)
	}
	return out
}

func renderTrends(b *strings.Builder, h *History) {
	b.WriteString("📈 Real-Time Trends\n")
	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "series\tn\tmin\tavg\tmax")
	for _, s := range Trends(h.Tail(h.Len())) {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\n", s.Name, s.Count, s.Min, s.Mean, s.Max)
	}
	_ = w.Flush()
}

func formatOptional(v *float64, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%s", *v, unit)
}

func orDash(s string) string {
	return orDefault(s, "—")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
