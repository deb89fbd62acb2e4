package airquality

// Ventilation advice texts
const (
	AdviceOutdoorUnavailable = "Outdoor data unavailable. Use air purifier as needed."
	AdviceOpenWindows        = "Outdoor air is cleaner, open windows for ventilation."
	AdviceKeepClosed         = "Outdoor air is more polluted, keep windows closed."
)

// SuggestVentilation compares indoor and outdoor PM2.5.
// Equal readings keep the windows closed.
func SuggestVentilation(indoor float64, outdoor *float64) string {
	if outdoor == nil {
		return AdviceOutdoorUnavailable
	}
	if *outdoor < indoor {
		return AdviceOpenWindows
	}
	return AdviceKeepClosed
}
