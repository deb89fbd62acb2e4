package airquality

// Category is a PM2.5 air quality band
type Category string

const (
	Good                        Category = "Good"
	Moderate                    Category = "Moderate"
	UnhealthyForSensitiveGroups Category = "Unhealthy for Sensitive Groups"
	Unhealthy                   Category = "Unhealthy"
	VeryUnhealthy               Category = "Very Unhealthy"
)

// Inclusive upper bounds of each band, in µg/m³
const (
	GoodMax                        = 12.0
	ModerateMax                    = 35.4
	UnhealthyForSensitiveGroupsMax = 55.4
	UnhealthyMax                   = 150.4
)

var advice = map[Category]string{
	Good:                        "Air quality is excellent. Normal ventilation is sufficient.",
	Moderate:                    "Air quality is acceptable. Consider purifier if sensitive.",
	UnhealthyForSensitiveGroups: "People with respiratory issues should reduce exposure.",
	Unhealthy:                   "Air is unhealthy. Use purifier and minimize indoor pollutants.",
	VeryUnhealthy:               "Stay indoors and use high-efficiency air purifier.",
}

// Classify maps a PM2.5 concentration to its category and health advice
func Classify(pm25 float64) (Category, string) {
	var c Category
	switch {
	case pm25 <= GoodMax:
		c = Good
	case pm25 <= ModerateMax:
		c = Moderate
	case pm25 <= UnhealthyForSensitiveGroupsMax:
		c = UnhealthyForSensitiveGroups
	case pm25 <= UnhealthyMax:
		c = Unhealthy
	default:
		c = VeryUnhealthy
	}
	return c, advice[c]
}

// ClassifyOptional classifies pm25, treating a missing value as 0
func ClassifyOptional(pm25 *float64) (Category, string) {
	if pm25 == nil {
		return Classify(0)
	}
	return Classify(*pm25)
}

// Advice returns the fixed health advice for c
func Advice(c Category) string {
	return advice[c]
}

// Badge is how the dashboard marks a category
type Badge struct {
	Emoji string
}

// BadgeFor returns the dashboard badge for c
func BadgeFor(c Category) Badge {
	switch c {
	case Good:
		return Badge{"🟢"}
	case Moderate:
		return Badge{"🟡"}
	case UnhealthyForSensitiveGroups:
		return Badge{"🟠"}
	case Unhealthy:
		return Badge{"🔴"}
	default:
		return Badge{"🟣"}
	}
}
