package clinical

// AQI bands (US AQI) used to colour the reading on the submission form.
const (
	AQIGood               = "Good"
	AQIModerate           = "Moderate"
	AQIUnhealthySensitive = "Unhealthy for Sensitive Groups"
	AQIUnhealthy          = "Unhealthy"
)

func ClassifyAQI(aqi int) string {
	switch {
	case aqi <= 50:
		return AQIGood
	case aqi <= 100:
		return AQIModerate
	case aqi <= 150:
		return AQIUnhealthySensitive
	default:
		return AQIUnhealthy
	}
}
