package services

import "fmt"

// WeatherObservation is a point-in-time weather reading supplied by the
// caller; fetching it is not this layer's concern.
type WeatherObservation struct {
	Temp int    `json:"temp"`
	Text string `json:"text"`
}

// Greeting builds the home-page greeting line for a given local hour and an
// optional weather observation.
func Greeting(weather *WeatherObservation, hour int) string {
	var timeText string
	switch {
	case hour < 11:
		timeText = "Good morning"
	case hour < 18:
		timeText = "Good afternoon"
	default:
		timeText = "Good night"
	}

	var weatherText string
	switch {
	case weather == nil:
		weatherText = "I couldn't check the weather, but I still miss you"
	case weather.Temp <= 15:
		weatherText = fmt.Sprintf("it's a chilly %d° and %s today, stay warm", weather.Temp, weather.Text)
	case weather.Temp >= 30:
		weatherText = fmt.Sprintf("it's a hot %d° and %s today, stay cool", weather.Temp, weather.Text)
	default:
		weatherText = fmt.Sprintf("%d° and %s today, a lovely day for a walk together", weather.Temp, weather.Text)
	}

	return timeText + " ❤️ " + weatherText
}
