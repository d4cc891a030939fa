package predictions

import "strings"

// Seasonal baselines for the cities the marketplace operates in. Used whenever
// a live weather source is not configured or reachable.
var cityWeather = map[string]Weather{
	"mumbai":    {TemperatureC: 32, Humidity: 75, Description: "Hot and humid", Condition: "sunny"},
	"delhi":     {TemperatureC: 28, Humidity: 60, Description: "Partly cloudy", Condition: "cloudy"},
	"bangalore": {TemperatureC: 24, Humidity: 65, Description: "Pleasant weather", Condition: "cloudy"},
	"chennai":   {TemperatureC: 31, Humidity: 80, Description: "Hot and coastal", Condition: "sunny"},
	"kolkata":   {TemperatureC: 29, Humidity: 70, Description: "Warm and humid", Condition: "cloudy"},
	"pune":      {TemperatureC: 26, Humidity: 55, Description: "Pleasant", Condition: "sunny"},
}

// WeatherFor returns the baseline weather snapshot for a city.
func WeatherFor(city string) Weather {
	if w, ok := cityWeather[strings.ToLower(strings.TrimSpace(city))]; ok {
		return w
	}
	return Weather{TemperatureC: 28, Humidity: 65, Description: "Moderate weather", Condition: "sunny"}
}
