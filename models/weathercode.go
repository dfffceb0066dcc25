package models

// WeatherCode maps a WMO weather interpretation code to display text and an
// icon key for the presentation layer.
type WeatherCode struct {
	Description string
	IconKey     string
}

// WMO weather interpretation codes (https://open-meteo.com/en/docs)
var weatherCodes = map[int]WeatherCode{
	0:  {"Clear sky", "sun"},
	1:  {"Mainly clear", "sun"},
	2:  {"Partly cloudy", "cloud"},
	3:  {"Overcast", "cloud"},
	45: {"Fog", "cloud-fog"},
	48: {"Depositing rime fog", "cloud-fog"},
	51: {"Light drizzle", "cloud-rain"},
	53: {"Moderate drizzle", "cloud-rain"},
	55: {"Dense drizzle", "cloud-rain"},
	56: {"Light freezing drizzle", "cloud-rain"},
	57: {"Dense freezing drizzle", "cloud-rain"},
	61: {"Slight rain", "cloud-rain"},
	63: {"Moderate rain", "cloud-rain"},
	65: {"Heavy rain", "cloud-rain"},
	66: {"Light freezing rain", "cloud-rain"},
	67: {"Heavy freezing rain", "cloud-rain"},
	71: {"Slight snow fall", "cloud-snow"},
	73: {"Moderate snow fall", "cloud-snow"},
	75: {"Heavy snow fall", "cloud-snow"},
	77: {"Snow grains", "cloud-snow"},
	80: {"Slight rain showers", "cloud-rain"},
	81: {"Moderate rain showers", "cloud-rain"},
	82: {"Violent rain showers", "cloud-rain"},
	85: {"Slight snow showers", "cloud-snow"},
	86: {"Heavy snow showers", "cloud-snow"},
	95: {"Thunderstorm", "cloud-lightning"},
	96: {"Thunderstorm with slight hail", "cloud-lightning"},
	99: {"Thunderstorm with heavy hail", "cloud-lightning"},
}

// LookupWeatherCode resolves a WMO code to its display entry. Unknown codes
// fall back to the code-0 entry rather than failing.
func LookupWeatherCode(code int) WeatherCode {
	if wc, ok := weatherCodes[code]; ok {
		return wc
	}
	return weatherCodes[0]
}
