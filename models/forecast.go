package models

// ForecastResponse is the raw payload returned by the forecast service.
// Hourly and daily sections are parallel arrays: one time axis plus
// same-length value axes. Index-to-index correspondence across axes is
// positional; a length mismatch means the response is malformed.
type ForecastResponse struct {
	Current CurrentConditions `json:"current"`
	Hourly  HourlySeries      `json:"hourly"`
	Daily   DailySeries       `json:"daily"`
}

// CurrentConditions holds the single current-weather record.
type CurrentConditions struct {
	Time         string  `json:"time"`
	Temperature  float64 `json:"temperature_2m"`
	Humidity     float64 `json:"relative_humidity_2m"`
	ApparentTemp float64 `json:"apparent_temperature"`
	WeatherCode  int     `json:"weather_code"`
	WindSpeed    float64 `json:"wind_speed_10m"`
}

// HourlySeries holds one forecast value per hour, keyed positionally by Time.
type HourlySeries struct {
	Time        []string  `json:"time"`
	Temperature []float64 `json:"temperature_2m"`
	PrecipProb  []int     `json:"precipitation_probability"`
	WeatherCode []int     `json:"weather_code"`
}

// DailySeries holds one forecast value per calendar day, keyed positionally
// by Time (bare ISO dates, no time component).
type DailySeries struct {
	Time        []string  `json:"time"`
	WeatherCode []int     `json:"weather_code"`
	TempMax     []float64 `json:"temperature_2m_max"`
	TempMin     []float64 `json:"temperature_2m_min"`
}
