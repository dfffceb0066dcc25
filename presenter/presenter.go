// Package presenter reshapes the forecast service's raw parallel-array
// response into flat, display-ready records with human-readable date and
// time labels.
package presenter

import (
	"fmt"
	"time"

	"weatherdash/models"
)

// Snapshot is the display-ready forecast for one city. It is built fresh on
// every successful fetch, never mutated afterwards, and replaced wholesale
// on the next selection.
type Snapshot struct {
	Current Current       `json:"current"`
	Hourly  []HourlyEntry `json:"hourly"`
	Daily   []DailyEntry  `json:"daily"`
}

// Current is the single current-conditions record.
type Current struct {
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feelsLike"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	WeatherCode int     `json:"weatherCode"`
}

// HourlyEntry is one hourly sample with its 12-hour clock label.
type HourlyEntry struct {
	ISOTime     string  `json:"isoTime"`
	DisplayTime string  `json:"time"`
	Temp        float64 `json:"temp"`
	PrecipProb  int     `json:"precipProb"`
	WeatherCode int     `json:"weatherCode"`
}

// DailyEntry is one calendar day with its display labels.
type DailyEntry struct {
	ISODate     string  `json:"isoDate"`
	DisplayDate string  `json:"date"`
	DayLabel    string  `json:"day"`
	ShortDate   string  `json:"shortDate"`
	WeatherCode int     `json:"weatherCode"`
	TempMax     float64 `json:"tempMax"`
	TempMin     float64 `json:"tempMin"`
}

// MalformedError reports a parallel-array length mismatch in a forecast
// response section. Positional correspondence between axes is what makes
// the display correct, so a mismatch is fatal to the request rather than
// silently truncated.
type MalformedError struct {
	Section string
	Axis    string
	Want    int
	Got     int
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed forecast response: %s.%s has %d entries, want %d", e.Section, e.Axis, e.Got, e.Want)
}

// Normalize transforms a raw forecast response into a display-ready
// Snapshot. It is a pure function: no network, no mutable state, and it
// never fails for a structurally valid response. Each section's value axes
// are checked against its time axis before any record is emitted.
func Normalize(raw models.ForecastResponse) (Snapshot, error) {
	if err := validateHourly(raw.Hourly); err != nil {
		return Snapshot{}, err
	}
	if err := validateDaily(raw.Daily); err != nil {
		return Snapshot{}, err
	}

	hourly := make([]HourlyEntry, len(raw.Hourly.Time))
	for i, t := range raw.Hourly.Time {
		hourly[i] = HourlyEntry{
			ISOTime:     t,
			DisplayTime: hourLabel(t),
			Temp:        raw.Hourly.Temperature[i],
			PrecipProb:  raw.Hourly.PrecipProb[i],
			WeatherCode: raw.Hourly.WeatherCode[i],
		}
	}

	daily := make([]DailyEntry, len(raw.Daily.Time))
	for i, d := range raw.Daily.Time {
		day := parseDate(d)
		daily[i] = DailyEntry{
			ISODate:     d,
			DisplayDate: day.Format("Monday, Jan 2"),
			DayLabel:    day.Format("Mon"),
			ShortDate:   day.Format("Jan 2"),
			WeatherCode: raw.Daily.WeatherCode[i],
			TempMax:     raw.Daily.TempMax[i],
			TempMin:     raw.Daily.TempMin[i],
		}
	}

	return Snapshot{
		Current: Current{
			Temp:        raw.Current.Temperature,
			FeelsLike:   raw.Current.ApparentTemp,
			Humidity:    raw.Current.Humidity,
			WindSpeed:   raw.Current.WindSpeed,
			WeatherCode: raw.Current.WeatherCode,
		},
		Hourly: hourly,
		Daily:  daily,
	}, nil
}

func validateHourly(h models.HourlySeries) error {
	want := len(h.Time)
	if len(h.Temperature) != want {
		return &MalformedError{Section: "hourly", Axis: "temperature_2m", Want: want, Got: len(h.Temperature)}
	}
	if len(h.PrecipProb) != want {
		return &MalformedError{Section: "hourly", Axis: "precipitation_probability", Want: want, Got: len(h.PrecipProb)}
	}
	if len(h.WeatherCode) != want {
		return &MalformedError{Section: "hourly", Axis: "weather_code", Want: want, Got: len(h.WeatherCode)}
	}
	return nil
}

func validateDaily(d models.DailySeries) error {
	want := len(d.Time)
	if len(d.WeatherCode) != want {
		return &MalformedError{Section: "daily", Axis: "weather_code", Want: want, Got: len(d.WeatherCode)}
	}
	if len(d.TempMax) != want {
		return &MalformedError{Section: "daily", Axis: "temperature_2m_max", Want: want, Got: len(d.TempMax)}
	}
	if len(d.TempMin) != want {
		return &MalformedError{Section: "daily", Axis: "temperature_2m_min", Want: want, Got: len(d.TempMin)}
	}
	return nil
}

// hourLabel renders an hourly ISO timestamp as a 12-hour clock label such
// as "3 PM". An unparseable timestamp falls back to the raw string so that
// normalization stays total.
func hourLabel(iso string) string {
	t, err := time.Parse("2006-01-02T15:04", iso)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, iso); err != nil {
			return iso
		}
	}
	return t.Format("3 PM")
}

// parseDate treats a bare calendar date as midnight local time. Parsing the
// date in any other zone can shift the displayed weekday by one day
// depending on the machine's offset.
func parseDate(iso string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", iso, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
