package models

// City is a named geographic point, the unit of selection throughout the
// dashboard. Identity is by ID only: search results carry the directory
// service's identifier, reverse-geocoded results get a synthesized one.
type City struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1,omitempty"`
}
