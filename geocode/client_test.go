package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testClient(searchURL, reverseURL string) *Client {
	c := NewClient(zap.NewNop())
	if searchURL != "" {
		c.searchURL = searchURL
	}
	if reverseURL != "" {
		c.reverseURL = reverseURL
	}
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return c
}

func TestSearchCitiesShortQueryNoNetworkCall(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	for _, q := range []string{"", "L", "é"} {
		if got := c.SearchCities(context.Background(), q); len(got) != 0 {
			t.Errorf("query %q: got %d results, want 0", q, len(got))
		}
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("short queries issued %d network calls, want 0", n)
	}
}

func TestSearchCitiesReturnsServiceOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "London" {
			t.Errorf("name param = %q, want %q", got, "London")
		}
		if got := r.URL.Query().Get("count"); got != "5" {
			t.Errorf("count param = %q, want %q", got, "5")
		}
		w.Write([]byte(`{"results":[
			{"id":2643743,"name":"London","latitude":51.50853,"longitude":-0.12574,"country":"United Kingdom","admin1":"England"},
			{"id":6058560,"name":"London","latitude":42.98339,"longitude":-81.23304,"country":"Canada","admin1":"Ontario"}
		]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	got := c.SearchCities(context.Background(), "London")
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].ID != 2643743 || got[0].Country != "United Kingdom" || got[0].Admin1 != "England" {
		t.Errorf("first result = %+v", got[0])
	}
	if got[1].Country != "Canada" {
		t.Errorf("service order not preserved: second result = %+v", got[1])
	}
}

func TestSearchCitiesCapsCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[
			{"id":1,"name":"A"},{"id":2,"name":"B"},{"id":3,"name":"C"},
			{"id":4,"name":"D"},{"id":5,"name":"E"},{"id":6,"name":"F"},{"id":7,"name":"G"}
		]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	if got := c.SearchCities(context.Background(), "ab"); len(got) != 5 {
		t.Errorf("got %d results, want cap of 5", len(got))
	}
}

func TestSearchCitiesSwallowsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	if got := c.SearchCities(context.Background(), "London"); len(got) != 0 {
		t.Errorf("got %d results on server error, want 0", len(got))
	}
}

func TestSearchCitiesSwallowsNetworkError(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := testClient(srv.URL, "")
	if got := c.SearchCities(context.Background(), "London"); len(got) != 0 {
		t.Errorf("got %d results on network error, want 0", len(got))
	}
}

func TestReverseGeocodePrefersCityOverLocality(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"city":"Westminster","locality":"Covent Garden","countryName":"United Kingdom","principalSubdivision":"England"}`))
	}))
	defer srv.Close()

	c := testClient("", srv.URL)
	city := c.ReverseGeocode(context.Background(), 51.5, -0.12)
	if city.Name != "Westminster" {
		t.Errorf("name = %q, want %q", city.Name, "Westminster")
	}
	if city.Country != "United Kingdom" || city.Admin1 != "England" {
		t.Errorf("country/admin1 = %q/%q", city.Country, city.Admin1)
	}
	if city.Latitude != 51.5 || city.Longitude != -0.12 {
		t.Errorf("coordinates changed: %v, %v", city.Latitude, city.Longitude)
	}
	if city.ID != 1700000000000 {
		t.Errorf("ID = %d, want synthesized timestamp", city.ID)
	}
}

func TestReverseGeocodeFallsBackToLocality(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"locality":"Small Village","countryName":"France"}`))
	}))
	defer srv.Close()

	c := testClient("", srv.URL)
	if city := c.ReverseGeocode(context.Background(), 1, 2); city.Name != "Small Village" {
		t.Errorf("name = %q, want %q", city.Name, "Small Village")
	}
}

func TestReverseGeocodeUnknownLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"countryName":"Atlantis"}`))
	}))
	defer srv.Close()

	c := testClient("", srv.URL)
	if city := c.ReverseGeocode(context.Background(), 1, 2); city.Name != "Unknown Location" {
		t.Errorf("name = %q, want %q", city.Name, "Unknown Location")
	}
}

func TestReverseGeocodeNeverFails(t *testing.T) {
	// One handler per failure mode; every one must yield the degraded city
	// with the requested coordinates intact.
	handlers := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"unparseable body": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		},
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			c := testClient("", srv.URL)
			city := c.ReverseGeocode(context.Background(), 48.85, 2.35)
			if city.Name != "Current Location" {
				t.Errorf("name = %q, want %q", city.Name, "Current Location")
			}
			if city.Country != "" {
				t.Errorf("country = %q, want empty", city.Country)
			}
			if city.Latitude != 48.85 || city.Longitude != 2.35 {
				t.Errorf("coordinates changed: %v, %v", city.Latitude, city.Longitude)
			}
		})
	}

	t.Run("network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c := testClient("", srv.URL)
		city := c.ReverseGeocode(context.Background(), 48.85, 2.35)
		if city.Name != "Current Location" || city.Latitude != 48.85 || city.Longitude != 2.35 {
			t.Errorf("degraded city = %+v", city)
		}
	})
}
