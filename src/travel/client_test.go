package travel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"travel_dialogue_engine/src/model"
)

// newTestClient points a Client at local test servers for the Amadeus API
// and the geocoder.
func newTestClient(apiURL, geocodeURL string) *Client {
	return NewClient(model.TravelConfig{
		BaseURL:        apiURL,
		GeocodeURL:     geocodeURL,
		RadiusKM:       1,
		TimeoutSeconds: 5,
	}, "test-key", "test-secret")
}

func newGeocodeServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != geocodeUserAgent {
			t.Errorf("Expected User-Agent %q, got %q", geocodeUserAgent, r.Header.Get("User-Agent"))
		}
		if r.URL.Query().Get("format") != "json" || r.URL.Query().Get("limit") != "1" {
			t.Errorf("Unexpected geocode query: %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("q") == "Nowhere" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"lat":"48.8566","lon":"2.3522"}]`))
	}))
}

func TestGeocode(t *testing.T) {
	geocoder := newGeocodeServer(t)
	defer geocoder.Close()

	client := newTestClient("http://unused.invalid", geocoder.URL)

	coords, err := client.Geocode(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}
	if coords.Latitude != 48.8566 || coords.Longitude != 2.3522 {
		t.Errorf("Expected Paris coordinates, got %+v", coords)
	}

	if _, err := client.Geocode(context.Background(), "Nowhere"); err == nil {
		t.Error("Expected an error for an unknown city")
	}
	if _, err := client.Geocode(context.Background(), "  "); err == nil {
		t.Error("Expected an error for a blank city")
	}
}

func TestTokenIsCachedAcrossRequests(t *testing.T) {
	var tokenCalls atomic.Int32

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			tokenCalls.Add(1)
			if err := r.ParseForm(); err != nil {
				t.Fatalf("ParseForm failed: %v", err)
			}
			if r.PostForm.Get("grant_type") != "client_credentials" {
				t.Errorf("Expected client_credentials grant, got %q", r.PostForm.Get("grant_type"))
			}
			if r.PostForm.Get("client_id") != "test-key" || r.PostForm.Get("client_secret") != "test-secret" {
				t.Errorf("Credentials not forwarded: %v", r.PostForm)
			}
			w.Write([]byte(`{"access_token":"tok-123","expires_in":1799,"token_type":"Bearer"}`))
		case activitiesPath:
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				t.Errorf("Expected bearer token, got %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(`{"data":[]}`))
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer api.Close()

	geocoder := newGeocodeServer(t)
	defer geocoder.Close()

	client := newTestClient(api.URL, geocoder.URL)

	for i := 0; i < 3; i++ {
		if _, err := client.SearchActivities(context.Background(), "Paris"); err != nil {
			t.Fatalf("SearchActivities failed: %v", err)
		}
	}

	if got := tokenCalls.Load(); got != 1 {
		t.Errorf("Expected 1 token request, got %d", got)
	}
}

func TestTokenFailureSurfacesError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer api.Close()

	geocoder := newGeocodeServer(t)
	defer geocoder.Close()

	client := newTestClient(api.URL, geocoder.URL)

	_, err := client.SearchActivities(context.Background(), "Paris")
	if err == nil {
		t.Fatal("Expected an error when the token request fails")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("Expected the status in the error, got: %v", err)
	}
}

func TestSearchActivities(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			w.Write([]byte(`{"access_token":"tok","expires_in":1799}`))
		case activitiesPath:
			if r.URL.Query().Get("latitude") == "" || r.URL.Query().Get("longitude") == "" {
				t.Errorf("Missing coordinates in query: %s", r.URL.RawQuery)
			}
			if r.URL.Query().Get("radius") != "1" {
				t.Errorf("Expected radius 1, got %q", r.URL.Query().Get("radius"))
			}
			w.Write([]byte(`{"data":[
				{"id":"a1","name":"Louvre Museum","shortDescription":"World famous art","rating":"4.8","price":{"amount":"25.00","currencyCode":"EUR"}},
				{"id":"a2","name":"Seine sunset cruise","rating":"4.5","price":{"amount":"39.00","currencyCode":"EUR"}},
				{"id":"a3","name":"","shortDescription":"nameless"}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer api.Close()

	geocoder := newGeocodeServer(t)
	defer geocoder.Close()

	client := newTestClient(api.URL, geocoder.URL)

	activities, err := client.SearchActivities(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("SearchActivities failed: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("Expected 2 activities (nameless dropped), got %d", len(activities))
	}
	if activities[0].Category != "cultural" {
		t.Errorf("Expected the Louvre categorized as cultural, got %q", activities[0].Category)
	}
	if activities[1].Category != "relax" {
		t.Errorf("Expected the cruise categorized as relax, got %q", activities[1].Category)
	}
	if activities[0].Price.Amount != "25.00" || activities[0].Price.CurrencyCode != "EUR" {
		t.Errorf("Price not carried through: %+v", activities[0].Price)
	}
}

func TestSearchHotels(t *testing.T) {
	var offersQuery string

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			w.Write([]byte(`{"access_token":"tok","expires_in":1799}`))
		case hotelsByGeocodePath:
			if r.URL.Query().Get("ratings") != "3,4" {
				t.Errorf("Expected ratings 3,4 for a medium budget, got %q", r.URL.Query().Get("ratings"))
			}
			// Out of distance order on purpose.
			w.Write([]byte(`{"data":[
				{"hotelId":"H2","name":"Hotel Far","rating":"4","distance":{"value":3.1,"unit":"KM"}},
				{"hotelId":"H1","name":"Hotel Near","rating":"3","distance":{"value":0.4,"unit":"KM"}},
				{"hotelId":"H3","name":"Hotel Mid","rating":"3","distance":{"value":1.2,"unit":"KM"}}
			]}`))
		case hotelOffersPath:
			offersQuery = r.URL.RawQuery
			w.Write([]byte(`{"data":[
				{"hotel":{"hotelId":"H1","name":"Hotel Near","rating":"3"},"available":true,"offers":[{"price":{"total":"210.00","currency":"EUR"},"boardType":"BREAKFAST","roomInformation":{"description":"Double room with balcony"}}]},
				{"hotel":{"hotelId":"H3"},"available":true,"offers":[{"price":{"total":"180.00","currency":"EUR"}}]},
				{"hotel":{"hotelId":"H2","name":"Hotel Far","rating":"4"},"available":false,"offers":[{"price":{"total":"90.00","currency":"EUR"}}]}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer api.Close()

	geocoder := newGeocodeServer(t)
	defer geocoder.Close()

	client := newTestClient(api.URL, geocoder.URL)

	offers, err := client.SearchHotels(context.Background(), "Paris", "2026-04-10", "2026-04-14", 2, "medium")
	if err != nil {
		t.Fatalf("SearchHotels failed: %v", err)
	}

	if len(offers) != 2 {
		t.Fatalf("Expected 2 offers (unavailable dropped), got %d", len(offers))
	}
	if offers[0].HotelID != "H1" || offers[0].Total != "210.00" {
		t.Errorf("Unexpected first offer: %+v", offers[0])
	}
	if offers[0].BoardType != "BREAKFAST" || offers[0].Description != "Double room with balcony" {
		t.Errorf("Expected room details carried over, got %+v", offers[0])
	}
	if offers[1].Name != "Hotel Mid" || offers[1].Rating != "3" {
		t.Errorf("Expected name and rating backfilled from the hotel list, got %+v", offers[1])
	}

	for _, want := range []string{
		"hotelIds=H1%2CH3%2CH2",
		"adults=2",
		"checkInDate=2026-04-10",
		"checkOutDate=2026-04-14",
		"roomQuantity=1",
		"includeClosed=false",
		"bestRateOnly=true",
	} {
		if !strings.Contains(offersQuery, want) {
			t.Errorf("Offers query missing %q: %s", want, offersQuery)
		}
	}
}

func TestSearchHotelsNoCandidates(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			w.Write([]byte(`{"access_token":"tok","expires_in":1799}`))
		case hotelsByGeocodePath:
			w.Write([]byte(`{"data":[]}`))
		default:
			t.Errorf("Offers should not be requested without candidates, got %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer api.Close()

	geocoder := newGeocodeServer(t)
	defer geocoder.Close()

	client := newTestClient(api.URL, geocoder.URL)

	offers, err := client.SearchHotels(context.Background(), "Paris", "2026-04-10", "2026-04-14", 1, "")
	if err != nil {
		t.Fatalf("SearchHotels failed: %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("Expected no offers, got %v", offers)
	}
}
