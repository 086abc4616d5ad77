package travel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"travel_dialogue_engine/src/logger"
	"travel_dialogue_engine/src/model"
)

const (
	tokenPath = "/v1/security/oauth2/token"

	// tokenRefreshMargin renews the cached token before it actually
	// expires so in-flight requests never race the expiry.
	tokenRefreshMargin = 30 * time.Second

	geocodeUserAgent = "travel-dialogue-engine/1.0"
)

// Client talks to the Amadeus self-service APIs plus the Nominatim
// geocoder. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	geocodeURL string
	apiKey     string
	apiSecret  string
	radiusKM   int

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient builds a travel API client from configuration and credentials.
func NewClient(config model.TravelConfig, apiKey, apiSecret string) *Client {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if config.TimeoutSeconds <= 0 {
		timeout = 10 * time.Second
	}

	radius := config.RadiusKM
	if radius <= 0 {
		radius = 1
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		geocodeURL: config.GeocodeURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		radiusKM:   radius,
	}
}

// Coordinates is a geocoded city location.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// getToken returns a valid OAuth2 access token, reusing the cached one
// until it is close to expiry.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.apiKey)
	form.Set("client_secret", c.apiSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("error creating token request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error requesting access token: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading token response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token tokenResponse
	if err := sonic.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("error parsing token response: %v", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	c.token = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenRefreshMargin)

	logger.Debug().
		Int("expires_in", token.ExpiresIn).
		Msg("Obtained Amadeus access token")

	return c.token, nil
}

// get performs an authenticated GET against the Amadeus API and returns
// the response body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response from %s: %v", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s failed with status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}

type geocodeEntry struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a city name to coordinates via Nominatim.
func (c *Client) Geocode(ctx context.Context, city string) (Coordinates, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Coordinates{}, fmt.Errorf("city name is empty")
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("format", "json")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.geocodeURL+"?"+query.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("error creating geocode request: %v", err)
	}
	req.Header.Set("User-Agent", geocodeUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("error geocoding %q: %v", city, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Coordinates{}, fmt.Errorf("error reading geocode response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("geocoding failed with status %d", resp.StatusCode)
	}

	var entries []geocodeEntry
	if err := sonic.Unmarshal(body, &entries); err != nil {
		return Coordinates{}, fmt.Errorf("error parsing geocode response: %v", err)
	}
	if len(entries) == 0 {
		return Coordinates{}, fmt.Errorf("no location found for %q", city)
	}

	lat, err := strconv.ParseFloat(entries[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("error parsing latitude %q: %v", entries[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(entries[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("error parsing longitude %q: %v", entries[0].Lon, err)
	}

	logger.Debug().
		Str("city", city).
		Float64("lat", lat).
		Float64("lon", lon).
		Msg("Geocoded city")

	return Coordinates{Latitude: lat, Longitude: lon}, nil
}
