package outdoor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the OpenWeatherMap API root
const DefaultBaseURL = "http://api.openweathermap.org"

// DefaultTimeout bounds a single lookup
const DefaultTimeout = 5 * time.Second

// Source looks up the current outdoor PM2.5. A nil result means no data.
type Source interface {
	Lookup(ctx context.Context) *float64
}

// Config holds the OpenWeatherMap lookup settings
type Config struct {
	BaseURL   string
	APIKey    string
	Latitude  float64
	Longitude float64
	Timeout   time.Duration
}

// Client fetches outdoor PM2.5 from the OpenWeatherMap air pollution API
type Client struct {
	config Config
	client *http.Client
}

type airPollutionResponse struct {
	List []struct {
		Components struct {
			PM25 *float64 `json:"pm2_5"`
		} `json:"components"`
	} `json:"list"`
}

// NewClient creates a new outdoor air client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Lookup returns outdoor PM2.5 rounded to 2 decimals, or nil on any failure
func (c *Client) Lookup(ctx context.Context) *float64 {
	if c.config.APIKey == "" {
		return nil
	}

	v, err := c.fetch(ctx)
	if err != nil {
		log.Printf("OutdoorClient: Lookup failed, continuing without outdoor data: %v", err)
		return nil
	}
	return &v
}

func (c *Client) fetch(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.config.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.config.Longitude, 'f', -1, 64))
	q.Set("appid", c.config.APIKey)
	endpoint := fmt.Sprintf("%s/data/2.5/air_pollution?%s", c.config.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("error building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body airPollutionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("error decoding response: %w", err)
	}
	if len(body.List) == 0 || body.List[0].Components.PM25 == nil {
		return 0, fmt.Errorf("response has no pm2_5 component")
	}

	return math.Round(*body.List[0].Components.PM25*100) / 100, nil
}
