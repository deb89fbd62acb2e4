package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// UnknownLocation is shown when the lookup fails
const UnknownLocation = "Unknown Location"

// DefaultURL is the ipinfo.io endpoint for the caller's own address
const DefaultURL = "https://ipinfo.io/json"

// Locator resolves the host's approximate location from its public IP
type Locator struct {
	url    string
	client *http.Client
}

type ipInfo struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// NewLocator creates a locator; an empty url uses DefaultURL
func NewLocator(url string) *Locator {
	if url == "" {
		url = DefaultURL
	}
	return &Locator{
		url:    url,
		client: &http.Client{Timeout: 3 * time.Second},
	}
}

// Lookup returns "city, region, country" or UnknownLocation
func (l *Locator) Lookup(ctx context.Context) string {
	info, err := l.fetch(ctx)
	if err != nil {
		log.Printf("Locator: Lookup failed: %v", err)
		return UnknownLocation
	}
	return fmt.Sprintf("%s, %s, %s", info.City, info.Region, info.Country)
}

func (l *Locator) fetch(ctx context.Context) (*ipInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info ipInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return &info, nil
}
