// Package poi counts amenities around a coordinate using the Overpass API.
package poi

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Lookup returns the number of tagged amenities within radiusM of a point
type Lookup interface {
	Count(ctx context.Context, lat, lon, radiusM float64) (int, error)
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type string            `json:"type"`
	Tags map[string]string `json:"tags"`
}

// Client queries an Overpass interpreter. It never retries: a failure is final
// for the evaluation that asked.
type Client struct {
	httpClient     *resty.Client
	interpreterURL string
	timeout        time.Duration
}

// NewClient creates an Overpass client bounded by timeout
func NewClient(interpreterURL string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient:     httpClient,
		interpreterURL: interpreterURL,
		timeout:        timeout,
	}
}

// BuildQuery returns the Overpass QL for counting amenity nodes around a point
func BuildQuery(lat, lon, radiusM float64, timeout time.Duration) string {
	seconds := int(math.Ceil(timeout.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return fmt.Sprintf("[out:json][timeout:%d];node(around:%s,%s,%s)[amenity];out count;",
		seconds,
		strconv.FormatFloat(radiusM, 'f', -1, 64),
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64),
	)
}

// Count implements Lookup
func (c *Client) Count(ctx context.Context, lat, lon, radiusM float64) (int, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{"data": BuildQuery(lat, lon, radiusM, c.timeout)}).
		Post(c.interpreterURL)
	if err != nil {
		return 0, fmt.Errorf("failed to call overpass: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("overpass returned status %d", resp.StatusCode())
	}

	return parseCount(resp.Body())
}

// parseCount prefers the server aggregate (out count) and falls back to the
// number of returned elements
func parseCount(body []byte) (int, error) {
	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to decode overpass response: %w", err)
	}
	if len(parsed.Elements) == 0 {
		return 0, nil
	}

	if total, ok := parsed.Elements[0].Tags["total"]; ok {
		if n, err := strconv.Atoi(total); err == nil {
			return n, nil
		}
	}
	return len(parsed.Elements), nil
}
