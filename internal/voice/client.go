// Package voice calls the external distress scorer.
package voice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrScorerUnavailable is returned when no scorer is configured
var ErrScorerUnavailable = errors.New("voice scorer unavailable")

// ErrEmptyAudio is returned for a zero-length clip
var ErrEmptyAudio = errors.New("empty audio")

// Scorer returns the probability that an audio clip contains distress
type Scorer interface {
	Score(ctx context.Context, filename string, audio []byte) (float64, error)
}

type scoreResponse struct {
	DistressProb *float64 `json:"distress_prob"`
}

// Client posts audio to the scorer over HTTP
type Client struct {
	httpClient *resty.Client
	url        string
}

// NewClient creates a scorer client. An empty url yields a client whose
// Score always returns ErrScorerUnavailable.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		httpClient: resty.New().SetTimeout(timeout).SetRetryCount(0),
		url:        url,
	}
}

// Score implements Scorer. The result is clamped to [0,1].
func (c *Client) Score(ctx context.Context, filename string, audio []byte) (float64, error) {
	if c.url == "" {
		return 0, ErrScorerUnavailable
	}
	if len(audio) == 0 {
		return 0, ErrEmptyAudio
	}

	var result scoreResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("audio", filename, bytes.NewReader(audio)).
		SetResult(&result).
		Post(c.url)
	if err != nil {
		return 0, fmt.Errorf("failed to call voice scorer: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("voice scorer returned status %d", resp.StatusCode())
	}
	if result.DistressProb == nil {
		return 0, fmt.Errorf("voice scorer response missing distress_prob")
	}

	return clamp(*result.DistressProb), nil
}

func clamp(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(1, p))
}
