package airquality

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var ErrNoReading = errors.New("air quality reading unavailable")

// Provider resolves the current US AQI at a coordinate.
type Provider interface {
	CurrentAQI(ctx context.Context, lat, lon float64) (int, error)
}

type currentResponse struct {
	Current struct {
		USAQI *float64 `json:"us_aqi"`
	} `json:"current"`
}

// Client talks to the open-meteo air quality API. It never retries: a failed lookup
// leaves the reading absent and the user may ask again.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient creates the client with a fixed request timeout
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{httpClient: client, logger: logger}
}

func (c *Client) CurrentAQI(ctx context.Context, lat, lon float64) (int, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, fmt.Errorf("invalid coordinates %f,%f", lat, lon)
	}

	var out currentResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  strconv.FormatFloat(lat, 'f', -1, 64),
			"longitude": strconv.FormatFloat(lon, 'f', -1, 64),
			"current":   "us_aqi",
		}).
		SetResult(&out).
		Get("/v1/air-quality")
	if err != nil {
		c.logger.Warn("Air quality request failed", zap.Error(err))
		return 0, fmt.Errorf("failed to call air quality API: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("Air quality API returned error", zap.Int("status_code", resp.StatusCode()))
		return 0, fmt.Errorf("air quality API status %d", resp.StatusCode())
	}
	if out.Current.USAQI == nil {
		return 0, ErrNoReading
	}
	return int(math.Round(*out.Current.USAQI)), nil
}
