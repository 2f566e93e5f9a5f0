package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/hostlabs/gpupricer-go/internal/domain/market"
	"github.com/hostlabs/gpupricer-go/internal/domain/shared"
)

const (
	defaultBaseURL     = "https://console.vast.ai/api/v0"
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = time.Second
)

// VastClient implements the market.Marketplace port against the Vast.ai
// REST API. Requests are rate limited and retried with exponential backoff
// plus jitter on transient failures (network errors, 429, 5xx).
type VastClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	apiKey      string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
}

// NewVastClient creates a client with default rate limiting (2 req/sec,
// burst 2) and retry settings.
func NewVastClient(apiKey string) *VastClient {
	return NewVastClientWithConfig(defaultBaseURL, apiKey, defaultTimeout, 2, 2, defaultMaxRetries, defaultBackoffBase, nil)
}

// NewVastClientWithConfig creates a client with custom configuration.
// If clock is nil, the system clock is used.
func NewVastClientWithConfig(
	baseURL string,
	apiKey string,
	timeout time.Duration,
	requestsPerSecond float64,
	burst int,
	maxRetries int,
	backoffBase time.Duration,
	clock shared.Clock,
) *VastClient {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &VastClient{
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		baseURL:     baseURL,
		apiKey:      apiKey,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		clock:       clock,
	}
}

// ListOwnMachines retrieves the operator's hosted machines.
func (c *VastClient) ListOwnMachines(ctx context.Context) ([]market.Machine, error) {
	var response struct {
		Machines []machineResponse `json:"machines"`
	}

	if err := c.request(ctx, http.MethodGet, "/machines", nil, &response); err != nil {
		return nil, fmt.Errorf("%w: list machines: %v", market.ErrMarketplaceUnavailable, err)
	}

	machines := make([]market.Machine, 0, len(response.Machines))
	for _, m := range response.Machines {
		machines = append(machines, m.toDomain())
	}
	return machines, nil
}

// SearchComparableOffers queries rentable offers for the given GPU model
// and count at or above minReliability.
func (c *VastClient) SearchComparableOffers(ctx context.Context, gpuName string, numGPUs int, minReliability float64) ([]market.Offer, error) {
	query := map[string]interface{}{
		"gpu_name":     map[string]interface{}{"eq": gpuName},
		"num_gpus":     map[string]interface{}{"eq": numGPUs},
		"reliability2": map[string]interface{}{"gte": minReliability},
		"rentable":     map[string]interface{}{"eq": true},
		"verified":     map[string]interface{}{"eq": "any"},
	}
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	path := "/bundles?q=" + url.QueryEscape(string(queryJSON))

	var response struct {
		Offers []offerResponse `json:"offers"`
	}

	if err := c.request(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, fmt.Errorf("%w: search offers: %v", market.ErrMarketplaceUnavailable, err)
	}

	offers := make([]market.Offer, 0, len(response.Offers))
	for _, o := range response.Offers {
		offers = append(offers, o.toDomain())
	}
	return offers, nil
}

// SetMinimumBidPrice submits a new minimum bid price for a machine.
func (c *VastClient) SetMinimumBidPrice(ctx context.Context, machineID int, newPrice float64) error {
	path := fmt.Sprintf("/machines/%d/minbid", machineID)
	body := map[string]interface{}{"price": newPrice}

	var response struct {
		Success bool   `json:"success"`
		Msg     string `json:"msg"`
	}

	if err := c.request(ctx, http.MethodPut, path, body, &response); err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.statusCode >= 400 && apiErr.statusCode < 500 {
			return &market.UpdateRejectedError{MachineID: machineID, Message: apiErr.body}
		}
		return fmt.Errorf("%w: set min bid: %v", market.ErrMarketplaceUnavailable, err)
	}

	if !response.Success {
		return &market.UpdateRejectedError{MachineID: machineID, Message: response.Msg}
	}
	return nil
}

// machineResponse mirrors the wire format of one hosted machine.
type machineResponse struct {
	ID                    int     `json:"id"`
	GPUName               string  `json:"gpu_name"`
	NumGPUs               int     `json:"num_gpus"`
	MinBidPrice           float64 `json:"min_bid_price"`
	CurrentRentalsRunning int     `json:"current_rentals_running"`
	Verified              bool    `json:"verified"`
	Reliability           float64 `json:"reliability2"`
}

func (m machineResponse) toDomain() market.Machine {
	return market.Machine{
		ID:           m.ID,
		GPUName:      m.GPUName,
		NumGPUs:      m.NumGPUs,
		CurrentPrice: m.MinBidPrice,
		IsRented:     m.CurrentRentalsRunning > 0,
		Verified:     m.Verified,
		Reliability:  m.Reliability,
	}
}

// offerResponse mirrors the wire format of one comparable offer.
type offerResponse struct {
	Rented       bool    `json:"rented"`
	DPHBase      float64 `json:"dph_base"`
	Verification string  `json:"verification"`
	Reliability  float64 `json:"reliability2"`
}

func (o offerResponse) toDomain() market.Offer {
	return market.Offer{
		Rented:       o.Rented,
		PricePerHour: o.DPHBase,
		Verified:     o.Verification == "verified",
		Reliability:  o.Reliability,
	}
}

// apiError is a non-retryable HTTP error carrying the response body.
type apiError struct {
	statusCode int
	body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.statusCode, e.body)
}

// request performs one API call with rate limiting and retries.
// Network errors, 429 and 5xx responses are retried with exponential
// backoff plus jitter (Retry-After honored when present); other 4xx
// responses fail immediately.
func (c *VastClient) request(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	reqURL := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		var reqBody io.Reader
		if body != nil {
			jsonData, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to marshal request body: %w", err)
			}
			reqBody = bytes.NewBuffer(jsonData)
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("network error: %w", err)
			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			c.clock.Sleep(addJitter(c.backoffBase * time.Duration(1<<attempt)))
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error (%d)", resp.StatusCode)
			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}

			backoffDelay := addJitter(c.backoffBase * time.Duration(1<<attempt))
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					backoffDelay = time.Duration(seconds) * time.Second
				}
			}
			c.clock.Sleep(backoffDelay)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &apiError{statusCode: resp.StatusCode, body: string(respBody)}
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// addJitter randomizes a backoff duration (0.5x to 1.5x) to avoid
// synchronized retries.
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64()
	return time.Duration(float64(d) * jitter)
}
