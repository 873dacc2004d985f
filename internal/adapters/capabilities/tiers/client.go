package tiers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"plan-timeline/internal/platform/httpclient"
)

var (
	ErrTiersNotConfigured = errors.New("tiers client not configured")
	ErrTiersUnauthorized  = errors.New("tiers unauthorized")
	ErrTiersUpstream      = errors.New("tiers upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

// Client talks to the subscription-tiers service, which knows which premium
// capabilities (e.g. spreadsheet export) a user's plan tier includes.
type Client struct {
	apiKey       string
	apiKeyHeader string
	http         *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		http:         hc,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

type CapabilitiesResponse struct {
	// Example: {"timeline:export:xlsx": true, "plans:unlimited": false}
	Capabilities map[string]bool `json:"capabilities"`
}

// GetCapabilities fetches the capability map for a user.
func (c *Client) GetCapabilities(ctx context.Context, userID string) (CapabilitiesResponse, error) {
	if !c.IsConfigured() {
		return CapabilitiesResponse{}, ErrTiersNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return CapabilitiesResponse{}, errors.New("userID required")
	}

	var out CapabilitiesResponse
	err := c.http.DoJSON(ctx, http.MethodGet, "/v1/capabilities?user_id="+userID,
		map[string]string{c.apiKeyHeader: c.apiKey},
		nil,
		&out,
	)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				return CapabilitiesResponse{}, ErrTiersUnauthorized
			}
			return CapabilitiesResponse{}, fmt.Errorf("%w: status=%d", ErrTiersUpstream, httpErr.StatusCode)
		}
		return CapabilitiesResponse{}, fmt.Errorf("%w: %v", ErrTiersUpstream, err)
	}

	if out.Capabilities == nil {
		out.Capabilities = map[string]bool{}
	}
	return out, nil
}
