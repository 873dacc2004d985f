package tiers

import (
	"context"
	"errors"
	"os"
	"strings"
)

// Resolver implements capabilities.Resolver against the tiers service.
type Resolver struct {
	client   *Client
	allowAll bool
}

// NewResolver creates a resolver.
// With ALLOW_ALL_CAPABILITIES=true (env) everything resolves to true
// (dev mode / fallback while the tiers service is not deployed).
func NewResolver(client *Client) *Resolver {
	allowAll := strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_ALL_CAPABILITIES")), "true")
	return &Resolver{
		client:   client,
		allowAll: allowAll,
	}
}

// Has answers whether userID holds a capability.
// With allowAll active it returns true without calling upstream.
func (r *Resolver) Has(ctx context.Context, userID, capability string) (bool, error) {
	capability = strings.TrimSpace(capability)
	if capability == "" {
		return false, errors.New("capability required")
	}

	if r.allowAll {
		return true, nil
	}

	if r == nil || r.client == nil || !r.client.IsConfigured() {
		// Fail explicitly instead of silently allowing.
		return false, ErrTiersNotConfigured
	}

	resp, err := r.client.GetCapabilities(ctx, userID)
	if err != nil {
		return false, err
	}

	return resp.Capabilities[capability], nil
}

// Resolve returns the full capability map for userID.
func (r *Resolver) Resolve(ctx context.Context, userID string) (map[string]bool, error) {
	if r.allowAll {
		return map[string]bool{"*": true}, nil
	}
	if r == nil || r.client == nil || !r.client.IsConfigured() {
		return nil, ErrTiersNotConfigured
	}
	resp, err := r.client.GetCapabilities(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resp.Capabilities, nil
}
