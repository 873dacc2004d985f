package passport

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"plan-timeline/internal/ports/auth"
)

var (
	ErrTokenEmpty = errors.New("token is empty")
)

// Verifier implements auth.AuthVerifier backed by Passport. Instantiated from
// main/router when PASSPORT_BASE_URL is configured.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrPassportNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		// The middleware already decides whether to cut the request short.
		return auth.Claims{}, fmt.Errorf("passport verify failed: %w", err)
	}

	claims.UserID = strings.TrimSpace(claims.UserID)
	if claims.UserID == "" {
		return auth.Claims{}, errors.New("passport claims missing user id")
	}

	return claims, nil
}
