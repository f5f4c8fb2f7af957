// Package identity exchanges provider-issued identity tokens for verified
// account details.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Identity is the verified result of a token exchange.
type Identity struct {
	Email         string
	EmailVerified bool
	DisplayName   string
}

// Verifier exchanges an opaque identity token for a verified identity.
type Verifier interface {
	Exchange(ctx context.Context, idToken string) (Identity, error)
}

// ErrExchangeFailed covers every way the exchange can fail: transport errors,
// provider rejections, and malformed responses. The auth flow does not
// distinguish between them.
var ErrExchangeFailed = errors.New("identity: token exchange failed")

// GoogleVerifier resolves Google identity tokens through the Firebase
// accounts:lookup endpoint.
type GoogleVerifier struct {
	endpoint   string
	httpClient *http.Client
}

// NewGoogleVerifier constructs a verifier for the given lookup endpoint.
func NewGoogleVerifier(endpoint string) *GoogleVerifier {
	return &GoogleVerifier{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
		DisplayName   string `json:"displayName"`
	} `json:"users"`
}

// Exchange posts the identity token to the lookup endpoint and returns the
// account it resolves to.
func (v *GoogleVerifier) Exchange(ctx context.Context, idToken string) (Identity, error) {
	payload, err := json.Marshal(lookupRequest{IDToken: idToken})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return Identity{}, fmt.Errorf("%w: lookup returned status %d", ErrExchangeFailed, resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	if len(decoded.Users) == 0 {
		return Identity{}, fmt.Errorf("%w: no account for token", ErrExchangeFailed)
	}

	user := decoded.Users[0]
	return Identity{
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		DisplayName:   user.DisplayName,
	}, nil
}

var _ Verifier = (*GoogleVerifier)(nil)
