package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExchangeResolvesVerifiedAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var body struct {
			IDToken string `json:"idToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.IDToken != "opaque-token" {
			t.Errorf("unexpected idToken: %q", body.IDToken)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[{"email":"ada@example.com","emailVerified":true,"displayName":"Ada"}]}`))
	}))
	defer srv.Close()

	verifier := NewGoogleVerifier(srv.URL)
	id, err := verifier.Exchange(context.Background(), "opaque-token")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if id.Email != "ada@example.com" {
		t.Fatalf("unexpected email: %q", id.Email)
	}
	if !id.EmailVerified {
		t.Fatal("expected verified email")
	}
	if id.DisplayName != "Ada" {
		t.Fatalf("unexpected display name: %q", id.DisplayName)
	}
}

func TestExchangeReportsUnverifiedEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"users":[{"email":"ada@example.com","emailVerified":false,"displayName":"Ada"}]}`))
	}))
	defer srv.Close()

	id, err := NewGoogleVerifier(srv.URL).Exchange(context.Background(), "tok")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if id.EmailVerified {
		t.Fatal("expected unverified email")
	}
}

func TestExchangeFailsOnProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"INVALID_ID_TOKEN"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewGoogleVerifier(srv.URL).Exchange(context.Background(), "bad")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestExchangeFailsOnEmptyAccountList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"users":[]}`))
	}))
	defer srv.Close()

	_, err := NewGoogleVerifier(srv.URL).Exchange(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestExchangeFailsWhenProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewGoogleVerifier(srv.URL).Exchange(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected error")
	}
}
