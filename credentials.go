package coverletter

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// User identifies the signed-in account.
type User struct {
	ID    string
	Email string
}

// Credentials are the tokens issued at login or refresh.
// ExpiresIn is in seconds, counted from CreatedAt.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	CreatedAt    time.Time
	User         User
}

// ExpiresAt returns the instant the access token expires.
func (c Credentials) ExpiresAt() time.Time {
	return c.CreatedAt.Add(time.Duration(c.ExpiresIn) * time.Second)
}

// Expired reports whether the access token is unusable at now.
// Credentials without an expiry or creation time count as expired.
func (c Credentials) Expired(now time.Time) bool {
	if c.ExpiresIn <= 0 || c.CreatedAt.IsZero() {
		return true
	}
	return !now.Before(c.ExpiresAt())
}

// TokenStore persists credentials between invocations.
// Load returns an error wrapping ErrUnauthenticated when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, c Credentials) error
	Clear(ctx context.Context) error
}

// TokenSource supplies a bearer token for authenticated requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token returns the token, or ErrUnauthenticated when it is empty.
func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrUnauthenticated
	}
	return string(t), nil
}

// StoreTokenSource reads the access token from a TokenStore.
type StoreTokenSource struct {
	Store TokenStore
	Now   func() time.Time // nil = time.Now
}

// Token returns the stored access token. It fails with ErrUnauthenticated
// when nothing is stored or the token has expired.
func (s StoreTokenSource) Token(ctx context.Context) (string, error) {
	creds, err := s.Store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return "", err
		}
		return "", fmt.Errorf("load credentials: %w", err)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if creds.AccessToken == "" {
		return "", ErrUnauthenticated
	}
	if creds.Expired(now()) {
		return "", fmt.Errorf("access token expired at %s: %w", creds.ExpiresAt().Format(time.RFC3339), ErrUnauthenticated)
	}
	return creds.AccessToken, nil
}

// Interface compliance checks.
var (
	_ TokenSource = StaticToken("")
	_ TokenSource = StoreTokenSource{}
)

// Authenticator covers the account endpoints of the remote API.
type Authenticator interface {
	Register(ctx context.Context, email, password string) (Credentials, error)
	Login(ctx context.Context, email, password string) (Credentials, error)
	Refresh(ctx context.Context, refreshToken string) (Credentials, error)
}
