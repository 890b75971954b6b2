package coverbe

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/coverletter"
	"github.com/golang-jwt/jwt/v5"
)

// Register creates an account and returns its first credentials.
func (c *Client) Register(ctx context.Context, email, password string) (coverletter.Credentials, error) {
	return c.authenticate(ctx, registerPath, apiCredentialsRequest{Email: email, Password: password}, "Registration failed")
}

// Login exchanges an email and password for credentials.
func (c *Client) Login(ctx context.Context, email, password string) (coverletter.Credentials, error) {
	return c.authenticate(ctx, loginPath, apiCredentialsRequest{Email: email, Password: password}, "Login failed")
}

// Refresh exchanges a refresh token for new credentials. The returned User
// is empty when the server omits it.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (coverletter.Credentials, error) {
	return c.authenticate(ctx, refreshPath, apiRefreshRequest{RefreshToken: refreshToken}, "Token refresh failed")
}

func (c *Client) authenticate(ctx context.Context, path string, in any, fallback string) (coverletter.Credentials, error) {
	var resp apiAuthResponse
	if err := c.doJSON(ctx, http.MethodPost, path, in, &resp, false, fallback); err != nil {
		return coverletter.Credentials{}, err
	}
	now := c.now()
	creds := coverletter.Credentials{
		AccessToken:  resp.Tokens.AccessToken,
		RefreshToken: resp.Tokens.RefreshToken,
		ExpiresIn:    resp.Tokens.ExpiresIn,
		CreatedAt:    now,
		User:         coverletter.User{ID: resp.User.ID, Email: resp.User.Email},
	}
	if creds.ExpiresIn <= 0 {
		creds.ExpiresIn = tokenLifetime(creds.AccessToken, now)
	}
	return creds, nil
}

// tokenLifetime reads the exp claim of an access token without verifying
// its signature. It returns 0 when the token is not a JWT or has no exp.
func tokenLifetime(token string, now time.Time) int {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	secs := int(exp.Sub(now) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}
