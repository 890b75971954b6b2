package json

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/fwojciec/coverletter"
)

// Interface compliance check.
var _ coverletter.TokenStore = (*TokenStore)(nil)

// credentialsEnvelope is the v1 wire format for stored credentials.
type credentialsEnvelope struct {
	Version      int       `json:"version"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	CreatedAt    time.Time `json:"created_at"`
	UserID       string    `json:"user_id,omitempty"`
	UserEmail    string    `json:"user_email,omitempty"`
}

// MarshalCredentials serializes Credentials in v1 envelope format.
func MarshalCredentials(c coverletter.Credentials) ([]byte, error) {
	return json.MarshalIndent(credentialsEnvelope{
		Version:      envelopeVersion,
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		ExpiresIn:    c.ExpiresIn,
		CreatedAt:    c.CreatedAt,
		UserID:       c.User.ID,
		UserEmail:    c.User.Email,
	}, "", "  ")
}

// UnmarshalCredentials deserializes Credentials from v1 envelope format.
func UnmarshalCredentials(data []byte) (coverletter.Credentials, error) {
	var env credentialsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return coverletter.Credentials{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if err := checkVersion(env.Version); err != nil {
		return coverletter.Credentials{}, err
	}
	return coverletter.Credentials{
		AccessToken:  env.AccessToken,
		RefreshToken: env.RefreshToken,
		ExpiresIn:    env.ExpiresIn,
		CreatedAt:    env.CreatedAt,
		User:         coverletter.User{ID: env.UserID, Email: env.UserEmail},
	}, nil
}

// TokenStore keeps credentials in a single file.
type TokenStore struct {
	Path string
}

// NewTokenStore returns a TokenStore backed by the file at path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{Path: path}
}

// Load reads the stored credentials. A missing file is reported as
// [coverletter.ErrUnauthenticated].
func (s *TokenStore) Load(_ context.Context) (coverletter.Credentials, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return coverletter.Credentials{}, fmt.Errorf("no credentials at %s: %w", s.Path, coverletter.ErrUnauthenticated)
	}
	if err != nil {
		return coverletter.Credentials{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalCredentials(data)
}

// Save replaces the stored credentials.
func (s *TokenStore) Save(_ context.Context, c coverletter.Credentials) error {
	data, err := MarshalCredentials(c)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeFile(s.Path, data)
}

// Clear removes the stored credentials. Clearing an empty store is not an error.
func (s *TokenStore) Clear(_ context.Context) error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
