package mock

import (
	"context"

	"github.com/fwojciec/coverletter"
)

// Interface compliance checks.
var (
	_ coverletter.TokenStore    = (*TokenStore)(nil)
	_ coverletter.LetterService = (*LetterService)(nil)
	_ coverletter.Authenticator = (*Authenticator)(nil)
)

// TokenStore is a test double for coverletter.TokenStore.
type TokenStore struct {
	LoadFn  func(ctx context.Context) (coverletter.Credentials, error)
	SaveFn  func(ctx context.Context, c coverletter.Credentials) error
	ClearFn func(ctx context.Context) error
}

// Load delegates to LoadFn.
func (s *TokenStore) Load(ctx context.Context) (coverletter.Credentials, error) {
	return s.LoadFn(ctx)
}

// Save delegates to SaveFn.
func (s *TokenStore) Save(ctx context.Context, c coverletter.Credentials) error {
	return s.SaveFn(ctx, c)
}

// Clear delegates to ClearFn.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.ClearFn(ctx)
}

// LetterService is a test double for coverletter.LetterService.
type LetterService struct {
	ListLettersFn func(ctx context.Context, q coverletter.PageQuery) (coverletter.LetterPage, error)
	LetterFn      func(ctx context.Context, id string) (coverletter.Letter, error)
}

// ListLetters delegates to ListLettersFn.
func (s *LetterService) ListLetters(ctx context.Context, q coverletter.PageQuery) (coverletter.LetterPage, error) {
	return s.ListLettersFn(ctx, q)
}

// Letter delegates to LetterFn.
func (s *LetterService) Letter(ctx context.Context, id string) (coverletter.Letter, error) {
	return s.LetterFn(ctx, id)
}

// Authenticator is a test double for coverletter.Authenticator.
type Authenticator struct {
	RegisterFn func(ctx context.Context, email, password string) (coverletter.Credentials, error)
	LoginFn    func(ctx context.Context, email, password string) (coverletter.Credentials, error)
	RefreshFn  func(ctx context.Context, refreshToken string) (coverletter.Credentials, error)
}

// Register delegates to RegisterFn.
func (a *Authenticator) Register(ctx context.Context, email, password string) (coverletter.Credentials, error) {
	return a.RegisterFn(ctx, email, password)
}

// Login delegates to LoginFn.
func (a *Authenticator) Login(ctx context.Context, email, password string) (coverletter.Credentials, error) {
	return a.LoginFn(ctx, email, password)
}

// Refresh delegates to RefreshFn.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (coverletter.Credentials, error) {
	return a.RefreshFn(ctx, refreshToken)
}
