package coverletter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/coverletter"
	"github.com/fwojciec/coverletter/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_Expired(t *testing.T) {
	t.Parallel()
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := coverletter.Credentials{AccessToken: "a", ExpiresIn: 3600, CreatedAt: created}

	assert.False(t, c.Expired(created.Add(59*time.Minute)))
	assert.True(t, c.Expired(created.Add(time.Hour)))
	assert.Equal(t, created.Add(time.Hour), c.ExpiresAt())
	assert.True(t, coverletter.Credentials{AccessToken: "a"}.Expired(created))
}

func TestStoreTokenSource_Token(t *testing.T) {
	t.Parallel()
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	creds := coverletter.Credentials{AccessToken: "tok", ExpiresIn: 60, CreatedAt: created}
	store := &mock.TokenStore{LoadFn: func(context.Context) (coverletter.Credentials, error) { return creds, nil }}

	t.Run("returns token while valid", func(t *testing.T) {
		t.Parallel()
		src := coverletter.StoreTokenSource{Store: store, Now: func() time.Time { return created.Add(time.Second) }}
		tok, err := src.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok", tok)
	})

	t.Run("reports expired token as unauthenticated", func(t *testing.T) {
		t.Parallel()
		src := coverletter.StoreTokenSource{Store: store, Now: func() time.Time { return created.Add(time.Minute) }}
		_, err := src.Token(context.Background())
		assert.ErrorIs(t, err, coverletter.ErrUnauthenticated)
	})

	t.Run("reports missing credentials as unauthenticated", func(t *testing.T) {
		t.Parallel()
		empty := &mock.TokenStore{LoadFn: func(context.Context) (coverletter.Credentials, error) {
			return coverletter.Credentials{}, coverletter.ErrUnauthenticated
		}}
		_, err := coverletter.StoreTokenSource{Store: empty}.Token(context.Background())
		assert.ErrorIs(t, err, coverletter.ErrUnauthenticated)
	})

	t.Run("wraps store failures", func(t *testing.T) {
		t.Parallel()
		broken := &mock.TokenStore{LoadFn: func(context.Context) (coverletter.Credentials, error) {
			return coverletter.Credentials{}, errors.New("disk on fire")
		}}
		_, err := coverletter.StoreTokenSource{Store: broken}.Token(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, coverletter.ErrUnauthenticated)
		assert.Contains(t, err.Error(), "disk on fire")
	})
}

func TestStaticToken(t *testing.T) {
	t.Parallel()
	tok, err := coverletter.StaticToken("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = coverletter.StaticToken("").Token(context.Background())
	assert.ErrorIs(t, err, coverletter.ErrUnauthenticated)
}
