package json_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/coverletter"
	cljson "github.com/fwojciec/coverletter/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	created := time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)
	creds := coverletter.Credentials{
		AccessToken:  "acc",
		RefreshToken: "ref",
		ExpiresIn:    900,
		CreatedAt:    created,
		User:         coverletter.User{ID: "u-1", Email: "a@b.c"},
	}

	t.Run("save then load", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nested", "dir", "credentials.json")
		store := cljson.NewTokenStore(path)

		require.NoError(t, store.Save(ctx, creds))
		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, creds, got)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("missing file is unauthenticated", func(t *testing.T) {
		t.Parallel()
		store := cljson.NewTokenStore(filepath.Join(t.TempDir(), "none.json"))
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, coverletter.ErrUnauthenticated)
	})

	t.Run("clear removes and tolerates absence", func(t *testing.T) {
		t.Parallel()
		store := cljson.NewTokenStore(filepath.Join(t.TempDir(), "credentials.json"))
		require.NoError(t, store.Save(ctx, creds))
		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.Clear(ctx))
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, coverletter.ErrUnauthenticated)
	})

	t.Run("works as a token source", func(t *testing.T) {
		t.Parallel()
		store := cljson.NewTokenStore(filepath.Join(t.TempDir(), "credentials.json"))
		require.NoError(t, store.Save(ctx, creds))
		src := coverletter.StoreTokenSource{Store: store, Now: func() time.Time { return created.Add(time.Minute) }}
		tok, err := src.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "acc", tok)
	})
}

func TestUnmarshalCredentials_Errors(t *testing.T) {
	t.Parallel()
	_, err := cljson.UnmarshalCredentials([]byte(`{"version":2}`))
	assert.ErrorContains(t, err, "unsupported envelope version: 2")

	_, err = cljson.UnmarshalCredentials([]byte(`not json`))
	assert.ErrorContains(t, err, "unmarshal envelope")
}

func TestMarshalCredentials_WireFormat(t *testing.T) {
	t.Parallel()
	data, err := cljson.MarshalCredentials(coverletter.Credentials{
		AccessToken: "acc",
		ExpiresIn:   60,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": 1,
		"access_token": "acc",
		"refresh_token": "",
		"expires_in": 60,
		"created_at": "2026-01-01T00:00:00Z"
	}`, string(data))
}

func TestSaveResult(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "results", "abc-1.json")
	saved := cljson.NewSavedResult(
		coverletter.GenerateRequest{JobRequirements: "Go engineer"},
		coverletter.GenerationResult{CoverLetterID: "abc-1", Content: "Dear team,\n\nI am writing..."},
		time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	)

	require.NoError(t, cljson.SaveResult(path, saved))
	got, err := cljson.LoadResult(path)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	_, err = cljson.LoadResult(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read file")
}
