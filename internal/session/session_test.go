package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type literalPair struct{ email, password string }

func (p literalPair) CheckCredentials(email, password string) bool {
	return email == p.email && password == p.password
}

var demo = literalPair{"demo@qubicball.com", "demo123"}

type failingStorage struct {
	getErr, putErr, delErr error
	MemoryStorage
}

func (f *failingStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.MemoryStorage.Get(ctx, key)
}

func (f *failingStorage) Put(ctx context.Context, entries map[string]string) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.MemoryStorage.Put(ctx, entries)
}

func (f *failingStorage) Delete(ctx context.Context, keys ...string) error {
	if f.delErr != nil {
		return f.delErr
	}
	return f.MemoryStorage.Delete(ctx, keys...)
}

func newFailing() *failingStorage {
	return &failingStorage{MemoryStorage: MemoryStorage{values: map[string]string{}}}
}

func TestRestoreEmptyIsUnauthenticated(t *testing.T) {
	m, err := Restore(context.Background(), NewMemoryStorage(), demo, nil)
	require.NoError(t, err)
	assert.False(t, m.Authenticated())
	assert.Nil(t, m.User())
}

func TestRestoreRequiresFlagAndUser(t *testing.T) {
	ctx := context.Background()
	cases := map[string]map[string]string{
		"flag only":      {KeyAuthenticated: "true"},
		"user only":      {KeyUser: `{"email":"demo@qubicball.com"}`},
		"flag false":     {KeyAuthenticated: "false", KeyUser: `{"email":"demo@qubicball.com"}`},
		"malformed user": {KeyAuthenticated: "true", KeyUser: `{"email":`},
	}

	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			store := NewMemoryStorage()
			require.NoError(t, store.Put(ctx, values))

			m, err := Restore(ctx, store, demo, nil)
			require.NoError(t, err)
			assert.False(t, m.Authenticated())
		})
	}
}

func TestLoginPersistsAndReloadRestores(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	m, err := Restore(ctx, store, demo, nil)
	require.NoError(t, err)

	ok, err := m.Login(ctx, "demo@qubicball.com", "demo123")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, m.Authenticated())
	assert.Equal(t, "demo@qubicball.com", m.User().Email)

	flag, _, _ := store.Get(ctx, KeyAuthenticated)
	assert.Equal(t, "true", flag)
	raw, _, _ := store.Get(ctx, KeyUser)
	assert.JSONEq(t, `{"email":"demo@qubicball.com"}`, raw)
	assert.NotContains(t, raw, "demo123")

	reloaded, err := Restore(ctx, store, demo, nil)
	require.NoError(t, err)
	assert.True(t, reloaded.Authenticated())
	assert.Equal(t, "demo@qubicball.com", reloaded.User().Email)
}

func TestLoginRejectsAnythingElse(t *testing.T) {
	ctx := context.Background()
	inputs := []literalPair{
		{"demo@qubicball.com", "wrong"},
		{"someone@qubicball.com", "demo123"},
		{"", ""},
		{"DEMO@QUBICBALL.COM", "demo123"},
	}

	for _, in := range inputs {
		store := NewMemoryStorage()
		m, err := Restore(ctx, store, demo, nil)
		require.NoError(t, err)

		ok, err := m.Login(ctx, in.email, in.password)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, m.Authenticated())
		assert.Empty(t, store.values, "nothing persisted for %q", in.email)
	}
}

func TestFailedLoginKeepsExistingSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	m, _ := Restore(ctx, store, demo, nil)
	_, err := m.Login(ctx, "demo@qubicball.com", "demo123")
	require.NoError(t, err)

	ok, err := m.Login(ctx, "demo@qubicball.com", "bad")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, m.Authenticated())
}

func TestLogoutAlwaysClears(t *testing.T) {
	ctx := context.Background()

	t.Run("authenticated", func(t *testing.T) {
		store := NewMemoryStorage()
		m, _ := Restore(ctx, store, demo, nil)
		_, _ = m.Login(ctx, "demo@qubicball.com", "demo123")

		require.NoError(t, m.Logout(ctx))
		assert.False(t, m.Authenticated())
		assert.Empty(t, store.values)
	})

	t.Run("already anonymous", func(t *testing.T) {
		m, _ := Restore(ctx, NewMemoryStorage(), demo, nil)
		require.NoError(t, m.Logout(ctx))
		assert.False(t, m.Authenticated())
	})

	t.Run("storage failure", func(t *testing.T) {
		store := newFailing()
		m, _ := Restore(ctx, store, demo, nil)
		_, _ = m.Login(ctx, "demo@qubicball.com", "demo123")
		store.delErr = errors.New("disk full")

		err := m.Logout(ctx)
		assert.Error(t, err)
		assert.False(t, m.Authenticated())
	})
}

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()

	store := newFailing()
	store.getErr = errors.New("unreachable")
	_, err := Restore(ctx, store, demo, nil)
	assert.Error(t, err)

	store = newFailing()
	store.putErr = errors.New("read only")
	m, err := Restore(ctx, store, demo, nil)
	require.NoError(t, err)
	ok, err := m.Login(ctx, "demo@qubicball.com", "demo123")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.False(t, m.Authenticated())
}
