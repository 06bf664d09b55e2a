package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
	}
}

func TestStorePutGet(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("chat_history", []byte(`[{"id":"a"}]`)))

			doc, err := s.Get("chat_history")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"a"}]`, string(doc))
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreOverwrite(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("k", []byte("v1")))
			require.NoError(t, s.Put("k", []byte("v2")))

			doc, err := s.Get("k")
			require.NoError(t, err)
			assert.Equal(t, "v2", string(doc))
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("k", []byte("v")))
			require.NoError(t, s.Delete("k"))

			_, err := s.Get("k")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting a missing key is not an error.
			assert.NoError(t, s.Delete("k"))
		})
	}
}

func TestStoreList(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("chat_history", []byte("a")))
			require.NoError(t, s.Put("chat_users", []byte("b")))
			require.NoError(t, s.Put("coolkid_characters", []byte("c")))

			keys, err := s.List("chat_")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"chat_history", "chat_users"}, keys)
		})
	}
}

func TestMemoryStoreCopiesOnRead(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put("k", []byte("abc")))

	doc, err := s.Get("k")
	require.NoError(t, err)
	doc[0] = 'x'

	again, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
