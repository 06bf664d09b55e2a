package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coolkid-chat/backend/internal/models"
	apperrors "coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/kv"
)

func newTestRegistry(t *testing.T) (*CharacterRegistry, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	return NewCharacterRegistry(mem, testLogger()), mem
}

func TestRegistrySeedsDefaults(t *testing.T) {
	r, mem := newTestRegistry(t)

	assert.Len(t, r.Public(), 6)

	ferrer, err := r.Get("ferrer")
	require.NoError(t, err)
	assert.Equal(t, "Ferrer", ferrer.Name)
	assert.Equal(t, int64(4_300_000), ferrer.Interactions)

	// The seed is persisted, not just in memory.
	_, err = mem.Get("coolkid_characters")
	assert.NoError(t, err)
}

func TestRegistryLoadsPersistedOverDefaults(t *testing.T) {
	mem := kv.NewMemoryStore()
	first := NewCharacterRegistry(mem, testLogger())
	_, err := first.Create(&models.CreateCharacterRequest{
		Name:        "Nyx",
		Description: "A shadow",
		Greeting:    "...",
	}, "@tester", "user-1")
	require.NoError(t, err)

	second := NewCharacterRegistry(mem, testLogger())
	assert.Len(t, second.Public(), 7)
}

func TestSearchOnlyReturnsPublic(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Create(&models.CreateCharacterRequest{
		Name:        "Hidden Vampire",
		Description: "A secret vampire nobody should find",
		Greeting:    "...",
		Visibility:  models.VisibilityPrivate,
	}, "@tester", "user-1")
	require.NoError(t, err)

	for _, c := range r.Search("vampire") {
		assert.Equal(t, models.VisibilityPublic, c.Visibility)
		assert.NotEqual(t, "Hidden Vampire", c.Name)
	}
}

func TestSearchEmptyQueryMatchesAllPublic(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Create(&models.CreateCharacterRequest{
		Name:        "Ghost",
		Description: "unlisted",
		Greeting:    "...",
		Visibility:  models.VisibilityUnlisted,
	}, "@tester", "user-1")
	require.NoError(t, err)

	// The empty query matches every name, so the result is exactly the
	// public set.
	assert.Len(t, r.Search(""), 6)
}

func TestSearchMatchesTagsCaseInsensitive(t *testing.T) {
	r, _ := newTestRegistry(t)

	results := r.Search("ROMANCE")
	require.NotEmpty(t, results)

	found := false
	for _, c := range results {
		if c.ID == "ferrer" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestUpdateOnlyByCreator(t *testing.T) {
	r, _ := newTestRegistry(t)

	created, err := r.Create(&models.CreateCharacterRequest{
		Name:        "Nyx",
		Description: "A shadow",
		Greeting:    "...",
	}, "@tester", "user-1")
	require.NoError(t, err)

	newDesc := "A deeper shadow"
	_, err = r.Update(created.ID, "someone-else", &models.UpdateCharacterRequest{Description: &newDesc})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	updated, err := r.Update(created.ID, "user-1", &models.UpdateCharacterRequest{Description: &newDesc})
	require.NoError(t, err)
	assert.Equal(t, "A deeper shadow", updated.Description)
	// Immutable fields stay put.
	assert.Equal(t, "Nyx", updated.Name)
}

func TestDeleteOnlyByCreator(t *testing.T) {
	r, _ := newTestRegistry(t)

	created, err := r.Create(&models.CreateCharacterRequest{
		Name:        "Nyx",
		Description: "A shadow",
		Greeting:    "...",
	}, "@tester", "user-1")
	require.NoError(t, err)

	err = r.Delete(created.ID, "someone-else")
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	require.NoError(t, r.Delete(created.ID, "user-1"))
	_, err = r.Get(created.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestNewCharacterStartsFresh(t *testing.T) {
	r, _ := newTestRegistry(t)

	created, err := r.Create(&models.CreateCharacterRequest{
		Name:        "Nyx",
		Description: "A shadow",
		Greeting:    "...",
	}, "@tester", "user-1")
	require.NoError(t, err)

	assert.Equal(t, int64(0), created.Interactions)
	assert.Equal(t, 5.0, created.Rating)
	assert.Equal(t, models.VisibilityPublic, created.Visibility)
	assert.Equal(t, "@tester", created.Creator)
}

func TestIncrementInteractionsPersists(t *testing.T) {
	mem := kv.NewMemoryStore()
	r := NewCharacterRegistry(mem, testLogger())

	r.IncrementInteractions("luna")
	r.IncrementInteractions("luna")

	luna, err := r.Get("luna")
	require.NoError(t, err)
	assert.Equal(t, int64(1_900_002), luna.Interactions)

	reloaded := NewCharacterRegistry(mem, testLogger())
	luna, err = reloaded.Get("luna")
	require.NoError(t, err)
	assert.Equal(t, int64(1_900_002), luna.Interactions)
}

func TestReadsReturnDetachedCharacters(t *testing.T) {
	r, _ := newTestRegistry(t)

	luna, err := r.Get("luna")
	require.NoError(t, err)
	before := luna.Interactions

	public := r.Public()

	r.IncrementInteractions("luna")

	// Earlier reads are snapshots; the counter bump never shows through.
	assert.Equal(t, before, luna.Interactions)
	for _, c := range public {
		if c.ID == "luna" {
			assert.Equal(t, before, c.Interactions)
		}
	}

	bumped, err := r.Get("luna")
	require.NoError(t, err)
	assert.Equal(t, before+1, bumped.Interactions)
}

func TestGetConcurrentWithIncrement(t *testing.T) {
	r, _ := newTestRegistry(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			r.IncrementInteractions("luna")
		}
	}()

	for i := 0; i < 200; i++ {
		luna, err := r.Get("luna")
		require.NoError(t, err)
		_, err = json.Marshal(luna)
		require.NoError(t, err)
	}
	<-done
}

func TestCreateValidatesVisibilityAndGender(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Create(&models.CreateCharacterRequest{
		Name:        "Nyx",
		Description: "A shadow",
		Greeting:    "...",
		Visibility:  "secret",
	}, "@tester", "user-1")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidRequest))

	_, err = r.Create(&models.CreateCharacterRequest{
		Name:        "Nyx",
		Description: "A shadow",
		Greeting:    "...",
		Gender:      "robot",
	}, "@tester", "user-1")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidRequest))
}
