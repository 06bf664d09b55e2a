package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coolkid-chat/backend/internal/models"
	"coolkid-chat/backend/internal/service"
	"coolkid-chat/backend/internal/store"
	"coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/jwt"
	"coolkid-chat/backend/pkg/kv"
	"coolkid-chat/backend/pkg/middleware"
)

type characterFixture struct {
	engine   *gin.Engine
	users    *store.UserStore
	sessions *store.ConversationStore
	jwt      *jwt.Service
}

func newCharacterFixture(t *testing.T) *characterFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := testLogger()
	mem := kv.NewMemoryStore()
	sessions := store.NewConversationStore(mem, log)
	registry := store.NewCharacterRegistry(mem, log)
	users := store.NewUserStore(mem, log)
	characters := service.NewCharacterService(registry, sessions)

	jwtService := jwt.NewService("test-secret", time.Hour)
	jwtAuth := middleware.JWTAuth(jwtService, log)
	handler := NewCharacterHandler(characters, users)

	engine := gin.New()
	engine.Use(errors.ErrorHandler())
	engine.GET("/api/v1/characters", handler.List)
	engine.GET("/api/v1/characters/:id", handler.Get)
	engine.POST("/api/v1/characters", jwtAuth, handler.Create)
	engine.PATCH("/api/v1/characters/:id", jwtAuth, handler.Update)
	engine.DELETE("/api/v1/characters/:id", jwtAuth, handler.Delete)

	return &characterFixture{engine: engine, users: users, sessions: sessions, jwt: jwtService}
}

func (f *characterFixture) tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := f.jwt.GenerateToken(userID, userID+"@example.com")
	require.NoError(t, err)
	return token
}

func (f *characterFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func charactersFrom(t *testing.T, w *httptest.ResponseRecorder) []models.Character {
	t.Helper()
	var body struct {
		Characters []models.Character `json:"characters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Characters
}

func TestListReturnsSeededCatalogue(t *testing.T) {
	f := newCharacterFixture(t)

	w := f.do(http.MethodGet, "/api/v1/characters", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, charactersFrom(t, w), 6)
}

func TestSearchFiltersByQuery(t *testing.T) {
	f := newCharacterFixture(t)

	w := f.do(http.MethodGet, "/api/v1/characters?q=vampire", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	characters := charactersFrom(t, w)
	require.NotEmpty(t, characters)
	for _, c := range characters {
		assert.Equal(t, models.VisibilityPublic, c.Visibility)
	}
}

func TestSearchNeverLeaksPrivateCharacters(t *testing.T) {
	f := newCharacterFixture(t)
	token := f.tokenFor(t, "user-1")

	w := f.do(http.MethodPost, "/api/v1/characters", token, `{
		"name": "Secret Vampire",
		"description": "a hidden vampire",
		"greeting": "...",
		"visibility": "private"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	for _, query := range []string{"", "secret", "vampire"} {
		w := f.do(http.MethodGet, "/api/v1/characters?q="+query, "", "")
		require.Equal(t, http.StatusOK, w.Code)
		for _, c := range charactersFrom(t, w) {
			assert.NotEqual(t, "Secret Vampire", c.Name)
		}
	}
}

func TestGetUnknownCharacterIs404(t *testing.T) {
	f := newCharacterFixture(t)

	w := f.do(http.MethodGet, "/api/v1/characters/nope", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Character not found", body["error"])
}

func TestCreateRequiresAuth(t *testing.T) {
	f := newCharacterFixture(t)

	w := f.do(http.MethodPost, "/api/v1/characters", "", `{
		"name": "Nyx", "description": "a shadow", "greeting": "..."
	}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateUsesUsernameAsCreatorHandle(t *testing.T) {
	f := newCharacterFixture(t)

	user, err := f.users.Create(&models.SignupRequest{
		Email:    "maker@example.com",
		Password: "secret1",
		Username: "maker",
	})
	require.NoError(t, err)

	token := f.tokenFor(t, user.ID)
	w := f.do(http.MethodPost, "/api/v1/characters", token, `{
		"name": "Nyx", "description": "a shadow", "greeting": "..."
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Character
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "@maker", created.Creator)
	assert.Equal(t, user.ID, created.CreatorID)
}

func TestUpdateByNonCreatorIsForbidden(t *testing.T) {
	f := newCharacterFixture(t)

	token := f.tokenFor(t, "somebody")
	w := f.do(http.MethodPatch, "/api/v1/characters/luna", token, `{
		"description": "rewritten"
	}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteCascadesSession(t *testing.T) {
	f := newCharacterFixture(t)
	token := f.tokenFor(t, "user-1")

	w := f.do(http.MethodPost, "/api/v1/characters", token, `{
		"name": "Nyx", "description": "a shadow", "greeting": "..."
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Character
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	_, err := f.sessions.AppendMessage(created.ID, created.Name,
		models.NewMessage(models.RoleUser, "hello"))
	require.NoError(t, err)

	w = f.do(http.MethodDelete, "/api/v1/characters/"+created.ID, token, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	_, ok := f.sessions.GetSession(created.ID)
	assert.False(t, ok)
}
