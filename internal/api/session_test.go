package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coolkid-chat/backend/internal/models"
	"coolkid-chat/backend/internal/store"
	"coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/kv"
)

func newSessionFixture(t *testing.T) (*gin.Engine, *store.ConversationStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := store.NewConversationStore(kv.NewMemoryStore(), testLogger())
	handler := NewSessionHandler(sessions)

	engine := gin.New()
	engine.Use(errors.ErrorHandler())
	engine.GET("/api/v1/sessions", handler.List)
	engine.GET("/api/v1/sessions/:characterId", handler.Get)
	engine.DELETE("/api/v1/sessions", handler.Clear)

	return engine, sessions
}

func TestListSessionsEmpty(t *testing.T) {
	engine, _ := newSessionFixture(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sessions": []}`, w.Body.String())
}

func TestListSessionsOrdering(t *testing.T) {
	engine, sessions := newSessionFixture(t)

	_, err := sessions.AppendMessage("luna", "Luna", models.NewMessage(models.RoleUser, "a"))
	require.NoError(t, err)
	_, err = sessions.AppendMessage("kai", "Kai", models.NewMessage(models.RoleUser, "b"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Sessions []models.ChatSession `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Sessions, 2)
	assert.Equal(t, "kai", body.Sessions[0].CharacterID)
	assert.Equal(t, "luna", body.Sessions[1].CharacterID)
}

func TestGetSessionNotFound(t *testing.T) {
	engine, _ := newSessionFixture(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/ghost", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Session not found")
}

func TestClearSessions(t *testing.T) {
	engine, sessions := newSessionFixture(t)

	_, err := sessions.AppendMessage("luna", "Luna", models.NewMessage(models.RoleUser, "a"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/luna", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
