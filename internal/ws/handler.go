// Package ws carries live chat over a websocket. Each connection binds
// to one character and runs at most one model turn at a time.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"coolkid-chat/backend/internal/models"
	"coolkid-chat/backend/internal/service"
	"coolkid-chat/backend/internal/store"
	apperrors "coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Envelope is the framing for every websocket message, both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
}

// Hub tracks live connections and owns the shared services.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	chat       *service.ChatService
	characters *service.CharacterService
	sessions   *store.ConversationStore
	log        *logger.Logger
	mu         sync.Mutex
}

// NewHub creates a hub over the chat pipeline.
func NewHub(chat *service.ChatService, characters *service.CharacterService, sessions *store.ConversationStore, log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		chat:       chat,
		characters: characters,
		sessions:   sessions,
		log:        log,
	}
}

// Run processes client registration until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Debug("Websocket client connected", "clientId", client.id, "characterId", client.characterID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		}
	}
}

// Client is one websocket connection bound to a character.
type Client struct {
	id          string
	conn        *websocket.Conn
	send        chan []byte
	characterID string
	userID      string
	hub         *Hub

	turnMu sync.Mutex
	busy   bool
}

// ServeWs upgrades GET /ws/chat?characterId=... to a websocket. The
// character must exist before the upgrade; afterwards errors travel in
// band as {"type":"error"} frames.
func ServeWs(hub *Hub, c *gin.Context) {
	characterID := c.Query("characterId")
	if characterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "characterId is required"})
		return
	}
	if _, err := hub.characters.Get(characterID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Character not found"})
		return
	}

	userID := ""
	if v, exists := c.Get("userId"); exists {
		userID, _ = v.(string)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.log.Warn("Websocket upgrade failed", "error", err.Error())
		return
	}

	client := &Client{
		id:          uuid.New().String(),
		conn:        conn,
		send:        make(chan []byte, 64),
		characterID: characterID,
		userID:      userID,
		hub:         hub,
	}

	if session, ok := hub.sessions.GetSession(characterID); ok {
		client.sendEnvelope("chat_history", gin.H{"messages": session.Messages})
	}

	hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("Websocket read failed", "clientId", c.id, "error", err.Error())
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			c.sendError("Invalid message format")
			continue
		}

		switch envelope.Type {
		case "chat":
			go c.handleChat(envelope.Content)
		case "ping":
			c.sendEnvelope("pong", nil)
		default:
			c.sendError("Unknown message type: " + envelope.Type)
		}
	}
}

// handleChat runs one turn. A second chat frame arriving while a turn is
// in flight is rejected rather than queued.
func (c *Client) handleChat(content json.RawMessage) {
	var payload struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(content, &payload); err != nil || payload.Content == "" {
		c.sendError("Invalid request format")
		return
	}

	c.turnMu.Lock()
	if c.busy {
		c.turnMu.Unlock()
		c.sendError("A response is already being generated")
		return
	}
	c.busy = true
	c.turnMu.Unlock()
	defer func() {
		c.turnMu.Lock()
		c.busy = false
		c.turnMu.Unlock()
	}()

	character, err := c.hub.characters.Get(c.characterID)
	if err != nil {
		c.sendError("Character not found")
		return
	}

	c.sendEnvelope("typing", gin.H{"is_typing": true})

	turnReq := &service.TurnRequest{
		Message: payload.Content,
		Character: &service.TurnCharacter{
			Name:        character.Name,
			Description: character.Description,
			Greeting:    character.Greeting,
			Gender:      character.Gender,
		},
		History: historyFor(c.hub.sessions, c.characterID),
	}

	reply, err := c.hub.chat.SendMessage(context.Background(), c.userID, c.characterID, turnReq)

	c.sendEnvelope("typing", gin.H{"is_typing": false})

	if err != nil {
		c.sendError(apperrors.FromError(err).Message)
		return
	}

	c.sendEnvelope("chat", models.NewMessage(models.RoleAssistant, reply))
}

// historyFor converts the persisted session into turn history. The chat
// service re-appends the incoming message itself, so the snapshot taken
// here is the pre-turn history.
func historyFor(sessions *store.ConversationStore, characterID string) []service.HistoryEntry {
	session, ok := sessions.GetSession(characterID)
	if !ok {
		return nil
	}

	history := make([]service.HistoryEntry, 0, len(session.Messages))
	for _, m := range session.Messages {
		history = append(history, service.HistoryEntry{Role: string(m.Role), Content: m.Content})
	}
	return history
}

func (c *Client) sendEnvelope(msgType string, content interface{}) {
	var raw json.RawMessage
	if content != nil {
		data, err := json.Marshal(content)
		if err != nil {
			c.hub.log.Warn("Failed to marshal websocket payload", "type", msgType, "error", err.Error())
			return
		}
		raw = data
	}

	frame, err := json.Marshal(Envelope{Type: msgType, Content: raw})
	if err != nil {
		return
	}

	select {
	case c.send <- frame:
	default:
		c.hub.log.Warn("Websocket send buffer full, dropping frame", "clientId", c.id, "type", msgType)
	}
}

func (c *Client) sendError(message string) {
	c.sendEnvelope("error", gin.H{"message": message})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
