package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Wire event names.
const (
	EventJoinChat        = "join_chat"
	EventLeaveChat       = "leave_chat"
	EventSendMessage     = "send_message"
	EventReceiveMessage  = "receive_message"
	EventToggleReaction  = "toggle_reaction"
	EventLoadMessages    = "load_messages"
	EventReactionUpdated = "message_reaction_updated"
	EventPing            = "ping"
	EventPong            = "pong"
)

// Event is the envelope exchanged over a connection: an event name plus
// an event-specific JSON payload.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client is one live connection. UserID is the identity the client
// claimed during the handshake; it is not verified at this layer.
type Client struct {
	ID     uuid.UUID
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
	Rooms  map[string]bool
	Hub    *Hub
	mu     sync.RWMutex
}

// Hub tracks live connections and their chat room bindings, and fans
// events out to rooms. Rooms exist only in memory: a restart drops every
// binding and clients must rejoin.
type Hub struct {
	clients map[uuid.UUID]*Client

	// Connections bound to each chat id.
	rooms map[string]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu  sync.RWMutex
	log zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(logger zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		rooms:      make(map[string]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        logger.With().Str("component", "hub").Logger(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run services registrations until Stop is called.
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop shuts the hub down and closes every connection.
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		client.Conn.Close()
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.log.Info().Str("connection_id", client.ID.String()).Str("user_id", client.UserID).Msg("client connected")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	for chatID := range client.Rooms {
		h.removeFromRoom(client, chatID)
	}

	delete(h.clients, client.ID)
	close(client.Send)

	h.log.Info().Str("connection_id", client.ID.String()).Str("user_id", client.UserID).Msg("client disconnected")
}

// JoinRoom binds the client to the chat's broadcast group. There is no
// membership check: any connection may join any chat id.
func (h *Hub) JoinRoom(client *Client, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[chatID]; !ok {
		h.rooms[chatID] = make(map[uuid.UUID]*Client)
	}
	h.rooms[chatID][client.ID] = client

	client.mu.Lock()
	client.Rooms[chatID] = true
	client.mu.Unlock()

	h.log.Info().Str("connection_id", client.ID.String()).Str("user_id", client.UserID).Str("chat_id", chatID).Msg("joined chat")
}

// LeaveRoom unbinds the client from the chat. It is a no-op when the
// client is not currently bound.
func (h *Hub) LeaveRoom(client *Client, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoom(client, chatID)
}

// removeFromRoom expects h.mu to be held.
func (h *Hub) removeFromRoom(client *Client, chatID string) {
	room, ok := h.rooms[chatID]
	if !ok {
		return
	}
	if _, ok := room[client.ID]; !ok {
		return
	}

	delete(room, client.ID)
	client.mu.Lock()
	delete(client.Rooms, chatID)
	client.mu.Unlock()

	if len(room) == 0 {
		delete(h.rooms, chatID)
	}
}

// Emit marshals an event envelope and fans it out to every connection
// currently bound to the chat. Delivery is best effort: no retry, no
// buffering beyond each client's send queue, and a connection that is not
// bound at call time never receives the event. Within one process events
// reach each room member in call order.
func (h *Hub) Emit(chatID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("marshal event payload")
		return
	}
	raw, err := json.Marshal(Event{Type: event, Data: data})
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("marshal event envelope")
		return
	}
	h.SendToRoom(chatID, raw)
}

// SendToRoom delivers raw bytes to every connection bound to the chat.
func (h *Hub) SendToRoom(chatID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[chatID] {
		select {
		case client.Send <- message:
		default:
			h.log.Warn().Str("connection_id", client.ID.String()).Msg("send queue full, dropping event")
		}
	}
}

// RoomUsers returns the distinct user ids currently bound to the chat.
func (h *Hub) RoomUsers(chatID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]bool)
	users := make([]string, 0)
	for _, client := range h.rooms[chatID] {
		if !seen[client.UserID] {
			seen[client.UserID] = true
			users = append(users, client.UserID)
		}
	}
	return users
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	raw, err := json.Marshal(Event{Type: EventPing})
	if err != nil {
		return
	}
	for _, client := range h.clients {
		select {
		case client.Send <- raw:
		default:
		}
	}
}
