package handlers

import (
	"encoding/json"
	"errors"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/vkazmin/huddle/internal/database"
	"github.com/vkazmin/huddle/internal/handlers/dto"
	"github.com/vkazmin/huddle/internal/models"
	"github.com/vkazmin/huddle/internal/websocket"
)

// EventHandler dispatches inbound realtime events: room join/leave,
// message sends and reaction toggles. Malformed and not-found events are
// dropped after logging; the client sees no error signal for them.
type EventHandler struct {
	db        *database.Database
	hub       *websocket.Hub
	sanitizer *bluemonday.Policy
	log       zerolog.Logger
}

func NewEventHandler(db *database.Database, hub *websocket.Hub, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		db:        db,
		hub:       hub,
		sanitizer: bluemonday.UGCPolicy(),
		log:       logger.With().Str("component", "event_handler").Logger(),
	}
}

func (h *EventHandler) HandleEvent(client *websocket.Client, event *websocket.Event) error {
	switch event.Type {
	case websocket.EventJoinChat:
		return h.handleJoin(client, event.Data)

	case websocket.EventLeaveChat:
		return h.handleLeave(client, event.Data)

	case websocket.EventSendMessage:
		return h.handleSendMessage(client, event.Data)

	case websocket.EventToggleReaction:
		return h.handleToggleReaction(client, event.Data)

	default:
		h.log.Warn().Str("event", event.Type).Msg("unknown event type")
		return nil
	}
}

// handleJoin binds the connection to the chat's room and replays the
// chat's full history to the joining client. There is no check that the
// claimed user participates in the chat.
func (h *EventHandler) handleJoin(client *websocket.Client, data json.RawMessage) error {
	var payload dto.JoinChatPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ChatID == "" {
		h.log.Warn().Str("user_id", client.UserID).Msg("join_chat without chat id, dropping")
		return nil
	}

	h.hub.JoinRoom(client, payload.ChatID)

	history, err := h.db.ChatMessages(payload.ChatID)
	if err != nil {
		h.log.Error().Err(err).Str("chat_id", payload.ChatID).Msg("load history failed")
		return err
	}

	return client.SendEvent(websocket.EventLoadMessages, dto.LoadMessagesPayload{
		ChatID:   payload.ChatID,
		Messages: history,
	})
}

func (h *EventHandler) handleLeave(client *websocket.Client, data json.RawMessage) error {
	var payload dto.JoinChatPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ChatID == "" {
		h.log.Warn().Str("user_id", client.UserID).Msg("leave_chat without chat id, dropping")
		return nil
	}

	h.hub.LeaveRoom(client, payload.ChatID)
	return nil
}

// handleSendMessage appends the message and fans the stored record out to
// the room. Payloads failing validation are dropped silently.
func (h *EventHandler) handleSendMessage(client *websocket.Client, data json.RawMessage) error {
	var payload dto.SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.log.Warn().Err(err).Msg("malformed send_message payload, dropping")
		return nil
	}

	if payload.Type == "" {
		payload.Type = models.MessageText
	}
	if payload.Type == models.MessageText {
		payload.Text = h.sanitizer.Sanitize(payload.Text)
	}

	msg, err := h.db.AppendMessage(database.NewMessage{
		SenderID:         payload.SenderID,
		ChatID:           payload.ChatID,
		Type:             payload.Type,
		Text:             payload.Text,
		URL:              payload.URL,
		OriginalFilename: payload.OriginalFilename,
	})
	if err != nil {
		if errors.Is(err, database.ErrInvalidMessage) {
			h.log.Warn().Str("sender_id", payload.SenderID).Str("chat_id", payload.ChatID).Str("type", payload.Type).Msg("invalid send_message payload, dropping")
			return nil
		}
		h.log.Error().Err(err).Str("chat_id", payload.ChatID).Msg("append message failed")
		return err
	}

	h.hub.Emit(msg.ChatID, websocket.EventReceiveMessage, msg)
	return nil
}

// handleToggleReaction mutates the reaction map and broadcasts the
// updated map to the room. Unknown message/chat pairs are dropped
// silently, never broadcast.
func (h *EventHandler) handleToggleReaction(client *websocket.Client, data json.RawMessage) error {
	var payload dto.ToggleReactionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.log.Warn().Err(err).Msg("malformed toggle_reaction payload, dropping")
		return nil
	}
	if payload.MessageID == "" || payload.ChatID == "" || payload.Emoji == "" || payload.UserID == "" {
		h.log.Warn().Str("message_id", payload.MessageID).Str("chat_id", payload.ChatID).Msg("toggle_reaction missing fields, dropping")
		return nil
	}

	msg, err := h.db.ToggleReaction(payload.MessageID, payload.ChatID, payload.Emoji, payload.UserID)
	if err != nil {
		if errors.Is(err, database.ErrMessageNotFound) {
			h.log.Warn().Str("message_id", payload.MessageID).Str("chat_id", payload.ChatID).Msg("reaction toggle on unknown message, dropping")
			return nil
		}
		h.log.Error().Err(err).Str("message_id", payload.MessageID).Msg("toggle reaction failed")
		return err
	}

	h.hub.Emit(payload.ChatID, websocket.EventReactionUpdated, dto.ReactionUpdatePayload{
		MessageID: msg.ID,
		Reactions: msg.Reactions,
	})
	return nil
}
