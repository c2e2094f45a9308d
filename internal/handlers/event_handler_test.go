package handlers

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkazmin/huddle/internal/database"
	"github.com/vkazmin/huddle/internal/handlers/dto"
	"github.com/vkazmin/huddle/internal/models"
	ws "github.com/vkazmin/huddle/internal/websocket"
)

type eventFixture struct {
	db      *database.Database
	hub     *ws.Hub
	handler *EventHandler
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	db, err := database.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	hub := ws.NewHub(zerolog.Nop())
	return &eventFixture{
		db:      db,
		hub:     hub,
		handler: NewEventHandler(db, hub, zerolog.Nop()),
	}
}

func event(t *testing.T, name string, payload interface{}) *ws.Event {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return &ws.Event{Type: name, Data: data}
}

func recvEvent(t *testing.T, c *ws.Client) ws.Event {
	t.Helper()
	select {
	case raw := <-c.Send:
		var evt ws.Event
		require.NoError(t, json.Unmarshal(raw, &evt))
		return evt
	default:
		t.Fatal("expected a queued event")
		return ws.Event{}
	}
}

func assertNoEvent(t *testing.T, c *ws.Client) {
	t.Helper()
	select {
	case raw := <-c.Send:
		t.Fatalf("unexpected event queued: %s", raw)
	default:
	}
}

func TestJoinChatReplaysHistoryInOrder(t *testing.T) {
	f := newEventFixture(t)

	first, err := f.db.AppendMessage(database.NewMessage{SenderID: "u1", ChatID: "c1", Type: models.MessageText, Text: "first"})
	require.NoError(t, err)
	_, err = f.db.AppendMessage(database.NewMessage{SenderID: "u1", ChatID: "c2", Type: models.MessageText, Text: "elsewhere"})
	require.NoError(t, err)
	second, err := f.db.AppendMessage(database.NewMessage{SenderID: "u2", ChatID: "c1", Type: models.MessageText, Text: "second"})
	require.NoError(t, err)

	client := ws.NewClient(f.hub, nil, "u1")
	require.NoError(t, f.handler.HandleEvent(client, event(t, ws.EventJoinChat, dto.JoinChatPayload{ChatID: "c1"})))

	evt := recvEvent(t, client)
	require.Equal(t, ws.EventLoadMessages, evt.Type)

	var payload dto.LoadMessagesPayload
	require.NoError(t, json.Unmarshal(evt.Data, &payload))
	assert.Equal(t, "c1", payload.ChatID)
	require.Len(t, payload.Messages, 2)
	assert.Equal(t, first.ID, payload.Messages[0].ID)
	assert.Equal(t, second.ID, payload.Messages[1].ID)

	assert.True(t, client.IsInRoom("c1"))
}

func TestJoinChatWithoutIDIsDropped(t *testing.T) {
	f := newEventFixture(t)
	client := ws.NewClient(f.hub, nil, "u1")

	require.NoError(t, f.handler.HandleEvent(client, event(t, ws.EventJoinChat, dto.JoinChatPayload{})))
	assertNoEvent(t, client)
	assert.False(t, client.IsInRoom(""))
}

func TestSendMessageBroadcastsStoredMessage(t *testing.T) {
	f := newEventFixture(t)

	sender := ws.NewClient(f.hub, nil, "u1")
	peer := ws.NewClient(f.hub, nil, "u2")
	f.hub.JoinRoom(sender, "c1")
	f.hub.JoinRoom(peer, "c1")

	require.NoError(t, f.handler.HandleEvent(sender, event(t, ws.EventSendMessage, dto.SendMessagePayload{
		SenderID: "u1",
		ChatID:   "c1",
		Text:     "hi",
	})))

	for _, client := range []*ws.Client{sender, peer} {
		evt := recvEvent(t, client)
		require.Equal(t, ws.EventReceiveMessage, evt.Type)

		var msg models.Message
		require.NoError(t, json.Unmarshal(evt.Data, &msg))
		assert.NotEmpty(t, msg.ID)
		assert.Equal(t, "c1", msg.ChatID)
		assert.Equal(t, "u1", msg.SenderID)
		// Type defaults to text when the payload omits it.
		assert.Equal(t, models.MessageText, msg.Type)
		assert.Equal(t, "hi", msg.Text)
		assert.NotNil(t, msg.Reactions)
		assert.Empty(t, msg.Reactions)
		assert.False(t, msg.Timestamp.IsZero())
	}

	stored, err := f.db.ChatMessages("c1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSendMessageInvalidPayloadIsSilentlyDropped(t *testing.T) {
	f := newEventFixture(t)

	client := ws.NewClient(f.hub, nil, "u1")
	f.hub.JoinRoom(client, "c1")

	// Text kind without text: no error to the caller, no broadcast,
	// nothing stored.
	require.NoError(t, f.handler.HandleEvent(client, event(t, ws.EventSendMessage, dto.SendMessagePayload{
		SenderID: "u1",
		ChatID:   "c1",
	})))
	assertNoEvent(t, client)

	stored, err := f.db.ChatMessages("c1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestReactionToggleRoundTrip(t *testing.T) {
	f := newEventFixture(t)

	sender := ws.NewClient(f.hub, nil, "u1")
	peer := ws.NewClient(f.hub, nil, "u2")
	f.hub.JoinRoom(sender, "c1")
	f.hub.JoinRoom(peer, "c1")

	msg, err := f.db.AppendMessage(database.NewMessage{SenderID: "u1", ChatID: "c1", Type: models.MessageText, Text: "hi"})
	require.NoError(t, err)

	toggle := dto.ToggleReactionPayload{MessageID: msg.ID, ChatID: "c1", Emoji: "👍", UserID: "u2"}
	require.NoError(t, f.handler.HandleEvent(peer, event(t, ws.EventToggleReaction, toggle)))

	for _, client := range []*ws.Client{sender, peer} {
		evt := recvEvent(t, client)
		require.Equal(t, ws.EventReactionUpdated, evt.Type)

		var payload dto.ReactionUpdatePayload
		require.NoError(t, json.Unmarshal(evt.Data, &payload))
		assert.Equal(t, msg.ID, payload.MessageID)
		assert.Equal(t, map[string][]string{"👍": {"u2"}}, payload.Reactions)
	}

	// The second toggle clears the reaction; the broadcast carries an
	// empty map, not a missing field.
	require.NoError(t, f.handler.HandleEvent(peer, event(t, ws.EventToggleReaction, toggle)))

	for _, client := range []*ws.Client{sender, peer} {
		evt := recvEvent(t, client)
		require.Equal(t, ws.EventReactionUpdated, evt.Type)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(evt.Data, &raw))
		require.Contains(t, raw, "reactions")
		assert.JSONEq(t, "{}", string(raw["reactions"]))
	}
}

func TestReactionToggleUnknownMessageIsSilent(t *testing.T) {
	f := newEventFixture(t)

	client := ws.NewClient(f.hub, nil, "u1")
	f.hub.JoinRoom(client, "c1")

	require.NoError(t, f.handler.HandleEvent(client, event(t, ws.EventToggleReaction, dto.ToggleReactionPayload{
		MessageID: "missing",
		ChatID:    "c1",
		Emoji:     "👍",
		UserID:    "u1",
	})))
	assertNoEvent(t, client)
}

func TestReactionToggleMissingFieldIsSilent(t *testing.T) {
	f := newEventFixture(t)

	client := ws.NewClient(f.hub, nil, "u1")
	f.hub.JoinRoom(client, "c1")

	msg, err := f.db.AppendMessage(database.NewMessage{SenderID: "u1", ChatID: "c1", Type: models.MessageText, Text: "hi"})
	require.NoError(t, err)

	require.NoError(t, f.handler.HandleEvent(client, event(t, ws.EventToggleReaction, dto.ToggleReactionPayload{
		MessageID: msg.ID,
		ChatID:    "c1",
		UserID:    "u1",
	})))
	assertNoEvent(t, client)
}

func TestLeaveChatStopsDelivery(t *testing.T) {
	f := newEventFixture(t)

	stayer := ws.NewClient(f.hub, nil, "u1")
	leaver := ws.NewClient(f.hub, nil, "u2")
	f.hub.JoinRoom(stayer, "c1")
	f.hub.JoinRoom(leaver, "c1")

	require.NoError(t, f.handler.HandleEvent(leaver, event(t, ws.EventLeaveChat, dto.JoinChatPayload{ChatID: "c1"})))

	require.NoError(t, f.handler.HandleEvent(stayer, event(t, ws.EventSendMessage, dto.SendMessagePayload{
		SenderID: "u1",
		ChatID:   "c1",
		Type:     models.MessageText,
		Text:     "still here",
	})))

	evt := recvEvent(t, stayer)
	assert.Equal(t, ws.EventReceiveMessage, evt.Type)
	assertNoEvent(t, leaver)
}

func TestUnknownEventIsIgnored(t *testing.T) {
	f := newEventFixture(t)
	client := ws.NewClient(f.hub, nil, "u1")

	require.NoError(t, f.handler.HandleEvent(client, &ws.Event{Type: "mystery"}))
	assertNoEvent(t, client)
}
