package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkazmin/huddle/internal/models"
)

func TestSaveAndLookupUser(t *testing.T) {
	db := newTestDB(t)

	user := &models.User{ID: "u1", Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.SaveUser(user))

	got, err := db.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	got, err = db.FindUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	got, err = db.FindUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = db.GetUser("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserChatsFiltersByParticipant(t *testing.T) {
	db := newTestDB(t)

	first := &models.Chat{
		ID:               "c1",
		Name:             "team",
		Participants:     []string{"u1", "u2"},
		ParticipantNames: []string{"alice", "bob"},
		CreatedBy:        "u1",
		CreatedAt:        time.Now().UTC(),
	}
	second := &models.Chat{
		ID:               "c2",
		Name:             "other",
		Participants:     []string{"u2", "u3"},
		ParticipantNames: []string{"bob", "carol"},
		CreatedBy:        "u2",
		CreatedAt:        time.Now().UTC(),
	}
	require.NoError(t, db.SaveChat(first))
	require.NoError(t, db.SaveChat(second))

	chats, err := db.GetUserChats("u1")
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "c1", chats[0].ID)

	chats, err = db.GetUserChats("u2")
	require.NoError(t, err)
	assert.Len(t, chats, 2)

	chats, err = db.GetUserChats("nobody")
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestGetChat(t *testing.T) {
	db := newTestDB(t)

	chat := &models.Chat{ID: "c1", Name: "team", Participants: []string{"u1", "u2"}, ParticipantNames: []string{"alice", "bob"}, CreatedBy: "u1", CreatedAt: time.Now().UTC()}
	require.NoError(t, db.SaveChat(chat))

	got, err := db.GetChat("c1")
	require.NoError(t, err)
	assert.Equal(t, "team", got.Name)
	assert.True(t, got.HasParticipant("u2"))
	assert.False(t, got.HasParticipant("u3"))

	_, err = db.GetChat("missing")
	assert.ErrorIs(t, err, ErrChatNotFound)
}
