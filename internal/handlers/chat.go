package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vkazmin/huddle/internal/database"
	"github.com/vkazmin/huddle/internal/handlers/dto"
	"github.com/vkazmin/huddle/internal/middleware"
	"github.com/vkazmin/huddle/internal/models"
)

// ChatHandler covers chat creation and listing. Chats are immutable
// after creation; the realtime core only reads them.
type ChatHandler struct {
	db  *database.Database
	log zerolog.Logger
}

func NewChatHandler(db *database.Database, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		db:  db,
		log: logger.With().Str("component", "chat_handler").Logger(),
	}
}

// CreateChat builds a chat from the caller plus a list of other users by
// username. The caller is always the first participant.
func (h *ChatHandler) CreateChat(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)

	var req dto.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "chat name and at least one other user are required"})
		return
	}

	creator, err := h.db.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unknown user"})
		return
	}

	participantIDs := []string{creator.ID}
	participantNames := []string{creator.Username}

	for _, username := range req.UserUsernames {
		user, err := h.db.FindUserByUsername(username)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "user " + username + " not found"})
			return
		}
		if containsString(participantIDs, user.ID) {
			continue
		}
		participantIDs = append(participantIDs, user.ID)
		participantNames = append(participantNames, user.Username)
	}

	if len(participantIDs) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "a chat must have at least two distinct participants"})
		return
	}

	chat := &models.Chat{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Participants:     participantIDs,
		ParticipantNames: participantNames,
		CreatedBy:        creator.ID,
		CreatedAt:        time.Now().UTC(),
	}

	if err := h.db.SaveChat(chat); err != nil {
		h.log.Error().Err(err).Msg("save chat failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create chat"})
		return
	}

	c.JSON(http.StatusCreated, chat)
}

// ListChats returns the chats the caller participates in.
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)

	chats, err := h.db.GetUserChats(userID)
	if err != nil {
		h.log.Error().Err(err).Msg("list chats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to get chats"})
		return
	}

	c.JSON(http.StatusOK, chats)
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
