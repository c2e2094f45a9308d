package dto

import "github.com/vkazmin/huddle/internal/models"

// JoinChatPayload carries a join_chat or leave_chat event.
type JoinChatPayload struct {
	ChatID string `json:"chatId"`
}

// SendMessagePayload carries a send_message event. Type defaults to text
// when empty.
type SendMessagePayload struct {
	SenderID         string `json:"senderId"`
	ChatID           string `json:"chatId"`
	Type             string `json:"type,omitempty"`
	Text             string `json:"text,omitempty"`
	URL              string `json:"url,omitempty"`
	OriginalFilename string `json:"originalFilename,omitempty"`
}

// ToggleReactionPayload carries a toggle_reaction event.
type ToggleReactionPayload struct {
	MessageID string `json:"messageId"`
	ChatID    string `json:"chatId"`
	Emoji     string `json:"emoji"`
	UserID    string `json:"userId"`
}

// LoadMessagesPayload is the history replay pushed to a joining client.
type LoadMessagesPayload struct {
	ChatID   string           `json:"chatId"`
	Messages []models.Message `json:"messages"`
}

// ReactionUpdatePayload is broadcast to a room after a reaction toggle.
// Reactions is the full current map; an empty map means the message has
// no reactions left.
type ReactionUpdatePayload struct {
	MessageID string              `json:"messageId"`
	Reactions map[string][]string `json:"reactions"`
}
