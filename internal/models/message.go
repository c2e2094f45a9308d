package models

import "time"

// Message kinds.
const (
	MessageText  = "text"
	MessageImage = "image"
	MessageVideo = "video"
)

// Message is a single chat entry. Exactly one of Text and URL is set,
// depending on Type. Reactions maps an emoji to the ordered list of user
// ids that reacted with it; the map is always present, an empty map means
// no reactions. Messages are never edited or deleted; reaction toggling
// is the only mutation after creation.
type Message struct {
	ID               string              `json:"id"`
	ChatID           string              `json:"chatId"`
	SenderID         string              `json:"senderId"`
	Type             string              `json:"type"`
	Text             string              `json:"text,omitempty"`
	URL              string              `json:"url,omitempty"`
	OriginalFilename string              `json:"originalFilename,omitempty"`
	Reactions        map[string][]string `json:"reactions"`
	Timestamp        time.Time           `json:"timestamp"`
}
