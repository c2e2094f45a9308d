package models

import "time"

// Chat is a named conversation between two or more participants.
// Immutable after creation. Participants and ParticipantNames are
// parallel lists: ParticipantNames[i] is the display name of
// Participants[i].
type Chat struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Participants     []string  `json:"participants"`
	ParticipantNames []string  `json:"participantNames"`
	CreatedBy        string    `json:"createdBy"`
	CreatedAt        time.Time `json:"createdAt"`
}

// HasParticipant reports whether userID is a member of the chat.
func (c *Chat) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}
