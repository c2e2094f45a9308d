package database

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vkazmin/huddle/internal/models"
)

var (
	// ErrInvalidMessage flags a send payload missing a required field.
	ErrInvalidMessage = errors.New("invalid message payload")
	// ErrMessageNotFound flags a reaction toggle on an unknown
	// message/chat pair.
	ErrMessageNotFound = errors.New("message not found")
)

// NewMessage carries the client-supplied fields of a send event.
type NewMessage struct {
	SenderID         string
	ChatID           string
	Type             string
	Text             string
	URL              string
	OriginalFilename string
}

// validate checks field presence in a fixed order: both ids first, then
// the content field the kind requires.
func (m NewMessage) validate() error {
	if m.SenderID == "" || m.ChatID == "" {
		return ErrInvalidMessage
	}
	switch m.Type {
	case models.MessageText:
		if m.Text == "" {
			return ErrInvalidMessage
		}
	case models.MessageImage, models.MessageVideo:
		if m.URL == "" {
			return ErrInvalidMessage
		}
	default:
		return ErrInvalidMessage
	}
	return nil
}

// AppendMessage validates the payload, assigns id and timestamp and
// appends the message to the collection. The stored message starts with
// an empty reaction map.
func (d *Database) AppendMessage(in NewMessage) (*models.Message, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		ChatID:    in.ChatID,
		SenderID:  in.SenderID,
		Type:      in.Type,
		Reactions: map[string][]string{},
		Timestamp: time.Now().UTC(),
	}
	if in.Type == models.MessageText {
		msg.Text = in.Text
	} else {
		msg.URL = in.URL
		msg.OriginalFilename = in.OriginalFilename
	}

	d.messagesMu.Lock()
	defer d.messagesMu.Unlock()

	messages, err := readCollection[models.Message](d.path(messagesFile))
	if err != nil {
		return nil, err
	}
	messages = append(messages, msg)
	if err := writeCollection(d.path(messagesFile), messages); err != nil {
		return nil, err
	}

	d.log.Debug().Str("message_id", msg.ID).Str("chat_id", msg.ChatID).Str("type", msg.Type).Msg("message appended")
	return &msg, nil
}

// ChatMessages returns the messages of one chat in the order they were
// appended to the collection.
func (d *Database) ChatMessages(chatID string) ([]models.Message, error) {
	d.messagesMu.Lock()
	defer d.messagesMu.Unlock()

	messages, err := readCollection[models.Message](d.path(messagesFile))
	if err != nil {
		return nil, err
	}
	out := make([]models.Message, 0)
	for _, msg := range messages {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out, nil
}

// ToggleReaction flips userID's membership in the emoji's reactor list on
// the message identified by (messageID, chatID), then persists the whole
// collection. Adding appends to the end of the list; removing the last
// reactor deletes the emoji key. A second identical toggle restores the
// prior state. The returned message carries the updated reaction map,
// which is always non-nil, possibly empty.
func (d *Database) ToggleReaction(messageID, chatID, emoji, userID string) (*models.Message, error) {
	d.messagesMu.Lock()
	defer d.messagesMu.Unlock()

	messages, err := readCollection[models.Message](d.path(messagesFile))
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range messages {
		if messages[i].ID == messageID && messages[i].ChatID == chatID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrMessageNotFound
	}

	msg := &messages[idx]
	if msg.Reactions == nil {
		// Collections written by older builds may omit the field.
		msg.Reactions = map[string][]string{}
	}

	reactors := msg.Reactions[emoji]
	pos := -1
	for i, id := range reactors {
		if id == userID {
			pos = i
			break
		}
	}
	if pos >= 0 {
		reactors = append(reactors[:pos], reactors[pos+1:]...)
		if len(reactors) == 0 {
			delete(msg.Reactions, emoji)
		} else {
			msg.Reactions[emoji] = reactors
		}
	} else {
		msg.Reactions[emoji] = append(reactors, userID)
	}

	if err := writeCollection(d.path(messagesFile), messages); err != nil {
		return nil, err
	}

	d.log.Debug().Str("message_id", messageID).Str("emoji", emoji).Str("user_id", userID).Msg("reaction toggled")
	updated := *msg
	return &updated, nil
}
