package database

import (
	"errors"

	"github.com/vkazmin/huddle/internal/models"
)

var ErrChatNotFound = errors.New("chat not found")

func (d *Database) SaveChat(chat *models.Chat) error {
	d.chatsMu.Lock()
	defer d.chatsMu.Unlock()

	chats, err := readCollection[models.Chat](d.path(chatsFile))
	if err != nil {
		return err
	}
	chats = append(chats, *chat)
	return writeCollection(d.path(chatsFile), chats)
}

func (d *Database) GetChat(id string) (*models.Chat, error) {
	d.chatsMu.Lock()
	defer d.chatsMu.Unlock()

	chats, err := readCollection[models.Chat](d.path(chatsFile))
	if err != nil {
		return nil, err
	}
	for i := range chats {
		if chats[i].ID == id {
			return &chats[i], nil
		}
	}
	return nil, ErrChatNotFound
}

// GetUserChats returns every chat the user participates in, in the order
// the chats were created.
func (d *Database) GetUserChats(userID string) ([]models.Chat, error) {
	d.chatsMu.Lock()
	defer d.chatsMu.Unlock()

	chats, err := readCollection[models.Chat](d.path(chatsFile))
	if err != nil {
		return nil, err
	}
	out := make([]models.Chat, 0)
	for _, chat := range chats {
		if chat.HasParticipant(userID) {
			out = append(out, chat)
		}
	}
	return out, nil
}
