package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

const (
	usersFile    = "users.json"
	chatsFile    = "chats.json"
	messagesFile = "messages.json"
)

// Database persists the users, chats and messages collections as JSON
// array files under a single data directory. Every mutation is a full
// read-modify-write of one collection, serialized by that collection's
// mutex. That keeps a single process consistent; running several
// processes against the same directory is not supported (no cross-process
// locking, last writer wins).
type Database struct {
	dir string
	log zerolog.Logger

	usersMu    sync.Mutex
	chatsMu    sync.Mutex
	messagesMu sync.Mutex
}

// Open prepares the data directory, seeding empty collection files on
// first run.
func Open(dir string, logger zerolog.Logger) (*Database, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	for _, name := range []string{usersFile, chatsFile, messagesFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
				return nil, fmt.Errorf("seed %s: %w", name, err)
			}
		} else if err != nil {
			return nil, err
		}
	}

	return &Database{
		dir: dir,
		log: logger.With().Str("component", "database").Logger(),
	}, nil
}

func (d *Database) path(name string) string {
	return filepath.Join(d.dir, name)
}
