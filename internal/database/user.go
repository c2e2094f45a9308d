package database

import (
	"errors"

	"github.com/vkazmin/huddle/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

func (d *Database) Users() ([]models.User, error) {
	d.usersMu.Lock()
	defer d.usersMu.Unlock()
	return readCollection[models.User](d.path(usersFile))
}

func (d *Database) SaveUser(user *models.User) error {
	d.usersMu.Lock()
	defer d.usersMu.Unlock()

	users, err := readCollection[models.User](d.path(usersFile))
	if err != nil {
		return err
	}
	users = append(users, *user)
	return writeCollection(d.path(usersFile), users)
}

func (d *Database) GetUser(id string) (*models.User, error) {
	return d.findUser(func(u models.User) bool { return u.ID == id })
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	return d.findUser(func(u models.User) bool { return u.Email == email })
}

func (d *Database) FindUserByUsername(username string) (*models.User, error) {
	return d.findUser(func(u models.User) bool { return u.Username == username })
}

func (d *Database) findUser(match func(models.User) bool) (*models.User, error) {
	users, err := d.Users()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(users[i]) {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}
