package models

// User is an account record. The realtime core treats users as read-only
// reference data; only the auth handlers create or mutate them.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}
