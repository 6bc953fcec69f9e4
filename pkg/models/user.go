package models

import "time"

// User is the public shape of an account, safe to return from the user
// directory endpoints. The password hash never leaves internal/auth.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarID  int       `json:"avatar_id"`
	CreatedAt time.Time `json:"created_at"`
}
