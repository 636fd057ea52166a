package types

import "time"

// Channel names for user lifecycle events on the notification bus.
const (
	ChannelUserRegistered = "auth_user_registered"
	ChannelUserDeleted    = "auth_user_deleted"
)

// UserRegisteredEvent is published after a successful signup.
type UserRegisteredEvent struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// UserDeletedEvent is published after an account is deleted.
type UserDeletedEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}
