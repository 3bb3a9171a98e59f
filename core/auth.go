package core

import (
	"context"
	"errors"
	"time"
)

// User represents an authenticated principal returned to handlers.
// The password hash never leaves the auth subsystem.
type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

var (
	// ErrInvalidCredentials is returned when the username is unknown or the
	// password is wrong. The two causes are deliberately indistinguishable so
	// callers cannot probe for existing usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = errors.New("username already exists")
)

// AuthService defines registration and authentication behaviour.
// Token issuance is a separate step (TokenCodec.Issue) so login and minting
// can be exercised independently.
type AuthService interface {
	RegisterUser(ctx context.Context, username, password string) (User, error)
	AuthenticateUser(ctx context.Context, username, password string) (User, error)
}
