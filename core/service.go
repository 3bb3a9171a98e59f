package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// RepositoryAuthService implements AuthService over a UserRepository and a
// PasswordHasher.
type RepositoryAuthService struct {
	users  UserRepository
	hasher *PasswordHasher
}

func NewRepositoryAuthService(users UserRepository, hasher *PasswordHasher) *RepositoryAuthService {
	return &RepositoryAuthService{users: users, hasher: hasher}
}

// RegisterUser creates a new user with a hashed password. The existence check
// runs before hashing so a doomed request does not pay the bcrypt cost; the
// database unique constraint still backstops concurrent registrations.
func (s *RepositoryAuthService) RegisterUser(ctx context.Context, username, password string) (User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return User{}, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return User{}, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, username, hash)
	if err != nil {
		return User{}, err
	}
	return User{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}, nil
}

// AuthenticateUser verifies username and password. Unknown username and wrong
// password both return ErrInvalidCredentials so the caller cannot tell which.
func (s *RepositoryAuthService) AuthenticateUser(ctx context.Context, username, password string) (User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return User{}, ErrInvalidCredentials
	}
	return User{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}, nil
}
