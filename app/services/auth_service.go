package services

import (
	"errors"

	"gearshop/app/repositories"
	"gearshop/pkg/auth"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so the response does not reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates admin users and issues JWTs for the admin API.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Authenticate verifies the credentials and returns a signed token.
func (s *AuthService) Authenticate(email, password string) (string, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil || !auth.CheckPassword(user.Password, password) {
		return "", ErrInvalidCredentials
	}
	return auth.GenerateToken(user.ID, user.Role)
}
