package auth

import "github.com/akashch1512/crystalreadymades.com/internal/users"

// RegisterRequest captures the payload for creating an account.
type RegisterRequest struct {
	Phone    string  `json:"phone" validate:"required,e164"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     string  `json:"name" validate:"required"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

// LoginRequest captures the credentials sent to the login endpoint. Login is
// phone based.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the bearer token and the authenticated user.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
