package auth

import "github.com/arjunkedar/mandisathi-backend/internal/users"

// RegisterRequest contains the payload required for onboarding a new account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=vendor buyer supplier"`
	City     string `json:"city" validate:"required"`
}

// LoginRequest carries the credential pair. Username also accepts the
// registered email address.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	AccessToken string        `json:"accessToken"`
	User        users.Summary `json:"user"`
}
