package auth

import (
	"context"
	"errors"
	"time"
)

// SignUpInput is the self-service registration payload.
type SignUpInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
}

// Credentials is the password sign-in payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is what a successful sign-in hands back to the client.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	User         *Account `json:"user"`
}

// Accounts manages users in the identity service. Only the Firebase backend
// implements it; with hosted HS256 sessions the client talks to the issuer.
type Accounts interface {
	SignUp(ctx context.Context, in SignUpInput) (*Account, error)
	SignIn(ctx context.Context, in Credentials) (*Session, error)
	// SignOut revokes every refresh token of the user.
	SignOut(ctx context.Context, userID string) error
}

var (
	ErrAccountExists          = errors.New("account already exists")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrPasswordSignInDisabled = errors.New("password sign-in is not configured")
)
