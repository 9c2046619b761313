package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TokenTypeBearer = "bearer"

// Credentials is what a sign-in is checked against.
type Credentials struct {
	ID           int64
	Email        string
	Name         string
	Role         string
	PasswordHash string
	IsActive     bool
}

type Account struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   int64   `json:"expires_in"`
	User        Account `json:"user"`
}

// Claims represents JWT token claims; the subject is the admin email.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type TokenGenerator interface {
	GenerateAccessToken(email, role string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	TTL() time.Duration
}

type RepositoryAPI interface {
	GetCredentials(ctx context.Context, email string) (*Credentials, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	Authorize(ctx context.Context, tokenString string) (*Claims, error)
}

func (c *Credentials) Account() Account {
	return Account{
		ID:    c.ID,
		Email: c.Email,
		Name:  c.Name,
		Role:  c.Role,
	}
}
