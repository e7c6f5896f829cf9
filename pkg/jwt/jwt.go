package jwt

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

// DefaultTTL matches the session cookie lifetime
const DefaultTTL = 8 * time.Hour

var (
	secretOverride []byte
	tokenTTL       = DefaultTTL
)

// Claims represents the JWT claims structure
type Claims struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Privileges   []string  `json:"privileges"`
	TokenVersion string    `json:"token_version"`
	jwt.RegisteredClaims
}

// Init sets the signing secret and token lifetime. An empty secret keeps
// the JWT_SECRET environment lookup; ttl <= 0 keeps DefaultTTL.
func Init(secret string, ttl time.Duration) {
	if secret != "" {
		secretOverride = []byte(secret)
	}
	if ttl > 0 {
		tokenTTL = ttl
	}
}

// TTL returns the configured token lifetime
func TTL() time.Duration {
	return tokenTTL
}

// GetSecretKey returns the JWT secret from Init, environment or a default
func GetSecretKey() []byte {
	if len(secretOverride) > 0 {
		return secretOverride
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your-super-secret-key-change-in-production"
	}
	return []byte(secret)
}

// GenerateToken creates a new JWT token for a user
func GenerateToken(userID uuid.UUID, username, name, role string, privileges []string, tokenVersion string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:       userID,
		Username:     username,
		Name:         name,
		Role:         role,
		Privileges:   privileges,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "go-erp-docs",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetSecretKey())
}

// ValidateToken parses and validates a JWT token
func ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return GetSecretKey(), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
