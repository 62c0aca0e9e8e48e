package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/schoolhub/internal/app/models"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
	ErrMissingSecret = errors.New("session signing secret is not configured")
)

// DefaultSessionLifetime is used when the configured lifetime is not positive
const DefaultSessionLifetime = 7 * 24 * time.Hour

// JWTConfig defines session token settings
type JWTConfig struct {
	SecretKey       string
	SessionLifetime time.Duration
	TokenIssuer     string
}

// Identity is the authenticated caller resolved from a session token
type Identity struct {
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// Claims defines JWT token content
type Claims struct {
	UserID int64       `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and resolves session tokens
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service. The secret has no fallback.
func NewJWTService(config JWTConfig) (*JWTService, error) {
	if config.SecretKey == "" {
		return nil, ErrMissingSecret
	}
	if config.SessionLifetime <= 0 {
		config.SessionLifetime = DefaultSessionLifetime
	}
	return &JWTService{config: config, now: time.Now}, nil
}

// SessionLifetime returns how long an issued session stays valid
func (s *JWTService) SessionLifetime() time.Duration {
	return s.config.SessionLifetime
}

// IssueSession signs a token for the given identity
func (s *JWTService) IssueSession(userID int64, email string, role models.Role) (string, time.Time, error) {
	if userID <= 0 || email == "" || !role.Valid() {
		return "", time.Time{}, ErrInvalidToken
	}

	now := s.now()
	expiresAt := now.Add(s.config.SessionLifetime)

	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken parses a token and checks signature, algorithm and expiry
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidFormat
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID <= 0 || claims.Email == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ResolveSession returns the identity carried by a valid token, or nil
func (s *JWTService) ResolveSession(tokenString string) *Identity {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil
	}
	return &Identity{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
}

// RequireRole reports whether the identity holds one of the allowed roles
func RequireRole(identity *Identity, allowed ...models.Role) bool {
	if identity == nil {
		return false
	}
	switch identity.Role {
	case models.RoleStudent, models.RoleTeacher, models.RoleAdmin:
		for _, r := range allowed {
			if r == identity.Role {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", ErrInvalidFormat
	}

	const prefix = "Bearer "
	if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return strings.TrimSpace(authHeader[len(prefix):]), nil
	}

	return "", ErrInvalidFormat
}
