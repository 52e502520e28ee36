// Package session carries the authenticated identity between requests. The
// identity record (id, email, display name, role) is the only state: it is
// signed into a bearer token at login, decoded by middleware on every
// protected request, and simply discarded by the client at logout.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/theanh205-kkt/webdt/models"
)

var ErrInvalidToken = errors.New("session: invalid token")

// Identity is the serialized record of the logged-in user. It never carries
// the password.
type Identity struct {
	UserID   int         `json:"id"`
	Email    string      `json:"email"`
	FullName string      `json:"fullName"`
	Role     models.Role `json:"role"`
}

func (id Identity) IsAdmin() bool { return id.Role == models.RoleAdmin }

// Manager signs and verifies identity tokens with a shared HMAC secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue signs the identity into a compact token.
func (m *Manager) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   id.UserID,
		"email":     id.Email,
		"full_name": id.FullName,
		"role":      string(id.Role),
		"iat":       now.Unix(),
		"exp":       now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the token and recovers the identity.
func (m *Manager) Parse(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	fullName, _ := claims["full_name"].(string)
	role, _ := claims["role"].(string)

	return Identity{
		UserID:   int(userID),
		Email:    email,
		FullName: fullName,
		Role:     models.Role(role),
	}, nil
}
