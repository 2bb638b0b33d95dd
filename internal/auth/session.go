package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/amiseo/cockpit/internal/models"
)

// SessionTTL is how long an issued session stays valid.
const SessionTTL = 7 * 24 * time.Hour

// Principal is the authenticated identity derived from a session token.
type Principal struct {
	UserID      string `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	ClientID    string `json:"clientId,omitempty"`
}

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

type sessionClaims struct {
	jwt.RegisteredClaims
	Username    string `json:"username"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	ClientID    string `json:"clientId,omitempty"`
}

// Sessions signs and verifies the HS256 session tokens carried by the
// cookie. Verification is a pure check against the signature and expiry;
// it does no I/O.
type Sessions struct {
	secret []byte
	now    func() time.Time
}

func NewSessions(secret string) *Sessions {
	return &Sessions{secret: []byte(secret), now: time.Now}
}

// Token issues a signed, time-limited claim set for the user.
func (s *Sessions) Token(user models.UserRecord) (string, error) {
	now := s.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
		Username:    user.Username,
		Role:        user.Role,
		DisplayName: user.DisplayName,
		ClientID:    user.ClientID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Principal verifies a token and returns the identity it carries.
func (s *Sessions) Principal(token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, errors.New("empty session token")
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("verify session: %w", err)
	}

	role := models.RoleClient
	if claims.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}
	return Principal{
		UserID:      claims.Subject,
		Username:    claims.Username,
		Role:        role,
		DisplayName: claims.DisplayName,
		ClientID:    claims.ClientID,
	}, nil
}
