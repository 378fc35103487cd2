package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionTokenType = "session"

var ErrInvalidSession = errors.New("invalid or expired session")

type SessionClaims struct {
	UserID   int    `json:"user_id"`
	Type     string `json:"typ"`
	Remember bool   `json:"rmb,omitempty"`
	jwt.RegisteredClaims
}

// GenerateSessionToken создаёт JWT для cookie сессии. jti нужен для отзыва при выходе.
func GenerateSessionToken(secret []byte, userID int, remember bool, duration time.Duration, now time.Time) (string, *SessionClaims, error) {
	claims := &SessionClaims{
		UserID:   userID,
		Type:     sessionTokenType,
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

func ParseSessionToken(secret []byte, tokenString string, now func() time.Time) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.Type != sessionTokenType || claims.UserID <= 0 || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
