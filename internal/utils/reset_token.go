package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const resetTokenType = "password_reset"

// ResetClaims — полезная нагрузка токена сброса пароля.
// Fingerprint привязывает токен к паролю на момент выдачи: после смены пароля токен недействителен.
type ResetClaims struct {
	UserID      int    `json:"user_id"`
	Type        string `json:"typ"`
	Fingerprint string `json:"pwf,omitempty"`
	jwt.RegisteredClaims
}

// ResetTokens выдаёт и проверяет подписанные токены сброса пароля.
// Токен ничего не хранит на сервере: срок жизни проверяется по iat.
type ResetTokens struct {
	secret []byte
	now    func() time.Time
}

func NewResetTokens(secret []byte) *ResetTokens {
	return &ResetTokens{secret: secret, now: time.Now}
}

// WithClock подменяет часы (для тестов).
func (t *ResetTokens) WithClock(now func() time.Time) *ResetTokens {
	return &ResetTokens{secret: t.secret, now: now}
}

func (t *ResetTokens) Issue(userID int, credential string) (string, error) {
	claims := ResetClaims{
		UserID:      userID,
		Type:        resetTokenType,
		Fingerprint: CredentialFingerprint(credential),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(t.now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify возвращает claims, если подпись верна и токен не старше maxAge.
// Причину отказа наружу не отдаём: подделка и истечение срока неразличимы.
func (t *ResetTokens) Verify(token string, maxAge time.Duration) (*ResetClaims, bool) {
	claims := &ResetClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}
	if claims.Type != resetTokenType || claims.UserID <= 0 || claims.IssuedAt == nil {
		return nil, false
	}

	age := t.now().Sub(claims.IssuedAt.Time)
	if age < -time.Second || age > maxAge {
		return nil, false
	}
	return claims, true
}

// CredentialFingerprint — короткий отпечаток сохранённого пароля.
func CredentialFingerprint(credential string) string {
	if credential == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:8])
}
