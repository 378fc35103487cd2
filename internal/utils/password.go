package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/argon2"
)

// CredentialDelimiter разделяет соль и хеш в сохранённом пароле: "<salt>$<hash>".
const CredentialDelimiter = "$"

// SaltLength — длина соли в hex-символах.
const SaltLength = 16

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
)

var (
	ErrMalformedCredential = errors.New("malformed stored credential")
	ErrMalformedSalt       = errors.New("salt must be non-empty and must not contain the delimiter")
)

// HashPassword считает хеш пароля. Без соли генерирует новую случайную.
func HashPassword(password string, salt ...string) (string, string, error) {
	var s string
	if len(salt) > 0 {
		s = salt[0]
	}
	if s == "" {
		var err error
		if s, err = RandomHex(SaltLength / 2); err != nil {
			return "", "", err
		}
	} else if strings.Contains(s, CredentialDelimiter) {
		return "", "", ErrMalformedSalt
	}

	key := argon2.IDKey([]byte(password), []byte(s), argonTime, argonMemory, argonThreads, argonKeyLen)
	return s, hex.EncodeToString(key), nil
}

// NewCredential — хеш с новой солью, готовый к сохранению.
func NewCredential(password string) (string, error) {
	salt, hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	return JoinCredential(salt, hash), nil
}

func JoinCredential(salt, hash string) string {
	return salt + CredentialDelimiter + hash
}

func SplitCredential(credential string) (string, string, error) {
	parts := strings.Split(credential, CredentialDelimiter)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrMalformedCredential
	}
	return parts[0], parts[1], nil
}

// VerifyPassword пересчитывает хеш с сохранённой солью и сравнивает за постоянное время.
func VerifyPassword(password, credential string) (bool, error) {
	salt, stored, err := SplitCredential(credential)
	if err != nil {
		return false, err
	}
	_, computed, err := HashPassword(password, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1, nil
}

// RandomHex — n случайных байт в hex.
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
