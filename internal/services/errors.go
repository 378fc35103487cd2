package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials — не различаем «нет пользователя» и «неверный пароль».
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrTokenInvalid — токен истёк, подделан или испорчен; причина не раскрывается.
	ErrTokenInvalid = errors.New("invalid or expired token")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError — ошибки формы по полям, исправляются повторной отправкой.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
