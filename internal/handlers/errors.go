package handlers

import (
	"blog/internal/logger"
	"blog/internal/services"
	helpers "blog/internal/utils/helpers"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

const (
	msgInvalidToken  = "That token is invalid or has expired."
	msgInternal      = "Something went wrong. Please try again later."
	msgLoginRequired = "Please log in to access this page."
)

// writeServiceError переводит ошибку сервиса в HTTP-ответ. Детали внутренних ошибок — только в лог.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		helpers.FieldErrors(w, verr.Fields)
	case errors.Is(err, services.ErrInvalidCredentials):
		helpers.Error(w, http.StatusUnauthorized, "Login Unsuccessful. Please check email and password")
	case errors.Is(err, services.ErrTokenInvalid):
		helpers.ErrorRedirect(w, http.StatusBadRequest, msgInvalidToken, "/reset_password")
	case errors.Is(err, services.ErrUnauthorized):
		helpers.ErrorRedirect(w, http.StatusUnauthorized, msgLoginRequired, "/login")
	case errors.Is(err, services.ErrNotFound):
		helpers.Error(w, http.StatusNotFound, "Not Found")
	default:
		logger.WithCtx(r.Context()).Error("Внутренняя ошибка", zap.String("op", op), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, msgInternal)
	}
}

func writeDecodeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.WithCtx(r.Context()).Warn("Невалидный запрос", zap.String("op", op), zap.Error(err))
	helpers.Error(w, http.StatusBadRequest, "Invalid request body")
}
