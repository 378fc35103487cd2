package handlers

import (
	"blog/internal/logger"
	"blog/internal/reqctx"
	"blog/internal/services"
	helpers "blog/internal/utils/helpers"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type PasswordHandler struct {
	svc *services.PasswordService
}

func NewPasswordHandler(svc *services.PasswordService) *PasswordHandler {
	return &PasswordHandler{svc: svc}
}

type tokenStatusResponse struct {
	Valid bool `json:"valid"`
}

// RequestReset godoc
// @Summary Запрос восстановления пароля
// @Description Отправляет письмо со ссылкой для сброса пароля. Ответ всегда одинаковый, даже если e-mail не найден.
// @Tags password
// @Accept json
// @Produce json
// @Param input body resetRequestReq true "Email пользователя"
// @Success 200 {object} messageResponse
// @Failure 400 {object} helpers.Response
// @Router /reset_password [post]
func (h *PasswordHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequestReq
	fields, err := decodeJSON(w, r, &req)
	if err != nil {
		writeDecodeError(w, r, "reset_request", err)
		return
	}
	if fields != nil {
		helpers.FieldErrors(w, fields)
		return
	}

	// Не раскрываем, существует ли email — всегда возвращаем 200
	h.svc.RequestReset(r.Context(), req.Email)

	helpers.JSON(w, http.StatusOK, messageResponse{Message: "An email with instructions for resetting your password has been sent."})
}

// CheckResetToken godoc
// @Summary Проверка токена из письма
// @Tags password
// @Produce json
// @Param token path string true "Токен сброса"
// @Success 200 {object} tokenStatusResponse
// @Failure 400 {object} helpers.Response "Токен недействителен или истёк"
// @Router /reset_password/{token} [get]
func (h *PasswordHandler) CheckResetToken(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.VerifyResetToken(r.Context(), mux.Vars(r)["token"]); err != nil {
		writeServiceError(w, r, "reset_check", err)
		return
	}
	helpers.JSON(w, http.StatusOK, tokenStatusResponse{Valid: true})
}

// ResetPassword godoc
// @Summary Сброс пароля по токену
// @Description Устанавливает новый пароль по токену из письма.
// @Tags password
// @Accept json
// @Produce json
// @Param token path string true "Токен сброса"
// @Param input body resetPasswordReq true "Новый пароль"
// @Success 200 {object} messageResponse
// @Failure 400 {object} helpers.Response
// @Router /reset_password/{token} [post]
func (h *PasswordHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	// недействительный токен — сразу, не дожидаясь проверки формы
	if _, err := h.svc.VerifyResetToken(r.Context(), token); err != nil {
		writeServiceError(w, r, "reset_password", err)
		return
	}

	var req resetPasswordReq
	fields, err := decodeJSON(w, r, &req)
	if err != nil {
		writeDecodeError(w, r, "reset_password", err)
		return
	}
	if fields != nil {
		helpers.FieldErrors(w, fields)
		return
	}

	if err := h.svc.ResetPassword(r.Context(), token, req.Password); err != nil {
		writeServiceError(w, r, "reset_password", err)
		return
	}

	helpers.JSON(w, http.StatusOK, messageResponse{Message: "Your password has been updated! You are now able to log in."})
}

// ChangePassword godoc
// @Summary Смена пароля (авторизованный пользователь)
// @Tags password
// @Accept json
// @Produce json
// @Param input body changePasswordReq true "Старый и новый пароль"
// @Success 200 {object} messageResponse
// @Failure 400 {object} helpers.Response
// @Failure 401 {object} helpers.Response
// @Router /api/account/password [post]
func (h *PasswordHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		writeServiceError(w, r, "change_password", services.ErrUnauthorized)
		return
	}

	var req changePasswordReq
	fields, err := decodeJSON(w, r, &req)
	if err != nil {
		writeDecodeError(w, r, "change_password", err)
		return
	}
	if fields != nil {
		helpers.FieldErrors(w, fields)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, "change_password", err)
		return
	}

	logger.WithCtx(r.Context()).Info("Пароль изменён пользователем", zap.Int("user_id", userID))
	helpers.JSON(w, http.StatusOK, messageResponse{Message: "Your password has been updated!"})
}
