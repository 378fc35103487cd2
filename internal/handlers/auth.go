package handlers

import (
	"blog/internal/logger"
	"blog/internal/reqctx"
	"blog/internal/services"
	helpers "blog/internal/utils/helpers"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	sessions    *services.SessionManager
}

func NewAuthHandler(authService *services.AuthService, sessions *services.SessionManager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

type loginResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Message  string `json:"message"`
	Next     string `json:"next"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerRequest true "Данные регистрации"
// @Success 201 {object} helpers.Response
// @Failure 400 {object} helpers.Response "Ошибки по полям"
// @Failure 303 {string} string "Уже авторизован"
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	fields, err := decodeJSON(w, r, &req)
	if err != nil {
		writeDecodeError(w, r, "register", err)
		return
	}
	if fields != nil {
		helpers.FieldErrors(w, fields)
		return
	}

	user, err := h.authService.RegisterUser(r.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, "register", err)
		return
	}

	logger.WithCtx(r.Context()).Info("Пользователь зарегистрирован", zap.Int("user_id", user.ID))
	helpers.JSON(w, http.StatusCreated, messageResponse{Message: "Your account has been created! You are now able to log in."})
}

// Login godoc
// @Summary Вход по email и паролю
// @Description Устанавливает cookie сессии. remember=true — постоянная cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Данные для входа"
// @Param next query string false "Локальный путь для перехода после входа"
// @Success 200 {object} loginResponse
// @Failure 401 {object} helpers.Response "Неверный email или пароль"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req loginRequest
	fields, err := decodeJSON(w, r, &req)
	if err != nil {
		writeDecodeError(w, r, "login", err)
		return
	}
	if fields != nil {
		helpers.FieldErrors(w, fields)
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "login", err)
		return
	}

	if err := h.sessions.Establish(w, user.ID, req.Remember); err != nil {
		writeServiceError(w, r, "login", err)
		return
	}

	log.Info("Вход выполнен", zap.Int("user_id", user.ID), zap.Bool("remember", req.Remember))
	helpers.JSON(w, http.StatusOK, loginResponse{
		ID:       user.ID,
		Username: user.Username,
		Message:  "You have been logged in!",
		Next:     safeNext(r.URL.Query().Get("next")),
	})
}

// Logout godoc
// @Summary Выход (отзыв текущей сессии)
// @Tags auth
// @Produce json
// @Success 200 {object} helpers.Response
// @Router /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Terminate(w, r); err != nil {
		writeServiceError(w, r, "logout", err)
		return
	}

	if uid, ok := reqctx.GetUserID(r.Context()); ok {
		logger.WithCtx(r.Context()).Info("Пользователь вышел", zap.Int("user_id", uid))
	}
	helpers.JSON(w, http.StatusOK, messageResponse{Message: "You have been logged out."})
}

// safeNext пропускает только локальные пути, иначе "/".
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}
