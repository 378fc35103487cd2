package handlers

import (
	"blog/internal/logger"
	"blog/internal/reqctx"
	"blog/internal/services"
	helpers "blog/internal/utils/helpers"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// запас на текстовые поля формы сверх самой картинки
const maxAccountForm = services.MaxPictureSize + 64<<10

type AccountHandler struct {
	svc         *services.AccountService
	picturesDir string
}

func NewAccountHandler(svc *services.AccountService, picturesDir string) *AccountHandler {
	return &AccountHandler{svc: svc, picturesDir: picturesDir}
}

// GetAccount godoc
// @Summary Профиль текущего пользователя
// @Tags account
// @Produce json
// @Success 200 {object} models.UserProfileResponse
// @Failure 401 {object} helpers.Response
// @Router /api/account [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := reqctx.GetUserID(r.Context())

	profile, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "get_account", err)
		return
	}
	helpers.JSON(w, http.StatusOK, profile)
}

// UpdateAccount godoc
// @Summary Обновление имени, email и аватара
// @Tags account
// @Accept multipart/form-data
// @Produce json
// @Param username formData string true "Имя пользователя"
// @Param email formData string true "Email"
// @Param picture formData file false "Аватар (jpg, png)"
// @Success 200 {object} models.UserProfileResponse
// @Failure 400 {object} helpers.Response
// @Failure 401 {object} helpers.Response
// @Router /api/account [put]
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	userID, _ := reqctx.GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxAccountForm)
	if err := r.ParseMultipartForm(maxAccountForm); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			helpers.FieldErrors(w, map[string]string{"picture": "File is too large (max 2 MB)."})
			return
		}
		writeDecodeError(w, r, "update_account", err)
		return
	}

	form := accountForm{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
	}
	if fields := validateStruct(&form); fields != nil {
		helpers.FieldErrors(w, fields)
		return
	}

	picture, err := readPicture(r)
	if err != nil {
		log.Warn("Не удалось прочитать файл аватара", zap.Error(err))
		helpers.FieldErrors(w, map[string]string{"picture": "File could not be read."})
		return
	}

	profile, err := h.svc.UpdateAccount(r.Context(), userID, services.AccountUpdate{
		Username: form.Username,
		Email:    form.Email,
		Picture:  picture,
	})
	if err != nil {
		writeServiceError(w, r, "update_account", err)
		return
	}

	helpers.JSON(w, http.StatusOK, profile)
}

func readPicture(r *http.Request) ([]byte, error) {
	file, _, err := r.FormFile("picture")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, services.MaxPictureSize+1))
}

// ProfilePicture отдаёт сохранённый аватар.
func (h *AccountHandler) ProfilePicture(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]
	if name == "" || filepath.Base(name) != name || name[0] == '.' {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeFile(w, r, filepath.Join(h.picturesDir, name))
}
