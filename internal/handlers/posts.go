package handlers

import (
	"blog/internal/services"
	helpers "blog/internal/utils/helpers"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type PostHandler struct {
	svc *services.PostService
}

func NewPostHandler(svc *services.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// UserPosts godoc
// @Summary Посты автора постранично
// @Tags posts
// @Produce json
// @Param username path string true "Имя автора"
// @Param page query int false "Номер страницы (начиная с 1)"
// @Success 200 {object} models.PostPage
// @Failure 404 {object} helpers.Response
// @Router /user/{username} [get]
func (h *PostHandler) UserPosts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	result, err := h.svc.UserPosts(r.Context(), mux.Vars(r)["username"], page)
	if err != nil {
		writeServiceError(w, r, "user_posts", err)
		return
	}
	helpers.JSON(w, http.StatusOK, result)
}
