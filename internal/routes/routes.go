package routes

import (
	"blog/internal/handlers"
	"blog/internal/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	sessions middleware.IdentityResolver,
	authHandler *handlers.AuthHandler,
	passwordHandler *handlers.PasswordHandler,
	accountHandler *handlers.AccountHandler,
	postHandler *handlers.PostHandler,
) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.SessionAuth(sessions), middleware.Logging)

	// --- Только для гостей (вошедших отправляем на главную) ---
	guest := func(h http.HandlerFunc) http.Handler { return middleware.RedirectIfAuthenticated(h) }

	router.Handle("/register", guest(authHandler.Register)).Methods(http.MethodPost)
	router.Handle("/login", guest(authHandler.Login)).Methods(http.MethodPost)
	router.Handle("/reset_password", guest(passwordHandler.RequestReset)).Methods(http.MethodPost)
	router.Handle("/reset_password/{token}", guest(passwordHandler.CheckResetToken)).Methods(http.MethodGet)
	router.Handle("/reset_password/{token}", guest(passwordHandler.ResetPassword)).Methods(http.MethodPost)

	// --- Публичные маршруты ---
	router.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	router.HandleFunc("/user/{username}", postHandler.UserPosts).Methods(http.MethodGet)
	router.HandleFunc("/static/profile_pics/{file}", accountHandler.ProfilePicture).Methods(http.MethodGet)

	// --- Требуют сессии ---
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireLogin)

	api.HandleFunc("/account", accountHandler.GetAccount).Methods(http.MethodGet)
	api.HandleFunc("/account", accountHandler.UpdateAccount).Methods(http.MethodPut)
	api.HandleFunc("/account/password", passwordHandler.ChangePassword).Methods(http.MethodPost)
}
