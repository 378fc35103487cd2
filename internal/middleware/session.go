package middleware

import (
	"blog/internal/logger"
	"blog/internal/reqctx"
	"blog/internal/services"
	helpers "blog/internal/utils/helpers"
	"net/http"

	"go.uber.org/zap"
)

type IdentityResolver interface {
	CurrentIdentity(r *http.Request) (*services.Identity, bool)
}

// SessionAuth кладёт пользователя из cookie сессии в контекст. Анонимные запросы пропускает как есть.
func SessionAuth(sessions IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := sessions.CurrentIdentity(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := reqctx.WithUserID(r.Context(), id.UserID)
			ctx = reqctx.WithSessionID(ctx, id.SessionID)
			logger.WithCtx(ctx).Debug("SessionAuth: сессия валидна")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin — 401 без сессии. Ставится после SessionAuth.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := reqctx.GetUserID(r.Context()); !ok {
			logger.WithCtx(r.Context()).Warn("RequireLogin: нет сессии", zap.String("path", r.URL.Path))
			helpers.ErrorRedirect(w, http.StatusUnauthorized, "Please log in to access this page.", "/login")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectIfAuthenticated — уже вошедшего пользователя отправляем на главную.
func RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := reqctx.GetUserID(r.Context()); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
