package app

import (
	"blog/internal/config"
	"blog/internal/db"
	"blog/internal/handlers"
	"blog/internal/logger"
	"blog/internal/repository"
	"blog/internal/routes"
	"blog/internal/services"
	"blog/internal/utils"
	"context"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	emailQueueSize       = 100
	sessionPurgePeriod   = time.Hour
	profilePicsURLPrefix = "/static/profile_pics"
)

// App — собранное приложение. Close останавливает фоновые воркеры и пул соединений.
type App struct {
	Router *mux.Router

	pool   *pgxpool.Pool
	cancel context.CancelFunc
	emails *services.EmailQueue
}

func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)

	avatars, err := services.NewAvatarStore(cfg.ProfilePicsDir)
	if err != nil {
		pool.Close()
		return nil, err
	}

	// Сервисы
	emailQueue := services.NewEmailQueue(emailQueueSize, cfg.PasswordResetTTL)
	resetTokens := utils.NewResetTokens([]byte(cfg.SecretKey))
	sessions := services.NewSessionManager(services.SessionConfig{
		Secret:      []byte(cfg.SecretKey),
		TTL:         cfg.SessionTTL,
		RememberTTL: cfg.SessionRememberTTL,
		Secure:      cfg.CookieSecure,
	}, sessionRepo)

	authService := services.NewAuthService(userRepo)
	passwordService := services.NewPasswordService(userRepo, resetTokens, emailQueue, cfg.SiteURL, cfg.PasswordResetTTL)
	accountService := services.NewAccountService(userRepo, avatars, profilePicsURLPrefix)
	postService := services.NewPostService(userRepo, postRepo, accountService)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService, sessions)
	passwordHandler := handlers.NewPasswordHandler(passwordService)
	accountHandler := handlers.NewAccountHandler(accountService, avatars.Dir())
	postHandler := handlers.NewPostHandler(postService)

	// Фоновые задачи живут до Close
	bg, cancel := context.WithCancel(context.Background())
	emailQueue.Start(bg, services.NewEmailService(cfg), cfg.EmailWorkers)
	StartSessionPurger(bg, sessionRepo, sessionPurgePeriod)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, sessions, authHandler, passwordHandler, accountHandler, postHandler)

	return &App{Router: router, pool: pool, cancel: cancel, emails: emailQueue}, nil
}

func (a *App) Close() {
	a.cancel()
	a.emails.Wait()
	a.pool.Close()
}

type sessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// StartSessionPurger периодически удаляет отозванные сессии, срок которых всё равно истёк.
func StartSessionPurger(ctx context.Context, repo sessionPurger, every time.Duration) {
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := repo.PurgeExpired(ctx)
				if err != nil {
					logger.Log.Error("Ошибка очистки отозванных сессий", zap.Error(err))
					continue
				}
				if n > 0 {
					logger.Log.Info("Удалены истёкшие отозванные сессии", zap.Int64("count", n))
				}
			}
		}
	}()
}
