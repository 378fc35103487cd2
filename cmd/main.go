package main

import (
	_ "blog/docs"
	"blog/internal/app"
	"blog/internal/config"
	"blog/internal/logger"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// @title Blog API
// @version 1.0
// @description Документация API блога (регистрация, вход, сброс пароля, аккаунт).
// @BasePath /
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// логгер ещё не настроен: конфиг нужен ему самому
		fallback, _ := zap.NewProduction()
		fallback.Fatal("Ошибка загрузки конфига", zap.Error(err))
	}

	if err := logger.InitLogger(cfg); err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("Ошибка инициализации логгера", zap.Error(err))
	}
	defer logger.Log.Sync()

	for _, w := range cfg.Validate() {
		logger.Log.Warn("Конфигурация", zap.String("warning", w))
	}
	logger.Log.Info("Подключение к базе", zap.String("dsn", cfg.GetDSNSafe()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.InitApp(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Ошибка инициализации приложения", zap.Error(err))
	}
	defer application.Close()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
	})

	application.Router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsMiddleware.Handler(application.Router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Сервер запущен", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Остановка сервера")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Ошибка при остановке сервера", zap.Error(err))
	}
}
