package services

import (
	"blog/internal/logger"
	"blog/internal/models"
	"blog/internal/repository"
	"blog/internal/utils"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

type PasswordService struct {
	repo        UserRepo
	tokens      *utils.ResetTokens
	emailSender EmailSender
	appURL      string // ссылка в письме: <appURL>/reset_password/<token>
	tokenTTL    time.Duration
}

type EmailSender interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
	SendPasswordChanged(ctx context.Context, to, username string) error
}

func NewPasswordService(repo UserRepo, tokens *utils.ResetTokens, emailSender EmailSender, appURL string, tokenTTL time.Duration) *PasswordService {
	return &PasswordService{
		repo:        repo,
		tokens:      tokens,
		emailSender: emailSender,
		appURL:      strings.TrimRight(appURL, "/"),
		tokenTTL:    tokenTTL,
	}
}

// RequestReset выдаёт токен и ставит письмо в очередь, только если пользователь существует.
// Вызывающему ответ всегда одинаковый: наличие e-mail не раскрываем.
func (s *PasswordService) RequestReset(ctx context.Context, email string) {
	log := logger.WithCtx(ctx)
	email = strings.TrimSpace(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("Сброс пароля для неизвестного email", zap.String("email_masked", MaskEmail(email)))
		} else {
			log.Error("Ошибка поиска пользователя при запросе сброса", zap.Error(err))
		}
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Password)
	if err != nil {
		log.Error("Ошибка генерации токена для сброса", zap.Int("user_id", user.ID), zap.Error(err))
		return
	}

	if err := s.emailSender.SendPasswordReset(ctx, user.Email, s.ResetLink(token)); err != nil {
		// Не фейлим намеренно — чтобы нельзя было брутить наличие e-mail
		log.Error("Ошибка постановки письма сброса пароля", zap.Int("user_id", user.ID), zap.Error(err))
		return
	}

	log.Info("Письмо со ссылкой на сброс пароля поставлено на отправку",
		zap.Int("user_id", user.ID),
		zap.Duration("ttl", s.tokenTTL),
	)
}

func (s *PasswordService) ResetLink(token string) string {
	return s.appURL + "/reset_password/" + url.PathEscape(token)
}

// VerifyResetToken возвращает пользователя, которому выдан токен.
// Истёкший, подделанный токен и токен, уже использованный для смены пароля, — ErrTokenInvalid.
func (s *PasswordService) VerifyResetToken(ctx context.Context, token string) (*models.User, error) {
	claims, ok := s.tokens.Verify(token, s.tokenTTL)
	if !ok {
		return nil, ErrTokenInvalid
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	current := utils.CredentialFingerprint(user.Password)
	if subtle.ConstantTimeCompare([]byte(current), []byte(claims.Fingerprint)) != 1 {
		return nil, ErrTokenInvalid
	}
	return user, nil
}

// ResetPassword проверяет токен и полностью перезаписывает пароль пользователя.
func (s *PasswordService) ResetPassword(ctx context.Context, token, newPassword string) error {
	log := logger.WithCtx(ctx)

	user, err := s.VerifyResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenInvalid) {
			log.Warn("Неверный или просроченный токен при сбросе пароля")
		}
		return err
	}

	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}

	log.Info("Пароль успешно сброшен", zap.Int("user_id", user.ID))
	return nil
}

// ChangePassword меняет пароль авторизованного пользователя по старому паролю.
func (s *PasswordService) ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	log := logger.WithCtx(ctx)

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	ok, err := utils.VerifyPassword(oldPassword, user.Password)
	if err != nil {
		log.Error("Повреждён сохранённый пароль", zap.Int("user_id", userID), zap.Error(err))
	}
	if !ok {
		log.Warn("Старый пароль не совпадает", zap.Int("user_id", userID))
		return NewValidationError("old_password", "Current password is incorrect.")
	}

	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}

	log.Info("Пароль успешно изменён", zap.Int("user_id", userID))
	return nil
}

func (s *PasswordService) setPassword(ctx context.Context, user *models.User, newPassword string) error {
	credential, err := utils.NewCredential(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, credential); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("update password: %w", err)
	}
	user.Password = credential

	if err := s.emailSender.SendPasswordChanged(ctx, user.Email, user.Username); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось поставить уведомление о смене пароля", zap.Int("user_id", user.ID), zap.Error(err))
	}
	return nil
}
