package services

import (
	"blog/internal/logger"
	"blog/internal/models"
	"blog/internal/repository"
	"blog/internal/utils"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type AuthService struct {
	repo UserRepo
}

func NewAuthService(repo UserRepo) *AuthService {
	return &AuthService{repo: repo}
}

type UserRepo interface {
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int, credential string) error
	UpdateAccountFields(ctx context.Context, id int, input *models.UpdateAccountRequest) error
}

// dummyCredential — для выравнивания времени ответа, когда пользователя нет.
var dummyCredential = utils.JoinCredential("0000000000000000",
	"0000000000000000000000000000000000000000000000000000000000000000")

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	log := logger.WithCtx(ctx)
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	log.Info("Регистрация пользователя (service)", zap.String("username", username), zap.String("email_masked", MaskEmail(email)))

	if err := checkUnique(ctx, s.repo, username, email); err != nil {
		return nil, err
	}

	credential, err := utils.NewCredential(in.Password)
	if err != nil {
		log.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		ImageFile: models.DefaultImageFile,
		Password:  credential,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		// гонка между проверкой и вставкой — уникальный индекс всё равно не пустит
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, duplicateFieldError(dup.Field)
		}
		log.Error("Ошибка создания пользователя", zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info("Пользователь зарегистрирован (service)", zap.Int("user_id", user.ID))
	return user, nil
}

// Login проверяет email и пароль. Сессию создаёт вызывающий.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	log := logger.WithCtx(ctx)
	email = strings.TrimSpace(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("Ошибка поиска пользователя при входе", zap.Error(err))
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		_, _ = utils.VerifyPassword(password, dummyCredential)
		log.Warn("Вход: пользователь не найден", zap.String("email_masked", MaskEmail(email)))
		return nil, ErrInvalidCredentials
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil {
		log.Error("Повреждён сохранённый пароль", zap.Int("user_id", user.ID), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Warn("Вход: неверный пароль", zap.Int("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	log.Info("Вход выполнен (service)", zap.Int("user_id", user.ID))
	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

func checkUnique(ctx context.Context, repo UserRepo, username, email string) error {
	verr := &ValidationError{Fields: map[string]string{}}
	if username != "" {
		taken, err := repo.IsUsernameTaken(ctx, username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			verr.Fields["username"] = duplicateFieldError("username").Fields["username"]
		}
	}
	if email != "" {
		taken, err := repo.IsEmailTaken(ctx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			verr.Fields["email"] = duplicateFieldError("email").Fields["email"]
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func duplicateFieldError(field string) *ValidationError {
	switch field {
	case "username":
		return NewValidationError("username", "That username is taken. Please choose a different one.")
	case "email":
		return NewValidationError("email", "That email is taken. Please choose a different one.")
	}
	return NewValidationError(field, "That value is taken.")
}

// MaskEmail — для логов: a***@example.com
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
