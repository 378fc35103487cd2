package services

import (
	"blog/internal/logger"
	"blog/internal/models"
	"blog/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type AccountService struct {
	repo       UserRepo
	avatars    *AvatarStore
	imageURLFn func(file string) string
}

func NewAccountService(repo UserRepo, avatars *AvatarStore, imagePrefix string) *AccountService {
	prefix := strings.TrimRight(imagePrefix, "/")
	return &AccountService{
		repo:       repo,
		avatars:    avatars,
		imageURLFn: func(file string) string { return prefix + "/" + file },
	}
}

// AccountUpdate — данные формы аккаунта; Picture пустой — аватар не меняется.
type AccountUpdate struct {
	Username string
	Email    string
	Picture  []byte
}

func (s *AccountService) Profile(ctx context.Context, userID int) (*models.UserProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return s.ToProfile(user), nil
}

func (s *AccountService) ToProfile(u *models.User) *models.UserProfileResponse {
	return &models.UserProfileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		ImageFile: u.ImageFile,
		ImageURL:  s.imageURLFn(u.ImageFile),
		CreatedAt: u.CreatedAt,
	}
}

func (s *AccountService) UpdateAccount(ctx context.Context, userID int, in AccountUpdate) (*models.UserProfileResponse, error) {
	log := logger.WithCtx(ctx)

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	var upd models.UpdateAccountRequest
	var newUsername, newEmail string
	if u := strings.TrimSpace(in.Username); u != "" && u != user.Username {
		newUsername = u
		upd.Username = &newUsername
	}
	if e := strings.TrimSpace(in.Email); e != "" && !strings.EqualFold(e, user.Email) {
		newEmail = e
		upd.Email = &newEmail
	}
	if err := checkUnique(ctx, s.repo, newUsername, newEmail); err != nil {
		return nil, err
	}

	oldPicture := user.ImageFile
	if len(in.Picture) > 0 {
		name, err := s.avatars.Save(in.Picture)
		if err != nil {
			if errors.Is(err, ErrPictureType) {
				return nil, NewValidationError("picture", "File does not have an approved extension: jpg, png")
			}
			return nil, err
		}
		upd.ImageFile = &name
	}

	if err := s.repo.UpdateAccountFields(ctx, userID, &upd); err != nil {
		if upd.ImageFile != nil {
			_ = s.avatars.Delete(*upd.ImageFile)
		}
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, duplicateFieldError(dup.Field)
		}
		return nil, fmt.Errorf("update account: %w", err)
	}

	if upd.ImageFile != nil {
		if err := s.avatars.Delete(oldPicture); err != nil {
			log.Warn("Не удалось удалить старый аватар", zap.String("file", oldPicture), zap.Error(err))
		}
		user.ImageFile = *upd.ImageFile
	}
	if upd.Username != nil {
		user.Username = newUsername
	}
	if upd.Email != nil {
		user.Email = newEmail
	}

	log.Info("Аккаунт обновлён", zap.Int("user_id", userID))
	return s.ToProfile(user), nil
}
