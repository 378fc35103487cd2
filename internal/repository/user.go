package repository

import (
	"blog/internal/logger"
	"blog/internal/models"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, image_file, password, created_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.ImageFile, &u.Password, &u.CreatedAt); err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	logger.Log.Info("Создание пользователя (repo)", zap.String("username", user.Username))
	if user.ImageFile == "" {
		user.ImageFile = models.DefaultImageFile
	}
	query := `
	INSERT INTO users (username, email, image_file, password)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.ImageFile,
		user.Password,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		logger.Log.Error("Ошибка создания пользователя (repo)", zap.Error(err))
		return translateError(err)
	}
	return nil
}

func (r *UserRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки username (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки email (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) LIMIT 1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// UpdatePassword полностью перезаписывает сохранённый пароль.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, credential string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password = $1 WHERE id = $2`, credential, userID)
	if err != nil {
		logger.Log.Error("Ошибка обновления пароля (repo)", zap.Int("user_id", userID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateAccountFields(ctx context.Context, id int, input *models.UpdateAccountRequest) error {
	query := `UPDATE users SET`
	var args []interface{}
	argNum := 1

	if input.Username != nil {
		query += fmt.Sprintf(" username = $%d,", argNum)
		args = append(args, *input.Username)
		argNum++
	}
	if input.Email != nil {
		query += fmt.Sprintf(" email = $%d,", argNum)
		args = append(args, *input.Email)
		argNum++
	}
	if input.ImageFile != nil {
		query += fmt.Sprintf(" image_file = $%d,", argNum)
		args = append(args, *input.ImageFile)
		argNum++
	}

	if len(args) == 0 {
		return nil // ничего не обновляем
	}

	query = strings.TrimSuffix(query, ",") + fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка обновления пользователя (repo)", zap.Error(err), zap.Int("user_id", id))
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
