package services

import (
	"blog/internal/models"
	"blog/internal/utils"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

const MaxPictureSize = 2 << 20

var allowedPictureTypes = []string{"image/jpeg", "image/png"}

var ErrPictureType = errors.New("picture must be a jpg or png image")

// AvatarStore хранит аватары на локальном диске под случайными именами.
type AvatarStore struct {
	dir string
}

func NewAvatarStore(dir string) (*AvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile pictures dir: %w", err)
	}
	return &AvatarStore{dir: dir}, nil
}

func (s *AvatarStore) Dir() string { return s.dir }

// Save определяет тип по содержимому (расширению имени не доверяем) и возвращает имя файла.
func (s *AvatarStore) Save(data []byte) (string, error) {
	if len(data) == 0 || len(data) > MaxPictureSize {
		return "", ErrPictureType
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedPictureTypes...) {
		return "", ErrPictureType
	}

	name, err := utils.RandomHex(8)
	if err != nil {
		return "", err
	}
	name += mt.Extension()

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write picture: %w", err)
	}
	return name, nil
}

// Delete удаляет старый аватар; картинку по умолчанию не трогаем.
func (s *AvatarStore) Delete(name string) error {
	if name == "" || name == models.DefaultImageFile || filepath.Base(name) != name {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
