package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newAccountFixture(t *testing.T) (*AccountService, *mockUserRepo, *AvatarStore) {
	t.Helper()
	repo := newMockUserRepo()
	registerAlice(t, repo)
	store, err := NewAvatarStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewAccountService(repo, store, "/static/profile_pics/"), repo, store
}

func TestAccount_Profile(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	p, err := svc.Profile(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Username != "alice" || p.ImageURL != "/static/profile_pics/default.jpg" {
		t.Fatalf("неожиданный профиль: %+v", p)
	}

	if _, err := svc.Profile(context.Background(), 99); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("ожидалась ErrUnauthorized, получили %v", err)
	}
}

func TestAccount_UpdateFieldsAndPicture(t *testing.T) {
	svc, repo, store := newAccountFixture(t)

	p, err := svc.UpdateAccount(context.Background(), 1, AccountUpdate{
		Username: "alice2",
		Email:    "alice2@example.com",
		Picture:  pngBytes(t),
	})
	if err != nil {
		t.Fatalf("ошибка обновления: %v", err)
	}
	if p.Username != "alice2" || p.Email != "alice2@example.com" || p.ImageFile == "default.jpg" {
		t.Fatalf("неожиданный профиль: %+v", p)
	}
	if repo.users[1].ImageFile != p.ImageFile {
		t.Fatal("аватар не сохранён в репозитории")
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), p.ImageFile)); err != nil {
		t.Fatal("файл аватара не записан")
	}

	// новая картинка заменяет старую на диске
	old := p.ImageFile
	p, err = svc.UpdateAccount(context.Background(), 1, AccountUpdate{Picture: pngBytes(t)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), old)); !os.IsNotExist(err) {
		t.Fatal("старый аватар не удалён")
	}
}

func TestAccount_UpdateTakenUsername(t *testing.T) {
	svc, repo, _ := newAccountFixture(t)
	_, err := NewAuthService(repo).RegisterUser(context.Background(), RegisterInput{
		Username: "bob", Email: "bob@example.com", Password: "Secret123",
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.UpdateAccount(context.Background(), 1, AccountUpdate{Username: "bob"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["username"] == "" {
		t.Fatalf("ожидалась ошибка по username, получили %v", err)
	}
}

func TestAccount_UpdateSameValuesIsNoop(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	p, err := svc.UpdateAccount(context.Background(), 1, AccountUpdate{Username: "alice", Email: "ALICE@example.com"})
	if err != nil {
		t.Fatalf("собственные значения не должны считаться занятыми: %v", err)
	}
	if p.Email != "alice@example.com" {
		t.Fatalf("email = %q", p.Email)
	}
}

func TestAccount_UpdateBadPicture(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	_, err := svc.UpdateAccount(context.Background(), 1, AccountUpdate{Picture: []byte("plain text")})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["picture"] == "" {
		t.Fatalf("ожидалась ошибка по picture, получили %v", err)
	}
}
