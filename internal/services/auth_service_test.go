package services

import (
	"blog/internal/models"
	"blog/internal/repository"
	"blog/internal/utils"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// Мок-репозиторий (заглушка)
type mockUserRepo struct {
	mu       sync.Mutex
	users    map[int]*models.User
	nextID   int
	lastUser *models.User
	failWith error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (m *mockUserRepo) IsUsernameTaken(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.nextID++
	cp := *user
	m.users[user.ID] = &cp
	m.lastUser = &cp
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, userID int, credential string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = credential
	return nil
}

func (m *mockUserRepo) UpdateAccountFields(_ context.Context, id int, input *models.UpdateAccountRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if input.Username != nil {
		u.Username = *input.Username
	}
	if input.Email != nil {
		u.Email = *input.Email
	}
	if input.ImageFile != nil {
		u.ImageFile = *input.ImageFile
	}
	return nil
}

func (m *mockUserRepo) credentialOf(id int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id].Password
}

func registerAlice(t *testing.T, repo *mockUserRepo) *models.User {
	t.Helper()
	user, err := NewAuthService(repo).RegisterUser(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Secret123",
	})
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}
	return user
}

func TestRegisterUser(t *testing.T) {
	repo := newMockUserRepo()
	registerAlice(t, repo)

	if repo.lastUser == nil {
		t.Fatal("пользователь не сохранён")
	}
	if strings.Contains(repo.lastUser.Password, "Secret123") {
		t.Fatal("пароль сохранён в открытом виде")
	}
	salt, hash, err := utils.SplitCredential(repo.lastUser.Password)
	if err != nil {
		t.Fatalf("пароль сохранён не в формате salt$hash: %v", err)
	}
	if len(salt) != utils.SaltLength || hash == "" {
		t.Fatalf("неожиданная соль %q", salt)
	}
	if repo.lastUser.ImageFile != models.DefaultImageFile {
		t.Fatalf("image_file = %q", repo.lastUser.ImageFile)
	}
}

func TestRegisterUser_Duplicate(t *testing.T) {
	repo := newMockUserRepo()
	registerAlice(t, repo)

	_, err := NewAuthService(repo).RegisterUser(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "ALICE@example.com",
		Password: "whatever1",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ожидалась ValidationError, получили %v", err)
	}
	if verr.Fields["username"] == "" || verr.Fields["email"] == "" {
		t.Fatalf("ожидались ошибки по обоим полям: %v", verr.Fields)
	}
}

func TestLoginUser_Success(t *testing.T) {
	repo := newMockUserRepo()
	alice := registerAlice(t, repo)

	user, err := NewAuthService(repo).Login(context.Background(), "alice@example.com", "Secret123")
	if err != nil {
		t.Fatalf("ошибка логина: %v", err)
	}
	if user.ID != alice.ID {
		t.Fatalf("вошли не тем пользователем: %d", user.ID)
	}
}

func TestLoginUser_Fail(t *testing.T) {
	repo := newMockUserRepo()
	registerAlice(t, repo)
	svc := NewAuthService(repo)

	_, errWrongPass := svc.Login(context.Background(), "alice@example.com", "wrong")
	_, errNoUser := svc.Login(context.Background(), "unknown@example.com", "Secret123")

	for _, err := range []error{errWrongPass, errNoUser} {
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("ожидалась ErrInvalidCredentials, получили %v", err)
		}
	}
	if errWrongPass.Error() != errNoUser.Error() {
		t.Fatal("сообщения об ошибке различаются — утечка существования пользователя")
	}
}

func TestLoginUser_MalformedStoredCredential(t *testing.T) {
	repo := newMockUserRepo()
	alice := registerAlice(t, repo)
	repo.users[alice.ID].Password = "no-delimiter"

	_, err := NewAuthService(repo).Login(context.Background(), "alice@example.com", "Secret123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("ожидалась ErrInvalidCredentials, получили %v", err)
	}
}

func TestLoginUser_RepoFailure(t *testing.T) {
	repo := newMockUserRepo()
	repo.failWith = errors.New("connection refused")

	_, err := NewAuthService(repo).Login(context.Background(), "alice@example.com", "Secret123")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("ожидалась внутренняя ошибка, получили %v", err)
	}
}

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"alice@example.com": "a***@example.com",
		"broken":            "***",
		"@example.com":      "***",
	}
	for in, want := range cases {
		if got := MaskEmail(in); got != want {
			t.Errorf("MaskEmail(%q) = %q, хотели %q", in, got, want)
		}
	}
}
