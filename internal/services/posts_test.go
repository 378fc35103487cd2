package services

import (
	"blog/internal/models"
	"context"
	"errors"
	"strings"
	"testing"
)

type memPosts struct {
	byUser map[int][]models.Post
}

func (m *memPosts) CountByUser(_ context.Context, userID int) (int, error) {
	return len(m.byUser[userID]), nil
}

func (m *memPosts) ListByUser(_ context.Context, userID, limit, offset int) ([]models.Post, error) {
	all := m.byUser[userID]
	if offset >= len(all) {
		return []models.Post{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func newPostFixture(t *testing.T, n int) *PostService {
	t.Helper()
	repo := newMockUserRepo()
	alice := registerAlice(t, repo)
	posts := &memPosts{byUser: map[int][]models.Post{}}
	for i := 0; i < n; i++ {
		posts.byUser[alice.ID] = append(posts.byUser[alice.ID], models.Post{ID: n - i, UserID: alice.ID})
	}
	store, _ := NewAvatarStore(t.TempDir())
	return NewPostService(repo, posts, NewAccountService(repo, store, "/static/profile_pics"))
}

func TestUserPosts_Pagination(t *testing.T) {
	svc := newPostFixture(t, 12)

	first, err := svc.UserPosts(context.Background(), "alice", 1)
	if err != nil {
		t.Fatal(err)
	}
	if first.Total != 12 || first.Pages != 3 || len(first.Posts) != PostsPerPage || !first.HasNext || first.HasPrev {
		t.Fatalf("неожиданная первая страница: %+v", first)
	}

	last, _ := svc.UserPosts(context.Background(), "alice", 3)
	if len(last.Posts) != 2 || last.HasNext || !last.HasPrev {
		t.Fatalf("неожиданная последняя страница: %+v", last)
	}

	clamped, _ := svc.UserPosts(context.Background(), "alice", 0)
	if clamped.Page != 1 {
		t.Fatalf("page = %d", clamped.Page)
	}
}

func TestUserPosts_UnknownAuthor(t *testing.T) {
	svc := newPostFixture(t, 0)

	if _, err := svc.UserPosts(context.Background(), "ghost", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получили %v", err)
	}
}

func TestUserPosts_SanitizesContent(t *testing.T) {
	repo := newMockUserRepo()
	alice := registerAlice(t, repo)
	posts := &memPosts{byUser: map[int][]models.Post{
		alice.ID: {{
			ID:      1,
			UserID:  alice.ID,
			Title:   "<b>Hello</b>",
			Content: `<p>text</p><script>alert(1)</script><a href="javascript:alert(1)">x</a>`,
		}},
	}}
	store, _ := NewAvatarStore(t.TempDir())
	svc := NewPostService(repo, posts, NewAccountService(repo, store, "/static/profile_pics"))

	page, err := svc.UserPosts(context.Background(), "alice", 1)
	if err != nil {
		t.Fatal(err)
	}
	got := page.Posts[0]
	if got.Title != "Hello" {
		t.Fatalf("title = %q", got.Title)
	}
	if strings.Contains(got.Content, "<script") || strings.Contains(got.Content, "javascript:") {
		t.Fatalf("опасный HTML не вычищен: %q", got.Content)
	}
	if !strings.Contains(got.Content, "<p>text</p>") {
		t.Fatalf("безопасная разметка потеряна: %q", got.Content)
	}
}
