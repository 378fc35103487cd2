package services

import (
	"blog/internal/models"
	"blog/internal/repository"
	"context"
	"errors"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
)

const PostsPerPage = 5

type PostRepo interface {
	CountByUser(ctx context.Context, userID int) (int, error)
	ListByUser(ctx context.Context, userID, limit, offset int) ([]models.Post, error)
}

type PostService struct {
	users    UserRepo
	posts    PostRepo
	accounts *AccountService

	// контент постов пишут пользователи — отдаём наружу только безопасный HTML
	content *bluemonday.Policy
	title   *bluemonday.Policy
}

func NewPostService(users UserRepo, posts PostRepo, accounts *AccountService) *PostService {
	return &PostService{
		users:    users,
		posts:    posts,
		accounts: accounts,
		content:  bluemonday.UGCPolicy(),
		title:    bluemonday.StrictPolicy(),
	}
}

// UserPosts — страница постов автора; неизвестный username — ErrNotFound.
func (s *PostService) UserPosts(ctx context.Context, username string, page int) (*models.PostPage, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup author: %w", err)
	}

	if page < 1 {
		page = 1
	}

	total, err := s.posts.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	posts, err := s.posts.ListByUser(ctx, user.ID, PostsPerPage, (page-1)*PostsPerPage)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	for i := range posts {
		posts[i].Title = s.title.Sanitize(posts[i].Title)
		posts[i].Content = s.content.Sanitize(posts[i].Content)
	}

	pages := (total + PostsPerPage - 1) / PostsPerPage
	return &models.PostPage{
		Author:  *s.accounts.ToProfile(user),
		Posts:   posts,
		Page:    page,
		PerPage: PostsPerPage,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}, nil
}
