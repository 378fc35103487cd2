package repository

import (
	"blog/internal/models"
	"context"
)

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

// ListByUser — посты автора, новые сверху.
func (r *PostRepository) ListByUser(ctx context.Context, userID, limit, offset int) ([]models.Post, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, content, date_posted, user_id
		FROM posts
		WHERE user_id = $1
		ORDER BY date_posted DESC, id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]models.Post, 0, limit)
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.DatePosted, &p.UserID); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
