package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_ListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	newer := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY date_posted DESC, id DESC`)).
		WithArgs(1, 5, 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "content", "date_posted", "user_id"}).
			AddRow(9, "Second", "b", newer, 1).
			AddRow(3, "First", "a", older, 1))

	posts, err := NewPostRepository(mock).ListByUser(context.Background(), 1, 5, 5)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Second", posts[0].Title)
	assert.Equal(t, older, posts[1].DatePosted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_CountByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM posts WHERE user_id = $1`)).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM posts WHERE user_id = $1`)).
		WithArgs(2).
		WillReturnError(errors.New("connection refused"))

	repo := NewPostRepository(mock)
	total, err := repo.CountByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 12, total)

	_, err = repo.CountByUser(context.Background(), 2)
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
