package models

import "time"

type Post struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	DatePosted time.Time `json:"date_posted"`
	UserID     int       `json:"user_id"`
}

// PostPage — страница постов автора.
type PostPage struct {
	Author  UserProfileResponse `json:"author"`
	Posts   []Post              `json:"posts"`
	Page    int                 `json:"page"`
	PerPage int                 `json:"per_page"`
	Total   int                 `json:"total"`
	Pages   int                 `json:"pages"`
	HasNext bool                `json:"has_next"`
	HasPrev bool                `json:"has_prev"`
}
