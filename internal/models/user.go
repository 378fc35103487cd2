package models

import "time"

const DefaultImageFile = "default.jpg"

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ImageFile string    `json:"image_file"`
	Password  string    `json:"-"` // "<salt>$<hash>"
	CreatedAt time.Time `json:"created_at"`
}

// UpdateAccountRequest — частичное обновление профиля; nil — поле не меняется.
type UpdateAccountRequest struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	ImageFile *string `json:"image_file,omitempty"`
}

type UserProfileResponse struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ImageFile string    `json:"image_file"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}
