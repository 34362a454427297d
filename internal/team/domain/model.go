package domain

import (
	"net/url"
	"time"

	"github.com/focitech/focitech-backend/internal/store"
)

const Table = "team"

type Member struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Bio         *string    `json:"bio"`
	ImageURL    *string    `json:"image_url"`
	GithubURL   *string    `json:"github_url"`
	LinkedinURL *string    `json:"linkedin_url"`
	TwitterURL  *string    `json:"twitter_url"`
	Email       *string    `json:"email"`
	OrderIndex  int        `json:"order_index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type CreateMemberRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Role        string  `json:"role" validate:"required,min=2,max=100"`
	Bio         *string `json:"bio" validate:"omitempty,max=1000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,urlprefix"`
	GithubURL   *string `json:"github_url" validate:"omitempty,urlprefix"`
	LinkedinURL *string `json:"linkedin_url" validate:"omitempty,urlprefix"`
	TwitterURL  *string `json:"twitter_url" validate:"omitempty,urlprefix"`
	Email       *string `json:"email" validate:"omitempty,email"`
	OrderIndex  int     `json:"order_index" validate:"min=0"`
}

// DefaultAvatarURL is used when a member is created without a photo.
func DefaultAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

func (r CreateMemberRequest) Record() store.Record {
	image := r.ImageURL
	if image == nil || *image == "" {
		avatar := DefaultAvatarURL(r.Name)
		image = &avatar
	}
	return store.Record{
		"name":         r.Name,
		"role":         r.Role,
		"bio":          r.Bio,
		"image_url":    image,
		"github_url":   r.GithubURL,
		"linkedin_url": r.LinkedinURL,
		"twitter_url":  r.TwitterURL,
		"email":        r.Email,
		"order_index":  r.OrderIndex,
	}
}

type UpdateMemberRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Role        *string `json:"role" validate:"omitempty,min=2,max=100"`
	Bio         *string `json:"bio" validate:"omitempty,max=1000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,urlprefix"`
	GithubURL   *string `json:"github_url" validate:"omitempty,urlprefix"`
	LinkedinURL *string `json:"linkedin_url" validate:"omitempty,urlprefix"`
	TwitterURL  *string `json:"twitter_url" validate:"omitempty,urlprefix"`
	Email       *string `json:"email" validate:"omitempty,email"`
	OrderIndex  *int    `json:"order_index" validate:"omitempty,min=0"`
}

func (r UpdateMemberRequest) Patch() store.Record {
	p := store.Record{}
	set := func(key string, v *string) {
		if v != nil {
			p[key] = *v
		}
	}
	set("name", r.Name)
	set("role", r.Role)
	set("bio", r.Bio)
	set("image_url", r.ImageURL)
	set("github_url", r.GithubURL)
	set("linkedin_url", r.LinkedinURL)
	set("twitter_url", r.TwitterURL)
	set("email", r.Email)
	if r.OrderIndex != nil {
		p["order_index"] = *r.OrderIndex
	}
	return p
}

type ListFilter struct {
	Search string
	Role   string
}
