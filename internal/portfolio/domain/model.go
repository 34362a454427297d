package domain

import (
	"time"

	"github.com/focitech/focitech-backend/internal/store"
)

const Table = "projects"

type Project struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TechStack   []string   `json:"tech_stack"`
	ImageURL    *string    `json:"image_url"`
	LiveURL     *string    `json:"live_url"`
	GithubURL   *string    `json:"github_url"`
	IsFeatured  bool       `json:"is_featured"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type CreateProjectRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"required,min=20,max=5000"`
	TechStack   []string `json:"tech_stack" validate:"techstack"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,urlprefix"`
	LiveURL     *string  `json:"live_url" validate:"omitempty,urlprefix"`
	GithubURL   *string  `json:"github_url" validate:"omitempty,urlprefix"`
	IsFeatured  bool     `json:"is_featured"`
}

func (r CreateProjectRequest) Record() store.Record {
	return store.Record{
		"title":       r.Title,
		"description": r.Description,
		"tech_stack":  r.TechStack,
		"image_url":   r.ImageURL,
		"live_url":    r.LiveURL,
		"github_url":  r.GithubURL,
		"is_featured": r.IsFeatured,
	}
}

// UpdateProjectRequest is a partial update; nil fields are left unchanged.
type UpdateProjectRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string   `json:"description" validate:"omitempty,min=20,max=5000"`
	TechStack   *[]string `json:"tech_stack" validate:"omitempty,techstack"`
	ImageURL    *string   `json:"image_url" validate:"omitempty,urlprefix"`
	LiveURL     *string   `json:"live_url" validate:"omitempty,urlprefix"`
	GithubURL   *string   `json:"github_url" validate:"omitempty,urlprefix"`
	IsFeatured  *bool     `json:"is_featured"`
}

func (r UpdateProjectRequest) Patch() store.Record {
	p := store.Record{}
	if r.Title != nil {
		p["title"] = *r.Title
	}
	if r.Description != nil {
		p["description"] = *r.Description
	}
	if r.TechStack != nil {
		p["tech_stack"] = *r.TechStack
	}
	if r.ImageURL != nil {
		p["image_url"] = *r.ImageURL
	}
	if r.LiveURL != nil {
		p["live_url"] = *r.LiveURL
	}
	if r.GithubURL != nil {
		p["github_url"] = *r.GithubURL
	}
	if r.IsFeatured != nil {
		p["is_featured"] = *r.IsFeatured
	}
	return p
}

// ListFilter holds the recognised query parameters. Zero values mean "any".
type ListFilter struct {
	Search   string
	Tech     string
	Featured *bool
}
