package models

import "time"

// Content statuses shared by news and guides.
const (
	ContentDraft     = "draft"
	ContentPublished = "published"
)

// News is an institute-scoped announcement; nil institute means global.
type News struct {
	ID             string    `db:"id" json:"id"`
	Institute      *string   `db:"institute" json:"institute"`
	Title          string    `db:"title" json:"title"`
	Content        string    `db:"content" json:"content"`
	Image          *string   `db:"image" json:"image"`
	Status         string    `db:"status" json:"status"`
	CreatedBy      string    `db:"created_by" json:"created_by"`
	CreatedByName  *string   `db:"created_by_name" json:"created_by_name,omitempty"`
	CreatedByEmail *string   `db:"created_by_email" json:"created_by_email,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// NewsFilter captures list criteria for news queries.
type NewsFilter struct {
	// Institute filters on an explicit institute; TenantOrGlobal widens the
	// match to the tenant's news plus global (nil institute) entries.
	Institute      string
	TenantOrGlobal string
	Status         string
	Page           PageQuery
}

// CreateNewsRequest is the whitelisted creation payload.
type CreateNewsRequest struct {
	Title     string  `json:"title" validate:"required"`
	Content   string  `json:"content" validate:"required"`
	Image     *string `json:"image"`
	Institute *string `json:"institute" validate:"omitempty,oneof=DGI ISSJ ISEG"`
	Status    string  `json:"status" validate:"omitempty,oneof=draft published"`
}

// UpdateNewsRequest is the whitelisted update payload.
type UpdateNewsRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1"`
	Content *string `json:"content" validate:"omitempty,min=1"`
	Image   *string `json:"image"`
	Status  *string `json:"status" validate:"omitempty,oneof=draft published"`
}

// Guide is an institute-scoped (nil = global) help page.
type Guide struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Institute *string   `db:"institute" json:"institute"`
	Order     int       `db:"sort_order" json:"order"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GuideFilter captures guide list criteria.
type GuideFilter struct {
	TenantOrGlobal string
	Status         string
	Page           PageQuery
}

// CreateGuideRequest is the whitelisted creation payload.
type CreateGuideRequest struct {
	Title     string  `json:"title" validate:"required"`
	Content   string  `json:"content" validate:"required"`
	Institute *string `json:"institute" validate:"omitempty,oneof=DGI ISSJ ISEG"`
	Order     *int    `json:"order"`
	Status    string  `json:"status" validate:"omitempty,oneof=draft published"`
}

// UpdateGuideRequest is the whitelisted update payload.
type UpdateGuideRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1"`
	Content *string `json:"content" validate:"omitempty,min=1"`
	Order   *int    `json:"order"`
	Status  *string `json:"status" validate:"omitempty,oneof=draft published"`
}

// Outil is an external tool link shown to an institute (nil = everyone).
type Outil struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	URL         string    `db:"url" json:"url"`
	Institute   *string   `db:"institute" json:"institute"`
	Order       int       `db:"sort_order" json:"order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// OutilFilter captures outil list criteria.
type OutilFilter struct {
	TenantOrGlobal string
	Page           PageQuery
}

// CreateOutilRequest is the whitelisted creation payload.
type CreateOutilRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	URL         string  `json:"url" validate:"required,url"`
	Institute   *string `json:"institute" validate:"omitempty,oneof=DGI ISSJ ISEG"`
	Order       *int    `json:"order"`
}

// UpdateOutilRequest is the whitelisted update payload.
type UpdateOutilRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	URL         *string `json:"url" validate:"omitempty,url"`
	Order       *int    `json:"order"`
}
