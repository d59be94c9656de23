package models

import "time"

// Category is a per-institute course taxonomy entry. A nil institute means
// the category is shared across institutes.
type Category struct {
	ID          string    `db:"id" json:"id"`
	Institute   *string   `db:"institute" json:"institute"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Order       int       `db:"sort_order" json:"order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CategoryFilter captures admin category list criteria.
type CategoryFilter struct {
	Tenant string
	Search string
	Page   PageQuery
}

// CreateCategoryRequest is the whitelisted creation payload.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Order       *int   `json:"order"`
}

// UpdateCategoryRequest is the whitelisted update payload.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

// Filiere is an academic track. Unlike categories a filiere always belongs
// to exactly one institute; (institute, name) is unique.
type Filiere struct {
	ID        string    `db:"id" json:"id"`
	Institute string    `db:"institute" json:"institute"`
	Name      string    `db:"name" json:"name"`
	Order     int       `db:"sort_order" json:"order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FiliereFilter captures filiere list criteria.
type FiliereFilter struct {
	Tenant    string
	Institute string
	Search    string
	Page      PageQuery
}

// CreateFiliereRequest is the whitelisted creation payload.
type CreateFiliereRequest struct {
	Institute string `json:"institute" validate:"omitempty,oneof=DGI ISSJ ISEG"`
	Name      string `json:"name" validate:"required"`
	Order     *int   `json:"order"`
}

// UpdateFiliereRequest is the whitelisted update payload.
type UpdateFiliereRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Order *int    `json:"order"`
}
