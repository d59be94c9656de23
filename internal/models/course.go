package models

import "time"

// Course statuses.
const (
	CourseDraft     = "draft"
	CoursePublished = "published"
	CourseArchived  = "archived"
)

// ValidCourseStatus reports whether the value is a known course status.
func ValidCourseStatus(raw string) bool {
	switch raw {
	case CourseDraft, CoursePublished, CourseArchived:
		return true
	}
	return false
}

// Course is a teaching unit, optionally bound to an institute.
type Course struct {
	ID             string    `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	Category       string    `db:"category" json:"category"`
	Filiere        *string   `db:"filiere" json:"filiere"`
	Niveau         *string   `db:"niveau" json:"niveau"`
	Institute      *string   `db:"institute" json:"institute"`
	Semester       *string   `db:"semester" json:"semester"`
	AcademicYear   *int      `db:"academic_year" json:"academic_year"`
	Institution    string    `db:"institution" json:"institution"`
	Description    string    `db:"description" json:"description"`
	Thumbnail      *string   `db:"thumbnail" json:"thumbnail"`
	VideoURL       *string   `db:"video_url" json:"video_url"`
	Status         string    `db:"status" json:"status"`
	CreatedBy      string    `db:"created_by" json:"created_by"`
	CreatedByName  *string   `db:"created_by_name" json:"created_by_name,omitempty"`
	CreatedByEmail *string   `db:"created_by_email" json:"created_by_email,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`

	Resources []CourseResource `db:"-" json:"resources"`
}

// CourseResource is an uploaded file attached to a course.
type CourseResource struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"type" json:"type"`
	URL       string    `db:"url" json:"url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CourseFilter captures list criteria for course queries.
type CourseFilter struct {
	// Tenant, when non-empty, restricts results to that institute.
	Tenant       string
	Filiere      string
	Niveau       string
	Institute    string
	Semester     string
	AcademicYear *int
	Status       string
	Search       string
	Page         PageQuery
}

// InstructorCourseFilter captures list criteria for a user's own courses.
type InstructorCourseFilter struct {
	UserID string
	// Tenant, when non-empty, restricts results to that institute.
	Tenant string
	Search string
	// CreatedOnly drops assignment matches and keeps only created courses.
	CreatedOnly bool
}

// CreateCourseRequest is the whitelisted creation payload.
type CreateCourseRequest struct {
	Title        string  `json:"title" validate:"required"`
	Category     string  `json:"category" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	Filiere      *string `json:"filiere"`
	Niveau       *string `json:"niveau" validate:"omitempty,oneof=licence1 licence2 licence3"`
	Institute    *string `json:"institute" validate:"omitempty,oneof=DGI ISSJ ISEG"`
	Semester     *string `json:"semester" validate:"omitempty,oneof=mousson harmattan"`
	AcademicYear *int    `json:"academic_year"`
	Thumbnail    *string `json:"thumbnail"`
	VideoURL     *string `json:"video_url"`
	Status       string  `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// UpdateCourseRequest is the whitelisted update payload. Nil fields are left
// untouched; the creator and resource list cannot be changed through it.
type UpdateCourseRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=1"`
	Category     *string `json:"category" validate:"omitempty,min=1"`
	Description  *string `json:"description" validate:"omitempty,min=1"`
	Filiere      *string `json:"filiere"`
	Niveau       *string `json:"niveau" validate:"omitempty,oneof=licence1 licence2 licence3"`
	Semester     *string `json:"semester" validate:"omitempty,oneof=mousson harmattan"`
	AcademicYear *int    `json:"academic_year"`
	Thumbnail    *string `json:"thumbnail"`
	VideoURL     *string `json:"video_url"`
	Status       *string `json:"status" validate:"omitempty,oneof=draft published archived"`
}
