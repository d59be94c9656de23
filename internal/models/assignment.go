package models

import "time"

// InstructorAssignment links an instructor to a course for a given
// (institute, semester, academic year) tuple. It grants edit rights on the
// course but not ownership.
type InstructorAssignment struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	UserName     *string   `db:"user_name" json:"user_name,omitempty"`
	UserEmail    *string   `db:"user_email" json:"user_email,omitempty"`
	Institute    string    `db:"institute" json:"institute"`
	Semester     string    `db:"semester" json:"semester"`
	AcademicYear int       `db:"academic_year" json:"academic_year"`
	CourseID     string    `db:"course_id" json:"course_id"`
	CourseTitle  *string   `db:"course_title" json:"course_title,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// AssignmentFilter captures assignment list criteria.
type AssignmentFilter struct {
	Tenant       string
	Institute    string
	Semester     string
	AcademicYear *int
	UserID       string
	Page         PageQuery
}

// CreateAssignmentRequest is the whitelisted creation payload.
type CreateAssignmentRequest struct {
	UserID       string `json:"user_id" validate:"required"`
	Institute    string `json:"institute" validate:"required,oneof=DGI ISSJ ISEG"`
	Semester     string `json:"semester" validate:"required,oneof=mousson harmattan"`
	AcademicYear int    `json:"academic_year" validate:"required"`
	CourseID     string `json:"course_id" validate:"required"`
}

// UpdateAssignmentRequest is the whitelisted update payload.
type UpdateAssignmentRequest struct {
	UserID       *string `json:"user_id"`
	Institute    *string `json:"institute" validate:"omitempty,oneof=DGI ISSJ ISEG"`
	Semester     *string `json:"semester" validate:"omitempty,oneof=mousson harmattan"`
	AcademicYear *int    `json:"academic_year"`
	CourseID     *string `json:"course_id"`
}
