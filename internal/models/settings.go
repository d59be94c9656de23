package models

import "time"

// Settings is the platform-wide singleton, created lazily on first read.
type Settings struct {
	ID                  string    `db:"id" json:"-"`
	CurrentSemester     string    `db:"current_semester" json:"current_semester"`
	CurrentAcademicYear int       `db:"current_academic_year" json:"current_academic_year"`
	MaxUploadSizeMB     int       `db:"max_upload_size_mb" json:"max_upload_size_mb"`
	CreatedAt           time.Time `db:"created_at" json:"-"`
	UpdatedAt           time.Time `db:"updated_at" json:"-"`
}

// PublicSettings is the unauthenticated read view: upload policy stays
// admin-only.
type PublicSettings struct {
	CurrentSemester     string `json:"current_semester"`
	CurrentAcademicYear int    `json:"current_academic_year"`
}

// UpdateSettingsRequest is the super-admin settings patch. MaxUploadSizeMB
// is clamped to [1,500] by the service.
type UpdateSettingsRequest struct {
	CurrentSemester     *string `json:"current_semester" validate:"omitempty,oneof=mousson harmattan"`
	CurrentAcademicYear *int    `json:"current_academic_year"`
	MaxUploadSizeMB     *int    `json:"max_upload_size_mb"`
}

// DashboardStats is the admin landing page summary, tenant scoped.
type DashboardStats struct {
	TotalStudents        int                  `json:"totalStudents"`
	NewStudentsThisMonth int                  `json:"newStudentsThisMonth"`
	TotalInstructors     int                  `json:"totalFormateurs"`
	TotalCourses         int                  `json:"totalFormations"`
	RecentCourses        []Course             `json:"recentCourses"`
	Categories           []CategoryCourseStat `json:"categories"`
}

// CategoryCourseStat pairs a category with its course count.
type CategoryCourseStat struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	CourseCount int    `db:"course_count" json:"courseCount"`
}
