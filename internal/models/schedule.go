package models

import "time"

// Days of the week accepted by timetables.
var TimetableDays = []string{"lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

// ValidDay reports whether the value is an accepted timetable day.
func ValidDay(raw string) bool {
	for _, d := range TimetableDays {
		if d == raw {
			return true
		}
	}
	return false
}

// Timetable is a recurring weekly class slot.
type Timetable struct {
	ID           string    `db:"id" json:"id"`
	Institute    *string   `db:"institute" json:"institute"`
	Filiere      *string   `db:"filiere" json:"filiere"`
	Niveau       *string   `db:"niveau" json:"niveau"`
	CourseID     string    `db:"course_id" json:"course_id"`
	CourseTitle  *string   `db:"course_title" json:"course_title,omitempty"`
	DayOfWeek    string    `db:"day_of_week" json:"day_of_week"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	Room         *string   `db:"room" json:"room"`
	Instructor   *string   `db:"instructor" json:"instructor"`
	Semester     *string   `db:"semester" json:"semester"`
	AcademicYear *int      `db:"academic_year" json:"academic_year"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TimetableFilter captures timetable list criteria.
type TimetableFilter struct {
	Institute    string
	Filiere      string
	Niveau       string
	DayOfWeek    string
	Semester     string
	AcademicYear *int
	Page         PageQuery
}

// CreateTimetableRequest is the whitelisted creation payload.
type CreateTimetableRequest struct {
	CourseID     string  `json:"course_id" validate:"required"`
	Institute    *string `json:"institute" validate:"omitempty,oneof=DGI ISSJ ISEG"`
	Filiere      *string `json:"filiere"`
	Niveau       *string `json:"niveau" validate:"omitempty,oneof=licence1 licence2 licence3"`
	DayOfWeek    string  `json:"day_of_week" validate:"omitempty,oneof=lundi mardi mercredi jeudi vendredi samedi"`
	StartTime    string  `json:"start_time" validate:"required"`
	EndTime      string  `json:"end_time" validate:"required"`
	Room         *string `json:"room"`
	Instructor   *string `json:"instructor"`
	Semester     *string `json:"semester" validate:"omitempty,oneof=mousson harmattan"`
	AcademicYear *int    `json:"academic_year"`
}

// UpdateTimetableRequest is the whitelisted update payload.
type UpdateTimetableRequest struct {
	CourseID     *string `json:"course_id"`
	Filiere      *string `json:"filiere"`
	Niveau       *string `json:"niveau" validate:"omitempty,oneof=licence1 licence2 licence3"`
	DayOfWeek    *string `json:"day_of_week" validate:"omitempty,oneof=lundi mardi mercredi jeudi vendredi samedi"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	Room         *string `json:"room"`
	Instructor   *string `json:"instructor"`
	Semester     *string `json:"semester" validate:"omitempty,oneof=mousson harmattan"`
	AcademicYear *int    `json:"academic_year"`
}

// Evaluation types.
const (
	EvaluationExamen   = "examen"
	EvaluationControle = "controle"
	EvaluationTP       = "tp"
	EvaluationProjet   = "projet"
)

// EvaluationCalendar is a scheduled assessment entry.
type EvaluationCalendar struct {
	ID             string    `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	Description    *string   `db:"description" json:"description"`
	Institute      *string   `db:"institute" json:"institute"`
	Filiere        *string   `db:"filiere" json:"filiere"`
	Niveau         *string   `db:"niveau" json:"niveau"`
	EvaluationDate time.Time `db:"evaluation_date" json:"evaluation_date"`
	StartTime      *string   `db:"start_time" json:"start_time"`
	EndTime        *string   `db:"end_time" json:"end_time"`
	Location       *string   `db:"location" json:"location"`
	Type           string    `db:"type" json:"type"`
	CourseID       *string   `db:"course_id" json:"course_id"`
	CourseTitle    *string   `db:"course_title" json:"course_title,omitempty"`
	Semester       *string   `db:"semester" json:"semester"`
	AcademicYear   *int      `db:"academic_year" json:"academic_year"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// EvaluationCalendarFilter captures evaluation calendar list criteria.
type EvaluationCalendarFilter struct {
	Institute    string
	Filiere      string
	Niveau       string
	CourseID     string
	Semester     string
	AcademicYear *int
	Page         PageQuery
}

// CreateEvaluationCalendarRequest is the whitelisted creation payload.
type CreateEvaluationCalendarRequest struct {
	Title          string    `json:"title" validate:"required"`
	Description    *string   `json:"description"`
	Institute      *string   `json:"institute" validate:"omitempty,oneof=DGI ISSJ ISEG"`
	Filiere        *string   `json:"filiere"`
	Niveau         *string   `json:"niveau" validate:"omitempty,oneof=licence1 licence2 licence3"`
	EvaluationDate time.Time `json:"evaluation_date" validate:"required"`
	StartTime      *string   `json:"start_time"`
	EndTime        *string   `json:"end_time"`
	Location       *string   `json:"location"`
	Type           string    `json:"type" validate:"omitempty,oneof=examen controle tp projet"`
	CourseID       *string   `json:"course_id"`
	Semester       *string   `json:"semester" validate:"omitempty,oneof=mousson harmattan"`
	AcademicYear   *int      `json:"academic_year"`
}

// UpdateEvaluationCalendarRequest is the whitelisted update payload.
type UpdateEvaluationCalendarRequest struct {
	Title          *string    `json:"title" validate:"omitempty,min=1"`
	Description    *string    `json:"description"`
	Filiere        *string    `json:"filiere"`
	Niveau         *string    `json:"niveau" validate:"omitempty,oneof=licence1 licence2 licence3"`
	EvaluationDate *time.Time `json:"evaluation_date"`
	StartTime      *string    `json:"start_time"`
	EndTime        *string    `json:"end_time"`
	Location       *string    `json:"location"`
	Type           *string    `json:"type" validate:"omitempty,oneof=examen controle tp projet"`
	CourseID       *string    `json:"course_id"`
	Semester       *string    `json:"semester" validate:"omitempty,oneof=mousson harmattan"`
	AcademicYear   *int       `json:"academic_year"`
}
