package models

import "time"

// Role is the stored user role. The super-admin is not a fourth value: it is
// an admin with no bound institute.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "formateur"
	RoleStudent    Role = "etudiant"
)

// ValidRole reports whether the raw value is one of the stored roles.
func ValidRole(raw string) bool {
	switch Role(raw) {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}

// Institutes are the fixed tenant set.
const (
	InstituteDGI  = "DGI"
	InstituteISSJ = "ISSJ"
	InstituteISEG = "ISEG"
)

// ValidInstitute reports whether the value names a known institute.
func ValidInstitute(raw string) bool {
	switch raw {
	case InstituteDGI, InstituteISSJ, InstituteISEG:
		return true
	}
	return false
}

// Niveaux (academic year levels).
const (
	NiveauLicence1 = "licence1"
	NiveauLicence2 = "licence2"
	NiveauLicence3 = "licence3"
)

// ValidNiveau reports whether the value is a known level.
func ValidNiveau(raw string) bool {
	switch raw {
	case NiveauLicence1, NiveauLicence2, NiveauLicence3:
		return true
	}
	return false
}

// Semesters.
const (
	SemesterMousson   = "mousson"
	SemesterHarmattan = "harmattan"
)

// ValidSemester reports whether the value is a known semester.
func ValidSemester(raw string) bool {
	return raw == SemesterMousson || raw == SemesterHarmattan
}

// User represents an account stored in the users table.
type User struct {
	ID                   string     `db:"id" json:"id"`
	Name                 string     `db:"name" json:"name"`
	Email                string     `db:"email" json:"email"`
	PasswordHash         string     `db:"password_hash" json:"-"`
	Role                 Role       `db:"role" json:"role"`
	Institute            *string    `db:"institute" json:"institute"`
	Filiere              *string    `db:"filiere" json:"filiere"`
	Niveau               *string    `db:"niveau" json:"niveau"`
	StudentNumber        *string    `db:"student_number" json:"student_number"`
	Phone                *string    `db:"phone" json:"phone"`
	Address              *string    `db:"address" json:"address"`
	IdentityVerified     bool       `db:"identity_verified" json:"identity_verified"`
	PasswordResetToken   *string    `db:"password_reset_token" json:"-"`
	PasswordResetExpires *time.Time `db:"password_reset_expires" json:"-"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role (institute-bound or
// super-admin).
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsInstructor reports whether the user is a formateur.
func (u *User) IsInstructor() bool {
	return u != nil && u.Role == RoleInstructor
}

// IsSuperAdmin is true for the admin with no bound institute. Only this
// principal may manage other admins and global settings.
func (u *User) IsSuperAdmin() bool {
	return u.IsAdmin() && u.Tenant() == ""
}

// Tenant returns the user's institute, or "" when the user is unbound
// (super-admin) or nil (anonymous). A non-empty tenant must be intersected
// into every institute-scoped query made on the user's behalf.
func (u *User) Tenant() string {
	if u == nil || u.Institute == nil {
		return ""
	}
	return *u.Institute
}

// CreateUserRequest is the admin provisioning payload.
type CreateUserRequest struct {
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=6"`
	Role          string  `json:"role" validate:"required,oneof=admin formateur etudiant"`
	Institute     *string `json:"institute" validate:"omitempty,oneof=DGI ISSJ ISEG"`
	Filiere       *string `json:"filiere"`
	Niveau        *string `json:"niveau" validate:"omitempty,oneof=licence1 licence2 licence3"`
	StudentNumber *string `json:"student_number"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

// AdminUpdateUserRequest is the admin roster patch. Nil fields are left
// untouched.
type AdminUpdateUserRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Password      *string `json:"password" validate:"omitempty,min=6"`
	Role          *string `json:"role" validate:"omitempty,oneof=admin formateur etudiant"`
	Institute     *string `json:"institute" validate:"omitempty,oneof=DGI ISSJ ISEG"`
	Filiere       *string `json:"filiere"`
	Niveau        *string `json:"niveau" validate:"omitempty,oneof=licence1 licence2 licence3"`
	StudentNumber *string `json:"student_number"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

// UserFilter captures list criteria for the admin user roster.
type UserFilter struct {
	Tenant string
	Role   string
	Search string
	Page   PageQuery
}
