package student

import (
	"time"

	"github.com/contenedorjem/cursos/pkg/civildate"
)

// Student represents a person enrolled in exactly one course.
type Student struct {
	ID        int64          `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	BirthDate civildate.Date `json:"birth_date"`
	Phone     *string        `json:"phone"`
	CourseID  int64          `json:"course_id"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
}

// Filter narrows student listings.
type Filter struct {
	// Query matches against first name, last name, and email.
	Query string

	// CourseID restricts results to a single course's roster when non-zero.
	CourseID int64
}

// JSON field names reused by validation messages.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldBirthDate = "birth_date"
	FieldPhone     = "phone"
	FieldCourseID  = "course_id"
)
