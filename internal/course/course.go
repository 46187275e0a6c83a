package course

import (
	"time"

	"github.com/contenedorjem/cursos/internal/student"
	"github.com/contenedorjem/cursos/pkg/civildate"
)

// Course represents a course offering with a unique name and a date range.
type Course struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description *string        `json:"description"`
	StartDate   civildate.Date `json:"start_date"`
	EndDate     civildate.Date `json:"end_date"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`

	// Students holds the enrolled roster, populated only in detail queries.
	Students []*student.Student `json:"students,omitempty"`
}

// Filter narrows course listings.
type Filter struct {
	// Query matches against the course name.
	Query string
}

// JSON field names reused by validation messages.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
)
