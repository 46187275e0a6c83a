package course

import "context"

// Repository defines the persistence contract for courses.
//
// GetCourse and GetCourseBySlug return the course with its student roster
// attached; ListCourses returns bare courses.
type Repository interface {
	ListCourses(ctx context.Context, filter Filter, limit, offset int) ([]*Course, int, error)
	GetCourse(ctx context.Context, id int64) (*Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (*Course, error)
	CreateCourse(ctx context.Context, course *Course) error
	UpdateCourse(ctx context.Context, course *Course) error
	DeleteCourse(ctx context.Context, id int64) error
}
