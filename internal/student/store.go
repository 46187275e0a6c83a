package student

import "context"

// Repository defines the persistence contract for students.
type Repository interface {
	ListStudents(ctx context.Context, filter Filter, limit, offset int) ([]*Student, int, error)
	GetStudent(ctx context.Context, id int64) (*Student, error)
	CreateStudent(ctx context.Context, student *Student) error
	UpdateStudent(ctx context.Context, student *Student) error
	DeleteStudent(ctx context.Context, id int64) error
}
