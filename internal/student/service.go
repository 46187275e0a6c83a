package student

import (
	"context"
	"log/slog"

	"github.com/contenedorjem/cursos/internal/platform/validate"
)

// Service holds the student use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListStudents(ctx context.Context, filter Filter, limit, offset int) ([]*Student, int, error) {
	return service.repo.ListStudents(ctx, filter, limit, offset)
}

func (service *Service) GetStudent(ctx context.Context, id int64) (*Student, error) {
	return service.repo.GetStudent(ctx, id)
}

func (service *Service) CreateStudent(ctx context.Context, record *Student) error {
	if err := service.validateStudent(record); err != nil {
		return err
	}

	if err := service.repo.CreateStudent(ctx, record); err != nil {
		return err
	}

	service.logger.Info("student_created",
		slog.Int64("student_id", record.ID),
		slog.Int64("course_id", record.CourseID))
	return nil
}

func (service *Service) UpdateStudent(ctx context.Context, id int64, record *Student) error {
	record.ID = id

	if err := service.validateStudent(record); err != nil {
		return err
	}

	if err := service.repo.UpdateStudent(ctx, record); err != nil {
		return err
	}

	service.logger.Info("student_updated", slog.Int64("student_id", record.ID))
	return nil
}

func (service *Service) DeleteStudent(ctx context.Context, id int64) error {
	if err := service.repo.DeleteStudent(ctx, id); err != nil {
		return err
	}

	service.logger.Warn("student_deleted", slog.Int64("student_id", id))
	return nil
}

// validateStudent enforces the field rules shared by create and update.
func (service *Service) validateStudent(record *Student) error {
	validator := &validate.Validator{}

	validator.Required(FieldFirstName, record.FirstName).MaxLen(FieldFirstName, record.FirstName, 100)
	validator.Required(FieldLastName, record.LastName).MaxLen(FieldLastName, record.LastName, 100)
	validator.Required(FieldEmail, record.Email)
	if record.Email != "" {
		validator.Email(FieldEmail, record.Email)
	}
	validator.Custom(FieldBirthDate, record.BirthDate.IsZero(), "This field is required")
	if !record.BirthDate.IsZero() {
		validator.PastDate(FieldBirthDate, record.BirthDate.String())
	}
	if record.Phone != nil {
		validator.MaxLen(FieldPhone, *record.Phone, 30)
	}
	validator.Custom(FieldCourseID, record.CourseID <= 0, "Must reference an existing course")

	return validator.Err()
}
