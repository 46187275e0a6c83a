package course

import (
	"context"
	"log/slog"

	"github.com/contenedorjem/cursos/internal/platform/validate"
	"github.com/contenedorjem/cursos/pkg/slug"
)

// Service holds the course use cases. Slugs are derived from the course name
// on every create and update, so a rename also renames the slug.
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

func (service *Service) ListCourses(ctx context.Context, filter Filter, limit, offset int) ([]*Course, int, error) {
	return service.repo.ListCourses(ctx, filter, limit, offset)
}

func (service *Service) GetCourse(ctx context.Context, id int64) (*Course, error) {
	return service.repo.GetCourse(ctx, id)
}

func (service *Service) GetCourseBySlug(ctx context.Context, courseSlug string) (*Course, error) {
	return service.repo.GetCourseBySlug(ctx, courseSlug)
}

func (service *Service) CreateCourse(ctx context.Context, record *Course) error {
	if err := service.validateCourse(record); err != nil {
		return err
	}
	record.Slug = slug.From(record.Name)

	if err := service.repo.CreateCourse(ctx, record); err != nil {
		return err
	}

	service.logger.Info("course_created",
		slog.Int64("course_id", record.ID),
		slog.String("slug", record.Slug))
	return nil
}

func (service *Service) UpdateCourse(ctx context.Context, id int64, record *Course) error {
	record.ID = id

	if err := service.validateCourse(record); err != nil {
		return err
	}
	record.Slug = slug.From(record.Name)

	if err := service.repo.UpdateCourse(ctx, record); err != nil {
		return err
	}

	service.logger.Info("course_updated", slog.Int64("course_id", record.ID))
	return nil
}

func (service *Service) DeleteCourse(ctx context.Context, id int64) error {
	if err := service.repo.DeleteCourse(ctx, id); err != nil {
		return err
	}

	service.logger.Warn("course_deleted", slog.Int64("course_id", id))
	return nil
}

// validateCourse enforces the field rules shared by create and update.
func (service *Service) validateCourse(record *Course) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, record.Name).MaxLen(FieldName, record.Name, 200)
	if record.Description != nil {
		validator.MaxLen(FieldDescription, *record.Description, 2000)
	}
	validator.Custom(FieldStartDate, record.StartDate.IsZero(), "This field is required")
	validator.Custom(FieldEndDate, record.EndDate.IsZero(), "This field is required")
	if !record.StartDate.IsZero() && !record.EndDate.IsZero() {
		validator.Custom(FieldEndDate, record.EndDate.Before(record.StartDate.Time), "Must not precede start_date")
	}

	return validator.Err()
}
