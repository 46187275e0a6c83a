package course

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contenedorjem/cursos/internal/platform/apperr"
	"github.com/contenedorjem/cursos/internal/student"
)

// PostgresRepository implements [Repository] using pgx.
//
// Deleting a course removes its students too: the student table declares
// ON DELETE CASCADE on course_id, so a single DELETE is enough.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListCourses(ctx context.Context, filter Filter, limit, offset int) ([]*Course, int, error) {
	query := `
		SELECT id, name, slug, description, start_date, end_date, created_at, updated_at
		FROM course
		WHERE TRUE`
	countQuery := `SELECT count(*) FROM course WHERE TRUE`

	args := []any{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		clause := fmt.Sprintf(" AND name ILIKE $%d", len(args))
		query += clause
		countQuery += clause
	}

	var total int
	if err := repository.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_course_repo_count_failed: %w", err)
	}

	query += fmt.Sprintf(" ORDER BY start_date DESC, name ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_course_repo_list_failed: %w", err)
	}
	defer rows.Close()

	courses := make([]*Course, 0)
	for rows.Next() {
		record := &Course{}
		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.Slug,
			&record.Description,
			&record.StartDate,
			&record.EndDate,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_course_repo_scan_failed: %w", err)
		}
		courses = append(courses, record)
	}

	return courses, total, nil
}

func (repository *PostgresRepository) GetCourse(ctx context.Context, id int64) (*Course, error) {
	const query = `
		SELECT id, name, slug, description, start_date, end_date, created_at, updated_at
		FROM course
		WHERE id = $1`

	return repository.getOne(ctx, query, id)
}

func (repository *PostgresRepository) GetCourseBySlug(ctx context.Context, slug string) (*Course, error) {
	const query = `
		SELECT id, name, slug, description, start_date, end_date, created_at, updated_at
		FROM course
		WHERE slug = $1`

	return repository.getOne(ctx, query, slug)
}

// getOne fetches a single course and attaches its roster.
func (repository *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*Course, error) {
	record := &Course{}
	err := repository.db.QueryRow(ctx, query, arg).Scan(
		&record.ID,
		&record.Name,
		&record.Slug,
		&record.Description,
		&record.StartDate,
		&record.EndDate,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Course")
		}
		return nil, fmt.Errorf("postgres_course_repo_get_failed: %w", err)
	}

	if err := repository.loadStudents(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// loadStudents populates the roster for a course detail view.
func (repository *PostgresRepository) loadStudents(ctx context.Context, record *Course) error {
	const query = `
		SELECT id, first_name, last_name, email, birth_date, phone, course_id, created_at, updated_at
		FROM student
		WHERE course_id = $1
		ORDER BY last_name ASC, first_name ASC`

	rows, err := repository.db.Query(ctx, query, record.ID)
	if err != nil {
		return fmt.Errorf("postgres_course_repo_load_students_failed: %w", err)
	}
	defer rows.Close()

	record.Students = make([]*student.Student, 0)
	for rows.Next() {
		enrolled := &student.Student{}
		if err := rows.Scan(
			&enrolled.ID,
			&enrolled.FirstName,
			&enrolled.LastName,
			&enrolled.Email,
			&enrolled.BirthDate,
			&enrolled.Phone,
			&enrolled.CourseID,
			&enrolled.CreatedAt,
			&enrolled.UpdatedAt,
		); err != nil {
			return fmt.Errorf("postgres_course_repo_scan_student_failed: %w", err)
		}
		record.Students = append(record.Students, enrolled)
	}

	return nil
}

func (repository *PostgresRepository) CreateCourse(ctx context.Context, record *Course) error {
	const query = `
		INSERT INTO course (name, slug, description, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := repository.db.QueryRow(ctx, query,
		record.Name,
		record.Slug,
		record.Description,
		record.StartDate,
		record.EndDate,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return mapConflict(err, "postgres_course_repo_create_failed")
	}

	return nil
}

func (repository *PostgresRepository) UpdateCourse(ctx context.Context, record *Course) error {
	const query = `
		UPDATE course
		SET name = $2, slug = $3, description = $4, start_date = $5, end_date = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := repository.db.QueryRow(ctx, query,
		record.ID,
		record.Name,
		record.Slug,
		record.Description,
		record.StartDate,
		record.EndDate,
	).Scan(&record.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Course")
		}
		return mapConflict(err, "postgres_course_repo_update_failed")
	}

	return nil
}

func (repository *PostgresRepository) DeleteCourse(ctx context.Context, id int64) error {
	const query = `DELETE FROM course WHERE id = $1`

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_course_repo_delete_failed: %w", err)
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Course")
	}
	return nil
}

// mapConflict translates unique violations (name or slug) into a 409.
func mapConflict(err error, operation string) error {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
		return apperr.Conflict("A course with this name already exists")
	}
	return fmt.Errorf("%s: %w", operation, err)
}
