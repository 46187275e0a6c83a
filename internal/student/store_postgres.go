package student

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contenedorjem/cursos/internal/platform/apperr"
)

// PostgresRepository implements [Repository] using pgx.
//
// # Error Mapping
//
// Constraint violations surface as domain errors: a duplicate email maps to
// [apperr.Conflict], and a dangling course_id (foreign key violation) maps to
// [apperr.NotFound] for the course, so callers never see raw pg error codes.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListStudents(ctx context.Context, filter Filter, limit, offset int) ([]*Student, int, error) {
	query := `
		SELECT id, first_name, last_name, email, birth_date, phone, course_id, created_at, updated_at
		FROM student
		WHERE TRUE`
	countQuery := `SELECT count(*) FROM student WHERE TRUE`

	args := []any{}

	if filter.CourseID != 0 {
		args = append(args, filter.CourseID)
		clause := fmt.Sprintf(" AND course_id = $%d", len(args))
		query += clause
		countQuery += clause
	}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		clause := fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)",
			len(args), len(args), len(args))
		query += clause
		countQuery += clause
	}

	var total int
	if err := repository.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_student_repo_count_failed: %w", err)
	}

	query += fmt.Sprintf(" ORDER BY last_name ASC, first_name ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_student_repo_list_failed: %w", err)
	}
	defer rows.Close()

	students := make([]*Student, 0)
	for rows.Next() {
		record := &Student{}
		if err := rows.Scan(
			&record.ID,
			&record.FirstName,
			&record.LastName,
			&record.Email,
			&record.BirthDate,
			&record.Phone,
			&record.CourseID,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_student_repo_scan_failed: %w", err)
		}
		students = append(students, record)
	}

	return students, total, nil
}

func (repository *PostgresRepository) GetStudent(ctx context.Context, id int64) (*Student, error) {
	const query = `
		SELECT id, first_name, last_name, email, birth_date, phone, course_id, created_at, updated_at
		FROM student
		WHERE id = $1`

	record := &Student{}
	err := repository.db.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.FirstName,
		&record.LastName,
		&record.Email,
		&record.BirthDate,
		&record.Phone,
		&record.CourseID,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Student")
		}
		return nil, fmt.Errorf("postgres_student_repo_get_failed: %w", err)
	}

	return record, nil
}

func (repository *PostgresRepository) CreateStudent(ctx context.Context, student *Student) error {
	const query = `
		INSERT INTO student (first_name, last_name, email, birth_date, phone, course_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := repository.db.QueryRow(ctx, query,
		student.FirstName,
		student.LastName,
		student.Email,
		student.BirthDate,
		student.Phone,
		student.CourseID,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)

	if err != nil {
		return mapConstraintError(err, "postgres_student_repo_create_failed")
	}

	return nil
}

func (repository *PostgresRepository) UpdateStudent(ctx context.Context, student *Student) error {
	const query = `
		UPDATE student
		SET first_name = $2, last_name = $3, email = $4, birth_date = $5, phone = $6, course_id = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := repository.db.QueryRow(ctx, query,
		student.ID,
		student.FirstName,
		student.LastName,
		student.Email,
		student.BirthDate,
		student.Phone,
		student.CourseID,
	).Scan(&student.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Student")
		}
		return mapConstraintError(err, "postgres_student_repo_update_failed")
	}

	return nil
}

func (repository *PostgresRepository) DeleteStudent(ctx context.Context, id int64) error {
	const query = `DELETE FROM student WHERE id = $1`

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_student_repo_delete_failed: %w", err)
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Student")
	}
	return nil
}

// mapConstraintError translates pg constraint violations into domain errors.
func mapConstraintError(err error, operation string) error {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict("Email is already registered")
		case pgerrcode.ForeignKeyViolation:
			return apperr.NotFound("Course")
		}
	}
	return fmt.Errorf("%s: %w", operation, err)
}
