// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package student_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contenedorjem/cursos/internal/platform/apperr"
	"github.com/contenedorjem/cursos/internal/student"
	"github.com/contenedorjem/cursos/pkg/civildate"
)

type fakeRepository struct {
	students map[int64]*student.Student
	nextID   int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{students: map[int64]*student.Student{}}
}

func (f *fakeRepository) ListStudents(ctx context.Context, filter student.Filter, limit, offset int) ([]*student.Student, int, error) {
	records := make([]*student.Student, 0, len(f.students))
	for _, record := range f.students {
		if filter.CourseID != 0 && record.CourseID != filter.CourseID {
			continue
		}
		records = append(records, record)
	}
	return records, len(records), nil
}

func (f *fakeRepository) GetStudent(ctx context.Context, id int64) (*student.Student, error) {
	record, ok := f.students[id]
	if !ok {
		return nil, apperr.NotFound("Student")
	}
	return record, nil
}

func (f *fakeRepository) CreateStudent(ctx context.Context, record *student.Student) error {
	for _, existing := range f.students {
		if existing.Email == record.Email {
			return apperr.Conflict("Email is already registered")
		}
	}
	f.nextID++
	record.ID = f.nextID
	f.students[record.ID] = record
	return nil
}

func (f *fakeRepository) UpdateStudent(ctx context.Context, record *student.Student) error {
	if _, ok := f.students[record.ID]; !ok {
		return apperr.NotFound("Student")
	}
	f.students[record.ID] = record
	return nil
}

func (f *fakeRepository) DeleteStudent(ctx context.Context, id int64) error {
	if _, ok := f.students[id]; !ok {
		return apperr.NotFound("Student")
	}
	delete(f.students, id)
	return nil
}

func newTestService() (*student.Service, *fakeRepository) {
	repo := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return student.NewService(repo, logger), repo
}

func mustDate(t *testing.T, value string) civildate.Date {
	t.Helper()
	date, err := civildate.Parse(value)
	require.NoError(t, err)
	return date
}

func validStudent(t *testing.T) *student.Student {
	t.Helper()
	return &student.Student{
		FirstName: "Ana",
		LastName:  "Gómez",
		Email:     "ana@example.com",
		BirthDate: mustDate(t, "2001-04-12"),
		CourseID:  1,
	}
}

/*
TestService_CreateStudent_Validation covers the per-field rejection cases.
*/
func TestService_CreateStudent_Validation(t *testing.T) {
	service, repo := newTestService()

	tests := []struct {
		name   string
		mutate func(*student.Student)
	}{
		{"missing_first_name", func(s *student.Student) { s.FirstName = "" }},
		{"missing_last_name", func(s *student.Student) { s.LastName = "" }},
		{"missing_email", func(s *student.Student) { s.Email = "" }},
		{"bad_email", func(s *student.Student) { s.Email = "not-an-address" }},
		{"missing_birth_date", func(s *student.Student) { s.BirthDate = civildate.Date{} }},
		{"future_birth_date", func(s *student.Student) { s.BirthDate = mustDate(t, "2999-01-01") }},
		{"missing_course", func(s *student.Student) { s.CourseID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validStudent(t)
			tt.mutate(record)

			err := service.CreateStudent(context.Background(), record)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}

	assert.Empty(t, repo.students)
}

/*
TestService_CreateStudent_DuplicateEmail surfaces the uniqueness conflict
from the store unchanged.
*/
func TestService_CreateStudent_DuplicateEmail(t *testing.T) {
	service, _ := newTestService()

	first := validStudent(t)
	require.NoError(t, service.CreateStudent(context.Background(), first))

	duplicate := validStudent(t)
	duplicate.FirstName = "Otra"
	err := service.CreateStudent(context.Background(), duplicate)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

/*
TestService_Lifecycle exercises create, update, filtered list, and delete.
*/
func TestService_Lifecycle(t *testing.T) {
	service, _ := newTestService()

	record := validStudent(t)
	require.NoError(t, service.CreateStudent(context.Background(), record))
	require.Equal(t, int64(1), record.ID)

	// Update moves the student to another course.
	update := validStudent(t)
	update.CourseID = 2
	require.NoError(t, service.UpdateStudent(context.Background(), record.ID, update))

	fetched, err := service.GetStudent(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fetched.CourseID)

	// Roster filter only sees the new course.
	records, total, err := service.ListStudents(context.Background(), student.Filter{CourseID: 2}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, records, 1)

	_, total, err = service.ListStudents(context.Background(), student.Filter{CourseID: 1}, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, service.DeleteStudent(context.Background(), record.ID))
	_, err = service.GetStudent(context.Background(), record.ID)
	require.Error(t, err)
}
