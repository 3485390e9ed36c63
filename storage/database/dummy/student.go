package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, st := range repo.db.table {
		students = append(students, *st)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students
}

func (repo *studentRepository) CreateStudent(_ context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	repo.db.table[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if st, ok := repo.db.table[id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(_ context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	match := func(st student.Student) bool {
		if filter.Grade != "" && st.Grade != filter.Grade {
			return false
		}
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(st.Name), search) &&
				!strings.Contains(strings.ToLower(st.Email), search) {
				return false
			}
		}
		if filter.InstructorID != "" && st.InstructorID != filter.InstructorID {
			return false
		}
		if filter.IsActive != nil && (st.IsActive == nil || *st.IsActive != *filter.IsActive) {
			return false
		}
		if filter.UserID != "" && st.UserID != filter.UserID {
			return false
		}
		return true
	}

	students := make([]student.Student, 0)
	for _, st := range repo.query() {
		if match(st) {
			students = append(students, st)
		}
	}
	return students, nil
}
