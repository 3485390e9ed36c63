package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) query() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses
}

func (repo *courseRepository) CreateCourse(_ context.Context, c course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) GetCourseByID(_ context.Context, id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) FilterCourses(_ context.Context, filter course.QueryFilter) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	match := func(c course.Course) bool {
		if filter.Subject != "" && c.Subject != filter.Subject {
			return false
		}
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(c.Code), search) &&
				!strings.Contains(strings.ToLower(c.Title), search) {
				return false
			}
		}
		if filter.InstructorID != "" && c.InstructorID != filter.InstructorID {
			return false
		}
		if filter.IsActive != nil && (c.IsActive == nil || *c.IsActive != *filter.IsActive) {
			return false
		}
		return true
	}

	courses := make([]course.Course, 0)
	for _, c := range repo.query() {
		if match(c) {
			courses = append(courses, c)
		}
	}
	return courses, nil
}
