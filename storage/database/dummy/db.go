package dummydb

import (
	"sync"

	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/org"
	"github.com/darasahq/darasa/core/student"
	"github.com/darasahq/darasa/core/user"
)

type (
	DB struct {
		user    *userTable
		org     *orgTable
		student *studentTable
		course  *courseTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	orgTable struct {
		sync.RWMutex
		table map[string]*org.Organization
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*course.Course
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:    &userTable{table: make(map[string]*user.User)},
		org:     &orgTable{table: make(map[string]*org.Organization)},
		student: &studentTable{table: make(map[string]*student.Student)},
		course:  &courseTable{table: make(map[string]*course.Course)},
	}
	return db, nil
}
