package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/access"
)

var ErrNotFound = errors.New("course not found")

type (
	Repository interface {
		CreateCourse(ctx context.Context, c Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		// FilterCourses applies AND operation on available QueryFilter
		// fields. QueryFilter.Search does a case-insensitive match on
		// Course.Code or Course.Title.
		FilterCourses(ctx context.Context, filter QueryFilter) ([]Course, error)
	}

	Service struct {
		repo     Repository
		resolver *access.Resolver
	}
)

func NewService(repo Repository, resolver *access.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// Query returns the courses within p's scope. Admins see everything;
// instructors are pinned to courses they teach; students and parents
// browse the active catalog (instructor_id stays available to them as a
// narrowing filter: the catalog is org-public within courses.view).
func (svc *Service) Query(ctx context.Context, p access.Principal, filter QueryFilter) ([]Course, error) {
	if !svc.resolver.Has(p, access.CapCoursesView) {
		return nil, core.NewPermissionError("permission denied")
	}
	filter.Clean()

	switch p.Role {
	case access.RoleAdmin:
		// global scope, filters narrow only
	case access.RoleInstructor:
		if filter.InstructorID != "" && filter.InstructorID != p.ID {
			return nil, core.NewPermissionError("cannot query another instructor's courses")
		}
		filter.InstructorID = p.ID
	default:
		// catalog view: clamp to active courses
		active := true
		filter.IsActive = &active
	}
	return svc.repo.FilterCourses(ctx, filter)
}

func (svc *Service) Get(ctx context.Context, p access.Principal, id string) (Course, error) {
	if !svc.resolver.Has(p, access.CapCoursesView) {
		return Course{}, core.NewPermissionError("permission denied")
	}
	c, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if p.Role == access.RoleInstructor && c.InstructorID != p.ID {
		return Course{}, core.NewPermissionError("record is outside your scope")
	}
	return c, nil
}

// Create requires courses.manage; the capability check runs before any
// write. Instructors can only create courses they themselves teach.
func (svc *Service) Create(ctx context.Context, p access.Principal, nc NewCourse) (Course, error) {
	if !svc.resolver.Has(p, access.CapCoursesManage) {
		return Course{}, core.NewPermissionError("permission denied")
	}

	switch p.Role {
	case access.RoleAdmin:
		if nc.InstructorID == "" {
			return Course{}, core.NewValidationError(nil,
				core.FieldError{Field: "instructor_id", Error: "this field is required"})
		}
	case access.RoleInstructor:
		if nc.InstructorID != "" && nc.InstructorID != p.ID {
			return Course{}, core.NewPermissionError("cannot create a course for another instructor")
		}
		nc.InstructorID = p.ID
	default:
		return Course{}, core.NewPermissionError("permission denied")
	}

	now := time.Now().UTC()
	active := true
	return svc.repo.CreateCourse(ctx, Course{
		OrgID:        p.OrgID,
		InstructorID: nc.InstructorID,
		Code:         nc.Code,
		Title:        nc.Title,
		Subject:      nc.Subject,
		IsActive:     &active,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
