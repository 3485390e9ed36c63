package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/access"
)

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		CreateStudent(ctx context.Context, st Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter
		// fields. QueryFilter.Search does a case-insensitive match on
		// Student.Name or Student.Email.
		FilterStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
	}

	// Service owns the role-derived query scope: handlers hand it the
	// resolved principal and the caller's declared filters, and it
	// re-derives the authoritative scope before any query runs.
	Service struct {
		repo     Repository
		resolver *access.Resolver
	}
)

func NewService(repo Repository, resolver *access.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// Query returns the students within p's scope. Caller-supplied filters
// may only narrow that scope, never widen it.
func (svc *Service) Query(ctx context.Context, p access.Principal, filter QueryFilter) ([]Student, error) {
	filter.Clean()
	scoped, err := svc.scope(p, filter)
	if err != nil {
		return nil, err
	}
	return svc.repo.FilterStudents(ctx, scoped)
}

// Get fetches one student record, subject to p's scope. The capability
// check runs before any lookup. A pinned principal asking for a record
// outside their scope gets the same not-found answer as for a record
// that does not exist; the caller never learns which it was.
func (svc *Service) Get(ctx context.Context, p access.Principal, id string) (Student, error) {
	caps := svc.resolver.Resolve(p)

	selfOnly := p.Role == access.RoleStudent && caps.Has(access.CapProfileView)
	if !caps.Has(access.CapStudentsView) && !selfOnly {
		return Student{}, core.NewPermissionError("permission denied")
	}

	st, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}

	if caps.Has(access.CapStudentsView) {
		if p.Role == access.RoleInstructor && st.InstructorID != p.ID {
			return Student{}, ErrNotFound
		}
		return st, nil
	}
	if st.UserID != p.ID {
		return Student{}, ErrNotFound
	}
	return st, nil
}

func (svc *Service) Create(ctx context.Context, p access.Principal, ns NewStudent) (Student, error) {
	if !svc.resolver.Has(p, access.CapStudentsManage) {
		return Student{}, core.NewPermissionError("permission denied")
	}

	now := time.Now().UTC()
	active := true
	return svc.repo.CreateStudent(ctx, Student{
		OrgID:        p.OrgID,
		UserID:       ns.UserID,
		InstructorID: ns.InstructorID,
		Name:         ns.Name,
		Email:        ns.Email,
		Grade:        ns.Grade,
		IsActive:     &active,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// scope re-derives the authoritative query scope from the principal's
// role. The decision table:
//   - admin: global; declared filters narrow only.
//   - instructor: pinned to records they own; a filter naming another
//     instructor is rejected outright, not silently re-scoped.
//   - student: pinned to their own record; a filter naming any
//     instructor is a request for another identity's data.
func (svc *Service) scope(p access.Principal, filter QueryFilter) (QueryFilter, error) {
	caps := svc.resolver.Resolve(p)

	switch {
	case p.Role == access.RoleAdmin && caps.Has(access.CapStudentsView):
		return filter, nil

	case p.Role == access.RoleInstructor && caps.Has(access.CapStudentsView):
		if filter.InstructorID != "" && filter.InstructorID != p.ID {
			return QueryFilter{}, core.NewPermissionError("cannot query another instructor's students")
		}
		filter.InstructorID = p.ID
		return filter, nil

	case p.Role == access.RoleStudent && caps.Has(access.CapProfileView):
		if filter.InstructorID != "" {
			return QueryFilter{}, core.NewPermissionError("cannot query other students' records")
		}
		filter.UserID = p.ID
		return filter, nil

	default:
		return QueryFilter{}, core.NewPermissionError("permission denied")
	}
}
