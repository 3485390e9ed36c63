package student

import (
	"context"
	"testing"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/access"
)

type fakeRepo struct {
	students []Student

	lastFilter QueryFilter
	getCalls   int
}

func (r *fakeRepo) CreateStudent(_ context.Context, st Student) (Student, error) {
	r.students = append(r.students, st)
	return st, nil
}

func (r *fakeRepo) GetStudentByID(_ context.Context, id string) (Student, error) {
	r.getCalls++
	for _, st := range r.students {
		if st.ID == id {
			return st, nil
		}
	}
	return Student{}, ErrNotFound
}

func (r *fakeRepo) FilterStudents(_ context.Context, filter QueryFilter) ([]Student, error) {
	r.lastFilter = filter
	return nil, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func principal(id string, role access.Role) access.Principal {
	return access.Principal{ID: id, OrgID: "org1", Role: role, Entitlement: access.TierEnterprise}
}

func TestService_Query_scope(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, access.NewResolver(nopLogger{}))
	ctx := context.Background()

	tests := []struct {
		name        string
		p           access.Principal
		filter      QueryFilter
		wantErr     bool
		wantInstrID string
		wantUserID  string
	}{
		{name: "admin passes filters through", p: principal("a1", access.RoleAdmin), filter: QueryFilter{Grade: "10"}},
		{
			name: "admin may name any instructor", p: principal("a1", access.RoleAdmin),
			filter: QueryFilter{InstructorID: "i2"}, wantInstrID: "i2",
		},
		{
			name: "instructor pinned to self", p: principal("i1", access.RoleInstructor),
			wantInstrID: "i1",
		},
		{
			name: "instructor naming self is a no-op", p: principal("i1", access.RoleInstructor),
			filter: QueryFilter{InstructorID: "i1"}, wantInstrID: "i1",
		},
		{
			name: "instructor naming another fails", p: principal("i1", access.RoleInstructor),
			filter: QueryFilter{InstructorID: "i2"}, wantErr: true,
		},
		{
			name: "student pinned to own account", p: principal("s1", access.RoleStudent),
			wantUserID: "s1",
		},
		{
			name: "student naming an instructor fails", p: principal("s1", access.RoleStudent),
			filter: QueryFilter{InstructorID: "i1"}, wantErr: true,
		},
		{name: "parent denied", p: principal("p1", access.RoleParent), wantErr: true},
		{name: "unknown role denied", p: principal("x1", "superuser"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo.lastFilter = QueryFilter{}

			_, err := svc.Query(ctx, tt.p, tt.filter)
			if tt.wantErr {
				if !core.IsPermission(err) {
					t.Fatalf("Query() error = %v, want a permission error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Query() unexpected error = %v", err)
			}
			if repo.lastFilter.InstructorID != tt.wantInstrID {
				t.Errorf("InstructorID = %q; want %q", repo.lastFilter.InstructorID, tt.wantInstrID)
			}
			if repo.lastFilter.UserID != tt.wantUserID {
				t.Errorf("UserID = %q; want %q", repo.lastFilter.UserID, tt.wantUserID)
			}
			if tt.filter.Grade != "" && repo.lastFilter.Grade != tt.filter.Grade {
				t.Errorf("Grade = %q; want %q", repo.lastFilter.Grade, tt.filter.Grade)
			}
		})
	}
}

func TestService_Get_scope(t *testing.T) {
	repo := &fakeRepo{students: []Student{
		{ID: "st1", InstructorID: "i1", UserID: "s1"},
		{ID: "st2", InstructorID: "i2"},
	}}
	svc := NewService(repo, access.NewResolver(nopLogger{}))
	ctx := context.Background()

	tests := []struct {
		name         string
		p            access.Principal
		id           string
		wantErr      error
		wantNoLookup bool
	}{
		{name: "admin reads any", p: principal("a1", access.RoleAdmin), id: "st2"},
		{name: "instructor reads own", p: principal("i1", access.RoleInstructor), id: "st1"},
		{name: "instructor gets not-found for foreign", p: principal("i1", access.RoleInstructor), id: "st2", wantErr: ErrNotFound},
		{name: "student reads self", p: principal("s1", access.RoleStudent), id: "st1"},
		{name: "student gets not-found for other", p: principal("s1", access.RoleStudent), id: "st2", wantErr: ErrNotFound},
		{
			name: "parent denied without touching the repo", p: principal("p1", access.RoleParent), id: "st1",
			wantErr: core.NewPermissionError("permission denied"), wantNoLookup: true,
		},
		{
			name: "unknown role denied without touching the repo", p: principal("x1", "superuser"), id: "st1",
			wantErr: core.NewPermissionError("permission denied"), wantNoLookup: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo.getCalls = 0

			_, err := svc.Get(ctx, tt.p, tt.id)
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("Get() unexpected error = %v", err)
				}
			case *core.PermissionError:
				if !core.IsPermission(err) {
					t.Fatalf("Get() error = %v, want a permission error", err)
				}
			default:
				if err != want {
					t.Fatalf("Get() error = %v, want %v", err, want)
				}
			}
			if tt.wantNoLookup && repo.getCalls != 0 {
				t.Errorf("repo lookups = %d; want 0, the scope check must run first", repo.getCalls)
			}
		})
	}
}

func TestService_Create_requiresManage(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, access.NewResolver(nopLogger{}))
	ctx := context.Background()

	ns := NewStudent{Name: "Alice", Grade: "10", InstructorID: "i1"}

	if _, err := svc.Create(ctx, principal("a1", access.RoleAdmin), ns); err != nil {
		t.Errorf("Create() as admin failed: %v", err)
	}
	for _, role := range []access.Role{access.RoleInstructor, access.RoleStudent, access.RoleParent} {
		if _, err := svc.Create(ctx, principal("x1", role), ns); !core.IsPermission(err) {
			t.Errorf("Create() as %s error = %v, want a permission error", role, err)
		}
	}
}
