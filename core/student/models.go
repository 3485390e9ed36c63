package student

import (
	"time"

	"github.com/darasahq/darasa/core"
)

type Student struct {
	ID           string    `json:"id"`
	OrgID        string    `json:"org_id"`
	UserID       string    `json:"user_id"` // account of the student, when one exists
	InstructorID string    `json:"instructor_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Grade        string    `json:"grade"`
	IsActive     *bool     `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// QueryFilter enumerates the recognized student filters. Anything else
// on the wire is rejected at binding, not passed through.
type QueryFilter struct {
	Grade        string `query:"grade"`
	Search       string `query:"search"`
	InstructorID string `query:"instructor_id"`
	IsActive     *bool  `query:"active"`

	// UserID pins the query to one account's record. Server-derived
	// only; never bound from the request.
	UserID string `query:"-" json:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.Grade = core.CleanString(qf.Grade)
	qf.Search = core.CleanString(qf.Search)
	qf.InstructorID = core.CleanString(qf.InstructorID)
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	Grade        string `json:"grade" validate:"required"`
	InstructorID string `json:"instructor_id" validate:"required"`
	UserID       string `json:"user_id"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Grade = core.CleanString(ns.Grade)
	return core.Validate.Struct(ns)
}
