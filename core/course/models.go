package course

import (
	"time"

	"github.com/darasahq/darasa/core"
)

type Course struct {
	ID           string    `json:"id"`
	OrgID        string    `json:"org_id"`
	InstructorID string    `json:"instructor_id"`
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	Subject      string    `json:"subject"`
	IsActive     *bool     `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// QueryFilter enumerates the recognized course filters.
type QueryFilter struct {
	Subject      string `query:"subject"`
	Search       string `query:"search"`
	InstructorID string `query:"instructor_id"`
	IsActive     *bool  `query:"active"`
}

func (qf *QueryFilter) Clean() {
	qf.Subject = core.CleanString(qf.Subject)
	qf.Search = core.CleanString(qf.Search)
	qf.InstructorID = core.CleanString(qf.InstructorID)
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Code         string `json:"code" validate:"required"`
	Title        string `json:"title" validate:"required"`
	Subject      string `json:"subject" validate:"required"`
	InstructorID string `json:"instructor_id"`
}

func (nc *NewCourse) Validate() error {
	nc.Code = core.CleanString(nc.Code)
	nc.Title = core.CleanString(nc.Title)
	nc.Subject = core.CleanString(nc.Subject)
	nc.InstructorID = core.CleanString(nc.InstructorID)
	return core.Validate.Struct(nc)
}
