package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/course"
)

type courseRow struct {
	ID           string      `db:"id"`
	OrgID        null.String `db:"org_id"`
	InstructorID null.String `db:"instructor_id"`
	Code         string      `db:"code"`
	Title        string      `db:"title"`
	Subject      string      `db:"subject"`
	IsActive     null.Bool   `db:"is_active"`
	CreatedAt    null.Time   `db:"created_at"`
	UpdatedAt    null.Time   `db:"updated_at"`
}

func (r courseRow) unpack() course.Course {
	return course.Course{
		ID:           r.ID,
		OrgID:        r.OrgID.String,
		InstructorID: r.InstructorID.String,
		Code:         r.Code,
		Title:        r.Title,
		Subject:      r.Subject,
		IsActive:     r.IsActive.Ptr(),
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
	}
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO course (id, org_id, instructor_id, code, title, subject, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID,
		null.NewString(c.OrgID, c.OrgID != ""),
		null.NewString(c.InstructorID, c.InstructorID != ""),
		c.Code,
		c.Title,
		c.Subject,
		null.BoolFromPtr(c.IsActive),
		c.CreatedAt.UTC(),
		c.UpdatedAt.UTC(),
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return c, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	var row courseRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM course WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "getting course")
	}
	return row.unpack(), nil
}

func (repo courseRepository) FilterCourses(ctx context.Context, filter course.QueryFilter) ([]course.Course, error) {
	var conds []string
	var args []interface{}
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Subject != "" {
		conds = append(conds, "subject = "+arg(filter.Subject))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(code ILIKE %[1]s OR title ILIKE %[1]s)", p))
	}
	if filter.InstructorID != "" {
		conds = append(conds, "instructor_id = "+arg(filter.InstructorID))
	}
	if filter.IsActive != nil {
		conds = append(conds, "is_active = "+arg(*filter.IsActive))
	}

	query := `SELECT * FROM course`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY code"

	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.unpack())
	}
	return courses, nil
}
