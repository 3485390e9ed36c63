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

	"github.com/darasahq/darasa/core/student"
)

type studentRow struct {
	ID           string      `db:"id"`
	OrgID        null.String `db:"org_id"`
	UserID       null.String `db:"user_id"`
	InstructorID null.String `db:"instructor_id"`
	Name         string      `db:"name"`
	Email        null.String `db:"email"`
	Grade        string      `db:"grade"`
	IsActive     null.Bool   `db:"is_active"`
	CreatedAt    null.Time   `db:"created_at"`
	UpdatedAt    null.Time   `db:"updated_at"`
}

func (r studentRow) unpack() student.Student {
	return student.Student{
		ID:           r.ID,
		OrgID:        r.OrgID.String,
		UserID:       r.UserID.String,
		InstructorID: r.InstructorID.String,
		Name:         r.Name,
		Email:        r.Email.String,
		Grade:        r.Grade,
		IsActive:     r.IsActive.Ptr(),
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO student (id, org_id, user_id, instructor_id, name, email, grade, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		st.ID,
		null.NewString(st.OrgID, st.OrgID != ""),
		null.NewString(st.UserID, st.UserID != ""),
		null.NewString(st.InstructorID, st.InstructorID != ""),
		st.Name,
		null.NewString(st.Email, st.Email != ""),
		st.Grade,
		null.BoolFromPtr(st.IsActive),
		st.CreatedAt.UTC(),
		st.UpdatedAt.UTC(),
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return st, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var row studentRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return row.unpack(), nil
}

func (repo studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	var conds []string
	var args []interface{}
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Grade != "" {
		conds = append(conds, "grade = "+arg(filter.Grade))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %[1]s OR email ILIKE %[1]s)", p))
	}
	if filter.InstructorID != "" {
		conds = append(conds, "instructor_id = "+arg(filter.InstructorID))
	}
	if filter.IsActive != nil {
		conds = append(conds, "is_active = "+arg(*filter.IsActive))
	}
	if filter.UserID != "" {
		conds = append(conds, "user_id = "+arg(filter.UserID))
	}

	query := `SELECT * FROM student`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.unpack())
	}
	return students, nil
}
