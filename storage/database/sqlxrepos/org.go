package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/org"
)

type orgRow struct {
	ID        string         `db:"id"`
	Name      null.String    `db:"name"`
	Plan      string         `db:"plan"`
	Features  pq.StringArray `db:"features"`
	CreatedAt null.Time      `db:"created_at"`
	UpdatedAt null.Time      `db:"updated_at"`
}

func (r orgRow) unpack() org.Organization {
	return org.Organization{
		ID:        r.ID,
		Name:      r.Name.String,
		Plan:      r.Plan,
		Features:  []string(r.Features),
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
}

type orgRepository struct {
	db *sqlx.DB
}

var _ org.Repository = (*orgRepository)(nil) // interface compliance check

func NewOrgRepository(db *sqlx.DB) *orgRepository {
	return &orgRepository{db: db}
}

func (repo orgRepository) GetOrganization(ctx context.Context, id string) (org.Organization, error) {
	var row orgRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM organization WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return org.Organization{}, org.ErrNotFound
		}
		return org.Organization{}, errors.Wrap(err, "getting organization")
	}
	return row.unpack(), nil
}

func (repo orgRepository) EnsureOrganization(ctx context.Context, seed org.Organization) (org.Organization, error) {
	var row orgRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM organization ORDER BY created_at LIMIT 1`)
	if err == nil {
		return row.unpack(), nil
	}
	if err != sql.ErrNoRows {
		return org.Organization{}, errors.Wrap(err, "looking up organization")
	}

	now := time.Now().UTC()
	seed.ID = uuid.New().String()
	seed.CreatedAt = now
	seed.UpdatedAt = now
	_, err = repo.db.ExecContext(ctx, `
		INSERT INTO organization (id, name, plan, features, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		seed.ID, seed.Name, seed.Plan, pq.StringArray(seed.Features), seed.CreatedAt, seed.UpdatedAt,
	)
	if err != nil {
		return org.Organization{}, errors.Wrap(err, "seeding organization")
	}
	return seed, nil
}

func (repo orgRepository) UpdateOrganization(ctx context.Context, o org.Organization) (org.Organization, error) {
	o.UpdatedAt = time.Now().UTC()
	_, err := repo.db.ExecContext(ctx, `
		UPDATE organization SET name = $2, plan = $3, features = $4, updated_at = $5 WHERE id = $1`,
		o.ID, o.Name, o.Plan, pq.StringArray(o.Features), o.UpdatedAt,
	)
	if err != nil {
		return org.Organization{}, errors.Wrap(err, "updating organization")
	}
	return repo.GetOrganization(ctx, o.ID)
}
