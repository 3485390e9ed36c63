package dummydb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/org"
)

type orgRepository struct {
	db *orgTable
}

var _ org.Repository = (*orgRepository)(nil) // interface compliance check

func NewOrgRepository(db *DB) *orgRepository {
	return &orgRepository{db: db.org}
}

func (repo *orgRepository) GetOrganization(_ context.Context, id string) (org.Organization, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if o, ok := repo.db.table[id]; ok {
		return *o, nil
	}
	return org.Organization{}, org.ErrNotFound
}

func (repo *orgRepository) EnsureOrganization(_ context.Context, seed org.Organization) (org.Organization, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, o := range repo.db.table {
		return *o, nil
	}

	now := time.Now().UTC()
	seed.ID = uuid.New().String()
	seed.CreatedAt = now
	seed.UpdatedAt = now
	repo.db.table[seed.ID] = &seed
	return seed, nil
}

func (repo *orgRepository) UpdateOrganization(_ context.Context, o org.Organization) (org.Organization, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[o.ID]
	if !ok {
		return org.Organization{}, org.ErrNotFound
	}
	o.CreatedAt = orig.CreatedAt
	o.UpdatedAt = time.Now().UTC()
	repo.db.table[o.ID] = &o
	return o, nil
}
