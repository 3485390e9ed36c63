package org

import (
	"context"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

var ErrNotFound = errors.New("organization not found")

type (
	Repository interface {
		GetOrganization(ctx context.Context, id string) (Organization, error)
		// EnsureOrganization returns the deployment's organization,
		// creating it from the seed when none exists yet.
		EnsureOrganization(ctx context.Context, seed Organization) (Organization, error)
		UpdateOrganization(ctx context.Context, o Organization) (Organization, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get(ctx context.Context, id string) (Organization, error) {
	return svc.repo.GetOrganization(ctx, id)
}

// Ensure seeds the organization from config on first run.
func (svc *Service) Ensure(ctx context.Context, conf *core.Config) (Organization, error) {
	return svc.repo.EnsureOrganization(ctx, Organization{
		Name:     conf.Org.Name,
		Plan:     conf.Org.Plan,
		Features: conf.Org.Features,
	})
}
