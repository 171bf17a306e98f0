package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carmarket-api/internal/domain"
	"github.com/carmarket-api/internal/pkg/id"
	"github.com/carmarket-api/internal/pkg/slug"
)

// Store interfaces are satisfied by the dynamo repos. Creates are conditional
// on the natural key, so a lost race returns domain.ErrConflict and the
// winner's row is adopted.

type BrandStore interface {
	GetByName(ctx context.Context, name string) (*domain.Brand, error)
	Create(ctx context.Context, b *domain.Brand) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	Scan(ctx context.Context) ([]domain.Brand, error)
}

type CarModelStore interface {
	GetByName(ctx context.Context, brandID, name string) (*domain.CarModel, error)
	Create(ctx context.Context, m *domain.CarModel) error
	ListByBrand(ctx context.Context, brandID string) ([]domain.CarModel, error)
}

type CarVariantStore interface {
	GetByName(ctx context.Context, modelID, name string) (*domain.CarVariant, error)
	Create(ctx context.Context, v *domain.CarVariant) error
}

type CityStore interface {
	GetByName(ctx context.Context, name, state string) (*domain.City, error)
	Create(ctx context.Context, c *domain.City) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	Scan(ctx context.Context) ([]domain.City, error)
	AddCarCount(ctx context.Context, name, state string, delta int) error
}

type Service interface {
	ListBrands(ctx context.Context) ([]domain.Brand, error)
	ListModels(ctx context.Context, brandID string) ([]domain.CarModel, error)
	ListCities(ctx context.Context) ([]domain.City, error)

	ResolveBrand(ctx context.Context, name string) (*domain.Brand, error)
	ResolveModel(ctx context.Context, brandID, name string) (*domain.CarModel, error)
	ResolveVariant(ctx context.Context, modelID, name string) (*domain.CarVariant, error)
	ResolveCity(ctx context.Context, name, state string) (*domain.City, error)

	AdjustCityCount(ctx context.Context, name, state string, delta int) error
}

type ServiceDeps struct {
	BrandRepo   BrandStore
	ModelRepo   CarModelStore
	VariantRepo CarVariantStore
	CityRepo    CityStore
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{deps: deps}
}

func (s *service) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return s.deps.BrandRepo.Scan(ctx)
}

func (s *service) ListModels(ctx context.Context, brandID string) ([]domain.CarModel, error) {
	return s.deps.ModelRepo.ListByBrand(ctx, brandID)
}

func (s *service) ListCities(ctx context.Context) ([]domain.City, error) {
	return s.deps.CityRepo.Scan(ctx)
}

// ResolveBrand returns the brand with the given name, creating it on first
// use. Losing a creation race falls back to the winner's row.
func (s *service) ResolveBrand(ctx context.Context, name string) (*domain.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("brand name required: %w", domain.ErrBadRequest)
	}
	if b, err := s.deps.BrandRepo.GetByName(ctx, name); err == nil {
		return b, nil
	}
	sl, err := s.uniqueSlug(ctx, name, s.deps.BrandRepo.SlugExists)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	b := &domain.Brand{
		BrandID:   id.New(),
		Name:      name,
		Slug:      sl,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.BrandRepo.Create(ctx, b); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return s.deps.BrandRepo.GetByName(ctx, name)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) ResolveModel(ctx context.Context, brandID, name string) (*domain.CarModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("model name required: %w", domain.ErrBadRequest)
	}
	if m, err := s.deps.ModelRepo.GetByName(ctx, brandID, name); err == nil {
		return m, nil
	}
	now := time.Now().UTC()
	m := &domain.CarModel{
		ModelID:   id.New(),
		BrandID:   brandID,
		Name:      name,
		Slug:      slug.Make(name),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.ModelRepo.Create(ctx, m); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return s.deps.ModelRepo.GetByName(ctx, brandID, name)
		}
		return nil, err
	}
	return m, nil
}

func (s *service) ResolveVariant(ctx context.Context, modelID, name string) (*domain.CarVariant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if v, err := s.deps.VariantRepo.GetByName(ctx, modelID, name); err == nil {
		return v, nil
	}
	now := time.Now().UTC()
	v := &domain.CarVariant{
		VariantID: id.New(),
		ModelID:   modelID,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.VariantRepo.Create(ctx, v); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return s.deps.VariantRepo.GetByName(ctx, modelID, name)
		}
		return nil, err
	}
	return v, nil
}

func (s *service) ResolveCity(ctx context.Context, name, state string) (*domain.City, error) {
	name = strings.TrimSpace(name)
	state = strings.TrimSpace(state)
	if name == "" || state == "" {
		return nil, fmt.Errorf("city and state required: %w", domain.ErrBadRequest)
	}
	if c, err := s.deps.CityRepo.GetByName(ctx, name, state); err == nil {
		return c, nil
	}
	sl, err := s.uniqueSlug(ctx, name, s.deps.CityRepo.SlugExists)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &domain.City{
		CityID:    id.New(),
		Name:      name,
		State:     state,
		Slug:      sl,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.CityRepo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return s.deps.CityRepo.GetByName(ctx, name, state)
		}
		return nil, err
	}
	return c, nil
}

func (s *service) AdjustCityCount(ctx context.Context, name, state string, delta int) error {
	return s.deps.CityRepo.AddCarCount(ctx, name, state, delta)
}

// uniqueSlug appends a numeric suffix until the slug is free:
// "alto", "alto-2", "alto-3", ...
func (s *service) uniqueSlug(ctx context.Context, name string, exists func(context.Context, string) (bool, error)) (string, error) {
	base := slug.Make(name)
	candidate := base
	for i := 2; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
