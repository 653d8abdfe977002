package repositories

import (
	"context"
	"errors"

	domain "github.com/siraq-studio/api/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// BrandingRepository persists the singleton site branding document.
//
// Set writes the whole snapshot; concurrent writers resolve last-write-wins,
// which is the documented behaviour for branding updates.
type BrandingRepository interface {
	Get(ctx context.Context) (domain.SiteBranding, error)
	Set(ctx context.Context, branding domain.SiteBranding) (domain.SiteBranding, error)
}

// ProductRepository stores administrator-managed catalog products.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.CatalogProduct, error)
	Get(ctx context.Context, productID string) (domain.CatalogProduct, error)
	Create(ctx context.Context, product domain.CatalogProduct) (domain.CatalogProduct, error)
	Update(ctx context.Context, product domain.CatalogProduct) (domain.CatalogProduct, error)
	Delete(ctx context.Context, productID string) error
}

// HealthRepository aggregates the readiness state of backing dependencies.
type HealthRepository interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}

// IsNotFound reports whether err carries not-found repository semantics.
func IsNotFound(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}

// IsConflict reports whether err carries conflict repository semantics.
func IsConflict(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsConflict()
}

// IsUnavailable reports whether err carries transient-outage repository semantics.
func IsUnavailable(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsUnavailable()
}
