package services

import (
	"context"
	"errors"

	domain "github.com/siraq-studio/api/internal/domain"
)

type catalogService struct{}

var _ CatalogService = (*catalogService)(nil)

// NewCatalogService constructs the read-only catalog service over the fixed
// product offerings.
func NewCatalogService() CatalogService {
	return &catalogService{}
}

func (s *catalogService) ListProductConfigs(ctx context.Context) ([]ProductConfig, error) {
	if ctx == nil {
		return nil, errors.New("catalog service: context is required")
	}
	return domain.ProductConfigs(), nil
}

func (s *catalogService) GetProductConfig(ctx context.Context, kind ProductKind) (ProductConfig, error) {
	if ctx == nil {
		return ProductConfig{}, errors.New("catalog service: context is required")
	}
	return domain.ProductConfigFor(kind)
}

func (s *catalogService) ListPaperOptions(ctx context.Context) ([]PaperOption, error) {
	if ctx == nil {
		return nil, errors.New("catalog service: context is required")
	}
	return domain.PaperOptions(), nil
}
