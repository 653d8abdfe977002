package services

import (
	"context"
	"errors"
	"testing"

	domain "github.com/siraq-studio/api/internal/domain"
)

func TestCatalogService_ListProductConfigs(t *testing.T) {
	service := NewCatalogService()

	configs, err := service.ListProductConfigs(context.Background())
	if err != nil {
		t.Fatalf("ListProductConfigs: %v", err)
	}
	if len(configs) != 6 {
		t.Fatalf("expected 6 product configs, got %d", len(configs))
	}
	if configs[0].Kind != domain.ProductWeddingCard {
		t.Fatalf("expected wedding card first, got %q", configs[0].Kind)
	}
}

func TestCatalogService_GetProductConfig_Unknown(t *testing.T) {
	service := NewCatalogService()

	if _, err := service.GetProductConfig(context.Background(), "mug"); !errors.Is(err, domain.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestCatalogService_ListPaperOptions(t *testing.T) {
	service := NewCatalogService()

	options, err := service.ListPaperOptions(context.Background())
	if err != nil {
		t.Fatalf("ListPaperOptions: %v", err)
	}
	if len(options) != 3 {
		t.Fatalf("expected 3 paper options, got %d", len(options))
	}
	if options[0].Surcharge != 0 || options[2].Surcharge != 10 {
		t.Fatalf("expected ascending surcharges, got %v", options)
	}
}
