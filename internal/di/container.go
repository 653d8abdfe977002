package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/siraq-studio/api/internal/platform/config"
	"github.com/siraq-studio/api/internal/repositories"
	"github.com/siraq-studio/api/internal/services"
)

// Repositories bundles the persistence contracts the services are built on.
// Production wiring supplies Firestore-backed implementations, tests can
// substitute in-memory fakes.
type Repositories struct {
	Branding repositories.BrandingRepository
	Products repositories.ProductRepository
	Health   repositories.HealthRepository
}

// Infrastructure carries the non-repository collaborators services need.
type Infrastructure struct {
	Uploader services.AssetUploader
	Mailer   services.Mailer
	Build    services.BuildInfo
	Clock    func() time.Time
}

// Services bundles the service-layer contracts that handlers rely upon.
type Services struct {
	Catalog  services.CatalogService
	Branding services.BrandingService
	Products services.ProductService
	Orders   services.OrderService
	System   services.SystemService
}

// Container wires repositories and services for runtime use.
type Container struct {
	Config   config.Config
	Services Services
}

// NewContainer assembles the service layer from the supplied dependencies.
// Only the branding repository is mandatory; everything else degrades to a
// reduced feature set so a partially configured deployment still serves the
// public catalog.
func NewContainer(ctx context.Context, cfg config.Config, repos Repositories, infra Infrastructure) (*Container, error) {
	if ctx == nil {
		return nil, errors.New("di: context is required")
	}
	if repos.Branding == nil {
		return nil, errors.New("di: branding repository is required")
	}

	clock := infra.Clock
	if clock == nil {
		clock = time.Now
	}

	svc := Services{Catalog: services.NewCatalogService()}

	brandingSvc, err := services.NewBrandingService(services.BrandingServiceDeps{
		Repository:      repos.Branding,
		Uploader:        infra.Uploader,
		Clock:           clock,
		DefaultWhatsApp: cfg.Site.WhatsAppNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("di: build branding service: %w", err)
	}
	svc.Branding = brandingSvc

	if repos.Products != nil {
		productSvc, err := services.NewProductService(services.ProductServiceDeps{
			Repository: repos.Products,
			Uploader:   infra.Uploader,
		})
		if err != nil {
			return nil, fmt.Errorf("di: build product service: %w", err)
		}
		svc.Products = productSvc
	}

	orderSvc, err := services.NewOrderService(services.OrderServiceDeps{
		Branding:           brandingSvc,
		Uploader:           infra.Uploader,
		Mailer:             infra.Mailer,
		Clock:              clock,
		EnableNotification: cfg.Features.EnableEmailNotifications,
	})
	if err != nil {
		return nil, fmt.Errorf("di: build order service: %w", err)
	}
	svc.Orders = orderSvc

	if repos.Health != nil {
		systemSvc, err := services.NewSystemService(services.SystemServiceDeps{
			HealthRepository: repos.Health,
			Clock:            clock,
			Build:            infra.Build,
		})
		if err != nil {
			return nil, fmt.Errorf("di: build system service: %w", err)
		}
		svc.System = systemSvc
	}

	return &Container{
		Config:   cfg,
		Services: svc,
	}, nil
}
