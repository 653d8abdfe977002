package services

import (
	"context"
	"errors"
	"io"

	domain "github.com/siraq-studio/api/internal/domain"
	"github.com/siraq-studio/api/internal/platform/storage"
	"github.com/siraq-studio/api/internal/repositories"
)

// AssetUploader abstracts the object store used for logo, product, and order
// uploads so services can be tested without a live bucket.
type AssetUploader interface {
	Upload(ctx context.Context, input storage.UploadInput) (storage.UploadResult, error)
	Delete(ctx context.Context, objectPath string) error
	Bucket() string
}

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	ProductKind        = domain.ProductKind
	ProductConfig      = domain.ProductConfig
	PaperOption        = domain.PaperOption
	PricingDetails     = domain.PricingDetails
	ValidationResult   = domain.ValidationResult
	OrderDraft         = domain.OrderDraft
	FileRef            = domain.FileRef
	SiteBranding       = domain.SiteBranding
	LogoHistoryEntry   = domain.LogoHistoryEntry
	CatalogProduct     = domain.CatalogProduct
	SystemHealthReport = domain.SystemHealthReport
)

// CatalogService answers read-only questions about the fixed product
// offerings the order wizard presents.
type CatalogService interface {
	ListProductConfigs(ctx context.Context) ([]ProductConfig, error)
	GetProductConfig(ctx context.Context, kind ProductKind) (ProductConfig, error)
	ListPaperOptions(ctx context.Context) ([]PaperOption, error)
}

// OrderService drives the order wizard server side: validation, pricing,
// and the final hand-off to WhatsApp with a best-effort email notification.
type OrderService interface {
	Quote(ctx context.Context, req QuoteRequest) (PricingDetails, error)
	ValidateDraft(ctx context.Context, req ValidateRequest) (ValidationResult, error)
	Submit(ctx context.Context, cmd SubmitOrderCommand) (OrderSubmission, error)
}

// BrandingService manages the singleton site branding record: the public
// contact number and the active logo with its bounded history.
type BrandingService interface {
	GetSiteConfig(ctx context.Context) SiteBranding
	ReplaceLogo(ctx context.Context, cmd ReplaceLogoCommand) (SiteBranding, error)
	RemoveLogo(ctx context.Context, removedBy string) (SiteBranding, error)
	RevertLogo(ctx context.Context, cmd RevertLogoCommand) (SiteBranding, error)
	UpdateContact(ctx context.Context, whatsapp string) (SiteBranding, error)
}

// ProductService manages the administrator-curated showcase catalog.
type ProductService interface {
	ListProducts(ctx context.Context) ([]CatalogProduct, error)
	GetProduct(ctx context.Context, productID string) (CatalogProduct, error)
	CreateProduct(ctx context.Context, cmd UpsertProductCommand) (CatalogProduct, error)
	UpdateProduct(ctx context.Context, productID string, cmd UpsertProductCommand) (CatalogProduct, error)
	DeleteProduct(ctx context.Context, productID string) error
}

// SystemService exposes operational health information.
type SystemService interface {
	HealthReport(ctx context.Context) (SystemHealthReport, error)
}

// QuoteRequest carries the pricing inputs for a single wizard step.
type QuoteRequest struct {
	ProductType ProductKind
	Quantity    string
	PaperType   string
}

// ValidateRequest carries the field values to check against a product's schema.
type ValidateRequest struct {
	ProductType ProductKind
	Values      map[string]string
}

// FileUpload is one customer attachment arriving with an order submission.
type FileUpload struct {
	FieldName   string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// SubmitOrderCommand carries a completed wizard draft for submission.
// OrderID is optional; the wizard may generate its own identifier before
// handing the order off, and the service honours it when present.
type SubmitOrderCommand struct {
	OrderID     string
	ProductType ProductKind
	Values      map[string]string
	Files       []FileUpload
}

// OrderSubmission is the outcome of a submitted order: the generated order
// ID, the rendered summary, and the WhatsApp hand-off link the customer is
// redirected to.
type OrderSubmission struct {
	OrderID     string         `json:"orderId"`
	Summary     string         `json:"summary"`
	WhatsAppURL string         `json:"whatsappUrl"`
	Pricing     PricingDetails `json:"pricing"`
	Files       []FileRef      `json:"uploadedFiles,omitempty"`
	EmailSent   bool           `json:"emailSent"`
}

// ReplaceLogoCommand carries a new logo image upload.
type ReplaceLogoCommand struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	UploadedBy  string
}

// RevertLogoCommand restores an archived logo by URL. When the URL is no
// longer present in the history the revert still succeeds with the URL alone.
type RevertLogoCommand struct {
	URL string
}

// ImageUpload is an optional product image accompanying a catalog mutation.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UpsertProductCommand carries catalog product attributes plus an optional
// replacement image.
type UpsertProductCommand struct {
	Name        string
	Price       float64
	Description string
	Image       *ImageUpload
}

func isRepositoryNotFound(err error) bool {
	if err == nil {
		return false
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.IsNotFound()
	}
	return false
}
