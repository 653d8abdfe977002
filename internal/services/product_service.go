package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	domain "github.com/siraq-studio/api/internal/domain"
	"github.com/siraq-studio/api/internal/platform/requestctx"
	"github.com/siraq-studio/api/internal/platform/storage"
	"github.com/siraq-studio/api/internal/repositories"
)

// maxProductImageBytes caps product showcase images at 5 MiB.
const maxProductImageBytes = 5 << 20

var allowedProductImageContentTypes = []string{
	"image/png",
	"image/jpeg",
	"image/webp",
}

var (
	// ErrProductRepositoryMissing signals that the product repository dependency is absent.
	ErrProductRepositoryMissing = errors.New("product service: product repository is not configured")
	// ErrProductNotFound signals that the requested catalog product does not exist.
	ErrProductNotFound = errors.New("product service: product not found")
	// ErrProductNameRequired signals a catalog mutation without a product name.
	ErrProductNameRequired = errors.New("product service: product name is required")
	// ErrProductPriceInvalid signals a catalog mutation with a negative price.
	ErrProductPriceInvalid = errors.New("product service: product price must not be negative")
)

// ProductServiceDeps groups constructor parameters for the product service.
type ProductServiceDeps struct {
	Repository repositories.ProductRepository
	Uploader   AssetUploader
}

type productService struct {
	repo     repositories.ProductRepository
	uploader AssetUploader
}

var _ ProductService = (*productService)(nil)

// NewProductService constructs the catalog product service.
func NewProductService(deps ProductServiceDeps) (ProductService, error) {
	if deps.Repository == nil {
		return nil, ErrProductRepositoryMissing
	}
	return &productService{
		repo:     deps.Repository,
		uploader: deps.Uploader,
	}, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]CatalogProduct, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []CatalogProduct{}
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, productID string) (CatalogProduct, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return CatalogProduct{}, ErrProductNotFound
	}
	product, err := s.repo.Get(ctx, productID)
	if err != nil {
		if isRepositoryNotFound(err) {
			return CatalogProduct{}, ErrProductNotFound
		}
		return CatalogProduct{}, err
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, cmd UpsertProductCommand) (CatalogProduct, error) {
	product, err := s.normalise(cmd)
	if err != nil {
		return CatalogProduct{}, err
	}

	if cmd.Image != nil {
		imageURL, err := s.uploadImage(ctx, product.Name, *cmd.Image)
		if err != nil {
			return CatalogProduct{}, err
		}
		product.ImageURL = imageURL
	}

	return s.repo.Create(ctx, product)
}

func (s *productService) UpdateProduct(ctx context.Context, productID string, cmd UpsertProductCommand) (CatalogProduct, error) {
	existing, err := s.GetProduct(ctx, productID)
	if err != nil {
		return CatalogProduct{}, err
	}

	product, err := s.normalise(cmd)
	if err != nil {
		return CatalogProduct{}, err
	}
	product.ID = existing.ID
	product.ImageURL = existing.ImageURL

	if cmd.Image != nil {
		imageURL, err := s.uploadImage(ctx, product.Name, *cmd.Image)
		if err != nil {
			return CatalogProduct{}, err
		}
		product.ImageURL = imageURL
		s.deleteImage(ctx, existing.ImageURL)
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if isRepositoryNotFound(err) {
			return CatalogProduct{}, ErrProductNotFound
		}
		return CatalogProduct{}, err
	}
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, productID string) error {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return err
	}
	s.deleteImage(ctx, product.ImageURL)
	return nil
}

func (s *productService) normalise(cmd UpsertProductCommand) (domain.CatalogProduct, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return domain.CatalogProduct{}, ErrProductNameRequired
	}
	if cmd.Price < 0 {
		return domain.CatalogProduct{}, ErrProductPriceInvalid
	}
	return domain.CatalogProduct{
		Name:        name,
		Price:       cmd.Price,
		Description: strings.TrimSpace(cmd.Description),
	}, nil
}

func (s *productService) uploadImage(ctx context.Context, productName string, image ImageUpload) (string, error) {
	if s.uploader == nil {
		return "", ErrUploaderMissing
	}
	if image.Body == nil || strings.TrimSpace(image.FileName) == "" {
		return "", errors.New("product service: image upload is missing file content")
	}

	result, err := s.uploader.Upload(ctx, storage.UploadInput{
		Purpose: storage.PurposeProductImage,
		Params: storage.PathParams{
			ProductSlug: slugify(productName),
			FileName:    strings.TrimSpace(image.FileName),
		},
		Body:                image.Body,
		ContentType:         image.ContentType,
		CacheControl:        "public, max-age=3600",
		AllowedContentTypes: allowedProductImageContentTypes,
		MaxSize:             maxProductImageBytes,
	})
	if err != nil {
		return "", err
	}
	return result.PublicURL, nil
}

// deleteImage removes a superseded product image. Failures are logged and
// swallowed; a dangling object never blocks the catalog mutation.
func (s *productService) deleteImage(ctx context.Context, imageURL string) {
	if s.uploader == nil || strings.TrimSpace(imageURL) == "" {
		return
	}
	objectPath, ok := storage.ObjectPathFromPublicURL(s.uploader.Bucket(), imageURL)
	if !ok {
		return
	}
	if err := s.uploader.Delete(ctx, objectPath); err != nil {
		requestctx.Logger(ctx).Warn("product image cleanup failed",
			zap.String("object", objectPath),
			zap.Error(err))
	}
}

func slugify(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "product"
	}
	return slug
}
