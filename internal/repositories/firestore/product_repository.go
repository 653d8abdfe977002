package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/oklog/ulid/v2"

	domain "github.com/siraq-studio/api/internal/domain"
	pfirestore "github.com/siraq-studio/api/internal/platform/firestore"
	"github.com/siraq-studio/api/internal/repositories"
)

const productCollection = "products"

// ProductRepository stores catalog products in Firestore. Document IDs are
// ULIDs so listings sort newest-first without a composite index.
type ProductRepository struct {
	base  *pfirestore.BaseRepository[productDocument]
	now   func() time.Time
	newID func() string
}

// ProductRepositoryOption customises repository construction.
type ProductRepositoryOption func(*ProductRepository)

// WithProductClock injects a custom clock primarily for tests.
func WithProductClock(clock func() time.Time) ProductRepositoryOption {
	return func(r *ProductRepository) {
		if clock != nil {
			r.now = clock
		}
	}
}

// WithProductIDGenerator overrides document ID generation, primarily for tests.
func WithProductIDGenerator(generate func() string) ProductRepositoryOption {
	return func(r *ProductRepository) {
		if generate != nil {
			r.newID = generate
		}
	}
}

// NewProductRepository constructs a Firestore-backed product repository.
func NewProductRepository(provider *pfirestore.Provider, opts ...ProductRepositoryOption) (*ProductRepository, error) {
	if provider == nil {
		return nil, errors.New("product repository requires firestore provider")
	}

	repo := &ProductRepository{
		base:  pfirestore.NewBaseRepository[productDocument](provider, productCollection, nil, nil),
		now:   time.Now,
		newID: func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	return repo, nil
}

// List returns every catalog product, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]domain.CatalogProduct, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("product repository not initialised")
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		return query.OrderBy(firestore.DocumentID, firestore.Desc)
	})
	if err != nil {
		return nil, err
	}

	products := make([]domain.CatalogProduct, 0, len(docs))
	for _, doc := range docs {
		products = append(products, toDomainProduct(doc.ID, doc.Data))
	}
	return products, nil
}

// Get loads a single catalog product by its document ID.
func (r *ProductRepository) Get(ctx context.Context, productID string) (domain.CatalogProduct, error) {
	if r == nil || r.base == nil {
		return domain.CatalogProduct{}, errors.New("product repository not initialised")
	}
	if strings.TrimSpace(productID) == "" {
		return domain.CatalogProduct{}, errors.New("product id is required")
	}

	doc, err := r.base.Get(ctx, productID)
	if err != nil {
		return domain.CatalogProduct{}, err
	}
	return toDomainProduct(doc.ID, doc.Data), nil
}

// Create persists a new catalog product under a freshly generated ID.
func (r *ProductRepository) Create(ctx context.Context, product domain.CatalogProduct) (domain.CatalogProduct, error) {
	if r == nil || r.base == nil {
		return domain.CatalogProduct{}, errors.New("product repository not initialised")
	}

	now := r.now().UTC()
	id := r.newID()
	doc := fromDomainProduct(product, now, now)
	if _, err := r.base.Set(ctx, id, doc); err != nil {
		return domain.CatalogProduct{}, err
	}
	return toDomainProduct(id, doc), nil
}

// Update rewrites an existing product. The product must carry its ID; a
// missing document surfaces as a not-found repository error.
func (r *ProductRepository) Update(ctx context.Context, product domain.CatalogProduct) (domain.CatalogProduct, error) {
	if r == nil || r.base == nil {
		return domain.CatalogProduct{}, errors.New("product repository not initialised")
	}
	if strings.TrimSpace(product.ID) == "" {
		return domain.CatalogProduct{}, errors.New("product id is required")
	}

	existing, err := r.base.Get(ctx, product.ID)
	if err != nil {
		return domain.CatalogProduct{}, err
	}

	doc := fromDomainProduct(product, existing.Data.CreatedAt, r.now().UTC())
	if _, err := r.base.Set(ctx, product.ID, doc); err != nil {
		return domain.CatalogProduct{}, err
	}
	return toDomainProduct(product.ID, doc), nil
}

// Delete removes a catalog product. Deleting a missing product is not an error.
func (r *ProductRepository) Delete(ctx context.Context, productID string) error {
	if r == nil || r.base == nil {
		return errors.New("product repository not initialised")
	}
	if strings.TrimSpace(productID) == "" {
		return errors.New("product id is required")
	}

	_, err := r.base.Delete(ctx, productID)
	return err
}

type productDocument struct {
	Name        string    `firestore:"name"`
	Price       float64   `firestore:"price"`
	Description string    `firestore:"description"`
	ImageURL    string    `firestore:"imageUrl"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func toDomainProduct(id string, doc productDocument) domain.CatalogProduct {
	return domain.CatalogProduct{
		ID:          id,
		Name:        doc.Name,
		Price:       doc.Price,
		Description: doc.Description,
		ImageURL:    doc.ImageURL,
	}
}

func fromDomainProduct(product domain.CatalogProduct, createdAt, updatedAt time.Time) productDocument {
	if createdAt.IsZero() {
		createdAt = updatedAt
	}
	return productDocument{
		Name:        strings.TrimSpace(product.Name),
		Price:       product.Price,
		Description: strings.TrimSpace(product.Description),
		ImageURL:    strings.TrimSpace(product.ImageURL),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

var _ repositories.ProductRepository = (*ProductRepository)(nil)

// CollectionName exposes the Firestore collection for migration tooling.
func (r *ProductRepository) CollectionName() string {
	return productCollection
}
