package firestore

import (
	"context"
	"errors"
	"time"

	domain "github.com/siraq-studio/api/internal/domain"
	pfirestore "github.com/siraq-studio/api/internal/platform/firestore"
	"github.com/siraq-studio/api/internal/repositories"
)

const (
	brandingCollection = "site"
	brandingDocumentID = "config"
)

// BrandingRepository persists the singleton site branding document in Firestore.
//
// Every mutation rewrites the whole document, so concurrent admin edits resolve
// last-write-wins. The history cap keeps the document well below Firestore's
// size limits, which is why no transaction is needed here.
type BrandingRepository struct {
	base *pfirestore.BaseRepository[brandingDocument]
	now  func() time.Time
}

// BrandingRepositoryOption customises repository construction.
type BrandingRepositoryOption func(*BrandingRepository)

// WithBrandingClock injects a custom clock primarily for tests.
func WithBrandingClock(clock func() time.Time) BrandingRepositoryOption {
	return func(r *BrandingRepository) {
		if clock != nil {
			r.now = clock
		}
	}
}

// NewBrandingRepository constructs a Firestore-backed branding repository.
func NewBrandingRepository(provider *pfirestore.Provider, opts ...BrandingRepositoryOption) (*BrandingRepository, error) {
	if provider == nil {
		return nil, errors.New("branding repository requires firestore provider")
	}

	repo := &BrandingRepository{
		base: pfirestore.NewBaseRepository[brandingDocument](provider, brandingCollection, nil, nil),
		now:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	return repo, nil
}

// Get loads the branding snapshot. A missing document surfaces as a not-found
// repository error; callers decide whether to substitute defaults.
func (r *BrandingRepository) Get(ctx context.Context) (domain.SiteBranding, error) {
	if r == nil || r.base == nil {
		return domain.SiteBranding{}, errors.New("branding repository not initialised")
	}

	doc, err := r.base.Get(ctx, brandingDocumentID)
	if err != nil {
		return domain.SiteBranding{}, err
	}
	return toDomainBranding(doc.Data), nil
}

// Set replaces the branding snapshot wholesale.
func (r *BrandingRepository) Set(ctx context.Context, branding domain.SiteBranding) (domain.SiteBranding, error) {
	if r == nil || r.base == nil {
		return domain.SiteBranding{}, errors.New("branding repository not initialised")
	}

	doc := fromDomainBranding(branding, r.now().UTC())
	if _, err := r.base.Set(ctx, brandingDocumentID, doc); err != nil {
		return domain.SiteBranding{}, err
	}
	return toDomainBranding(doc), nil
}

type brandingDocument struct {
	WhatsApp       string                `firestore:"whatsapp"`
	LogoURL        string                `firestore:"logoUrl"`
	LogoUploadedBy string                `firestore:"logoUploadedBy,omitempty"`
	LogoUploadedAt time.Time             `firestore:"logoUploadedAt,omitempty"`
	LogoHistory    []logoHistoryDocument `firestore:"logoHistory,omitempty"`
	UpdatedAt      time.Time             `firestore:"updatedAt"`
}

type logoHistoryDocument struct {
	URL        string    `firestore:"url"`
	UploadedBy string    `firestore:"uploadedBy,omitempty"`
	UploadedAt time.Time `firestore:"uploadedAt"`
}

func toDomainBranding(doc brandingDocument) domain.SiteBranding {
	branding := domain.SiteBranding{
		WhatsApp:       doc.WhatsApp,
		LogoURL:        doc.LogoURL,
		LogoUploadedBy: doc.LogoUploadedBy,
		LogoUploadedAt: doc.LogoUploadedAt,
	}
	if len(doc.LogoHistory) > 0 {
		history := make([]domain.LogoHistoryEntry, 0, len(doc.LogoHistory))
		for _, entry := range doc.LogoHistory {
			history = append(history, domain.LogoHistoryEntry{
				URL:        entry.URL,
				UploadedBy: entry.UploadedBy,
				UploadedAt: entry.UploadedAt,
			})
		}
		branding.LogoHistory = history
	}
	return branding
}

func fromDomainBranding(branding domain.SiteBranding, now time.Time) brandingDocument {
	doc := brandingDocument{
		WhatsApp:       branding.WhatsApp,
		LogoURL:        branding.LogoURL,
		LogoUploadedBy: branding.LogoUploadedBy,
		LogoUploadedAt: branding.LogoUploadedAt,
		UpdatedAt:      now,
	}
	if len(branding.LogoHistory) > 0 {
		history := make([]logoHistoryDocument, 0, len(branding.LogoHistory))
		for _, entry := range branding.LogoHistory {
			history = append(history, logoHistoryDocument{
				URL:        entry.URL,
				UploadedBy: entry.UploadedBy,
				UploadedAt: entry.UploadedAt,
			})
		}
		doc.LogoHistory = history
	}
	return doc
}

var _ repositories.BrandingRepository = (*BrandingRepository)(nil)

// CollectionName exposes the Firestore collection for migration tooling.
func (r *BrandingRepository) CollectionName() string {
	return brandingCollection
}
