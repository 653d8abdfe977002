package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "github.com/siraq-studio/api/internal/domain"
	"github.com/siraq-studio/api/internal/platform/requestctx"
	"github.com/siraq-studio/api/internal/platform/storage"
	"github.com/siraq-studio/api/internal/repositories"
)

// maxLogoBytes caps logo uploads at 2 MiB.
const maxLogoBytes = 2 << 20

var allowedLogoContentTypes = []string{
	"image/svg+xml",
	"image/png",
	"image/jpeg",
	"image/webp",
}

var (
	// ErrBrandingRepositoryMissing signals that the branding repository dependency is absent.
	ErrBrandingRepositoryMissing = errors.New("branding service: branding repository is not configured")
	// ErrUploaderMissing signals that the asset uploader dependency is absent.
	ErrUploaderMissing = errors.New("branding service: asset uploader is not configured")
	// ErrLogoUploadMissing signals that a logo replacement arrived without file content.
	ErrLogoUploadMissing = errors.New("branding service: logo upload is required")
	// ErrLogoURLRequired signals a revert request without a target URL.
	ErrLogoURLRequired = errors.New("branding service: logo url is required")
	// ErrContactRequired signals a contact update without a number.
	ErrContactRequired = errors.New("branding service: whatsapp number is required")
)

// BrandingServiceDeps groups constructor parameters for the branding service.
type BrandingServiceDeps struct {
	Repository      repositories.BrandingRepository
	Uploader        AssetUploader
	Clock           func() time.Time
	DefaultWhatsApp string
}

type brandingService struct {
	repo            repositories.BrandingRepository
	uploader        AssetUploader
	clock           func() time.Time
	defaultWhatsApp string
}

var _ BrandingService = (*brandingService)(nil)

// NewBrandingService constructs the branding service with the supplied dependencies.
func NewBrandingService(deps BrandingServiceDeps) (BrandingService, error) {
	if deps.Repository == nil {
		return nil, ErrBrandingRepositoryMissing
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	defaultWhatsApp := strings.TrimSpace(deps.DefaultWhatsApp)
	if defaultWhatsApp == "" {
		defaultWhatsApp = domain.DefaultWhatsAppNumber
	}
	return &brandingService{
		repo:            deps.Repository,
		uploader:        deps.Uploader,
		clock:           func() time.Time { return clock().UTC() },
		defaultWhatsApp: defaultWhatsApp,
	}, nil
}

// GetSiteConfig returns the current branding snapshot. Any read failure falls
// back to the documented defaults so the public site always renders.
func (s *brandingService) GetSiteConfig(ctx context.Context) SiteBranding {
	branding, err := s.repo.Get(ctx)
	if err != nil {
		if !isRepositoryNotFound(err) {
			requestctx.Logger(ctx).Warn("branding read failed, serving defaults", zap.Error(err))
		}
		branding = domain.DefaultSiteBranding()
	}
	if strings.TrimSpace(branding.WhatsApp) == "" {
		branding.WhatsApp = s.defaultWhatsApp
	}
	return branding
}

func (s *brandingService) ReplaceLogo(ctx context.Context, cmd ReplaceLogoCommand) (SiteBranding, error) {
	if s.uploader == nil {
		return SiteBranding{}, ErrUploaderMissing
	}
	if cmd.Body == nil {
		return SiteBranding{}, ErrLogoUploadMissing
	}
	fileName := strings.TrimSpace(cmd.FileName)
	if fileName == "" {
		return SiteBranding{}, ErrLogoUploadMissing
	}

	result, err := s.uploader.Upload(ctx, storage.UploadInput{
		Purpose:             storage.PurposeSiteLogo,
		Params:              storage.PathParams{FileName: fileName},
		Body:                cmd.Body,
		ContentType:         cmd.ContentType,
		CacheControl:        "public, max-age=300",
		AllowedContentTypes: allowedLogoContentTypes,
		MaxSize:             maxLogoBytes,
	})
	if err != nil {
		return SiteBranding{}, err
	}

	current := s.GetSiteConfig(ctx)
	updated := current.WithLogo(result.PublicURL, strings.TrimSpace(cmd.UploadedBy), s.clock())
	return s.repo.Set(ctx, updated)
}

func (s *brandingService) RemoveLogo(ctx context.Context, removedBy string) (SiteBranding, error) {
	current := s.GetSiteConfig(ctx)
	// The outgoing logo moves into the history, so its stored object must
	// survive for a later revert.
	updated := current.WithoutLogo(strings.TrimSpace(removedBy), s.clock())
	return s.repo.Set(ctx, updated)
}

func (s *brandingService) RevertLogo(ctx context.Context, cmd RevertLogoCommand) (SiteBranding, error) {
	targetURL := strings.TrimSpace(cmd.URL)
	if targetURL == "" {
		return SiteBranding{}, ErrLogoURLRequired
	}

	current := s.GetSiteConfig(ctx)
	entry := domain.LogoHistoryEntry{URL: targetURL, UploadedAt: s.clock()}
	for _, candidate := range current.LogoHistory {
		if candidate.URL == targetURL {
			entry = candidate
			break
		}
	}

	updated := current.RevertedTo(entry)
	return s.repo.Set(ctx, updated)
}

func (s *brandingService) UpdateContact(ctx context.Context, whatsapp string) (SiteBranding, error) {
	trimmed := strings.TrimSpace(whatsapp)
	if trimmed == "" {
		return SiteBranding{}, ErrContactRequired
	}

	current := s.GetSiteConfig(ctx)
	updated := current.WithContact(trimmed)
	return s.repo.Set(ctx, updated)
}
