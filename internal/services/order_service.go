package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "github.com/siraq-studio/api/internal/domain"
	"github.com/siraq-studio/api/internal/platform/mail"
	"github.com/siraq-studio/api/internal/platform/requestctx"
	"github.com/siraq-studio/api/internal/platform/storage"
	"github.com/siraq-studio/api/internal/platform/textutil"
)

// maxOrderUploadBytes caps each customer attachment at 10 MiB.
const maxOrderUploadBytes = 10 << 20

var allowedOrderUploadContentTypes = []string{
	"image/*",
	"application/pdf",
}

var (
	// ErrBrandingServiceMissing signals that the branding service dependency is absent.
	ErrBrandingServiceMissing = errors.New("order service: branding service is not configured")
)

// Mailer abstracts notification delivery so tests can substitute a fake.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

// DraftValidationError reports required fields missing from a submission.
type DraftValidationError struct {
	Result ValidationResult
}

func (e *DraftValidationError) Error() string {
	return fmt.Sprintf("order service: draft is missing %d required field(s)", len(e.Result.Errors))
}

// OrderServiceDeps groups constructor parameters for the order service.
type OrderServiceDeps struct {
	Branding           BrandingService
	Uploader           AssetUploader
	Mailer             Mailer
	Clock              func() time.Time
	NewOrderID         func() string
	EnableNotification bool
}

type orderService struct {
	branding   BrandingService
	uploader   AssetUploader
	mailer     Mailer
	clock      func() time.Time
	newOrderID func() string
	notify     bool
}

var _ OrderService = (*orderService)(nil)

// NewOrderService constructs the order service with the supplied dependencies.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Branding == nil {
		return nil, ErrBrandingServiceMissing
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newOrderID := deps.NewOrderID
	if newOrderID == nil {
		newOrderID = domain.GenerateOrderID
	}
	return &orderService{
		branding:   deps.Branding,
		uploader:   deps.Uploader,
		mailer:     deps.Mailer,
		clock:      func() time.Time { return clock().UTC() },
		newOrderID: newOrderID,
		notify:     deps.EnableNotification,
	}, nil
}

// Quote recomputes pricing from its inputs. Quantity is coerced to a sane
// positive value and a missing paper choice falls back to standard stock.
func (s *orderService) Quote(ctx context.Context, req QuoteRequest) (PricingDetails, error) {
	if ctx == nil {
		return PricingDetails{}, errors.New("order service: context is required")
	}

	config, err := domain.ProductConfigFor(req.ProductType)
	if err != nil {
		return PricingDetails{}, err
	}

	quantity := domain.NormalizeQuantity(req.Quantity)
	paper := paperOrDefault(req.PaperType)
	return domain.ComputePricing(config, quantity, paper)
}

func (s *orderService) ValidateDraft(ctx context.Context, req ValidateRequest) (ValidationResult, error) {
	if ctx == nil {
		return ValidationResult{}, errors.New("order service: context is required")
	}

	config, err := domain.ProductConfigFor(req.ProductType)
	if err != nil {
		return ValidationResult{}, err
	}
	return domain.ValidateFields(config, req.Values), nil
}

// Submit runs the full submission pipeline: validate, price, persist the
// attachments, render the summary, and hand off to WhatsApp. The email
// notification is best-effort; its failure never fails the submission.
func (s *orderService) Submit(ctx context.Context, cmd SubmitOrderCommand) (OrderSubmission, error) {
	if ctx == nil {
		return OrderSubmission{}, errors.New("order service: context is required")
	}

	config, err := domain.ProductConfigFor(cmd.ProductType)
	if err != nil {
		return OrderSubmission{}, err
	}

	values := textutil.NormalizeStringMap(cmd.Values)
	if result := domain.ValidateFields(config, values); !result.Valid {
		return OrderSubmission{}, &DraftValidationError{Result: result}
	}

	quantity := domain.NormalizeQuantity(values["quantity"])
	paper := paperOrDefault(values["paperType"])
	pricing, err := domain.ComputePricing(config, quantity, paper)
	if err != nil {
		return OrderSubmission{}, err
	}

	orderID := strings.TrimSpace(cmd.OrderID)
	if orderID == "" {
		orderID = s.newOrderID()
	}
	files, err := s.uploadAttachments(ctx, orderID, cmd.Files)
	if err != nil {
		return OrderSubmission{}, err
	}

	draft := domain.OrderDraft{
		ProductKind: cmd.ProductType,
		Values:      values,
		Files:       files,
		Pricing:     &pricing,
		OrderID:     orderID,
	}

	summary, err := domain.RenderOrderSummary(draft)
	if err != nil {
		return OrderSubmission{}, err
	}

	contact := s.branding.GetSiteConfig(ctx).WhatsApp
	submission := OrderSubmission{
		OrderID:     orderID,
		Summary:     summary,
		WhatsAppURL: domain.BuildHandoffLink(summary, contact),
		Pricing:     pricing,
		Files:       files,
	}
	submission.EmailSent = s.notifyStudio(ctx, draft, config, summary)
	return submission, nil
}

func (s *orderService) uploadAttachments(ctx context.Context, orderID string, uploads []FileUpload) ([]FileRef, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	if s.uploader == nil {
		return nil, ErrUploaderMissing
	}

	refs := make([]FileRef, 0, len(uploads))
	for _, upload := range uploads {
		fileName := strings.TrimSpace(upload.FileName)
		fieldName := strings.TrimSpace(upload.FieldName)
		if fileName == "" || upload.Body == nil {
			continue
		}
		if fieldName == "" {
			fieldName = "attachment"
		}

		result, err := s.uploader.Upload(ctx, storage.UploadInput{
			Purpose: storage.PurposeOrderUpload,
			Params: storage.PathParams{
				OrderID:   orderID,
				FieldName: fieldName,
				FileName:  fileName,
			},
			Body:                upload.Body,
			ContentType:         upload.ContentType,
			AllowedContentTypes: allowedOrderUploadContentTypes,
			MaxSize:             maxOrderUploadBytes,
		})
		if err != nil {
			return nil, fmt.Errorf("order service: upload %s: %w", fileName, err)
		}
		refs = append(refs, FileRef{Name: fileName, Size: result.Size})
	}
	if len(refs) == 0 {
		return nil, nil
	}
	return refs, nil
}

// notifyStudio sends the order email and reports whether it was delivered.
func (s *orderService) notifyStudio(ctx context.Context, draft domain.OrderDraft, config domain.ProductConfig, summary string) bool {
	if !s.notify || s.mailer == nil {
		return false
	}

	msg := mail.BuildOrderNotification(draft, config, summary)
	if err := s.mailer.Send(ctx, msg); err != nil {
		requestctx.Logger(ctx).Warn("order notification email failed",
			zap.String("order_id", draft.OrderID),
			zap.Error(err))
		return false
	}
	return true
}

func paperOrDefault(raw string) domain.PaperKind {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.PaperStandard
	}
	return domain.PaperKind(trimmed)
}

