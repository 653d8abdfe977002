package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "github.com/siraq-studio/api/internal/domain"
	"github.com/siraq-studio/api/internal/platform/mail"
	"github.com/siraq-studio/api/internal/platform/storage"
)

type fakeBranding struct {
	branding SiteBranding
}

func (f *fakeBranding) GetSiteConfig(context.Context) SiteBranding { return f.branding }

func (f *fakeBranding) ReplaceLogo(context.Context, ReplaceLogoCommand) (SiteBranding, error) {
	return SiteBranding{}, errors.New("not implemented")
}

func (f *fakeBranding) RemoveLogo(context.Context, string) (SiteBranding, error) {
	return SiteBranding{}, errors.New("not implemented")
}

func (f *fakeBranding) RevertLogo(context.Context, RevertLogoCommand) (SiteBranding, error) {
	return SiteBranding{}, errors.New("not implemented")
}

func (f *fakeBranding) UpdateContact(context.Context, string) (SiteBranding, error) {
	return SiteBranding{}, errors.New("not implemented")
}

type fakeMailer struct {
	messages []mail.Message
	err      error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func newOrderService(t *testing.T, deps OrderServiceDeps) OrderService {
	t.Helper()
	if deps.Branding == nil {
		deps.Branding = &fakeBranding{branding: SiteBranding{WhatsApp: "+918217469646"}}
	}
	service, err := NewOrderService(deps)
	if err != nil {
		t.Fatalf("NewOrderService: %v", err)
	}
	return service
}

func weddingValues() map[string]string {
	return map[string]string{
		"brideName":   "Aisha",
		"groomName":   "Rahim",
		"weddingDate": "2025-12-20",
		"venue":       "Grand Palace",
		"quantity":    "100",
		"paperType":   "premium",
	}
}

func TestOrderService_Quote_CoercesQuantityAndPaper(t *testing.T) {
	service := newOrderService(t, OrderServiceDeps{})

	pricing, err := service.Quote(context.Background(), QuoteRequest{
		ProductType: domain.ProductWeddingCard,
		Quantity:    "0",
		PaperType:   "",
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if pricing.Quantity != 1 {
		t.Fatalf("expected quantity coerced to 1, got %d", pricing.Quantity)
	}
	if pricing.PaperKind != domain.PaperStandard {
		t.Fatalf("expected standard paper fallback, got %q", pricing.PaperKind)
	}

	pricing, err = service.Quote(context.Background(), QuoteRequest{
		ProductType: domain.ProductWeddingCard,
		Quantity:    "50",
		PaperType:   "premium",
	})
	if err != nil {
		t.Fatalf("Quote premium: %v", err)
	}
	if pricing.UnitPrice != 25 {
		t.Fatalf("expected unit price 25, got %d", pricing.UnitPrice)
	}
	if pricing.TotalPrice != 1250 {
		t.Fatalf("expected total 1250, got %d", pricing.TotalPrice)
	}
}

func TestOrderService_Quote_UnknownProduct(t *testing.T) {
	service := newOrderService(t, OrderServiceDeps{})
	if _, err := service.Quote(context.Background(), QuoteRequest{ProductType: "balloon"}); !errors.Is(err, domain.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestOrderService_ValidateDraft(t *testing.T) {
	service := newOrderService(t, OrderServiceDeps{})

	result, err := service.ValidateDraft(context.Background(), ValidateRequest{
		ProductType: domain.ProductWeddingCard,
		Values:      map[string]string{"brideName": "Aisha"},
	})
	if err != nil {
		t.Fatalf("ValidateDraft: %v", err)
	}
	if result.Valid {
		t.Fatalf("expected invalid draft")
	}
	if _, ok := result.Errors["groomName"]; !ok {
		t.Fatalf("expected groomName error, got %v", result.Errors)
	}
}

func TestOrderService_Submit_FullPipeline(t *testing.T) {
	now := time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC)
	uploader := &stubUploader{bucket: "siraq-assets"}
	mailer := &fakeMailer{}
	service := newOrderService(t, OrderServiceDeps{
		Branding:           &fakeBranding{branding: SiteBranding{WhatsApp: "+91 91234 56789"}},
		Uploader:           uploader,
		Mailer:             mailer,
		Clock:              func() time.Time { return now },
		NewOrderID:         func() string { return "SIRQ-2025-ABC12" },
		EnableNotification: true,
	})

	submission, err := service.Submit(context.Background(), SubmitOrderCommand{
		ProductType: domain.ProductWeddingCard,
		Values:      weddingValues(),
		Files: []FileUpload{
			{
				FieldName:   "photo",
				FileName:    "couple.jpg",
				ContentType: "image/jpeg",
				Body:        bytes.NewReader([]byte("jpeg-bytes")),
			},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if submission.OrderID != "SIRQ-2025-ABC12" {
		t.Fatalf("unexpected order id %q", submission.OrderID)
	}
	if !strings.Contains(submission.Summary, "SIRQ-2025-ABC12") {
		t.Fatalf("expected order id in summary: %q", submission.Summary)
	}
	if !strings.Contains(submission.Summary, "Aisha") || !strings.Contains(submission.Summary, "Rahim") {
		t.Fatalf("expected names in summary: %q", submission.Summary)
	}
	if !strings.HasPrefix(submission.WhatsAppURL, "https://wa.me/919123456789?text=") {
		t.Fatalf("unexpected handoff link %q", submission.WhatsAppURL)
	}
	if submission.Pricing.Quantity != 100 {
		t.Fatalf("expected quantity 100, got %d", submission.Pricing.Quantity)
	}
	if !submission.EmailSent {
		t.Fatalf("expected email sent")
	}

	if len(uploader.uploads) != 1 {
		t.Fatalf("expected one attachment upload, got %d", len(uploader.uploads))
	}
	if uploader.uploads[0].Purpose != storage.PurposeOrderUpload {
		t.Fatalf("unexpected upload purpose %q", uploader.uploads[0].Purpose)
	}
	if uploader.uploads[0].Params.OrderID != "SIRQ-2025-ABC12" {
		t.Fatalf("unexpected upload order id %q", uploader.uploads[0].Params.OrderID)
	}
	if len(submission.Files) != 1 || submission.Files[0].Name != "couple.jpg" {
		t.Fatalf("unexpected file refs %v", submission.Files)
	}

	if len(mailer.messages) != 1 {
		t.Fatalf("expected one notification, got %d", len(mailer.messages))
	}
	if !strings.Contains(mailer.messages[0].Subject, "SIRQ-2025-ABC12") {
		t.Fatalf("expected order id in subject, got %q", mailer.messages[0].Subject)
	}
}

func TestOrderService_Submit_MissingRequiredField(t *testing.T) {
	service := newOrderService(t, OrderServiceDeps{})

	values := weddingValues()
	delete(values, "venue")

	_, err := service.Submit(context.Background(), SubmitOrderCommand{
		ProductType: domain.ProductWeddingCard,
		Values:      values,
	})

	var validationErr *DraftValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected DraftValidationError, got %v", err)
	}
	if _, ok := validationErr.Result.Errors["venue"]; !ok {
		t.Fatalf("expected venue error, got %v", validationErr.Result.Errors)
	}
}

func TestOrderService_Submit_EmailFailureIsBestEffort(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	service := newOrderService(t, OrderServiceDeps{
		Mailer:             mailer,
		NewOrderID:         func() string { return "SIRQ-2025-XYZ99" },
		EnableNotification: true,
	})

	submission, err := service.Submit(context.Background(), SubmitOrderCommand{
		ProductType: domain.ProductWeddingCard,
		Values:      weddingValues(),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submission.EmailSent {
		t.Fatalf("expected EmailSent false when delivery fails")
	}
	if submission.WhatsAppURL == "" {
		t.Fatalf("expected handoff link despite email failure")
	}
}

func TestOrderService_Submit_NotificationDisabled(t *testing.T) {
	mailer := &fakeMailer{}
	service := newOrderService(t, OrderServiceDeps{
		Mailer:             mailer,
		EnableNotification: false,
	})

	submission, err := service.Submit(context.Background(), SubmitOrderCommand{
		ProductType: domain.ProductWeddingCard,
		Values:      weddingValues(),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submission.EmailSent {
		t.Fatalf("expected no email when notifications disabled")
	}
	if len(mailer.messages) != 0 {
		t.Fatalf("expected no messages, got %d", len(mailer.messages))
	}
}

func TestOrderService_Submit_UploadErrorFailsSubmission(t *testing.T) {
	uploader := &stubUploader{bucket: "siraq-assets", uploadErr: errors.New("bucket unavailable")}
	service := newOrderService(t, OrderServiceDeps{Uploader: uploader})

	_, err := service.Submit(context.Background(), SubmitOrderCommand{
		ProductType: domain.ProductWeddingCard,
		Values:      weddingValues(),
		Files: []FileUpload{
			{FieldName: "photo", FileName: "couple.jpg", ContentType: "image/jpeg", Body: bytes.NewReader([]byte("x"))},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "couple.jpg") {
		t.Fatalf("expected upload error naming the file, got %v", err)
	}
}
