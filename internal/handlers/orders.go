package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/siraq-studio/api/internal/domain"
	"github.com/siraq-studio/api/internal/platform/httpx"
	"github.com/siraq-studio/api/internal/platform/storage"
	"github.com/siraq-studio/api/internal/services"
)

const (
	// maxOrderRequestBytes caps the whole multipart submission.
	maxOrderRequestBytes = 64 << 20
	// multipartMemoryBytes is the in-memory buffer before parts spill to disk.
	multipartMemoryBytes = 8 << 20

	defaultOrdersPerMinute = 30
)

// reservedOrderFields are multipart keys that never become wizard values.
var reservedOrderFields = map[string]struct{}{
	"productType":  {},
	"orderId":      {},
	"orderDetails": {},
}

// OrderIntakeHandlers serves the public order submission endpoint.
type OrderIntakeHandlers struct {
	orders  services.OrderService
	limiter rateLimiter
}

// OrderIntakeOption customises construction of OrderIntakeHandlers.
type OrderIntakeOption func(*OrderIntakeHandlers)

// WithOrderIntakeService injects the order service dependency.
func WithOrderIntakeService(svc services.OrderService) OrderIntakeOption {
	return func(h *OrderIntakeHandlers) {
		h.orders = svc
	}
}

// WithOrderIntakeRateLimit throttles submissions per client address.
func WithOrderIntakeRateLimit(perMinute int) OrderIntakeOption {
	return func(h *OrderIntakeHandlers) {
		h.limiter = newSimpleRateLimiter(perMinute, time.Minute, nil)
	}
}

// NewOrderIntakeHandlers constructs the order intake endpoint.
func NewOrderIntakeHandlers(opts ...OrderIntakeOption) *OrderIntakeHandlers {
	h := &OrderIntakeHandlers{
		limiter: newSimpleRateLimiter(defaultOrdersPerMinute, time.Minute, nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Routes registers the intake endpoint. Every method reaches Intake so the
// handler owns the full method contract.
func (h *OrderIntakeHandlers) Routes(r chi.Router) {
	r.HandleFunc("/", h.Intake)
}

// Intake accepts a multipart order submission. Only POST carries an order;
// OPTIONS answers preflight and everything else is rejected with 405.
func (h *OrderIntakeHandlers) Intake(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", http.MethodPost)
		httpx.WriteError(r.Context(), w, httpx.NewError("method_not_allowed", "order submissions must use POST", http.StatusMethodNotAllowed))
		return
	}

	if h.orders == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "order service not configured", http.StatusServiceUnavailable))
		return
	}

	if h.limiter != nil && !h.limiter.Allow(clientKey(r)) {
		httpx.WriteError(r.Context(), w, httpx.NewError("rate_limited", "too many order submissions, slow down", http.StatusTooManyRequests))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxOrderRequestBytes)
	if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "request must be multipart/form-data", http.StatusBadRequest))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	cmd, closers, err := buildSubmitCommand(r.MultipartForm)
	defer closeAll(closers)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	submission, err := h.orders.Submit(r.Context(), cmd)
	if err != nil {
		writeSubmitError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orderIntakeResponse{
		Success:     true,
		OrderID:     submission.OrderID,
		Message:     "order received",
		Summary:     submission.Summary,
		WhatsAppURL: submission.WhatsAppURL,
		Pricing:     &submission.Pricing,
		Files:       submission.Files,
		EmailSent:   submission.EmailSent,
	})
}

// orderIntakeResponse is the intake envelope: the success triple the order
// form checks plus the submission outcome for richer clients.
type orderIntakeResponse struct {
	Success     bool                   `json:"success"`
	OrderID     string                 `json:"orderId"`
	Message     string                 `json:"message"`
	Summary     string                 `json:"summary,omitempty"`
	WhatsAppURL string                 `json:"whatsappUrl,omitempty"`
	Pricing     *domain.PricingDetails `json:"pricing,omitempty"`
	Files       []domain.FileRef       `json:"uploadedFiles,omitempty"`
	EmailSent   bool                   `json:"emailSent"`
}

// buildSubmitCommand accepts both wire shapes the order form has used: a
// single orderDetails part holding the JSON-encoded draft, or the draft's
// fields spread flat across the multipart form.
func buildSubmitCommand(form *multipart.Form) (services.SubmitOrderCommand, []multipart.File, error) {
	var cmd services.SubmitOrderCommand

	formValue := func(key string) string {
		if raw, ok := form.Value[key]; ok && len(raw) > 0 {
			return strings.TrimSpace(raw[0])
		}
		return ""
	}

	values := make(map[string]string, len(form.Value))
	for key, fieldValues := range form.Value {
		if len(fieldValues) == 0 {
			continue
		}
		if _, reserved := reservedOrderFields[key]; reserved {
			continue
		}
		values[key] = fieldValues[0]
	}

	productType := formValue("productType")
	orderID := formValue("orderId")

	if details := formValue("orderDetails"); details != "" {
		var draft domain.OrderDraft
		if err := json.Unmarshal([]byte(details), &draft); err != nil {
			return cmd, nil, errors.New("orderDetails must be valid JSON")
		}
		for key, value := range draft.Values {
			values[key] = value
		}
		// The order form keeps quantity and paper choice inside the pricing
		// block rather than as top-level fields. Lift them into the value map
		// so pricing is recomputed from the customer's actual inputs; the
		// client's unit and total prices are never trusted.
		if pricing := draft.Pricing; pricing != nil {
			if _, ok := values["quantity"]; !ok && pricing.Quantity > 0 {
				values["quantity"] = strconv.Itoa(pricing.Quantity)
			}
			if _, ok := values["paperType"]; !ok && pricing.PaperKind != "" {
				values["paperType"] = string(pricing.PaperKind)
			}
		}
		if draft.ProductKind != "" {
			productType = string(draft.ProductKind)
		}
		if draft.OrderID != "" {
			orderID = draft.OrderID
		}
	}

	if productType == "" {
		return cmd, nil, errors.New("productType is required")
	}

	var closers []multipart.File
	var files []services.FileUpload
	for fieldName, headers := range form.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				return cmd, closers, errors.New("failed to read uploaded file " + header.Filename)
			}
			closers = append(closers, file)
			files = append(files, services.FileUpload{
				FieldName:   fieldName,
				FileName:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Body:        file,
			})
		}
	}

	cmd = services.SubmitOrderCommand{
		OrderID:     orderID,
		ProductType: domain.ProductKind(productType),
		Values:      values,
		Files:       files,
	}
	return cmd, closers, nil
}

func closeAll(files []multipart.File) {
	for _, file := range files {
		_ = file.Close()
	}
}

func writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *services.DraftValidationError
	switch {
	case errors.As(err, &validationErr):
		httpx.WriteError(r.Context(), w, httpx.NewError("validation_failed", "required fields are missing", http.StatusUnprocessableEntity).
			WithDetails(map[string]any{"fields": validationErr.Result.Errors}))
	case errors.Is(err, domain.ErrUnknownProduct):
		httpx.WriteError(r.Context(), w, httpx.NewError("unknown_product", "unknown product kind", http.StatusBadRequest))
	case errors.Is(err, domain.ErrUnknownPaper):
		httpx.WriteError(r.Context(), w, httpx.NewError("unknown_paper", "unknown paper kind", http.StatusBadRequest))
	case storage.IsRejectedUpload(err):
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_upload", "attachments must be images or PDF and at most 10 MiB", http.StatusBadRequest))
	default:
		httpx.WriteError(r.Context(), w, httpx.NewError("order_failed", "order submission failed", http.StatusInternalServerError))
	}
}

func clientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}
