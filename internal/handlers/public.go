package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/siraq-studio/api/internal/domain"
	"github.com/siraq-studio/api/internal/platform/httpx"
	"github.com/siraq-studio/api/internal/services"
)

const (
	siteConfigCacheControl    = "public, max-age=60"
	productCacheControl       = "public, max-age=300"
	productConfigCacheControl = "public, max-age=3600"
	maxQuoteBodySize          = 16 * 1024
)

// PublicHandlers exposes the unauthenticated endpoints the marketing site and
// order wizard consume.
type PublicHandlers struct {
	catalog  services.CatalogService
	branding services.BrandingService
	products services.ProductService
	orders   services.OrderService
}

// PublicOption customises construction of PublicHandlers.
type PublicOption func(*PublicHandlers)

// WithPublicCatalogService injects the wizard catalog dependency.
func WithPublicCatalogService(svc services.CatalogService) PublicOption {
	return func(h *PublicHandlers) {
		h.catalog = svc
	}
}

// WithPublicBrandingService injects the site branding dependency.
func WithPublicBrandingService(svc services.BrandingService) PublicOption {
	return func(h *PublicHandlers) {
		h.branding = svc
	}
}

// WithPublicProductService injects the showcase catalog dependency.
func WithPublicProductService(svc services.ProductService) PublicOption {
	return func(h *PublicHandlers) {
		h.products = svc
	}
}

// WithPublicOrderService injects the order pricing dependency.
func WithPublicOrderService(svc services.OrderService) PublicOption {
	return func(h *PublicHandlers) {
		h.orders = svc
	}
}

// NewPublicHandlers constructs handlers for the public endpoints.
func NewPublicHandlers(opts ...PublicOption) *PublicHandlers {
	h := &PublicHandlers{}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Routes registers the public endpoints.
func (h *PublicHandlers) Routes(r chi.Router) {
	r.Get("/site-config", h.SiteConfig)
	r.Get("/products", h.ListProducts)
	r.Get("/product-configs", h.ListProductConfigs)
	r.Get("/product-configs/{productKind}", h.GetProductConfig)
	r.Get("/paper-options", h.ListPaperOptions)
	r.Post("/orders:quote", h.Quote)
	r.Post("/orders:validate", h.Validate)
}

// SiteConfig returns the branding snapshot the public site renders.
func (h *PublicHandlers) SiteConfig(w http.ResponseWriter, r *http.Request) {
	if h.branding == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "branding service not configured", http.StatusServiceUnavailable))
		return
	}
	w.Header().Set("Cache-Control", siteConfigCacheControl)
	httpx.WriteJSON(w, http.StatusOK, h.branding.GetSiteConfig(r.Context()))
}

type publicProduct struct {
	domain.CatalogProduct
	OrderLink string `json:"orderLink"`
}

// ListProducts returns the showcase catalog with a per-product WhatsApp
// order link.
func (h *PublicHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	if h.products == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "product service not configured", http.StatusServiceUnavailable))
		return
	}

	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("products_unavailable", "failed to load products", http.StatusServiceUnavailable))
		return
	}

	contact := domain.DefaultWhatsAppNumber
	if h.branding != nil {
		contact = h.branding.GetSiteConfig(r.Context()).WhatsApp
	}

	out := make([]publicProduct, 0, len(products))
	for _, product := range products {
		out = append(out, publicProduct{
			CatalogProduct: product,
			OrderLink:      domain.ProductOrderLink(product.Name, product.Price, contact),
		})
	}

	w.Header().Set("Cache-Control", productCacheControl)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

// ListProductConfigs returns every wizard product definition.
func (h *PublicHandlers) ListProductConfigs(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "catalog service not configured", http.StatusServiceUnavailable))
		return
	}
	configs, err := h.catalog.ListProductConfigs(r.Context())
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("catalog_unavailable", "failed to load product configs", http.StatusServiceUnavailable))
		return
	}
	w.Header().Set("Cache-Control", productConfigCacheControl)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": configs})
}

// GetProductConfig returns one wizard product definition.
func (h *PublicHandlers) GetProductConfig(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "catalog service not configured", http.StatusServiceUnavailable))
		return
	}

	kind := domain.ProductKind(strings.TrimSpace(chi.URLParam(r, "productKind")))
	config, err := h.catalog.GetProductConfig(r.Context(), kind)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownProduct) {
			httpx.WriteError(r.Context(), w, httpx.NewError("unknown_product", "unknown product kind", http.StatusNotFound))
			return
		}
		httpx.WriteError(r.Context(), w, httpx.NewError("catalog_unavailable", "failed to load product config", http.StatusServiceUnavailable))
		return
	}
	w.Header().Set("Cache-Control", productConfigCacheControl)
	httpx.WriteJSON(w, http.StatusOK, config)
}

// ListPaperOptions returns the paper tiers and their surcharges.
func (h *PublicHandlers) ListPaperOptions(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "catalog service not configured", http.StatusServiceUnavailable))
		return
	}
	options, err := h.catalog.ListPaperOptions(r.Context())
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("catalog_unavailable", "failed to load paper options", http.StatusServiceUnavailable))
		return
	}
	w.Header().Set("Cache-Control", productConfigCacheControl)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": options})
}

type quoteRequest struct {
	ProductType string        `json:"productType"`
	Quantity    quoteQuantity `json:"quantity"`
	PaperType   string        `json:"paperType"`
}

// quoteQuantity tolerates the quantity arriving as a JSON number or a
// string. Anything unreadable decodes to the empty string so the coercion
// rules downstream apply instead of a parse rejection.
type quoteQuantity string

func (q *quoteQuantity) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*q = quoteQuantity(asString)
		return nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err == nil {
		*q = quoteQuantity(asNumber.String())
		return nil
	}
	*q = ""
	return nil
}

// Quote recomputes pricing for the wizard's current inputs.
func (h *PublicHandlers) Quote(w http.ResponseWriter, r *http.Request) {
	if h.orders == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "order service not configured", http.StatusServiceUnavailable))
		return
	}

	var req quoteRequest
	if err := decodeJSONBody(w, r, &req, maxQuoteBodySize); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	pricing, err := h.orders.Quote(r.Context(), services.QuoteRequest{
		ProductType: domain.ProductKind(strings.TrimSpace(req.ProductType)),
		Quantity:    string(req.Quantity),
		PaperType:   req.PaperType,
	})
	if err != nil {
		writePricingError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pricing)
}

type validateRequest struct {
	ProductType string            `json:"productType"`
	Values      map[string]string `json:"values"`
}

// Validate checks the wizard's field values against the product schema.
func (h *PublicHandlers) Validate(w http.ResponseWriter, r *http.Request) {
	if h.orders == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "order service not configured", http.StatusServiceUnavailable))
		return
	}

	var req validateRequest
	if err := decodeJSONBody(w, r, &req, maxQuoteBodySize); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	result, err := h.orders.ValidateDraft(r.Context(), services.ValidateRequest{
		ProductType: domain.ProductKind(strings.TrimSpace(req.ProductType)),
		Values:      req.Values,
	})
	if err != nil {
		writePricingError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

func writePricingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownProduct):
		httpx.WriteError(r.Context(), w, httpx.NewError("unknown_product", "unknown product kind", http.StatusBadRequest))
	case errors.Is(err, domain.ErrUnknownPaper):
		httpx.WriteError(r.Context(), w, httpx.NewError("unknown_paper", "unknown paper kind", http.StatusBadRequest))
	default:
		httpx.WriteError(r.Context(), w, httpx.NewError("internal_error", "pricing failed", http.StatusInternalServerError))
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, target any, maxBytes int64) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	return json.NewDecoder(body).Decode(target)
}
