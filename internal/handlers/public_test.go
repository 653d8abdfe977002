package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	domain "github.com/siraq-studio/api/internal/domain"
	"github.com/siraq-studio/api/internal/services"
)

type stubCatalogService struct {
	configs    []services.ProductConfig
	configsErr error
	config     services.ProductConfig
	configErr  error
	papers     []services.PaperOption
	papersErr  error

	requestedKind services.ProductKind
}

func (s *stubCatalogService) ListProductConfigs(context.Context) ([]services.ProductConfig, error) {
	return s.configs, s.configsErr
}

func (s *stubCatalogService) GetProductConfig(_ context.Context, kind services.ProductKind) (services.ProductConfig, error) {
	s.requestedKind = kind
	return s.config, s.configErr
}

func (s *stubCatalogService) ListPaperOptions(context.Context) ([]services.PaperOption, error) {
	return s.papers, s.papersErr
}

type stubBrandingService struct {
	branding services.SiteBranding

	replaceCmd services.ReplaceLogoCommand
	replaceErr error
	removedBy  string
	removeErr  error
	revertCmd  services.RevertLogoCommand
	revertErr  error
	contact    string
	contactErr error
}

func (s *stubBrandingService) GetSiteConfig(context.Context) services.SiteBranding {
	return s.branding
}

func (s *stubBrandingService) ReplaceLogo(_ context.Context, cmd services.ReplaceLogoCommand) (services.SiteBranding, error) {
	s.replaceCmd = cmd
	return s.branding, s.replaceErr
}

func (s *stubBrandingService) RemoveLogo(_ context.Context, removedBy string) (services.SiteBranding, error) {
	s.removedBy = removedBy
	return s.branding, s.removeErr
}

func (s *stubBrandingService) RevertLogo(_ context.Context, cmd services.RevertLogoCommand) (services.SiteBranding, error) {
	s.revertCmd = cmd
	return s.branding, s.revertErr
}

func (s *stubBrandingService) UpdateContact(_ context.Context, whatsapp string) (services.SiteBranding, error) {
	s.contact = whatsapp
	return s.branding, s.contactErr
}

type stubProductService struct {
	products []services.CatalogProduct
	listErr  error

	product   services.CatalogProduct
	getErr    error
	getID     string
	createCmd services.UpsertProductCommand
	createErr error
	updateID  string
	updateCmd services.UpsertProductCommand
	updateErr error
	deleteID  string
	deleteErr error
}

func (s *stubProductService) ListProducts(context.Context) ([]services.CatalogProduct, error) {
	return s.products, s.listErr
}

func (s *stubProductService) GetProduct(_ context.Context, productID string) (services.CatalogProduct, error) {
	s.getID = productID
	return s.product, s.getErr
}

func (s *stubProductService) CreateProduct(_ context.Context, cmd services.UpsertProductCommand) (services.CatalogProduct, error) {
	s.createCmd = cmd
	return s.product, s.createErr
}

func (s *stubProductService) UpdateProduct(_ context.Context, productID string, cmd services.UpsertProductCommand) (services.CatalogProduct, error) {
	s.updateID = productID
	s.updateCmd = cmd
	return s.product, s.updateErr
}

func (s *stubProductService) DeleteProduct(_ context.Context, productID string) error {
	s.deleteID = productID
	return s.deleteErr
}

type stubOrderService struct {
	quoteReq  services.QuoteRequest
	quoteResp services.PricingDetails
	quoteErr  error

	validateReq  services.ValidateRequest
	validateResp services.ValidationResult
	validateErr  error

	submitCmd  services.SubmitOrderCommand
	submitResp services.OrderSubmission
	submitErr  error
}

func (s *stubOrderService) Quote(_ context.Context, req services.QuoteRequest) (services.PricingDetails, error) {
	s.quoteReq = req
	return s.quoteResp, s.quoteErr
}

func (s *stubOrderService) ValidateDraft(_ context.Context, req services.ValidateRequest) (services.ValidationResult, error) {
	s.validateReq = req
	return s.validateResp, s.validateErr
}

func (s *stubOrderService) Submit(_ context.Context, cmd services.SubmitOrderCommand) (services.OrderSubmission, error) {
	s.submitCmd = cmd
	return s.submitResp, s.submitErr
}

func newPublicRouter(h *PublicHandlers) chi.Router {
	router := chi.NewRouter()
	h.Routes(router)
	return router
}

func TestPublicHandlers_SiteConfig(t *testing.T) {
	branding := &stubBrandingService{branding: services.SiteBranding{
		WhatsApp: "+91 91234 56789",
		LogoURL:  "https://storage.googleapis.com/siraq-assets/site/logo/1_logo.svg",
	}}
	router := newPublicRouter(NewPublicHandlers(WithPublicBrandingService(branding)))

	req := httptest.NewRequest(http.MethodGet, "/site-config", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Cache-Control"); got != siteConfigCacheControl {
		t.Fatalf("expected cache control %q, got %q", siteConfigCacheControl, got)
	}
	var decoded services.SiteBranding
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decoded.WhatsApp != "+91 91234 56789" {
		t.Fatalf("expected contact echoed, got %q", decoded.WhatsApp)
	}
}

func TestPublicHandlers_ListProductsIncludesOrderLink(t *testing.T) {
	products := &stubProductService{products: []services.CatalogProduct{
		{ID: "p1", Name: "Wedding Card Set", Price: 1500, Description: "Premium cards"},
	}}
	branding := &stubBrandingService{branding: services.SiteBranding{WhatsApp: "+91 91234 56789"}}
	router := newPublicRouter(NewPublicHandlers(
		WithPublicProductService(products),
		WithPublicBrandingService(branding),
	))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var decoded struct {
		Items []struct {
			ID        string `json:"id"`
			OrderLink string `json:"orderLink"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(decoded.Items) != 1 {
		t.Fatalf("expected one product, got %d", len(decoded.Items))
	}
	link := decoded.Items[0].OrderLink
	if !strings.HasPrefix(link, "https://wa.me/919123456789?text=") {
		t.Fatalf("expected wa.me link for configured contact, got %q", link)
	}
	if !strings.Contains(link, "Wedding") {
		t.Fatalf("expected product name in link, got %q", link)
	}
}

func TestPublicHandlers_GetProductConfig(t *testing.T) {
	catalog := &stubCatalogService{}
	catalog.config, _ = domain.ProductConfigFor(domain.ProductWeddingCard)
	router := newPublicRouter(NewPublicHandlers(WithPublicCatalogService(catalog)))

	req := httptest.NewRequest(http.MethodGet, "/product-configs/wedding-card", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if catalog.requestedKind != domain.ProductKind("wedding-card") {
		t.Fatalf("expected path kind forwarded, got %q", catalog.requestedKind)
	}
}

func TestPublicHandlers_GetProductConfigUnknown(t *testing.T) {
	catalog := &stubCatalogService{configErr: domain.ErrUnknownProduct}
	router := newPublicRouter(NewPublicHandlers(WithPublicCatalogService(catalog)))

	req := httptest.NewRequest(http.MethodGet, "/product-configs/mug", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown kind, got %d", resp.Code)
	}
}

func TestPublicHandlers_ListPaperOptions(t *testing.T) {
	catalog := &stubCatalogService{papers: domain.PaperOptions()}
	router := newPublicRouter(NewPublicHandlers(WithPublicCatalogService(catalog)))

	req := httptest.NewRequest(http.MethodGet, "/paper-options", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var decoded struct {
		Items []services.PaperOption `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(decoded.Items) != 3 {
		t.Fatalf("expected three paper tiers, got %d", len(decoded.Items))
	}
}

func TestPublicHandlers_Quote(t *testing.T) {
	orders := &stubOrderService{quoteResp: services.PricingDetails{
		BasePrice:      20,
		Quantity:       100,
		PaperKind:      domain.PaperPremium,
		PaperSurcharge: 5,
		UnitPrice:      25,
		TotalPrice:     2500,
	}}
	router := newPublicRouter(NewPublicHandlers(WithPublicOrderService(orders)))

	payload, _ := json.Marshal(map[string]string{
		"productType": "wedding-card",
		"quantity":    "100",
		"paperType":   "premium",
	})
	req := httptest.NewRequest(http.MethodPost, "/orders:quote", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if orders.quoteReq.ProductType != domain.ProductKind("wedding-card") {
		t.Fatalf("expected product kind forwarded, got %q", orders.quoteReq.ProductType)
	}
	var decoded services.PricingDetails
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decoded.TotalPrice != 2500 {
		t.Fatalf("expected total 2500, got %d", decoded.TotalPrice)
	}
}

func TestPublicHandlers_QuoteNumericQuantity(t *testing.T) {
	orders := &stubOrderService{quoteResp: services.PricingDetails{TotalPrice: 250}}
	router := newPublicRouter(NewPublicHandlers(WithPublicOrderService(orders)))

	// The wizard sends quantity as a bare JSON number.
	body := `{"productType":"wedding-card","quantity":10,"paperType":"premium"}`
	req := httptest.NewRequest(http.MethodPost, "/orders:quote", bytes.NewBufferString(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for numeric quantity, got %d: %s", resp.Code, resp.Body.String())
	}
	if orders.quoteReq.Quantity != "10" {
		t.Fatalf("expected quantity forwarded as %q, got %q", "10", orders.quoteReq.Quantity)
	}
}

func TestPublicHandlers_QuoteUnreadableQuantity(t *testing.T) {
	orders := &stubOrderService{quoteResp: services.PricingDetails{Quantity: 1}}
	router := newPublicRouter(NewPublicHandlers(WithPublicOrderService(orders)))

	body := `{"productType":"poster","quantity":[2],"paperType":"standard"}`
	req := httptest.NewRequest(http.MethodPost, "/orders:quote", bytes.NewBufferString(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected unreadable quantity coerced, got %d: %s", resp.Code, resp.Body.String())
	}
	if orders.quoteReq.Quantity != "" {
		t.Fatalf("expected empty quantity for coercion downstream, got %q", orders.quoteReq.Quantity)
	}
}

func TestPublicHandlers_QuoteUnknownProduct(t *testing.T) {
	orders := &stubOrderService{quoteErr: domain.ErrUnknownProduct}
	router := newPublicRouter(NewPublicHandlers(WithPublicOrderService(orders)))

	req := httptest.NewRequest(http.MethodPost, "/orders:quote", bytes.NewBufferString(`{"productType":"mug"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown product, got %d", resp.Code)
	}
}

func TestPublicHandlers_QuoteInvalidJSON(t *testing.T) {
	orders := &stubOrderService{}
	router := newPublicRouter(NewPublicHandlers(WithPublicOrderService(orders)))

	req := httptest.NewRequest(http.MethodPost, "/orders:quote", bytes.NewBufferString(`{"productType":`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid json, got %d", resp.Code)
	}
}

func TestPublicHandlers_Validate(t *testing.T) {
	orders := &stubOrderService{validateResp: services.ValidationResult{
		Valid:  false,
		Errors: map[string]string{"venue": "Venue is required"},
	}}
	router := newPublicRouter(NewPublicHandlers(WithPublicOrderService(orders)))

	payload, _ := json.Marshal(map[string]any{
		"productType": "wedding-card",
		"values":      map[string]string{"brideName": "Aisha"},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders:validate", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if orders.validateReq.Values["brideName"] != "Aisha" {
		t.Fatalf("expected values forwarded, got %#v", orders.validateReq.Values)
	}
	var decoded services.ValidationResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decoded.Valid || decoded.Errors["venue"] == "" {
		t.Fatalf("expected validation errors echoed, got %#v", decoded)
	}
}

func TestPublicHandlers_ServiceUnavailable(t *testing.T) {
	router := newPublicRouter(NewPublicHandlers())

	for _, path := range []string{"/site-config", "/products", "/product-configs", "/paper-options"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503 for %s without services, got %d", path, resp.Code)
		}
	}
}

func TestPublicHandlers_ListProductsRepositoryFailure(t *testing.T) {
	products := &stubProductService{listErr: errors.New("firestore down")}
	router := newPublicRouter(NewPublicHandlers(WithPublicProductService(products)))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when listing fails, got %d", resp.Code)
	}
}
