package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/siraq-studio/api/internal/platform/httpx"
	"github.com/siraq-studio/api/internal/platform/storage"
	"github.com/siraq-studio/api/internal/services"
)

// maxProductRequestBytes caps the multipart product mutation request.
const maxProductRequestBytes = 8 << 20

// CatalogAdminHandlers exposes the authenticated showcase catalog endpoints.
type CatalogAdminHandlers struct {
	products services.ProductService
}

// NewCatalogAdminHandlers constructs the catalog admin endpoints.
func NewCatalogAdminHandlers(products services.ProductService) *CatalogAdminHandlers {
	return &CatalogAdminHandlers{products: products}
}

// Routes registers the catalog admin endpoints.
func (h *CatalogAdminHandlers) Routes(r chi.Router) {
	r.Get("/products", h.List)
	r.Post("/products", h.Create)
	r.Get("/products/{productID}", h.Get)
	r.Put("/products/{productID}", h.Update)
	r.Delete("/products/{productID}", h.Delete)
}

func (h *CatalogAdminHandlers) List(w http.ResponseWriter, r *http.Request) {
	if h.products == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "product service not configured", http.StatusServiceUnavailable))
		return
	}
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("products_unavailable", "failed to load products", http.StatusServiceUnavailable))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": products})
}

func (h *CatalogAdminHandlers) Get(w http.ResponseWriter, r *http.Request) {
	if h.products == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "product service not configured", http.StatusServiceUnavailable))
		return
	}
	product, err := h.products.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeProductError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, product)
}

func (h *CatalogAdminHandlers) Create(w http.ResponseWriter, r *http.Request) {
	if h.products == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "product service not configured", http.StatusServiceUnavailable))
		return
	}

	cmd, file, err := parseProductForm(w, r)
	if file != nil {
		defer file.Close()
	}
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	product, err := h.products.CreateProduct(r.Context(), cmd)
	if err != nil {
		writeProductError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, product)
}

func (h *CatalogAdminHandlers) Update(w http.ResponseWriter, r *http.Request) {
	if h.products == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "product service not configured", http.StatusServiceUnavailable))
		return
	}

	cmd, file, err := parseProductForm(w, r)
	if file != nil {
		defer file.Close()
	}
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), chi.URLParam(r, "productID"), cmd)
	if err != nil {
		writeProductError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, product)
}

func (h *CatalogAdminHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if h.products == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "product service not configured", http.StatusServiceUnavailable))
		return
	}
	if err := h.products.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
		writeProductError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseProductForm reads the multipart product mutation: name, price, and
// description fields plus an optional "image" file part.
func parseProductForm(w http.ResponseWriter, r *http.Request) (services.UpsertProductCommand, multipart.File, error) {
	var cmd services.UpsertProductCommand

	r.Body = http.MaxBytesReader(w, r.Body, maxProductRequestBytes)
	if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
		return cmd, nil, errors.New("request must be multipart/form-data")
	}

	cmd.Name = r.FormValue("name")
	cmd.Description = r.FormValue("description")

	rawPrice := strings.TrimSpace(r.FormValue("price"))
	if rawPrice != "" {
		price, err := strconv.ParseFloat(rawPrice, 64)
		if err != nil {
			return cmd, nil, errors.New("price must be a number")
		}
		cmd.Price = price
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return cmd, nil, nil
		}
		return cmd, nil, errors.New("failed to read image upload")
	}
	cmd.Image = &services.ImageUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return cmd, file, nil
}

func writeProductError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		httpx.WriteError(r.Context(), w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case errors.Is(err, services.ErrProductNameRequired),
		errors.Is(err, services.ErrProductPriceInvalid):
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case storage.IsRejectedUpload(err):
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_upload", "image must be png, jpeg, or webp and at most 5 MiB", http.StatusBadRequest))
	default:
		httpx.WriteError(r.Context(), w, httpx.NewError("catalog_update_failed", "catalog update failed", http.StatusInternalServerError))
	}
}
