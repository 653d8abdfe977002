package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/siraq-studio/api/internal/platform/auth"
	"github.com/siraq-studio/api/internal/platform/httpx"
	"github.com/siraq-studio/api/internal/platform/storage"
	"github.com/siraq-studio/api/internal/services"
)

const (
	// maxLogoRequestBytes caps the multipart logo upload request.
	maxLogoRequestBytes = 4 << 20
	maxAdminBodySize    = 16 * 1024
)

// BrandingAdminHandlers exposes the authenticated branding management endpoints.
type BrandingAdminHandlers struct {
	branding services.BrandingService
}

// NewBrandingAdminHandlers constructs the branding admin endpoints.
func NewBrandingAdminHandlers(branding services.BrandingService) *BrandingAdminHandlers {
	return &BrandingAdminHandlers{branding: branding}
}

// Routes registers the branding admin endpoints.
func (h *BrandingAdminHandlers) Routes(r chi.Router) {
	r.Get("/site-config", h.Get)
	r.Put("/site-config/logo", h.ReplaceLogo)
	r.Delete("/site-config/logo", h.RemoveLogo)
	r.Post("/site-config/logo:revert", h.RevertLogo)
	r.Patch("/site-config/contact", h.UpdateContact)
}

func (h *BrandingAdminHandlers) Get(w http.ResponseWriter, r *http.Request) {
	if h.branding == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "branding service not configured", http.StatusServiceUnavailable))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.branding.GetSiteConfig(r.Context()))
}

// ReplaceLogo accepts a multipart form with a single "logo" file part.
func (h *BrandingAdminHandlers) ReplaceLogo(w http.ResponseWriter, r *http.Request) {
	if h.branding == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "branding service not configured", http.StatusServiceUnavailable))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoRequestBytes)
	file, header, err := r.FormFile("logo")
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "multipart field 'logo' is required", http.StatusBadRequest))
		return
	}
	defer file.Close()

	branding, err := h.branding.ReplaceLogo(r.Context(), services.ReplaceLogoCommand{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
		UploadedBy:  adminActor(r),
	})
	if err != nil {
		writeBrandingError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, branding)
}

func (h *BrandingAdminHandlers) RemoveLogo(w http.ResponseWriter, r *http.Request) {
	if h.branding == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "branding service not configured", http.StatusServiceUnavailable))
		return
	}

	branding, err := h.branding.RemoveLogo(r.Context(), adminActor(r))
	if err != nil {
		writeBrandingError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, branding)
}

type revertLogoRequest struct {
	URL string `json:"url"`
}

func (h *BrandingAdminHandlers) RevertLogo(w http.ResponseWriter, r *http.Request) {
	if h.branding == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "branding service not configured", http.StatusServiceUnavailable))
		return
	}

	var req revertLogoRequest
	if err := decodeJSONBody(w, r, &req, maxAdminBodySize); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	branding, err := h.branding.RevertLogo(r.Context(), services.RevertLogoCommand{URL: req.URL})
	if err != nil {
		writeBrandingError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, branding)
}

type updateContactRequest struct {
	WhatsApp string `json:"whatsapp"`
}

func (h *BrandingAdminHandlers) UpdateContact(w http.ResponseWriter, r *http.Request) {
	if h.branding == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "branding service not configured", http.StatusServiceUnavailable))
		return
	}

	var req updateContactRequest
	if err := decodeJSONBody(w, r, &req, maxAdminBodySize); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	branding, err := h.branding.UpdateContact(r.Context(), req.WhatsApp)
	if err != nil {
		writeBrandingError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, branding)
}

func writeBrandingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrLogoUploadMissing),
		errors.Is(err, services.ErrLogoURLRequired),
		errors.Is(err, services.ErrContactRequired):
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case storage.IsRejectedUpload(err):
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_upload", "logo must be svg, png, jpeg, or webp and at most 2 MiB", http.StatusBadRequest))
	default:
		httpx.WriteError(r.Context(), w, httpx.NewError("branding_update_failed", "branding update failed", http.StatusInternalServerError))
	}
}

// adminActor resolves the acting administrator from the request identity.
func adminActor(r *http.Request) string {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		return ""
	}
	if identity.Email != "" {
		return identity.Email
	}
	return identity.UID
}
