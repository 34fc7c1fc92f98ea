package httpapi

import (
	"net/http"

	"sitetrack/internal/models"
	"sitetrack/internal/service"

	"go.uber.org/zap"
)

// SiteHandler serves the site master endpoints.
type SiteHandler struct {
	sites  *service.SiteService
	seq    *service.SequenceService
	logger *zap.Logger
}

func NewSiteHandler(sites *service.SiteService, seq *service.SequenceService, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{sites: sites, seq: seq, logger: logger}
}

// CreateSite POST /site/api/v1/sites
func (h *SiteHandler) CreateSite(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSiteRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	site, err := h.sites.CreateSite(r.Context(), req)
	if err != nil {
		h.logger.Warn("CreateSite failed",
			zap.String("customer_name", req.CustomerName),
			zap.String("location", req.Location),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(site))
}

// GetSite GET /site/api/v1/sites/{site_id}
func (h *SiteHandler) GetSite(w http.ResponseWriter, r *http.Request, siteID string) {
	site, err := h.sites.GetSite(r.Context(), siteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(site))
}

// ListSites GET /site/api/v1/sites?page=1&size=20
func (h *SiteHandler) ListSites(w http.ResponseWriter, r *http.Request) {
	page := parseInt(r.URL.Query().Get("page"), 1)
	size := parseInt(r.URL.Query().Get("size"), 20)

	sites, total, err := h.sites.ListSites(r.Context(), page, size)
	if err != nil {
		h.logger.Error("ListSites failed", zap.Error(err))
		writeError(w, err)
		return
	}

	result := map[string]any{
		"items": sites,
		"pagination": models.Pagination{
			Size:  size,
			Page:  page,
			Count: len(sites),
			Total: total,
		},
	}
	writeJSON(w, http.StatusOK, Ok(result))
}

// GenerateSiteID GET /site/api/v1/generate/site-id?customer_name=..&location=..&runner_id=..
func (h *SiteHandler) GenerateSiteID(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, err := h.seq.GenerateSiteID(r.Context(), q.Get("customer_name"), q.Get("location"), q.Get("runner_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"site_id": id}))
}

// GenerateRunnerID GET /site/api/v1/generate/runner-id
func (h *SiteHandler) GenerateRunnerID(w http.ResponseWriter, r *http.Request) {
	id, err := h.seq.GenerateRunnerID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"runner_id": id}))
}
