package httpapi

import (
	"net/http"

	"sitetrack/internal/service"

	"go.uber.org/zap"
)

// CampaignHandler serves the campaign lifecycle endpoints.
type CampaignHandler struct {
	campaigns *service.CampaignService
	logger    *zap.Logger
}

func NewCampaignHandler(campaigns *service.CampaignService, logger *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, logger: logger}
}

// CreateCampaign POST /site/api/v1/campaigns
func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCampaignRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	c, err := h.campaigns.CreateCampaign(r.Context(), req)
	if err != nil {
		h.logger.Warn("CreateCampaign failed",
			zap.String("customer_name", req.CustomerName),
			zap.String("line_name", req.LineName),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(c))
}

// GenerateCampaignNo GET /site/api/v1/generate/campaign-no
func (h *CampaignHandler) GenerateCampaignNo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	no, err := h.campaigns.GenerateCampaignNumber(r.Context(),
		q.Get("customer_name"), q.Get("location"), q.Get("runner_id"), q.Get("line_name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"campaign_no": no}))
}

// GetLastCampaign GET /site/api/v1/campaigns/last
func (h *CampaignHandler) GetLastCampaign(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := h.campaigns.GetLastCampaign(r.Context(),
		q.Get("customer_name"), q.Get("location"), q.Get("runner_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	// nil means no campaign recorded yet; the client treats that as a
	// fresh cycle.
	writeJSON(w, http.StatusOK, Ok(c))
}

// NextCampaign GET /site/api/v1/campaigns/next
func (h *CampaignHandler) NextCampaign(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	decision, err := h.campaigns.NextCampaign(r.Context(),
		q.Get("customer_name"), q.Get("location"), q.Get("runner_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(decision))
}

// ChangeRepairStatus POST /site/api/v1/sites/{site_id}/lines/{line}/repair-status
func (h *CampaignHandler) ChangeRepairStatus(w http.ResponseWriter, r *http.Request, siteID, lineName string) {
	var req service.RepairTransitionRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.SiteID = siteID
	req.LineName = lineName

	line, err := h.campaigns.ChangeRepairStatus(r.Context(), req)
	if err != nil {
		h.logger.Warn("ChangeRepairStatus failed",
			zap.String("site_id", req.SiteID),
			zap.String("line_name", req.LineName),
			zap.String("repair_status", req.RepairStatus),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(line))
}
