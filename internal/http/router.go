package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router wraps the standard library http.ServeMux (no third-party router
// dependency needed for a surface this size).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler supports the http.Handler interface (pprof etc).
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func methodGuard(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

func upsertGuard(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost && req.Method != http.MethodPatch {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterSiteRoutes wires the site master, identifier-generation and
// per-line repair transition endpoints.
func (r *Router) RegisterSiteRoutes(h *SiteHandler, c *CampaignHandler) {
	r.Handle("/site/api/v1/sites", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			h.CreateSite(w, req)
		case http.MethodGet:
			h.ListSites(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// sites/{site_id} and sites/{site_id}/lines/{line}/repair-status
	r.Handle("/site/api/v1/sites/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/site/api/v1/sites/")
		parts := strings.Split(rest, "/")
		switch {
		case len(parts) == 1 && parts[0] != "":
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.GetSite(w, req, parts[0])
		case len(parts) == 4 && parts[1] == "lines" && parts[3] == "repair-status":
			if req.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			c.ChangeRepairStatus(w, req, parts[0], parts[2])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	r.Handle("/site/api/v1/generate/site-id", methodGuard(http.MethodGet, h.GenerateSiteID))
	r.Handle("/site/api/v1/generate/runner-id", methodGuard(http.MethodGet, h.GenerateRunnerID))
}

// RegisterCampaignRoutes wires the campaign lifecycle endpoints.
func (r *Router) RegisterCampaignRoutes(h *CampaignHandler) {
	r.Handle("/site/api/v1/campaigns", methodGuard(http.MethodPost, h.CreateCampaign))
	r.Handle("/site/api/v1/campaigns/last", methodGuard(http.MethodGet, h.GetLastCampaign))
	r.Handle("/site/api/v1/campaigns/next", methodGuard(http.MethodGet, h.NextCampaign))
	r.Handle("/site/api/v1/generate/campaign-no", methodGuard(http.MethodGet, h.GenerateCampaignNo))
}

// RegisterRecordingRoutes wires the daily production and sensor reading
// entry endpoints. Saves accept POST and PATCH interchangeably because the
// operation is a keyed upsert either way.
func (r *Router) RegisterRecordingRoutes(h *RecordingHandler) {
	r.Handle("/site/api/v1/production/daily", upsertGuard(h.SaveDailyProduction))
	r.Handle("/site/api/v1/production/daily/submit", methodGuard(http.MethodPost, h.SubmitDailyProduction))
	r.Handle("/site/api/v1/readings", upsertGuard(h.SaveSensorReading))
	r.Handle("/site/api/v1/readings/submit", methodGuard(http.MethodPost, h.SubmitSensorReadings))
}

// RegisterReportRoutes wires the reporting and export endpoints.
func (r *Router) RegisterReportRoutes(h *ReportHandler) {
	r.Handle("/site/api/v1/reports/daily-production-pivot", methodGuard(http.MethodGet, h.DailyProduction))
	r.Handle("/site/api/v1/reports/shift-sensor-pivot", methodGuard(http.MethodGet, h.ShiftSensors))
	r.Handle("/site/api/v1/reports/campaigns", methodGuard(http.MethodGet, h.Campaigns))
	r.Handle("/site/api/v1/reports/campaignwise-production", methodGuard(http.MethodGet, h.CampaignProduction))
	r.Handle("/site/api/v1/reports/life-after-repair", methodGuard(http.MethodGet, h.LifeAfterRepair))
	r.Handle("/site/api/v1/reports/export", methodGuard(http.MethodGet, h.ExportExcel))
}
