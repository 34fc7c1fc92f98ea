package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"sitetrack/internal/service"

	"go.uber.org/zap"
)

// ReportHandler serves the pivot/series reporting endpoints and the Excel
// export.
type ReportHandler struct {
	reports *service.ReportService
	logger  *zap.Logger
}

func NewReportHandler(reports *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// DailyProduction GET /site/api/v1/reports/daily-production-pivot?site_id=..&fromDate=..&toDate=..
func (h *ReportHandler) DailyProduction(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := h.reports.DailyProductionPivot(r.Context(), q.Get("site_id"), q.Get("fromDate"), q.Get("toDate"))
	if err != nil {
		h.logger.Warn("DailyProduction report failed", zap.String("site_id", q.Get("site_id")), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(records))
}

// ShiftSensors GET /site/api/v1/reports/shift-sensor-pivot?site_id=..&line_name=..&fromDate=..&toDate=..
func (h *ReportHandler) ShiftSensors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := h.reports.ShiftSensorPivot(r.Context(), q.Get("site_id"), q.Get("line_name"), q.Get("fromDate"), q.Get("toDate"))
	if err != nil {
		h.logger.Warn("ShiftSensors report failed", zap.String("site_id", q.Get("site_id")), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(records))
}

// Campaigns GET /site/api/v1/reports/campaigns?site_id=..&line_name=..
func (h *ReportHandler) Campaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	refs, err := h.reports.CampaignsBySite(r.Context(), q.Get("site_id"), q.Get("line_name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(refs))
}

// CampaignProduction GET /site/api/v1/reports/campaignwise-production?site_id=..&line_name=..&campaign=..
func (h *ReportHandler) CampaignProduction(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	points, err := h.reports.CampaignwiseProduction(r.Context(), q.Get("site_id"), q.Get("line_name"), q.Get("campaign"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(points))
}

// LifeAfterRepair GET /site/api/v1/reports/life-after-repair?site_id=..&line_name=..&campaign=..
func (h *ReportHandler) LifeAfterRepair(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	points, err := h.reports.LifeAfterRepairProduction(r.Context(), q.Get("site_id"), q.Get("line_name"), q.Get("campaign"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(points))
}

// ExportExcel GET /site/api/v1/reports/export?site_id=..&fromDate=..&toDate=..
// Streams the daily production pivot as an .xlsx workbook.
func (h *ReportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := h.reports.DailyProductionPivot(r.Context(), q.Get("site_id"), q.Get("fromDate"), q.Get("toDate"))
	if err != nil {
		h.logger.Warn("ExportExcel failed", zap.String("site_id", q.Get("site_id")), zap.Error(err))
		writeError(w, err)
		return
	}

	data, err := GenerateProductionReportExcel(records)
	if err != nil {
		h.logger.Error("ExportExcel workbook generation failed", zap.Error(err))
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("Production_Report_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
