package httpapi

import (
	"net/http"

	"sitetrack/internal/service"

	"go.uber.org/zap"
)

// RecordingHandler serves the daily production and sensor reading entry
// endpoints.
type RecordingHandler struct {
	recording *service.RecordingService
	logger    *zap.Logger
}

func NewRecordingHandler(recording *service.RecordingService, logger *zap.Logger) *RecordingHandler {
	return &RecordingHandler{recording: recording, logger: logger}
}

// SaveDailyProduction POST /site/api/v1/production/daily
func (h *RecordingHandler) SaveDailyProduction(w http.ResponseWriter, r *http.Request) {
	var req service.SaveDailyProductionRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	row, err := h.recording.SaveDailyProduction(r.Context(), req)
	if err != nil {
		h.logger.Warn("SaveDailyProduction failed",
			zap.String("site_id", req.SiteID),
			zap.String("line_name", req.LineName),
			zap.String("production_date", req.ProductionDate),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(row))
}

type submitDailyRequest struct {
	SiteID string `json:"site_id"`
	Date   string `json:"date"`
}

// SubmitDailyProduction POST /site/api/v1/production/daily/submit
func (h *RecordingHandler) SubmitDailyProduction(w http.ResponseWriter, r *http.Request) {
	var req submitDailyRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	n, err := h.recording.SubmitDailyProduction(r.Context(), req.SiteID, req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"submitted": n}))
}

// SaveSensorReading POST /site/api/v1/readings
func (h *RecordingHandler) SaveSensorReading(w http.ResponseWriter, r *http.Request) {
	var req service.SaveSensorReadingRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	row, err := h.recording.SaveSensorReading(r.Context(), req)
	if err != nil {
		h.logger.Warn("SaveSensorReading failed",
			zap.String("site_id", req.SiteID),
			zap.String("line_name", req.LineName),
			zap.String("sensor_name", req.SensorName),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(row))
}

type submitReadingsRequest struct {
	SiteID    string `json:"site_id"`
	LineName  string `json:"line_name"`
	Date      string `json:"date"`
	ShiftCode string `json:"shift_code"`
}

// SubmitSensorReadings POST /site/api/v1/readings/submit
func (h *RecordingHandler) SubmitSensorReadings(w http.ResponseWriter, r *http.Request) {
	var req submitReadingsRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	n, err := h.recording.SubmitSensorReadings(r.Context(), req.SiteID, req.LineName, req.Date, req.ShiftCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"submitted": n}))
}
