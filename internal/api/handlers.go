package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"benchfolio/pkg/benchfolio"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) createReport(w http.ResponseWriter, r *http.Request) {
	var payload createReportPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeErrorResponse(w, http.StatusBadRequest,
			benchfolio.WrapError(benchfolio.ErrCodeInvalidInput, "invalid request body", err))
		return
	}

	report, err := h.core.GenerateReport(r.Context(), benchfolio.GenerateReportRequest{
		Rows: payload.Rows,
		Params: benchfolio.ReportParams{
			ReferenceSymbol: payload.ReferenceSymbol,
			BenchmarkSymbol: payload.BenchmarkSymbol,
			Period:          payload.Period,
			Filter:          payload.Filter,
			Months:          payload.Months,
			IndexSymbols:    payload.IndexSymbols,
			AsOf:            payload.AsOf,
		},
	})
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, report)
}

func (h *handler) getReports(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseIntDefault(query.Get("limit"), 50)
	offset := parseIntDefault(query.Get("offset"), 0)

	summaries, err := h.core.GetReports(r.Context(), limit, offset)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, reportsResponse{Items: summaries, Limit: limit, Offset: offset})
}

func (h *handler) getReport(w http.ResponseWriter, r *http.Request) {
	id, err := parseReportID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	report, err := h.core.GetReport(r.Context(), id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, report)
}

func (h *handler) getReportChart(w http.ResponseWriter, r *http.Request) {
	id, err := parseReportID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	report, err := h.core.GetReport(r.Context(), id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	png, err := benchfolio.RenderValuationChart(report.Points, report.Params.BenchmarkSymbol)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *handler) createInsight(w http.ResponseWriter, r *http.Request) {
	id, err := parseReportID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	insight, err := h.core.GenerateInsight(r.Context(), id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, createInsightResponse{ReportID: id, Insight: insight})
}

func parseReportID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, benchfolio.NewError(benchfolio.ErrCodeInvalidInput, "invalid report id")
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}
