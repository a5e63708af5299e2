package api

import "benchfolio/pkg/benchfolio"

type createReportPayload struct {
	Rows            []benchfolio.RawRow `json:"rows"`
	ReferenceSymbol string              `json:"reference_symbol"`
	BenchmarkSymbol string              `json:"benchmark_symbol"`
	Period          string              `json:"period"`
	Filter          string              `json:"filter"`
	Months          int                 `json:"months"`
	IndexSymbols    []string            `json:"index_symbols"`
	AsOf            string              `json:"as_of"`
}

type createInsightResponse struct {
	ReportID int64  `json:"report_id"`
	Insight  string `json:"insight"`
}

type reportsResponse struct {
	Items  []benchfolio.ReportSummary `json:"items"`
	Limit  int                        `json:"limit"`
	Offset int                        `json:"offset"`
}
