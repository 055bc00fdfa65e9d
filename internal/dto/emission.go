package dto

import "carbon-insights/internal/service"

// MonthlyPoint is one month of a series; Month is YYYY-MM-DD (first day).
type MonthlyPoint struct {
	Month string  `json:"month" example:"2024-01-01"`
	Value float64 `json:"value" example:"12.5"`
}

type SeriesResponse struct {
	Data []MonthlyPoint `json:"data"`
}

type RowRejectionResponse struct {
	Line   int    `json:"line"`
	Reason string `json:"reason" example:"invalid_date"`
	Detail string `json:"detail,omitempty"`
}

type ImportReportResponse struct {
	OrganizationID int64                  `json:"organization_id"`
	Imported       int                    `json:"imported"`
	Rejected       int                    `json:"rejected"`
	Rejections     []RowRejectionResponse `json:"rejections"`
}

func NewSeriesResponse(points []service.MonthlyPoint) SeriesResponse {
	data := make([]MonthlyPoint, len(points))
	for i, p := range points {
		data[i] = MonthlyPoint{Month: p.Month.Format("2006-01-02"), Value: p.Value}
	}
	return SeriesResponse{Data: data}
}

func NewImportReportResponse(report *service.ImportReport) ImportReportResponse {
	rejections := make([]RowRejectionResponse, len(report.Rejected))
	for i, r := range report.Rejected {
		rejections[i] = RowRejectionResponse{Line: r.Line, Reason: string(r.Reason), Detail: r.Detail}
	}
	return ImportReportResponse{
		OrganizationID: report.OrganizationID,
		Imported:       report.Imported,
		Rejected:       len(report.Rejected),
		Rejections:     rejections,
	}
}
