package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/report"
	"github.com/attendly/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	ExportCSV(w http.ResponseWriter, r *http.Request)
	ExportExcel(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}

// ExportCSV implements ReportHandler.
func (h *ReportHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := h.reportService.ExportCSV(r.Context(), identity, filterFromQuery(r))
	if err != nil {
		slog.Error("ExportCSV service error", "error", err)
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_report_%s.csv", time.Now().Format("20060102"))
	slog.Info("Attendance report exported", "format", "csv", "user_id", identity.ID)
	response.Attachment(w, filename, "text/csv", data)
}

// ExportExcel implements ReportHandler.
func (h *ReportHandlerImpl) ExportExcel(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := h.reportService.ExportExcel(r.Context(), identity, filterFromQuery(r))
	if err != nil {
		slog.Error("ExportExcel service error", "error", err)
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_report_%s.xlsx", time.Now().Format("20060102"))
	slog.Info("Attendance report exported", "format", "xlsx", "user_id", identity.ID)
	response.Attachment(w, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
