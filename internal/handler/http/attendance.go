package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	SubmitAbsence(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// Status implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	statusResponse, err := h.attendanceService.Status(r.Context(), identity)
	if err != nil {
		slog.Error("Status service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, statusResponse)
}

// CheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// An empty body means the client has no coordinates of its own
	var checkInReq attendance.CheckInRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&checkInReq); err != nil {
			slog.Error("CheckIn decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	record, err := h.attendanceService.CheckIn(r.Context(), identity, checkInReq)
	if err != nil {
		slog.Error("CheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Attendance marked", "user_id", identity.ID, "status", record.Status)
	response.Created(w, "Attendance marked successfully", record)
}

// CheckOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var checkOutReq attendance.CheckOutRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&checkOutReq); err != nil {
			slog.Error("CheckOut decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	record, err := h.attendanceService.CheckOut(r.Context(), identity, checkOutReq)
	if err != nil {
		slog.Error("CheckOut service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Checked out", "user_id", identity.ID)
	response.SuccessWithMessage(w, "Checked out successfully", record)
}

// SubmitAbsence implements AttendanceHandler.
func (h *AttendanceHandlerImpl) SubmitAbsence(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var absenceReq attendance.AbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&absenceReq); err != nil {
		slog.Error("SubmitAbsence decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := absenceReq.Validate(); err != nil {
		slog.Error("SubmitAbsence validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.SubmitAbsence(r.Context(), identity, absenceReq)
	if err != nil {
		slog.Error("SubmitAbsence service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Absence reported", "user_id", identity.ID, "date", absenceReq.Date)
	response.Created(w, "Absence reported successfully", record)
}

// GetMyAttendance implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	listResponse, err := h.attendanceService.GetMyAttendance(r.Context(), identity, filterFromQuery(r))
	if err != nil {
		slog.Error("GetMyAttendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, listResponse)
}

// List implements AttendanceHandler.
func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	listResponse, err := h.attendanceService.ListAttendance(r.Context(), identity, filterFromQuery(r))
	if err != nil {
		slog.Error("List service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, listResponse)
}

// Stats implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	statsResponse, err := h.attendanceService.Stats(r.Context(), identity, filterFromQuery(r))
	if err != nil {
		slog.Error("Stats service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, statsResponse)
}

// filterFromQuery maps the list query parameters onto a ledger filter.
// Absent parameters stay nil and impose no constraint.
func filterFromQuery(r *http.Request) attendance.Filter {
	var filter attendance.Filter

	q := r.URL.Query()
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("user_id"); v != "" {
		filter.UserID = &v
	}
	if v := q.Get("department"); v != "" {
		filter.Department = &v
	}

	return filter
}
