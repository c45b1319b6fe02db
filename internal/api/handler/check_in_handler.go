package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/dto"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/service"
	pkgerrors "github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/errors"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/response"
)

// CheckInHandler check-in HTTP handlers
type CheckInHandler struct {
	checkInSvc service.CheckInService
}

// NewCheckInHandler creates a CheckInHandler
func NewCheckInHandler(checkInSvc service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInSvc: checkInSvc}
}

// Submit submits today's check-in
// POST /api/v1/check-ins
func (h *CheckInHandler) Submit(c *gin.Context) {
	var req dto.SubmitCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid request parameters", validationDetails(err))
		return
	}

	workerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	result, err := h.checkInSvc.Submit(c.Request.Context(), &req, workerID, companyID)
	if err != nil {
		h.handleCheckInError(c, err)
		return
	}

	response.Created(c, result)
}

// GetStatus whether the caller can check in right now
// GET /api/v1/check-ins/status
func (h *CheckInHandler) GetStatus(c *gin.Context) {
	workerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	status, err := h.checkInSvc.GetStatus(c.Request.Context(), workerID, companyID)
	if err != nil {
		h.handleCheckInError(c, err)
		return
	}

	response.OK(c, status)
}

// GetToday today's check-in of the caller
// GET /api/v1/check-ins/today
func (h *CheckInHandler) GetToday(c *gin.Context) {
	workerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	checkIn, err := h.checkInSvc.GetToday(c.Request.Context(), workerID, companyID)
	if err != nil {
		h.handleCheckInError(c, err)
		return
	}

	response.OK(c, checkIn)
}

// ListHistory the caller's check-ins, newest first
// GET /api/v1/check-ins/history
func (h *CheckInHandler) ListHistory(c *gin.Context) {
	var req dto.CheckInHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid request parameters", validationDetails(err))
		return
	}

	workerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	list, total, err := h.checkInSvc.ListHistory(c.Request.Context(), workerID, &req)
	if err != nil {
		h.handleCheckInError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// handleCheckInError maps check-in errors to HTTP responses.
// Business errors keep their stable code in "reason".
func (h *CheckInHandler) handleCheckInError(c *gin.Context, err error) {
	reason := pkgerrors.Code(err)
	switch {
	case errors.Is(err, service.ErrHoliday):
		response.ErrorWithReason(c, http.StatusUnprocessableEntity, 20001, reason, err.Error())
	case errors.Is(err, service.ErrAccountInactive):
		response.ErrorWithReason(c, http.StatusForbidden, 20002, reason, err.Error())
	case errors.Is(err, service.ErrNoTeamAssigned):
		response.ErrorWithReason(c, http.StatusUnprocessableEntity, 20003, reason, err.Error())
	case errors.Is(err, service.ErrTeamInactive):
		response.ErrorWithReason(c, http.StatusUnprocessableEntity, 20004, reason, err.Error())
	case errors.Is(err, service.ErrNotWorkDay):
		response.ErrorWithReason(c, http.StatusUnprocessableEntity, 20005, reason, err.Error())
	case errors.Is(err, service.ErrOutsideCheckInWindow):
		response.ErrorWithReason(c, http.StatusUnprocessableEntity, 20006, reason, err.Error())
	case errors.Is(err, service.ErrDuplicateCheckIn):
		response.ErrorWithReason(c, http.StatusConflict, 20007, reason, err.Error())
	case errors.Is(err, service.ErrCheckInNotFound):
		response.ErrorWithReason(c, http.StatusNotFound, 20008, reason, err.Error())
	case errors.Is(err, service.ErrCompanyNotFound):
		response.ErrorWithReason(c, http.StatusNotFound, 20009, reason, err.Error())
	default:
		response.InternalError(c)
	}
}
