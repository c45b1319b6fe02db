package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/dto"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/service"
	pkgerrors "github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/errors"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/response"
)

// HolidayHandler company holiday HTTP handlers
type HolidayHandler struct {
	holidaySvc service.HolidayService
	fetchICS   func(url string) (io.ReadCloser, error)
}

// NewHolidayHandler creates a HolidayHandler
func NewHolidayHandler(holidaySvc service.HolidayService) *HolidayHandler {
	return &HolidayHandler{holidaySvc: holidaySvc, fetchICS: service.FetchICSContent}
}

// ListHolidays lists the company's holidays
// GET /api/v1/holidays?year=2027
func (h *HolidayHandler) ListHolidays(c *gin.Context) {
	var req dto.HolidayListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid request parameters", validationDetails(err))
		return
	}

	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	holidays, err := h.holidaySvc.List(c.Request.Context(), companyID, req.Year)
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}

	response.OK(c, gin.H{"list": holidays})
}

// CreateHoliday adds a holiday
// POST /api/v1/holidays
func (h *HolidayHandler) CreateHoliday(c *gin.Context) {
	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid request parameters", validationDetails(err))
		return
	}

	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	holiday, err := h.holidaySvc.Create(c.Request.Context(), companyID, &req)
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}

	response.Created(c, holiday)
}

// DeleteHoliday removes a holiday
// DELETE /api/v1/holidays/:id
func (h *HolidayHandler) DeleteHoliday(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "holiday id is required")
		return
	}

	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	if err := h.holidaySvc.Delete(c.Request.Context(), companyID, id); err != nil {
		h.handleHolidayError(c, err)
		return
	}

	response.OK(c, nil)
}

// ImportHolidays imports an iCalendar feed, uploaded as "file" or fetched from "url"
// POST /api/v1/holidays/import
func (h *HolidayHandler) ImportHolidays(c *gin.Context) {
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var reader io.ReadCloser
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(c, 10001, "cannot read uploaded file")
			return
		}
		reader = f
	} else {
		var req dto.ImportHolidaysRequest
		if err := c.ShouldBind(&req); err != nil || req.URL == "" {
			response.BadRequest(c, 10001, "either a file or a url is required")
			return
		}
		r, err := h.fetchICS(req.URL)
		if err != nil {
			response.ErrorWithDetails(c, http.StatusBadGateway, 21004, "failed to fetch calendar", err.Error())
			return
		}
		reader = r
	}
	defer reader.Close()

	result, err := h.holidaySvc.ImportICS(c.Request.Context(), companyID, reader)
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}

	response.OK(c, result)
}

// handleHolidayError maps holiday errors to HTTP responses.
func (h *HolidayHandler) handleHolidayError(c *gin.Context, err error) {
	reason := pkgerrors.Code(err)
	switch {
	case errors.Is(err, service.ErrHolidayNotFound):
		response.ErrorWithReason(c, http.StatusNotFound, 21001, reason, err.Error())
	case errors.Is(err, service.ErrHolidayExists):
		response.ErrorWithReason(c, http.StatusConflict, 21002, reason, err.Error())
	case errors.Is(err, service.ErrInvalidHolidayDate), errors.Is(err, service.ErrInvalidCalendar):
		response.ErrorWithReason(c, http.StatusBadRequest, 21003, reason, err.Error())
	case errors.Is(err, service.ErrCompanyNotFound):
		response.ErrorWithReason(c, http.StatusNotFound, 20009, reason, err.Error())
	default:
		response.InternalError(c)
	}
}
