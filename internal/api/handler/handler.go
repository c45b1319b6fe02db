package handler

import "github.com/giodelapiedra/AEGIRA-V4-sub001/internal/service"

// Handler aggregates every handler.
type Handler struct {
	CheckIn *CheckInHandler
	Holiday *HolidayHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		CheckIn: NewCheckInHandler(svc.CheckIn),
		Holiday: NewHolidayHandler(svc.Holiday),
	}
}
