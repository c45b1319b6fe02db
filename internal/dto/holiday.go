package dto

// ── holiday requests ──

// CreateHolidayRequest create a company holiday
type CreateHolidayRequest struct {
	Date        string `json:"date"         binding:"required,datetime=2006-01-02"`
	Name        string `json:"name"         binding:"required,min=1,max=200"`
	IsRecurring bool   `json:"is_recurring"`
}

// HolidayListRequest list query
type HolidayListRequest struct {
	Year int `form:"year" binding:"omitempty,min=1970,max=9999"`
}

// ImportHolidaysRequest ICS import by URL (file uploads use multipart field "file")
type ImportHolidaysRequest struct {
	URL string `json:"url" form:"url" binding:"omitempty,url"`
}

// ── holiday responses ──

// HolidayResponse a company holiday
type HolidayResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Name        string `json:"name"`
	IsRecurring bool   `json:"is_recurring"`
}

// ImportHolidaysResponse import summary
type ImportHolidaysResponse struct {
	Parsed   int   `json:"parsed"`
	Upserted int64 `json:"upserted"`
}
