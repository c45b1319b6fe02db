package model

import "time"

// Holiday company holiday, maps to holidays.
// A recurring holiday matches the same month/day every year.
type Holiday struct {
	HolidayID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"holiday_id"`
	CompanyID   string    `gorm:"type:uuid;not null"                             json:"company_id"`
	HolidayDate time.Time `gorm:"type:date;not null"                             json:"holiday_date"`
	Name        string    `gorm:"type:varchar(200);not null"                     json:"name"`
	IsRecurring bool      `gorm:"not null;default:false"                         json:"is_recurring"`
	Timestamps
}

// TableName table name
func (Holiday) TableName() string { return "holidays" }
