package model

import (
	"time"

	"gorm.io/datatypes"
)

// Event types
const (
	EventCheckInSubmitted      = "CHECK_IN_SUBMITTED"
	EventMissedCheckInResolved = "MISSED_CHECK_IN_RESOLVED"
)

// Event append-only fact, maps to events. Never updated.
type Event struct {
	EventID       string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	CompanyID     string         `gorm:"type:uuid;not null"                             json:"company_id"`
	WorkerID      *string        `gorm:"type:uuid"                                      json:"worker_id,omitempty"`
	EventType     string         `gorm:"type:varchar(50);not null"                      json:"event_type"`
	EntityType    string         `gorm:"type:varchar(50);not null"                      json:"entity_type"`
	Payload       datatypes.JSON `gorm:"type:jsonb;not null"                            json:"payload"`
	EventTime     time.Time      `gorm:"not null"                                       json:"event_time"`
	IsLate        bool           `gorm:"not null;default:false"                         json:"is_late"`
	LateByMinutes *int           `                                                      json:"late_by_minutes,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName table name
func (Event) TableName() string { return "events" }
