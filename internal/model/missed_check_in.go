package model

import "time"

// MissedCheckIn maps to missed_check_ins. UNIQUE (worker_id, missed_date).
// Written by the external detector (unresolved) and by the reconciler (resolved);
// ResolvedByCheckInID and ResolvedAt are set together, exactly once. Rows are never deleted.
type MissedCheckIn struct {
	MissedCheckInID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"missed_check_in_id"`
	CompanyID           string     `gorm:"type:uuid;not null"                             json:"company_id"`
	WorkerID            string     `gorm:"type:uuid;not null"                             json:"worker_id"`
	TeamID              *string    `gorm:"type:uuid"                                      json:"team_id,omitempty"`
	MissedDate          time.Time  `gorm:"type:date;not null"                             json:"missed_date"`
	ScheduleWindow      string     `gorm:"type:varchar(11);not null"                      json:"schedule_window"` // "06:00-10:00"
	ResolvedByCheckInID *string    `gorm:"type:uuid"                                      json:"resolved_by_check_in_id,omitempty"`
	ResolvedAt          *time.Time `                                                      json:"resolved_at,omitempty"`
	CreatedAt           time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName table name
func (MissedCheckIn) TableName() string { return "missed_check_ins" }

// IsResolved reports whether a late check-in has been linked to this miss.
func (m *MissedCheckIn) IsResolved() bool {
	return m.ResolvedAt != nil
}
