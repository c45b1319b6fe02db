package model

import "time"

// Readiness levels
const (
	ReadinessGreen  = "GREEN"
	ReadinessYellow = "YELLOW"
	ReadinessRed    = "RED"
)

// CheckInPerDayConstraint is the database constraint behind one check-in per worker per day.
const CheckInPerDayConstraint = "uk_check_ins_worker_date"

// CheckIn daily check-in, maps to check_ins.
// UNIQUE (worker_id, check_in_date) is enforced by the database; rows are never updated.
type CheckIn struct {
	CheckInID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"check_in_id"`
	CompanyID         string    `gorm:"type:uuid;not null"                             json:"company_id"`
	WorkerID          string    `gorm:"type:uuid;not null"                             json:"worker_id"`
	EventID           string    `gorm:"type:uuid;not null"                             json:"event_id"`
	CheckInDate       time.Time `gorm:"type:date;not null"                             json:"check_in_date"`
	HoursSlept        float64   `gorm:"type:numeric(4,2);not null"                     json:"hours_slept"`
	SleepQuality      int       `gorm:"type:smallint;not null"                         json:"sleep_quality"`
	StressLevel       int       `gorm:"type:smallint;not null"                         json:"stress_level"`
	PhysicalCondition int       `gorm:"type:smallint;not null"                         json:"physical_condition"`
	PainLevel         *int      `gorm:"type:smallint"                                  json:"pain_level,omitempty"`
	PainLocation      *string   `gorm:"type:varchar(100)"                              json:"pain_location,omitempty"`
	Notes             *string   `gorm:"type:text"                                      json:"notes,omitempty"`
	ReadinessScore    int       `gorm:"type:smallint;not null"                         json:"readiness_score"`
	ReadinessLevel    string    `gorm:"type:varchar(10);not null"                      json:"readiness_level"` // GREEN | YELLOW | RED
	SleepScore        int       `gorm:"type:smallint;not null"                         json:"sleep_score"`
	StressScore       int       `gorm:"type:smallint;not null"                         json:"stress_score"`
	PhysicalScore     int       `gorm:"type:smallint;not null"                         json:"physical_score"`
	PainScore         *int      `gorm:"type:smallint"                                  json:"pain_score,omitempty"`
	CreatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// associations
	Event *Event `gorm:"foreignKey:EventID;references:EventID" json:"event,omitempty"`
}

// TableName table name
func (CheckIn) TableName() string { return "check_ins" }
