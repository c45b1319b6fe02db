package model

// Worker maps to workers.
// WorkDays/CheckInStart/CheckInEnd are optional per-field overrides of the team schedule.
type Worker struct {
	WorkerID     string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"worker_id"`
	CompanyID    string   `gorm:"type:uuid;not null"                             json:"company_id"`
	TeamID       *string  `gorm:"type:uuid"                                      json:"team_id,omitempty"`
	FirstName    string   `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName     string   `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email        string   `gorm:"type:varchar(255);not null"                     json:"email"`
	WorkDays     IntArray `gorm:"type:int[]"                                     json:"work_days,omitempty"`
	CheckInStart *string  `gorm:"type:varchar(5)"                                json:"check_in_start,omitempty"`
	CheckInEnd   *string  `gorm:"type:varchar(5)"                                json:"check_in_end,omitempty"`
	IsActive     bool     `gorm:"not null;default:true"                          json:"is_active"`
	Timestamps

	// associations
	Team *Team `gorm:"foreignKey:TeamID;references:TeamID" json:"team,omitempty"`
}

// TableName table name
func (Worker) TableName() string { return "workers" }
