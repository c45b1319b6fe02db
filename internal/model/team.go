package model

// Team maps to teams. Holds the default schedule for its members.
type Team struct {
	TeamID       string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"team_id"`
	CompanyID    string   `gorm:"type:uuid;not null"                             json:"company_id"`
	Name         string   `gorm:"type:varchar(100);not null"                     json:"name"`
	WorkDays     IntArray `gorm:"type:int[];not null"                            json:"work_days"` // 0=Sunday … 6=Saturday
	CheckInStart string   `gorm:"type:varchar(5);not null"                       json:"check_in_start"`
	CheckInEnd   string   `gorm:"type:varchar(5);not null"                       json:"check_in_end"`
	IsActive     bool     `gorm:"not null;default:true"                          json:"is_active"`
	Timestamps
}

// TableName table name
func (Team) TableName() string { return "teams" }
