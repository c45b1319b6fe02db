package model

// Company tenant, maps to companies
type Company struct {
	CompanyID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"company_id"`
	Name      string `gorm:"type:varchar(200);not null"                     json:"name"`
	Timezone  string `gorm:"type:varchar(64);not null"                      json:"timezone"` // IANA, e.g. Asia/Manila
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	Timestamps
}

// TableName table name
func (Company) TableName() string { return "companies" }
