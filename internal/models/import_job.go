package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Import modes.
const (
	ImportModeInsert  = "INSERT"
	ImportModeUpsert  = "UPSERT"
	ImportModeReplace = "REPLACE"
)

// Import job states. DONE and FAILED are terminal.
const (
	ImportJobStatusProcessing = "PROCESSING"
	ImportJobStatusDone       = "DONE"
	ImportJobStatusFailed     = "FAILED"
)

// ImportRowError is one validation failure, addressed by spreadsheet row
// number (header = row 1, first data row = row 2; row 0 = file level).
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportRowErrors is the JSON-stored error list of a job.
type ImportRowErrors []ImportRowError

// Value implements driver.Valuer.
func (e ImportRowErrors) Value() (driver.Value, error) {
	if e == nil {
		return nil, nil
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner.
func (e *ImportRowErrors) Scan(value interface{}) error {
	if value == nil {
		*e = ImportRowErrors{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return nil
	}
}

// ImportJob is the audit record of one catalog import run.
type ImportJob struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    *uint           `gorm:"index" json:"user_id"`
	FileName  string          `gorm:"not null" json:"file_name"`
	Mode      string          `gorm:"not null" json:"mode"`
	Status    string          `gorm:"index;not null;default:'PROCESSING'" json:"status"`
	TotalRows int             `gorm:"not null;default:0" json:"total_rows"`
	Inserted  int             `gorm:"not null;default:0" json:"inserted"`
	Updated   int             `gorm:"not null;default:0" json:"updated"`
	Skipped   int             `gorm:"not null;default:0" json:"skipped"`
	Errors    ImportRowErrors `gorm:"type:json" json:"errors"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName sets the table name.
func (ImportJob) TableName() string {
	return "import_jobs"
}

// ValidImportMode reports whether mode is one of the accepted values.
func ValidImportMode(mode string) bool {
	switch mode {
	case ImportModeInsert, ImportModeUpsert, ImportModeReplace:
		return true
	}
	return false
}
