package models

import "time"

// Section groups line items inside one segment (e.g. "Hortifruti").
// Names are unique per segment.
type Section struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	SegmentID uint      `gorm:"uniqueIndex:uq_sections_segment_name;not null" json:"segment_id"`
	Name      string    `gorm:"uniqueIndex:uq_sections_segment_name;not null" json:"name"`
	SortOrder int       `gorm:"not null;default:0;index" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Section) TableName() string {
	return "sections"
}
