package models

import (
	"time"
)

// Segment is a sellable shopping-list template for a retail niche.
type Segment struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	Code      string           `gorm:"uniqueIndex;not null" json:"code"` // spreadsheet key (COD_SEGMENTO)
	Slug      string           `gorm:"uniqueIndex;not null" json:"slug"`
	Name      string           `gorm:"not null" json:"name"`
	Teaser    *string          `gorm:"type:text" json:"teaser"`
	PricePix  Money            `gorm:"type:decimal(20,2);not null;default:0" json:"price_pix"`
	Active    bool             `gorm:"not null;default:true;index" json:"active"`
	Sections  []Section        `gorm:"constraint:OnDelete:CASCADE" json:"sections,omitempty"`
	Items     []SegmentProduct `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TableName sets the table name.
func (Segment) TableName() string {
	return "segments"
}
