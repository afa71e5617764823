package models

import "time"

// SegmentProduct is one line of a segment's shopping list, with suggested
// quantities for each planning window. One row per (segment, product).
type SegmentProduct struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	SegmentID uint      `gorm:"uniqueIndex:uq_segment_products_pair;not null" json:"segment_id"`
	SectionID *uint     `gorm:"index" json:"section_id"`
	ProductID uint      `gorm:"uniqueIndex:uq_segment_products_pair;not null" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Qty7      Quantity  `gorm:"type:decimal(14,3);not null;default:0" json:"qty_7"`
	Qty15     Quantity  `gorm:"type:decimal(14,3);not null;default:0" json:"qty_15"`
	Qty30     Quantity  `gorm:"type:decimal(14,3);not null;default:0" json:"qty_30"`
	Qty60     Quantity  `gorm:"type:decimal(14,3);not null;default:0" json:"qty_60"`
	Qty90     Quantity  `gorm:"type:decimal(14,3);not null;default:0" json:"qty_90"`
	AvgPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"avg_price"`
	Note      *string   `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (SegmentProduct) TableName() string {
	return "segment_products"
}
