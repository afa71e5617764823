package models

import "time"

// Product is a catalog item shared across segments. Products are never
// removed when a segment is deleted.
type Product struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Unit      *string   `json:"unit"` // first non-empty writer wins
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}
