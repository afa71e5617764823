package models

import "time"

// Purchase states.
const (
	PurchaseStatusPending  = "PENDING"
	PurchaseStatusPaid     = "PAID"
	PurchaseStatusExpired  = "EXPIRED"
	PurchaseStatusCanceled = "CANCELED"
	PurchaseStatusRefunded = "REFUNDED"
)

// Purchase is a one-time Pix sale of a segment to a user.
type Purchase struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	SegmentID  uint       `gorm:"index;not null" json:"segment_id"`
	Segment    *Segment   `json:"segment,omitempty"`
	Status     string     `gorm:"index;not null;default:'PENDING'" json:"status"`
	Amount     Money      `gorm:"type:decimal(20,2);not null" json:"amount"`
	TxID       string     `gorm:"uniqueIndex;not null" json:"txid"`
	PixPayload string     `gorm:"type:text" json:"pix_payload"`
	QRCodeData string     `gorm:"type:text" json:"qr_code_data"`
	ExpiresAt  *time.Time `gorm:"index" json:"expires_at"`
	PaidAt     *time.Time `gorm:"index" json:"paid_at"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName sets the table name.
func (Purchase) TableName() string {
	return "purchases"
}
