package repository

import (
	"errors"
	"time"

	"github.com/mixcampeao/api/internal/models"

	"gorm.io/gorm"
)

// PurchaseRepository is the purchase data access interface.
type PurchaseRepository interface {
	GetByID(id uint) (*models.Purchase, error)
	GetByTxID(txid string) (*models.Purchase, error)
	GetPaidByUserAndSegment(userID, segmentID uint) (*models.Purchase, error)
	ListByUser(userID uint) ([]models.Purchase, error)
	CountBySegment(segmentID uint) (int64, error)
	Create(purchase *models.Purchase) error
	Update(purchase *models.Purchase) error
	MarkPaid(txid string, paidAt time.Time, payload string) (int64, error)
	MarkExpired(txid string) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) PurchaseRepository
}

// GormPurchaseRepository is the GORM implementation.
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates the purchase repository.
func NewPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPurchaseRepository) WithTx(tx *gorm.DB) PurchaseRepository {
	if tx == nil {
		return r
	}
	return &GormPurchaseRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormPurchaseRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID fetches a purchase by id.
func (r *GormPurchaseRepository) GetByID(id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.Preload("Segment").First(&purchase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

// GetByTxID fetches a purchase by its Pix transaction id.
func (r *GormPurchaseRepository) GetByTxID(txid string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.Where("tx_id = ?", txid).First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

// GetPaidByUserAndSegment fetches the user's PAID purchase of a segment.
func (r *GormPurchaseRepository) GetPaidByUserAndSegment(userID, segmentID uint) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.Where("user_id = ? AND segment_id = ? AND status = ?",
		userID, segmentID, models.PurchaseStatusPaid).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

// ListByUser lists a user's purchases, most recent first.
func (r *GormPurchaseRepository) ListByUser(userID uint) ([]models.Purchase, error) {
	var purchases []models.Purchase
	if err := r.db.Preload("Segment").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// CountBySegment counts purchases referencing a segment.
func (r *GormPurchaseRepository) CountBySegment(segmentID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Purchase{}).
		Where("segment_id = ?", segmentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a purchase.
func (r *GormPurchaseRepository) Create(purchase *models.Purchase) error {
	return r.db.Create(purchase).Error
}

// Update saves a purchase.
func (r *GormPurchaseRepository) Update(purchase *models.Purchase) error {
	return r.db.Save(purchase).Error
}

// MarkPaid flips a purchase to PAID. The guard on the current status
// makes repeated webhook deliveries harmless.
func (r *GormPurchaseRepository) MarkPaid(txid string, paidAt time.Time, payload string) (int64, error) {
	result := r.db.Model(&models.Purchase{}).
		Where("tx_id = ? AND status != ?", txid, models.PurchaseStatusPaid).
		Updates(map[string]interface{}{
			"status":      models.PurchaseStatusPaid,
			"paid_at":     paidAt,
			"pix_payload": payload,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkExpired flips a still-pending purchase to EXPIRED.
func (r *GormPurchaseRepository) MarkExpired(txid string) (int64, error) {
	result := r.db.Model(&models.Purchase{}).
		Where("tx_id = ? AND status = ?", txid, models.PurchaseStatusPending).
		Update("status", models.PurchaseStatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
