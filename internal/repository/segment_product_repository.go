package repository

import (
	"errors"

	"github.com/mixcampeao/api/internal/models"

	"gorm.io/gorm"
)

// SegmentProductRepository is the line-item data access interface.
type SegmentProductRepository interface {
	ListBySegment(segmentID uint) ([]models.SegmentProduct, error)
	GetByID(id uint) (*models.SegmentProduct, error)
	GetByPair(segmentID, productID uint) (*models.SegmentProduct, error)
	Create(item *models.SegmentProduct) error
	Update(item *models.SegmentProduct) error
	Delete(id uint) error
	DeleteBySegments(segmentIDs []uint) error
	WithTx(tx *gorm.DB) SegmentProductRepository
}

// GormSegmentProductRepository is the GORM implementation.
type GormSegmentProductRepository struct {
	db *gorm.DB
}

// NewSegmentProductRepository creates the line-item repository.
func NewSegmentProductRepository(db *gorm.DB) *GormSegmentProductRepository {
	return &GormSegmentProductRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormSegmentProductRepository) WithTx(tx *gorm.DB) SegmentProductRepository {
	if tx == nil {
		return r
	}
	return &GormSegmentProductRepository{db: tx}
}

// ListBySegment lists a segment's line items with their products loaded,
// ordered by product name.
func (r *GormSegmentProductRepository) ListBySegment(segmentID uint) ([]models.SegmentProduct, error) {
	var items []models.SegmentProduct
	if err := r.db.Preload("Product").
		Joins("JOIN products ON products.id = segment_products.product_id").
		Where("segment_products.segment_id = ?", segmentID).
		Order("products.name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID fetches a line item by id.
func (r *GormSegmentProductRepository) GetByID(id uint) (*models.SegmentProduct, error) {
	var item models.SegmentProduct
	if err := r.db.Preload("Product").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByPair fetches a line item by its natural key.
func (r *GormSegmentProductRepository) GetByPair(segmentID, productID uint) (*models.SegmentProduct, error) {
	var item models.SegmentProduct
	if err := r.db.Where("segment_id = ? AND product_id = ?", segmentID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a line item.
func (r *GormSegmentProductRepository) Create(item *models.SegmentProduct) error {
	return r.db.Create(item).Error
}

// Update saves a line item.
func (r *GormSegmentProductRepository) Update(item *models.SegmentProduct) error {
	return r.db.Save(item).Error
}

// Delete removes a line item.
func (r *GormSegmentProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.SegmentProduct{}, id).Error
}

// DeleteBySegments wipes every line item of the given segments.
func (r *GormSegmentProductRepository) DeleteBySegments(segmentIDs []uint) error {
	if len(segmentIDs) == 0 {
		return nil
	}
	return r.db.Where("segment_id IN ?", segmentIDs).Delete(&models.SegmentProduct{}).Error
}
