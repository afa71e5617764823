package repository

import (
	"errors"

	"github.com/mixcampeao/api/internal/models"

	"gorm.io/gorm"
)

// SectionRepository is the section data access interface.
type SectionRepository interface {
	ListBySegment(segmentID uint) ([]models.Section, error)
	GetBySegmentAndName(segmentID uint, name string) (*models.Section, error)
	Create(section *models.Section) error
	Update(section *models.Section) error
	WithTx(tx *gorm.DB) SectionRepository
}

// GormSectionRepository is the GORM implementation.
type GormSectionRepository struct {
	db *gorm.DB
}

// NewSectionRepository creates the section repository.
func NewSectionRepository(db *gorm.DB) *GormSectionRepository {
	return &GormSectionRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormSectionRepository) WithTx(tx *gorm.DB) SectionRepository {
	if tx == nil {
		return r
	}
	return &GormSectionRepository{db: tx}
}

// ListBySegment lists a segment's sections in display order.
func (r *GormSectionRepository) ListBySegment(segmentID uint) ([]models.Section, error) {
	var sections []models.Section
	if err := r.db.Where("segment_id = ?", segmentID).
		Order("sort_order ASC, name ASC").
		Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

// GetBySegmentAndName fetches a section by its natural key.
func (r *GormSectionRepository) GetBySegmentAndName(segmentID uint, name string) (*models.Section, error) {
	var section models.Section
	if err := r.db.Where("segment_id = ? AND name = ?", segmentID, name).First(&section).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &section, nil
}

// Create inserts a section.
func (r *GormSectionRepository) Create(section *models.Section) error {
	return r.db.Create(section).Error
}

// Update saves a section.
func (r *GormSectionRepository) Update(section *models.Section) error {
	return r.db.Save(section).Error
}
