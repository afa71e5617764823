package repository

import (
	"errors"
	"strings"

	"github.com/mixcampeao/api/internal/models"

	"gorm.io/gorm"
)

// SegmentListFilter filters the admin segment listing.
type SegmentListFilter struct {
	Search     string
	OnlyActive bool
	Page       int
	PageSize   int
}

// SegmentRepository is the segment data access interface.
type SegmentRepository interface {
	ListActive() ([]models.Segment, error)
	List(filter SegmentListFilter) ([]models.Segment, int64, error)
	GetByID(id uint) (*models.Segment, error)
	GetBySlug(slug string, onlyActive bool) (*models.Segment, error)
	GetByCode(code string) (*models.Segment, error)
	Create(segment *models.Segment) error
	Update(segment *models.Segment) error
	DeleteCascade(id uint) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) SegmentRepository
}

// GormSegmentRepository is the GORM implementation.
type GormSegmentRepository struct {
	db *gorm.DB
}

// NewSegmentRepository creates the segment repository.
func NewSegmentRepository(db *gorm.DB) *GormSegmentRepository {
	return &GormSegmentRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormSegmentRepository) WithTx(tx *gorm.DB) SegmentRepository {
	if tx == nil {
		return r
	}
	return &GormSegmentRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormSegmentRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// ListActive lists active segments ordered by name.
func (r *GormSegmentRepository) ListActive() ([]models.Segment, error) {
	var segments []models.Segment
	if err := r.db.Where("active = ?", true).Order("name ASC").Find(&segments).Error; err != nil {
		return nil, err
	}
	return segments, nil
}

// List lists segments for the back office.
func (r *GormSegmentRepository) List(filter SegmentListFilter) ([]models.Segment, int64, error) {
	query := r.db.Model(&models.Segment{})
	if filter.OnlyActive {
		query = query.Where("active = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var segments []models.Segment
	if err := query.Order("name ASC").Find(&segments).Error; err != nil {
		return nil, 0, err
	}
	return segments, total, nil
}

// GetByID fetches a segment by id.
func (r *GormSegmentRepository) GetByID(id uint) (*models.Segment, error) {
	var segment models.Segment
	if err := r.db.First(&segment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &segment, nil
}

// GetBySlug fetches a segment by slug.
func (r *GormSegmentRepository) GetBySlug(slug string, onlyActive bool) (*models.Segment, error) {
	query := r.db.Where("slug = ?", slug)
	if onlyActive {
		query = query.Where("active = ?", true)
	}
	var segment models.Segment
	if err := query.First(&segment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &segment, nil
}

// GetByCode fetches a segment by its spreadsheet code.
func (r *GormSegmentRepository) GetByCode(code string) (*models.Segment, error) {
	var segment models.Segment
	if err := r.db.Where("code = ?", code).First(&segment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &segment, nil
}

// Create inserts a segment.
func (r *GormSegmentRepository) Create(segment *models.Segment) error {
	return r.db.Create(segment).Error
}

// Update saves a segment.
func (r *GormSegmentRepository) Update(segment *models.Segment) error {
	return r.db.Save(segment).Error
}

// DeleteCascade removes a segment together with its sections and line
// items. Products stay untouched.
func (r *GormSegmentRepository) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("segment_id = ?", id).Delete(&models.SegmentProduct{}).Error; err != nil {
			return err
		}
		if err := tx.Where("segment_id = ?", id).Delete(&models.Section{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Segment{}, id).Error
	})
}
