package repository

import (
	"errors"

	"github.com/mixcampeao/api/internal/models"

	"gorm.io/gorm"
)

// ImportJobRepository is the import ledger data access interface.
type ImportJobRepository interface {
	GetByID(id uint) (*models.ImportJob, error)
	ListRecent(limit int) ([]models.ImportJob, error)
	Create(job *models.ImportJob) error
	Update(job *models.ImportJob) error
	WithTx(tx *gorm.DB) ImportJobRepository
}

// GormImportJobRepository is the GORM implementation.
type GormImportJobRepository struct {
	db *gorm.DB
}

// NewImportJobRepository creates the import ledger repository.
func NewImportJobRepository(db *gorm.DB) *GormImportJobRepository {
	return &GormImportJobRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormImportJobRepository) WithTx(tx *gorm.DB) ImportJobRepository {
	if tx == nil {
		return r
	}
	return &GormImportJobRepository{db: tx}
}

// GetByID fetches a job by id.
func (r *GormImportJobRepository) GetByID(id uint) (*models.ImportJob, error) {
	var job models.ImportJob
	if err := r.db.First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// ListRecent lists the most recent jobs.
func (r *GormImportJobRepository) ListRecent(limit int) ([]models.ImportJob, error) {
	if limit <= 0 {
		limit = 50
	}
	var jobs []models.ImportJob
	if err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Create inserts a job.
func (r *GormImportJobRepository) Create(job *models.ImportJob) error {
	return r.db.Create(job).Error
}

// Update saves a job.
func (r *GormImportJobRepository) Update(job *models.ImportJob) error {
	return r.db.Save(job).Error
}
