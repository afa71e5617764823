package service

import (
	"errors"
	"strings"

	"github.com/mixcampeao/api/internal/config"
	"github.com/mixcampeao/api/internal/importer"
	"github.com/mixcampeao/api/internal/logger"
	"github.com/mixcampeao/api/internal/models"
	"github.com/mixcampeao/api/internal/repository"

	"gorm.io/gorm"
)

// ImportService runs catalog spreadsheet imports: parse, validate, then
// reconcile the batch into segments/sections/products in one
// transaction, with every run recorded on the import ledger.
type ImportService struct {
	cfg         *config.Config
	jobRepo     repository.ImportJobRepository
	segmentRepo repository.SegmentRepository
	sectionRepo repository.SectionRepository
	productRepo repository.ProductRepository
	itemRepo    repository.SegmentProductRepository
}

// NewImportService creates the import service.
func NewImportService(
	cfg *config.Config,
	jobRepo repository.ImportJobRepository,
	segmentRepo repository.SegmentRepository,
	sectionRepo repository.SectionRepository,
	productRepo repository.ProductRepository,
	itemRepo repository.SegmentProductRepository,
) *ImportService {
	return &ImportService{
		cfg:         cfg,
		jobRepo:     jobRepo,
		segmentRepo: segmentRepo,
		sectionRepo: sectionRepo,
		productRepo: productRepo,
		itemRepo:    itemRepo,
	}
}

// RunInput carries one import submission.
type RunInput struct {
	UserID   *uint
	FileName string
	Mode     string
	Data     []byte
}

// RunResult reports the outcome of an import run.
type RunResult struct {
	JobID     uint                   `json:"job_id"`
	Mode      string                 `json:"mode"`
	Status    string                 `json:"status"`
	TotalRows int                    `json:"total_rows"`
	Inserted  int                    `json:"inserted"`
	Updated   int                    `json:"updated"`
	Skipped   int                    `json:"skipped"`
	Errors    models.ImportRowErrors `json:"errors,omitempty"`
}

// ErrImportFailed flags a run that ended on the FAILED ledger state.
// The RunResult carries the structured error list.
var ErrImportFailed = errors.New("importação falhou")

// Run executes an import end to end. The returned RunResult is non-nil
// whenever a job was opened, even on failure.
func (s *ImportService) Run(input RunInput) (*RunResult, error) {
	if !models.ValidImportMode(input.Mode) {
		return nil, ErrInvalidInput
	}
	if len(input.Data) == 0 {
		return nil, ErrInvalidInput
	}

	job := &models.ImportJob{
		UserID:   input.UserID,
		FileName: input.FileName,
		Mode:     input.Mode,
		Status:   models.ImportJobStatusProcessing,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}

	rows, err := importer.ParseFile(input.FileName, input.Data)
	if err != nil {
		return s.fail(job, 0, models.ImportRowErrors{{Row: 0, Message: err.Error()}})
	}

	prepared, rowErrors := importer.Validate(rows, importer.Limits{})
	if len(rowErrors) > 0 {
		errs := make(models.ImportRowErrors, 0, len(rowErrors))
		for _, e := range rowErrors {
			errs = append(errs, models.ImportRowError{Row: e.Row, Message: e.Message})
		}
		return s.fail(job, len(rows), errs)
	}

	var inserted, updated, skipped int
	err = s.segmentRepo.Transaction(func(tx *gorm.DB) error {
		segmentRepo := s.segmentRepo.WithTx(tx)
		sectionRepo := s.sectionRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		itemRepo := s.itemRepo.WithTx(tx)

		segmentIDs, orderedIDs, err := resolveSegments(segmentRepo, prepared)
		if err != nil {
			return err
		}

		if input.Mode == models.ImportModeReplace {
			if err := itemRepo.DeleteBySegments(orderedIDs); err != nil {
				return err
			}
		}

		for _, row := range prepared {
			segmentID := segmentIDs[row.SegmentCode]

			sectionID, err := resolveSection(sectionRepo, segmentID, row.Section)
			if err != nil {
				return err
			}
			productID, err := resolveProduct(productRepo, row.ProductName, row.Unit)
			if err != nil {
				return err
			}

			existing, err := itemRepo.GetByPair(segmentID, productID)
			if err != nil {
				return err
			}

			if existing != nil && input.Mode == models.ImportModeInsert {
				skipped++
				continue
			}

			if existing == nil {
				item := &models.SegmentProduct{
					SegmentID: segmentID,
					SectionID: sectionID,
					ProductID: productID,
					Qty7:      models.NewQuantityFromDecimal(row.Qty7),
					Qty15:     models.NewQuantityFromDecimal(row.Qty15),
					Qty30:     models.NewQuantityFromDecimal(row.Qty30),
					Qty60:     models.NewQuantityFromDecimal(row.Qty60),
					Qty90:     models.NewQuantityFromDecimal(row.Qty90),
					AvgPrice:  models.NewMoneyFromDecimal(row.AvgPrice),
					Note:      row.Note,
				}
				if err := itemRepo.Create(item); err != nil {
					return err
				}
				inserted++
				continue
			}

			existing.SectionID = sectionID
			existing.Qty7 = models.NewQuantityFromDecimal(row.Qty7)
			existing.Qty15 = models.NewQuantityFromDecimal(row.Qty15)
			existing.Qty30 = models.NewQuantityFromDecimal(row.Qty30)
			existing.Qty60 = models.NewQuantityFromDecimal(row.Qty60)
			existing.Qty90 = models.NewQuantityFromDecimal(row.Qty90)
			existing.AvgPrice = models.NewMoneyFromDecimal(row.AvgPrice)
			existing.Note = row.Note
			if err := itemRepo.Update(existing); err != nil {
				return err
			}
			updated++
		}

		job.Status = models.ImportJobStatusDone
		job.TotalRows = len(prepared)
		job.Inserted = inserted
		job.Updated = updated
		job.Skipped = skipped
		return s.jobRepo.WithTx(tx).Update(job)
	})
	if err != nil {
		logger.Errorw("import_commit_failed", "job_id", job.ID, "error", err)
		return s.fail(job, len(prepared), models.ImportRowErrors{{Row: 0, Message: translateCommitError(err)}})
	}

	logger.Infow("import_done",
		"job_id", job.ID,
		"mode", job.Mode,
		"total_rows", job.TotalRows,
		"inserted", inserted,
		"updated", updated,
		"skipped", skipped,
	)
	return s.result(job), nil
}

// PrecheckResult is the interactive pre-check outcome.
type PrecheckResult struct {
	TotalRows int                    `json:"total_rows"`
	Errors    models.ImportRowErrors `json:"errors"`
	Truncated bool                   `json:"truncated"`
}

// Precheck parses and validates a file with the preview caps, without
// opening a job or touching the catalog. It shares the commit-path
// validation logic; only the iteration limits differ.
func (s *ImportService) Precheck(fileName string, data []byte) (*PrecheckResult, error) {
	if len(data) == 0 {
		return nil, ErrInvalidInput
	}

	rows, err := importer.ParseFile(fileName, data)
	if err != nil {
		return &PrecheckResult{Errors: models.ImportRowErrors{{Row: 0, Message: err.Error()}}}, nil
	}

	limits := importer.Limits{
		MaxRows:   s.cfg.Import.PreviewMaxRows,
		MaxErrors: s.cfg.Import.PreviewMaxErrors,
	}
	_, rowErrors := importer.Validate(rows, limits)

	errs := make(models.ImportRowErrors, 0, len(rowErrors))
	for _, e := range rowErrors {
		errs = append(errs, models.ImportRowError{Row: e.Row, Message: e.Message})
	}
	truncated := (limits.MaxRows > 0 && len(rows) > limits.MaxRows) ||
		(limits.MaxErrors > 0 && len(errs) >= limits.MaxErrors)

	return &PrecheckResult{
		TotalRows: len(rows),
		Errors:    errs,
		Truncated: truncated,
	}, nil
}

// GetJob fetches one ledger entry.
func (s *ImportService) GetJob(id uint) (*models.ImportJob, error) {
	job, err := s.jobRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrNotFound
	}
	return job, nil
}

// ListJobs lists the most recent ledger entries.
func (s *ImportService) ListJobs(limit int) ([]models.ImportJob, error) {
	return s.jobRepo.ListRecent(limit)
}

func (s *ImportService) fail(job *models.ImportJob, totalRows int, errs models.ImportRowErrors) (*RunResult, error) {
	job.Status = models.ImportJobStatusFailed
	job.TotalRows = totalRows
	job.Inserted = 0
	job.Updated = 0
	job.Skipped = 0
	job.Errors = errs
	if err := s.jobRepo.Update(job); err != nil {
		logger.Errorw("import_job_fail_update_failed", "job_id", job.ID, "error", err)
	}
	return s.result(job), ErrImportFailed
}

func (s *ImportService) result(job *models.ImportJob) *RunResult {
	return &RunResult{
		JobID:     job.ID,
		Mode:      job.Mode,
		Status:    job.Status,
		TotalRows: job.TotalRows,
		Inserted:  job.Inserted,
		Updated:   job.Updated,
		Skipped:   job.Skipped,
		Errors:    job.Errors,
	}
}

// resolveSegments gets or creates a segment per distinct code, keeping
// first-occurrence order. New segments get name=code, price 0 and
// active=true.
func resolveSegments(segmentRepo repository.SegmentRepository, prepared []importer.Row) (map[string]uint, []uint, error) {
	ids := map[string]uint{}
	var ordered []uint
	for _, row := range prepared {
		if _, seen := ids[row.SegmentCode]; seen {
			continue
		}
		segment, err := segmentRepo.GetByCode(row.SegmentCode)
		if err != nil {
			return nil, nil, err
		}
		if segment == nil {
			slug := importer.Slugify(row.SegmentCode)
			if slug == "" {
				slug = strings.ToLower(row.SegmentCode)
			}
			segment = &models.Segment{
				Code:   row.SegmentCode,
				Slug:   slug,
				Name:   row.SegmentCode,
				Active: true,
			}
			if err := segmentRepo.Create(segment); err != nil {
				return nil, nil, err
			}
		}
		ids[row.SegmentCode] = segment.ID
		ordered = append(ordered, segment.ID)
	}
	return ids, ordered, nil
}

// resolveSection upserts a section by (segment, name). An existing
// section keeps its sort order.
func resolveSection(sectionRepo repository.SectionRepository, segmentID uint, name *string) (*uint, error) {
	if name == nil {
		return nil, nil
	}
	section, err := sectionRepo.GetBySegmentAndName(segmentID, *name)
	if err != nil {
		return nil, err
	}
	if section == nil {
		section = &models.Section{SegmentID: segmentID, Name: *name, SortOrder: 0}
		if err := sectionRepo.Create(section); err != nil {
			return nil, err
		}
	}
	return &section.ID, nil
}

// resolveProduct upserts a product by name. The first non-empty unit
// ever written wins; later imports never overwrite it.
func resolveProduct(productRepo repository.ProductRepository, name string, unit *string) (uint, error) {
	product, err := productRepo.GetByName(name)
	if err != nil {
		return 0, err
	}
	if product == nil {
		product = &models.Product{Name: name, Unit: unit}
		if err := productRepo.Create(product); err != nil {
			return 0, err
		}
		return product.ID, nil
	}
	if product.Unit == nil && unit != nil {
		product.Unit = unit
		if err := productRepo.Update(product); err != nil {
			return 0, err
		}
	}
	return product.ID, nil
}

// translateCommitError maps recognizable storage conflicts onto a
// domain message; everything else surfaces as-is.
func translateCommitError(err error) string {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "conflito de unicidade ao aplicar importação"
	}
	message := err.Error()
	if strings.Contains(strings.ToLower(message), "unique") {
		return "conflito de unicidade ao aplicar importação"
	}
	return message
}
