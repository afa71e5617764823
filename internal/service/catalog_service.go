package service

import (
	"strings"

	"github.com/mixcampeao/api/internal/importer"
	"github.com/mixcampeao/api/internal/models"
	"github.com/mixcampeao/api/internal/repository"

	"github.com/shopspring/decimal"
)

// CatalogService is the admin CRUD over sections, products and
// segment line items.
type CatalogService struct {
	segmentRepo repository.SegmentRepository
	sectionRepo repository.SectionRepository
	productRepo repository.ProductRepository
	itemRepo    repository.SegmentProductRepository
}

// NewCatalogService creates the catalog service.
func NewCatalogService(
	segmentRepo repository.SegmentRepository,
	sectionRepo repository.SectionRepository,
	productRepo repository.ProductRepository,
	itemRepo repository.SegmentProductRepository,
) *CatalogService {
	return &CatalogService{
		segmentRepo: segmentRepo,
		sectionRepo: sectionRepo,
		productRepo: productRepo,
		itemRepo:    itemRepo,
	}
}

// UpsertSectionInput carries a section create/update request.
type UpsertSectionInput struct {
	ID        *uint
	SegmentID uint
	Name      string
	SortOrder *int
}

// UpsertSection creates or updates a section. Names stay unique within
// a segment.
func (s *CatalogService) UpsertSection(input UpsertSectionInput) (*models.Section, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.SegmentID == 0 {
		return nil, ErrInvalidInput
	}
	segment, err := s.segmentRepo.GetByID(input.SegmentID)
	if err != nil {
		return nil, err
	}
	if segment == nil {
		return nil, ErrNotFound
	}

	existing, err := s.sectionRepo.GetBySegmentAndName(input.SegmentID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && (input.ID == nil || existing.ID != *input.ID) {
		return nil, ErrConflict
	}

	sortOrder := 0
	if input.SortOrder != nil {
		sortOrder = *input.SortOrder
	}

	if input.ID != nil {
		var section *models.Section
		sections, err := s.sectionRepo.ListBySegment(input.SegmentID)
		if err != nil {
			return nil, err
		}
		for i := range sections {
			if sections[i].ID == *input.ID {
				section = &sections[i]
				break
			}
		}
		if section == nil {
			return nil, ErrNotFound
		}
		section.Name = name
		section.SortOrder = sortOrder
		if err := s.sectionRepo.Update(section); err != nil {
			return nil, err
		}
		return section, nil
	}

	section := &models.Section{
		SegmentID: input.SegmentID,
		Name:      name,
		SortOrder: sortOrder,
	}
	if err := s.sectionRepo.Create(section); err != nil {
		return nil, err
	}
	return section, nil
}

// ListProducts lists products for the back office.
func (s *CatalogService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// UpsertProductInput carries a product create/update request.
type UpsertProductInput struct {
	ID   *uint
	Name string
	Unit *string
}

// UpsertProduct creates or updates a product. Names stay unique.
func (s *CatalogService) UpsertProduct(input UpsertProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.productRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil && (input.ID == nil || existing.ID != *input.ID) {
		return nil, ErrConflict
	}

	if input.ID != nil {
		product, err := s.productRepo.GetByID(*input.ID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrNotFound
		}
		product.Name = name
		product.Unit = input.Unit
		if err := s.productRepo.Update(product); err != nil {
			return nil, err
		}
		return product, nil
	}

	product := &models.Product{Name: name, Unit: input.Unit}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// ListItems lists a segment's line items for the back office.
func (s *CatalogService) ListItems(segmentID uint) ([]models.SegmentProduct, error) {
	if segmentID == 0 {
		return nil, ErrInvalidInput
	}
	return s.itemRepo.ListBySegment(segmentID)
}

// UpsertItemInput carries a line-item create/update request. The 30-day
// baseline is required; other windows are derived when absent.
type UpsertItemInput struct {
	SegmentID uint
	SectionID *uint
	ProductID uint
	Qty30     decimal.Decimal
	Qty7      *decimal.Decimal
	Qty15     *decimal.Decimal
	Qty60     *decimal.Decimal
	Qty90     *decimal.Decimal
	AvgPrice  decimal.Decimal
	Note      *string
}

// UpsertItem merges a line item by its (segment, product) natural key:
// insert when absent, overwrite when present.
func (s *CatalogService) UpsertItem(input UpsertItemInput) (*models.SegmentProduct, error) {
	if input.SegmentID == 0 || input.ProductID == 0 ||
		input.Qty30.IsNegative() || input.AvgPrice.IsNegative() {
		return nil, ErrInvalidInput
	}
	segment, err := s.segmentRepo.GetByID(input.SegmentID)
	if err != nil {
		return nil, err
	}
	if segment == nil {
		return nil, ErrNotFound
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	qty7 := windowValue(input.Qty7, input.Qty30, 7)
	qty15 := windowValue(input.Qty15, input.Qty30, 15)
	qty60 := windowValue(input.Qty60, input.Qty30, 60)
	qty90 := windowValue(input.Qty90, input.Qty30, 90)

	item, err := s.itemRepo.GetByPair(input.SegmentID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item = &models.SegmentProduct{
			SegmentID: input.SegmentID,
			ProductID: input.ProductID,
		}
	}
	item.SectionID = input.SectionID
	item.Qty7 = models.NewQuantityFromDecimal(qty7)
	item.Qty15 = models.NewQuantityFromDecimal(qty15)
	item.Qty30 = models.NewQuantityFromDecimal(input.Qty30)
	item.Qty60 = models.NewQuantityFromDecimal(qty60)
	item.Qty90 = models.NewQuantityFromDecimal(qty90)
	item.AvgPrice = models.NewMoneyFromDecimal(input.AvgPrice)
	item.Note = input.Note

	if item.ID == 0 {
		if err := s.itemRepo.Create(item); err != nil {
			return nil, err
		}
	} else if err := s.itemRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a line item.
func (s *CatalogService) DeleteItem(id uint) error {
	item, err := s.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}
	return s.itemRepo.Delete(id)
}

func windowValue(explicit *decimal.Decimal, base30 decimal.Decimal, days int64) decimal.Decimal {
	if explicit != nil {
		return *explicit
	}
	return importer.DeriveWindow(base30, days)
}
