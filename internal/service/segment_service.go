package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mixcampeao/api/internal/cache"
	"github.com/mixcampeao/api/internal/logger"
	"github.com/mixcampeao/api/internal/models"
	"github.com/mixcampeao/api/internal/repository"

	"github.com/shopspring/decimal"
)

// SegmentService serves the public catalog and the admin segment CRUD.
type SegmentService struct {
	segmentRepo  repository.SegmentRepository
	sectionRepo  repository.SectionRepository
	itemRepo     repository.SegmentProductRepository
	purchaseRepo repository.PurchaseRepository
}

// NewSegmentService creates the segment service.
func NewSegmentService(
	segmentRepo repository.SegmentRepository,
	sectionRepo repository.SectionRepository,
	itemRepo repository.SegmentProductRepository,
	purchaseRepo repository.PurchaseRepository,
) *SegmentService {
	return &SegmentService{
		segmentRepo:  segmentRepo,
		sectionRepo:  sectionRepo,
		itemRepo:     itemRepo,
		purchaseRepo: purchaseRepo,
	}
}

// SegmentSummary is the public shape of a segment.
type SegmentSummary struct {
	ID        uint         `json:"id"`
	Code      string       `json:"code"`
	Slug      string       `json:"slug"`
	Name      string       `json:"name"`
	PricePix  models.Money `json:"price_pix"`
	Teaser    *string      `json:"teaser"`
	Active    bool         `json:"active"`
	Purchased *bool        `json:"purchased,omitempty"`
}

// PreviewItem is one teaser line of a segment's shopping list.
type PreviewItem struct {
	Product   string          `json:"product"`
	Unit      *string         `json:"unit"`
	Qty7      models.Quantity `json:"qty_ideal_7"`
	Qty15     models.Quantity `json:"qty_ideal_15"`
	Qty30     models.Quantity `json:"qty_ideal_30"`
	Qty60     models.Quantity `json:"qty_ideal_60"`
	Qty90     models.Quantity `json:"qty_ideal_90"`
	AvgPrice  models.Money    `json:"avg_price"`
	LineTotal models.Money    `json:"line_total"`
	Note      *string         `json:"note"`
}

// PreviewSection groups preview items under a section name.
type PreviewSection struct {
	Name  string        `json:"name"`
	Items []PreviewItem `json:"items"`
}

// SegmentDetail is the public segment page payload.
type SegmentDetail struct {
	Segment   SegmentSummary   `json:"segment"`
	Preview   []PreviewSection `json:"preview"`
	Purchased bool             `json:"purchased"`
}

// ReportItem is one full line of the paid report.
type ReportItem struct {
	Product     string          `json:"product"`
	Unit        *string         `json:"unit"`
	Qty7        models.Quantity `json:"qty_ideal_7"`
	Qty15       models.Quantity `json:"qty_ideal_15"`
	Qty30       models.Quantity `json:"qty_ideal_30"`
	Qty60       models.Quantity `json:"qty_ideal_60"`
	Qty90       models.Quantity `json:"qty_ideal_90"`
	AvgPrice    models.Money    `json:"avg_price"`
	LineTotal7  models.Money    `json:"line_total_7"`
	LineTotal15 models.Money    `json:"line_total_15"`
	LineTotal30 models.Money    `json:"line_total_30"`
	LineTotal60 models.Money    `json:"line_total_60"`
	LineTotal90 models.Money    `json:"line_total_90"`
	Note        *string         `json:"note"`
}

// ReportSection groups report items with per-window subtotals.
type ReportSection struct {
	Name    string       `json:"name"`
	Total7  models.Money `json:"total_7"`
	Total15 models.Money `json:"total_15"`
	Total30 models.Money `json:"total_30"`
	Total60 models.Money `json:"total_60"`
	Total90 models.Money `json:"total_90"`
	Items   []ReportItem `json:"items"`
}

// ReportTotals are the grand totals per planning window.
type ReportTotals struct {
	GrandTotal   models.Money `json:"grand_total"`
	GrandTotal7  models.Money `json:"grand_total_7"`
	GrandTotal15 models.Money `json:"grand_total_15"`
	GrandTotal30 models.Money `json:"grand_total_30"`
	GrandTotal60 models.Money `json:"grand_total_60"`
	GrandTotal90 models.Money `json:"grand_total_90"`
}

// SegmentReport is the full paid report of a segment.
type SegmentReport struct {
	Segment  SegmentSummary  `json:"segment"`
	Totals   ReportTotals    `json:"totals"`
	Sections []ReportSection `json:"sections"`
}

const unsectionedName = "Sem seção"

const publicCatalogCacheKey = "segments:public"
const publicCatalogCacheTTL = 5 * time.Minute

// ListPublic lists active segments ordered by name. When a user is
// given, each entry carries its purchased flag. The anonymous listing
// is served from cache; per-user flags never are.
func (s *SegmentService) ListPublic(userID *uint) ([]SegmentSummary, error) {
	if userID == nil {
		var cached []SegmentSummary
		if hit, err := cache.GetJSON(context.Background(), publicCatalogCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	segments, err := s.segmentRepo.ListActive()
	if err != nil {
		return nil, err
	}

	paid := map[uint]bool{}
	if userID != nil {
		purchases, err := s.purchaseRepo.ListByUser(*userID)
		if err != nil {
			return nil, err
		}
		for _, p := range purchases {
			if p.Status == models.PurchaseStatusPaid {
				paid[p.SegmentID] = true
			}
		}
	}

	out := make([]SegmentSummary, 0, len(segments))
	for _, segment := range segments {
		summary := toSummary(segment)
		if userID != nil {
			purchased := paid[segment.ID]
			summary.Purchased = &purchased
		}
		out = append(out, summary)
	}
	if userID == nil {
		if err := cache.SetJSON(context.Background(), publicCatalogCacheKey, out, publicCatalogCacheTTL); err != nil {
			logger.Warnw("segment_catalog_cache_set_failed", "error", err)
		}
	}
	return out, nil
}

// Detail returns a segment's public page: summary, top-3 preview per
// section, and whether the user already owns it.
func (s *SegmentService) Detail(slug string, userID *uint) (*SegmentDetail, error) {
	segment, err := s.segmentRepo.GetBySlug(slug, false)
	if err != nil {
		return nil, err
	}
	if segment == nil || !segment.Active {
		return nil, ErrNotFound
	}

	items, sectionNames, err := s.loadItems(segment.ID)
	if err != nil {
		return nil, err
	}

	purchased := false
	if userID != nil {
		paid, err := s.purchaseRepo.GetPaidByUserAndSegment(*userID, segment.ID)
		if err != nil {
			return nil, err
		}
		purchased = paid != nil
	}

	return &SegmentDetail{
		Segment:   toSummary(*segment),
		Preview:   buildPreview(items, sectionNames),
		Purchased: purchased,
	}, nil
}

// Report returns the full shopping-list report. It is gated on a PAID
// purchase by the requesting user. Deactivated segments stay reachable
// for their buyers.
func (s *SegmentService) Report(slug string, userID uint) (*SegmentReport, error) {
	segment, err := s.segmentRepo.GetBySlug(slug, false)
	if err != nil {
		return nil, err
	}
	if segment == nil {
		return nil, ErrNotFound
	}

	paid, err := s.purchaseRepo.GetPaidByUserAndSegment(userID, segment.ID)
	if err != nil {
		return nil, err
	}
	if paid == nil {
		return nil, ErrPurchaseRequired
	}

	items, sectionNames, err := s.loadItems(segment.ID)
	if err != nil {
		return nil, err
	}
	sections, totals := buildReport(items, sectionNames, s.sectionOrder(segment.ID))

	return &SegmentReport{
		Segment:  toSummary(*segment),
		Totals:   totals,
		Sections: sections,
	}, nil
}

// AdminList lists segments for the back office.
func (s *SegmentService) AdminList(filter repository.SegmentListFilter) ([]models.Segment, int64, error) {
	return s.segmentRepo.List(filter)
}

// UpsertSegmentInput carries an admin create/update request.
type UpsertSegmentInput struct {
	ID       *uint
	Code     string
	Slug     string
	Name     string
	PricePix decimal.Decimal
	Teaser   *string
	Active   *bool
}

// Upsert creates or updates a segment. Code and slug stay unique.
func (s *SegmentService) Upsert(input UpsertSegmentInput) (*models.Segment, error) {
	code := strings.TrimSpace(input.Code)
	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	if code == "" || slug == "" || name == "" || input.PricePix.IsNegative() {
		return nil, ErrInvalidInput
	}

	if existing, err := s.segmentRepo.GetByCode(code); err != nil {
		return nil, err
	} else if existing != nil && (input.ID == nil || existing.ID != *input.ID) {
		return nil, ErrConflict
	}
	if existing, err := s.segmentRepo.GetBySlug(slug, false); err != nil {
		return nil, err
	} else if existing != nil && (input.ID == nil || existing.ID != *input.ID) {
		return nil, ErrConflict
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	if input.ID != nil {
		segment, err := s.segmentRepo.GetByID(*input.ID)
		if err != nil {
			return nil, err
		}
		if segment == nil {
			return nil, ErrNotFound
		}
		segment.Code = code
		segment.Slug = slug
		segment.Name = name
		segment.PricePix = models.NewMoneyFromDecimal(input.PricePix)
		segment.Teaser = input.Teaser
		segment.Active = active
		if err := s.segmentRepo.Update(segment); err != nil {
			return nil, err
		}
		s.invalidatePublicCatalog()
		return segment, nil
	}

	segment := &models.Segment{
		Code:     code,
		Slug:     slug,
		Name:     name,
		PricePix: models.NewMoneyFromDecimal(input.PricePix),
		Teaser:   input.Teaser,
		Active:   active,
	}
	if err := s.segmentRepo.Create(segment); err != nil {
		return nil, err
	}
	s.invalidatePublicCatalog()
	return segment, nil
}

func (s *SegmentService) invalidatePublicCatalog() {
	if err := cache.Del(context.Background(), publicCatalogCacheKey); err != nil {
		logger.Warnw("segment_catalog_cache_del_failed", "error", err)
	}
}

// Delete removes a segment. With purchases on record the segment is
// only deactivated, keeping buyers' reports reachable; otherwise it is
// hard-deleted together with its sections and line items.
func (s *SegmentService) Delete(id uint) (softDeleted bool, err error) {
	segment, err := s.segmentRepo.GetByID(id)
	if err != nil {
		return false, err
	}
	if segment == nil {
		return false, ErrNotFound
	}

	count, err := s.purchaseRepo.CountBySegment(id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		segment.Active = false
		if err := s.segmentRepo.Update(segment); err != nil {
			return false, err
		}
		s.invalidatePublicCatalog()
		return true, nil
	}

	if err := s.segmentRepo.DeleteCascade(id); err != nil {
		return false, err
	}
	s.invalidatePublicCatalog()
	return false, nil
}

// ListSections lists a segment's sections for the back office.
func (s *SegmentService) ListSections(segmentID uint) ([]models.Section, error) {
	segment, err := s.segmentRepo.GetByID(segmentID)
	if err != nil {
		return nil, err
	}
	if segment == nil {
		return nil, ErrNotFound
	}
	return s.sectionRepo.ListBySegment(segmentID)
}

func toSummary(segment models.Segment) SegmentSummary {
	return SegmentSummary{
		ID:       segment.ID,
		Code:     segment.Code,
		Slug:     segment.Slug,
		Name:     segment.Name,
		PricePix: segment.PricePix,
		Teaser:   segment.Teaser,
		Active:   segment.Active,
	}
}

// loadItems fetches a segment's line items plus a section-id → name map.
func (s *SegmentService) loadItems(segmentID uint) ([]models.SegmentProduct, map[uint]string, error) {
	items, err := s.itemRepo.ListBySegment(segmentID)
	if err != nil {
		return nil, nil, err
	}
	sections, err := s.sectionRepo.ListBySegment(segmentID)
	if err != nil {
		return nil, nil, err
	}
	names := make(map[uint]string, len(sections))
	for _, section := range sections {
		names[section.ID] = section.Name
	}
	return items, names, nil
}

// sectionOrder maps section ids to their display rank (sort_order, then
// name). The unsectioned group always ranks first.
func (s *SegmentService) sectionOrder(segmentID uint) map[uint]int {
	order := map[uint]int{}
	sections, err := s.sectionRepo.ListBySegment(segmentID)
	if err != nil {
		return order
	}
	for i, section := range sections {
		order[section.ID] = i + 1
	}
	return order
}

func sectionKey(item models.SegmentProduct) uint {
	if item.SectionID == nil {
		return 0
	}
	return *item.SectionID
}

func sectionName(key uint, names map[uint]string) string {
	if key == 0 {
		return unsectionedName
	}
	if name, ok := names[key]; ok {
		return name
	}
	return unsectionedName
}

func lineTotal(qty models.Quantity, price models.Money) models.Money {
	return models.NewMoneyFromDecimal(qty.Decimal.Mul(price.Decimal))
}

// buildPreview keeps the top 3 items per section by 30-day line total.
// Sections come out name-ordered with the unsectioned group first.
func buildPreview(items []models.SegmentProduct, names map[uint]string) []PreviewSection {
	grouped := map[uint][]PreviewItem{}
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		key := sectionKey(item)
		grouped[key] = append(grouped[key], PreviewItem{
			Product:   item.Product.Name,
			Unit:      item.Product.Unit,
			Qty7:      item.Qty7,
			Qty15:     item.Qty15,
			Qty30:     item.Qty30,
			Qty60:     item.Qty60,
			Qty90:     item.Qty90,
			AvgPrice:  item.AvgPrice,
			LineTotal: lineTotal(item.Qty30, item.AvgPrice),
			Note:      item.Note,
		})
	}

	keys := make([]uint, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == 0 || keys[j] == 0 {
			return keys[i] == 0
		}
		return sectionName(keys[i], names) < sectionName(keys[j], names)
	})

	out := make([]PreviewSection, 0, len(keys))
	for _, key := range keys {
		sectionItems := grouped[key]
		sort.SliceStable(sectionItems, func(i, j int) bool {
			return sectionItems[i].LineTotal.Decimal.GreaterThan(sectionItems[j].LineTotal.Decimal)
		})
		if len(sectionItems) > 3 {
			sectionItems = sectionItems[:3]
		}
		out = append(out, PreviewSection{Name: sectionName(key, names), Items: sectionItems})
	}
	return out
}

// buildReport groups all items by section with per-window subtotals and
// grand totals. Sections follow their configured sort order with the
// unsectioned group first; items stay product-name ordered.
func buildReport(items []models.SegmentProduct, names map[uint]string, order map[uint]int) ([]ReportSection, ReportTotals) {
	grouped := map[uint]*ReportSection{}
	var keys []uint
	var grand7, grand15, grand30, grand60, grand90 decimal.Decimal

	for _, item := range items {
		if item.Product == nil {
			continue
		}
		key := sectionKey(item)
		section, ok := grouped[key]
		if !ok {
			section = &ReportSection{Name: sectionName(key, names)}
			grouped[key] = section
			keys = append(keys, key)
		}

		line7 := lineTotal(item.Qty7, item.AvgPrice)
		line15 := lineTotal(item.Qty15, item.AvgPrice)
		line30 := lineTotal(item.Qty30, item.AvgPrice)
		line60 := lineTotal(item.Qty60, item.AvgPrice)
		line90 := lineTotal(item.Qty90, item.AvgPrice)

		section.Items = append(section.Items, ReportItem{
			Product:     item.Product.Name,
			Unit:        item.Product.Unit,
			Qty7:        item.Qty7,
			Qty15:       item.Qty15,
			Qty30:       item.Qty30,
			Qty60:       item.Qty60,
			Qty90:       item.Qty90,
			AvgPrice:    item.AvgPrice,
			LineTotal7:  line7,
			LineTotal15: line15,
			LineTotal30: line30,
			LineTotal60: line60,
			LineTotal90: line90,
			Note:        item.Note,
		})

		section.Total7 = models.NewMoneyFromDecimal(section.Total7.Decimal.Add(line7.Decimal))
		section.Total15 = models.NewMoneyFromDecimal(section.Total15.Decimal.Add(line15.Decimal))
		section.Total30 = models.NewMoneyFromDecimal(section.Total30.Decimal.Add(line30.Decimal))
		section.Total60 = models.NewMoneyFromDecimal(section.Total60.Decimal.Add(line60.Decimal))
		section.Total90 = models.NewMoneyFromDecimal(section.Total90.Decimal.Add(line90.Decimal))

		grand7 = grand7.Add(line7.Decimal)
		grand15 = grand15.Add(line15.Decimal)
		grand30 = grand30.Add(line30.Decimal)
		grand60 = grand60.Add(line60.Decimal)
		grand90 = grand90.Add(line90.Decimal)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == 0 || keys[j] == 0 {
			return keys[i] == 0
		}
		return order[keys[i]] < order[keys[j]]
	})

	sections := make([]ReportSection, 0, len(keys))
	for _, key := range keys {
		sections = append(sections, *grouped[key])
	}

	totals := ReportTotals{
		GrandTotal:   models.NewMoneyFromDecimal(grand30),
		GrandTotal7:  models.NewMoneyFromDecimal(grand7),
		GrandTotal15: models.NewMoneyFromDecimal(grand15),
		GrandTotal30: models.NewMoneyFromDecimal(grand30),
		GrandTotal60: models.NewMoneyFromDecimal(grand60),
		GrandTotal90: models.NewMoneyFromDecimal(grand90),
	}
	return sections, totals
}
