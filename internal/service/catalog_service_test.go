package service

import (
	"errors"
	"testing"

	"github.com/mixcampeao/api/internal/models"
	"github.com/mixcampeao/api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestCatalogService(db *gorm.DB) *CatalogService {
	return NewCatalogService(
		repository.NewSegmentRepository(db),
		repository.NewSectionRepository(db),
		repository.NewProductRepository(db),
		repository.NewSegmentProductRepository(db),
	)
}

func TestUpsertSectionCreateRenameConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCatalogService(db)
	segment := seedSegment(t, db, "padaria", "29.90", true)

	bases, err := svc.UpsertSection(UpsertSectionInput{SegmentID: segment.ID, Name: "Bases"})
	if err != nil {
		t.Fatalf("create section failed: %v", err)
	}
	if _, err := svc.UpsertSection(UpsertSectionInput{SegmentID: segment.ID, Name: " Bases "}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate name should conflict, got %v", err)
	}

	order := 5
	renamed, err := svc.UpsertSection(UpsertSectionInput{ID: &bases.ID, SegmentID: segment.ID, Name: "Coberturas", SortOrder: &order})
	if err != nil {
		t.Fatalf("rename section failed: %v", err)
	}
	if renamed.ID != bases.ID || renamed.Name != "Coberturas" || renamed.SortOrder != 5 {
		t.Fatalf("unexpected section after rename: %+v", renamed)
	}

	if _, err := svc.UpsertSection(UpsertSectionInput{SegmentID: 999, Name: "Bases"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown segment should be not found, got %v", err)
	}
}

func TestUpsertProductUniqueName(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCatalogService(db)

	kg := "kg"
	farinha, err := svc.UpsertProduct(UpsertProductInput{Name: "Farinha", Unit: &kg})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if _, err := svc.UpsertProduct(UpsertProductInput{Name: "Farinha"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate name should conflict, got %v", err)
	}

	updated, err := svc.UpsertProduct(UpsertProductInput{ID: &farinha.ID, Name: "Farinha de trigo", Unit: &kg})
	if err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	if updated.ID != farinha.ID || updated.Name != "Farinha de trigo" {
		t.Fatalf("unexpected product after update: %+v", updated)
	}

	if _, err := svc.UpsertProduct(UpsertProductInput{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank name should be invalid, got %v", err)
	}
}

func TestUpsertItemDerivesWindows(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCatalogService(db)
	segment := seedSegment(t, db, "lanchonete", "39.90", true)

	product, err := svc.UpsertProduct(UpsertProductInput{Name: "Queijo"})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	item, err := svc.UpsertItem(UpsertItemInput{
		SegmentID: segment.ID,
		ProductID: product.ID,
		Qty30:     decimal.NewFromInt(30),
		AvgPrice:  decimal.NewFromFloat(12.50),
	})
	if err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	if !item.Qty7.Decimal.Equal(decimal.NewFromInt(7)) ||
		!item.Qty15.Decimal.Equal(decimal.NewFromInt(15)) ||
		!item.Qty60.Decimal.Equal(decimal.NewFromInt(60)) ||
		!item.Qty90.Decimal.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("derived windows wrong: 7=%s 15=%s 60=%s 90=%s",
			item.Qty7, item.Qty15, item.Qty60, item.Qty90)
	}

	// Re-upserting the same pair overwrites in place, keeping the
	// explicit window when one is sent.
	explicit := decimal.NewFromFloat(9.5)
	merged, err := svc.UpsertItem(UpsertItemInput{
		SegmentID: segment.ID,
		ProductID: product.ID,
		Qty30:     decimal.NewFromInt(60),
		Qty7:      &explicit,
		AvgPrice:  decimal.NewFromFloat(11.00),
	})
	if err != nil {
		t.Fatalf("merge item failed: %v", err)
	}
	if merged.ID != item.ID {
		t.Fatalf("merge should keep the row, want id %d got %d", item.ID, merged.ID)
	}
	if !merged.Qty7.Decimal.Equal(explicit) || !merged.Qty15.Decimal.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("merged windows wrong: 7=%s 15=%s", merged.Qty7, merged.Qty15)
	}

	var count int64
	if err := db.Model(&models.SegmentProduct{}).Count(&count).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("items want 1 got %d", count)
	}
}

func TestUpsertItemGuards(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCatalogService(db)
	segment := seedSegment(t, db, "mercearia", "49.90", true)

	if _, err := svc.UpsertItem(UpsertItemInput{SegmentID: segment.ID, Qty30: decimal.NewFromInt(1)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing product should be invalid, got %v", err)
	}
	if _, err := svc.UpsertItem(UpsertItemInput{
		SegmentID: segment.ID,
		ProductID: 999,
		Qty30:     decimal.NewFromInt(1),
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown product should be not found, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCatalogService(db)
	segment := seedSegment(t, db, "hortifruti", "24.90", true)
	seedItem(t, db, segment.ID, nil, "banana", "10", "3.00")

	var item models.SegmentProduct
	if err := db.First(&item).Error; err != nil {
		t.Fatalf("load item failed: %v", err)
	}
	if err := svc.DeleteItem(item.ID); err != nil {
		t.Fatalf("delete item failed: %v", err)
	}
	if err := svc.DeleteItem(item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}
