package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/mixcampeao/api/internal/config"
	"github.com/mixcampeao/api/internal/models"
	"github.com/mixcampeao/api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testDBCounter atomic.Int64

// newTestDB opens an isolated in-memory database. The named shared
// cache keeps every pooled connection on the same store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Segment{},
		&models.Section{},
		&models.Product{},
		&models.SegmentProduct{},
		&models.Purchase{},
		&models.ImportJob{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newTestImportService(t *testing.T, db *gorm.DB) *ImportService {
	t.Helper()
	cfg := &config.Config{}
	cfg.Import.PreviewMaxRows = 200
	cfg.Import.PreviewMaxErrors = 20
	return NewImportService(
		cfg,
		repository.NewImportJobRepository(db),
		repository.NewSegmentRepository(db),
		repository.NewSectionRepository(db),
		repository.NewProductRepository(db),
		repository.NewSegmentProductRepository(db),
	)
}

func newTestSegmentService(db *gorm.DB) *SegmentService {
	return NewSegmentService(
		repository.NewSegmentRepository(db),
		repository.NewSectionRepository(db),
		repository.NewSegmentProductRepository(db),
		repository.NewPurchaseRepository(db),
	)
}
