package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mixcampeao/api/internal/models"
	"github.com/mixcampeao/api/internal/repository"

	"github.com/shopspring/decimal"
)

func csvFile(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

var defaultHeader = "COD_SEGMENTO,PRODUTO,SECAO,UNIDADE,QTD_30,VALOR_MEDIO,OBS"

func runImport(t *testing.T, s *ImportService, mode string, data []byte) *RunResult {
	t.Helper()
	result, err := s.Run(RunInput{FileName: "catalogo.csv", Mode: mode, Data: data})
	if err != nil {
		t.Fatalf("import run failed: %v (result=%+v)", err, result)
	}
	return result
}

func TestImportCreatesSegmentsSectionsProducts(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	data := csvFile(
		defaultHeader,
		`ACAI,Açaí (polpa),Polpas,kg,12,"18,90",granel`,
		`ACAI,Copos 300ml,Descartáveis,,100,"0,45",`,
	)
	result := runImport(t, s, models.ImportModeUpsert, data)

	if result.Status != models.ImportJobStatusDone {
		t.Fatalf("expected DONE, got %s (errors=%v)", result.Status, result.Errors)
	}
	if result.Inserted != 2 || result.Updated != 0 || result.Skipped != 0 {
		t.Fatalf("unexpected counters: %+v", result)
	}

	segment, err := repository.NewSegmentRepository(db).GetByCode("ACAI")
	if err != nil || segment == nil {
		t.Fatalf("segment not auto-created: %v", err)
	}
	if segment.Slug != "acai" || segment.Name != "ACAI" || !segment.Active {
		t.Fatalf("unexpected auto-created segment: %+v", segment)
	}
	if !segment.PricePix.Decimal.IsZero() {
		t.Fatalf("auto-created segment price should be 0, got %s", segment.PricePix)
	}

	product, err := repository.NewProductRepository(db).GetByName("Açaí (polpa)")
	if err != nil || product == nil {
		t.Fatalf("product not created: %v", err)
	}
	if product.Unit == nil || *product.Unit != "kg" {
		t.Fatalf("unit not recorded: %+v", product.Unit)
	}

	items, err := repository.NewSegmentProductRepository(db).ListBySegment(segment.ID)
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestImportDerivesMissingWindows(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	data := csvFile(defaultHeader, `ACAI,Açaí (polpa),,,12,"18,90",`)
	runImport(t, s, models.ImportModeUpsert, data)

	segment, _ := repository.NewSegmentRepository(db).GetByCode("ACAI")
	items, _ := repository.NewSegmentProductRepository(db).ListBySegment(segment.ID)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	expect := map[string]models.Quantity{"2.8": item.Qty7, "6": item.Qty15, "24": item.Qty60, "36": item.Qty90}
	for wantStr, got := range expect {
		want, _ := decimal.NewFromString(wantStr)
		if !got.Decimal.Equal(want) {
			t.Fatalf("derived window mismatch: got %s expected %s", got, want)
		}
	}
	wantPrice, _ := decimal.NewFromString("18.9")
	if !item.AvgPrice.Decimal.Equal(wantPrice) {
		t.Fatalf("avg price: got %s expected %s", item.AvgPrice, wantPrice)
	}
	if item.SectionID != nil {
		t.Fatalf("expected no section, got %v", *item.SectionID)
	}
}

func TestImportUpsertIdempotence(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	data := csvFile(
		defaultHeader,
		`ACAI,Açaí (polpa),Polpas,kg,12,"18,90",`,
		`ACAI,Copos 300ml,,,100,"0,45",`,
	)
	first := runImport(t, s, models.ImportModeUpsert, data)
	if first.Inserted != 2 || first.Updated != 0 {
		t.Fatalf("first run counters: %+v", first)
	}

	second := runImport(t, s, models.ImportModeUpsert, data)
	if second.Inserted != 0 || second.Updated != second.TotalRows || second.Skipped != 0 {
		t.Fatalf("second run should update everything: %+v", second)
	}
}

func TestImportInsertNeverOverwrites(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	data := csvFile(defaultHeader, `ACAI,Açaí (polpa),,,12,"18,90",`)
	runImport(t, s, models.ImportModeUpsert, data)

	// External mutation between imports.
	segment, _ := repository.NewSegmentRepository(db).GetByCode("ACAI")
	itemRepo := repository.NewSegmentProductRepository(db)
	items, _ := itemRepo.ListBySegment(segment.ID)
	mutated, _ := decimal.NewFromString("99.99")
	items[0].AvgPrice = models.NewMoneyFromDecimal(mutated)
	if err := itemRepo.Update(&items[0]); err != nil {
		t.Fatalf("mutate item failed: %v", err)
	}

	result := runImport(t, s, models.ImportModeInsert, data)
	if result.Inserted != 0 || result.Skipped != 1 {
		t.Fatalf("INSERT rerun counters: %+v", result)
	}

	items, _ = itemRepo.ListBySegment(segment.ID)
	if !items[0].AvgPrice.Decimal.Equal(mutated) {
		t.Fatalf("INSERT mode overwrote external mutation: %s", items[0].AvgPrice)
	}
}

func TestImportReplaceSupersedes(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	fileA := csvFile(
		defaultHeader,
		`ACAI,P1,,,10,"1,00",`,
		`ACAI,P2,,,20,"2,00",`,
	)
	runImport(t, s, models.ImportModeUpsert, fileA)

	fileB := csvFile(defaultHeader, `ACAI,P3,,,30,"3,00",`)
	result := runImport(t, s, models.ImportModeReplace, fileB)
	if result.Inserted != 1 {
		t.Fatalf("REPLACE counters: %+v", result)
	}

	segment, _ := repository.NewSegmentRepository(db).GetByCode("ACAI")
	items, _ := repository.NewSegmentProductRepository(db).ListBySegment(segment.ID)
	if len(items) != 1 {
		t.Fatalf("REPLACE should leave exactly the new rows, got %d items", len(items))
	}
	if items[0].Product == nil || items[0].Product.Name != "P3" {
		t.Fatalf("unexpected surviving item: %+v", items[0])
	}

	// Products from the superseded file stay in the shared catalog.
	if p, _ := repository.NewProductRepository(db).GetByName("P1"); p == nil {
		t.Fatalf("REPLACE must not delete shared products")
	}
}

func TestImportValidationBlocksCommit(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	data := csvFile(
		defaultHeader,
		`ACAI,Açaí (polpa),,,12,"18,90",`, // valid row 2
		`,Copos 300ml,,,100,abc,`,         // row 3: two errors
	)
	result, err := s.Run(RunInput{FileName: "catalogo.csv", Mode: models.ImportModeUpsert, Data: data})
	if !errors.Is(err, ErrImportFailed) {
		t.Fatalf("expected ErrImportFailed, got %v", err)
	}
	if result.Status != models.ImportJobStatusFailed {
		t.Fatalf("expected FAILED job, got %s", result.Status)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected both row-3 errors reported, got %v", result.Errors)
	}
	for _, e := range result.Errors {
		if e.Row != 3 {
			t.Fatalf("expected errors on row 3, got %v", result.Errors)
		}
	}

	// Nothing committed, not even the valid row.
	if segment, _ := repository.NewSegmentRepository(db).GetByCode("ACAI"); segment != nil {
		t.Fatalf("validation errors must block the whole batch")
	}

	job, err := s.GetJob(result.JobID)
	if err != nil {
		t.Fatalf("get job failed: %v", err)
	}
	if job.Status != models.ImportJobStatusFailed || len(job.Errors) != 2 {
		t.Fatalf("ledger not updated: %+v", job)
	}
}

func TestImportUnsupportedFormatFailsJob(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	result, err := s.Run(RunInput{FileName: "catalogo.pdf", Mode: models.ImportModeUpsert, Data: []byte("x")})
	if !errors.Is(err, ErrImportFailed) {
		t.Fatalf("expected ErrImportFailed, got %v", err)
	}
	if len(result.Errors) != 1 || result.Errors[0].Row != 0 {
		t.Fatalf("expected single row-0 error, got %v", result.Errors)
	}
}

func TestImportInvalidMode(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	if _, err := s.Run(RunInput{FileName: "x.csv", Mode: "MERGE", Data: []byte("x")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestImportUnitFirstWriterWins(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	runImport(t, s, models.ImportModeUpsert, csvFile(defaultHeader, `ACAI,Polpa,,kg,10,"1,00",`))
	runImport(t, s, models.ImportModeUpsert, csvFile(defaultHeader, `ACAI,Polpa,,litro,10,"1,00",`))

	product, _ := repository.NewProductRepository(db).GetByName("Polpa")
	if product.Unit == nil || *product.Unit != "kg" {
		t.Fatalf("unit must keep first non-empty writer, got %v", product.Unit)
	}

	// A missing unit is backfilled by the first import that has one.
	runImport(t, s, models.ImportModeUpsert, csvFile(defaultHeader, `ACAI,Farinha,,,5,"2,00",`))
	runImport(t, s, models.ImportModeUpsert, csvFile(defaultHeader, `ACAI,Farinha,,kg,5,"2,00",`))
	product, _ = repository.NewProductRepository(db).GetByName("Farinha")
	if product.Unit == nil || *product.Unit != "kg" {
		t.Fatalf("null unit should be backfilled, got %v", product.Unit)
	}
}

func TestImportDuplicatePairLastRowWins(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	data := csvFile(
		defaultHeader,
		`ACAI,Polpa,,,10,"1,00",`,
		`ACAI,Polpa,,,20,"2,00",`,
	)
	result := runImport(t, s, models.ImportModeUpsert, data)
	if result.Inserted != 1 || result.Updated != 1 {
		t.Fatalf("duplicate pair counters: %+v", result)
	}

	segment, _ := repository.NewSegmentRepository(db).GetByCode("ACAI")
	items, _ := repository.NewSegmentProductRepository(db).ListBySegment(segment.ID)
	if len(items) != 1 {
		t.Fatalf("expected single merged item, got %d", len(items))
	}
	want, _ := decimal.NewFromString("2")
	if !items[0].AvgPrice.Decimal.Equal(want) {
		t.Fatalf("last row must win, got price %s", items[0].AvgPrice)
	}
}

func TestImportSlugFallback(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	runImport(t, s, models.ImportModeUpsert, csvFile(defaultHeader, `AÇAÍ-10,Polpa,,,10,"1,00",`))
	segment, _ := repository.NewSegmentRepository(db).GetByCode("AÇAÍ-10")
	if segment == nil || segment.Slug != "acai-10" {
		t.Fatalf("unexpected slug: %+v", segment)
	}
}

func TestImportSegmentCodesFirstOccurrenceOrder(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	var lines []string
	lines = append(lines, defaultHeader)
	for _, code := range []string{"ZETA", "ALFA", "ZETA", "BETA"} {
		lines = append(lines, fmt.Sprintf(`%s,Produto %s,,,10,"1,00",`, code, code))
	}
	runImport(t, s, models.ImportModeUpsert, csvFile(lines...))

	repo := repository.NewSegmentRepository(db)
	var ids []uint
	for _, code := range []string{"ZETA", "ALFA", "BETA"} {
		segment, err := repo.GetByCode(code)
		if err != nil || segment == nil {
			t.Fatalf("segment %s missing: %v", code, err)
		}
		ids = append(ids, segment.ID)
	}
	if !(ids[0] < ids[1] && ids[1] < ids[2]) {
		t.Fatalf("segments should be created in first-occurrence order, got ids %v", ids)
	}
}

func TestPrecheckCapsAndDoesNotCommit(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	var lines []string
	lines = append(lines, defaultHeader)
	for i := 0; i < 250; i++ {
		lines = append(lines, `,Produto,,,10,"1,00",`)
	}
	result, err := s.Precheck("catalogo.csv", csvFile(lines...))
	if err != nil {
		t.Fatalf("precheck failed: %v", err)
	}
	if len(result.Errors) != 20 {
		t.Fatalf("expected 20 sampled errors, got %d", len(result.Errors))
	}
	if !result.Truncated {
		t.Fatalf("expected truncated result")
	}

	var jobs int64
	if err := db.Model(&models.ImportJob{}).Count(&jobs).Error; err != nil {
		t.Fatalf("count jobs failed: %v", err)
	}
	if jobs != 0 {
		t.Fatalf("precheck must not open ledger entries, got %d", jobs)
	}
	var segments int64
	_ = db.Model(&models.Segment{}).Count(&segments).Error
	if segments != 0 {
		t.Fatalf("precheck must not touch the catalog")
	}
}

func TestImportJobLedgerListing(t *testing.T) {
	db := newTestDB(t)
	s := newTestImportService(t, db)

	runImport(t, s, models.ImportModeUpsert, csvFile(defaultHeader, `ACAI,Polpa,,,10,"1,00",`))
	_, _ = s.Run(RunInput{FileName: "bad.csv", Mode: models.ImportModeUpsert, Data: csvFile(defaultHeader, `,X,,,10,"1,00",`)})

	jobs, err := s.ListJobs(50)
	if err != nil {
		t.Fatalf("list jobs failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(jobs))
	}

	done, failed := 0, 0
	for _, job := range jobs {
		switch job.Status {
		case models.ImportJobStatusDone:
			done++
		case models.ImportJobStatusFailed:
			failed++
			if len(job.Errors) == 0 {
				t.Fatalf("FAILED job must carry errors: %+v", job)
			}
		}
	}
	if done != 1 || failed != 1 {
		t.Fatalf("unexpected ledger states: done=%d failed=%d", done, failed)
	}
}
