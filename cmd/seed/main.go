package main

import (
	"github.com/mixcampeao/api/internal/config"
	"github.com/mixcampeao/api/internal/logger"
	"github.com/mixcampeao/api/internal/models"

	"github.com/shopspring/decimal"
)

// Seeds the demo catalog: the Açaí segment with its sections and two
// line items. Safe to re-run; everything is matched by its natural key.
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("falha ao conectar no banco de dados: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("falha ao migrar banco de dados: %v", err)
	}

	if err := models.InitDefaultAdmin(cfg.Admin.Email, cfg.Admin.Password); err != nil {
		stdLog.Printf("falha ao criar admin inicial: %v", err)
	}

	teaser := "Lista de compra enxuta pra vender rápido."
	segment := models.Segment{
		Code:     "ACAI",
		Slug:     "acai",
		Name:     "Açaí",
		PricePix: models.NewMoneyFromDecimal(decimal.NewFromFloat(19.90)),
		Teaser:   &teaser,
		Active:   true,
	}
	var existingSegment models.Segment
	if err := models.DB.Where("code = ?", segment.Code).First(&existingSegment).Error; err != nil {
		if err := models.DB.Create(&segment).Error; err != nil {
			stdLog.Fatalf("falha ao criar segmento %s: %v", segment.Code, err)
		}
		stdLog.Printf("segmento criado: %s", segment.Code)
	} else {
		existingSegment.Slug = segment.Slug
		existingSegment.Name = segment.Name
		existingSegment.PricePix = segment.PricePix
		existingSegment.Teaser = segment.Teaser
		existingSegment.Active = true
		if err := models.DB.Save(&existingSegment).Error; err != nil {
			stdLog.Fatalf("falha ao atualizar segmento %s: %v", segment.Code, err)
		}
		segment = existingSegment
		stdLog.Printf("segmento atualizado: %s", segment.Code)
	}

	sectionIDs := map[string]uint{}
	for i, name := range []string{"Bases", "Adicionais"} {
		section := models.Section{SegmentID: segment.ID, Name: name, SortOrder: i + 1}
		var existing models.Section
		if err := models.DB.Where("segment_id = ? AND name = ?", segment.ID, name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&section).Error; err != nil {
				stdLog.Printf("falha ao criar seção %s: %v", name, err)
				continue
			}
			existing = section
		} else if existing.SortOrder != section.SortOrder {
			existing.SortOrder = section.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("falha ao atualizar seção %s: %v", name, err)
			}
		}
		sectionIDs[name] = existing.ID
	}

	productIDs := map[string]uint{}
	kg := "kg"
	un := "un"
	for _, p := range []models.Product{
		{Name: "Açaí (polpa)", Unit: &kg},
		{Name: "Leite condensado", Unit: &un},
	} {
		product := p
		var existing models.Product
		if err := models.DB.Where("name = ?", product.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("falha ao criar produto %s: %v", product.Name, err)
				continue
			}
			existing = product
		} else if existing.Unit == nil && product.Unit != nil {
			existing.Unit = product.Unit
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("falha ao atualizar produto %s: %v", product.Name, err)
			}
		}
		productIDs[existing.Name] = existing.ID
	}

	altoGiro := "alto giro"
	upsell := "upsell"
	basesID := sectionIDs["Bases"]
	addsID := sectionIDs["Adicionais"]
	items := []models.SegmentProduct{
		{
			SegmentID: segment.ID,
			SectionID: &basesID,
			ProductID: productIDs["Açaí (polpa)"],
			Qty7:      models.NewQuantityFromDecimal(decimal.NewFromFloat(2.8)),
			Qty15:     models.NewQuantityFromDecimal(decimal.NewFromInt(6)),
			Qty30:     models.NewQuantityFromDecimal(decimal.NewFromInt(12)),
			Qty60:     models.NewQuantityFromDecimal(decimal.NewFromInt(24)),
			Qty90:     models.NewQuantityFromDecimal(decimal.NewFromInt(36)),
			AvgPrice:  models.NewMoneyFromDecimal(decimal.NewFromFloat(18.90)),
			Note:      &altoGiro,
		},
		{
			SegmentID: segment.ID,
			SectionID: &addsID,
			ProductID: productIDs["Leite condensado"],
			Qty7:      models.NewQuantityFromDecimal(decimal.NewFromFloat(5.6)),
			Qty15:     models.NewQuantityFromDecimal(decimal.NewFromInt(12)),
			Qty30:     models.NewQuantityFromDecimal(decimal.NewFromInt(24)),
			Qty60:     models.NewQuantityFromDecimal(decimal.NewFromInt(48)),
			Qty90:     models.NewQuantityFromDecimal(decimal.NewFromInt(72)),
			AvgPrice:  models.NewMoneyFromDecimal(decimal.NewFromFloat(6.50)),
			Note:      &upsell,
		},
	}

	for _, item := range items {
		if item.ProductID == 0 {
			continue
		}
		line := item
		var existing models.SegmentProduct
		if err := models.DB.Where("segment_id = ? AND product_id = ?", line.SegmentID, line.ProductID).First(&existing).Error; err != nil {
			if err := models.DB.Create(&line).Error; err != nil {
				stdLog.Printf("falha ao criar item do segmento: %v", err)
			}
			continue
		}
		existing.SectionID = line.SectionID
		existing.Qty7 = line.Qty7
		existing.Qty15 = line.Qty15
		existing.Qty30 = line.Qty30
		existing.Qty60 = line.Qty60
		existing.Qty90 = line.Qty90
		existing.AvgPrice = line.AvgPrice
		existing.Note = line.Note
		if err := models.DB.Save(&existing).Error; err != nil {
			stdLog.Printf("falha ao atualizar item do segmento: %v", err)
		}
	}

	stdLog.Printf("seed concluído: segmento %s com %d seções e %d itens", segment.Code, len(sectionIDs), len(items))
}
