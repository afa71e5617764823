package admin

import (
	"errors"
	"strconv"

	handlershared "github.com/mixcampeao/api/internal/http/handlers/shared"
	"github.com/mixcampeao/api/internal/http/response"
	"github.com/mixcampeao/api/internal/repository"
	"github.com/mixcampeao/api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SectionRequest is the section create/update body.
type SectionRequest struct {
	SegmentID uint   `json:"segment_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	SortOrder *int   `json:"sort_order"`
}

// CreateSection creates a section.
func (h *Handler) CreateSection(c *gin.Context) {
	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "requisição inválida", err)
		return
	}
	h.upsertSection(c, nil, req)
}

// UpdateSection updates a section.
func (h *Handler) UpdateSection(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "requisição inválida", err)
		return
	}
	h.upsertSection(c, &id, req)
}

func (h *Handler) upsertSection(c *gin.Context, id *uint, req SectionRequest) {
	section, err := h.CatalogService.UpsertSection(service.UpsertSectionInput{
		ID:        id,
		SegmentID: req.SegmentID,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "dados da seção inválidos", nil)
		case errors.Is(err, service.ErrConflict):
			respondError(c, response.CodeConflict, "já existe uma seção com esse nome no segmento", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "seção ou segmento não encontrado", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao salvar seção", err)
		}
		return
	}
	response.Success(c, section)
}

// ListProducts lists the shared product dictionary.
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	products, total, err := h.CatalogService.ListProducts(repository.ProductListFilter{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "falha ao listar produtos", err)
		return
	}

	totalPage := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPage++
	}
	response.SuccessWithPage(c, products, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// ProductRequest is the product create/update body.
type ProductRequest struct {
	Name string  `json:"name" binding:"required"`
	Unit *string `json:"unit"`
}

// CreateProduct creates a product.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "requisição inválida", err)
		return
	}
	h.upsertProduct(c, nil, req)
}

// UpdateProduct updates a product.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "requisição inválida", err)
		return
	}
	h.upsertProduct(c, &id, req)
}

func (h *Handler) upsertProduct(c *gin.Context, id *uint, req ProductRequest) {
	product, err := h.CatalogService.UpsertProduct(service.UpsertProductInput{
		ID:   id,
		Name: req.Name,
		Unit: req.Unit,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "dados do produto inválidos", nil)
		case errors.Is(err, service.ErrConflict):
			respondError(c, response.CodeConflict, "já existe um produto com esse nome", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "produto não encontrado", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao salvar produto", err)
		}
		return
	}
	response.Success(c, product)
}

// ItemRequest is the line-item body. The 30-day quantity is the
// baseline; omitted windows are derived from it.
type ItemRequest struct {
	SegmentID uint             `json:"segment_id" binding:"required"`
	SectionID *uint            `json:"section_id"`
	ProductID uint             `json:"product_id" binding:"required"`
	Qty30     decimal.Decimal  `json:"qty_ideal_30"`
	Qty7      *decimal.Decimal `json:"qty_ideal_7"`
	Qty15     *decimal.Decimal `json:"qty_ideal_15"`
	Qty60     *decimal.Decimal `json:"qty_ideal_60"`
	Qty90     *decimal.Decimal `json:"qty_ideal_90"`
	AvgPrice  decimal.Decimal  `json:"avg_price"`
	Note      *string          `json:"note"`
}

// UpsertItem merges a line item by its (segment, product) pair.
func (h *Handler) UpsertItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "requisição inválida", err)
		return
	}

	item, err := h.CatalogService.UpsertItem(service.UpsertItemInput{
		SegmentID: req.SegmentID,
		SectionID: req.SectionID,
		ProductID: req.ProductID,
		Qty30:     req.Qty30,
		Qty7:      req.Qty7,
		Qty15:     req.Qty15,
		Qty60:     req.Qty60,
		Qty90:     req.Qty90,
		AvgPrice:  req.AvgPrice,
		Note:      req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "dados do item inválidos", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "segmento ou produto não encontrado", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao salvar item", err)
		}
		return
	}
	response.Success(c, item)
}

// DeleteItem removes a line item.
func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.CatalogService.DeleteItem(id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "item não encontrado", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao excluir item", err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
