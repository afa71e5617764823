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

// ListSegments lists segments for the back office with search and
// pagination.
func (h *Handler) ListSegments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	segments, total, err := h.SegmentService.AdminList(repository.SegmentListFilter{
		Search:     c.Query("search"),
		OnlyActive: c.Query("only_active") == "true",
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "falha ao listar segmentos", err)
		return
	}

	totalPage := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPage++
	}
	response.SuccessWithPage(c, segments, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// SegmentRequest is the segment create/update body.
type SegmentRequest struct {
	Code     string          `json:"code" binding:"required"`
	Slug     string          `json:"slug" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	PricePix decimal.Decimal `json:"price_pix"`
	Teaser   *string         `json:"teaser"`
	Active   *bool           `json:"active"`
}

// CreateSegment creates a segment.
func (h *Handler) CreateSegment(c *gin.Context) {
	var req SegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "requisição inválida", err)
		return
	}
	h.upsertSegment(c, nil, req)
}

// UpdateSegment updates a segment.
func (h *Handler) UpdateSegment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req SegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "requisição inválida", err)
		return
	}
	h.upsertSegment(c, &id, req)
}

func (h *Handler) upsertSegment(c *gin.Context, id *uint, req SegmentRequest) {
	segment, err := h.SegmentService.Upsert(service.UpsertSegmentInput{
		ID:       id,
		Code:     req.Code,
		Slug:     req.Slug,
		Name:     req.Name,
		PricePix: req.PricePix,
		Teaser:   req.Teaser,
		Active:   req.Active,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "dados do segmento inválidos", nil)
		case errors.Is(err, service.ErrConflict):
			respondError(c, response.CodeConflict, "código ou slug já em uso", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "segmento não encontrado", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao salvar segmento", err)
		}
		return
	}
	response.Success(c, segment)
}

// DeleteSegment removes a segment. Segments with purchases on record
// are only deactivated.
func (h *Handler) DeleteSegment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	softDeleted, err := h.SegmentService.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "segmento não encontrado", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao excluir segmento", err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true, "soft_deleted": softDeleted})
}

// ListSegmentSections lists a segment's sections.
func (h *Handler) ListSegmentSections(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	sections, err := h.SegmentService.ListSections(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "segmento não encontrado", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao listar seções", err)
		}
		return
	}
	response.Success(c, sections)
}

// ListSegmentItems lists a segment's line items.
func (h *Handler) ListSegmentItems(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	items, err := h.CatalogService.ListItems(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "identificador inválido", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao listar itens", err)
		}
		return
	}
	response.Success(c, items)
}
