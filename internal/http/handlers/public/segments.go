package public

import (
	"errors"

	"github.com/mixcampeao/api/internal/http/response"
	"github.com/mixcampeao/api/internal/service"

	"github.com/gin-gonic/gin"
)

// ListSegments lists active segments. Logged-in users also get their
// purchased flags.
func (h *Handler) ListSegments(c *gin.Context) {
	segments, err := h.SegmentService.ListPublic(optionalUserID(c))
	if err != nil {
		respondError(c, response.CodeInternal, "falha ao listar segmentos", err)
		return
	}
	response.Success(c, segments)
}

// GetSegment returns a segment's public page with its preview.
func (h *Handler) GetSegment(c *gin.Context) {
	detail, err := h.SegmentService.Detail(c.Param("slug"), optionalUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "segmento não encontrado", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao carregar segmento", err)
		}
		return
	}
	response.Success(c, detail)
}

// GetSegmentReport returns the full shopping-list report for buyers.
func (h *Handler) GetSegmentReport(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	report, err := h.SegmentService.Report(c.Param("slug"), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "segmento não encontrado", nil)
		case errors.Is(err, service.ErrPurchaseRequired):
			respondError(c, response.CodeForbidden, "compra necessária para acessar o relatório", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao gerar relatório", err)
		}
		return
	}
	response.Success(c, report)
}

// ListMySegments lists the segments the user already paid for.
func (h *Handler) ListMySegments(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	purchases, err := h.PaymentService.ListUserSegments(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "falha ao listar compras", err)
		return
	}

	out := make([]gin.H, 0, len(purchases))
	for _, p := range purchases {
		entry := gin.H{
			"purchase_id": p.ID,
			"segment_id":  p.SegmentID,
			"paid_at":     p.PaidAt,
			"amount":      p.Amount,
		}
		if p.Segment != nil {
			entry["segment"] = gin.H{
				"id":   p.Segment.ID,
				"code": p.Segment.Code,
				"slug": p.Segment.Slug,
				"name": p.Segment.Name,
			}
		}
		out = append(out, entry)
	}
	response.Success(c, out)
}
