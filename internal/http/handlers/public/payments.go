package public

import (
	"errors"
	"io"
	"strconv"

	"github.com/mixcampeao/api/internal/http/response"
	"github.com/mixcampeao/api/internal/payment/pix"
	"github.com/mixcampeao/api/internal/service"

	"github.com/gin-gonic/gin"
)

const webhookSignatureHeader = "X-Signature"

// CreatePixChargeRequest is the checkout body.
type CreatePixChargeRequest struct {
	SegmentID uint `json:"segment_id" binding:"required"`
}

// CreatePixCharge opens a Pix charge for a segment.
func (h *Handler) CreatePixCharge(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreatePixChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "requisição inválida", err)
		return
	}

	result, err := h.PaymentService.CreateCharge(userID, req.SegmentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "segmento não encontrado", nil)
		case errors.Is(err, service.ErrSegmentInactive):
			respondError(c, response.CodeBadRequest, "segmento indisponível", nil)
		case errors.Is(err, service.ErrAlreadyPurchased):
			respondError(c, response.CodeConflict, "segmento já adquirido", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao gerar cobrança Pix", err)
		}
		return
	}

	response.Success(c, result)
}

// GetPurchase returns one of the user's purchases.
func (h *Handler) GetPurchase(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "identificador inválido", nil)
		return
	}

	purchase, err := h.PaymentService.GetPurchase(userID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "compra não encontrada", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao carregar compra", err)
		}
		return
	}
	response.Success(c, purchase)
}

// PixWebhook settles charges from provider notifications. The signature
// covers the raw body, so it is read before any parsing.
func (h *Handler) PixWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, response.CodeBadRequest, "requisição inválida", err)
		return
	}

	err = h.PaymentService.HandleWebhook(body, c.GetHeader(webhookSignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, pix.ErrSignatureInvalid), errors.Is(err, pix.ErrConfigInvalid):
			respondError(c, response.CodeUnauthorized, "assinatura inválida", nil)
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "evento inválido", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "cobrança não encontrada", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao processar notificação", err)
		}
		return
	}

	response.Success(c, gin.H{"received": true})
}
