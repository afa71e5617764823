package service

import (
	"encoding/json"
	"time"

	"github.com/mixcampeao/api/internal/config"
	"github.com/mixcampeao/api/internal/logger"
	"github.com/mixcampeao/api/internal/models"
	"github.com/mixcampeao/api/internal/payment/pix"
	"github.com/mixcampeao/api/internal/repository"
)

// ExpiryScheduler schedules the pending-purchase expiry task. A nil
// scheduler leaves charges pending until the webhook settles them.
type ExpiryScheduler interface {
	ScheduleExpiry(txid string, delay time.Duration) error
}

// PaymentService creates Pix charges and settles them via webhook.
type PaymentService struct {
	cfg          *config.Config
	pixClient    *pix.Client
	purchaseRepo repository.PurchaseRepository
	segmentRepo  repository.SegmentRepository
	scheduler    ExpiryScheduler
}

// NewPaymentService creates the payment service.
func NewPaymentService(
	cfg *config.Config,
	pixClient *pix.Client,
	purchaseRepo repository.PurchaseRepository,
	segmentRepo repository.SegmentRepository,
	scheduler ExpiryScheduler,
) *PaymentService {
	return &PaymentService{
		cfg:          cfg,
		pixClient:    pixClient,
		purchaseRepo: purchaseRepo,
		segmentRepo:  segmentRepo,
		scheduler:    scheduler,
	}
}

// ChargeResult is the payload returned on charge creation.
type ChargeResult struct {
	PurchaseID    uint         `json:"purchase_id"`
	TxID          string       `json:"txid"`
	Amount        models.Money `json:"amount"`
	CopyPaste     string       `json:"copy_paste"`
	QRCodeDataURL string       `json:"qr_code_data_url"`
	ExpiresAt     time.Time    `json:"expires_at"`
}

// CreateCharge opens a Pix charge for a segment. A user holding a PAID
// purchase of the same segment cannot buy it again.
func (s *PaymentService) CreateCharge(userID, segmentID uint) (*ChargeResult, error) {
	segment, err := s.segmentRepo.GetByID(segmentID)
	if err != nil {
		return nil, err
	}
	if segment == nil {
		return nil, ErrNotFound
	}
	if !segment.Active {
		return nil, ErrSegmentInactive
	}

	paid, err := s.purchaseRepo.GetPaidByUserAndSegment(userID, segmentID)
	if err != nil {
		return nil, err
	}
	if paid != nil {
		return nil, ErrAlreadyPurchased
	}

	txid := pix.GenerateTxID()
	charge, err := s.pixClient.CreateCharge(txid, segment.PricePix.Decimal)
	if err != nil {
		return nil, err
	}

	purchase := &models.Purchase{
		UserID:     userID,
		SegmentID:  segmentID,
		Status:     models.PurchaseStatusPending,
		Amount:     segment.PricePix,
		TxID:       charge.TxID,
		PixPayload: charge.CopyPaste,
		QRCodeData: charge.QRCodeDataURL,
		ExpiresAt:  &charge.ExpiresAt,
	}
	if err := s.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}

	if s.scheduler != nil {
		delay := time.Until(charge.ExpiresAt)
		if err := s.scheduler.ScheduleExpiry(charge.TxID, delay); err != nil {
			// The webhook remains the source of truth for settlement.
			logger.Warnw("purchase_expiry_schedule_failed", "txid", charge.TxID, "error", err)
		}
	}

	return &ChargeResult{
		PurchaseID:    purchase.ID,
		TxID:          charge.TxID,
		Amount:        purchase.Amount,
		CopyPaste:     charge.CopyPaste,
		QRCodeDataURL: charge.QRCodeDataURL,
		ExpiresAt:     charge.ExpiresAt,
	}, nil
}

// GetPurchase fetches a purchase owned by the user.
func (s *PaymentService) GetPurchase(userID, purchaseID uint) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil || purchase.UserID != userID {
		return nil, ErrNotFound
	}
	return purchase, nil
}

// ListUserSegments lists the segments the user has paid for.
func (s *PaymentService) ListUserSegments(userID uint) ([]models.Purchase, error) {
	purchases, err := s.purchaseRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	paid := make([]models.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if p.Status == models.PurchaseStatusPaid {
			paid = append(paid, p)
		}
	}
	return paid, nil
}

// WebhookEvent is the provider notification body.
type WebhookEvent struct {
	TxID   string `json:"txid"`
	Status string `json:"status"`
}

// HandleWebhook settles a charge from a provider notification. The raw
// body is verified against the webhook signature before parsing. Repeat
// deliveries of a PAID event are acknowledged without effect.
func (s *PaymentService) HandleWebhook(rawBody []byte, signature string) error {
	if err := s.pixClient.VerifySignature(rawBody, signature); err != nil {
		return err
	}

	var event WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return ErrInvalidInput
	}
	if event.TxID == "" {
		return ErrInvalidInput
	}

	purchase, err := s.purchaseRepo.GetByTxID(event.TxID)
	if err != nil {
		return err
	}
	if purchase == nil {
		return ErrNotFound
	}

	if event.Status != models.PurchaseStatusPaid {
		logger.Infow("pix_webhook_ignored", "txid", event.TxID, "status", event.Status)
		return nil
	}

	affected, err := s.purchaseRepo.MarkPaid(event.TxID, time.Now(), string(rawBody))
	if err != nil {
		return err
	}
	if affected == 0 {
		logger.Infow("pix_webhook_duplicate", "txid", event.TxID)
		return nil
	}
	logger.Infow("purchase_paid", "txid", event.TxID, "purchase_id", purchase.ID)
	return nil
}

// ExpirePurchase flips a still-pending purchase to EXPIRED. Paid
// purchases are never touched.
func (s *PaymentService) ExpirePurchase(txid string) error {
	affected, err := s.purchaseRepo.MarkExpired(txid)
	if err != nil {
		return err
	}
	if affected > 0 {
		logger.Infow("purchase_expired", "txid", txid)
	}
	return nil
}
