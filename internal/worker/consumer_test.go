package worker

import (
	"context"
	"testing"

	"github.com/mixcampeao/api/internal/config"
	"github.com/mixcampeao/api/internal/models"
	"github.com/mixcampeao/api/internal/provider"
	"github.com/mixcampeao/api/internal/queue"
	"github.com/mixcampeao/api/internal/repository"
	"github.com/mixcampeao/api/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestConsumer(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:worker_test?mode=memory&cache=shared"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Segment{}, &models.Purchase{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Pix.ExpireMinutes = 30
	paymentService := service.NewPaymentService(
		cfg,
		nil,
		repository.NewPurchaseRepository(db),
		repository.NewSegmentRepository(db),
		nil,
	)
	return NewConsumer(&provider.Container{PaymentService: paymentService}), db
}

func TestRegisterNilMux(t *testing.T) {
	NewConsumer(nil).Register(nil)
}

func TestHandlePurchaseExpireBadPayload(t *testing.T) {
	consumer, _ := newTestConsumer(t)

	task := asynq.NewTask(queue.TaskPurchaseExpire, []byte("nao-e-json"))
	if err := consumer.handlePurchaseExpire(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestHandlePurchaseExpireEmptyTxID(t *testing.T) {
	consumer, _ := newTestConsumer(t)

	task, err := queue.NewPurchaseExpireTask(queue.PurchaseExpirePayload{})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handlePurchaseExpire(context.Background(), task); err != nil {
		t.Fatalf("empty txid should be skipped, got %v", err)
	}
}

func TestHandlePurchaseExpireMarksPending(t *testing.T) {
	consumer, db := newTestConsumer(t)

	purchase := &models.Purchase{
		UserID:    1,
		SegmentID: 1,
		Status:    models.PurchaseStatusPending,
		Amount:    models.NewMoneyFromDecimal(decimal.NewFromFloat(19.90)),
		TxID:      "worker-tx-1",
	}
	if err := db.Create(purchase).Error; err != nil {
		t.Fatalf("seed purchase failed: %v", err)
	}

	task, err := queue.NewPurchaseExpireTask(queue.PurchaseExpirePayload{TxID: purchase.TxID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handlePurchaseExpire(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}

	var got models.Purchase
	if err := db.First(&got, purchase.ID).Error; err != nil {
		t.Fatalf("reload purchase failed: %v", err)
	}
	if got.Status != models.PurchaseStatusExpired {
		t.Fatalf("status want EXPIRED got %s", got.Status)
	}

	// Replaying the task against a settled purchase changes nothing.
	if err := consumer.handlePurchaseExpire(context.Background(), task); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
}
