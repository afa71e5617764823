package worker

import (
	"context"
	"encoding/json"

	"github.com/mixcampeao/api/internal/logger"
	"github.com/mixcampeao/api/internal/provider"
	"github.com/mixcampeao/api/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer handles the queued background tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register binds task types to their handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPurchaseExpire, c.handlePurchaseExpire)
}

// handlePurchaseExpire expires a Pix charge that was never paid. The
// settle path is conditional on PENDING, so a webhook that raced the
// timer wins and this becomes a no-op.
func (c *Consumer) handlePurchaseExpire(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_purchase_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PurchaseExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_purchase_expire_unmarshal_failed", "error", err)
		return err
	}
	if payload.TxID == "" {
		logger.Debugw("worker_purchase_expire_skip_empty_txid")
		return nil
	}
	if err := c.PaymentService.ExpirePurchase(payload.TxID); err != nil {
		logger.Warnw("worker_purchase_expire_failed", "txid", payload.TxID, "error", err)
		return err
	}
	return nil
}
