package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskPurchaseExpire flips an unpaid Pix charge to EXPIRED once its
// window closes.
const TaskPurchaseExpire = "pix:expire_purchase"

// PurchaseExpirePayload identifies the charge to expire.
type PurchaseExpirePayload struct {
	TxID string `json:"txid"`
}

// NewPurchaseExpireTask builds the expiry task.
func NewPurchaseExpireTask(payload PurchaseExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPurchaseExpire, body), nil
}
