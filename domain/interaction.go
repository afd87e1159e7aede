package domain

import "time"

// ViewEvent is the ephemeral audit record of one tracked product
// view. It expires passively (TTL) in the interaction store.
type ViewEvent struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Category  string    `json:"category,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Interaction weights. A purchase signals stronger intent than a view.
const (
	ViewPopularityWeight     = 1
	PurchasePopularityWeight = 5
	ViewAffinityWeight       = 1
	PurchaseAffinityWeight   = 3
)

// Bounds on the per-user interaction state.
const (
	ViewHistoryLimit = 50
)
