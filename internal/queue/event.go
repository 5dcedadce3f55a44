// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// ProductPurchasedEvent is published when a purchase succeeds. It contains
// enough information for downstream consumers to log, notify, or feed
// analytics without querying the primary database.
type ProductPurchasedEvent struct {
	ProductID      uint64  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	OwnerID        uint64  `json:"owner_id"`
	BuyerID        uint64  `json:"buyer_id"`
	Price          float64 `json:"price"`
	RemainingStock int64   `json:"remaining_stock"`
	PurchasedAt    string  `json:"purchased_at"`
}
