package entity

import (
	"time"

	"github.com/google/uuid"
)

// Known order statuses. The status field stays an open string on the wire;
// the accepted set is enforced at the transport boundary from configuration.
const (
	StatusIncoming  = "incoming"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusDeleted   = "deleted"
)

// Order type tags.
const (
	TypeDineIn   = "dinein"
	TypeTakeaway = "takeaway"
	TypeDelivery = "delivery"
)

// OrderItem is a single line of an order.
type OrderItem struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
	Qty   int     `bson:"qty" json:"qty"`
}

// Order is a restaurant order stored in the document store. Items and Total
// are fixed at creation; only Status changes afterwards. Orders are never
// hard-deleted, retirement is StatusDeleted.
type Order struct {
	ID                 uuid.UUID   `bson:"_id" json:"id"`
	OrderType          string      `bson:"order_type" json:"orderType"`
	CustomerName       string      `bson:"customer_name,omitempty" json:"customerName,omitempty"`
	RegistrationNumber string      `bson:"registration_number,omitempty" json:"registrationNumber,omitempty"`
	Mobile             string      `bson:"mobile,omitempty" json:"mobile,omitempty"`
	TableNumber        string      `bson:"table_number,omitempty" json:"tableNumber,omitempty"`
	Address            string      `bson:"address,omitempty" json:"address,omitempty"`
	Items              []OrderItem `bson:"items" json:"items"`
	Total              float64     `bson:"total" json:"total"`
	Status             string      `bson:"status" json:"status"`
	PaymentRef         string      `bson:"payment_ref,omitempty" json:"paymentRef,omitempty"`
	CreatedAt          time.Time   `bson:"created_at" json:"createdAt"`
}

// ItemsTotal sums price*qty over the given items. Missing prices or
// quantities contribute zero, matching the lenient order intake contract.
func ItemsTotal(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Qty)
	}
	return total
}

// Deleted reports whether the order is soft-deleted.
func (o *Order) Deleted() bool {
	return o.Status == StatusDeleted
}
