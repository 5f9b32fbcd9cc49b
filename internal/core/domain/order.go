package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending      OrderStatus = "pending"
	OrderInProduction OrderStatus = "in_production"
	OrderReady        OrderStatus = "ready"
	OrderDelivered    OrderStatus = "delivered"
	OrderCancelled    OrderStatus = "cancelled"
)

// validOrderTransitions defines the allowed state machine transitions.
var validOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:      {OrderInProduction, OrderCancelled},
	OrderInProduction: {OrderReady, OrderCancelled},
	OrderReady:        {OrderDelivered, OrderCancelled},
}

var ErrOrderNotFound = errors.New("order not found")
var ErrInvalidTransition = errors.New("invalid status transition")

// CanTransitionTo reports whether a transition from s to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a single line on an order.
type OrderItem struct {
	Description string  `json:"description" bson:"description"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	UnitPrice   float64 `json:"unit_price" bson:"unit_price"`
}

// OrderStatusEntry records a single status transition on an order.
type OrderStatusEntry struct {
	Status    OrderStatus `json:"status" bson:"status"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
	ChangedBy string      `json:"changed_by,omitempty" bson:"changed_by,omitempty"`
	Notes     string      `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Order is the central aggregate of the back office.
type Order struct {
	ID            string             `json:"id" bson:"_id,omitempty"`
	OrderNumber   string             `json:"order_number" bson:"order_number"`
	CustomerID    string             `json:"customer_id" bson:"customer_id"`
	CustomerName  string             `json:"customer_name" bson:"customer_name"`
	Items         []OrderItem        `json:"items" bson:"items"`
	Subtotal      float64            `json:"subtotal" bson:"subtotal"`
	Tax           float64            `json:"tax" bson:"tax"`
	Total         float64            `json:"total" bson:"total"`
	Status        OrderStatus        `json:"status" bson:"status"`
	DueDate       time.Time          `json:"due_date,omitempty" bson:"due_date,omitempty"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
	StatusHistory []OrderStatusEntry `json:"status_history" bson:"status_history"`
}
