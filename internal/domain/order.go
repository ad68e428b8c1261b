package domain

import "time"

// OrderStatus is the lifecycle state of a placed order.
type OrderStatus string

const (
	OrderInProgress OrderStatus = "in_progress"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderLine is one item-and-quantity entry of a placed order.
type OrderLine struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// Order is a confirmed checkout, persisted to local order history.
type Order struct {
	ID             string      `json:"id"`
	Number         string      `json:"number"`
	RestaurantName string      `json:"restaurant_name,omitempty"`
	Lines          []OrderLine `json:"lines"`
	ItemTotal      int         `json:"item_total"`
	DeliveryFee    int         `json:"delivery_fee"`
	Taxes          int         `json:"taxes"`
	Total          int         `json:"total"`
	Address        string      `json:"address,omitempty"`
	Status         OrderStatus `json:"status"`
	PlacedAt       time.Time   `json:"placed_at"`
}

// Deal is a static promotional offer shown on the deals screen.
type Deal struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	Discount    string `json:"discount"`
}
