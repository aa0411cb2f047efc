package stock

import "time"

type Location string

const (
	LocationDisplay   Location = "display"
	LocationWarehouse Location = "warehouse"
)

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Counter mirrors the server-authoritative per-location stock of one product.
// Both quantities stay >= 0; the zero value stands in for a product that has
// no counter row yet.
type Counter struct {
	ProductID    string    `json:"product_id"`
	DisplayQty   int       `json:"display_qty"`
	WarehouseQty int       `json:"warehouse_qty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Adjustment is one signed delta instruction for the inventory ledger,
// produced only when a target differs from the current count.
type Adjustment struct {
	ProductID string    `json:"product_id"`
	Location  Location  `json:"location"`
	Direction Direction `json:"direction"`
	Qty       int       `json:"qty"` // always > 0
	Reason    string    `json:"reason"`
}

// Movement is a ledger row: one applied stock change with its before/after
// quantities and the seller who caused it.
type Movement struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Location    Location  `json:"location"`
	Direction   Direction `json:"direction"`
	Qty         int       `json:"qty"`
	BeforeQty   int       `json:"before_qty"`
	AfterQty    int       `json:"after_qty"`
	ActorID     string    `json:"actor_id"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}
