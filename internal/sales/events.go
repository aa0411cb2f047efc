package sales

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const EventSaleCompleted = "SaleCompleted"

const TopicSaleCompleted = "sale.completed"

// PartitionKey keeps every event of one sale on the same partition.
func PartitionKey(saleID string) []byte { return []byte(saleID) }

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // sale_id
	Payload       json.RawMessage `json:"payload"`
}

type SaleItem struct {
	ProductID  string `json:"product_id"`
	Qty        int    `json:"qty"`
	PriceCents int    `json:"price_cents"`
}

type SaleCompletedPayload struct {
	SaleID        string        `json:"sale_id"`
	ExternalID    string        `json:"external_id"`
	SellerID      string        `json:"seller_id"`
	Items         []SaleItem    `json:"items"`
	TotalCents    int           `json:"total_cents"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// NewSaleCompletedEnvelope wraps the payload in the versioned event envelope.
func NewSaleCompletedEnvelope(producer, traceID string, p SaleCompletedPayload) (Envelope, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventSaleCompleted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: p.SaleID,
		Payload:       raw,
	}, nil
}
