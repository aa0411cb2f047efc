package sales

import "time"

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentPix  PaymentMethod = "pix"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentPix:
		return true
	}
	return false
}

type Sale struct {
	ID            string        `json:"id"`
	ExternalID    string        `json:"external_id"`
	SellerID      string        `json:"seller_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	TotalCents    int           `json:"total_cents"`
	CreatedAt     time.Time     `json:"created_at"`
}

type ItemInput struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}
