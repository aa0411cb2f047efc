package sales

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentCash))
	assert.True(t, ValidPaymentMethod(PaymentCard))
	assert.True(t, ValidPaymentMethod(PaymentPix))
	assert.False(t, ValidPaymentMethod(""))
	assert.False(t, ValidPaymentMethod("check"))
}

func TestNewSaleCompletedEnvelope(t *testing.T) {
	payload := SaleCompletedPayload{
		SaleID:        "sale-1",
		ExternalID:    "ext-1",
		SellerID:      "seller-1",
		Items:         []SaleItem{{ProductID: "p-1", Qty: 2, PriceCents: 1500}},
		TotalCents:    3000,
		PaymentMethod: PaymentPix,
	}
	env, err := NewSaleCompletedEnvelope("erp-api", "trace-1", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, EventSaleCompleted, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "erp-api", env.Producer)
	assert.Equal(t, "trace-1", env.TraceID)
	assert.Equal(t, "sale-1", env.CorrelationID)
	assert.False(t, env.OccurredAt.IsZero())

	var got SaleCompletedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &got))
	assert.Equal(t, payload, got)
}

func TestPartitionKey(t *testing.T) {
	assert.Equal(t, []byte("sale-1"), PartitionKey("sale-1"))
}
