package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, "erp-api", cfg.ServiceName)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5, cfg.LowStockThreshold)
}

func TestLowStockThresholdFromEnv(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "12")
	assert.Equal(t, 12, Load().LowStockThreshold)

	// garbage and negatives fall back to the default
	t.Setenv("LOW_STOCK_THRESHOLD", "abc")
	assert.Equal(t, 5, Load().LowStockThreshold)
	t.Setenv("LOW_STOCK_THRESHOLD", "-3")
	assert.Equal(t, 5, Load().LowStockThreshold)
}

func TestSplitCSV(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092 ,,kafka-3:9092")
	cfg := Load()
	require.Len(t, cfg.KafkaBrokers, 3)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092", "kafka-3:9092"}, cfg.KafkaBrokers)
}
