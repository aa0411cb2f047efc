package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/lojaflor/erp-api/internal/kafka"
	"github.com/lojaflor/erp-api/internal/redisx"
	"github.com/lojaflor/erp-api/internal/stock"
)

// Service applies completed sales to the display-rack counters. It runs in
// the stockworker binary as the sale.completed consumer handler.
type Service struct {
	Stock       *stock.Repo
	Redis       *redis.Client
	ServiceName string
}

// HandleSaleCompleted is the consumer handler. Each sold item comes off the
// display rack with a ledger row; a short counter clamps at zero instead of
// failing the already-committed sale.
func (s *Service) HandleSaleCompleted(ctx context.Context, m kafkago.Message) error {
	var env Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != EventSaleCompleted {
		return nil // ignore
	}

	// dedup by event_id
	dkey := fmt.Sprintf(redisx.KeyDedup, "stockworker", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[SaleCompletedPayload](env.Payload)
	if err != nil {
		return err
	}

	for _, it := range p.Items {
		mov, ok, err := s.Stock.DeductDisplay(ctx, it.ProductID, it.Qty, p.SellerID, "sale "+p.SaleID)
		if err != nil {
			return err
		}
		if !ok {
			log.Printf("sale %s: no display stock to deduct for product %s", p.SaleID, it.ProductID)
			continue
		}
		if mov.Qty < it.Qty {
			log.Printf("sale %s: short stock for product %s: wanted %d, deducted %d",
				p.SaleID, it.ProductID, it.Qty, mov.Qty)
		}
	}

	// counters changed: drop the cached listing
	_ = s.Redis.Del(ctx, redisx.KeyStockCounters).Err()
	return nil
}
