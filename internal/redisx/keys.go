package redisx

import "time"

const (
	// Idempotency for sale creation: idem:sale:create:{external_id} -> sale_id
	KeyIdemSaleCreate = "idem:sale:create:%s"

	// Auth session: session:{token} -> seller_id
	KeySession = "session:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Cached stock counter listing (invalidated on every adjustment)
	KeyStockCounters = "stock:counters"
)

var (
	TTLIdempotency   = 24 * time.Hour
	TTLSession       = 12 * time.Hour
	TTLDedup         = 48 * time.Hour
	TTLCountersCache = 30 * time.Second
)
