package stock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lojaflor/erp-api/internal/catalog"
)

// ReasonManual marks adjustments entered through the stock edit form.
const ReasonManual = "manual adjustment"

// Draft carries the raw target values of an open stock edit. Targets are
// strings because they come straight from form input; ParseDraft decides
// whether they are usable.
type Draft struct {
	ProductID       string `json:"product_id"`
	DisplayTarget   string `json:"display_target"`
	WarehouseTarget string `json:"warehouse_target"`
}

// Targets is a validated draft.
type Targets struct {
	Display   int
	Warehouse int
}

// OpenEdit seeds a draft from the current counter, so saving without edits
// computes no adjustments.
func OpenEdit(productID string, c Counter) Draft {
	return Draft{
		ProductID:       productID,
		DisplayTarget:   strconv.Itoa(c.DisplayQty),
		WarehouseTarget: strconv.Itoa(c.WarehouseQty),
	}
}

// ValidationError reports a draft target that is not a non-negative integer.
// The draft stays open; nothing is computed or submitted.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s quantity %q", e.Field, e.Value)
}

// ParseDraft validates both targets. Either failing rejects the whole draft.
func ParseDraft(d Draft) (Targets, error) {
	display, err := parseQty("display", d.DisplayTarget)
	if err != nil {
		return Targets{}, err
	}
	warehouse, err := parseQty("warehouse", d.WarehouseTarget)
	if err != nil {
		return Targets{}, err
	}
	return Targets{Display: display, Warehouse: warehouse}, nil
}

func parseQty(field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, &ValidationError{Field: field, Value: raw}
	}
	return n, nil
}

// ComputeAdjustments turns the difference between the current counter and the
// validated targets into signed delta instructions, one per changed location.
// Equal target and count emit nothing. The display-rack adjustment, when
// present, always precedes the warehouse one so submissions replay in a
// reproducible order.
func ComputeAdjustments(current Counter, t Targets) []Adjustment {
	var out []Adjustment
	if adj, ok := locationDelta(current.ProductID, LocationDisplay, current.DisplayQty, t.Display); ok {
		out = append(out, adj)
	}
	if adj, ok := locationDelta(current.ProductID, LocationWarehouse, current.WarehouseQty, t.Warehouse); ok {
		out = append(out, adj)
	}
	return out
}

func locationDelta(productID string, loc Location, current, target int) (Adjustment, bool) {
	delta := target - current
	if delta == 0 {
		return Adjustment{}, false
	}
	dir := DirectionIn
	if delta < 0 {
		dir = DirectionOut
		delta = -delta
	}
	return Adjustment{
		ProductID: productID,
		Location:  loc,
		Direction: dir,
		Qty:       delta,
		Reason:    ReasonManual,
	}, true
}

// IsLowStock reports whether either location sits below the threshold.
func IsLowStock(c Counter, threshold int) bool {
	return c.DisplayQty < threshold || c.WarehouseQty < threshold
}

// FilterLowStock keeps the products whose counter is low on stock. A product
// without a counter counts as having zero stock everywhere.
func FilterLowStock(products []catalog.Product, counters []Counter, threshold int) []catalog.Product {
	byProduct := make(map[string]Counter, len(counters))
	for _, c := range counters {
		byProduct[c.ProductID] = c
	}
	var out []catalog.Product
	for _, p := range products {
		if IsLowStock(byProduct[p.ID], threshold) {
			out = append(out, p)
		}
	}
	return out
}
