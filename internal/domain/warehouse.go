package domain

import "time"

// Warehouse is a physical stock location.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Location  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StockLevel is the quantity of a product held in a warehouse.
type StockLevel struct {
	WarehouseID string
	ProductID   string
	Quantity    int
	UpdatedAt   time.Time
}

// MovementType enumerates stock movement kinds.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementTransfer   MovementType = "TRANSFER"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// Valid reports whether m is a known movement type.
func (m MovementType) Valid() bool {
	switch m {
	case MovementIn, MovementOut, MovementTransfer, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement records a change of stock. Quantity is positive except for
// adjustments, where it is the signed delta applied to the target warehouse.
type StockMovement struct {
	ID                string
	ProductID         string
	MovementType      MovementType
	SourceWarehouseID *string
	TargetWarehouseID *string
	Quantity          int
	Reference         string
	Note              string
	CreatedBy         *string
	CreatedAt         time.Time
}

// StockDelta is a signed quantity change for one warehouse.
type StockDelta struct {
	WarehouseID string
	Delta       int
}

// Deltas expands the movement into per-warehouse changes.
func (m StockMovement) Deltas() []StockDelta {
	var out []StockDelta
	switch m.MovementType {
	case MovementIn, MovementAdjustment:
		if m.TargetWarehouseID != nil {
			out = append(out, StockDelta{WarehouseID: *m.TargetWarehouseID, Delta: m.Quantity})
		}
	case MovementOut:
		if m.SourceWarehouseID != nil {
			out = append(out, StockDelta{WarehouseID: *m.SourceWarehouseID, Delta: -m.Quantity})
		}
	case MovementTransfer:
		if m.SourceWarehouseID != nil {
			out = append(out, StockDelta{WarehouseID: *m.SourceWarehouseID, Delta: -m.Quantity})
		}
		if m.TargetWarehouseID != nil {
			out = append(out, StockDelta{WarehouseID: *m.TargetWarehouseID, Delta: m.Quantity})
		}
	}
	return out
}
