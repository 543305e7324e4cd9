package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/erp-service/internal/api/dto"
	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/repository"
	"github.com/spec-kit/erp-service/internal/service"
)

// WarehouseHandler serves warehouses, stock levels and movements.
type WarehouseHandler struct {
	warehouses *service.WarehouseService
}

// NewWarehouseHandler constructs handler.
func NewWarehouseHandler(warehouses *service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouses: warehouses}
}

// ListWarehouses GET /warehouse/warehouses.
func (h *WarehouseHandler) ListWarehouses(c *fiber.Ctx) error {
	whs, err := h.warehouses.ListWarehouses(c.UserContext(), parseBoolQuery(c, "include_inactive", false))
	if err != nil {
		return err
	}
	items := make([]dto.WarehouseResponse, 0, len(whs))
	for i := range whs {
		items = append(items, dto.NewWarehouseResponse(&whs[i]))
	}
	return respond(c, items)
}

// GetWarehouse GET /warehouse/warehouses/:id.
func (h *WarehouseHandler) GetWarehouse(c *fiber.Ctx) error {
	wh, err := h.warehouses.GetWarehouse(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewWarehouseResponse(wh))
}

// CreateWarehouse POST /warehouse/warehouses.
func (h *WarehouseHandler) CreateWarehouse(c *fiber.Ctx) error {
	var req dto.WarehouseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	wh, err := h.warehouses.CreateWarehouse(c.UserContext(), warehouseInput(req))
	if err != nil {
		return err
	}
	return created(c, dto.NewWarehouseResponse(wh))
}

// UpdateWarehouse PUT /warehouse/warehouses/:id.
func (h *WarehouseHandler) UpdateWarehouse(c *fiber.Ctx) error {
	var req dto.WarehouseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	wh, err := h.warehouses.UpdateWarehouse(c.UserContext(), c.Params("id"), warehouseInput(req))
	if err != nil {
		return err
	}
	return respond(c, dto.NewWarehouseResponse(wh))
}

// Stock GET /warehouse/warehouses/:id/stock.
func (h *WarehouseHandler) Stock(c *fiber.Ctx) error {
	levels, err := h.warehouses.Stock(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		items = append(items, dto.NewStockLevelResponse(l))
	}
	return respond(c, items)
}

// ListMovements GET /warehouse/movements.
func (h *WarehouseHandler) ListMovements(c *fiber.Ctx) error {
	page := parsePage(c)
	filter := repository.MovementFilter{
		ProductID:   optionalQuery(c, "product_id"),
		WarehouseID: optionalQuery(c, "warehouse_id"),
		Page:        page,
	}
	if raw := optionalQuery(c, "movement_type"); raw != nil {
		t := domain.MovementType(*raw)
		filter.MovementType = &t
	}
	var err error
	if filter.Since, err = parseDateQuery(c, "since"); err != nil {
		return err
	}
	movements, err := h.warehouses.ListMovements(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, dto.NewMovementResponse(&movements[i]))
	}
	return respondList(c, items, len(items), page)
}

// RecordMovement POST /warehouse/movements.
func (h *WarehouseHandler) RecordMovement(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.MovementRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	movement, err := h.warehouses.RecordMovement(c.UserContext(), actor, service.MovementInput{
		ProductID:         req.ProductID,
		MovementType:      domain.MovementType(req.MovementType),
		SourceWarehouseID: req.SourceWarehouseID,
		TargetWarehouseID: req.TargetWarehouseID,
		Quantity:          req.Quantity,
		Reference:         req.Reference,
		Note:              req.Note,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewMovementResponse(movement))
}

func warehouseInput(req dto.WarehouseRequest) service.WarehouseInput {
	return service.WarehouseInput{Code: req.Code, Name: req.Name, Location: req.Location, IsActive: req.IsActive}
}
