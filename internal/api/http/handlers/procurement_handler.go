package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/erp-service/internal/api/dto"
	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/repository"
	"github.com/spec-kit/erp-service/internal/service"
)

// ProcurementHandler serves purchase orders.
type ProcurementHandler struct {
	procurement *service.ProcurementService
}

// NewProcurementHandler constructs handler.
func NewProcurementHandler(procurement *service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{procurement: procurement}
}

// ListPurchaseOrders GET /procurement/purchase-orders.
func (h *ProcurementHandler) ListPurchaseOrders(c *fiber.Ctx) error {
	page := parsePage(c)
	filter := repository.PurchaseOrderFilter{
		WarehouseID: optionalQuery(c, "warehouse_id"),
		Supplier:    c.Query("supplier"),
		Page:        page,
	}
	if raw := optionalQuery(c, "status"); raw != nil {
		s := domain.PurchaseOrderStatus(*raw)
		filter.Status = &s
	}
	orders, err := h.procurement.ListPurchaseOrders(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, dto.NewPurchaseOrderResponse(&orders[i]))
	}
	return respondList(c, items, len(items), page)
}

// GetPurchaseOrder GET /procurement/purchase-orders/:id.
func (h *ProcurementHandler) GetPurchaseOrder(c *fiber.Ctx) error {
	po, err := h.procurement.GetPurchaseOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewPurchaseOrderResponse(po))
}

// CreatePurchaseOrder POST /procurement/purchase-orders.
func (h *ProcurementHandler) CreatePurchaseOrder(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.PurchaseOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	input := service.PurchaseOrderInput{
		PONumber:     req.PONumber,
		SupplierName: req.SupplierName,
		WarehouseID:  req.WarehouseID,
		ExpectedAt:   req.ExpectedAt.TimePtr(),
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, service.PurchaseOrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost})
	}
	po, err := h.procurement.CreatePurchaseOrder(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return created(c, dto.NewPurchaseOrderResponse(po))
}

// Submit POST /procurement/purchase-orders/:id/submit.
func (h *ProcurementHandler) Submit(c *fiber.Ctx) error {
	return h.advance(c, h.procurement.Submit)
}

// Approve POST /procurement/purchase-orders/:id/approve.
func (h *ProcurementHandler) Approve(c *fiber.Ctx) error {
	return h.advance(c, h.procurement.Approve)
}

// Receive POST /procurement/purchase-orders/:id/receive.
func (h *ProcurementHandler) Receive(c *fiber.Ctx) error {
	return h.advance(c, h.procurement.Receive)
}

// Cancel POST /procurement/purchase-orders/:id/cancel.
func (h *ProcurementHandler) Cancel(c *fiber.Ctx) error {
	return h.advance(c, h.procurement.Cancel)
}

func (h *ProcurementHandler) advance(c *fiber.Ctx, fn func(context.Context, service.Actor, string) (*domain.PurchaseOrder, error)) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	po, err := fn(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewPurchaseOrderResponse(po))
}
