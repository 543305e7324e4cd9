package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/erp-service/internal/api/dto"
	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/repository"
	"github.com/spec-kit/erp-service/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SalesHandler serves sales orders and the sales export.
type SalesHandler struct {
	sales *service.SalesService
}

// NewSalesHandler constructs handler.
func NewSalesHandler(sales *service.SalesService) *SalesHandler {
	return &SalesHandler{sales: sales}
}

// ListSales GET /sales.
func (h *SalesHandler) ListSales(c *fiber.Ctx) error {
	page := parsePage(c)
	filter := repository.SaleFilter{Customer: c.Query("customer"), Page: page}
	if raw := optionalQuery(c, "status"); raw != nil {
		s := domain.SaleStatus(*raw)
		filter.Status = &s
	}
	var err error
	if filter.From, err = parseDateQuery(c, "from"); err != nil {
		return err
	}
	if filter.To, err = parseDateQuery(c, "to"); err != nil {
		return err
	}
	if filter.To != nil {
		end := filter.To.AddDate(0, 0, 1)
		filter.To = &end
	}
	sales, err := h.sales.ListSales(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, dto.NewSaleResponse(&sales[i]))
	}
	return respondList(c, items, len(items), page)
}

// GetSale GET /sales/:id.
func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	sale, err := h.sales.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewSaleResponse(sale))
}

// CreateSale POST /sales.
func (h *SalesHandler) CreateSale(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.SaleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	input := service.SaleInput{
		Reference:    req.Reference,
		CustomerName: req.CustomerName,
		WarehouseID:  req.WarehouseID,
	}
	if req.SoldAt != nil {
		input.SoldAt = *req.SoldAt
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, service.SaleItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	sale, err := h.sales.CreateSale(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return created(c, dto.NewSaleResponse(sale))
}

// ConfirmSale POST /sales/:id/confirm.
func (h *SalesHandler) ConfirmSale(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.ConfirmSaleRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	sale, err := h.sales.ConfirmSale(c.UserContext(), actor, c.Params("id"), req.WarehouseID)
	if err != nil {
		return err
	}
	return respond(c, dto.NewSaleResponse(sale))
}

// CancelSale POST /sales/:id/cancel.
func (h *SalesHandler) CancelSale(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	sale, err := h.sales.CancelSale(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewSaleResponse(sale))
}

// Export GET /reports/sales/export?from&to. Both bounds are inclusive dates.
func (h *SalesHandler) Export(c *fiber.Ctx) error {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return err
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return err
	}
	var start, end time.Time
	if from != nil {
		start = *from
	}
	if to != nil {
		end = to.AddDate(0, 0, 1)
	}
	data, err := h.sales.ExportSales(c.UserContext(), start, end)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, exportFilename(start, end)))
	return c.Send(data)
}

func exportFilename(from, to time.Time) string {
	switch {
	case !from.IsZero() && !to.IsZero():
		return fmt.Sprintf("sales_%s_%s.xlsx", from.Format("20060102"), to.AddDate(0, 0, -1).Format("20060102"))
	case !from.IsZero():
		return fmt.Sprintf("sales_from_%s.xlsx", from.Format("20060102"))
	default:
		return "sales.xlsx"
	}
}
