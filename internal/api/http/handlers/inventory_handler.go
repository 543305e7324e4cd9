package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/erp-service/internal/api/dto"
	"github.com/spec-kit/erp-service/internal/repository"
	"github.com/spec-kit/erp-service/internal/service"
)

// InventoryHandler serves the product catalogue.
type InventoryHandler struct {
	inventory *service.InventoryService
}

// NewInventoryHandler constructs handler.
func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// ListProducts GET /inventory/products.
func (h *InventoryHandler) ListProducts(c *fiber.Ctx) error {
	page := parsePage(c)
	products, err := h.inventory.ListProducts(c.UserContext(), repository.ProductFilter{
		Category:        c.Query("category"),
		Search:          c.Query("search"),
		IncludeInactive: parseBoolQuery(c, "include_inactive", false),
		Page:            page,
	})
	if err != nil {
		return err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.NewProductResponse(&products[i]))
	}
	return respondList(c, items, len(items), page)
}

// LowStock GET /inventory/products/low-stock.
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	page := parsePage(c)
	products, err := h.inventory.LowStock(c.UserContext(), page)
	if err != nil {
		return err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.NewProductStockResponse(&products[i]))
	}
	return respondList(c, items, len(items), page)
}

// GetProduct GET /inventory/products/:id.
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.inventory.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewProductStockResponse(product))
}

// CreateProduct POST /inventory/products.
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	product, err := h.inventory.CreateProduct(c.UserContext(), actor, productInput(req))
	if err != nil {
		return err
	}
	return created(c, dto.NewProductResponse(product))
}

// UpdateProduct PUT /inventory/products/:id.
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	product, err := h.inventory.UpdateProduct(c.UserContext(), actor, c.Params("id"), productInput(req))
	if err != nil {
		return err
	}
	return respond(c, dto.NewProductResponse(product))
}

func productInput(req dto.ProductRequest) service.ProductInput {
	return service.ProductInput{
		SKU:          req.SKU,
		Name:         req.Name,
		Category:     req.Category,
		UnitPrice:    req.UnitPrice,
		ReorderLevel: req.ReorderLevel,
		IsActive:     req.IsActive,
	}
}
