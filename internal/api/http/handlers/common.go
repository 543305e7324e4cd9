package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/erp-service/internal/api/dto"
	"github.com/spec-kit/erp-service/internal/auth"
	"github.com/spec-kit/erp-service/internal/repository"
	"github.com/spec-kit/erp-service/internal/service"
	apperrors "github.com/spec-kit/erp-service/pkg/util"
)

const defaultPageSize = 50

func actorFrom(c *fiber.Ctx) (service.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return service.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.Actor{
		UserID:     principal.User.ID,
		Role:       principal.Role(),
		EmployeeID: principal.EmployeeID(),
	}, nil
}

func bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	return nil
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

func parseBoolQuery(c *fiber.Ctx, key string, defaultVal bool) bool {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	return &val
}

// parseDateQuery reads a YYYY-MM-DD query parameter; nil when absent.
func parseDateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	d, err := dto.ParseDate(c.Query(key))
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date", map[string]any{"param": key, "expected": dto.DateLayout})
	}
	return d.TimePtr(), nil
}

// parsePage accepts page/page_size as well as limit/offset.
func parsePage(c *fiber.Ctx) repository.Page {
	if c.Query("limit") != "" || c.Query("offset") != "" {
		return repository.Page{Limit: parseIntQuery(c, "limit", defaultPageSize), Offset: parseIntQuery(c, "offset", 0)}
	}
	page := parseIntQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	size := parseIntQuery(c, "page_size", defaultPageSize)
	if size < 1 {
		size = defaultPageSize
	}
	return repository.Page{Limit: size, Offset: (page - 1) * size}
}

func respond(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func respondList(c *fiber.Ctx, items interface{}, count int, page repository.Page) error {
	return c.JSON(fiber.Map{
		"data": items,
		"meta": dto.ListMeta{Limit: page.Limit, Offset: page.Offset, Count: count},
	})
}
