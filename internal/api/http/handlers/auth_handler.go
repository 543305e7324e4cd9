package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/erp-service/internal/api/dto"
	"github.com/spec-kit/erp-service/internal/auth"
	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/repository"
	"github.com/spec-kit/erp-service/internal/service"
	apperrors "github.com/spec-kit/erp-service/pkg/util"
)

// AuthHandler exposes login, logout and account endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.NewUserResponse(result.User),
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.Logout(c.UserContext(), principal.Token); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Me(c.UserContext(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(c, dto.NewUserResponse(user))
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current_password and new_password required", nil)
	}
	if err := h.auth.ChangePassword(c.UserContext(), actor.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers handles GET /users.
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	page := parsePage(c)
	filter := repository.UserFilter{Page: page}
	if role := optionalQuery(c, "role"); role != nil {
		r := domain.Role(*role)
		filter.Role = &r
	}
	if status := optionalQuery(c, "status"); status != nil {
		s := domain.UserStatus(*status)
		filter.Status = &s
	}
	users, err := h.auth.ListUsers(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return respondList(c, items, len(items), page)
}

// GetUser handles GET /users/:id.
func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.auth.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewUserResponse(user))
}

// CreateUser handles POST /users.
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.auth.CreateUser(c.UserContext(), userInput(req))
	if err != nil {
		return err
	}
	return created(c, dto.NewUserResponse(user))
}

// UpdateUser handles PUT /users/:id.
func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.auth.UpdateUser(c.UserContext(), c.Params("id"), userInput(req))
	if err != nil {
		return err
	}
	return respond(c, dto.NewUserResponse(user))
}

func userInput(req dto.UserRequest) service.UserInput {
	return service.UserInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       domain.Role(req.Role),
		Status:     domain.UserStatus(req.Status),
		EmployeeID: req.EmployeeID,
	}
}
