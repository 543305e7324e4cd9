package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/erp-service/internal/api/dto"
	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/service"
)

// SurveyHandler serves surveys, responses and results.
type SurveyHandler struct {
	surveys *service.SurveyService
}

// NewSurveyHandler constructs handler.
func NewSurveyHandler(surveys *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

// ListSurveys GET /surveys.
func (h *SurveyHandler) ListSurveys(c *fiber.Ctx) error {
	page := parsePage(c)
	var status *domain.SurveyStatus
	if raw := optionalQuery(c, "status"); raw != nil {
		s := domain.SurveyStatus(*raw)
		status = &s
	}
	surveys, err := h.surveys.ListSurveys(c.UserContext(), status, page)
	if err != nil {
		return err
	}
	items := make([]dto.SurveyResponse, 0, len(surveys))
	for i := range surveys {
		items = append(items, dto.NewSurveyResponse(&surveys[i]))
	}
	return respondList(c, items, len(items), page)
}

// GetSurvey GET /surveys/:id.
func (h *SurveyHandler) GetSurvey(c *fiber.Ctx) error {
	survey, err := h.surveys.GetSurvey(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewSurveyResponse(survey))
}

// CreateSurvey POST /surveys.
func (h *SurveyHandler) CreateSurvey(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.SurveyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	input := service.SurveyInput{Title: req.Title, Description: req.Description}
	for _, q := range req.Questions {
		input.Questions = append(input.Questions, service.SurveyQuestionInput{
			Text:    q.Text,
			Kind:    domain.QuestionKind(q.Kind),
			Options: q.Options,
		})
	}
	survey, err := h.surveys.CreateSurvey(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return created(c, dto.NewSurveyResponse(survey))
}

// Open POST /surveys/:id/open.
func (h *SurveyHandler) Open(c *fiber.Ctx) error {
	return h.transition(c, h.surveys.Open)
}

// Close POST /surveys/:id/close.
func (h *SurveyHandler) Close(c *fiber.Ctx) error {
	return h.transition(c, h.surveys.Close)
}

func (h *SurveyHandler) transition(c *fiber.Ctx, fn func(context.Context, service.Actor, string) (*domain.Survey, error)) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	survey, err := fn(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewSurveyResponse(survey))
}

// Respond POST /surveys/:id/responses.
func (h *SurveyHandler) Respond(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.SurveyAnswerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	resp, err := h.surveys.Respond(c.UserContext(), actor, c.Params("id"), req.Answers)
	if err != nil {
		return err
	}
	return created(c, dto.NewSubmissionResponse(resp))
}

// Results GET /surveys/:id/results.
func (h *SurveyHandler) Results(c *fiber.Ctx) error {
	results, err := h.surveys.Results(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewSurveyResultsResponse(results))
}
