package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/events"
	"github.com/spec-kit/erp-service/internal/repository"
	apperrors "github.com/spec-kit/erp-service/pkg/util"
)

// SurveyService manages surveys and collects responses.
type SurveyService struct {
	surveys repository.SurveyRepository
	events  emitter
}

// SurveyDependencies bundles requirements for the survey service.
type SurveyDependencies struct {
	SurveyRepo repository.SurveyRepository
	Dispatcher events.Dispatcher
	Clock      clockwork.Clock
}

// SurveyQuestionInput describes one question.
type SurveyQuestionInput struct {
	Text    string
	Kind    domain.QuestionKind
	Options []string
}

// SurveyInput describes a new survey.
type SurveyInput struct {
	Title       string
	Description string
	Questions   []SurveyQuestionInput
}

// NewSurveyService constructs the service.
func NewSurveyService(deps SurveyDependencies) *SurveyService {
	return &SurveyService{
		surveys: deps.SurveyRepo,
		events:  newEmitter(deps.Dispatcher, deps.Clock),
	}
}

// ListSurveys lists surveys.
func (s *SurveyService) ListSurveys(ctx context.Context, status *domain.SurveyStatus, page repository.Page) ([]domain.Survey, error) {
	return s.surveys.List(ctx, status, page)
}

// GetSurvey loads a survey with its questions.
func (s *SurveyService) GetSurvey(ctx context.Context, id string) (*domain.Survey, error) {
	survey, err := s.surveys.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "survey")
	}
	return survey, nil
}

// CreateSurvey stores a DRAFT survey.
func (s *SurveyService) CreateSurvey(ctx context.Context, actor Actor, input SurveyInput) (*domain.Survey, error) {
	if err := required(map[string]string{"title": input.Title}); err != nil {
		return nil, err
	}
	if len(input.Questions) == 0 {
		return nil, apperrors.NewValidationError("a survey needs at least one question", nil)
	}
	survey := &domain.Survey{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.SurveyStatusDraft,
		CreatedBy:   actor.userRef(),
	}
	for i, q := range input.Questions {
		question, err := buildQuestion(i, q)
		if err != nil {
			return nil, err
		}
		survey.Questions = append(survey.Questions, question)
	}
	if err := s.surveys.Create(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// Open starts collecting responses for a DRAFT survey.
func (s *SurveyService) Open(ctx context.Context, actor Actor, id string) (*domain.Survey, error) {
	return s.transition(ctx, actor, id, domain.SurveyStatusDraft, domain.SurveyStatusOpen, events.EventSurveyOpened)
}

// Close stops collecting responses.
func (s *SurveyService) Close(ctx context.Context, actor Actor, id string) (*domain.Survey, error) {
	return s.transition(ctx, actor, id, domain.SurveyStatusOpen, domain.SurveyStatusClosed, events.EventSurveyClosed)
}

// Respond validates and stores answers for an OPEN survey. Each account may answer once.
func (s *SurveyService) Respond(ctx context.Context, actor Actor, id string, answers map[string]string) (*domain.SurveyResponse, error) {
	survey, err := s.GetSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey.Status != domain.SurveyStatusOpen {
		return nil, apperrors.NewInvalidState("survey is not open", map[string]any{"status": survey.Status})
	}
	cleaned, err := validateAnswers(survey, answers)
	if err != nil {
		return nil, err
	}

	respondent := actor.userRef()
	if respondent != nil {
		done, err := s.surveys.HasResponded(ctx, survey.ID, *respondent)
		if err != nil {
			return nil, err
		}
		if done {
			return nil, apperrors.NewConflict("survey already answered", nil)
		}
	}

	resp := &domain.SurveyResponse{
		SurveyID:     survey.ID,
		RespondentID: respondent,
		Answers:      cleaned,
	}
	if err := s.surveys.AddResponse(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Results aggregates all responses of a survey.
func (s *SurveyService) Results(ctx context.Context, id string) (*domain.SurveyResults, error) {
	survey, err := s.GetSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	responses, err := s.surveys.ListResponses(ctx, survey.ID)
	if err != nil {
		return nil, err
	}
	return AggregateResults(survey, responses), nil
}

// AggregateResults computes per-question statistics over responses.
func AggregateResults(survey *domain.Survey, responses []domain.SurveyResponse) *domain.SurveyResults {
	results := &domain.SurveyResults{SurveyID: survey.ID, ResponseCount: len(responses)}
	for _, q := range survey.Questions {
		qr := domain.QuestionResult{QuestionID: q.ID, Text: q.Text, Kind: q.Kind}
		if q.Kind == domain.QuestionChoice {
			qr.ChoiceCounts = make(map[string]int, len(q.Options))
			for _, opt := range q.Options {
				qr.ChoiceCounts[opt] = 0
			}
		}
		sum := 0
		for _, resp := range responses {
			answer, ok := resp.Answers[q.ID]
			if !ok || answer == "" {
				continue
			}
			qr.Answered++
			switch q.Kind {
			case domain.QuestionRating:
				if v, err := strconv.Atoi(answer); err == nil {
					sum += v
				}
			case domain.QuestionChoice:
				qr.ChoiceCounts[answer]++
			}
		}
		if q.Kind == domain.QuestionRating && qr.Answered > 0 {
			avg := float64(sum) / float64(qr.Answered)
			qr.AverageRating = &avg
		}
		results.Questions = append(results.Questions, qr)
	}
	return results
}

func (s *SurveyService) transition(ctx context.Context, actor Actor, id string, from, to domain.SurveyStatus, eventType events.EventType) (*domain.Survey, error) {
	survey, err := s.GetSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey.Status != from {
		return nil, apperrors.NewInvalidState("survey cannot move to "+string(to), map[string]any{"status": survey.Status})
	}
	if err := s.surveys.TransitionStatus(ctx, survey.ID, from, to); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidState("survey changed concurrently", nil)
		}
		return nil, err
	}
	survey.Status = to
	s.events.emit(ctx, eventType, survey.ID, actor, events.SurveyPayload{Title: survey.Title, Status: to})
	return survey, nil
}

func buildQuestion(index int, in SurveyQuestionInput) (domain.SurveyQuestion, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return domain.SurveyQuestion{}, apperrors.NewValidationError("question text is required", map[string]any{"index": index})
	}
	kind := in.Kind
	if kind == "" {
		kind = domain.QuestionText
	}
	q := domain.SurveyQuestion{Text: text, Kind: kind, Position: index}
	switch kind {
	case domain.QuestionText, domain.QuestionRating:
	case domain.QuestionChoice:
		seen := make(map[string]struct{}, len(in.Options))
		for _, opt := range in.Options {
			opt = strings.TrimSpace(opt)
			if opt == "" {
				continue
			}
			if _, dup := seen[opt]; dup {
				continue
			}
			seen[opt] = struct{}{}
			q.Options = append(q.Options, opt)
		}
		if len(q.Options) < 2 {
			return domain.SurveyQuestion{}, apperrors.NewValidationError("choice questions need at least two options", map[string]any{"index": index})
		}
	default:
		return domain.SurveyQuestion{}, apperrors.NewValidationError("invalid question kind", map[string]any{"index": index, "kind": kind})
	}
	return q, nil
}

func validateAnswers(survey *domain.Survey, answers map[string]string) (map[string]string, error) {
	if len(answers) == 0 {
		return nil, apperrors.NewValidationError("at least one answer is required", nil)
	}
	questions := make(map[string]domain.SurveyQuestion, len(survey.Questions))
	for _, q := range survey.Questions {
		questions[q.ID] = q
	}

	cleaned := make(map[string]string, len(answers))
	for id, raw := range answers {
		q, ok := questions[id]
		if !ok {
			return nil, apperrors.NewValidationError("answer references an unknown question", map[string]any{"question_id": id})
		}
		answer := strings.TrimSpace(raw)
		switch q.Kind {
		case domain.QuestionRating:
			v, err := strconv.Atoi(answer)
			if err != nil || v < domain.MinRating || v > domain.MaxRating {
				return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"question_id": id})
			}
			answer = strconv.Itoa(v)
		case domain.QuestionChoice:
			if !containsString(q.Options, answer) {
				return nil, apperrors.NewValidationError("answer is not one of the options", map[string]any{"question_id": id})
			}
		}
		cleaned[id] = answer
	}
	return cleaned, nil
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
