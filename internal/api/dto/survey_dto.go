package dto

import (
	"time"

	"github.com/spec-kit/erp-service/internal/domain"
)

type SurveyQuestionRequest struct {
	Text    string   `json:"text"`
	Kind    string   `json:"kind"`
	Options []string `json:"options"`
}

// SurveyRequest creates a DRAFT survey.
type SurveyRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Questions   []SurveyQuestionRequest `json:"questions"`
}

// SurveyAnswerRequest submits answers keyed by question id.
type SurveyAnswerRequest struct {
	Answers map[string]string `json:"answers"`
}

type SurveyQuestionResponse struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Kind    string   `json:"kind"`
	Options []string `json:"options"`
}

type SurveyResponse struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Status      string                   `json:"status"`
	Questions   []SurveyQuestionResponse `json:"questions"`
	CreatedBy   *string                  `json:"created_by"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

func NewSurveyResponse(s *domain.Survey) SurveyResponse {
	questions := make([]SurveyQuestionResponse, 0, len(s.Questions))
	for _, q := range s.Questions {
		options := q.Options
		if options == nil {
			options = []string{}
		}
		questions = append(questions, SurveyQuestionResponse{ID: q.ID, Text: q.Text, Kind: string(q.Kind), Options: options})
	}
	return SurveyResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Status:      string(s.Status),
		Questions:   questions,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type SubmissionResponse struct {
	ID          string            `json:"id"`
	SurveyID    string            `json:"survey_id"`
	Answers     map[string]string `json:"answers"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

func NewSubmissionResponse(r *domain.SurveyResponse) SubmissionResponse {
	return SubmissionResponse{ID: r.ID, SurveyID: r.SurveyID, Answers: r.Answers, SubmittedAt: r.SubmittedAt}
}

type QuestionResultResponse struct {
	QuestionID    string         `json:"question_id"`
	Text          string         `json:"text"`
	Kind          string         `json:"kind"`
	Answered      int            `json:"answered"`
	AverageRating *float64       `json:"average_rating,omitempty"`
	ChoiceCounts  map[string]int `json:"choice_counts,omitempty"`
}

type SurveyResultsResponse struct {
	SurveyID      string                   `json:"survey_id"`
	ResponseCount int                      `json:"response_count"`
	Questions     []QuestionResultResponse `json:"questions"`
}

func NewSurveyResultsResponse(r *domain.SurveyResults) SurveyResultsResponse {
	questions := make([]QuestionResultResponse, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, QuestionResultResponse{
			QuestionID:    q.QuestionID,
			Text:          q.Text,
			Kind:          string(q.Kind),
			Answered:      q.Answered,
			AverageRating: q.AverageRating,
			ChoiceCounts:  q.ChoiceCounts,
		})
	}
	return SurveyResultsResponse{SurveyID: r.SurveyID, ResponseCount: r.ResponseCount, Questions: questions}
}
