package domain

import "time"

// SurveyStatus enumerates survey lifecycle states.
type SurveyStatus string

const (
	SurveyStatusDraft  SurveyStatus = "DRAFT"
	SurveyStatusOpen   SurveyStatus = "OPEN"
	SurveyStatusClosed SurveyStatus = "CLOSED"
)

// QuestionKind enumerates answer formats.
type QuestionKind string

const (
	QuestionText   QuestionKind = "TEXT"
	QuestionRating QuestionKind = "RATING"
	QuestionChoice QuestionKind = "CHOICE"
)

// Rating bounds for RATING questions.
const (
	MinRating = 1
	MaxRating = 5
)

// SurveyQuestion is one prompt of a survey.
type SurveyQuestion struct {
	ID       string
	SurveyID string
	Text     string
	Kind     QuestionKind
	Options  []string
	Position int
}

// Survey is a questionnaire sent to employees.
type Survey struct {
	ID          string
	Title       string
	Description string
	Status      SurveyStatus
	Questions   []SurveyQuestion
	CreatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SurveyResponse holds one respondent's answers keyed by question ID.
type SurveyResponse struct {
	ID           string
	SurveyID     string
	RespondentID *string
	Answers      map[string]string
	SubmittedAt  time.Time
}

// QuestionResult aggregates answers for one question.
type QuestionResult struct {
	QuestionID    string
	Text          string
	Kind          QuestionKind
	Answered      int
	AverageRating *float64
	ChoiceCounts  map[string]int
}

// SurveyResults summarises all responses.
type SurveyResults struct {
	SurveyID      string
	ResponseCount int
	Questions     []QuestionResult
}
