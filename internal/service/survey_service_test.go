package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/erp-service/internal/domain"
)

func newSurveyFixture(t *testing.T) (*SurveyService, *domain.Survey) {
	t.Helper()
	svc := NewSurveyService(SurveyDependencies{SurveyRepo: newFakeSurveys(), Dispatcher: &recordingDispatcher{}})
	survey, err := svc.CreateSurvey(context.Background(), Actor{UserID: "u-hr", Role: domain.RoleHR}, SurveyInput{
		Title: "Engagement",
		Questions: []SurveyQuestionInput{
			{Text: "How happy are you?", Kind: domain.QuestionRating},
			{Text: "Preferred office day", Kind: domain.QuestionChoice, Options: []string{"Mon", "Fri", "Fri", " "}},
			{Text: "Anything else?"},
		},
	})
	require.NoError(t, err)
	return svc, survey
}

func TestCreateSurveyNormalizesQuestions(t *testing.T) {
	_, survey := newSurveyFixture(t)
	assert.Equal(t, domain.SurveyStatusDraft, survey.Status)
	require.Len(t, survey.Questions, 3)
	assert.Equal(t, []string{"Mon", "Fri"}, survey.Questions[1].Options)
	assert.Equal(t, domain.QuestionText, survey.Questions[2].Kind)
	assert.Equal(t, 2, survey.Questions[2].Position)
}

func TestCreateSurveyValidation(t *testing.T) {
	svc := NewSurveyService(SurveyDependencies{SurveyRepo: newFakeSurveys()})
	ctx := context.Background()

	_, err := svc.CreateSurvey(ctx, Actor{}, SurveyInput{Title: "No questions"})
	assert.Equal(t, "VALIDATION_FAILED", code(t, err))

	_, err = svc.CreateSurvey(ctx, Actor{}, SurveyInput{Title: "T", Questions: []SurveyQuestionInput{
		{Text: "Pick", Kind: domain.QuestionChoice, Options: []string{"only"}},
	}})
	assert.Equal(t, "VALIDATION_FAILED", code(t, err))

	_, err = svc.CreateSurvey(ctx, Actor{}, SurveyInput{Title: "T", Questions: []SurveyQuestionInput{
		{Text: "Draw", Kind: "SKETCH"},
	}})
	assert.Equal(t, "VALIDATION_FAILED", code(t, err))
}

func TestSurveyResponsesAndResults(t *testing.T) {
	svc, survey := newSurveyFixture(t)
	ctx := context.Background()
	rating, choice, text := survey.Questions[0].ID, survey.Questions[1].ID, survey.Questions[2].ID

	_, err := svc.Respond(ctx, Actor{UserID: "u-1"}, survey.ID, map[string]string{rating: "4"})
	assert.Equal(t, "INVALID_STATE", code(t, err))

	_, err = svc.Open(ctx, Actor{}, survey.ID)
	require.NoError(t, err)

	invalid := []map[string]string{
		{},
		{"unknown": "x"},
		{rating: "6"},
		{rating: "zero"},
		{choice: "Wed"},
	}
	for _, answers := range invalid {
		_, err := svc.Respond(ctx, Actor{UserID: "u-1"}, survey.ID, answers)
		assert.Equal(t, "VALIDATION_FAILED", code(t, err), "answers %v", answers)
	}

	_, err = svc.Respond(ctx, Actor{UserID: "u-1"}, survey.ID, map[string]string{rating: " 4 ", choice: "Fri", text: "more coffee"})
	require.NoError(t, err)
	_, err = svc.Respond(ctx, Actor{UserID: "u-2"}, survey.ID, map[string]string{rating: "5", choice: "Fri"})
	require.NoError(t, err)
	_, err = svc.Respond(ctx, Actor{UserID: "u-3"}, survey.ID, map[string]string{choice: "Mon"})
	require.NoError(t, err)

	_, err = svc.Respond(ctx, Actor{UserID: "u-1"}, survey.ID, map[string]string{rating: "1"})
	assert.Equal(t, "CONFLICT", code(t, err))

	results, err := svc.Results(ctx, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, results.ResponseCount)
	require.Len(t, results.Questions, 3)

	require.NotNil(t, results.Questions[0].AverageRating)
	assert.InDelta(t, 4.5, *results.Questions[0].AverageRating, 0.0001)
	assert.Equal(t, 2, results.Questions[0].Answered)
	assert.Equal(t, map[string]int{"Mon": 1, "Fri": 2}, results.Questions[1].ChoiceCounts)
	assert.Equal(t, 1, results.Questions[2].Answered)
	assert.Nil(t, results.Questions[2].AverageRating)

	_, err = svc.Close(ctx, Actor{}, survey.ID)
	require.NoError(t, err)
	_, err = svc.Respond(ctx, Actor{UserID: "u-4"}, survey.ID, map[string]string{rating: "3"})
	assert.Equal(t, "INVALID_STATE", code(t, err))
	_, err = svc.Open(ctx, Actor{}, survey.ID)
	assert.Equal(t, "INVALID_STATE", code(t, err))
}

// unansweredSurveys hides earlier responses from the pre-check, as a
// concurrent submission by the same account would.
type unansweredSurveys struct{ *fakeSurveys }

func (unansweredSurveys) HasResponded(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestSurveyDuplicateResponseRejectedByStore(t *testing.T) {
	repo := unansweredSurveys{newFakeSurveys()}
	svc := NewSurveyService(SurveyDependencies{SurveyRepo: repo, Dispatcher: &recordingDispatcher{}})
	ctx := context.Background()
	survey, err := svc.CreateSurvey(ctx, Actor{UserID: "u-hr", Role: domain.RoleHR}, SurveyInput{
		Title:     "Pulse",
		Questions: []SurveyQuestionInput{{Text: "How happy are you?", Kind: domain.QuestionRating}},
	})
	require.NoError(t, err)
	_, err = svc.Open(ctx, Actor{}, survey.ID)
	require.NoError(t, err)
	answers := map[string]string{survey.Questions[0].ID: "3"}

	_, err = svc.Respond(ctx, Actor{UserID: "u-1"}, survey.ID, answers)
	require.NoError(t, err)
	_, err = svc.Respond(ctx, Actor{UserID: "u-1"}, survey.ID, answers)
	assert.Equal(t, "CONFLICT", code(t, err))

	// anonymous answers are not keyed by account
	_, err = svc.Respond(ctx, Actor{}, survey.ID, answers)
	require.NoError(t, err)
	_, err = svc.Respond(ctx, Actor{}, survey.ID, answers)
	require.NoError(t, err)

	results, err := svc.Results(ctx, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, results.ResponseCount)
}
