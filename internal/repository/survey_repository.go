package repository

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/erp-service/internal/domain"
)

// SurveyRepository persists surveys, their questions and responses.
type SurveyRepository interface {
	Create(ctx context.Context, survey *domain.Survey) error
	GetByID(ctx context.Context, id string) (*domain.Survey, error)
	List(ctx context.Context, status *domain.SurveyStatus, page Page) ([]domain.Survey, error)
	TransitionStatus(ctx context.Context, id string, from, to domain.SurveyStatus) error
	CountOpen(ctx context.Context) (int, error)

	AddResponse(ctx context.Context, resp *domain.SurveyResponse) error
	HasResponded(ctx context.Context, surveyID, respondentID string) (bool, error)
	ListResponses(ctx context.Context, surveyID string) ([]domain.SurveyResponse, error)
}

type surveyRepository struct {
	pool *pgxpool.Pool
}

// NewSurveyRepository builds the repository.
func NewSurveyRepository(pool *pgxpool.Pool) SurveyRepository {
	return &surveyRepository{pool: pool}
}

const surveyColumns = `id, title, description, status, created_by, created_at, updated_at`

func scanSurvey(row pgx.Row) (*domain.Survey, error) {
	var s domain.Survey
	if err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Status, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *surveyRepository) Create(ctx context.Context, survey *domain.Survey) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insertSurvey = `
            INSERT INTO surveys (title, description, status, created_by)
            VALUES ($1,$2,$3,$4)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, insertSurvey,
			survey.Title,
			survey.Description,
			survey.Status,
			survey.CreatedBy,
		).Scan(&survey.ID, &survey.CreatedAt, &survey.UpdatedAt); err != nil {
			return err
		}

		const insertQuestion = `
            INSERT INTO survey_questions (survey_id, text, kind, options, position)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING id`
		for i := range survey.Questions {
			q := &survey.Questions[i]
			q.SurveyID = survey.ID
			q.Position = i
			options := q.Options
			if options == nil {
				options = []string{}
			}
			if err := tx.QueryRow(ctx, insertQuestion, q.SurveyID, q.Text, q.Kind, options, q.Position).Scan(&q.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *surveyRepository) GetByID(ctx context.Context, id string) (*domain.Survey, error) {
	survey, err := scanSurvey(r.pool.QueryRow(ctx, `SELECT `+surveyColumns+` FROM surveys WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}

	const query = `
        SELECT id, survey_id, text, kind, options, position
        FROM survey_questions WHERE survey_id=$1 ORDER BY position`
	rows, err := r.pool.Query(ctx, query, survey.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var q domain.SurveyQuestion
		if err := rows.Scan(&q.ID, &q.SurveyID, &q.Text, &q.Kind, &q.Options, &q.Position); err != nil {
			return nil, err
		}
		survey.Questions = append(survey.Questions, q)
	}
	return survey, rows.Err()
}

func (r *surveyRepository) List(ctx context.Context, status *domain.SurveyStatus, page Page) ([]domain.Survey, error) {
	var w where
	if status != nil {
		w.add("status=$%d", *status)
	}
	query := `SELECT ` + surveyColumns + ` FROM surveys` + w.String() + ` ORDER BY created_at DESC, id` + page.clause()

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Survey
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (r *surveyRepository) TransitionStatus(ctx context.Context, id string, from, to domain.SurveyStatus) error {
	const query = `UPDATE surveys SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
	return requireAffected(r.pool.Exec(ctx, query, to, id, from))
}

func (r *surveyRepository) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM surveys WHERE status='OPEN'`).Scan(&n)
	return n, err
}

func (r *surveyRepository) AddResponse(ctx context.Context, resp *domain.SurveyResponse) error {
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO survey_responses (survey_id, respondent_id, answers)
        VALUES ($1,$2,$3)
        RETURNING id, submitted_at`
	return r.pool.QueryRow(ctx, query, resp.SurveyID, resp.RespondentID, answers).Scan(&resp.ID, &resp.SubmittedAt)
}

func (r *surveyRepository) HasResponded(ctx context.Context, surveyID, respondentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM survey_responses WHERE survey_id=$1 AND respondent_id=$2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, surveyID, respondentID).Scan(&exists)
	return exists, err
}

func (r *surveyRepository) ListResponses(ctx context.Context, surveyID string) ([]domain.SurveyResponse, error) {
	const query = `
        SELECT id, survey_id, respondent_id, answers, submitted_at
        FROM survey_responses WHERE survey_id=$1 ORDER BY submitted_at, id`
	rows, err := r.pool.Query(ctx, query, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SurveyResponse
	for rows.Next() {
		var (
			resp domain.SurveyResponse
			raw  []byte
		)
		if err := rows.Scan(&resp.ID, &resp.SurveyID, &resp.RespondentID, &raw, &resp.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &resp.Answers); err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, rows.Err()
}
