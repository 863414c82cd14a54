package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/classiflow/classiflow-go/internal/model"
)

var ErrStepNotFound = errors.New("step result not found")

// StepRepository persists questionnaire step results per organization.
type StepRepository struct {
	db *sql.DB
}

// NewStepRepository creates a new StepRepository.
func NewStepRepository(db *sql.DB) *StepRepository {
	return &StepRepository{db: db}
}

// upsertQuery inserts or replaces the saved result for one (organization, step) pair.
// Resubmitting a step overwrites the previous payload, which makes retries idempotent.
const upsertQuery = `
	INSERT INTO step_results (organization_id, step, title, data, submitted_at)
	VALUES (?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		title        = VALUES(title),
		data         = VALUES(data),
		submitted_at = VALUES(submitted_at)`

// SaveStep2 stores a normalized step 2 result for the organization.
func (r *StepRepository) SaveStep2(ctx context.Context, organizationID string, result model.Step2Result) error {
	data, err := json.Marshal(result.Data)
	if err != nil {
		return fmt.Errorf("encoding step payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx, upsertQuery,
		organizationID, result.Step, result.Title, data, result.Timestamp,
	)
	return err
}

// GetByOrganization assembles the saved onboarding results for an organization.
func (r *StepRepository) GetByOrganization(ctx context.Context, organizationID string) (*model.OnboardingResult, error) {
	query := `SELECT step, title, data, submitted_at FROM step_results
		WHERE organization_id = ? ORDER BY step ASC`

	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &model.OnboardingResult{}
	for rows.Next() {
		var (
			step      int
			title     string
			data      []byte
			submitted string
		)
		if err := rows.Scan(&step, &title, &data, &submitted); err != nil {
			return nil, err
		}

		switch step {
		case 1:
			s := &model.Step1Result{Step: step, Title: title, Timestamp: submitted}
			if err := json.Unmarshal(data, &s.Data); err != nil {
				return nil, fmt.Errorf("decoding step 1 payload: %w", err)
			}
			result.Step1 = s
		case 2:
			s := &model.Step2Result{Step: step, Title: title, Timestamp: submitted}
			if err := json.Unmarshal(data, &s.Data); err != nil {
				return nil, fmt.Errorf("decoding step 2 payload: %w", err)
			}
			result.Step2 = s
		}
	}

	return result, rows.Err()
}
