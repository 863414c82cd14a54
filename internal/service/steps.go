package service

import (
	"context"
	"errors"

	"github.com/classiflow/classiflow-go/internal/model"
	"github.com/classiflow/classiflow-go/internal/wizard"
)

var (
	ErrInvalidStepNumber = errors.New("unexpected step number")
	ErrMissingTimestamp  = errors.New("step result is missing its timestamp")
)

// StepRepository defines the persistence operations StepService needs.
type StepRepository interface {
	SaveStep2(ctx context.Context, organizationID string, result model.Step2Result) error
	GetByOrganization(ctx context.Context, organizationID string) (*model.OnboardingResult, error)
}

// StepService persists questionnaire step results.
type StepService struct {
	repo StepRepository
}

// NewStepService creates a new StepService.
func NewStepService(repo StepRepository) *StepService {
	return &StepService{repo: repo}
}

// SaveStep2 stores a step 2 result, enforcing its step/title tagging.
// The payload is normalized before the write, so a client cannot persist
// orphan detail records, blank list entries or an inventory blob on the
// wrong branch. Saving is an upsert: resubmission replaces the previous
// payload.
func (s *StepService) SaveStep2(ctx context.Context, organizationID string, result model.Step2Result) (model.Step2Result, error) {
	if result.Step != 2 {
		return model.Step2Result{}, ErrInvalidStepNumber
	}
	if result.Timestamp == "" {
		return model.Step2Result{}, ErrMissingTimestamp
	}
	if result.Title == "" {
		result.Title = model.Step2Title
	}

	data, err := wizard.Normalize(result.Data)
	if err != nil {
		return model.Step2Result{}, err
	}
	result.Data = data

	if err := s.repo.SaveStep2(ctx, organizationID, result); err != nil {
		return model.Step2Result{}, err
	}
	return result, nil
}

// Results returns the saved onboarding steps for an organization.
func (s *StepService) Results(ctx context.Context, organizationID string) (*model.OnboardingResult, error) {
	return s.repo.GetByOrganization(ctx, organizationID)
}
