package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/paulexconde/formflow/internal/models"
	"github.com/paulexconde/formflow/internal/pkg/paginator"
	"github.com/paulexconde/formflow/pkg/fault"
	"github.com/paulexconde/formflow/pkg/store"
)

const selectResponseColumns = "SELECT id, form_id, submitted_at, completed, answers FROM responses"

// ResponseInput is a finished playback run ready to be persisted.
type ResponseInput struct {
	FormID    string          `json:"formId" validate:"required"`
	Completed bool            `json:"completed"`
	Answers   []models.Answer `json:"answers"`
}

// Handles stored responses for every form.
type ResponseService interface {
	CreateResponse(ctx context.Context, input ResponseInput) (*models.Response, error)
	GetResponse(ctx context.Context, id string) (*models.Response, error)
	ListByForm(ctx context.Context, formID string, page, limit int) (*paginator.PaginatedResponse[models.Response], error)
	// AllByForm loads every response of a form, newest first. Used by the
	// analytics aggregation, which needs the full set.
	AllByForm(ctx context.Context, formID string) ([]models.Response, error)
	DeleteResponse(ctx context.Context, id string) error
}

type responseServiceImpl struct {
	responses store.Datastorer[models.Response]
	forms     store.Datastorer[models.Form]
	pages     paginator.Paginator[models.Response]
}

// Instantiate the ResponseService.
func NewResponseService(responses store.Datastorer[models.Response], forms store.Datastorer[models.Form]) ResponseService {
	return &responseServiceImpl{
		responses: responses,
		forms:     forms,
		pages:     paginator.NewPaginator(responses),
	}
}

func (s *responseServiceImpl) CreateResponse(ctx context.Context, input ResponseInput) (*models.Response, error) {
	// A response must belong to a form that still exists.
	if _, err := s.forms.Get(ctx, selectFormColumns+" WHERE id=$1", input.FormID); err != nil {
		if errors.Is(err, fault.ErrNotFound) {
			return nil, fault.NewClientError("form not found", err)
		}
		return nil, fault.NewInternalError("failed to load form", err)
	}

	response := models.Response{
		ID:          uuid.NewString(),
		FormID:      input.FormID,
		SubmittedAt: time.Now().UTC(),
		Completed:   input.Completed,
		Answers:     input.Answers,
	}

	model, err := s.responses.Create(ctx, response)
	if err != nil {
		return nil, fault.NewInternalError("failed to save response", err)
	}

	saved, ok := model.(models.Response)
	if !ok {
		return nil, fault.NewInternalError("unexpected model type from store", nil)
	}

	return &saved, nil
}

func (s *responseServiceImpl) GetResponse(ctx context.Context, id string) (*models.Response, error) {
	response, err := s.responses.Get(ctx, selectResponseColumns+" WHERE id=$1", id)
	if err != nil {
		if errors.Is(err, fault.ErrNotFound) {
			return nil, fault.NewClientError("response not found", err)
		}
		return nil, fault.NewInternalError("failed to load response", err)
	}
	return response, nil
}

func (s *responseServiceImpl) ListByForm(ctx context.Context, formID string, page, limit int) (*paginator.PaginatedResponse[models.Response], error) {
	query := selectResponseColumns + " WHERE form_id=$1 ORDER BY submitted_at DESC"
	result, err := s.pages.PaginateQuery(ctx, query, []any{formID}, page, limit)
	if err != nil {
		return nil, fault.NewInternalError("failed to list responses", err)
	}
	return result, nil
}

func (s *responseServiceImpl) AllByForm(ctx context.Context, formID string) ([]models.Response, error) {
	responses, err := s.responses.Select(ctx, selectResponseColumns+" WHERE form_id=$1 ORDER BY submitted_at DESC", formID)
	if err != nil {
		return nil, fault.NewInternalError("failed to list responses", err)
	}
	return responses, nil
}

func (s *responseServiceImpl) DeleteResponse(ctx context.Context, id string) error {
	if _, err := s.GetResponse(ctx, id); err != nil {
		return err
	}
	if err := s.responses.Delete(ctx, id); err != nil {
		return fault.NewInternalError("failed to delete response", err)
	}
	return nil
}
