package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/paulexconde/formflow/internal/logic"
	"github.com/paulexconde/formflow/internal/models"
	"github.com/paulexconde/formflow/internal/pkg/paginator"
	"github.com/paulexconde/formflow/internal/pkg/workerpool"
	"github.com/paulexconde/formflow/pkg/fault"
	"github.com/paulexconde/formflow/pkg/store"
)

const selectFormColumns = "SELECT id, title, description, questions, created_at, updated_at FROM forms"

// FormInput is the payload the editing surface sends for create and update.
type FormInput struct {
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description"`
	Questions   []models.Question `json:"questions"`
}

// LogicReport is the advisory result of checking a form's conditional rules.
// It warns, it never blocks a save.
type LogicReport struct {
	Errors   []logic.ValidationError `json:"errors"`
	HasCycle bool                    `json:"hasCycle"`
}

// Handles form CRUD for the editing surface.
type FormService interface {
	CreateForm(ctx context.Context, input FormInput) (*models.Form, error)
	GetForm(ctx context.Context, id string) (*models.Form, error)
	ListForms(ctx context.Context, page, limit int) (*paginator.PaginatedResponse[models.Form], error)
	UpdateForm(ctx context.Context, id string, input FormInput) (*models.Form, error)
	DeleteForm(ctx context.Context, id string) error
	// CheckLogic runs the rule validator and cycle detector synchronously,
	// for the editing surface's warning panel.
	CheckLogic(ctx context.Context, id string) (*LogicReport, error)
}

type formServiceImpl struct {
	forms     store.Datastorer[models.Form]
	responses store.Datastorer[models.Response]
	pages     paginator.Paginator[models.Form]
	pool      *workerpool.WorkerPool
}

// Instantiate the FormService. The pool runs the advisory logic checks after
// every save; pass nil to skip them (tests do).
func NewFormService(forms store.Datastorer[models.Form], responses store.Datastorer[models.Response], pool *workerpool.WorkerPool) FormService {
	return &formServiceImpl{
		forms:     forms,
		responses: responses,
		pages:     paginator.NewPaginator(forms),
		pool:      pool,
	}
}

func (s *formServiceImpl) CreateForm(ctx context.Context, input FormInput) (*models.Form, error) {
	now := time.Now().UTC()
	form := models.Form{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Questions:   assignQuestionIDs(input.Questions),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	model, err := s.forms.Create(ctx, form)
	if err != nil {
		return nil, fault.NewInternalError("failed to create form", err)
	}

	saved, ok := model.(models.Form)
	if !ok {
		return nil, fault.NewInternalError("unexpected model type from store", nil)
	}

	s.adviseLogic(saved)
	return &saved, nil
}

func (s *formServiceImpl) GetForm(ctx context.Context, id string) (*models.Form, error) {
	form, err := s.forms.Get(ctx, selectFormColumns+" WHERE id=$1", id)
	if err != nil {
		if errors.Is(err, fault.ErrNotFound) {
			return nil, fault.NewClientError("form not found", err)
		}
		return nil, fault.NewInternalError("failed to load form", err)
	}
	return form, nil
}

func (s *formServiceImpl) ListForms(ctx context.Context, page, limit int) (*paginator.PaginatedResponse[models.Form], error) {
	result, err := s.pages.PaginateQuery(ctx, selectFormColumns+" ORDER BY updated_at DESC", nil, page, limit)
	if err != nil {
		return nil, fault.NewInternalError("failed to list forms", err)
	}
	return result, nil
}

func (s *formServiceImpl) UpdateForm(ctx context.Context, id string, input FormInput) (*models.Form, error) {
	patch := models.FormPatch{
		Title:       input.Title,
		Description: &input.Description,
		Questions:   assignQuestionIDs(input.Questions),
		UpdatedAt:   time.Now().UTC(),
	}

	model, err := s.forms.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, fault.ErrNotFound) {
			return nil, fault.NewClientError("form not found", err)
		}
		return nil, fault.NewInternalError("failed to update form", err)
	}

	updated, ok := model.(*models.Form)
	if !ok {
		return nil, fault.NewInternalError("unexpected model type from store", nil)
	}

	s.adviseLogic(*updated)
	return updated, nil
}

// DeleteForm removes the form and its responses. Rules on other forms cannot
// reference this form's questions, so no rule cleanup is needed; rules inside
// the deleted form die with it.
func (s *formServiceImpl) DeleteForm(ctx context.Context, id string) error {
	if _, err := s.GetForm(ctx, id); err != nil {
		return err
	}

	if err := s.forms.Delete(ctx, id); err != nil {
		return fault.NewInternalError("failed to delete form", err)
	}

	if err := s.responses.DeleteWhere(ctx, "form_id", id); err != nil {
		return fault.NewInternalError("failed to delete form responses", err)
	}

	return nil
}

func (s *formServiceImpl) CheckLogic(ctx context.Context, id string) (*LogicReport, error) {
	form, err := s.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}

	return &LogicReport{
		Errors:   logic.ValidateRules(form.Questions),
		HasCycle: logic.HasCycle(form.Questions),
	}, nil
}

// adviseLogic queues the post-save diagnostic pass. Findings go to the log;
// they are also available on demand through CheckLogic.
func (s *formServiceImpl) adviseLogic(form models.Form) {
	if s.pool == nil {
		return
	}

	questions := form.Questions
	s.pool.Submit(func(ctx context.Context) {
		for _, e := range logic.ValidateRules(questions) {
			log.Printf("form %s: logic warning [%s] question %s rule %d: %s",
				form.ID, e.Code, e.QuestionID, e.RuleIndex, e.Message)
		}
		if logic.HasCycle(questions) {
			log.Printf("form %s: conditional rules form a circular dependency", form.ID)
		}
	})
}

// assignQuestionIDs gives fresh ids to questions that arrive without one.
// Existing ids are kept: they are stable for the question's lifetime and
// rules point at them.
func assignQuestionIDs(questions []models.Question) models.QuestionList {
	out := make(models.QuestionList, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		out[i] = q
	}
	return out
}
