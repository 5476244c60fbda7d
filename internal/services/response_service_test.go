package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/paulexconde/formflow/internal/models"
	"github.com/paulexconde/formflow/pkg/fault"
	"github.com/paulexconde/formflow/pkg/store"
)

func newResponseService(t *testing.T) (ResponseService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	forms := store.NewDataStore[models.Form](db, "forms")
	responses := store.NewDataStore[models.Response](db, "responses")
	return NewResponseService(responses, forms), mock
}

func TestCreateResponse(t *testing.T) {
	svc, mock := newResponseService(t)

	mock.ExpectQuery("SELECT id, title, description, questions, created_at, updated_at FROM forms WHERE id=").
		WithArgs("form-1").
		WillReturnRows(formRows("form-1", "[]"))

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO responses").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("resp-1"))
	mock.ExpectCommit()

	response, err := svc.CreateResponse(context.Background(), ResponseInput{
		FormID:    "form-1",
		Completed: true,
		Answers:   []models.Answer{{QuestionID: "q1", Value: "yes"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if response.ID != "resp-1" {
		t.Errorf("response.ID = %q, want resp-1", response.ID)
	}
	if response.FormID != "form-1" || !response.Completed {
		t.Errorf("unexpected response: %+v", response)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateResponse_FormMissing(t *testing.T) {
	svc, mock := newResponseService(t)

	mock.ExpectQuery("SELECT id, title, description, questions, created_at, updated_at FROM forms WHERE id=").
		WithArgs("gone").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.CreateResponse(context.Background(), ResponseInput{FormID: "gone"})
	if !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("expected fault.ErrNotFound, got %v", err)
	}
}

func TestAllByForm(t *testing.T) {
	svc, mock := newResponseService(t)

	rows := sqlmock.NewRows([]string{"id", "form_id", "submitted_at", "completed", "answers"}).
		AddRow("r1", "form-1", time.Now(), true, []byte(`[{"questionId":"q1","value":"yes"}]`))

	mock.ExpectQuery("SELECT id, form_id, submitted_at, completed, answers FROM responses WHERE form_id=").
		WithArgs("form-1").
		WillReturnRows(rows)

	responses, err := svc.AllByForm(context.Background(), "form-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	if len(responses[0].Answers) != 1 || responses[0].Answers[0].Value != "yes" {
		t.Errorf("answers jsonb did not round-trip: %+v", responses[0].Answers)
	}
}
