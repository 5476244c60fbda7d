package services

import (
	"strings"
	"testing"

	"github.com/paulexconde/formflow/internal/models"
)

func analyticsForm() models.Form {
	return models.Form{
		ID: "f1",
		Questions: models.QuestionList{
			{ID: "q1", Type: models.TypeMultipleChoice, Text: "Happy?", Options: []string{"yes", "no"}},
			{ID: "q2", Type: models.TypeRating, Text: "Score us", Options: []string{"1", "2", "3", "4", "5"}},
			{ID: "q3", Type: models.TypeText, Text: "Comments"},
		},
	}
}

func analyticsResponses() []models.Response {
	return []models.Response{
		{
			ID: "r1", FormID: "f1", Completed: true,
			Answers: models.AnswerList{
				{QuestionID: "q1", Value: "yes"},
				{QuestionID: "q2", Value: "5"},
				{QuestionID: "q3", Value: "great"},
			},
		},
		{
			ID: "r2", FormID: "f1", Completed: true,
			Answers: models.AnswerList{
				{QuestionID: "q1", Value: "no"},
				{QuestionID: "q2", Value: "3"},
			},
		},
		{
			ID: "r3", FormID: "f1", Completed: false,
			Answers: models.AnswerList{
				{QuestionID: "q1", Value: "yes"},
			},
		},
		{
			// Belongs to another form, must be ignored.
			ID: "r4", FormID: "other", Completed: true,
			Answers: models.AnswerList{{QuestionID: "q1", Value: "yes"}},
		},
	}
}

func TestSummarize(t *testing.T) {
	svc := NewAnalyticsService()

	summary := svc.Summarize(analyticsForm(), analyticsResponses())

	if summary.ResponseCount != 3 {
		t.Errorf("ResponseCount = %d, want 3", summary.ResponseCount)
	}
	if summary.CompletedCount != 2 {
		t.Errorf("CompletedCount = %d, want 2", summary.CompletedCount)
	}
	if got := summary.CompletionRate; got < 66 || got > 67 {
		t.Errorf("CompletionRate = %f, want ~66.7", got)
	}
	if len(summary.Questions) != 3 {
		t.Fatalf("expected 3 question summaries, got %d", len(summary.Questions))
	}

	q1 := summary.Questions[0]
	if q1.Answered != 3 {
		t.Errorf("q1 Answered = %d, want 3", q1.Answered)
	}
	if q1.Distribution["yes"] != 2 || q1.Distribution["no"] != 1 {
		t.Errorf("q1 Distribution = %v", q1.Distribution)
	}

	q2 := summary.Questions[1]
	if q2.Answered != 2 {
		t.Errorf("q2 Answered = %d, want 2", q2.Answered)
	}
	if q2.Average == nil || *q2.Average != 4 {
		t.Errorf("q2 Average = %v, want 4", q2.Average)
	}

	q3 := summary.Questions[2]
	if q3.Distribution != nil {
		t.Errorf("text question should have no distribution, got %v", q3.Distribution)
	}
	if q3.Average != nil {
		t.Errorf("text question should have no average, got %v", q3.Average)
	}
}

func TestSummarize_NoResponses(t *testing.T) {
	svc := NewAnalyticsService()

	summary := svc.Summarize(analyticsForm(), nil)

	if summary.ResponseCount != 0 || summary.CompletionRate != 0 {
		t.Errorf("expected zeroed summary, got %+v", summary)
	}
}

func TestFilterResponses(t *testing.T) {
	svc := NewAnalyticsService()
	form := analyticsForm()
	responses := analyticsResponses()

	tests := []struct {
		name       string
		expression string
		wantIDs    []string
	}{
		{"equals", `q1 == "yes"`, []string{"r1", "r3"}},
		{"combined", `q1 == "yes" && completed`, []string{"r1"}},
		{"unanswered binds to empty string", `q3 == ""`, []string{"r2", "r3"}},
		{"no match", `q1 == "maybe"`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := svc.FilterResponses(form, tt.expression, responses)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(matched) != len(tt.wantIDs) {
				t.Fatalf("matched %d responses, want %d", len(matched), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if matched[i].ID != id {
					t.Errorf("matched[%d].ID = %s, want %s", i, matched[i].ID, id)
				}
			}
		})
	}
}

func TestFilterResponses_InvalidExpression(t *testing.T) {
	svc := NewAnalyticsService()

	_, err := svc.FilterResponses(analyticsForm(), `q1 == `, analyticsResponses())
	if err == nil || !strings.Contains(err.Error(), "invalid filter expression") {
		t.Errorf("expected compile error, got %v", err)
	}
}

func TestFilterResponses_NonBooleanExpression(t *testing.T) {
	svc := NewAnalyticsService()

	_, err := svc.FilterResponses(analyticsForm(), `q1`, analyticsResponses())
	if err == nil || !strings.Contains(err.Error(), "did not return a boolean") {
		t.Errorf("expected non-boolean error, got %v", err)
	}
}

func TestFilterResponses_EmptyExpression(t *testing.T) {
	svc := NewAnalyticsService()

	_, err := svc.FilterResponses(analyticsForm(), "   ", nil)
	if err == nil {
		t.Error("expected error for empty expression")
	}
}
