package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/paulexconde/formflow/internal/models"
	"github.com/paulexconde/formflow/pkg/fault"
)

// QuestionSummary aggregates the collected answers for one question.
type QuestionSummary struct {
	QuestionID   string              `json:"questionId"`
	Text         string              `json:"text"`
	Type         models.QuestionType `json:"type"`
	Answered     int                 `json:"answered"`
	Distribution map[string]int      `json:"distribution,omitempty"`
	Average      *float64            `json:"average,omitempty"`
}

// FormSummary is what the owner's response review screen renders.
type FormSummary struct {
	FormID         string            `json:"formId"`
	ResponseCount  int               `json:"responseCount"`
	CompletedCount int               `json:"completedCount"`
	CompletionRate float64           `json:"completionRate"`
	Questions      []QuestionSummary `json:"questions"`
}

// Aggregates stored responses for form owners.
type AnalyticsService interface {
	Summarize(form models.Form, responses []models.Response) *FormSummary
	// FilterResponses keeps the responses for which the owner's boolean
	// expression holds. Answers are bound as q1..qN in form order, plus a
	// `completed` flag, so filters read like `q1 == "yes" && q3 != ""`.
	FilterResponses(form models.Form, expression string, responses []models.Response) ([]models.Response, error)
}

type analyticsServiceImpl struct{}

// Instantiate the AnalyticsService.
func NewAnalyticsService() AnalyticsService {
	return &analyticsServiceImpl{}
}

func (s *analyticsServiceImpl) Summarize(form models.Form, responses []models.Response) *FormSummary {
	summary := &FormSummary{FormID: form.ID}

	answered := make(map[string][]string, len(form.Questions))
	for _, r := range responses {
		if r.FormID != form.ID {
			continue
		}
		summary.ResponseCount++
		if r.Completed {
			summary.CompletedCount++
		}
		for _, a := range r.Answers {
			if strings.TrimSpace(a.Value) == "" {
				continue
			}
			answered[a.QuestionID] = append(answered[a.QuestionID], a.Value)
		}
	}

	if summary.ResponseCount > 0 {
		summary.CompletionRate = float64(summary.CompletedCount) / float64(summary.ResponseCount) * 100
	}

	for _, q := range form.Questions {
		values := answered[q.ID]
		qs := QuestionSummary{
			QuestionID: q.ID,
			Text:       q.Text,
			Type:       q.Type,
			Answered:   len(values),
		}

		switch q.Type {
		case models.TypeMultipleChoice, models.TypeRating:
			qs.Distribution = make(map[string]int, len(q.Options))
			for _, v := range values {
				qs.Distribution[v]++
			}
		}

		switch q.Type {
		case models.TypeNumber, models.TypeRating:
			var sum float64
			var count int
			for _, v := range values {
				num, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				if err != nil {
					// Unparseable answers are excluded from the average,
					// mirroring how the evaluator treats them.
					continue
				}
				sum += num
				count++
			}
			if count > 0 {
				avg := sum / float64(count)
				qs.Average = &avg
			}
		}

		summary.Questions = append(summary.Questions, qs)
	}

	return summary
}

func (s *analyticsServiceImpl) FilterResponses(form models.Form, expression string, responses []models.Response) ([]models.Response, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fault.NewClientError("filter expression is empty", nil)
	}

	// Compile once against a prototype env; every response binds the same
	// q1..qN keys.
	program, err := expr.Compile(expression, expr.Env(answerEnv(form, models.Response{})))
	if err != nil {
		return nil, fault.NewClientError("invalid filter expression", err)
	}

	var matched []models.Response
	for _, r := range responses {
		if r.FormID != form.ID {
			continue
		}

		output, err := expr.Run(program, answerEnv(form, r))
		if err != nil {
			return nil, fault.NewClientError("filter expression failed", err)
		}

		result, ok := output.(bool)
		if !ok {
			return nil, fault.NewClientError("filter expression did not return a boolean", nil)
		}

		if result {
			matched = append(matched, r)
		}
	}

	return matched, nil
}

// answerEnv binds a response's answers to positional names: the answer to the
// form's first question is q1, and so on. Unanswered questions bind to "".
func answerEnv(form models.Form, r models.Response) map[string]any {
	byQuestion := make(map[string]string, len(r.Answers))
	for _, a := range r.Answers {
		byQuestion[a.QuestionID] = a.Value
	}

	env := map[string]any{"completed": r.Completed}
	for i, q := range form.Questions {
		env[fmt.Sprintf("q%d", i+1)] = byQuestion[q.ID]
	}
	return env
}
