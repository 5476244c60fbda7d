package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/paulexconde/formflow/internal/logic"
	"github.com/paulexconde/formflow/internal/models"
	"github.com/paulexconde/formflow/pkg/fault"
)

// Holds the state of a respondent's run through a form.
//
// The session is client-owned: playback endpoints are stateless and rebuild
// it from the submitted answer map on every call.
type PlaybackSession struct {
	FormID    string
	Answers   map[string]string
	Completed bool
}

// NewPlaybackSession starts an empty run for the given form.
func NewPlaybackSession(formID string) *PlaybackSession {
	return &PlaybackSession{
		FormID:  formID,
		Answers: make(map[string]string),
	}
}

// Drives a respondent through a form one visible question at a time.
type PlaybackService interface {
	// NextQuestion returns the first visible, unanswered question in form
	// order, or nil when the run is finished. Visibility is re-evaluated
	// against the full answer map on every call.
	NextQuestion(form models.Form, session *PlaybackSession) *models.Question
	// AnswerQuestion validates and records an answer, then returns the next
	// question. A nil question with nil error means the run is complete.
	AnswerQuestion(session *PlaybackSession, questionID, answer string, form models.Form) (*models.Question, error)
	// ValidateAnswer applies the question's own input constraints: required,
	// email format, numeric bounds, option membership.
	ValidateAnswer(question models.Question, answer string) error
	// FinishSession re-validates every visible answer and packages the run
	// for persistence. Hidden questions' answers are dropped.
	FinishSession(form models.Form, session *PlaybackSession) (*ResponseInput, error)
}

type playbackServiceImpl struct {
	validate *validator.Validate
}

// Instantiate the PlaybackService.
func NewPlaybackService() PlaybackService {
	return &playbackServiceImpl{validate: validator.New()}
}

func (s *playbackServiceImpl) NextQuestion(form models.Form, session *PlaybackSession) *models.Question {
	visible := logic.VisibleQuestions(form.Questions, session.Answers)

	for i := range form.Questions {
		q := form.Questions[i]
		if !visible[q.ID] {
			continue
		}
		if _, answered := session.Answers[q.ID]; answered {
			continue
		}
		return &q
	}

	return nil
}

func (s *playbackServiceImpl) AnswerQuestion(session *PlaybackSession, questionID, answer string, form models.Form) (*models.Question, error) {
	if session.Completed {
		return nil, fault.NewClientError("form already completed", nil)
	}

	question := findQuestion(form, questionID)
	if question == nil {
		return nil, fault.NewClientError("invalid question", nil)
	}

	visible := logic.VisibleQuestions(form.Questions, session.Answers)
	if !visible[questionID] {
		return nil, fault.NewClientError("question is not currently visible", nil)
	}

	if err := s.ValidateAnswer(*question, answer); err != nil {
		return nil, err
	}

	session.Answers[questionID] = answer

	next := s.NextQuestion(form, session)
	if next == nil {
		session.Completed = true
		return nil, nil
	}

	return next, nil
}

func (s *playbackServiceImpl) ValidateAnswer(question models.Question, answer string) error {
	trimmed := strings.TrimSpace(answer)

	if question.Required && trimmed == "" {
		return fault.NewClientError("this question is required", fault.ErrInvalidAnswer)
	}
	if trimmed == "" {
		// Optional and unanswered.
		return nil
	}

	switch question.Type {
	case models.TypeEmail:
		if err := s.validate.Var(trimmed, "email"); err != nil {
			return fault.NewClientError("please enter a valid email address", fault.ErrInvalidAnswer)
		}

	case models.TypeNumber:
		num, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return fault.NewClientError("answer must be a number", fault.ErrInvalidAnswer)
		}
		if v := question.Validation; v != nil {
			if v.Min != nil && num < *v.Min {
				return fault.NewClientError(fmt.Sprintf("value must be at least %g", *v.Min), fault.ErrInvalidAnswer)
			}
			if v.Max != nil && num > *v.Max {
				return fault.NewClientError(fmt.Sprintf("value must be no more than %g", *v.Max), fault.ErrInvalidAnswer)
			}
		}

	case models.TypeRating:
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return fault.NewClientError("rating must be numeric", fault.ErrInvalidAnswer)
		}

	case models.TypeMultipleChoice:
		for _, option := range question.Options {
			if trimmed == option {
				return nil
			}
		}
		return fault.NewClientError("answer must be one of the listed options", fault.ErrInvalidAnswer)
	}

	return nil
}

func (s *playbackServiceImpl) FinishSession(form models.Form, session *PlaybackSession) (*ResponseInput, error) {
	visible := logic.VisibleQuestions(form.Questions, session.Answers)

	var answers []models.Answer
	for _, q := range form.Questions {
		if !visible[q.ID] {
			continue
		}

		answer, answered := session.Answers[q.ID]
		if !answered {
			if q.Required {
				return nil, fault.NewClientError(fmt.Sprintf("question %q is required", q.Text), fault.ErrInvalidAnswer)
			}
			continue
		}

		if err := s.ValidateAnswer(q, answer); err != nil {
			return nil, err
		}

		answers = append(answers, models.Answer{QuestionID: q.ID, Value: answer})
	}

	session.Completed = true

	return &ResponseInput{
		FormID:    form.ID,
		Completed: true,
		Answers:   answers,
	}, nil
}

func findQuestion(form models.Form, id string) *models.Question {
	for i := range form.Questions {
		if form.Questions[i].ID == id {
			return &form.Questions[i]
		}
	}
	return nil
}
