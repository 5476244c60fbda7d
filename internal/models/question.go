package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// The type of question being asked.
//
// Closed set: it determines the answer shape and, for multiple choice and
// rating, the values a rule may compare against.
type QuestionType string

const (
	TypeText           QuestionType = "text"
	TypeTextarea       QuestionType = "textarea"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeEmail          QuestionType = "email"
	TypeNumber         QuestionType = "number"
	TypeRating         QuestionType = "rating"
)

// Condition names the comparison a rule applies to the target question's answer.
type Condition string

const (
	CondEquals      Condition = "equals"
	CondNotEquals   Condition = "not_equals"
	CondContains    Condition = "contains"
	CondGreaterThan Condition = "greater_than"
	CondLessThan    Condition = "less_than"
	CondIsEmpty     Condition = "is_empty"
	CondIsNotEmpty  Condition = "is_not_empty"
)

// Action is what a satisfied rule does with its question.
type Action string

const (
	ActionShow Action = "show"
	ActionHide Action = "hide"
)

// Rule is a single conditional-visibility clause attached to a question.
//
// TargetQuestionID must point at a question placed earlier in the form; the
// rule editor only offers earlier questions, and the logic validator reports
// anything that still manages to dangle or self-reference.
type Rule struct {
	Condition        Condition `json:"condition"`
	TargetQuestionID string    `json:"targetQuestionId"`
	TargetValue      string    `json:"targetValue"`
	Action           Action    `json:"action"`
}

// Validation holds optional numeric bounds. Only meaningful for number questions.
type Validation struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Question is a single prompt in a form.
type Question struct {
	ID               string       `json:"id"`
	Type             QuestionType `json:"type"`
	Text             string       `json:"text"`
	HelpText         string       `json:"helpText"`
	Required         bool         `json:"required"`
	Options          []string     `json:"options,omitempty"`
	Validation       *Validation  `json:"validation,omitempty"`
	ConditionalLogic []Rule       `json:"conditionalLogic,omitempty"`
}

// QuestionList is the ordered question sequence of a form, persisted as a
// single jsonb column on the forms table.
type QuestionList []Question

func (q QuestionList) Value() (driver.Value, error) {
	return json.Marshal(q)
}

func (q *QuestionList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*q = nil
		return nil
	case []byte:
		return json.Unmarshal(v, q)
	case string:
		return json.Unmarshal([]byte(v), q)
	default:
		return fmt.Errorf("cannot scan %T into QuestionList", src)
	}
}
