package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Holds the answer to a single question.
type Answer struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

// AnswerList is persisted as a jsonb column on the responses table.
type AnswerList []Answer

func (a AnswerList) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *AnswerList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into AnswerList", src)
	}
}

// Response is one respondent's completed run through a form: one answer per
// question that was visible when they reached it.
type Response struct {
	ID          string     `db:"id" json:"id"`
	FormID      string     `db:"form_id" json:"formId"`
	SubmittedAt time.Time  `db:"submitted_at" json:"submittedAt"`
	Completed   bool       `db:"completed" json:"completed"`
	Answers     AnswerList `db:"answers" json:"answers"` // jsonb
}

// ToModel satisfies store.DTO.
func (r Response) ToModel(id string) any {
	r.ID = id
	return r
}
