// Package logic is the conditional-visibility engine: structural validation
// of per-question rules, cycle detection over the rule dependency graph, and
// the runtime visibility evaluator consulted during form playback.
//
// Everything here is a pure function over a snapshot of the form's questions.
// Nothing mutates its inputs, nothing blocks, and results from the validator
// and cycle detector are advisory only: the editing surface shows them as
// warnings but never refuses a save.
package logic

import (
	"fmt"

	"github.com/paulexconde/formflow/internal/models"
)

// Codes attached to ValidationError for machine handling on the editing surface.
const (
	CodeDanglingTarget = "dangling-target"
	CodeSelfReference  = "self-reference"
	CodeIncompleteRule = "incomplete-rule"
)

// ValidationError points at one defective rule. RuleIndex is the rule's
// position within the owning question's conditionalLogic sequence; rules have
// no identity beyond that index.
type ValidationError struct {
	QuestionID string `json:"questionId"`
	RuleIndex  int    `json:"ruleIndex"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// ValidateRules inspects every conditional rule on every question and returns
// one error per violated constraint. A single rule can produce several errors
// (a dangling self-reference with no condition would produce three).
//
// is_empty and is_not_empty conceptually need no comparison value, but an
// absent targetValue is still reported as incomplete; the rule editor always
// populates one, so a blank value means the rule was built by hand or
// corrupted. See DESIGN.md before changing this.
func ValidateRules(questions []models.Question) []ValidationError {
	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	var errs []ValidationError
	for _, q := range questions {
		for i, rule := range q.ConditionalLogic {
			if _, ok := known[rule.TargetQuestionID]; !ok {
				errs = append(errs, ValidationError{
					QuestionID: q.ID,
					RuleIndex:  i,
					Code:       CodeDanglingTarget,
					Message:    fmt.Sprintf("rule %d references unknown question %q", i, rule.TargetQuestionID),
				})
			}
			if rule.TargetQuestionID == q.ID {
				errs = append(errs, ValidationError{
					QuestionID: q.ID,
					RuleIndex:  i,
					Code:       CodeSelfReference,
					Message:    fmt.Sprintf("rule %d references its own question", i),
				})
			}
			if rule.Condition == "" || rule.TargetValue == "" || rule.Action == "" {
				errs = append(errs, ValidationError{
					QuestionID: q.ID,
					RuleIndex:  i,
					Code:       CodeIncompleteRule,
					Message:    fmt.Sprintf("rule %d is missing a condition, target value or action", i),
				})
			}
		}
	}

	return errs
}
