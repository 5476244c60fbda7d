package logic

import (
	"strconv"
	"strings"

	"github.com/paulexconde/formflow/internal/models"
)

// VisibleQuestions computes the set of question ids the respondent should
// currently see, given the answers collected so far. A question with no rules
// is always visible; a question with rules is visible when at least one rule
// is satisfied.
//
// Each question is evaluated independently against the full response map, so
// the call is safe even against a cyclic rule set: HasCycle is a separate
// diagnostic, never an input here. Safe to call on every answer change.
//
// A rule's Action is deliberately not consulted: visibility is an OR over
// satisfied conditions, matching the shipped product behavior. Whether hide
// should invert the rule is an open product question, recorded in DESIGN.md.
func VisibleQuestions(questions []models.Question, responses map[string]string) map[string]bool {
	visible := make(map[string]bool, len(questions))

	for _, q := range questions {
		if len(q.ConditionalLogic) == 0 {
			visible[q.ID] = true
			continue
		}
		for _, rule := range q.ConditionalLogic {
			if ruleSatisfied(rule, responses) {
				visible[q.ID] = true
				break
			}
		}
	}

	return visible
}

// ruleSatisfied evaluates one rule's condition against the target question's
// answer. An unanswered target satisfies is_empty and nothing else.
func ruleSatisfied(rule models.Rule, responses map[string]string) bool {
	answer, answered := responses[rule.TargetQuestionID]

	switch rule.Condition {
	case models.CondEquals:
		return answered && answer == rule.TargetValue
	case models.CondNotEquals:
		return answered && answer != rule.TargetValue
	case models.CondContains:
		return answered && answer != "" && strings.Contains(answer, rule.TargetValue)
	case models.CondGreaterThan:
		return answered && compareNumeric(answer, rule.TargetValue, func(a, b float64) bool { return a > b })
	case models.CondLessThan:
		return answered && compareNumeric(answer, rule.TargetValue, func(a, b float64) bool { return a < b })
	case models.CondIsEmpty:
		return !answered || strings.TrimSpace(answer) == ""
	case models.CondIsNotEmpty:
		return answered && strings.TrimSpace(answer) != ""
	default:
		// Unknown condition: never satisfied.
		return false
	}
}

// compareNumeric parses both operands as floats. A side that fails to parse
// makes the comparison false, it never errors: "abc" > "10" is simply not
// true.
func compareNumeric(answer, target string, cmp func(a, b float64) bool) bool {
	a, errA := strconv.ParseFloat(strings.TrimSpace(answer), 64)
	b, errB := strconv.ParseFloat(strings.TrimSpace(target), 64)
	if errA != nil || errB != nil {
		return false
	}
	return cmp(a, b)
}
