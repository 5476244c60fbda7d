package logic

import (
	"reflect"
	"testing"

	"github.com/paulexconde/formflow/internal/models"
)

func TestVisibleQuestions_NoRulesAllVisible(t *testing.T) {
	questions := []models.Question{
		{ID: "q1"}, {ID: "q2"}, {ID: "q3"},
	}

	visible := VisibleQuestions(questions, map[string]string{})

	for _, q := range questions {
		if !visible[q.ID] {
			t.Errorf("expected %s to be visible", q.ID)
		}
	}
}

func TestVisibleQuestions_ShowOnMatch(t *testing.T) {
	questions := []models.Question{
		{ID: "q1"},
		{ID: "q2", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q1", "yes")}},
	}

	visible := VisibleQuestions(questions, map[string]string{"q1": "yes"})
	if !visible["q1"] || !visible["q2"] {
		t.Errorf("expected q1 and q2 visible, got %v", visible)
	}

	visible = VisibleQuestions(questions, map[string]string{"q1": "no"})
	if !visible["q1"] {
		t.Error("expected q1 visible")
	}
	if visible["q2"] {
		t.Error("expected q2 hidden when q1 answered no")
	}
}

func TestVisibleQuestions_Conditions(t *testing.T) {
	tests := []struct {
		name      string
		rule      models.Rule
		responses map[string]string
		want      bool
	}{
		{"equals match", rule(models.CondEquals, "q1", "yes"), map[string]string{"q1": "yes"}, true},
		{"equals mismatch", rule(models.CondEquals, "q1", "yes"), map[string]string{"q1": "no"}, false},
		{"equals unanswered", rule(models.CondEquals, "q1", "yes"), map[string]string{}, false},
		{"not_equals match", rule(models.CondNotEquals, "q1", "yes"), map[string]string{"q1": "no"}, true},
		{"not_equals mismatch", rule(models.CondNotEquals, "q1", "yes"), map[string]string{"q1": "yes"}, false},
		{"not_equals unanswered fails", rule(models.CondNotEquals, "q1", "yes"), map[string]string{}, false},
		{"contains substring", rule(models.CondContains, "q1", "bo"), map[string]string{"q1": "rainbow"}, true},
		{"contains missing substring", rule(models.CondContains, "q1", "xy"), map[string]string{"q1": "rainbow"}, false},
		{"contains empty answer", rule(models.CondContains, "q1", "a"), map[string]string{"q1": ""}, false},
		{"greater_than true", rule(models.CondGreaterThan, "q1", "10"), map[string]string{"q1": "11"}, true},
		{"greater_than false", rule(models.CondGreaterThan, "q1", "10"), map[string]string{"q1": "10"}, false},
		{"greater_than float operands", rule(models.CondGreaterThan, "q1", "2.5"), map[string]string{"q1": "2.75"}, true},
		{"greater_than unparseable answer", rule(models.CondGreaterThan, "q1", "10"), map[string]string{"q1": "abc"}, false},
		{"greater_than unparseable target", rule(models.CondGreaterThan, "q1", "abc"), map[string]string{"q1": "11"}, false},
		{"less_than true", rule(models.CondLessThan, "q1", "10"), map[string]string{"q1": "9"}, true},
		{"less_than false", rule(models.CondLessThan, "q1", "10"), map[string]string{"q1": "12"}, false},
		{"is_empty unanswered", rule(models.CondIsEmpty, "q1", "yes"), map[string]string{}, true},
		{"is_empty blank answer", rule(models.CondIsEmpty, "q1", "yes"), map[string]string{"q1": "   "}, true},
		{"is_empty answered", rule(models.CondIsEmpty, "q1", "yes"), map[string]string{"q1": "hi"}, false},
		{"is_not_empty answered", rule(models.CondIsNotEmpty, "q1", "x"), map[string]string{"q1": "hi"}, true},
		{"is_not_empty blank", rule(models.CondIsNotEmpty, "q1", "x"), map[string]string{"q1": " "}, false},
		{"is_not_empty unanswered", rule(models.CondIsNotEmpty, "q1", "x"), map[string]string{}, false},
		{"unknown condition", rule(models.Condition("matches"), "q1", "x"), map[string]string{"q1": "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions := []models.Question{
				{ID: "q1"},
				{ID: "q2", ConditionalLogic: []models.Rule{tt.rule}},
			}

			visible := VisibleQuestions(questions, tt.responses)
			if visible["q2"] != tt.want {
				t.Errorf("q2 visible = %v, want %v", visible["q2"], tt.want)
			}
		})
	}
}

func TestVisibleQuestions_OrOverRules(t *testing.T) {
	questions := []models.Question{
		{ID: "q1"},
		{ID: "q2"},
		{ID: "q3", ConditionalLogic: []models.Rule{
			rule(models.CondEquals, "q1", "yes"),
			rule(models.CondEquals, "q2", "yes"),
		}},
	}

	// Second rule satisfied, first not: still visible.
	visible := VisibleQuestions(questions, map[string]string{"q1": "no", "q2": "yes"})
	if !visible["q3"] {
		t.Error("expected q3 visible when any rule matches")
	}

	visible = VisibleQuestions(questions, map[string]string{"q1": "no", "q2": "no"})
	if visible["q3"] {
		t.Error("expected q3 hidden when no rule matches")
	}
}

// The action field is carried on rules but never changes the OR-of-conditions
// result: a satisfied hide rule behaves exactly like a satisfied show rule.
func TestVisibleQuestions_ActionIgnored(t *testing.T) {
	hideRule := rule(models.CondEquals, "q1", "yes")
	hideRule.Action = models.ActionHide

	questions := []models.Question{
		{ID: "q1"},
		{ID: "q2", ConditionalLogic: []models.Rule{hideRule}},
	}

	visible := VisibleQuestions(questions, map[string]string{"q1": "yes"})
	if !visible["q2"] {
		t.Error("expected q2 visible: action does not participate in evaluation")
	}
}

func TestVisibleQuestions_Deterministic(t *testing.T) {
	questions := []models.Question{
		{ID: "q1"},
		{ID: "q2", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q1", "yes")}},
		{ID: "q3", ConditionalLogic: []models.Rule{rule(models.CondIsEmpty, "q2", "x")}},
	}
	responses := map[string]string{"q1": "yes"}

	first := VisibleQuestions(questions, responses)
	second := VisibleQuestions(questions, responses)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("two identical calls disagreed: %v vs %v", first, second)
	}
}

// A cyclic rule set is a configuration defect, not a runtime hazard: each
// question is evaluated independently, so evaluation still terminates.
func TestVisibleQuestions_TerminatesOnCycle(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q2", "yes")}},
		{ID: "q2", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q1", "yes")}},
	}

	visible := VisibleQuestions(questions, map[string]string{"q1": "yes", "q2": "yes"})
	if !visible["q1"] || !visible["q2"] {
		t.Errorf("expected both visible under mutually satisfied rules, got %v", visible)
	}
}
