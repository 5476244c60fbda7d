package logic

import (
	"fmt"
	"testing"

	"github.com/paulexconde/formflow/internal/models"
)

func TestHasCycle(t *testing.T) {
	tests := []struct {
		name      string
		questions []models.Question
		want      bool
	}{
		{
			name:      "empty form",
			questions: nil,
			want:      false,
		},
		{
			name: "no rules",
			questions: []models.Question{
				{ID: "q1"}, {ID: "q2"}, {ID: "q3"},
			},
			want: false,
		},
		{
			name: "chain q3 -> q2 -> q1",
			questions: []models.Question{
				{ID: "q1"},
				{ID: "q2", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q1", "yes")}},
				{ID: "q3", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q2", "yes")}},
			},
			want: false,
		},
		{
			name: "two question cycle",
			questions: []models.Question{
				{ID: "q1", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q2", "yes")}},
				{ID: "q2", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q1", "yes")}},
			},
			want: true,
		},
		{
			name: "chain closed into a loop",
			questions: []models.Question{
				{ID: "q1", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q3", "yes")}},
				{ID: "q2", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q1", "yes")}},
				{ID: "q3", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q2", "yes")}},
			},
			want: true,
		},
		{
			name: "self loop",
			questions: []models.Question{
				{ID: "q1", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q1", "yes")}},
			},
			want: true,
		},
		{
			name: "dangling edge cannot close a loop",
			questions: []models.Question{
				{ID: "q1", ConditionalLogic: []models.Rule{rule(models.CondEquals, "gone", "yes")}},
			},
			want: false,
		},
		{
			name: "diamond is acyclic",
			questions: []models.Question{
				{ID: "q1"},
				{ID: "q2", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q1", "a")}},
				{ID: "q3", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q1", "b")}},
				{ID: "q4", ConditionalLogic: []models.Rule{
					rule(models.CondEquals, "q2", "yes"),
					rule(models.CondEquals, "q3", "yes"),
				}},
			},
			want: false,
		},
		{
			name: "cycle in a later component",
			questions: []models.Question{
				{ID: "q1"},
				{ID: "q2", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q1", "yes")}},
				{ID: "q3", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q4", "yes")}},
				{ID: "q4", ConditionalLogic: []models.Rule{rule(models.CondEquals, "q3", "yes")}},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCycle(tt.questions); got != tt.want {
				t.Errorf("HasCycle() = %v, want %v", got, tt.want)
			}
		})
	}
}

// A long dependency chain must not overflow anything: the traversal keeps its
// own stack.
func TestHasCycle_DeepChain(t *testing.T) {
	const depth = 100_000

	questions := make([]models.Question, depth)
	questions[0] = models.Question{ID: "q0"}
	for i := 1; i < depth; i++ {
		questions[i] = models.Question{
			ID:               fmt.Sprintf("q%d", i),
			ConditionalLogic: []models.Rule{rule(models.CondEquals, fmt.Sprintf("q%d", i-1), "yes")},
		}
	}

	if HasCycle(questions) {
		t.Error("HasCycle() = true for a straight chain")
	}

	// Close the loop: first question now depends on the last.
	questions[0].ConditionalLogic = []models.Rule{
		rule(models.CondEquals, fmt.Sprintf("q%d", depth-1), "yes"),
	}

	if !HasCycle(questions) {
		t.Error("HasCycle() = false after closing the chain into a loop")
	}
}
