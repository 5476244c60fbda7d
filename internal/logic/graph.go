package logic

import "github.com/paulexconde/formflow/internal/models"

type nodeColor uint8

const (
	colorWhite nodeColor = iota // not yet reached
	colorGray                   // on the active traversal stack
	colorBlack                  // fully explored
)

// HasCycle reports whether the rule dependency graph contains a directed
// cycle. The graph has one node per question and an edge from a question to
// every question its rules inspect. Edges to unknown question ids are
// dropped: a dangling target is the validator's problem and cannot close a
// loop.
//
// The traversal is an iterative depth-first search over index-based frames
// rather than language recursion, so a pathological form cannot blow the
// goroutine stack. Reaching a gray node means the path loops. O(questions +
// rules).
func HasCycle(questions []models.Question) bool {
	index := make(map[string]int, len(questions))
	for i, q := range questions {
		index[q.ID] = i
	}

	adjacency := make([][]int, len(questions))
	for i, q := range questions {
		for _, rule := range q.ConditionalLogic {
			if j, ok := index[rule.TargetQuestionID]; ok {
				adjacency[i] = append(adjacency[i], j)
			}
		}
	}

	colors := make([]nodeColor, len(questions))

	type frame struct {
		node int
		next int // next outgoing edge to follow
	}

	for start := range questions {
		if colors[start] != colorWhite {
			continue
		}

		colors[start] = colorGray
		stack := []frame{{node: start}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			if top.next == len(adjacency[top.node]) {
				colors[top.node] = colorBlack
				stack = stack[:len(stack)-1]
				continue
			}

			next := adjacency[top.node][top.next]
			top.next++

			switch colors[next] {
			case colorGray:
				return true
			case colorWhite:
				colors[next] = colorGray
				stack = append(stack, frame{node: next})
			}
		}
	}

	return false
}
