package definition

import (
	"fmt"
	"strings"
)

// validateGraph runs the semantic checks over the step dependency graph:
// duplicate ids, dangling dependency references, and cycle detection.
// All findings of the phase are collected together; cycle detection skips
// edges into unknown ids so a dangling reference does not hide a cycle
// elsewhere in the graph.
func validateGraph(steps []Step) []Problem {
	var problems []Problem

	problems = append(problems, findDuplicateIDs(steps)...)
	problems = append(problems, findDanglingDependencies(steps)...)

	if cycle := findCycle(steps); cycle != nil {
		problems = append(problems, Problem{
			Phase:      PhaseLogic,
			Code:       CodeCircularDependency,
			Field:      "scenario.steps",
			Message:    "steps form a dependency cycle: " + strings.Join(cycle, " -> "),
			Suggestion: "break the cycle by removing one of the dependencies",
			Cycle:      cycle,
		})
	}

	return problems
}

func findDuplicateIDs(steps []Step) []Problem {
	seen := make(map[string]int, len(steps))
	var problems []Problem
	for _, step := range steps {
		seen[step.ID]++
	}
	reported := make(map[string]bool)
	for _, step := range steps {
		if seen[step.ID] > 1 && !reported[step.ID] {
			reported[step.ID] = true
			problems = append(problems, Problem{
				Phase:      PhaseLogic,
				Code:       CodeDuplicateIDs,
				Field:      "scenario.steps",
				Message:    fmt.Sprintf("step id %q is used %d times", step.ID, seen[step.ID]),
				Suggestion: "give every step a unique id",
			})
		}
	}
	return problems
}

func findDanglingDependencies(steps []Step) []Problem {
	ids := make(map[string]bool, len(steps))
	for _, step := range steps {
		ids[step.ID] = true
	}

	var problems []Problem
	for i, step := range steps {
		for _, dep := range step.Dependencies {
			if !ids[dep] {
				problems = append(problems, Problem{
					Phase:      PhaseLogic,
					Code:       CodeInvalidDependency,
					Field:      fmt.Sprintf("scenario.steps.%d.dependencies", i),
					Message:    fmt.Sprintf("dependency %q not found among step ids", dep),
					Suggestion: "valid step ids: " + strings.Join(stepIDs(steps), ", "),
				})
			}
		}
	}
	return problems
}

// findCycle performs a depth-first traversal with three-state coloring
// over the id -> dependency adjacency and extracts one full cycle path as
// a stable witness. An edge into an in-progress (gray) node is a
// back-edge; the cycle is reconstructed by walking the parent chain back
// to that node. Returns nil when the graph is acyclic.
func findCycle(steps []Step) []string {
	const (
		white = 0 // unvisited
		gray  = 1 // in progress
		black = 2 // done
	)

	index := make(map[string]int, len(steps))
	for i, step := range steps {
		index[step.ID] = i
	}

	color := make([]int, len(steps))
	parent := make([]int, len(steps))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int

	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, dep := range steps[u].Dependencies {
			v, ok := index[dep]
			if !ok {
				continue // dangling edge, reported separately
			}
			if color[v] == white {
				parent[v] = u
				if dfs(v) {
					return true
				}
				continue
			}
			if color[v] == gray {
				// Back-edge u -> v. Reconstruct cycle v ... u -> v.
				cycle = append(cycle, v)
				cur := u
				for cur != -1 && cur != v {
					cycle = append(cycle, cur)
					cur = parent[cur]
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for i := range steps {
		if color[i] != white {
			continue
		}
		if dfs(i) {
			break
		}
	}

	if len(cycle) == 0 {
		return nil
	}

	// The reconstruction walks parents backwards; reverse into forward
	// order so the witness reads v -> ... -> u -> v.
	out := make([]string, 0, len(cycle))
	for i := len(cycle) - 1; i >= 0; i-- {
		out = append(out, steps[cycle[i]].ID)
	}
	return out
}

func stepIDs(steps []Step) []string {
	ids := make([]string, 0, len(steps))
	for _, step := range steps {
		ids = append(ids, step.ID)
	}
	return ids
}
