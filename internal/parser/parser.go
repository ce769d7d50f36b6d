// Package parser matches free-text input from the terminal front end against
// the loaded action names, tolerating typos.
package parser

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/talgya/ambition/internal/masterdata"
)

// Normalize lowercases, trims, and collapses whitespace.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(raw))), " ")
}

// distance limit scales with the candidate length so short names don't match
// everything.
func limitFor(candidate string) int {
	switch {
	case len(candidate) <= 4:
		return 1
	case len(candidate) <= 8:
		return 2
	}
	return 3
}

// Match finds the action whose name best matches the input. Exact matches
// (case-insensitive) win outright; otherwise the closest name within the
// levenshtein limit is chosen. Ties break on the lexically smaller name so
// matching is deterministic.
func Match(input string, actions []*masterdata.Action) (*masterdata.Action, bool) {
	norm := Normalize(input)
	if norm == "" {
		return nil, false
	}

	for _, a := range actions {
		if Normalize(a.Name) == norm {
			return a, true
		}
	}

	type scored struct {
		action *masterdata.Action
		dist   int
	}
	var candidates []scored
	for _, a := range actions {
		cand := Normalize(a.Name)
		dist := levenshtein.ComputeDistance(norm, cand)
		if dist <= limitFor(cand) {
			candidates = append(candidates, scored{action: a, dist: dist})
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].action.Name < candidates[j].action.Name
	})
	return candidates[0].action, true
}
