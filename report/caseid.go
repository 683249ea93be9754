package report

import (
	"regexp"
	"strconv"

	"github.com/qase-community/qase-relay/types"
)

// Executions reference tracked cases by embedding a "Qase:<id>" token
// in their display name, matched case-insensitively.
var caseIDPattern = regexp.MustCompile(`(?i)qase:(\d+)`)

// ExtractCaseID derives the tracked case ID from an execution name.
// The second return value is false when the name carries no token or
// the captured number does not fit an int64.
func ExtractCaseID(name string) (int64, bool) {
	m := caseIDPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		// Guarded even though the pattern only captures digits: an
		// absurdly long capture overflows int64, and case IDs are
		// strictly positive.
		return 0, false
	}
	return id, true
}

// CollectCaseIDs returns the distinct case IDs referenced by the given
// executions in first-seen order. Overrides maps exact execution names
// to case IDs and wins over the in-name token; it may be nil.
func CollectCaseIDs(executions []types.Execution, overrides map[string]int64) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, exec := range executions {
		id, ok := ResolveCaseID(exec.Name, overrides)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// ResolveCaseID resolves the case ID for an execution name, consulting
// the overrides map before the naming convention.
func ResolveCaseID(name string, overrides map[string]int64) (int64, bool) {
	if id, ok := overrides[name]; ok {
		return id, true
	}
	return ExtractCaseID(name)
}
