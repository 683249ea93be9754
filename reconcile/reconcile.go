// Package reconcile matches local assertion outcomes against the
// expected verification steps tracked in the external system and
// produces the submission record for one execution.
package reconcile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/acarl005/stripansi"

	"github.com/qase-community/qase-relay/types"
)

// Matcher finds the local assertion corresponding to an expected
// result string. Implementations must be deterministic; ties are
// broken by assertion order.
type Matcher interface {
	Match(expectedResult string, assertions []types.Assertion) (types.Assertion, bool)
}

// ExactMatcher matches by string equality after markdown-unescaping
// the expected result.
type ExactMatcher struct{}

func (ExactMatcher) Match(expectedResult string, assertions []types.Assertion) (types.Assertion, bool) {
	want := UnescapeMarkdown(expectedResult)
	for _, a := range assertions {
		if a.Name == want {
			return a, true
		}
	}
	return types.Assertion{}, false
}

// The external system stores expected results as markdown, escaping
// punctuation with backslashes.
var markdownEscape = regexp.MustCompile("\\\\([\\\\`*_{}\\[\\]()#+\\-.!])")

// UnescapeMarkdown reduces backslash-escaped markdown punctuation to
// the bare character. Idempotent on already-unescaped text.
func UnescapeMarkdown(s string) string {
	return markdownEscape.ReplaceAllString(s, "$1")
}

// Aggregator reconciles one execution with its fetched case steps.
type Aggregator struct {
	matcher Matcher
}

// NewAggregator creates an Aggregator. A nil matcher defaults to
// ExactMatcher.
func NewAggregator(matcher Matcher) *Aggregator {
	if matcher == nil {
		matcher = ExactMatcher{}
	}
	return &Aggregator{matcher: matcher}
}

// Aggregate derives per-step verdicts and the overall status for an
// execution. A step with no matching assertion is failed: an expected
// step that was never observed cannot be presumed to have passed. An
// empty step sequence yields an overall pass. The comment always
// reflects the full local assertion set, independent of matching.
func (g *Aggregator) Aggregate(exec types.Execution, caseID int64, steps []types.CaseStep) types.RunResult {
	result := types.RunResult{
		Title:   exec.Name,
		CaseID:  caseID,
		Status:  types.StatusPassed,
		Comment: RenderComment(exec.Assertions),
		Steps:   make([]types.StepVerdict, 0, len(steps)),
	}

	for i, step := range steps {
		position := step.Position
		if position == 0 {
			position = i + 1
		}

		status := types.StatusFailed
		if a, ok := g.matcher.Match(step.ExpectedResult, exec.Assertions); ok && !a.Failed() {
			status = types.StatusPassed
		}
		if status == types.StatusFailed {
			result.Status = types.StatusFailed
		}

		result.Steps = append(result.Steps, types.StepVerdict{
			Position: position,
			Status:   status,
		})
	}

	return result
}

// RenderComment renders every assertion as one line, in assertion
// order: a check-mark line for a pass, a cross line with the error
// message for a failure. ANSI escapes from the runner's colored output
// are stripped before rendering.
func RenderComment(assertions []types.Assertion) string {
	lines := make([]string, 0, len(assertions))
	for _, a := range assertions {
		name := stripansi.Strip(a.Name)
		if a.Failed() {
			lines = append(lines, fmt.Sprintf("❌ %s: %s", name, stripansi.Strip(a.Error.Message)))
		} else {
			lines = append(lines, fmt.Sprintf("✅ %s", name))
		}
	}
	return strings.Join(lines, "\n")
}
