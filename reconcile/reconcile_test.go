package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qase-community/qase-relay/types"
)

func TestUnescapeMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Status code is 200", "Status code is 200"},
		{"escaped brackets", `Response \[body\] is valid`, "Response [body] is valid"},
		{"escaped punctuation mix", `Value \> 0 and \_id\_ set`, `Value \> 0 and _id_ set`},
		{"escaped backslash", `path is C:\\temp`, `path is C:\temp`},
		{"escaped dot and dash", `Ends with \. and \-`, "Ends with . and -"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnescapeMarkdown(tt.in))
		})
	}
}

func TestUnescapeMarkdown_Idempotent(t *testing.T) {
	inputs := []string{
		"Status code is 200",
		`Response \[body\] is valid`,
		`a \* b \+ c \! d`,
	}
	for _, in := range inputs {
		once := UnescapeMarkdown(in)
		assert.Equal(t, once, UnescapeMarkdown(once))
	}
}

func TestExactMatcher_MatchesAfterUnescape(t *testing.T) {
	assertions := []types.Assertion{
		{Name: "Response [body] is valid"},
		{Name: "Status code is 200"},
	}

	m := ExactMatcher{}
	a, ok := m.Match(`Response \[body\] is valid`, assertions)
	require.True(t, ok)
	assert.Equal(t, "Response [body] is valid", a.Name)

	_, ok = m.Match("Something else entirely", assertions)
	assert.False(t, ok)
}

func TestExactMatcher_TiesBrokenByAssertionOrder(t *testing.T) {
	failed := &types.AssertionError{Message: "boom"}
	assertions := []types.Assertion{
		{Name: "Status code is 200", Error: failed},
		{Name: "Status code is 200"},
	}

	a, ok := ExactMatcher{}.Match("Status code is 200", assertions)
	require.True(t, ok)
	assert.True(t, a.Failed(), "first structurally equal assertion wins")
}

func TestAggregate_PassingScenario(t *testing.T) {
	exec := types.Execution{
		Name:       "Login Qase:501",
		Assertions: []types.Assertion{{Name: "Status code is 200"}},
	}
	steps := []types.CaseStep{
		{Position: 1, Action: "Send request", ExpectedResult: "Status code is 200"},
	}

	result := NewAggregator(nil).Aggregate(exec, 501, steps)

	assert.Equal(t, "Login Qase:501", result.Title)
	assert.Equal(t, int64(501), result.CaseID)
	assert.Equal(t, types.StatusPassed, result.Status)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, types.StepVerdict{Position: 1, Status: types.StatusPassed}, result.Steps[0])
	assert.Equal(t, "✅ Status code is 200", result.Comment)
}

func TestAggregate_FailingAssertionPropagates(t *testing.T) {
	exec := types.Execution{
		Name: "Login Qase:501",
		Assertions: []types.Assertion{
			{Name: "Status code is 200", Error: &types.AssertionError{Message: "expected 200 got 500"}},
		},
	}
	steps := []types.CaseStep{
		{Position: 1, Action: "Send request", ExpectedResult: "Status code is 200"},
	}

	result := NewAggregator(nil).Aggregate(exec, 501, steps)

	assert.Equal(t, types.StatusFailed, result.Status)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, types.StatusFailed, result.Steps[0].Status)
	assert.Contains(t, result.Comment, "❌ Status code is 200: expected 200 got 500")
}

func TestAggregate_UnmatchedStepsFail(t *testing.T) {
	exec := types.Execution{Name: "Login Qase:501"}
	steps := []types.CaseStep{
		{ExpectedResult: "Never observed"},
		{ExpectedResult: "Also never observed"},
	}

	result := NewAggregator(nil).Aggregate(exec, 501, steps)

	assert.Equal(t, types.StatusFailed, result.Status)
	for _, v := range result.Steps {
		assert.Equal(t, types.StatusFailed, v.Status)
	}
}

func TestAggregate_EmptyStepsPass(t *testing.T) {
	exec := types.Execution{
		Name:       "Login Qase:501",
		Assertions: []types.Assertion{{Name: "Status code is 200"}},
	}

	result := NewAggregator(nil).Aggregate(exec, 501, nil)

	assert.Equal(t, types.StatusPassed, result.Status)
	assert.Empty(t, result.Steps)
}

func TestAggregate_PositionDefaultsToIndex(t *testing.T) {
	exec := types.Execution{Name: "Login Qase:501"}
	steps := []types.CaseStep{
		{ExpectedResult: "a"},
		{Position: 9, ExpectedResult: "b"},
		{ExpectedResult: "c"},
	}

	result := NewAggregator(nil).Aggregate(exec, 501, steps)

	require.Len(t, result.Steps, 3)
	assert.Equal(t, 1, result.Steps[0].Position)
	assert.Equal(t, 9, result.Steps[1].Position)
	assert.Equal(t, 3, result.Steps[2].Position)
}

// Assertions with no corresponding step stay out of the verdicts but
// are still rendered in the comment.
func TestAggregate_ExtraAssertionsOnlyInComment(t *testing.T) {
	exec := types.Execution{
		Name: "Login Qase:501",
		Assertions: []types.Assertion{
			{Name: "Status code is 200"},
			{Name: "Untracked latency check"},
		},
	}
	steps := []types.CaseStep{
		{Position: 1, ExpectedResult: "Status code is 200"},
	}

	result := NewAggregator(nil).Aggregate(exec, 501, steps)

	assert.Equal(t, types.StatusPassed, result.Status)
	require.Len(t, result.Steps, 1)
	assert.Contains(t, result.Comment, "✅ Untracked latency check")
}

func TestRenderComment_AssertionOrderAndANSIStripping(t *testing.T) {
	assertions := []types.Assertion{
		{Name: "First check"},
		{Name: "\x1b[31mColored check\x1b[0m", Error: &types.AssertionError{Message: "\x1b[1mexpected 200 got 500\x1b[0m"}},
		{Name: "Last check"},
	}

	comment := RenderComment(assertions)
	assert.Equal(t, "✅ First check\n❌ Colored check: expected 200 got 500\n✅ Last check", comment)
}

func TestRenderComment_EmptyAssertions(t *testing.T) {
	assert.Equal(t, "", RenderComment(nil))
}
