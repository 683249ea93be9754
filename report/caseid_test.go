package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qase-community/qase-relay/types"
)

func TestExtractCaseID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID int64
		wantOK bool
	}{
		{"uppercase token", "Login Qase:12", 12, true},
		{"lowercase token", "Login qase:12", 12, true},
		{"mixed case token", "Login QASE:12", 12, true},
		{"token mid-name", "Qase:7 Login", 7, true},
		{"no token", "Login", 0, false},
		{"token without digits", "Login Qase:", 0, false},
		{"first token wins", "Qase:1 and Qase:2", 1, true},
		{"overflowing capture", "Qase:99999999999999999999999999", 0, false},
		{"zero is not a valid case", "Qase:0", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractCaseID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestCollectCaseIDs_DedupesInFirstSeenOrder(t *testing.T) {
	executions := []types.Execution{
		{Name: "Login Qase:501"},
		{Name: "Create item Qase:502"},
		{Name: "Login again qase:501"},
		{Name: "Untracked request"},
	}

	ids := CollectCaseIDs(executions, nil)
	require.Equal(t, []int64{501, 502}, ids)
}

func TestCollectCaseIDs_EmptyWhenNoTokens(t *testing.T) {
	executions := []types.Execution{
		{Name: "Login"},
		{Name: "Logout"},
	}
	assert.Empty(t, CollectCaseIDs(executions, nil))
}

func TestResolveCaseID_OverridesWinOverToken(t *testing.T) {
	overrides := map[string]int64{
		"Login Qase:501": 700,
		"Healthcheck":    701,
	}

	id, ok := ResolveCaseID("Login Qase:501", overrides)
	require.True(t, ok)
	assert.Equal(t, int64(700), id)

	id, ok = ResolveCaseID("Healthcheck", overrides)
	require.True(t, ok)
	assert.Equal(t, int64(701), id)

	_, ok = ResolveCaseID("Unmapped", overrides)
	assert.False(t, ok)
}
