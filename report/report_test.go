package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `{
	"run": {
		"executions": [
			{
				"requestExecuted": {"name": "Login Qase:501"},
				"tests": [
					{"name": "Status code is 200"},
					{"name": "Body has token", "error": {"message": "expected token to exist"}}
				]
			},
			{
				"requestExecuted": {"name": "Logout"},
				"tests": []
			}
		]
	}
}`

func TestParse_NormalizesExecutions(t *testing.T) {
	executions, err := Parse("results.json", []byte(sampleReport))
	require.NoError(t, err)
	require.Len(t, executions, 2)

	first := executions[0]
	assert.Equal(t, "Login Qase:501", first.Name)
	require.Len(t, first.Assertions, 2)

	assert.Equal(t, "Status code is 200", first.Assertions[0].Name)
	assert.False(t, first.Assertions[0].Failed())

	assert.Equal(t, "Body has token", first.Assertions[1].Name)
	require.True(t, first.Assertions[1].Failed())
	assert.Equal(t, "expected token to exist", first.Assertions[1].Error.Message)

	// Source order is preserved.
	assert.Equal(t, "Logout", executions[1].Name)
	assert.Empty(t, executions[1].Assertions)
}

func TestParse_InvalidJSONIsParseError(t *testing.T) {
	_, err := Parse("results.json", []byte("{not json"))
	require.Error(t, err)
	assert.True(t, IsParseError(err))
	assert.False(t, IsSchemaError(err))
}

func TestParse_MissingRunIsSchemaError(t *testing.T) {
	_, err := Parse("results.json", []byte(`{"collection": {}}`))
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
	assert.Contains(t, err.Error(), "run")
}

func TestParse_MissingExecutionsIsSchemaError(t *testing.T) {
	_, err := Parse("results.json", []byte(`{"run": {}}`))
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
	assert.Contains(t, err.Error(), "run.executions")
}

func TestParse_EmptyExecutions(t *testing.T) {
	executions, err := Parse("results.json", []byte(`{"run": {"executions": []}}`))
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestLoad_ReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleReport), 0o644))

	executions, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, executions, 2)
}

func TestLoad_MissingFileIsParseError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}
