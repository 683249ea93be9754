package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/qase-community/qase-relay/types"
)

// ParseError indicates the report file could not be read or is not
// valid JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse report %q: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError checks if the error is or wraps a ParseError
func IsParseError(err error) bool {
	var parseErr *ParseError
	return err != nil && errors.As(err, &parseErr)
}

// SchemaError indicates the report is valid JSON but does not have the
// expected collection-runner shape.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("report %q has unexpected shape: %s", e.Path, e.Reason)
}

// IsSchemaError checks if the error is or wraps a SchemaError
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return err != nil && errors.As(err, &schemaErr)
}

// rawReport mirrors the collection-runner export format. Only the
// fields the relay consumes are declared.
type rawReport struct {
	Run *rawRun `json:"run"`
}

type rawRun struct {
	Executions []rawExecution `json:"executions"`
}

type rawExecution struct {
	RequestExecuted rawRequest     `json:"requestExecuted"`
	Tests           []rawAssertion `json:"tests"`
}

type rawRequest struct {
	Name string `json:"name"`
}

type rawAssertion struct {
	Name  string    `json:"name"`
	Error *rawError `json:"error"`
}

type rawError struct {
	Message string `json:"message"`
}

// Load reads a collection-runner report from path and normalizes it
// into an ordered sequence of executions, preserving source order.
func Load(path string) ([]types.Execution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes report bytes. The path is only used for diagnostics.
func Parse(path string, data []byte) ([]types.Execution, error) {
	var raw rawReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if raw.Run == nil {
		return nil, &SchemaError{Path: path, Reason: "missing 'run' object"}
	}
	if raw.Run.Executions == nil {
		return nil, &SchemaError{Path: path, Reason: "missing 'run.executions' array"}
	}

	executions := make([]types.Execution, 0, len(raw.Run.Executions))
	for _, re := range raw.Run.Executions {
		exec := types.Execution{
			Name:       re.RequestExecuted.Name,
			Assertions: make([]types.Assertion, 0, len(re.Tests)),
		}
		for _, ra := range re.Tests {
			a := types.Assertion{Name: ra.Name}
			if ra.Error != nil {
				a.Error = &types.AssertionError{Message: ra.Error.Message}
			}
			exec.Assertions = append(exec.Assertions, a)
		}
		executions = append(executions, exec)
	}
	return executions, nil
}
