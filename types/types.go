package types

// Status represents the possible outcomes of a step or an execution.
// The values double as the wire strings expected by the test
// management API.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// Execution is one performed request from the collection-runner
// report, together with its assertion outcomes. Executions are built
// once by the report loader and never mutated afterwards.
type Execution struct {
	Name       string
	Assertions []Assertion
}

// Assertion is one individual check performed during an Execution.
// Error is nil iff the check passed.
type Assertion struct {
	Name  string
	Error *AssertionError
}

// AssertionError carries the failure detail of an assertion.
type AssertionError struct {
	Message string
}

// Failed reports whether the assertion carries an error.
func (a Assertion) Failed() bool {
	return a.Error != nil
}

// CaseStep is one expected verification step defined for a case in
// the external system.
type CaseStep struct {
	Position       int    `json:"position"`
	Action         string `json:"action"`
	ExpectedResult string `json:"expected_result"`
}

// StepVerdict pairs a case step position with the derived status.
type StepVerdict struct {
	Position int    `json:"position"`
	Status   Status `json:"status"`
}

// RunResult is the submission record for one Execution.
type RunResult struct {
	Title   string
	CaseID  int64
	Status  Status
	Comment string
	Steps   []StepVerdict
}
