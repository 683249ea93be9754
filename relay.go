package relay

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/optimism/op-service/cliapp"

	"github.com/qase-community/qase-relay/mapping"
	"github.com/qase-community/qase-relay/metrics"
	"github.com/qase-community/qase-relay/qase"
	"github.com/qase-community/qase-relay/reconcile"
	"github.com/qase-community/qase-relay/report"
	"github.com/qase-community/qase-relay/types"
)

// relay implements the cliapp.Lifecycle interface.
var _ cliapp.Lifecycle = &relay{}

// RunAPI covers the remote operations the pipeline performs outside of
// result submission.
type RunAPI interface {
	CreateRun(ctx context.Context, title string, caseIDs []int64) (int64, error)
	GetCaseSteps(ctx context.Context, caseID int64) ([]types.CaseStep, error)
	CompleteRun(ctx context.Context, runID int64) error
}

var _ RunAPI = &qase.Client{}

// relay reconciles a collection-runner report with the test management
// service and publishes the outcome as a test run.
type relay struct {
	ctx        context.Context
	config     *Config
	version    string
	api        RunAPI
	publisher  qase.Publisher
	aggregator *reconcile.Aggregator
	overrides  map[string]int64
	runID      string // local correlation ID for logs and metrics

	running atomic.Bool

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*relay, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating relay with config",
		"project", config.Project,
		"reportFile", config.ReportFile,
		"apiVersion", config.APIVersion,
		"completeRun", config.CompleteRun)

	overrides, err := mapping.Load(config.MappingFile, config.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to load mapping overrides: %w", err)
	}

	client := qase.NewClient(qase.ClientConfig{
		BaseURL: config.APIURL,
		Token:   config.APIToken,
		Project: config.Project,
	})
	publisher, err := qase.NewPublisher(client, config.APIVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	return &relay{
		ctx:              ctx,
		config:           config,
		version:          version,
		api:              client,
		publisher:        publisher,
		aggregator:       reconcile.NewAggregator(reconcile.ExactMatcher{}),
		overrides:        overrides,
		runID:            uuid.New().String(),
		shutdownCallback: shutdownCallback,
	}, nil
}

// Start runs the relay pipeline once and triggers shutdown.
// Start implements the cliapp.Lifecycle interface.
func (r *relay) Start(ctx context.Context) error {
	r.ctx = ctx
	r.running.Store(true)

	r.config.Log.Info("Starting qase-relay", "version", r.version, "run_id", r.runID)

	if err := r.run(ctx); err != nil {
		r.config.Log.Error("Relay failed", "run_id", r.runID, "error", err)
		metrics.RecordError("relay_failed")
		return err
	}

	go func() {
		r.shutdownCallback(nil)
	}()
	return nil
}

// run executes the full pipeline: load, extract, create run,
// reconcile, publish. Every external call is awaited before the next
// one is issued; report order is preserved throughout.
func (r *relay) run(ctx context.Context) error {
	start := time.Now()

	executions, err := report.Load(r.config.ReportFile)
	if err != nil {
		return err
	}
	r.config.Log.Info("Report loaded", "file", r.config.ReportFile, "executions", len(executions))

	caseIDs := report.CollectCaseIDs(executions, r.overrides)
	if len(caseIDs) == 0 {
		r.config.Log.Warn("No executions reference a tracked case; skipping run creation")
		fmt.Println("Nothing to relay: no execution names carry a case token.")
		return nil
	}
	r.config.Log.Info("Case IDs discovered", "count", len(caseIDs), "cases", caseIDs)

	remoteRunID, err := r.api.CreateRun(ctx, r.config.RunTitle, caseIDs)
	if err != nil {
		return fmt.Errorf("failed to create test run: %w", err)
	}
	r.config.Log.Info("Test run created", "remote_run_id", remoteRunID, "title", r.config.RunTitle)

	var results []types.RunResult
	for _, exec := range executions {
		caseID, ok := report.ResolveCaseID(exec.Name, r.overrides)
		if !ok {
			r.config.Log.Debug("Skipping execution without case token", "name", exec.Name)
			continue
		}

		steps, err := r.api.GetCaseSteps(ctx, caseID)
		if err != nil {
			return fmt.Errorf("failed to fetch steps for case %d: %w", caseID, err)
		}

		result := r.aggregator.Aggregate(exec, caseID, steps)
		r.config.Log.Info("Execution reconciled",
			"name", exec.Name,
			"case_id", caseID,
			"steps", len(steps),
			"status", result.Status)
		metrics.RecordExecution(r.config.Project, r.runID, result.Status)

		results = append(results, result)
	}

	if err := r.publisher.Submit(ctx, remoteRunID, results); err != nil {
		return fmt.Errorf("failed to submit results: %w", err)
	}
	r.config.Log.Info("Results submitted", "remote_run_id", remoteRunID, "results", len(results))

	if r.config.CompleteRun {
		if err := r.api.CompleteRun(ctx, remoteRunID); err != nil {
			return fmt.Errorf("failed to complete run: %w", err)
		}
		r.config.Log.Info("Test run completed", "remote_run_id", remoteRunID)
	}

	r.printResultsTable(remoteRunID, results, time.Since(start))
	metrics.RecordRelay(r.config.Project, r.runID, len(results), time.Since(start))

	passed, failed := countResults(results)
	fmt.Printf("Relayed %d result(s) to run %d: %d passed, %d failed\n",
		len(results), remoteRunID, passed, failed)
	return nil
}

// Stop stops the relay service.
// Stop implements the cliapp.Lifecycle interface.
func (r *relay) Stop(ctx context.Context) error {
	r.config.Log.Info("Stopping qase-relay")
	r.running.Store(false)
	return nil
}

// Stopped returns true if the relay service is stopped.
// Stopped implements the cliapp.Lifecycle interface.
func (r *relay) Stopped() bool {
	return !r.running.Load()
}

// printResultsTable prints the relayed results to the console.
func (r *relay) printResultsTable(remoteRunID int64, results []types.RunResult, duration time.Duration) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("Relayed Results — run %d (%s)", remoteRunID, formatDuration(duration)))

	t.AppendHeader(table.Row{"Execution", "Case", "Steps", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Execution", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Case", Align: text.AlignRight},
		{Name: "Steps", Align: text.AlignRight},
	})

	anyFailed := false
	for _, res := range results {
		if res.Status == types.StatusFailed {
			anyFailed = true
		}
		t.AppendRow(table.Row{
			res.Title,
			res.CaseID,
			len(res.Steps),
			getResultString(res.Status),
		})
	}

	if anyFailed {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	passed, failed := countResults(results)
	t.AppendFooter(table.Row{"TOTAL", "", len(results), fmt.Sprintf("%d passed, %d failed", passed, failed)})

	t.Render()
}

func countResults(results []types.RunResult) (passed, failed int) {
	for _, res := range results {
		if res.Status == types.StatusPassed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// getResultString returns a colored string representing the verdict
func getResultString(status types.Status) string {
	if status == types.StatusPassed {
		return "✓ passed"
	}
	return "✗ failed"
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
