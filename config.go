package relay

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/qase-community/qase-relay/flags"
	"github.com/qase-community/qase-relay/qase"
)

// Config holds the application configuration
type Config struct {
	APIToken    string
	Project     string
	APIURL      string
	APIVersion  qase.APIVersion // Result submission shape to use
	ReportFile  string          // Absolute path to the collection-runner report
	RunTitle    string          // Title for the created test run
	MappingFile string          // Optional YAML overrides file, empty when unused
	CompleteRun bool            // Mark the run complete after submission
	Log         log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, NewConfigError(fmt.Errorf("missing required flags: %w", err))
	}

	token := ctx.String(flags.APIToken.Name)
	if token == "" {
		return nil, NewConfigError(errors.New("API token is required"))
	}
	project := ctx.String(flags.Project.Name)
	if project == "" {
		return nil, NewConfigError(errors.New("project code is required"))
	}

	version := qase.APIVersion(ctx.String(flags.APIVersion.Name))
	if !version.IsValid() {
		return nil, NewConfigError(fmt.Errorf("invalid API version %q. Must be one of: %s, %s",
			string(version), qase.APIVersionV1, qase.APIVersionV2))
	}

	reportFile := ctx.String(flags.ReportFile.Name)
	absReportFile, err := filepath.Abs(reportFile)
	if err != nil {
		return nil, NewConfigError(fmt.Errorf("failed to resolve absolute path for report '%s': %w", reportFile, err))
	}

	mappingFile := ctx.String(flags.MappingFile.Name)
	if mappingFile != "" {
		mappingFile, err = filepath.Abs(mappingFile)
		if err != nil {
			return nil, NewConfigError(fmt.Errorf("failed to resolve absolute path for mapping file: %w", err))
		}
	}

	title := ctx.String(flags.RunTitle.Name)
	if title == "" {
		title = DefaultRunTitle(time.Now())
	}

	return &Config{
		APIToken:    token,
		Project:     project,
		APIURL:      ctx.String(flags.APIURL.Name),
		APIVersion:  version,
		ReportFile:  absReportFile,
		RunTitle:    title,
		MappingFile: mappingFile,
		CompleteRun: ctx.Bool(flags.CompleteRun.Name),
		Log:         logger,
	}, nil
}

// DefaultRunTitle derives the run title used when none is configured.
func DefaultRunTitle(now time.Time) string {
	return fmt.Sprintf("Automated run %s", now.UTC().Format(time.RFC3339))
}
