package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"

	"github.com/qase-community/qase-relay/qase"
)

const EnvVarPrefix = "QASE_RELAY"

var (
	APIToken = &cli.StringFlag{
		Name:     "api-token",
		Value:    "",
		Required: true,
		EnvVars:  opservice.PrefixEnvVar(EnvVarPrefix, "API_TOKEN"),
		Usage:    "API token for the test management service",
	}
	Project = &cli.StringFlag{
		Name:     "project",
		Value:    "",
		Required: true,
		EnvVars:  opservice.PrefixEnvVar(EnvVarPrefix, "PROJECT"),
		Usage:    "Project code in the test management service (eg. 'DEMO')",
	}
	ReportFile = &cli.StringFlag{
		Name:    "report",
		Value:   "results.json",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "REPORT"),
		Usage:   "Path to the collection-runner JSON report",
	}
	RunTitle = &cli.StringFlag{
		Name:    "run-title",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RUN_TITLE"),
		Usage:   "Title for the created test run. Defaults to a timestamp-derived title.",
	}
	APIVersion = &cli.StringFlag{
		Name:    "api-version",
		Value:   string(qase.APIVersionV2),
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "API_VERSION"),
		Usage:   "Result submission shape to use: 'v1' (per-case) or 'v2' (batch)",
	}
	APIURL = &cli.StringFlag{
		Name:    "api-url",
		Value:   qase.DefaultBaseURL,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "API_URL"),
		Usage:   "Base URL of the test management API",
	}
	MappingFile = &cli.StringFlag{
		Name:    "mapping",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "MAPPING"),
		Usage:   "Optional YAML file mapping execution names to case IDs",
	}
	CompleteRun = &cli.BoolFlag{
		Name:    "complete-run",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "COMPLETE_RUN"),
		Usage:   "Mark the run as complete after a successful submission",
	}
)

var requiredFlags = []cli.Flag{
	APIToken,
	Project,
}

var optionalFlags = []cli.Flag{
	ReportFile,
	RunTitle,
	APIVersion,
	APIURL,
	MappingFile,
	CompleteRun,
}

var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
