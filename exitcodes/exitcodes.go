// Package exitcodes defines the standard exit codes used by qase-relay.
package exitcodes

// * Success (0): Used when the report was relayed successfully (or
//   there was nothing to relay)
// * Failure (1): Used for missing required configuration and any
//   unrecovered error during execution
const (
	Success = 0
	Failure = 1
)
