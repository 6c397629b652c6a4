package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Bootstrap an isolated test environment and run the test suite"
	MsgRunShort        = "Ensure the environment, then run the test runner"
	MsgStatusShort     = "Show environment, manifest and runner status"
	MsgStatusLong      = "Report the project root, the environment and whether it exists, each manifest with a note when it changed since installation, and the runner command line."
	MsgGenConfigShort  = "Print a default envboot.toml"
	MsgGenConfigLong   = "Print the built-in default configuration with comments. Redirect it to envboot.toml in the project root to customize it."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"
	MsgManLong         = "Generate man pages for envboot and its commands into the given directory."

	// Examples
	MsgRunExample = `  envboot run                          # bootstrap and run the suite
  envboot run -- --parallel 4 auth     # runner flags go after --
  envboot run --force                  # reinstall manifests first
  envboot --dry-run run                # show what would happen`

	MsgStatusExample = `  envboot status
  envboot status --format json`

	// Version output
	MsgVersionFormat = "envboot version %s\n"
	MsgCommitFormat  = "  commit: %s\n"
	MsgBuiltFormat   = "  built:  %s\n"

	// Status messages
	MsgDryRunNotice       = "DRY RUN MODE - no changes were made and the runner was not started"
	MsgManGenerated       = "Man pages written to %s\n"
	MsgErrorFormat        = "%s %v\n"
	MsgFailedManifest     = "  manifest: %s\n"
	MsgErrorPrefix        = "envboot:"
	MsgErrFormatFlag      = "invalid --format %q"
	MsgErrStampUnreadable = "stamp unreadable: %v"
	MsgErrRunnerFlag      = "runner flags must follow \"--\" (envboot run -- --flag)"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Log what would be done without changing anything or starting the runner"
	MsgFlagForce   = "Reinstall every manifest into an existing environment"
	MsgFlagRoot    = "Project root (default: $ENVBOOT_ROOT, then the envboot executable's directory)"
	MsgFlagConfig  = "Config file (default: envboot.toml in the project root)"
	MsgFlagFormat  = "Output format: auto, term, text or json"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong = strings.TrimSpace(msgRunLongRaw)
)
